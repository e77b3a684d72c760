package scanner

// Scanner interface for probing a range of ports on a target
type Scanner interface {
	Scan(ports []uint16) ([]Result, error)
}
