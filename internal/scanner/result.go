package scanner

// Result represents one open port found during a scan. Service is
// empty when the port accepted a connection but no signature matched
// or no response body could be retrieved. Closed ports produce no
// Result at all.
type Result struct {
	Port    uint16 `json:"port"`
	Service string `json:"service,omitempty"`
}
