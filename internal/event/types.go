package event

type EventType string

const (
	// ScanProgressEventType emitted once per completed port probe
	ScanProgressEventType EventType = "scan-progress"
	// ScanCompleteEventType emitted after the final report is assembled
	ScanCompleteEventType EventType = "scan-complete"
	// FatalErrorEventType emitted for unrecoverable errors
	FatalErrorEventType EventType = "fatal-error"
)

// Event data structure representing any event we may want to react to
type Event struct {
	Type    EventType
	Payload any
}

// Progress is the payload carried by scan-progress events
type Progress struct {
	Completed int
	Total     int
}
