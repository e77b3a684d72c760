package report

import (
	"time"

	"github.com/SpiceSniper/port-explorer/internal/scanner"
	"gorm.io/datatypes"
)

// Report represents one completed scan of a target
type Report struct {
	ID        string
	Target    string
	StartPort int
	EndPort   int
	Duration  time.Duration
	Results   []scanner.Result
	CreatedAt time.Time
}

// OpenPortCount returns the number of open ports found by the scan
func (r *Report) OpenPortCount() int {
	return len(r.Results)
}

// ReportModel database model for a stored scan report
type ReportModel struct {
	ID         string `gorm:"primaryKey"`
	Target     string
	StartPort  int
	EndPort    int
	DurationNs int64
	Results    datatypes.JSON
	CreatedAt  time.Time
}
