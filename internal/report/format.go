package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/SpiceSniper/port-explorer/internal/locale"
)

// FormatDuration renders a duration in its largest appropriate units
func FormatDuration(d time.Duration) string {
	totalSecs := int64(d.Seconds())
	hours := totalSecs / 3600
	minutes := (totalSecs % 3600) / 60
	seconds := totalSecs % 60
	millis := d.Milliseconds() % 1000

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	case seconds > 0:
		return fmt.Sprintf("%ds %dms", seconds, millis)
	case millis > 0:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}

// LogFileName returns the timestamped file name for a scan log
func LogFileName(t time.Time) string {
	return fmt.Sprintf("scan_%s.log", t.Format("20060102_150405"))
}

// Render writes the human readable form of a completed scan report.
// All user facing labels come from the provided locale.
func Render(w io.Writer, rep *Report, loc *locale.Locale) error {
	var b strings.Builder

	duration := FormatDuration(rep.Duration)

	fmt.Fprintf(&b, "%s %s\n", loc.Get("scan_started"), rep.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "%s %d-%d\n", loc.Get("port_range"), rep.StartPort, rep.EndPort)
	fmt.Fprintf(&b, "%s %s\n", loc.Get("duration"), duration)
	fmt.Fprintf(&b, "%s %s\n", loc.Get("target"), rep.Target)

	if rep.OpenPortCount() == 0 {
		fmt.Fprintf(&b, "%s %s\n", loc.Get("no_open_ports"), rep.Target)
	} else {
		fmt.Fprintf(&b, "%s %s:\n", loc.Get("open_ports"), rep.Target)

		for _, result := range rep.Results {
			service := result.Service

			if service == "" {
				service = loc.Get("open")
			}

			fmt.Fprintf(&b, "%d: %s\n", result.Port, service)
		}
	}

	fmt.Fprintf(&b, "%s %d-%d\n", loc.Get("scanned_ports"), rep.StartPort, rep.EndPort)
	fmt.Fprintf(&b, "%s %s\n", loc.Get("duration"), duration)
	fmt.Fprintf(&b, "%s %d\n", loc.Get("open_ports_count"), rep.OpenPortCount())

	_, err := io.WriteString(w, b.String())

	return err
}
