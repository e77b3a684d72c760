package scanner

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/SpiceSniper/port-explorer/internal/event"
	"github.com/SpiceSniper/port-explorer/internal/logger"
	"github.com/SpiceSniper/port-explorer/internal/signature"
	"golang.org/x/sync/errgroup"
)

const (
	// connection attempts past this deadline mean the port is closed
	connectTimeout = 200 * time.Millisecond
	// upper bound on the whole identification request
	requestTimeout = time.Second
	userAgent      = "port-explorer"
)

// PortScanner probes a single target across a set of ports using a
// bounded pool of workers and identifies services from HTTP response
// bodies. The target address and signature list are read-only for the
// scanner's lifetime.
type PortScanner struct {
	target     netip.Addr
	signatures []signature.Signature
	maxWorkers int
	events     event.Manager
	log        logger.Logger
}

// NewPortScanner returns a new instance of PortScanner
func NewPortScanner(
	target netip.Addr,
	signatures []signature.Signature,
	maxWorkers int,
	events event.Manager,
) *PortScanner {
	return &PortScanner{
		target:     target,
		signatures: signatures,
		maxWorkers: maxWorkers,
		events:     events,
		log:        logger.New(),
	}
}

// Scan probes every port in ports and returns the open ones sorted
// ascending. Ports are submitted in ascending order but complete in
// whatever order the workers finish; the report is sorted once after
// all probes are done. Scan always drains every submitted probe; there
// is no cancellation or early-exit path, so a target full of
// slow-to-time-out filtered ports bounds the total wall time at
// roughly ports / maxWorkers * probe timeouts. Individual probe
// failures are never surfaced to the caller.
func (s *PortScanner) Scan(ports []uint16) ([]Result, error) {
	results := []Result{}
	mux := sync.Mutex{}

	var completed atomic.Int64
	total := len(ports)

	pool := errgroup.Group{}
	pool.SetLimit(s.maxWorkers)

	for _, port := range ports {
		port := port

		pool.Go(func() error {
			defer func() {
				// a crashed probe is logged and counted so the drain
				// barrier below still completes; the scan itself
				// carries on
				if r := recover(); r != nil {
					s.log.Error().
						Uint16("port", port).
						Interface("panic", r).
						Msg("probe crashed")

					s.events.ReportFatalError(
						fmt.Errorf("probe for port %d crashed: %v", port, r),
					)
				}

				done := int(completed.Add(1))

				s.events.Send(event.Event{
					Type:    event.ScanProgressEventType,
					Payload: event.Progress{Completed: done, Total: total},
				})
			}()

			result, open := s.probe(port)

			if !open {
				return nil
			}

			mux.Lock()
			results = append(results, result)
			mux.Unlock()

			return nil
		})
	}

	// workers never return errors: probe failures are part of the
	// protocol, not scan failures
	if err := pool.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Port < results[j].Port
	})

	s.events.Send(event.Event{
		Type:    event.ScanCompleteEventType,
		Payload: event.Progress{Completed: total, Total: total},
	})

	return results, nil
}

// probe runs the per-port protocol: a bounded TCP connect, then a
// best-effort HTTP GET whose body is matched against the signature
// list. A failed connect means closed (no result). Any failure after
// the connect still reports the port open with an unidentified
// service.
func (s *PortScanner) probe(port uint16) (Result, bool) {
	addrPort := netip.AddrPortFrom(s.target, port)

	conn, err := net.DialTimeout("tcp", addrPort.String(), connectTimeout)

	if err != nil {
		return Result{}, false
	}

	if err := conn.Close(); err != nil {
		s.log.Debug().Err(err).Uint16("port", port).Msg("failed to close probe connection")
	}

	result := Result{Port: port}

	client := &http.Client{
		Timeout: requestTimeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("http://%s/", addrPort), nil)

	if err != nil {
		return result, true
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)

	if err != nil {
		return result, true
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)

	if err != nil {
		return result, true
	}

	if name, ok := signature.Identify(string(body), s.signatures); ok {
		result.Service = name
	}

	return result, true
}
