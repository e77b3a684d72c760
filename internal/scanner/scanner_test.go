package scanner_test

import (
	"net"
	"net/http"
	"net/netip"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SpiceSniper/port-explorer/internal/event"
	"github.com/SpiceSniper/port-explorer/internal/scanner"
	"github.com/SpiceSniper/port-explorer/internal/signature"
	"github.com/stretchr/testify/assert"
)

var loopback = netip.MustParseAddr("127.0.0.1")

// startHTTPListener serves handler on a random loopback port and
// returns the port
func startHTTPListener(t *testing.T, handler http.Handler) uint16 {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")

	if err != nil {
		t.Logf("failed to start test listener: %s", err.Error())
		t.FailNow()
	}

	srv := &http.Server{Handler: handler}

	go func() {
		_ = srv.Serve(ln)
	}()

	t.Cleanup(func() {
		_ = srv.Close()
	})

	return uint16(ln.Addr().(*net.TCPAddr).Port)
}

func TestPortScanner(t *testing.T) {
	t.Run("returns empty report for empty port set", func(st *testing.T) {
		s := scanner.NewPortScanner(loopback, nil, 10, event.NewEventManager())

		results, err := s.Scan([]uint16{})

		assert.NoError(st, err)
		assert.Len(st, results, 0)
	})

	t.Run("omits closed ports from the report", func(st *testing.T) {
		s := scanner.NewPortScanner(loopback, nil, 1, event.NewEventManager())

		results, err := s.Scan([]uint16{65534})

		assert.NoError(st, err)
		assert.Len(st, results, 0)
	})

	t.Run("identifies a service from its response body", func(st *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("Server: TestSig"))
		})

		port := startHTTPListener(st, handler)

		signatures := []signature.Signature{
			{Name: "Test", Match: "Server: TestSig"},
		}

		s := scanner.NewPortScanner(loopback, signatures, 1, event.NewEventManager())

		results, err := s.Scan([]uint16{port})

		assert.NoError(st, err)
		assert.Equal(st, []scanner.Result{{Port: port, Service: "Test"}}, results)
	})

	t.Run("reports open but unidentified when nothing matches", func(st *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("hello"))
		})

		port := startHTTPListener(st, handler)

		signatures := []signature.Signature{
			{Name: "Test", Match: "zzz"},
		}

		s := scanner.NewPortScanner(loopback, signatures, 1, event.NewEventManager())

		results, err := s.Scan([]uint16{port})

		assert.NoError(st, err)
		assert.Equal(st, []scanner.Result{{Port: port}}, results)
	})

	t.Run("reports open when the service never speaks HTTP", func(st *testing.T) {
		// a raw listener that accepts connections but stays silent:
		// the connect succeeds, the identification request times out
		ln, err := net.Listen("tcp", "127.0.0.1:0")

		if err != nil {
			st.Logf("failed to start test listener: %s", err.Error())
			st.FailNow()
		}

		st.Cleanup(func() {
			_ = ln.Close()
		})

		go func() {
			for {
				conn, err := ln.Accept()

				if err != nil {
					return
				}

				go func(c net.Conn) {
					time.Sleep(2 * time.Second)
					_ = c.Close()
				}(conn)
			}
		}()

		port := uint16(ln.Addr().(*net.TCPAddr).Port)

		signatures := []signature.Signature{
			{Name: "Test", Match: "Server"},
		}

		s := scanner.NewPortScanner(loopback, signatures, 1, event.NewEventManager())

		results, err := s.Scan([]uint16{port})

		assert.NoError(st, err)
		assert.Equal(st, []scanner.Result{{Port: port}}, results)
	})

	t.Run("sends identifying user agent", func(st *testing.T) {
		var agent atomic.Value

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			agent.Store(r.UserAgent())
		})

		port := startHTTPListener(st, handler)

		s := scanner.NewPortScanner(loopback, nil, 1, event.NewEventManager())

		_, err := s.Scan([]uint16{port})

		assert.NoError(st, err)
		assert.Equal(st, "port-explorer", agent.Load())
	})

	t.Run("returns report sorted by port with no duplicates", func(st *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("ok"))
		})

		open := []uint16{}

		for i := 0; i < 5; i++ {
			open = append(open, startHTTPListener(st, handler))
		}

		// mix in ports that have nothing listening
		ports := append([]uint16{}, open...)
		ports = append(ports, 65532, 65533, 65534)

		sort.Slice(ports, func(i, j int) bool { return ports[i] < ports[j] })

		s := scanner.NewPortScanner(loopback, nil, 4, event.NewEventManager())

		results, err := s.Scan(ports)

		assert.NoError(st, err)
		assert.Len(st, results, len(open))

		sort.Slice(open, func(i, j int) bool { return open[i] < open[j] })

		for i, result := range results {
			assert.Equal(st, open[i], result.Port)

			if i > 0 {
				assert.Greater(st, result.Port, results[i-1].Port)
			}
		}
	})

	t.Run("never exceeds the configured worker count", func(st *testing.T) {
		var active atomic.Int32
		var peak atomic.Int32

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			current := active.Add(1)

			for {
				highest := peak.Load()

				if current <= highest || peak.CompareAndSwap(highest, current) {
					break
				}
			}

			time.Sleep(50 * time.Millisecond)
			active.Add(-1)
		})

		ports := []uint16{}

		for i := 0; i < 6; i++ {
			ports = append(ports, startHTTPListener(st, handler))
		}

		sort.Slice(ports, func(i, j int) bool { return ports[i] < ports[j] })

		s := scanner.NewPortScanner(loopback, nil, 2, event.NewEventManager())

		results, err := s.Scan(ports)

		assert.NoError(st, err)
		assert.Len(st, results, len(ports))
		assert.LessOrEqual(st, peak.Load(), int32(2))
	})

	t.Run("publishes progress once per completed probe", func(st *testing.T) {
		events := event.NewEventManager()

		progressChan := make(chan event.Event, 8)
		completeChan := make(chan event.Event, 1)

		events.RegisterListener(event.ScanProgressEventType, progressChan)
		events.RegisterListener(event.ScanCompleteEventType, completeChan)

		ports := []uint16{65531, 65532, 65533}

		s := scanner.NewPortScanner(loopback, nil, 2, events)

		_, err := s.Scan(ports)

		assert.NoError(st, err)

		completed := []int{}

		for i := 0; i < len(ports); i++ {
			evt := <-progressChan

			progress, ok := evt.Payload.(event.Progress)

			assert.True(st, ok)
			assert.Equal(st, len(ports), progress.Total)

			completed = append(completed, progress.Completed)
		}

		// one notification per probe, counter strictly monotonic
		sort.Ints(completed)
		assert.Equal(st, []int{1, 2, 3}, completed)

		final := <-completeChan

		assert.Equal(st, event.ScanCompleteEventType, final.Type)
	})
}
