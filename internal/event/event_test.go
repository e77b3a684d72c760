package event_test

import (
	"errors"
	"testing"

	"github.com/SpiceSniper/port-explorer/internal/event"
	"github.com/magiconair/properties/assert"
)

func TestEventManager(t *testing.T) {
	t.Run("registers event listener and sends event", func(st *testing.T) {
		eventManager := event.NewEventManager()

		listener := make(chan event.Event)

		eventManager.RegisterListener(event.ScanProgressEventType, listener)

		eventManager.Send(event.Event{
			Type:    "a-different-type",
			Payload: struct{}{},
		})

		eventManager.Send(event.Event{
			Type:    event.ScanProgressEventType,
			Payload: event.Progress{Completed: 1, Total: 10},
		})

		result := <-listener

		assert.Equal(st, result.Type, event.ScanProgressEventType)

		progress, ok := result.Payload.(event.Progress)

		assert.Equal(st, ok, true)
		assert.Equal(st, progress.Completed, 1)
		assert.Equal(st, progress.Total, 10)
	})

	t.Run("removes event listener", func(st *testing.T) {
		eventManager := event.NewEventManager()

		listener := make(chan event.Event)

		id := eventManager.RegisterListener(event.ScanCompleteEventType, listener)

		removedId := eventManager.RemoveListener(id)

		assert.Equal(st, removedId, id)
	})

	t.Run("reports fatal error event", func(st *testing.T) {
		eventManager := event.NewEventManager()

		listener := make(chan event.Event)

		eventManager.RegisterListener(event.FatalErrorEventType, listener)

		fatalErr := errors.New("fatal test error")

		eventManager.ReportFatalError(fatalErr)

		result := <-listener

		assert.Equal(st, result.Type, event.FatalErrorEventType)
		assert.Equal(st, result.Payload, fatalErr)
	})
}
