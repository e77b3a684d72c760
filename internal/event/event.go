package event

import (
	"sync"
)

// represents a registered event listener
type eventChannel struct {
	id        int
	eventType EventType
	send      chan Event
}

// EventManager implements the event Manager interface
type EventManager struct {
	listeners []*eventChannel
	nextID    int
	mux       sync.Mutex
}

// NewEventManager returns a new instance of EventManager
func NewEventManager() *EventManager {
	return &EventManager{
		listeners: []*eventChannel{},
		nextID:    1,
		mux:       sync.Mutex{},
	}
}

// RegisterListener registers a channel to receive events of the given type
func (m *EventManager) RegisterListener(eventType EventType, listener chan Event) int {
	m.mux.Lock()
	defer m.mux.Unlock()

	channel := &eventChannel{
		id:        m.nextID,
		eventType: eventType,
		send:      listener,
	}

	m.listeners = append(m.listeners, channel)
	m.nextID++

	return channel.id
}

// RemoveListener removes a previously registered listener
func (m *EventManager) RemoveListener(id int) int {
	m.mux.Lock()
	defer m.mux.Unlock()

	listeners := []*eventChannel{}

	for _, l := range m.listeners {
		if l.id != id {
			listeners = append(listeners, l)
		}
	}

	m.listeners = listeners

	return id
}

// Send delivers an event to all listeners registered for its type.
// Delivery is fire-and-forget: the caller never blocks on a slow listener.
func (m *EventManager) Send(evt Event) {
	m.mux.Lock()
	defer m.mux.Unlock()

	for _, l := range m.listeners {
		if l.eventType == evt.Type {
			listener := l
			go func() {
				listener.send <- evt
			}()
		}
	}
}

// ReportFatalError sends a fatal error event to registered listeners
func (m *EventManager) ReportFatalError(err error) {
	m.Send(Event{
		Type:    FatalErrorEventType,
		Payload: err,
	})
}
