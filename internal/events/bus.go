package events

import (
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// EventListener processes events
type EventListener interface {
	HandleEvent(event Event) error
	Priority() int
	ID() string
}

// Bus fans battle events out to subscribed listeners. It implements Sink.
type Bus struct {
	listeners map[EventType][]EventListener
	mu        sync.RWMutex
	log       logrus.FieldLogger
}

// NewBus creates a new event bus
func NewBus(log logrus.FieldLogger) *Bus {
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Bus{
		listeners: make(map[EventType][]EventListener),
		log:       log.WithField("component", "event_bus"),
	}
}

// Subscribe adds a listener for specific event types
func (b *Bus) Subscribe(eventType EventType, listener EventListener) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.listeners[eventType] = append(b.listeners[eventType], listener)
	sortByPriority(b.listeners[eventType])

	b.log.WithFields(logrus.Fields{
		"listener": listener.ID(),
		"event":    eventType,
		"priority": listener.Priority(),
	}).Debug("subscribed listener")
}

// Unsubscribe removes a listener
func (b *Bus) Unsubscribe(eventType EventType, listenerID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	listeners := b.listeners[eventType]
	for i, l := range listeners {
		if l.ID() != listenerID {
			continue
		}
		// Remove by swapping with last and truncating
		listeners[i] = listeners[len(listeners)-1]
		b.listeners[eventType] = listeners[:len(listeners)-1]
		sortByPriority(b.listeners[eventType])

		b.log.WithFields(logrus.Fields{
			"listener": listenerID,
			"event":    eventType,
		}).Debug("unsubscribed listener")
		return
	}
}

// Emit sends an event to the listeners of its type and to catch-all
// listeners, in priority order
func (b *Bus) Emit(event Event) error {
	b.mu.RLock()
	listeners := make([]EventListener, 0, len(b.listeners[event.GetType()])+len(b.listeners[EventTypeAll]))
	listeners = append(listeners, b.listeners[event.GetType()]...)
	listeners = append(listeners, b.listeners[EventTypeAll]...)
	b.mu.RUnlock()

	sortByPriority(listeners)

	b.log.WithFields(logrus.Fields{
		"event":     event.GetType(),
		"battle_id": event.GetBattleID(),
		"listeners": len(listeners),
	}).Trace("emitting event")

	for _, listener := range listeners {
		if err := listener.HandleEvent(event); err != nil {
			return fmt.Errorf("listener %s failed: %w", listener.ID(), err)
		}
	}

	return nil
}

// Clear removes all listeners
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.listeners = make(map[EventType][]EventListener)
	b.log.Debug("cleared all listeners")
}

// ListenerFunc adapts a function to EventListener
type ListenerFunc struct {
	Name  string
	Order int
	Fn    func(Event) error
}

func (l *ListenerFunc) HandleEvent(event Event) error { return l.Fn(event) }
func (l *ListenerFunc) Priority() int                 { return l.Order }
func (l *ListenerFunc) ID() string                    { return l.Name }

func sortByPriority(listeners []EventListener) {
	sort.SliceStable(listeners, func(i, j int) bool {
		return listeners[i].Priority() < listeners[j].Priority()
	})
}
