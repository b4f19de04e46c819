package events

import (
	"github.com/sasha-s/go-deadlock"
)

// InMemoryEventStore keeps the most recent events of every stream up to a fixed capacity.
// Versions keep counting after old events are dropped.
type InMemoryEventStore struct {
	streams   map[string][]Event
	versions  map[string]int
	allEvents []Event
	capacity  int
	mutex     *deadlock.RWMutex
}

// NewInMemoryEventStore creates a store that retains at most capacity events overall
// (and per stream). A capacity below 1 is treated as 1.
func NewInMemoryEventStore(capacity int) *InMemoryEventStore {
	if capacity < 1 {
		capacity = 1
	}
	return &InMemoryEventStore{
		streams:   make(map[string][]Event),
		versions:  make(map[string]int),
		allEvents: make([]Event, 0, capacity),
		capacity:  capacity,
		mutex:     &deadlock.RWMutex{},
	}
}

func (s *InMemoryEventStore) AppendEvent(streamID string, event Event) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.versions[streamID]++
	eventWithVersion := BaseEvent{
		EventType:    event.Type(),
		Stream:       streamID,
		EventData:    event.Data(),
		EventTime:    event.Timestamp(),
		EventVersion: s.versions[streamID],
	}

	s.streams[streamID] = trim(append(s.streams[streamID], eventWithVersion), s.capacity)
	s.allEvents = trim(append(s.allEvents, eventWithVersion), s.capacity)

	return nil
}

// ReadEvents returns the retained events of streamID whose version is at least fromVersion
func (s *InMemoryEventStore) ReadEvents(streamID string, fromVersion int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	events := s.streams[streamID]
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if e.Version() >= fromVersion {
			out = append(out, e)
		}
	}
	return out, nil
}

// Recent returns up to limit events across all streams, newest first
func (s *InMemoryEventStore) Recent(limit int) []Event {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if limit <= 0 || limit > len(s.allEvents) {
		limit = len(s.allEvents)
	}
	out := make([]Event, 0, limit)
	for i := len(s.allEvents) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.allEvents[i])
	}
	return out
}

func trim(events []Event, capacity int) []Event {
	if len(events) <= capacity {
		return events
	}
	kept := make([]Event, capacity)
	copy(kept, events[len(events)-capacity:])
	return kept
}
