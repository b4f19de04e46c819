package events

import (
	"fmt"
	"sync"
	"testing"
)

func TestInMemoryEventStore_AppendAndRead(t *testing.T) {
	store := NewInMemoryEventStore(10)

	for i := 0; i < 3; i++ {
		if err := store.AppendEvent(BurnStream, NewEvent(BurnEvaluatedEvent, BurnStream, i)); err != nil {
			t.Fatalf("AppendEvent failed: %v", err)
		}
	}

	events, err := store.ReadEvents(BurnStream, 2)
	if err != nil {
		t.Fatalf("ReadEvents failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("Expected 2 events from version 2, got %d", len(events))
	}
	if events[0].Version() != 2 || events[0].Data() != 1 {
		t.Errorf("Unexpected first event %+v", events[0])
	}

	missing, _ := store.ReadEvents("other", 1)
	if len(missing) != 0 {
		t.Errorf("Expected no events for unknown stream, got %d", len(missing))
	}
}

func TestInMemoryEventStore_CapacityAndOrder(t *testing.T) {
	store := NewInMemoryEventStore(3)
	for i := 1; i <= 5; i++ {
		_ = store.AppendEvent(BurnStream, NewEvent(BurnEvaluatedEvent, BurnStream, i))
	}

	recent := store.Recent(0)
	if len(recent) != 3 {
		t.Fatalf("Expected 3 retained events, got %d", len(recent))
	}
	for i, expected := range []int{5, 4, 3} {
		if recent[i].Data() != expected {
			t.Errorf("recent[%d]: expected data %d, got %v", i, expected, recent[i].Data())
		}
	}
	if recent[0].Version() != 5 {
		t.Errorf("Expected newest version 5, got %d", recent[0].Version())
	}

	if got := store.Recent(2); len(got) != 2 {
		t.Errorf("Expected Recent(2) to return 2 events, got %d", len(got))
	}
}

func TestInMemoryEventStore_ConcurrentAppend(t *testing.T) {
	store := NewInMemoryEventStore(1000)
	var wg sync.WaitGroup

	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				_ = store.AppendEvent(BurnStream, NewEvent(BurnEvaluatedEvent, BurnStream, fmt.Sprintf("%d-%d", worker, i)))
				store.Recent(5)
			}
		}(w)
	}
	wg.Wait()

	events, _ := store.ReadEvents(BurnStream, 1)
	if len(events) != 400 {
		t.Fatalf("Expected 400 events, got %d", len(events))
	}
	seen := make(map[int]bool)
	for _, e := range events {
		if seen[e.Version()] {
			t.Fatalf("Duplicate version %d", e.Version())
		}
		seen[e.Version()] = true
	}
}
