package realtime

import (
	"sort"
	"testing"
	"time"
)

func TestRoomStore_Create_Get(t *testing.T) {
	s := NewRoomStore[string]()
	s.Create("room1", "state1", time.Now())
	room, ok := s.Get("room1")
	if !ok {
		t.Fatal("Get returned false for existing room")
	}
	if room.ID != "room1" {
		t.Errorf("room ID %q, want room1", room.ID)
	}
	if room.State != "state1" {
		t.Errorf("room State %q, want state1", room.State)
	}

	_, ok = s.Get("nonexistent")
	if ok {
		t.Error("Get should return false for missing ID")
	}
}

func TestRoomStore_Publish(t *testing.T) {
	s := NewRoomStore[string]()
	s.Create("r1", "x", time.Now())
	hub, ok := s.Broadcaster("r1")
	if !ok {
		t.Fatal("Broadcaster returned false for existing room")
	}
	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	s.Publish("r1", "event1")
	got := <-ch
	if got != "event1" {
		t.Errorf("got %q, want event1", got)
	}
}

func TestRoomStore_UnknownRoom(t *testing.T) {
	s := NewRoomStore[string]()
	if _, ok := s.Broadcaster("missing"); ok {
		t.Error("Broadcaster should return false for unknown room")
	}
	// Publishing or touching an unknown room is a no-op.
	s.Publish("missing", "tick")
	s.Touch("missing", time.Now())
	if s.Len() != 0 {
		t.Errorf("Len %d, want 0", s.Len())
	}
}

func TestRoomStore_DeleteClosesSubscribers(t *testing.T) {
	s := NewRoomStore[string]()
	s.Create("r1", "x", time.Now())
	hub, _ := s.Broadcaster("r1")
	ch := hub.Subscribe()

	room, ok := s.Delete("r1")
	if !ok || room.State != "x" {
		t.Fatalf("Delete returned (%v, %v)", room, ok)
	}
	if _, open := <-ch; open {
		t.Error("subscriber should be closed when the room is deleted")
	}
	if _, ok := s.Delete("r1"); ok {
		t.Error("second Delete should report false")
	}
}

func TestRoomStore_Sweep(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewRoomStore[string]()
	s.Create("idle", "a", start)
	s.Create("watched", "b", start)
	s.Create("fresh", "c", start)

	hub, _ := s.Broadcaster("watched")
	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	s.Touch("fresh", start.Add(50*time.Second))

	var evicted []string
	n := s.Sweep(start.Add(time.Minute), 30*time.Second, func(r *Room[string]) {
		evicted = append(evicted, r.ID)
	})
	if n != 1 {
		t.Fatalf("Sweep removed %d rooms, want 1", n)
	}
	if len(evicted) != 1 || evicted[0] != "idle" {
		t.Errorf("evicted %v, want [idle]", evicted)
	}

	ids := s.IDs()
	sort.Strings(ids)
	if len(ids) != 2 || ids[0] != "fresh" || ids[1] != "watched" {
		t.Errorf("remaining rooms %v, want [fresh watched]", ids)
	}
}
