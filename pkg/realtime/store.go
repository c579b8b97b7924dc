package realtime

import (
	"sync"
	"time"
)

// Room holds state and a broadcaster for one room.
type Room[T any] struct {
	ID      string
	State   T
	hub     *Broadcaster
	touched time.Time
}

// RoomStore manages rooms and their broadcasters.
type RoomStore[T any] struct {
	mu    sync.RWMutex
	rooms map[string]*Room[T]
}

// NewRoomStore creates an empty room store.
func NewRoomStore[T any]() *RoomStore[T] {
	return &RoomStore[T]{
		rooms: make(map[string]*Room[T]),
	}
}

// Create adds a room with the given id and state, and a new Broadcaster.
func (s *RoomStore[T]) Create(id string, state T, now time.Time) *Room[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := &Room[T]{ID: id, State: state, hub: NewBroadcaster(), touched: now}
	s.rooms[id] = r
	return r
}

// Get returns the room by ID if it exists.
func (s *RoomStore[T]) Get(id string) (*Room[T], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[id]
	return r, ok
}

// Delete removes the room and closes its broadcaster. It returns the removed room.
func (s *RoomStore[T]) Delete(id string) (*Room[T], bool) {
	s.mu.Lock()
	r, ok := s.rooms[id]
	if ok {
		delete(s.rooms, id)
	}
	s.mu.Unlock()
	if ok {
		r.hub.Close()
	}
	return r, ok
}

// Publish notifies subscribers of the room's broadcaster. Unknown rooms are ignored.
func (s *RoomStore[T]) Publish(id string, event string) {
	if hub, ok := s.Broadcaster(id); ok {
		hub.Publish(event)
	}
}

// Broadcaster returns the broadcaster for an existing room.
func (s *RoomStore[T]) Broadcaster(id string) (*Broadcaster, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[id]
	if !ok {
		return nil, false
	}
	return r.hub, true
}

// Touch records activity on the room so Sweep leaves it alone.
func (s *RoomStore[T]) Touch(id string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.rooms[id]; ok && now.After(r.touched) {
		r.touched = now
	}
}

// Len returns the number of rooms.
func (s *RoomStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}

// IDs returns the ids of all rooms in no particular order.
func (s *RoomStore[T]) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.rooms))
	for id := range s.rooms {
		ids = append(ids, id)
	}
	return ids
}

// Sweep deletes rooms that have no subscribers and have not been touched
// within ttl. evict, if set, is called for each removed room after its
// broadcaster is closed. It returns the number of rooms removed.
func (s *RoomStore[T]) Sweep(now time.Time, ttl time.Duration, evict func(*Room[T])) int {
	cutoff := now.Add(-ttl)
	s.mu.Lock()
	var stale []*Room[T]
	for id, r := range s.rooms {
		if r.hub.Len() > 0 || r.touched.After(cutoff) {
			continue
		}
		delete(s.rooms, id)
		stale = append(stale, r)
	}
	s.mu.Unlock()

	for _, r := range stale {
		r.hub.Close()
		if evict != nil {
			evict(r)
		}
	}
	return len(stale)
}
