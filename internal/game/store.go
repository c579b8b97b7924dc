package game

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"tokenclick/pkg/realtime"
)

// Store holds live sessions and delegates to realtime.RoomStore for lookup,
// broadcast and idle eviction.
type Store struct {
	r     *realtime.RoomStore[*Session]
	clock clockwork.Clock
	log   zerolog.Logger
}

// NewStore creates an in-memory session store. A nil clock means the real clock.
func NewStore(clock clockwork.Clock, logger zerolog.Logger) *Store {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Store{
		r:     realtime.NewRoomStore[*Session](),
		clock: clock,
		log:   logger,
	}
}

// CreateSession starts a fresh session whose state changes are published to
// its room.
func (s *Store) CreateSession() *Session {
	id := uuid.NewString()
	sess := NewSession(id, Options{
		Clock:  s.clock,
		Notify: func(ev Event) { s.r.Publish(id, string(ev)) },
		Logger: &s.log,
	})
	s.r.Create(id, sess, s.clock.Now())
	s.log.Debug().Str("session", id).Msg("session created")
	return sess
}

// GetSession returns a session by ID if it exists.
func (s *Store) GetSession(id string) (*Session, bool) {
	room, ok := s.r.Get(id)
	if !ok {
		return nil, false
	}
	return room.State, true
}

// Broadcaster returns the event broadcaster of a live session.
func (s *Store) Broadcaster(id string) (*realtime.Broadcaster, bool) {
	return s.r.Broadcaster(id)
}

// Publish notifies subscribers of a session.
func (s *Store) Publish(id string, event Event) {
	s.r.Publish(id, string(event))
}

// Touch marks the session as in use.
func (s *Store) Touch(id string) {
	s.r.Touch(id, s.clock.Now())
}

// Remove closes the session and drops it. Stream subscribers are released.
func (s *Store) Remove(id string) bool {
	room, ok := s.r.Delete(id)
	if !ok {
		return false
	}
	room.State.Close()
	return true
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	return s.r.Len()
}

// Sweep removes sessions nobody is watching that have been idle longer than ttl.
func (s *Store) Sweep(ttl time.Duration) int {
	n := s.r.Sweep(s.clock.Now(), ttl, func(room *realtime.Room[*Session]) {
		room.State.Close()
	})
	if n > 0 {
		s.log.Debug().Int("removed", n).Int("live", s.r.Len()).Msg("swept idle sessions")
	}
	return n
}

// RunJanitor sweeps every interval until ctx is done.
func (s *Store) RunJanitor(ctx context.Context, interval, ttl time.Duration) {
	ticker := s.clock.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			s.Sweep(ttl)
		}
	}
}

// Close removes every session, cancelling their timers.
func (s *Store) Close() {
	for _, id := range s.r.IDs() {
		s.Remove(id)
	}
}
