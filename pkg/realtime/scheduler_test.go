package realtime

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestScheduler_EveryRunsOnEachTick(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewScheduler(clock)
	defer s.Stop()

	var n atomic.Int32
	s.Every("countdown", time.Second, func() { n.Add(1) })
	if !s.Pending("countdown") {
		t.Fatal("Every should install a pending job")
	}

	for i := int32(1); i <= 3; i++ {
		clock.Advance(time.Second)
		want := i
		waitFor(t, "tick", func() bool { return n.Load() == want })
	}
}

func TestScheduler_EveryReplacesPreviousJob(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewScheduler(clock)
	defer s.Stop()

	var first, second atomic.Int32
	s.Every("countdown", time.Second, func() { first.Add(1) })
	s.Every("countdown", time.Second, func() { second.Add(1) })
	if s.Len() != 1 {
		t.Fatalf("Len %d, want 1", s.Len())
	}

	clock.Advance(time.Second)
	waitFor(t, "replacement tick", func() bool { return second.Load() == 1 })
	clock.Advance(time.Second)
	waitFor(t, "second replacement tick", func() bool { return second.Load() == 2 })
	if got := first.Load(); got != 0 {
		t.Errorf("replaced job ran %d times, want 0", got)
	}
}

func TestScheduler_AfterFiresOnce(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewScheduler(clock)
	defer s.Stop()

	var n atomic.Int32
	s.After("popup", 700*time.Millisecond, func() { n.Add(1) })

	clock.Advance(699 * time.Millisecond)
	if !s.Pending("popup") {
		t.Error("job should still be pending before its delay")
	}
	clock.Advance(time.Millisecond)
	waitFor(t, "popup clear", func() bool { return n.Load() == 1 })
	if s.Pending("popup") {
		t.Error("fired job should no longer be pending")
	}

	clock.Advance(time.Second)
	time.Sleep(10 * time.Millisecond)
	if got := n.Load(); got != 1 {
		t.Errorf("After ran %d times, want 1", got)
	}
}

func TestScheduler_CancelAfter(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewScheduler(clock)
	defer s.Stop()

	var n atomic.Int32
	s.After("popup", 700*time.Millisecond, func() { n.Add(1) })
	if !s.Cancel("popup") {
		t.Fatal("Cancel should report an installed job")
	}
	if s.Cancel("popup") {
		t.Error("second Cancel should report false")
	}

	clock.Advance(time.Second)
	time.Sleep(10 * time.Millisecond)
	if got := n.Load(); got != 0 {
		t.Errorf("cancelled job ran %d times", got)
	}
}

func TestScheduler_StopIgnoresLaterJobs(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewScheduler(clock)

	var n atomic.Int32
	s.Every("countdown", time.Second, func() { n.Add(1) })
	s.After("popup", time.Second, func() { n.Add(1) })
	s.Stop()
	if s.Len() != 0 {
		t.Fatalf("Len %d after Stop, want 0", s.Len())
	}

	s.Every("countdown", time.Second, func() { n.Add(1) })
	if s.Pending("countdown") {
		t.Error("jobs scheduled after Stop should be ignored")
	}

	clock.Advance(2 * time.Second)
	time.Sleep(10 * time.Millisecond)
	if got := n.Load(); got != 0 {
		t.Errorf("callbacks ran %d times after Stop", got)
	}
}
