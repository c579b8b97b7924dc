package realtime

import (
	"testing"
)

func TestBroadcaster_PublishDeliversToSubscriber(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.Publish("tick")
	got := <-ch
	if got != "tick" {
		t.Errorf("got event %q, want %q", got, "tick")
	}
}

func TestBroadcaster_PublishDeliversToMultipleSubscribers(t *testing.T) {
	b := NewBroadcaster()
	ch1 := b.Subscribe()
	ch2 := b.Subscribe()
	defer b.Unsubscribe(ch1)
	defer b.Unsubscribe(ch2)

	b.Publish("score")
	if got := <-ch1; got != "score" {
		t.Errorf("ch1 got %q, want score", got)
	}
	if got := <-ch2; got != "score" {
		t.Errorf("ch2 got %q, want score", got)
	}
}

func TestBroadcaster_UnsubscribeClosesChannel(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Subscribe()
	b.Unsubscribe(ch)
	_, open := <-ch
	if open {
		t.Error("channel should be closed after Unsubscribe")
	}
	// Second unsubscribe must not panic on the closed channel.
	b.Unsubscribe(ch)
}

func TestBroadcaster_PublishDropsForLaggingSubscriber(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	for i := 0; i < 50; i++ {
		b.Publish("tick")
	}
	if len(ch) != cap(ch) {
		t.Errorf("buffered %d events, want %d", len(ch), cap(ch))
	}
}

func TestBroadcaster_Len(t *testing.T) {
	b := NewBroadcaster()
	if b.Len() != 0 {
		t.Fatalf("Len %d, want 0", b.Len())
	}
	ch1 := b.Subscribe()
	ch2 := b.Subscribe()
	if b.Len() != 2 {
		t.Errorf("Len %d, want 2", b.Len())
	}
	b.Unsubscribe(ch1)
	if b.Len() != 1 {
		t.Errorf("Len %d, want 1", b.Len())
	}
	b.Unsubscribe(ch2)
}

func TestBroadcaster_CloseEndsSubscriptions(t *testing.T) {
	b := NewBroadcaster()
	ch := b.Subscribe()
	b.Close()
	if _, open := <-ch; open {
		t.Error("subscriber channel should be closed after Close")
	}
	if b.Len() != 0 {
		t.Errorf("Len %d after Close, want 0", b.Len())
	}

	late := b.Subscribe()
	if _, open := <-late; open {
		t.Error("subscribing after Close should yield a closed channel")
	}
	b.Publish("tick")
	b.Close()
}
