package notify

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tradeyard/marketplace-api/internal/core/ports"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []ports.Notification
	done chan struct{}
	want int
}

func newRecordingSender(want int) *recordingSender {
	return &recordingSender{done: make(chan struct{}), want: want}
}

func (s *recordingSender) Send(_ context.Context, n ports.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, n)
	if len(s.sent) == s.want {
		close(s.done)
	}
	return nil
}

func (s *recordingSender) wait(t *testing.T) []ports.Notification {
	t.Helper()
	select {
	case <-s.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %d notifications", s.want)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ports.Notification(nil), s.sent...)
}

func TestDispatcher_DeliversAll(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sender := newRecordingSender(3)
	d := NewDispatcher(2, sender, zerolog.Nop())
	d.Start(ctx)

	d.Notify(ports.Notification{RecipientID: "seller_1", Subject: "a"})
	d.Notify(ports.Notification{RecipientID: "seller_2", Subject: "b"})
	d.Notify(ports.Notification{RecipientID: "seller_1", Subject: "c"})

	sent := sender.wait(t)
	if len(sent) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(sent))
	}
}

func TestDispatcher_PerRecipientOrdering(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	const n = 20
	sender := newRecordingSender(n)
	d := NewDispatcher(4, sender, zerolog.Nop())
	d.Start(ctx)

	for i := 0; i < n; i++ {
		d.Notify(ports.Notification{RecipientID: "seller_1", Subject: string(rune('a' + i))})
	}

	sent := sender.wait(t)
	for i := 1; i < len(sent); i++ {
		if sent[i].Subject < sent[i-1].Subject {
			t.Fatalf("out of order at %d: %q after %q", i, sent[i].Subject, sent[i-1].Subject)
		}
	}
}

func TestDispatcher_ShardIndexDeterministic(t *testing.T) {
	d := NewDispatcher(4, newRecordingSender(0), zerolog.Nop())
	first := d.shardIndex("seller_42")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("seller_42"); got != first {
			t.Fatalf("shard index not deterministic: %d vs %d", got, first)
		}
	}
}

func TestDispatcher_ShardIndexInRange(t *testing.T) {
	d := NewDispatcher(3, newRecordingSender(0), zerolog.Nop())
	for _, id := range []string{"", "a", "seller_1", "costarring", "liquid", "\xff\xfe\xfd"} {
		idx := d.shardIndex(id)
		if idx < 0 || idx >= len(d.workers) {
			t.Fatalf("shard index out of range for %q: %d", id, idx)
		}
	}
}

func TestDispatcher_NotifyNeverBlocks(t *testing.T) {
	// No workers started: queues fill up and then drop.
	d := NewDispatcher(1, newRecordingSender(0), zerolog.Nop())

	done := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer*2; i++ {
			d.Notify(ports.Notification{RecipientID: "seller_1"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Notify blocked on a full queue")
	}
}
