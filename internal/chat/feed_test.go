package chat

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindhaven/wellness/internal/logger"
)

type fakeSource struct {
	mu       sync.Mutex
	snapshot []Message
}

func (f *fakeSource) set(msgs []Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshot = msgs
}

func (f *fakeSource) Snapshot(ctx context.Context, conversationID string) ([]Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot, nil
}

func recv(t *testing.T, c <-chan []Message) []Message {
	t.Helper()
	select {
	case snap := <-c:
		return snap
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered")
		return nil
	}
}

func TestFeedDeliversInitialSnapshot(t *testing.T) {
	src := &fakeSource{snapshot: []Message{{Content: "hello", Timestamp: 1}}}
	feed := NewFeed(src, nil, "test", logger.Nop())

	sub := feed.Subscribe(context.Background(), "conv")
	defer sub.Close()

	snap := recv(t, sub.C)
	require.Len(t, snap, 1)
	assert.Equal(t, "hello", snap[0].Content)
}

func TestFeedDeliversOnNotify(t *testing.T) {
	src := &fakeSource{}
	feed := NewFeed(src, nil, "test", logger.Nop())

	sub := feed.Subscribe(context.Background(), "conv")
	defer sub.Close()
	recv(t, sub.C) // initial (empty) snapshot

	src.set([]Message{{Content: "one", Timestamp: 1}, {Content: "two", Timestamp: 2}})
	feed.Notify(context.Background(), "conv")

	snap := recv(t, sub.C)
	assert.Len(t, snap, 2)
}

func TestFeedSupersedesStaleSnapshots(t *testing.T) {
	src := &fakeSource{}
	feed := NewFeed(src, nil, "test", logger.Nop())

	sub := feed.Subscribe(context.Background(), "conv")
	defer sub.Close()
	recv(t, sub.C)

	// Two notifications without an intervening read: only the newest
	// snapshot survives.
	src.set([]Message{{Content: "stale", Timestamp: 1}})
	feed.Notify(context.Background(), "conv")
	src.set([]Message{{Content: "stale", Timestamp: 1}, {Content: "fresh", Timestamp: 2}})
	feed.Notify(context.Background(), "conv")

	snap := recv(t, sub.C)
	require.Len(t, snap, 2)
	assert.Equal(t, "fresh", snap[1].Content)
}

func TestFeedScopedToConversation(t *testing.T) {
	src := &fakeSource{}
	feed := NewFeed(src, nil, "test", logger.Nop())

	sub := feed.Subscribe(context.Background(), "conv-a")
	defer sub.Close()
	recv(t, sub.C)

	feed.Notify(context.Background(), "conv-b")

	select {
	case <-sub.C:
		t.Fatal("listener on conv-a must not see conv-b updates")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubscriptionCloseReleases(t *testing.T) {
	src := &fakeSource{}
	feed := NewFeed(src, nil, "test", logger.Nop())

	sub := feed.Subscribe(context.Background(), "conv")
	recv(t, sub.C)
	sub.Close()
	sub.Close() // safe to call twice

	_, open := <-sub.C
	assert.False(t, open, "channel must close when the subscription is released")

	// A notify after release must not deliver anywhere.
	feed.Notify(context.Background(), "conv")
}
