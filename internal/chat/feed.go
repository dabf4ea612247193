package chat

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mindhaven/wellness/internal/metrics"
)

// Source loads the current snapshot of a conversation.
type Source interface {
	Snapshot(ctx context.Context, conversationID string) ([]Message, error)
}

// Feed fans full conversation snapshots out to subscribers. Every
// mutation notifies the feed and subscribers receive the complete
// current message list, never a delta. A slow subscriber only ever
// sees the newest snapshot; stale ones are superseded, not queued.
// With Redis configured, notifications cross instances over pub/sub;
// without it delivery stays in-process.
type Feed struct {
	src     Source
	rdb     *redis.Client
	channel string
	log     *zap.SugaredLogger

	mu   sync.RWMutex
	subs map[string]map[*Subscription]struct{}
}

type Subscription struct {
	C <-chan []Message

	ch             chan []Message
	feed           *Feed
	conversationID string
	once           sync.Once
}

func NewFeed(src Source, rdb *redis.Client, prefix string, log *zap.SugaredLogger) *Feed {
	return &Feed{
		src:     src,
		rdb:     rdb,
		channel: prefix + ":chat:snapshots",
		log:     log,
		subs:    make(map[string]map[*Subscription]struct{}),
	}
}

// Subscribe attaches a listener to a conversation and immediately
// delivers the current snapshot. The caller must Close the
// subscription when the owning view goes away or the feed leaks it.
func (f *Feed) Subscribe(ctx context.Context, conversationID string) *Subscription {
	sub := &Subscription{
		ch:             make(chan []Message, 1),
		feed:           f,
		conversationID: conversationID,
	}
	sub.C = sub.ch

	f.mu.Lock()
	if _, ok := f.subs[conversationID]; !ok {
		f.subs[conversationID] = make(map[*Subscription]struct{})
	}
	f.subs[conversationID][sub] = struct{}{}
	f.mu.Unlock()
	metrics.FeedSubscribers.Inc()

	f.deliver(ctx, conversationID)
	return sub
}

func (s *Subscription) Close() {
	s.once.Do(func() { s.feed.drop(s) })
}

func (f *Feed) drop(sub *Subscription) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if set, ok := f.subs[sub.conversationID]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(f.subs, sub.conversationID)
		}
	}
	close(sub.ch)
	metrics.FeedSubscribers.Dec()
}

// Notify signals that a conversation changed. Listeners on other
// conversations are unaffected; no ordering is guaranteed between
// listeners on different conversations.
func (f *Feed) Notify(ctx context.Context, conversationID string) {
	if f.rdb != nil {
		if err := f.rdb.Publish(ctx, f.channel, conversationID).Err(); err != nil {
			f.log.Warnw("publish snapshot notification", "conversation", conversationID, "err", err)
		}
		return
	}
	f.deliver(ctx, conversationID)
}

// Run consumes cross-instance notifications until ctx is cancelled.
// Without Redis there is nothing to consume.
func (f *Feed) Run(ctx context.Context) error {
	if f.rdb == nil {
		<-ctx.Done()
		return ctx.Err()
	}
	pubsub := f.rdb.Subscribe(ctx, f.channel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			f.deliver(ctx, msg.Payload)
		}
	}
}

func (f *Feed) deliver(ctx context.Context, conversationID string) {
	f.mu.RLock()
	n := len(f.subs[conversationID])
	f.mu.RUnlock()
	if n == 0 {
		return
	}

	snapshot, err := f.src.Snapshot(ctx, conversationID)
	if err != nil {
		f.log.Errorw("load snapshot", "conversation", conversationID, "err", err)
		return
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	for sub := range f.subs[conversationID] {
		sub.push(snapshot)
		metrics.SnapshotsDelivered.Inc()
	}
}

// push replaces any undelivered snapshot with the newer one.
func (s *Subscription) push(snapshot []Message) {
	for {
		select {
		case s.ch <- snapshot:
			return
		default:
			select {
			case <-s.ch:
			default:
			}
		}
	}
}
