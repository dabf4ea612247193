package chat

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mindhaven/wellness/internal/apperr"
	"github.com/mindhaven/wellness/internal/logger"
)

type fakeStore struct {
	mu       sync.Mutex
	msgs     map[string][]Message
	sessions map[string]*Session
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		msgs:     make(map[string][]Message),
		sessions: make(map[string]*Session),
	}
}

func (f *fakeStore) AppendMessage(ctx context.Context, m *Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	f.msgs[m.ConversationID] = append(f.msgs[m.ConversationID], *m)

	s, ok := f.sessions[m.ConversationID]
	if !ok {
		s = &Session{ID: m.ConversationID, Participants: []string{m.SenderID, m.ReceiverID}}
		f.sessions[m.ConversationID] = s
	}
	s.LastMessage = m.Content
	s.LastMessageTimestamp = m.Timestamp
	return nil
}

func (f *fakeStore) Messages(ctx context.Context, conversationID string) ([]Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Message, len(f.msgs[conversationID]))
	copy(out, f.msgs[conversationID])
	return out, nil
}

func (f *fakeStore) MarkMessagesRead(ctx context.Context, conversationID string, ids []primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	marked := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		marked[id] = true
	}
	msgs := f.msgs[conversationID]
	for i := range msgs {
		if marked[msgs[i].ID] {
			msgs[i].Read = true
		}
	}
	return nil
}

func (f *fakeStore) ResetUnread(ctx context.Context, conversationID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.sessions[conversationID]; ok {
		s.UnreadCount = 0
	}
	return nil
}

func (f *fakeStore) Sessions(ctx context.Context, participantID string) ([]Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Session
	for _, s := range f.sessions {
		for _, p := range s.Participants {
			if p == participantID {
				out = append(out, *s)
				break
			}
		}
	}
	return out, nil
}

type failingPublisher struct{ calls int }

func (p *failingPublisher) PublishMessageSent(ctx context.Context, key string, payload []byte) error {
	p.calls++
	return errors.New("broker down")
}

func TestSendMessageRejectsEmptyContent(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil, logger.Nop())

	for _, content := range []string{"", "   ", "\n\t "} {
		_, err := svc.SendMessage(context.Background(), "a_b", "a", "b", "A", content)
		require.ErrorIs(t, err, apperr.ErrValidation)
	}
	assert.Empty(t, store.msgs)
}

func TestSendMessageRejectsUnresolvedConversation(t *testing.T) {
	svc := NewService(newFakeStore(), nil, logger.Nop())
	_, err := svc.SendMessage(context.Background(), "", "a", "b", "A", "hello")
	require.ErrorIs(t, err, apperr.ErrValidation)
}

func TestSendMessageAppendsAndUpdatesSummary(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil, logger.Nop())

	msg, err := svc.SendMessage(context.Background(), "a_b", "a", "b", "Alice", "  hello there  ")
	require.NoError(t, err)
	assert.Equal(t, "hello there", msg.Content)
	assert.False(t, msg.Read)
	assert.False(t, msg.ID.IsZero())

	sess := store.sessions["a_b"]
	require.NotNil(t, sess)
	assert.Equal(t, "hello there", sess.LastMessage)
	assert.Equal(t, msg.Timestamp, sess.LastMessageTimestamp)
	// The sender never touches the unread counter.
	assert.Equal(t, 0, sess.UnreadCount)
}

func TestSendMessageSurvivesPublisherFailure(t *testing.T) {
	store := newFakeStore()
	pub := &failingPublisher{}
	svc := NewService(store, pub, logger.Nop())

	_, err := svc.SendMessage(context.Background(), "a_b", "a", "b", "Alice", "hi")
	require.NoError(t, err)
	assert.Equal(t, 1, pub.calls)
	assert.Len(t, store.msgs["a_b"], 1)
}

func TestMarkConversationRead(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil, logger.Nop())
	ctx := context.Background()

	viewer := "dr-sarah-johnson"
	patient := "alice@example.com"

	_, err := svc.SendMessage(ctx, "conv", patient, viewer, "Alice", "hi doctor")
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, "conv", viewer, patient, "Dr. Johnson", "hello alice")
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, "conv", patient, viewer, "Alice", "how are you")
	require.NoError(t, err)
	store.sessions["conv"].UnreadCount = 2

	require.NoError(t, svc.MarkConversationRead(ctx, "conv", viewer))

	msgs, err := svc.Snapshot(ctx, "conv")
	require.NoError(t, err)
	for _, m := range msgs {
		if m.SenderID == viewer {
			assert.False(t, m.Read, "viewer's own message must stay unread for the other party")
		} else {
			assert.True(t, m.Read, "counterpart message must be marked read")
		}
	}
	assert.Equal(t, 0, store.sessions["conv"].UnreadCount)
}

func TestMarkConversationReadIdempotent(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil, logger.Nop())
	ctx := context.Background()

	_, err := svc.SendMessage(ctx, "conv", "a", "b", "A", "hi")
	require.NoError(t, err)

	require.NoError(t, svc.MarkConversationRead(ctx, "conv", "b"))
	require.NoError(t, svc.MarkConversationRead(ctx, "conv", "b"))

	msgs, _ := svc.Snapshot(ctx, "conv")
	require.Len(t, msgs, 1)
	assert.True(t, msgs[0].Read)
}

func TestSnapshotSorted(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil, logger.Nop())
	ctx := context.Background()

	// Seed out of order directly; the store returns insertion order.
	store.msgs["conv"] = []Message{
		{ID: primitive.NewObjectID(), ConversationID: "conv", Content: "late", Timestamp: 300},
		{ID: primitive.NewObjectID(), ConversationID: "conv", Content: "early", Timestamp: 100},
		{ID: primitive.NewObjectID(), ConversationID: "conv", Content: "tie-1", Timestamp: 200},
		{ID: primitive.NewObjectID(), ConversationID: "conv", Content: "tie-2", Timestamp: 200},
	}

	msgs, err := svc.Snapshot(ctx, "conv")
	require.NoError(t, err)
	require.Len(t, msgs, 4)
	assert.Equal(t, "early", msgs[0].Content)
	assert.Equal(t, "tie-1", msgs[1].Content)
	assert.Equal(t, "tie-2", msgs[2].Content)
	assert.Equal(t, "late", msgs[3].Content)
}
