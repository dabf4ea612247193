package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mindhaven/wellness/internal/apperr"
	"github.com/mindhaven/wellness/internal/metrics"
)

type Store interface {
	AppendMessage(ctx context.Context, m *Message) error
	Messages(ctx context.Context, conversationID string) ([]Message, error)
	MarkMessagesRead(ctx context.Context, conversationID string, ids []primitive.ObjectID) error
	ResetUnread(ctx context.Context, conversationID string) error
	Sessions(ctx context.Context, participantID string) ([]Session, error)
}

// EventPublisher receives a record of every accepted message.
// Publishing is best-effort; failures never fail the send.
type EventPublisher interface {
	PublishMessageSent(ctx context.Context, key string, payload []byte) error
}

type Notifier interface {
	Notify(ctx context.Context, conversationID string)
}

type Service struct {
	store    Store
	events   EventPublisher
	notifier Notifier
	log      *zap.SugaredLogger
}

func NewService(store Store, events EventPublisher, log *zap.SugaredLogger) *Service {
	return &Service{store: store, events: events, log: log}
}

// AttachNotifier wires the snapshot feed in after construction; the
// feed itself reads snapshots through this service.
func (s *Service) AttachNotifier(n Notifier) {
	s.notifier = n
}

func (s *Service) SendMessage(ctx context.Context, conversationID, senderID, receiverID, senderName, content string) (*Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: empty message", apperr.ErrValidation)
	}
	if conversationID == "" {
		return nil, fmt.Errorf("%w: unresolved conversation", apperr.ErrValidation)
	}

	m := &Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		ReceiverID:     receiverID,
		Content:        content,
		Timestamp:      time.Now().UnixMilli(),
		Read:           false,
		SenderName:     senderName,
	}
	if err := s.store.AppendMessage(ctx, m); err != nil {
		return nil, err
	}
	metrics.MessagesSent.Inc()

	if s.events != nil {
		b, _ := json.Marshal(m)
		if err := s.events.PublishMessageSent(ctx, conversationID, b); err != nil {
			s.log.Warnw("publish message event", "conversation", conversationID, "err", err)
		}
	}

	s.notify(ctx, conversationID)
	return m, nil
}

// Snapshot returns the conversation's full current message list sorted
// ascending by timestamp, insertion order on ties.
func (s *Service) Snapshot(ctx context.Context, conversationID string) ([]Message, error) {
	msgs, err := s.store.Messages(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	SortMessages(msgs)
	return msgs, nil
}

// MarkConversationRead flips the read flag on every message the viewer
// has not sent and resets the session's unread counter. It is an
// explicit operation invoked by the viewing surface, not a side effect
// of subscribing.
func (s *Service) MarkConversationRead(ctx context.Context, conversationID, viewerID string) error {
	msgs, err := s.store.Messages(ctx, conversationID)
	if err != nil {
		return err
	}
	ids := unreadCounterpart(msgs, viewerID)
	if len(ids) > 0 {
		if err := s.store.MarkMessagesRead(ctx, conversationID, ids); err != nil {
			return err
		}
	}
	if err := s.store.ResetUnread(ctx, conversationID); err != nil {
		return err
	}
	if len(ids) > 0 {
		s.notify(ctx, conversationID)
	}
	return nil
}

func (s *Service) ListSessions(ctx context.Context, participantID string) ([]Session, error) {
	return s.store.Sessions(ctx, participantID)
}

func (s *Service) notify(ctx context.Context, conversationID string) {
	if s.notifier != nil {
		s.notifier.Notify(ctx, conversationID)
	}
}
