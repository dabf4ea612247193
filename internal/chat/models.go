package chat

import (
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is immutable once written except for the Read flag, which
// only ever transitions false -> true.
type Message struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ConversationID string             `bson:"conversation_id" json:"-"`
	SenderID       string             `bson:"sender_id" json:"senderId"`
	ReceiverID     string             `bson:"receiver_id" json:"receiverId"`
	Content        string             `bson:"content" json:"content"`
	Timestamp      int64              `bson:"timestamp" json:"timestamp"` // epoch millis
	Read           bool               `bson:"read" json:"read"`
	SenderName     string             `bson:"sender_name" json:"senderName"`
}

// Session is the denormalized per-conversation summary used to render
// chat lists without loading full message history.
type Session struct {
	ID                   string   `bson:"_id" json:"id"`
	Participants         []string `bson:"participants" json:"participants"`
	LastMessage          string   `bson:"last_message" json:"lastMessage"`
	LastMessageTimestamp int64    `bson:"last_message_timestamp" json:"lastMessageTimestamp"`
	UnreadCount          int      `bson:"unread_count" json:"unreadCount"`
	DisplayName          string   `bson:"display_name,omitempty" json:"displayName,omitempty"`
}

// SortMessages orders ascending by timestamp. The sort is stable, so
// messages sent within the same millisecond keep insertion order.
func SortMessages(msgs []Message) {
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].Timestamp < msgs[j].Timestamp
	})
}

// unreadCounterpart picks the messages a viewer still has to
// acknowledge: sent by the other party and not yet marked read.
func unreadCounterpart(msgs []Message, viewerID string) []primitive.ObjectID {
	var ids []primitive.ObjectID
	for _, m := range msgs {
		if m.SenderID != viewerID && !m.Read {
			ids = append(ids, m.ID)
		}
	}
	return ids
}
