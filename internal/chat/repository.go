package chat

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository struct {
	client   *mongo.Client
	messages *mongo.Collection
	sessions *mongo.Collection
}

func NewRepository(client *mongo.Client, db *mongo.Database) *Repository {
	messages := db.Collection("messages")
	sessions := db.Collection("chat_sessions")

	mix := mongo.IndexModel{
		Keys:    bson.D{{Key: "conversation_id", Value: 1}, {Key: "timestamp", Value: 1}},
		Options: options.Index().SetName("conv_ts_idx"),
	}
	_, _ = messages.Indexes().CreateOne(context.Background(), mix)

	six := mongo.IndexModel{
		Keys:    bson.D{{Key: "participants", Value: 1}},
		Options: options.Index().SetName("participants_idx"),
	}
	_, _ = sessions.Indexes().CreateOne(context.Background(), six)

	return &Repository{client: client, messages: messages, sessions: sessions}
}

// AppendMessage inserts the message and upserts the session summary in
// one transaction, so readers never observe a message without its
// summary. The sender does not touch unread_count; only the reader's
// explicit mark-read resets it.
func (r *Repository) AppendMessage(ctx context.Context, m *Message) error {
	sess, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		res, err := r.messages.InsertOne(sc, m)
		if err != nil {
			return nil, err
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			m.ID = id
		}
		update := bson.M{
			"$set": bson.M{
				"last_message":           m.Content,
				"last_message_timestamp": m.Timestamp,
			},
			"$setOnInsert": bson.M{
				"participants": []string{m.SenderID, m.ReceiverID},
				"unread_count": 0,
			},
		}
		opts := options.Update().SetUpsert(true)
		_, err = r.sessions.UpdateByID(sc, m.ConversationID, update, opts)
		return nil, err
	})
	return err
}

// Messages returns the conversation's full message list in insertion
// order (ObjectIDs are monotonic); callers sort by timestamp on top.
func (r *Repository) Messages(ctx context.Context, conversationID string) ([]Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := r.messages.Find(ctx, bson.M{"conversation_id": conversationID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []Message
	for cur.Next(ctx) {
		var m Message
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, cur.Err()
}

func (r *Repository) MarkMessagesRead(ctx context.Context, conversationID string, ids []primitive.ObjectID) error {
	filter := bson.M{
		"conversation_id": conversationID,
		"_id":             bson.M{"$in": ids},
		"read":            false,
	}
	_, err := r.messages.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"read": true}})
	return err
}

func (r *Repository) ResetUnread(ctx context.Context, conversationID string) error {
	_, err := r.sessions.UpdateByID(ctx, conversationID, bson.M{"$set": bson.M{"unread_count": 0}})
	return err
}

func (r *Repository) Sessions(ctx context.Context, participantID string) ([]Session, error) {
	opts := options.Find().SetSort(bson.D{{Key: "last_message_timestamp", Value: -1}})
	cur, err := r.sessions.Find(ctx, bson.M{"participants": participantID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []Session
	for cur.Next(ctx) {
		var s Session
		if err := cur.Decode(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, cur.Err()
}
