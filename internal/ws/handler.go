package ws

import (
	"context"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/mindhaven/wellness/internal/chat"
)

// Handler serves the per-conversation snapshot feed over WebSocket.
// Each connected client holds one feed subscription for the lifetime
// of the socket; closing the socket releases it.
type Handler struct {
	feed *chat.Feed
	log  *zap.SugaredLogger
}

func NewHandler(feed *chat.Feed, log *zap.SugaredLogger) *Handler {
	return &Handler{feed: feed, log: log}
}

// Serve handles GET /ws/chats/:conversationId. The client receives the
// full current message list on connect and again after every mutation.
func (h *Handler) Serve() func(*websocket.Conn) {
	return func(conn *websocket.Conn) {
		defer conn.Close()

		conversationID := conn.Params("conversationId")
		if conversationID == "" {
			return
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sub := h.feed.Subscribe(ctx, conversationID)
		defer sub.Close()

		// Read pump: clients send nothing meaningful; reads only
		// detect the close.
		go func() {
			defer cancel()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case snapshot, ok := <-sub.C:
				if !ok {
					return
				}
				if err := conn.WriteJSON(snapshot); err != nil {
					h.log.Debugw("write snapshot", "conversation", conversationID, "err", err)
					return
				}
			}
		}
	}
}
