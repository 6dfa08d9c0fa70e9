package realtime

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	chatHandler "github.com/mindwell-ai/mindwell/backend/internal/handler/chat"
	"github.com/mindwell-ai/mindwell/backend/internal/model/chat"
	chatService "github.com/mindwell-ai/mindwell/backend/internal/service/chat"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 54 * time.Second
	writeTimeout = 10 * time.Second
)

// Handler runs chat turns over a WebSocket connection, one turn per inbound frame.
type Handler struct {
	chatSvc  *chatService.Service
	upgrader websocket.Upgrader
}

// New creates a WebSocket chat handler. checkOrigin may be nil to accept any origin.
func New(chatSvc *chatService.Service, checkOrigin func(r *http.Request) bool) *Handler {
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}
	return &Handler{
		chatSvc: chatSvc,
		upgrader: websocket.Upgrader{
			CheckOrigin:     checkOrigin,
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes registers the WebSocket route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/chat/ws", h.handleWebSocket)
}

type inboundMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	go pingLoop(ctx, conn)

	h.send(conn, "connected", map[string]any{"chat_available": h.chatSvc.Available()})

	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws] read error: %v", err)
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))

		switch msg.Type {
		case "chat":
			h.handleChat(ctx, conn, msg.Data)
		default:
			h.send(conn, "error", chatHandler.ErrorBody{Error: "unsupported message type: " + msg.Type})
		}
	}
}

func (h *Handler) handleChat(ctx context.Context, conn *websocket.Conn, raw json.RawMessage) {
	var req chat.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		h.send(conn, "error", chatHandler.ErrorBody{Error: "invalid chat payload"})
		return
	}

	resp, err := h.chatSvc.ReplyStream(ctx, req, func(delta string) {
		h.send(conn, "delta", map[string]string{"content": delta})
	})
	if err != nil {
		log.Printf("[ws] chat turn failed: %v", err)
		_, body := chatHandler.ErrorStatus(err)
		h.send(conn, "error", body)
		return
	}

	h.send(conn, "reply", resp)
}

func (h *Handler) send(conn *websocket.Conn, kind string, data interface{}) {
	msg := outgoingMessage{
		Type:      kind,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("[ws] write %s failed: %v", kind, err)
	}
}

// pingLoop keeps idle connections alive. WriteControl is safe to call
// concurrently with the reader loop's writes.
func pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}
