package sse

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/yungbote/studyhall-backend/internal/logger"
	"github.com/yungbote/studyhall-backend/internal/realtime"
)

type Client struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Outbound chan realtime.SSEMessage
	done     chan struct{}
}

func (c *Client) Done() <-chan struct{} { return c.done }

// Hub tracks connected SSE clients per channel. Notification delivery events
// are broadcast on the owner's user-id channel.
type Hub struct {
	mu            sync.RWMutex
	log           *logger.Logger
	subscriptions map[string]map[*Client]bool
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		log:           log.With("component", "SSEHub"),
		subscriptions: make(map[string]map[*Client]bool),
	}
}

func (h *Hub) NewClient(userID uuid.UUID) *Client {
	return &Client{
		ID:       uuid.New(),
		UserID:   userID,
		Outbound: make(chan realtime.SSEMessage, 16),
		done:     make(chan struct{}),
	}
}

func (h *Hub) Attach(client *Client, channel string) {
	channel = strings.TrimSpace(channel)
	if channel == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, exists := h.subscriptions[channel]
	if !exists {
		clients = make(map[*Client]bool)
		h.subscriptions[channel] = clients
	}
	clients[client] = true
	h.log.Debug("SSE client attached", "client_id", client.ID, "channel", channel)
}

func (h *Hub) Detach(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for channel, clients := range h.subscriptions {
		if clients[client] {
			delete(clients, client)
			if len(clients) == 0 {
				delete(h.subscriptions, channel)
			}
		}
	}
	select {
	case <-client.done:
	default:
		close(client.done)
	}
}

// Broadcast fans a message out to every client on its channel. Slow clients
// are skipped rather than blocked on.
func (h *Hub) Broadcast(msg realtime.SSEMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.subscriptions[msg.Channel] {
		select {
		case client.Outbound <- msg:
		default:
			h.log.Debug("Dropping SSE message for slow client", "client_id", client.ID)
		}
	}
}

// HubEmitter satisfies realtime.Emitter for single-process deployments.
type HubEmitter struct{ Hub *Hub }

func (e *HubEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) {
	e.Hub.Broadcast(msg)
}
