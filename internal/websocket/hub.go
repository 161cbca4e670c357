package websocket

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// Entities named in change notifications.
const (
	EntityFamily        = "family"
	EntityChild         = "child"
	EntityChore         = "chore"
	EntityAssignment    = "assignment"
	EntityCompletion    = "completion"
	EntitySideQuest     = "side_quest"
	EntityFamilyReward  = "family_reward"
	EntityTimePeriod    = "time_period"
	EntityAccessory     = "accessory"
	EntityStoreSchedule = "store_schedule"
	EntityPeriod        = "period"
)

// Actions named in change notifications.
const (
	ActionCreated  = "created"
	ActionUpdated  = "updated"
	ActionDeleted  = "deleted"
	ActionVerified = "verified"
	ActionRejected = "rejected"
	ActionClaimed  = "claimed"
	ActionReset    = "reset"
	ActionChanged  = "changed"
)

// Message tells every open view that something changed and it should
// re-query. It never carries the record itself.
type Message struct {
	Type   string         `json:"type"`
	Entity string         `json:"entity"`
	Action string         `json:"action"`
	ID     string         `json:"id,omitempty"`
	Extra  map[string]any `json:"extra,omitempty"`
}

// NewMessage creates a Message with the Type field derived from entity and action.
func NewMessage(entity, action, id string, extra map[string]any) Message {
	return Message{
		Type:   fmt.Sprintf("%s_%s", entity, action),
		Entity: entity,
		Action: action,
		ID:     id,
		Extra:  extra,
	}
}

// Hub maintains the set of active WebSocket clients and broadcasts messages.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger,
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.logger.Debug("client connected", "clients", h.ClientCount())
}

// Unregister removes a client from the hub and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Broadcast sends a message to all connected clients.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal broadcast", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			// Slow client; it re-syncs on its next message.
			h.logger.Warn("dropped broadcast", "type", msg.Type)
		}
	}
}

// Publish is shorthand for Broadcast(NewMessage(entity, action, id, nil)).
func (h *Hub) Publish(entity, action, id string) {
	h.Broadcast(NewMessage(entity, action, id, nil))
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client. Their connections shut down once the
// write pump sees the closed send channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}
