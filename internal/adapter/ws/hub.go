package ws

import (
	"encoding/json"
	"sync"

	"github.com/mixit-delights/storefront/internal/adapter/logger"
)

// Topic names. Per-user topics are built with UserTopic.
const (
	TopicMenu   = "menu"
	TopicOrders = "orders"
)

func UserTopic(kind, userID string) string {
	return kind + ":" + userID
}

// Frame is one outbound push message.
type Frame struct {
	Topic   string      `json:"topic"`
	Payload interface{} `json:"payload"`
}

// Hub routes pushed frames to topic subscribers. Subscriptions are
// explicit: a client receives only what it asked for, and disconnecting
// tears all of its subscriptions down.
type Hub struct {
	log logger.Logger

	// OnTopicActive fires when a topic gains its first subscriber,
	// OnTopicEmpty after the last one leaves. Both are set once during
	// wiring, before any client connects.
	OnTopicActive func(topic string)
	OnTopicEmpty  func(topic string)

	mu     sync.RWMutex
	topics map[string]map[*Client]struct{}
}

func NewHub(log logger.Logger) *Hub {
	return &Hub{
		log:    log,
		topics: make(map[string]map[*Client]struct{}),
	}
}

func (h *Hub) Subscribe(c *Client, topic string) {
	h.mu.Lock()
	subs, ok := h.topics[topic]
	if !ok {
		subs = make(map[*Client]struct{})
		h.topics[topic] = subs
	}
	subs[c] = struct{}{}
	first := !ok
	h.mu.Unlock()

	if first && h.OnTopicActive != nil {
		h.OnTopicActive(topic)
	}
}

func (h *Hub) Unsubscribe(c *Client, topic string) {
	h.mu.Lock()
	var emptied []string
	if subs, ok := h.topics[topic]; ok {
		delete(subs, c)
		if len(subs) == 0 {
			delete(h.topics, topic)
			emptied = append(emptied, topic)
		}
	}
	h.mu.Unlock()
	h.notifyEmpty(emptied)
}

// Detach removes the client from every topic. Called once on disconnect.
func (h *Hub) Detach(c *Client) {
	h.mu.Lock()
	var emptied []string
	for topic, subs := range h.topics {
		delete(subs, c)
		if len(subs) == 0 {
			delete(h.topics, topic)
			emptied = append(emptied, topic)
		}
	}
	h.mu.Unlock()
	h.notifyEmpty(emptied)
}

// notifyEmpty runs outside the hub lock so the hook may broadcast or take
// its own locks.
func (h *Hub) notifyEmpty(topics []string) {
	if h.OnTopicEmpty == nil {
		return
	}
	for _, topic := range topics {
		h.OnTopicEmpty(topic)
	}
}

// Broadcast pushes a payload to every subscriber of topic. Slow clients
// drop frames rather than stall the hub.
func (h *Hub) Broadcast(topic string, payload interface{}) {
	data, err := json.Marshal(Frame{Topic: topic, Payload: payload})
	if err != nil {
		h.log.Error("ws_broadcast", "Failed to marshal frame", "", map[string]interface{}{
			"topic": topic,
		}, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.topics[topic] {
		c.enqueue(data)
	}
}
