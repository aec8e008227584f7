package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mixit-delights/storefront/internal/adapter/geocode"
	"github.com/mixit-delights/storefront/internal/adapter/logger"
	"github.com/mixit-delights/storefront/internal/adapter/metrics"
	"github.com/mixit-delights/storefront/internal/domain"
	"github.com/mixit-delights/storefront/internal/interfaces"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 256
)

// inboundMessage is what subscribers send us: topic management and
// location search keystrokes.
type inboundMessage struct {
	Type  string `json:"type"`
	Topic string `json:"topic,omitempty"`
	Query string `json:"query,omitempty"`
}

// Client is one websocket subscriber bound to an authenticated caller.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	caller   interfaces.Caller
	searches *geocode.Debouncer
	log      logger.Logger
}

// Serve upgrades the request and runs the client until disconnect.
func Serve(hub *Hub, searches *geocode.Debouncer, log logger.Logger, caller interfaces.Caller, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("ws_upgrade", "Failed to upgrade connection", "", nil, err)
		return
	}

	client := &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		caller:   caller,
		searches: searches,
		log:      log,
	}
	metrics.WSConnections.Inc()

	// The request context dies when the handler returns; the connection
	// outlives it.
	go client.writePump()
	go client.readPump(context.Background())
}

func (c *Client) enqueue(data []byte) {
	select {
	case c.send <- data:
	default:
		// Slow consumer; drop the frame. The client can refetch on demand.
	}
}

func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.hub.Detach(c)
		c.searches.Cancel(c.searchKey())
		c.conn.Close()
		metrics.WSConnections.Dec()
	}()

	c.conn.SetReadLimit(64 * 1024)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Debug("ws_read", "Websocket closed unexpectedly", "", map[string]interface{}{
					"error": err.Error(),
				})
			}
			break
		}
		c.handleMessage(ctx, message)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(ctx context.Context, message []byte) {
	var msg inboundMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		c.sendError("malformed message")
		return
	}

	switch msg.Type {
	case "subscribe":
		if !c.allowed(msg.Topic) {
			c.sendError("subscription not allowed: " + msg.Topic)
			return
		}
		c.hub.Subscribe(c, msg.Topic)
	case "unsubscribe":
		c.hub.Unsubscribe(c, msg.Topic)
	case "location_query":
		c.searches.Submit(ctx, c.searchKey(), msg.Query, c.deliverSearch)
	default:
		c.sendError("unknown message type: " + msg.Type)
	}
}

// allowed enforces topic ownership: per-user topics only for the owning
// caller, the all-orders feed only for admins.
func (c *Client) allowed(topic string) bool {
	switch topic {
	case TopicMenu:
		return true
	case TopicOrders:
		return c.caller.Admin
	}
	for _, kind := range []string{"orders", "profile", "tracking"} {
		if topic == UserTopic(kind, c.caller.UserID) {
			return true
		}
	}
	return false
}

func (c *Client) searchKey() string {
	return c.caller.UserID
}

func (c *Client) deliverSearch(query string, results []domain.Location, err error) {
	if err != nil {
		metrics.GeocodeFailures.Inc()
		c.sendError("location search failed")
		return
	}
	data, err := json.Marshal(Frame{Topic: "location_results", Payload: map[string]interface{}{
		"query":   query,
		"results": results,
	}})
	if err != nil {
		return
	}
	c.enqueue(data)
}

func (c *Client) sendError(message string) {
	data, err := json.Marshal(Frame{Topic: "error", Payload: map[string]string{"error": message}})
	if err != nil {
		return
	}
	c.enqueue(data)
}
