package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/ray-remotestate/fastfood/models"
	"github.com/ray-remotestate/fastfood/services"
	"github.com/sirupsen/logrus"
)

const (
	sendBuffer = 16
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMessage = 1024
)

// Frame is a message pushed to subscribers.
type Frame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Command is a message sent by a subscriber.
type Command struct {
	Action string `json:"action"`
	Room   string `json:"room"`
}

type Client struct {
	identity models.Identity
	send     chan []byte
}

func NewClient(identity models.Identity) *Client {
	return &Client{identity: identity, send: make(chan []byte, sendBuffer)}
}

// Messages exposes the outbound queue; it is closed when the client is dropped.
func (c *Client) Messages() <-chan []byte {
	return c.send
}

// OrderLookup resolves the owner of an order for order-<id> rooms.
type OrderLookup interface {
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
}

// Hub fans notifications out to clients joined to a room. It implements
// services.Notifier.
type Hub struct {
	mu      sync.RWMutex
	rooms   map[string]map[*Client]struct{}
	clients map[*Client]map[string]struct{}

	orders   OrderLookup
	upgrader websocket.Upgrader
}

var _ services.Notifier = (*Hub)(nil)

func NewHub(orders OrderLookup, allowedOrigin string) *Hub {
	return &Hub{
		rooms:   make(map[string]map[*Client]struct{}),
		clients: make(map[*Client]map[string]struct{}),
		orders:  orders,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowedOrigin == "*" || origin == allowedOrigin
			},
		},
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		h.clients[c] = make(map[string]struct{})
	}
}

// Unregister removes c from every room and closes its queue.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.drop(c)
}

func (h *Hub) drop(c *Client) {
	rooms, ok := h.clients[c]
	if !ok {
		return
	}
	for room := range rooms {
		delete(h.rooms[room], c)
		if len(h.rooms[room]) == 0 {
			delete(h.rooms, room)
		}
	}
	delete(h.clients, c)
	close(c.send)
}

// Join subscribes c to room if its identity may watch it.
func (h *Hub) Join(ctx context.Context, c *Client, room string) bool {
	if !h.allowed(ctx, c.identity, room) {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	rooms, ok := h.clients[c]
	if !ok {
		return false
	}
	rooms[room] = struct{}{}
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]struct{})
	}
	h.rooms[room][c] = struct{}{}
	return true
}

func (h *Hub) Leave(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if rooms, ok := h.clients[c]; ok {
		delete(rooms, room)
	}
	delete(h.rooms[room], c)
	if len(h.rooms[room]) == 0 {
		delete(h.rooms, room)
	}
}

// allowed: staff watch any room; customers only their own user room and
// rooms of orders they placed.
func (h *Hub) allowed(ctx context.Context, who models.Identity, room string) bool {
	if who.IsStaff() {
		return room == services.StaffTopic || strings.HasPrefix(room, "order-") || strings.HasPrefix(room, "user-")
	}
	switch {
	case strings.HasPrefix(room, "user-"):
		id, err := uuid.Parse(strings.TrimPrefix(room, "user-"))
		return err == nil && id == who.ID
	case strings.HasPrefix(room, "order-"):
		id, err := uuid.Parse(strings.TrimPrefix(room, "order-"))
		if err != nil || h.orders == nil {
			return false
		}
		order, err := h.orders.GetOrder(ctx, id)
		return err == nil && order.IsOwnedBy(who.ID)
	default:
		return false
	}
}

// Notify queues the event for every client in topic. Clients whose queue is
// full are dropped instead of blocking the caller.
func (h *Hub) Notify(topic, event string, payload any) {
	msg, err := json.Marshal(Frame{Event: event, Data: payload})
	if err != nil {
		logrus.WithError(err).WithField("topic", topic).Error("failed to encode notification")
		return
	}

	var slow []*Client
	h.mu.RLock()
	for c := range h.rooms[topic] {
		select {
		case c.send <- msg:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	if len(slow) == 0 {
		return
	}
	h.mu.Lock()
	for _, c := range slow {
		h.drop(c)
	}
	h.mu.Unlock()
	logrus.WithFields(logrus.Fields{"topic": topic, "dropped": len(slow)}).Warn("dropped slow subscribers")
}

// ServeWS upgrades the request and serves join/leave commands for caller
// until the connection closes.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, caller models.Identity) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.WithError(err).Warn("websocket upgrade failed")
		return
	}

	client := NewClient(caller)
	h.Register(client)
	go h.writePump(conn, client)
	h.readPump(r.Context(), conn, client)
}

func (h *Hub) readPump(ctx context.Context, conn *websocket.Conn, c *Client) {
	defer func() {
		h.Unregister(c)
		conn.Close()
	}()
	conn.SetReadLimit(maxMessage)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var cmd Command
		if err := conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logrus.WithError(err).Debug("websocket closed")
			}
			return
		}
		switch cmd.Action {
		case "join":
			if h.Join(ctx, c, cmd.Room) {
				h.reply(c, "joined", cmd.Room)
			} else {
				h.reply(c, "error", "Not authorized to join "+cmd.Room)
			}
		case "leave":
			h.Leave(c, cmd.Room)
			h.reply(c, "left", cmd.Room)
		default:
			h.reply(c, "error", "Unknown action")
		}
	}
}

func (h *Hub) reply(c *Client, event string, data any) {
	msg, err := json.Marshal(Frame{Event: event, Data: data})
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	select {
	case c.send <- msg:
	default:
	}
}

func (h *Hub) writePump(conn *websocket.Conn, c *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
