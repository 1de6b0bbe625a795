package schedule

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event types pushed to tournament rooms.
const (
	EventScheduleGenerated  = "schedule.generated"
	EventMatchScored        = "match.scored"
	EventStandingsUpdated   = "standings.updated"
	EventPlayoffsResolved   = "playoffs.resolved"
	EventPlayoffsReresolved = "playoffs.reresolved"
)

// Event is the envelope every room broadcast is wrapped in.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	RoomID  string      `json:"room_id,omitempty"`
}

// RoomID names the hub room carrying one tournament's live updates.
func RoomID(tournamentID string) string {
	return "tournament_" + tournamentID
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Client is one WebSocket subscriber, bound to a single tournament room.
type Client struct {
	Hub  *Hub
	Conn *websocket.Conn
	Send chan []byte
	Room string

	mu     sync.Mutex
	closed bool
}

// Hub fans events out to room subscribers. Registration runs through
// channels serviced by Run; broadcasts take the read lock directly.
type Hub struct {
	Register   chan *Client
	Unregister chan *Client

	log   *slog.Logger
	rooms map[string]map[*Client]bool
	mu    sync.RWMutex
}

func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		log:        log,
		rooms:      make(map[string]map[*Client]bool),
	}
}

// Run services client registration until the process exits. Start it once,
// in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.rooms[client.Room]; !ok {
				h.rooms[client.Room] = make(map[*Client]bool)
			}
			h.rooms[client.Room][client] = true
			h.log.Debug("ws client registered",
				slog.String("room", client.Room),
				slog.Int("room_size", len(h.rooms[client.Room])))
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.Room]; ok {
				if _, known := clients[client]; known {
					client.closeSend()
					delete(clients, client)
					if len(clients) == 0 {
						delete(h.rooms, client.Room)
					}
					h.log.Debug("ws client unregistered", slog.String("room", client.Room))
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToRoom sends one event to every client of the room. A client
// whose send buffer is full is skipped rather than blocking the rest of the
// room.
func (h *Hub) BroadcastToRoom(roomID string, eventType string, payload interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.rooms[roomID]
	if !ok {
		return
	}

	message, err := json.Marshal(Event{Type: eventType, Payload: payload, RoomID: roomID})
	if err != nil {
		h.log.Error("ws event marshal failed",
			slog.String("room", roomID),
			slog.String("type", eventType),
			slog.Any("error", err))
		return
	}

	for client := range clients {
		client.mu.Lock()
		if client.closed {
			client.mu.Unlock()
			continue
		}
		select {
		case client.Send <- message:
		default:
			h.log.Warn("ws client send buffer full, dropping event",
				slog.String("room", roomID),
				slog.String("type", eventType))
		}
		client.mu.Unlock()
	}
}

func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		close(c.Send)
		c.closed = true
	}
}

// ReadPump drains inbound frames until the peer goes away. Subscribers are
// read-only; anything they send is discarded. Its real job is keeping the
// pong deadline fresh.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.log.Debug("ws read error", slog.String("room", c.Room), slog.Any("error", err))
			}
			return
		}
	}
}

// WritePump flushes the send buffer to the connection and keeps the link
// alive with pings. One goroutine per client; exits when the hub closes the
// send channel or a write fails.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// flush whatever queued up behind this event
			n := len(c.Send)
			for i := 0; i < n; i++ {
				w.Write(<-c.Send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
