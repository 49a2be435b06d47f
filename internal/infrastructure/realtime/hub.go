// Package realtime fans bring-item deltas out to websocket subscribers,
// one room per event.
package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"dinnerbell/internal/ports/output"
)

const (
	sendBuffer = 16
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

var _ output.ChangeFeed = (*Hub)(nil)

// Hub keeps rooms[eventID] = set of subscribers.
type Hub struct {
	mu       sync.Mutex
	rooms    map[string]map[*Subscriber]struct{}
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		rooms: make(map[string]map[*Subscriber]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		log: log.With().Str("component", "realtime").Logger(),
	}
}

// Subscriber receives encoded changes on C until it is removed.
type Subscriber struct {
	eventID string
	C       chan []byte
}

func (h *Hub) Subscribe(eventID string) *Subscriber {
	sub := &Subscriber{eventID: eventID, C: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[eventID] == nil {
		h.rooms[eventID] = make(map[*Subscriber]struct{})
	}
	h.rooms[eventID][sub] = struct{}{}
	return sub
}

// Unsubscribe removes sub and closes its channel. Safe to call twice.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(sub)
}

func (h *Hub) removeLocked(sub *Subscriber) {
	room, ok := h.rooms[sub.eventID]
	if !ok {
		return
	}
	if _, ok := room[sub]; !ok {
		return
	}
	delete(room, sub)
	close(sub.C)
	if len(room) == 0 {
		delete(h.rooms, sub.eventID)
	}
}

// Publish never blocks: a subscriber whose buffer is full is dropped and
// has to reconnect and refetch.
func (h *Hub) Publish(eventID string, change output.BringItemChange) {
	payload, err := json.Marshal(change)
	if err != nil {
		h.log.Error().Err(err).Msg("encode change")
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.rooms[eventID] {
		select {
		case sub.C <- payload:
		default:
			h.log.Warn().Str("event_id", eventID).Msg("slow subscriber dropped")
			h.removeLocked(sub)
		}
	}
}

// Subscribers returns the number of live subscribers of an event.
func (h *Hub) Subscribers(eventID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[eventID])
}

// Serve upgrades the request and streams the event's changes until the
// client goes away. Access must be checked before calling it.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, eventID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug().Err(err).Msg("websocket upgrade")
		return
	}
	sub := h.Subscribe(eventID)
	go h.readPump(conn, sub)
	h.writePump(conn, sub)
}

// readPump discards client frames and unsubscribes on disconnect.
func (h *Hub) readPump(conn *websocket.Conn, sub *Subscriber) {
	defer h.Unsubscribe(sub)
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug().Err(err).Str("event_id", sub.eventID).Msg("websocket read")
			}
			return
		}
	}
}

func (h *Hub) writePump(conn *websocket.Conn, sub *Subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()
	for {
		select {
		case payload, ok := <-sub.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				h.Unsubscribe(sub)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.Unsubscribe(sub)
				return
			}
		}
	}
}
