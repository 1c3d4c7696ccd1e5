package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"grand-staff/debug"
	"grand-staff/notation"
)

const (
	writeWait  = 5 * time.Second
	sendBuffer = 16
)

// Command is what websocket clients may send.
type Command struct {
	Op    string `json:"op"` // on, off, clear, spelling
	Pitch int    `json:"pitch,omitempty"`
	Mode  string `json:"mode,omitempty"` // empty toggles
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Hub tracks websocket subscribers. Slow clients miss frames rather than
// stalling the broadcaster; the next frame supersedes anyway.
type Hub struct {
	mu      sync.Mutex
	clients map[string]*client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]*client)}
}

// add registers conn; first, if non-nil, is queued before any broadcast.
func (h *Hub) add(conn *websocket.Conn, first []byte) *client {
	c := &client{
		id:   uuid.New().String(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	if first != nil {
		c.send <- first
	}
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	debug.Log("server", "ws client %s connected", c.id)
	return c
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[id]; ok {
		delete(h.clients, id)
		close(c.send)
		debug.Log("server", "ws client %s gone", id)
	}
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) Broadcast(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.clients {
		select {
		case c.send <- msg:
		default:
			debug.Log("server", "ws client %s lagging, frame dropped", c.id)
		}
	}
}

func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		delete(h.clients, id)
		close(c.send)
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		debug.Log("server", "ws upgrade: %v", err)
		return
	}
	// New subscribers get the current frame straight away.
	first, err := s.frameJSON()
	if err != nil {
		debug.Log("server", "encode frame: %v", err)
	}
	c := s.hub.add(conn, first)

	go c.writePump()
	s.readPump(c)
}

func (c *client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			debug.Log("server", "ws write %s: %v", c.id, err)
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (s *Server) readPump(c *client) {
	defer s.hub.remove(c.id)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			debug.Log("server", "ws %s bad command: %v", c.id, err)
			continue
		}
		s.apply(cmd)
	}
}

func (s *Server) apply(cmd Command) {
	switch cmd.Op {
	case "on":
		s.display.AddPitch(notation.Pitch(cmd.Pitch))
	case "off":
		s.display.RemovePitch(notation.Pitch(cmd.Pitch))
	case "clear":
		s.display.Clear()
	case "spelling":
		if cmd.Mode == "" {
			s.display.SetSpellingMode(s.display.SpellingMode().Toggle())
			return
		}
		mode, err := notation.ParseSpellingMode(cmd.Mode)
		if err != nil {
			debug.Log("server", "ws spelling: %v", err)
			return
		}
		s.display.SetSpellingMode(mode)
	default:
		debug.Log("server", "ws unknown op %q", cmd.Op)
	}
}
