// Package live pushes dashboard frames to admin browsers over websockets.
// Every mirror change re-renders the statistics for all connected admins;
// the user table is only sent to admins looking at the users section.
package live

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dashblogger/admin-console/internal/api/metrics"
	"github.com/dashblogger/admin-console/internal/api/middleware"
	"github.com/dashblogger/admin-console/internal/core/mirror"
	"github.com/dashblogger/admin-console/internal/core/ports"
)

const (
	pingInterval   = 30 * time.Second
	pongWait       = 60 * time.Second
	maxMessageSize = 8192
	writeWait      = 10 * time.Second
	sendBuffer     = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Refresher re-derives every open dashboard from the mirror.
type Refresher interface {
	Refresh()
}

type client struct {
	id      string
	adminID string
	conn    *websocket.Conn
	send    chan []byte
	once    sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// Hub tracks the open connections per admin.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client

	dash    ports.DashboardService
	refresh Refresher
	log     zerolog.Logger
}

func NewHub(dash ports.DashboardService, refresh Refresher, log zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*client),
		dash:    dash,
		refresh: refresh,
		log:     log,
	}
}

// Run renders a frame for every connected admin after each mirror change,
// until ctx is cancelled or updates is closed.
func (h *Hub) Run(ctx context.Context, updates <-chan mirror.Event) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case ev, ok := <-updates:
			if !ok {
				h.closeAll()
				return
			}
			h.refresh.Refresh()
			h.log.Debug().Str("kind", string(ev.Change.Kind)).Int("size", ev.Size).Msg("mirror changed")
			h.pushAll()
		}
	}
}

func (h *Hub) pushAll() {
	h.mu.RLock()
	defer h.mu.RUnlock()

	rendered := make(map[string][]byte)
	for _, c := range h.clients {
		msg, ok := rendered[c.adminID]
		if !ok {
			msg = h.render(c.adminID)
			rendered[c.adminID] = msg
		}
		h.deliver(c, msg)
	}
}

// render builds the frame message for adminID. Statistics are always
// included; the table only when the users section is visible.
func (h *Hub) render(adminID string) []byte {
	frame := h.dash.Frame(adminID, false)
	metrics.FramesPushedTotal.WithLabelValues("stats").Inc()
	if frame.Table != nil {
		metrics.FramesPushedTotal.WithLabelValues("table").Inc()
	}
	return encode(envelope{Type: "frame", Data: frame})
}

func (h *Hub) deliver(c *client, msg []byte) {
	select {
	case c.send <- msg:
	default:
		h.log.Warn().Str("client_id", c.id).Str("admin", c.adminID).Msg("slow client dropped")
		go h.unregister(c)
	}
}

// reply delivers msg if c is still registered; Close may have released it.
func (h *Hub) reply(c *client, msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[c.id]; ok {
		h.deliver(c, msg)
	}
}

// Close drops every connection of adminID. It implements
// service.SessionCloser so that logout ends live updates.
func (h *Hub) Close(adminID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		if c.adminID == adminID {
			delete(h.clients, id)
			c.close()
		}
	}
	metrics.LiveConnections.Set(float64(len(h.clients)))
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		delete(h.clients, id)
		c.close()
	}
	metrics.LiveConnections.Set(0)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c.id] = c
	n := len(h.clients)
	h.mu.Unlock()
	metrics.LiveConnections.Set(float64(n))
	h.log.Info().Str("client_id", c.id).Str("admin", c.adminID).Msg("live client registered")
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c.id]; ok {
		delete(h.clients, c.id)
		c.close()
	}
	n := len(h.clients)
	h.mu.Unlock()
	metrics.LiveConnections.Set(float64(n))
}

// Len returns the number of open connections.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeWS upgrades an authenticated admin request and starts its pumps.
//
// @Summary  Live dashboard updates
// @Tags     dashboard
// @Param    token  query  string  true  "Session token"
// @Success  101
// @Failure  401  {object}  map[string]string
// @Failure  403  {object}  map[string]string
// @Router   /admin/dashboard/ws [get]
func (h *Hub) ServeWS(c echo.Context) error {
	admin, ok := middleware.Admin(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return nil
	}

	cl := &client{
		id:      uuid.NewString(),
		adminID: admin.ID,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
	}
	cl.send <- h.render(admin.ID)
	h.register(cl)

	go h.writePump(cl)
	go h.readPump(cl)
	return nil
}

func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn().Err(err).Str("client_id", c.id).Msg("websocket read failed")
			}
			return
		}

		var cmd command
		if err := json.Unmarshal(raw, &cmd); err != nil {
			h.reply(c, encodeError("malformed message"))
			continue
		}
		h.reply(c, h.handle(c.adminID, cmd))
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
