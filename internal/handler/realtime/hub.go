package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"parking-booking/internal/handler/httperr"
	"parking-booking/internal/notify"
	"parking-booking/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxInboundSize = 512
	broadcastSize  = 256
)

var (
	errInvalidTopics = errs.New("invalid realtime topics")
	errHubStopped    = errs.New("realtime hub stopped")
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Observers are read-only and unauthenticated; CORS is enforced on the REST API.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type frame struct {
	topic string
	data  []byte
}

type client struct {
	conn   *websocket.Conn
	send   chan []byte
	topics map[string]bool
}

// Hub fans broadcaster events out to WebSocket observers. Clients that
// cannot keep up with their send buffer are disconnected.
type Hub struct {
	clientBuffer int
	logger       *slog.Logger

	register   chan *client
	unregister chan *client
	broadcast  chan frame

	clients map[*client]struct{}
	// done is closed once the run loop has exited.
	done   chan struct{}
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewHub(clientBuffer int, logger *slog.Logger) *Hub {
	if clientBuffer <= 0 {
		clientBuffer = 64
	}
	return &Hub{
		clientBuffer: clientBuffer,
		logger:       logger,
		register:     make(chan *client),
		unregister:   make(chan *client),
		broadcast:    make(chan frame, broadcastSize),
		clients:      make(map[*client]struct{}),
		done:         make(chan struct{}),
	}
}

// Deliver implements notify.Observer.
func (h *Hub) Deliver(ev notify.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Warn("failed to encode realtime event", "topic", ev.Topic, "error", err.Error())
		return
	}
	select {
	case h.broadcast <- frame{topic: ev.Topic, data: data}:
	default:
		h.logger.Warn("realtime broadcast queue full, dropping event", "topic", ev.Topic, "type", ev.Type)
	}
}

func (h *Hub) Start(_ context.Context) error {
	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	h.wg.Add(1)
	go h.run(ctx)
	return nil
}

func (h *Hub) Stop(_ context.Context) error {
	if h.cancel != nil {
		h.cancel()
	}
	h.wg.Wait()
	return nil
}

func (h *Hub) run(ctx context.Context) {
	defer h.wg.Done()
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			close(h.done)
			return

		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.logger.Debug("realtime observer connected", "clients", len(h.clients))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.logger.Debug("realtime observer disconnected", "clients", len(h.clients))
			}

		case f := <-h.broadcast:
			for c := range h.clients {
				if !c.topics[f.topic] {
					continue
				}
				select {
				case c.send <- f.data:
				default:
					delete(h.clients, c)
					close(c.send)
					h.logger.Warn("dropping slow realtime observer")
				}
			}
		}
	}
}

// ServeWS upgrades GET /ws?topics=slots,bookings. Without topics the
// observer receives both.
func (h *Hub) ServeWS(c *gin.Context) {
	topics, ok := parseTopics(c.Query("topics"))
	if !ok {
		httperr.AbortWithError(c, http.StatusBadRequest, errInvalidTopics, "topics must be a comma separated list of slots, bookings", nil)
		return
	}

	select {
	case <-h.done:
		httperr.AbortWithError(c, http.StatusServiceUnavailable, errHubStopped, "Realtime updates are unavailable", nil)
		return
	default:
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err.Error())
		return
	}

	cl := &client{
		conn:   conn,
		send:   make(chan []byte, h.clientBuffer),
		topics: topics,
	}

	select {
	case h.register <- cl:
	case <-h.done:
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		_ = conn.Close()
		return
	case <-c.Request.Context().Done():
		_ = conn.Close()
		return
	}

	go h.writePump(cl)
	go h.readPump(cl)
}

func parseTopics(raw string) (map[string]bool, bool) {
	topics := map[string]bool{}
	if strings.TrimSpace(raw) == "" {
		topics[notify.TopicSlots] = true
		topics[notify.TopicBookings] = true
		return topics, true
	}
	for _, t := range strings.Split(raw, ",") {
		switch t = strings.TrimSpace(strings.ToLower(t)); t {
		case notify.TopicSlots, notify.TopicBookings:
			topics[t] = true
		case "":
		default:
			return nil, false
		}
	}
	return topics, len(topics) > 0
}

// readPump only services control frames; observers never send data.
func (h *Hub) readPump(cl *client) {
	defer func() {
		h.leave(cl)
		_ = cl.conn.Close()
	}()

	cl.conn.SetReadLimit(maxInboundSize)
	_ = cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Debug("websocket read error", "error", err.Error())
			}
			return
		}
	}
}

func (h *Hub) writePump(cl *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = cl.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-cl.send:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = cl.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := cl.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) leave(cl *client) {
	select {
	case h.unregister <- cl:
	case <-h.done:
	}
}
