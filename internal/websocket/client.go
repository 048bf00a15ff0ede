package websocket

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Ledger clients only listen, so inbound frames stay tiny
	maxInboundSize = 512

	// eventQueueSize is how many ledger events may wait for a slow client
	// before further events are dropped for it
	eventQueueSize = 256
)

// ClientStats summarizes what a connection has received
type ClientStats struct {
	ConnectedAt time.Time
	Delivered   int64
	Dropped     int64
}

// Client is one browser tab or CLI listening for ledger events
type Client struct {
	id          string
	conn        *websocket.Conn
	hub         *Hub
	events      chan []byte
	connectedAt time.Time
	logger      zerolog.Logger

	delivered atomic.Int64
	dropped   atomic.Int64

	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

// NewClient wraps an upgraded connection
func NewClient(conn *websocket.Conn, hub *Hub) *Client {
	id := uuid.New().String()
	return &Client{
		id:          id,
		conn:        conn,
		hub:         hub,
		events:      make(chan []byte, eventQueueSize),
		connectedAt: time.Now(),
		logger: log.With().
			Str("component", "ws_client").
			Str("client_id", id).
			Str("remote_addr", conn.RemoteAddr().String()).
			Logger(),
	}
}

// ID returns the client's unique identifier
func (c *Client) ID() string {
	return c.id
}

// Stats returns delivery counters for the connection
func (c *Client) Stats() ClientStats {
	return ClientStats{
		ConnectedAt: c.connectedAt,
		Delivered:   c.delivered.Load(),
		Dropped:     c.dropped.Load(),
	}
}

// Send queues an encoded ledger event. A client whose queue is full misses
// the event and gets ErrClientClosed so the hub drops it.
func (c *Client) Send(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		c.dropped.Add(1)
		return ErrClientClosed
	}

	select {
	case c.events <- data:
		return nil
	default:
		c.dropped.Add(1)
		c.logger.Warn().
			Int("queued", len(c.events)).
			Msg("Ledger event queue full, dropping client")
		return ErrClientClosed
	}
}

// Close ends the session. It may be called from any goroutine, any number of
// times.
func (c *Client) Close() error {
	var closeErr error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		close(c.events)
		c.mu.Unlock()

		closeErr = c.conn.Close()

		c.logger.Info().
			Dur("session", time.Since(c.connectedAt)).
			Int64("delivered", c.delivered.Load()).
			Int64("dropped", c.dropped.Load()).
			Msg("Ledger event session closed")
	})
	return closeErr
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// ReadPump keeps the connection alive and notices when the peer goes away.
// Inbound frames carry nothing for the ledger and are discarded. Run it in
// its own goroutine.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.Close()
	}()

	c.conn.SetReadLimit(maxInboundSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.NextReader(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn().Err(err).Msg("Ledger event client closed unexpectedly")
			}
			return
		}
	}
}

// WritePump delivers queued ledger events and pings the peer. Run it in its
// own goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case event, ok := <-c.events:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, event); err != nil {
				c.logger.Warn().Err(err).Msg("Failed to deliver ledger event")
				return
			}
			c.delivered.Add(1)

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Debug().Err(err).Msg("Ping failed")
				return
			}
		}
	}
}
