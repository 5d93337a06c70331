package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"pitchwise/internal/config"
	"pitchwise/internal/domain"
	"pitchwise/internal/logger"
)

const (
	defaultPingInterval = 54 * time.Second
	defaultSendBuffer   = 32
)

// envelope is the wire frame in both directions.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type outbound struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

// Conn is one realtime client. A single reader decodes inbound frames, each
// chat-message runs as its own cycle and a single writer owns the socket for
// outbound frames.
type Conn struct {
	id      string
	ws      *websocket.Conn
	handler MessageHandler
	cfg     config.SessionConfig
	log     logger.Logger

	send      chan outbound
	queue     chan domain.Request
	done      chan struct{}
	closeOnce sync.Once
}

// NewConn wraps an upgraded WebSocket.
func NewConn(ws *websocket.Conn, handler MessageHandler, cfg config.SessionConfig, log logger.Logger) *Conn {
	id := uuid.New().String()
	buf := cfg.SendBuffer
	if buf <= 0 {
		buf = defaultSendBuffer
	}
	c := &Conn{
		id:      id,
		ws:      ws,
		handler: handler,
		cfg:     cfg,
		log:     log.With(map[string]interface{}{"conn_id": id}),
		send:    make(chan outbound, buf),
		done:    make(chan struct{}),
	}
	if cfg.SerializeCycles {
		c.queue = make(chan domain.Request, buf)
	}
	return c
}

// ID returns the connection identifier.
func (c *Conn) ID() string {
	return c.id
}

// Emit queues an event for the client. Events emitted after the connection
// has closed are dropped.
func (c *Conn) Emit(event string, payload interface{}) {
	select {
	case <-c.done:
		return
	default:
	}
	select {
	case c.send <- outbound{Event: event, Data: payload}:
	case <-c.done:
	}
}

// Close ends the connection. It is safe to call more than once.
func (c *Conn) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// Serve runs the connection until the client goes away or Close is called.
// Cycles inherit ctx, not the connection's lifetime: a cycle in flight when
// the client disconnects still runs to completion.
func (c *Conn) Serve(ctx context.Context) {
	var writer sync.WaitGroup
	writer.Add(1)
	go func() {
		defer writer.Done()
		c.writePump()
	}()

	if c.queue != nil {
		go c.serialWorker(ctx)
	}

	c.readPump(ctx)
	c.Close()
	writer.Wait()
}

func (c *Conn) readPump(ctx context.Context) {
	if c.cfg.MaxMessageBytes > 0 {
		c.ws.SetReadLimit(c.cfg.MaxMessageBytes)
	}
	c.extendReadDeadline()
	c.ws.SetPongHandler(func(string) error {
		c.extendReadDeadline()
		return nil
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				c.log.Warn("websocket read failed", map[string]interface{}{"error": err.Error()})
			}
			return
		}

		var msg envelope
		if err := json.Unmarshal(data, &msg); err != nil {
			c.log.Warn("ignoring malformed frame", map[string]interface{}{"error": err.Error()})
			continue
		}

		switch msg.Event {
		case domain.EventChatMessage:
			var req domain.Request
			if err := json.Unmarshal(msg.Data, &req); err != nil {
				c.log.Warn("ignoring malformed chat-message", map[string]interface{}{"error": err.Error()})
				continue
			}
			c.dispatch(ctx, req)
		default:
			c.log.Debug("ignoring unknown event", map[string]interface{}{"event": msg.Event})
		}
	}
}

func (c *Conn) dispatch(ctx context.Context, req domain.Request) {
	if c.queue != nil {
		select {
		case c.queue <- req:
		case <-c.done:
		}
		return
	}

	go c.handler.HandleMessage(ctx, c, req)
}

// serialWorker runs queued cycles one at a time in arrival order.
func (c *Conn) serialWorker(ctx context.Context) {
	for {
		select {
		case <-c.done:
			return
		case req := <-c.queue:
			c.handler.HandleMessage(ctx, c, req)
		}
	}
}

func (c *Conn) writePump() {
	interval := c.cfg.PingInterval
	if interval <= 0 {
		interval = defaultPingInterval
	}
	ticker := time.NewTicker(interval)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
		c.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			frame, err := json.Marshal(msg)
			if err != nil {
				c.log.Error("encoding event failed", map[string]interface{}{
					"event": msg.Event,
					"error": err.Error(),
				})
				continue
			}
			c.setWriteDeadline()
			if err := c.ws.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.log.Warn("websocket write failed", map[string]interface{}{
					"event": msg.Event,
					"error": err.Error(),
				})
				return
			}
		case <-ticker.C:
			c.setWriteDeadline()
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			c.setWriteDeadline()
			_ = c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (c *Conn) extendReadDeadline() {
	if c.cfg.PongWait > 0 {
		_ = c.ws.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	}
}

func (c *Conn) setWriteDeadline() {
	if c.cfg.WriteTimeout > 0 {
		_ = c.ws.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	}
}
