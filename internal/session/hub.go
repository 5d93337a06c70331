package session

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"

	"pitchwise/internal/config"
	"pitchwise/internal/logger"
	"pitchwise/internal/metrics"
)

// Hub tracks live connections. Connections share nothing but the Hub's
// registry and the base context their cycles run under.
type Hub struct {
	handler MessageHandler
	cfg     config.SessionConfig
	log     logger.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.RWMutex
	conns map[string]*Conn
}

// NewHub creates a Hub whose cycles run under ctx.
func NewHub(ctx context.Context, handler MessageHandler, cfg config.SessionConfig, log logger.Logger) *Hub {
	ctx, cancel := context.WithCancel(ctx)
	return &Hub{
		handler: handler,
		cfg:     cfg,
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
		conns:   make(map[string]*Conn),
	}
}

// Serve registers an upgraded socket and blocks until it disconnects.
func (h *Hub) Serve(ws *websocket.Conn) {
	c := NewConn(ws, h.handler, h.cfg, h.log)
	if !h.register(c) {
		_ = ws.Close()
		return
	}
	defer h.unregister(c)

	c.Serve(h.ctx)
}

// Count returns the number of live connections.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Shutdown closes every connection and cancels in-flight cycles.
func (h *Hub) Shutdown() {
	h.mu.RLock()
	conns := make([]*Conn, 0, len(h.conns))
	for _, c := range h.conns {
		conns = append(conns, c)
	}
	h.cancel()
	h.mu.RUnlock()

	for _, c := range conns {
		c.Close()
	}
	h.log.Info("realtime hub shut down", map[string]interface{}{"connections": len(conns)})
}

// register adds c unless the hub is shutting down. The check runs under
// the lock so Shutdown's snapshot cannot miss a late registration.
func (h *Hub) register(c *Conn) bool {
	h.mu.Lock()
	if h.ctx.Err() != nil {
		h.mu.Unlock()
		return false
	}
	h.conns[c.ID()] = c
	h.mu.Unlock()

	metrics.ConnectionsActive.Inc()
	c.log.Info("client connected", nil)
	return true
}

func (h *Hub) unregister(c *Conn) {
	h.mu.Lock()
	delete(h.conns, c.ID())
	h.mu.Unlock()

	metrics.ConnectionsActive.Dec()
	c.log.Info("client disconnected", nil)
}
