package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"pitchwise/internal/config"
	"pitchwise/internal/logger"
)

func TestConn_EmitAfterCloseIsDropped(t *testing.T) {
	c := NewConn(nil, nil, config.SessionConfig{SendBuffer: 1}, logger.NewNoOpLogger())
	c.Close()
	c.Close()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			c.Emit("loading", nil)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked on a closed connection")
	}
	assert.Empty(t, c.send)
}

func TestNewConn_Defaults(t *testing.T) {
	c := NewConn(nil, nil, config.SessionConfig{}, logger.NewNoOpLogger())

	assert.Equal(t, defaultSendBuffer, cap(c.send))
	assert.Nil(t, c.queue)
	assert.NotEmpty(t, c.ID())
}

func TestHub_RegisterAfterShutdownIsRejected(t *testing.T) {
	h := NewHub(context.Background(), nil, config.SessionConfig{SendBuffer: 1}, logger.NewNoOpLogger())

	live := NewConn(nil, nil, config.SessionConfig{SendBuffer: 1}, logger.NewNoOpLogger())
	assert.True(t, h.register(live))
	assert.Equal(t, 1, h.Count())

	h.Shutdown()
	h.unregister(live)

	late := NewConn(nil, nil, config.SessionConfig{SendBuffer: 1}, logger.NewNoOpLogger())
	assert.False(t, h.register(late))
	assert.Equal(t, 0, h.Count())
}
