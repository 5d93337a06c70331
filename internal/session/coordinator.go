// Package session runs request cycles for realtime clients: the Coordinator
// turns one chat-message into a ranked option list, Conn carries the events
// over a WebSocket and Hub tracks the live connections.
package session

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"pitchwise/internal/domain"
	"pitchwise/internal/logger"
	"pitchwise/internal/metrics"
	"pitchwise/internal/port"
)

const (
	chatErrorSummary = "Failed to get a response from the chatbot"
	debugInfoMessage = "Parsed options were sent to client"
)

var tracer = otel.Tracer("pitchwise/session")

// MessageHandler processes one inbound chat-message, emitting its events on emit.
type MessageHandler interface {
	HandleMessage(ctx context.Context, emit port.Emitter, req domain.Request)
}

// Coordinator drives a single request cycle: generate, extract, notify.
// It holds no per-connection state and is safe for concurrent use.
type Coordinator struct {
	generator port.Generator
	extractor port.OptionExtractor
	log       logger.Logger
	now       func() time.Time
}

// NewCoordinator creates a Coordinator.
func NewCoordinator(gen port.Generator, ext port.OptionExtractor, log logger.Logger) *Coordinator {
	return &Coordinator{
		generator: gen,
		extractor: ext,
		log:       log,
		now:       time.Now,
	}
}

// HandleMessage emits loading, then either parsedOptions and debugInfo or
// chatError, and always finishes with loaded. Failures are never retried.
func (c *Coordinator) HandleMessage(ctx context.Context, emit port.Emitter, req domain.Request) {
	ctx, span := tracer.Start(ctx, "session.cycle")
	defer span.End()

	metrics.CyclesActive.Inc()
	defer metrics.CyclesActive.Dec()

	emit.Emit(domain.EventLoading, nil)
	defer emit.Emit(domain.EventLoaded, nil)

	defer func() {
		if r := recover(); r != nil {
			c.fail(span, emit, fmt.Errorf("cycle panicked: %v", r))
		}
	}()

	options, err := c.Run(ctx, req)
	if err != nil {
		c.fail(span, emit, err)
		return
	}

	emit.Emit(domain.EventParsedOptions, options)
	emit.Emit(domain.EventDebugInfo, domain.DebugInfo{
		Message:      debugInfoMessage,
		OptionsCount: len(options),
		Timestamp:    domain.Timestamp(c.now()),
	})

	span.SetAttributes(attribute.Int("options.count", len(options)))
	metrics.CyclesTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
}

// Run generates a reply for req and extracts its options. It is the
// transport-free half of a cycle, shared with the synchronous HTTP endpoint.
func (c *Coordinator) Run(ctx context.Context, req domain.Request) (domain.ResultSet, error) {
	text, err := c.generator.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	c.log.Debug("generator response", map[string]interface{}{"raw": text})

	options, strategy := c.extractor.Extract(text)
	metrics.ExtractionStrategy.WithLabelValues(strategy).Inc()
	c.log.Debug("options extracted", map[string]interface{}{
		"strategy": strategy,
		"count":    len(options),
	})
	return options, nil
}

func (c *Coordinator) fail(span trace.Span, emit port.Emitter, err error) {
	c.log.WithError(err).Error("request cycle failed", nil)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	metrics.CyclesTotal.WithLabelValues(metrics.OutcomeError).Inc()

	emit.Emit(domain.EventChatError, domain.ChatError{
		Error:     chatErrorSummary,
		Details:   err.Error(),
		Timestamp: domain.Timestamp(c.now()),
	})
}
