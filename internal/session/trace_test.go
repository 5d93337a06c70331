package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"pitchwise/internal/extractor"
	"pitchwise/internal/logger"
	"pitchwise/internal/session"
	"pitchwise/mocks"
)

var (
	spanExporter     *tracetest.InMemoryExporter
	spanExporterOnce sync.Once
)

// recordSpans installs an in-memory tracer provider. The global provider
// delegates only once, so it is shared by every test in the package.
func recordSpans(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	spanExporterOnce.Do(func() {
		spanExporter = tracetest.NewInMemoryExporter()
		otel.SetTracerProvider(sdktrace.NewTracerProvider(
			sdktrace.WithSyncer(spanExporter),
			sdktrace.WithSampler(sdktrace.AlwaysSample()),
		))
	})
	spanExporter.Reset()
	return spanExporter
}

func cycleSpans(exporter *tracetest.InMemoryExporter) tracetest.SpanStubs {
	var out tracetest.SpanStubs
	for _, s := range exporter.GetSpans() {
		if s.Name == "session.cycle" {
			out = append(out, s)
		}
	}
	return out
}

func TestCoordinator_HandleMessage_RecordsCycleSpan(t *testing.T) {
	exporter := recordSpans(t)
	gen := new(mocks.MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything).Return(`"Shall we talk numbers?" score: 0.8`, nil)

	session.NewCoordinator(gen, extractor.New(), logger.NewNoOpLogger()).
		HandleMessage(context.Background(), &mocks.RecordingEmitter{}, chatRequest)

	spans := cycleSpans(exporter)
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Unset, spans[0].Status.Code)
	var count int64 = -1
	for _, attr := range spans[0].Attributes {
		if attr.Key == "options.count" {
			count = attr.Value.AsInt64()
		}
	}
	assert.Equal(t, int64(1), count)
}

func TestCoordinator_HandleMessage_FailedCycleSpan(t *testing.T) {
	exporter := recordSpans(t)
	gen := new(mocks.MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("connection refused"))

	session.NewCoordinator(gen, extractor.New(), logger.NewNoOpLogger()).
		HandleMessage(context.Background(), &mocks.RecordingEmitter{}, chatRequest)

	spans := cycleSpans(exporter)
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, "connection refused", spans[0].Status.Description)
	require.NotEmpty(t, spans[0].Events)
	assert.Equal(t, "exception", spans[0].Events[0].Name)
}
