package generator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pitchwise/internal/domain"
	"pitchwise/internal/logger"
	"pitchwise/internal/metrics"
	"pitchwise/internal/port"
)

// circuitState tracks rate-limit backoff for a single provider.
type circuitState struct {
	mu      sync.RWMutex
	resetAt time.Time // zero value = closed (healthy)
}

func (c *circuitState) isOpenWithReset(now time.Time) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resetAt, !c.resetAt.IsZero() && now.Before(c.resetAt)
}

func (c *circuitState) open(resetAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetAt = resetAt
}

// FallbackGenerator tries providers in order, skipping those whose rate-limit
// circuit is open. It implements port.Generator.
type FallbackGenerator struct {
	generators []port.Generator
	circuits   []*circuitState
	names      []string
	log        logger.Logger
	now        func() time.Time
}

// NewFallbackGenerator creates a FallbackGenerator from an ordered list of
// generators and their names.
func NewFallbackGenerator(generators []port.Generator, names []string, log logger.Logger) *FallbackGenerator {
	circuits := make([]*circuitState, len(generators))
	for i := range circuits {
		circuits[i] = &circuitState{}
	}
	return &FallbackGenerator{
		generators: generators,
		circuits:   circuits,
		names:      names,
		log:        log,
		now:        time.Now,
	}
}

// Names returns the provider names in fallback order.
func (f *FallbackGenerator) Names() []string {
	return append([]string(nil), f.names...)
}

func (f *FallbackGenerator) Generate(ctx context.Context, req domain.Request) (string, error) {
	if len(f.generators) == 0 {
		return "", domain.ErrNoProviders
	}

	now := f.now()
	var lastErr error
	allRateLimited := true
	var earliestReset time.Time

	for i, g := range f.generators {
		if resetAt, open := f.circuits[i].isOpenWithReset(now); open {
			f.log.Warn("skipping generator, circuit open", map[string]interface{}{
				"provider": f.names[i],
				"resetAt":  resetAt.Format(time.RFC3339),
			})
			if earliestReset.IsZero() || resetAt.Before(earliestReset) {
				earliestReset = resetAt
			}
			continue
		}

		start := time.Now()
		text, err := g.Generate(ctx, req)
		if err == nil {
			metrics.GenerationDuration.WithLabelValues(f.names[i], metrics.OutcomeSuccess).Observe(time.Since(start).Seconds())
			return text, nil
		}
		metrics.GenerationDuration.WithLabelValues(f.names[i], metrics.OutcomeError).Observe(time.Since(start).Seconds())

		f.log.Warn("generator failed", map[string]interface{}{
			"provider": f.names[i],
			"error":    err.Error(),
		})
		lastErr = err

		if rlErr, ok := AsRateLimit(err); ok {
			resetAt := now.Add(rlErr.RetryAfter)
			f.circuits[i].open(resetAt)
			if earliestReset.IsZero() || resetAt.Before(earliestReset) {
				earliestReset = resetAt
			}
		} else {
			allRateLimited = false
		}
	}

	if lastErr == nil || allRateLimited {
		// Every provider was skipped or answered 429.
		retryAfter := earliestReset.Sub(f.now())
		if retryAfter < time.Second {
			retryAfter = time.Second
		}
		return "", NewRateLimitError("all", fmt.Errorf("%w: all generators rate limited", domain.ErrGenerationFailed), int(retryAfter.Seconds()))
	}

	return "", fmt.Errorf("%w: %w", domain.ErrGenerationFailed, lastErr)
}
