package port

import (
	"context"

	"pitchwise/internal/domain"
)

// Generator produces unstructured reply text for a chat request. It is the
// only component that performs network I/O during a cycle.
type Generator interface {
	Generate(ctx context.Context, req domain.Request) (string, error)
}
