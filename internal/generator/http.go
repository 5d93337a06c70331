package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("pitchwise/generator")

// Call is one JSON POST to a provider API.
type Call struct {
	Provider string
	Model    string
	Endpoint string
	Headers  map[string]string
	Body     interface{}
}

// PostJSON sends call and returns the response body of a 200 reply. HTTP 429
// is reported as a *RateLimitError, any other non-200 status as a plain error.
func PostJSON(ctx context.Context, client *http.Client, call Call) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "generator."+call.Provider)
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.provider", call.Provider),
		attribute.String("llm.model", call.Model),
	)

	body, err := postJSON(ctx, client, call)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return body, err
}

func postJSON(ctx context.Context, client *http.Client, call Call) ([]byte, error) {
	bodyBytes, err := json.Marshal(call.Body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, call.Endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range call.Headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling %s API: %w", call.Provider, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("%s API error (status %d): %s", call.Provider, resp.StatusCode, Truncate(string(respBody), 500))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return nil, NewRateLimitError(call.Provider, baseErr, retryAfter)
		}
		return nil, baseErr
	}

	return respBody, nil
}
