package domain

import "errors"

var (
	ErrInvalidRequest   = errors.New("invalid chat request")
	ErrMissingAPIKey    = errors.New("generator API key is missing")
	ErrGenerationFailed = errors.New("generation failed")
	ErrNoProviders      = errors.New("no generator providers configured")
)
