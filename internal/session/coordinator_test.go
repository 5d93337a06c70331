package session_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pitchwise/internal/domain"
	"pitchwise/internal/extractor"
	"pitchwise/internal/generator"
	"pitchwise/internal/logger"
	"pitchwise/internal/session"
	"pitchwise/mocks"
)

var chatRequest = domain.Request{
	Content: json.RawMessage(`[{"role":"client","text":"Can you match the competitor's price?"}]`),
	Goal:    "close the deal",
}

func newCoordinator(t *testing.T, gen *mocks.MockGenerator) *session.Coordinator {
	return session.NewCoordinator(gen, extractor.New(), logger.NewTestLogger(t))
}

func TestCoordinator_HandleMessage_Success(t *testing.T) {
	gen := new(mocks.MockGenerator)
	gen.On("Generate", mock.Anything, chatRequest).
		Return("1. \"We can bundle maintenance instead.\" analysis_score: 0.72\n2. \"Let's compare total cost.\" analysis_score: 0.91", nil)
	emit := &mocks.RecordingEmitter{}

	newCoordinator(t, gen).HandleMessage(context.Background(), emit, chatRequest)

	assert.Equal(t, []string{
		domain.EventLoading,
		domain.EventParsedOptions,
		domain.EventDebugInfo,
		domain.EventLoaded,
	}, emit.Names())

	events := emit.Events()
	assert.Nil(t, events[0].Payload)
	assert.Nil(t, events[3].Payload)

	options, ok := events[1].Payload.(domain.ResultSet)
	require.True(t, ok)
	assert.Equal(t, domain.ResultSet{
		{Option: "Let's compare total cost.", Score: 0.91},
		{Option: "We can bundle maintenance instead.", Score: 0.72},
	}, options)

	info, ok := events[2].Payload.(domain.DebugInfo)
	require.True(t, ok)
	assert.Equal(t, "Parsed options were sent to client", info.Message)
	assert.Equal(t, 2, info.OptionsCount)
	assert.NotEmpty(t, info.Timestamp)
	gen.AssertExpectations(t)
}

func TestCoordinator_HandleMessage_GeneratorError(t *testing.T) {
	gen := new(mocks.MockGenerator)
	gen.On("Generate", mock.Anything, chatRequest).Return("", errors.New("invalid api key"))
	emit := &mocks.RecordingEmitter{}

	newCoordinator(t, gen).HandleMessage(context.Background(), emit, chatRequest)

	assert.Equal(t, []string{domain.EventLoading, domain.EventChatError, domain.EventLoaded}, emit.Names())

	chatErr, ok := emit.Events()[1].Payload.(domain.ChatError)
	require.True(t, ok)
	assert.Equal(t, "Failed to get a response from the chatbot", chatErr.Error)
	assert.Equal(t, "invalid api key", chatErr.Details)
	assert.NotEmpty(t, chatErr.Timestamp)
}

func TestCoordinator_HandleMessage_NoRetryOnFailure(t *testing.T) {
	gen := new(mocks.MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("timeout")).Once()

	newCoordinator(t, gen).HandleMessage(context.Background(), &mocks.RecordingEmitter{}, chatRequest)

	gen.AssertNumberOfCalls(t, "Generate", 1)
}

func TestCoordinator_HandleMessage_NoResponseText(t *testing.T) {
	gen := new(mocks.MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything).Return(generator.NoResponseText, nil)
	emit := &mocks.RecordingEmitter{}

	newCoordinator(t, gen).HandleMessage(context.Background(), emit, chatRequest)

	require.Equal(t, domain.EventParsedOptions, emit.Names()[1])
	assert.Equal(t, domain.ResultSet{{Option: "No response received.", Score: 0.5}}, emit.Events()[1].Payload)
}

func TestCoordinator_HandleMessage_PanicStillFinishes(t *testing.T) {
	gen := new(mocks.MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		panic("provider exploded")
	})
	emit := &mocks.RecordingEmitter{}

	assert.NotPanics(t, func() {
		newCoordinator(t, gen).HandleMessage(context.Background(), emit, chatRequest)
	})

	assert.Equal(t, []string{domain.EventLoading, domain.EventChatError, domain.EventLoaded}, emit.Names())
	chatErr := emit.Events()[1].Payload.(domain.ChatError)
	assert.Contains(t, chatErr.Details, "provider exploded")
}

func TestCoordinator_Run_UsesExtractor(t *testing.T) {
	gen := new(mocks.MockGenerator)
	gen.On("Generate", mock.Anything, chatRequest).Return("raw reply", nil)
	ext := new(mocks.MockOptionExtractor)
	want := domain.ResultSet{{Option: "raw reply", Score: 0.5}}
	ext.On("Extract", "raw reply").Return(want, extractor.StrategySections)

	c := session.NewCoordinator(gen, ext, logger.NewNoOpLogger())
	got, err := c.Run(context.Background(), chatRequest)

	require.NoError(t, err)
	assert.Equal(t, want, got)
	ext.AssertExpectations(t)
}

func TestCoordinator_Run_Error(t *testing.T) {
	gen := new(mocks.MockGenerator)
	gen.On("Generate", mock.Anything, chatRequest).Return("", domain.ErrMissingAPIKey)
	ext := new(mocks.MockOptionExtractor)

	c := session.NewCoordinator(gen, ext, logger.NewNoOpLogger())
	got, err := c.Run(context.Background(), chatRequest)

	assert.ErrorIs(t, err, domain.ErrMissingAPIKey)
	assert.Nil(t, got)
	ext.AssertNotCalled(t, "Extract", mock.Anything)
}
