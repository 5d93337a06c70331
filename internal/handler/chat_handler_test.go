package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pitchwise/internal/domain"
	"pitchwise/internal/extractor"
	"pitchwise/internal/handler"
	"pitchwise/internal/logger"
	"pitchwise/internal/session"
	"pitchwise/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newChatHandler(t *testing.T) (*handler.ChatHandler, *mocks.MockGenerator) {
	gen := new(mocks.MockGenerator)
	coord := session.NewCoordinator(gen, extractor.New(), logger.NewNoOpLogger())
	return handler.NewChatHandler(coord, logger.NewTestLogger(t)), gen
}

func postChat(h *handler.ChatHandler, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewReader([]byte(body)))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Create(c)
	return w
}

func TestChatHandler_Create_Success(t *testing.T) {
	h, gen := newChatHandler(t)
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(req domain.Request) bool {
		return string(req.Content) == `[{"role":"client","text":"Too pricey."}]` && req.CompanyContext == "Acme Homes"
	})).Return(`[{"text":"What budget did you have in mind?","score":0.8}]`, nil)

	w := postChat(h, `{"messages":[{"role":"client","text":"Too pricey."}],"companyContext":"Acme Homes"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Success bool             `json:"success"`
		Data    domain.ResultSet `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, domain.ResultSet{{Option: "What budget did you have in mind?", Score: 0.8}}, resp.Data)
	gen.AssertExpectations(t)
}

func TestChatHandler_Create_InvalidBody(t *testing.T) {
	for name, body := range map[string]string{
		"empty":  ``,
		"null":   `null`,
		"broken": `{"content":`,
	} {
		t.Run(name, func(t *testing.T) {
			h, gen := newChatHandler(t)

			w := postChat(h, body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			var resp handler.APIResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Equal(t, "INVALID_REQUEST", resp.Error.Code)
			gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
		})
	}
}

func TestChatHandler_Create_GenerationFailed(t *testing.T) {
	h, gen := newChatHandler(t)
	gen.On("Generate", mock.Anything, mock.Anything).
		Return("", fmt.Errorf("%w: %w", domain.ErrGenerationFailed, errors.New("upstream 500")))

	w := postChat(h, `"hello"`)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "GENERATION_FAILED", resp.Error.Code)
}
