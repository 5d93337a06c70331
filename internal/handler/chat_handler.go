package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"pitchwise/internal/domain"
	"pitchwise/internal/logger"
)

// CycleRunner generates and extracts options for one request.
type CycleRunner interface {
	Run(ctx context.Context, req domain.Request) (domain.ResultSet, error)
}

// ChatHandler runs a request cycle over plain HTTP.
type ChatHandler struct {
	runner CycleRunner
	log    logger.Logger
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(runner CycleRunner, log logger.Logger) *ChatHandler {
	return &ChatHandler{runner: runner, log: log}
}

// Create handles POST /api/v1/chat
// @Summary Generate reply options
// @Description Run one generate-and-extract cycle synchronously and return the ranked options
// @Tags chat
// @Accept json
// @Produce json
// @Param request body ChatRequest true "Conversation and optional context"
// @Success 200 {object} Response{data=[]OptionBody} "Ranked options"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 429 {object} ErrorResponseBody "All providers rate limited"
// @Failure 502 {object} ErrorResponseBody "Generation failed"
// @Router /chat [post]
func (h *ChatHandler) Create(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "could not read request body")
		return
	}

	var req domain.Request
	if err := json.Unmarshal(body, &req); err != nil {
		HandleError(c, h.log, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
		return
	}

	options, err := h.runner.Run(c.Request.Context(), req)
	if err != nil {
		HandleError(c, h.log, err)
		return
	}

	RespondOK(c, options)
}
