package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pitchwise/internal/domain"
	"pitchwise/internal/port"
)

// ExtractRequest is the body of POST /api/v1/options/extract.
type ExtractRequest struct {
	Raw *string `json:"raw" binding:"required"`
}

// ExtractResponse reports the ranked options and the strategy that produced them.
type ExtractResponse struct {
	Options  domain.ResultSet `json:"options"`
	Strategy string           `json:"strategy"`
}

// OptionsHandler exposes the extractor on its own.
type OptionsHandler struct {
	extractor port.OptionExtractor
}

// NewOptionsHandler creates a new OptionsHandler.
func NewOptionsHandler(ext port.OptionExtractor) *OptionsHandler {
	return &OptionsHandler{extractor: ext}
}

// Extract handles POST /api/v1/options/extract
// @Summary Extract options from raw text
// @Description Run the option extractor over a raw model reply
// @Tags options
// @Accept json
// @Produce json
// @Param request body ExtractRequest true "Raw model reply"
// @Success 200 {object} Response{data=ExtractResponse} "Extracted options"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Router /options/extract [post]
func (h *OptionsHandler) Extract(c *gin.Context) {
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	options, strategy := h.extractor.Extract(*req.Raw)
	RespondOK(c, ExtractResponse{Options: options, Strategy: strategy})
}
