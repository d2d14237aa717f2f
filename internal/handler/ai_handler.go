package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/inkboard/inkboard/internal/model"
	"github.com/inkboard/inkboard/internal/pkg/errcode"
	"github.com/inkboard/inkboard/internal/pkg/response"
	"github.com/inkboard/inkboard/internal/service"
)

type AIHandler struct {
	ai     *service.AIService
	boards *service.BoardService
}

func NewAIHandler(ai *service.AIService, boards *service.BoardService) *AIHandler {
	return &AIHandler{ai: ai, boards: boards}
}

type aiSuggestRequest struct {
	BoardID string              `json:"board_id"`
	Objects []model.BoardObject `json:"objects"`
	Prompt  string              `json:"prompt"`
}

// Suggest answers a prompt against the board's current objects. The client
// may post its own object list (the live unsaved state); otherwise the saved
// board snapshot is used.
func (h *AIHandler) Suggest(c *gin.Context) {
	var req aiSuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	objects := req.Objects
	if objects == nil && req.BoardID != "" {
		board, err := h.boards.Get(c.Request.Context(), getUserID(c), req.BoardID)
		if err != nil {
			handleError(c, err)
			return
		}
		objects = board.Objects
	}
	result, err := h.ai.Suggest(c.Request.Context(), objects, req.Prompt)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}
