package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/inkboard/inkboard/internal/pkg/errcode"
	"github.com/inkboard/inkboard/internal/pkg/response"
	"github.com/inkboard/inkboard/internal/service"
)

type BoardHandler struct {
	boards *service.BoardService
	export *service.ExportService
}

func NewBoardHandler(boards *service.BoardService, export *service.ExportService) *BoardHandler {
	return &BoardHandler{boards: boards, export: export}
}

type boardCreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type boardUpdateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (h *BoardHandler) Create(c *gin.Context) {
	var req boardCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	board, err := h.boards.Create(c.Request.Context(), getUserID(c), service.BoardCreateInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, board)
}

func (h *BoardHandler) List(c *gin.Context) {
	boards, err := h.boards.List(c.Request.Context(), getUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"items": boards})
}

func (h *BoardHandler) Get(c *gin.Context) {
	board, err := h.boards.Get(c.Request.Context(), getUserID(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, board)
}

func (h *BoardHandler) Update(c *gin.Context) {
	var req boardUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	board, err := h.boards.Update(c.Request.Context(), getUserID(c), c.Param("id"), service.BoardUpdateInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, board)
}

func (h *BoardHandler) Delete(c *gin.Context) {
	if err := h.boards.Delete(c.Request.Context(), getUserID(c), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// Share resolves a share link; visiting it enrolls the caller as a
// collaborator.
func (h *BoardHandler) Share(c *gin.Context) {
	board, err := h.boards.GetByShareToken(c.Request.Context(), getUserID(c), c.Param("token"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, board)
}

func (h *BoardHandler) Versions(c *gin.Context) {
	limit := uint(20)
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			response.Error(c, errcode.ErrInvalid, "invalid limit")
			return
		}
		limit = uint(parsed)
	}
	versions, err := h.boards.ListVersions(c.Request.Context(), getUserID(c), c.Param("id"), limit)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"items": versions})
}

func (h *BoardHandler) Export(c *gin.Context) {
	result, err := h.export.Export(c.Request.Context(), getUserID(c), c.Param("id"), requestBaseURL(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}
