package handler

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/inkboard/inkboard/internal/service"
)

// FileHandler serves locally stored export artifacts. S3-backed stores hand
// out absolute URLs instead, so this route only matters for the local store.
type FileHandler struct {
	export *service.ExportService
}

func NewFileHandler(export *service.ExportService) *FileHandler {
	return &FileHandler{export: export}
}

func (h *FileHandler) Get(c *gin.Context) {
	key := c.Param("key")
	if key == "" || strings.Contains(key, "/") || strings.Contains(key, "\\") {
		c.Status(http.StatusBadRequest)
		return
	}
	file, err := h.export.Open(c.Request.Context(), key)
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	defer file.Close()
	contentType := mime.TypeByExtension(filepath.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	_, _ = io.Copy(c.Writer, file)
}
