package handler

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UploadHandler stores article attachments on local disk. Stored names are
// random so uploads can never collide or clobber each other.
type UploadHandler struct {
	Dir string
}

// Upload handles POST /api/upload (multipart form, field "file").
func (h *UploadHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "File required."})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	name := uuid.NewString() + ext
	if err := c.SaveUploadedFile(file, filepath.Join(h.Dir, name)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": "Could not store file."})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": "/uploads/" + name})
}
