package api

import (
	"net/http"
	"path"
	"strings"
	"time"

	"ptrainer/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MediaHandler hands out upload URLs for library media.
type MediaHandler struct {
	signer    storage.MediaSigner
	urlExpiry time.Duration
	logger    *zap.Logger
}

func NewMediaHandler(signer storage.MediaSigner, urlExpiry time.Duration, logger *zap.Logger) *MediaHandler {
	if urlExpiry <= 0 {
		urlExpiry = storage.DefaultPresignedURLExpiry
	}
	return &MediaHandler{signer: signer, urlExpiry: urlExpiry, logger: logger}
}

// --- DTOs ---

type RequestUploadURLRequest struct {
	Kind        string `json:"kind" binding:"required,oneof=exercise food"`
	FileName    string `json:"file_name" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

// RequestUploadURL godoc
// @Summary Request a pre-signed URL to upload library media
// @Description The returned object key is what exercise and food records store; it is signed again on read.
// @Tags Media
// @Accept json
// @Produce json
// @Param uploadRequest body RequestUploadURLRequest true "Upload details"
// @Success 200 {object} UploadURLResponse "Pre-signed URL and object key"
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 503 {object} gin.H "Object storage not configured"
// @Router /media/upload-url [post]
func (h *MediaHandler) RequestUploadURL(c *gin.Context) {
	if h.signer == nil {
		abortWithError(c, http.StatusServiceUnavailable, "Object storage is not configured.")
		return
	}
	var req RequestUploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	objectKey := mediaObjectKey(req.Kind, req.FileName)
	url, err := h.signer.GeneratePresignedUploadURL(c.Request.Context(), objectKey, req.ContentType, h.urlExpiry)
	if err != nil {
		h.logger.Error("failed to presign upload", zap.String("key", objectKey), zap.Error(err))
		abortWithError(c, http.StatusInternalServerError, "Failed to get upload URL.")
		return
	}
	c.JSON(http.StatusOK, UploadURLResponse{UploadURL: url, ObjectKey: objectKey})
}

// mediaObjectKey builds "<kind>/<uuid><ext>", keeping the file's extension only.
func mediaObjectKey(kind, fileName string) string {
	ext := strings.ToLower(path.Ext(path.Base(strings.ReplaceAll(fileName, `\`, "/"))))
	return kind + "/" + uuid.NewString() + ext
}
