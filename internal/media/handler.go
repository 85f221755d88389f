package media

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/coachdesk/backend/pkg/response"
	"github.com/coachdesk/backend/pkg/storage"
)

// UploadURLRequest is the body for POST /api/admin/upload-url.
type UploadURLRequest struct {
	Target      string `json:"target" binding:"required,oneof=logo banner"`
	OwnerID     string `json:"ownerId" binding:"required,uuid"` // institute id for logos, batch id for banners
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"contentType"`
}

// Handler issues pre-signed S3 upload URLs for institute logos and batch banners.
type Handler struct {
	s3     *storage.S3
	logger *zap.Logger
}

// NewHandler creates a media handler.
func NewHandler(s3 *storage.S3, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{s3: s3, logger: logger}
}

// GenerateUploadURL handles POST /api/admin/upload-url. The client PUTs the
// file to the returned URL directly and stores the resulting object key as
// the logo/banner reference.
func (h *Handler) GenerateUploadURL(c *gin.Context) {
	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if !storage.ValidateMediaFileType(req.ContentType, req.Filename) {
		response.BadRequest(c, "unsupported file type")
		return
	}

	var key string
	if req.Target == "logo" {
		key = storage.LogoKey(req.OwnerID, req.Filename)
	} else {
		key = storage.BannerKey(req.OwnerID, req.Filename)
	}
	contentType := req.ContentType
	if contentType == "" {
		contentType = storage.ContentTypeForFilename(req.Filename)
	}

	expires := h.s3.PresignExpiry()
	url, err := h.s3.GeneratePresignedUploadURL(c.Request.Context(), h.s3.MediaBucket(), key, contentType, expires)
	if err != nil {
		h.logger.Error("presign upload failed", zap.Error(err), zap.String("key", key))
		response.Internal(c, "failed to generate upload url")
		return
	}
	response.OK(c, gin.H{
		"uploadUrl": url,
		"key":       key,
		"expiresAt": time.Now().Add(expires),
	})
}
