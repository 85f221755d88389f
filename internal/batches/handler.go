package batches

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/coachdesk/backend/internal/models"
	"github.com/coachdesk/backend/pkg/response"
)

// Store is the batch persistence interface the handler depends on.
type Store interface {
	Create(ctx context.Context, b *models.Batch) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Batch, error)
	ListByInstitute(ctx context.Context, instituteID uuid.UUID) ([]models.Batch, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddContent(ctx context.Context, batchID uuid.UUID, subjectName, chapterName string, item models.ContentItem) (*models.Batch, error)
}

// AddBatchRequest is the body for POST /api/admin/add-batch.
type AddBatchRequest struct {
	InstituteID string           `json:"instituteId" binding:"required,uuid"`
	Title       string           `json:"title" binding:"required"`
	Teacher     string           `json:"teacher"`
	Price       float64          `json:"price"`
	Banner      string           `json:"banner"`
	Description string           `json:"description"`
	Subjects    []models.Subject `json:"subjects"` // optional initial tree
}

// AddMaterialRequest is the body for POST /api/admin/add-material/:batchId.
type AddMaterialRequest struct {
	SubjectName string `json:"subjectName" binding:"required"`
	ChapterName string `json:"chapterName" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Kind        string `json:"type" binding:"required"`
	URL         string `json:"url" binding:"required"`
	Duration    string `json:"duration"`
}

// Handler handles batch HTTP endpoints.
type Handler struct {
	store  Store
	logger *zap.Logger
}

// NewHandler creates a batches handler.
func NewHandler(store Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, logger: logger}
}

// AddBatch handles POST /api/admin/add-batch.
func (h *Handler) AddBatch(c *gin.Context) {
	var req AddBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	instituteID, err := uuid.Parse(req.InstituteID)
	if err != nil {
		response.BadRequest(c, "invalid instituteId")
		return
	}

	b := &models.Batch{
		InstituteID: instituteID,
		Title:       req.Title,
		Teacher:     req.Teacher,
		Price:       req.Price,
		Banner:      req.Banner,
		Description: req.Description,
		Subjects:    req.Subjects,
	}
	if err := h.store.Create(c.Request.Context(), b); err != nil {
		h.logger.Error("create batch failed", zap.Error(err))
		response.Internal(c, "failed to create batch")
		return
	}
	response.Created(c, b)
}

// ListByPath handles GET /api/admin/my-batches/:instId and GET /api/batches/:instId.
func (h *Handler) ListByPath(c *gin.Context) {
	instituteID, err := uuid.Parse(c.Param("instId"))
	if err != nil {
		response.BadRequest(c, "invalid institute id")
		return
	}
	h.list(c, instituteID)
}

// ListByHeader handles GET /api/batches (x-institute-id header form).
func (h *Handler) ListByHeader(c *gin.Context) {
	instituteID, err := uuid.Parse(c.GetHeader("x-institute-id"))
	if err != nil {
		response.BadRequest(c, "missing or invalid x-institute-id header")
		return
	}
	h.list(c, instituteID)
}

func (h *Handler) list(c *gin.Context, instituteID uuid.UUID) {
	list, err := h.store.ListByInstitute(c.Request.Context(), instituteID)
	if err != nil {
		h.logger.Error("list batches failed", zap.Error(err), zap.String("institute_id", instituteID.String()))
		response.Internal(c, "failed to list batches")
		return
	}
	if list == nil {
		list = []models.Batch{}
	}
	response.OK(c, list)
}

// GetByID handles GET /api/admin/batch/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid batch id")
		return
	}
	b, err := h.store.GetByID(c.Request.Context(), id)
	if errors.Is(err, ErrNotFound) {
		response.NotFound(c, "batch not found")
		return
	}
	if err != nil {
		h.logger.Error("get batch failed", zap.Error(err))
		response.Internal(c, "failed to load batch")
		return
	}
	response.OK(c, b)
}

// AddMaterial handles POST /api/admin/add-material/:batchId. Merges one
// content item into the batch's subjects tree.
func (h *Handler) AddMaterial(c *gin.Context) {
	batchID, err := uuid.Parse(c.Param("batchId"))
	if err != nil {
		response.BadRequest(c, "invalid batch id")
		return
	}
	var req AddMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	item := models.ContentItem{
		Title:    req.Title,
		Kind:     req.Kind,
		URL:      req.URL,
		Duration: req.Duration,
	}
	b, err := h.store.AddContent(c.Request.Context(), batchID, req.SubjectName, req.ChapterName, item)
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(c, "batch not found")
		return
	case errors.Is(err, ErrInvalidContentKind):
		response.BadRequest(c, err.Error())
		return
	case err != nil:
		h.logger.Error("add material failed", zap.Error(err), zap.String("batch_id", batchID.String()))
		response.Internal(c, "failed to add material")
		return
	}
	response.OK(c, b)
}

// Delete handles DELETE /api/admin/delete-batch/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid batch id")
		return
	}
	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "batch not found")
			return
		}
		h.logger.Error("delete batch failed", zap.Error(err))
		response.Internal(c, "failed to delete batch")
		return
	}
	response.NoContent(c)
}
