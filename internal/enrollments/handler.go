package enrollments

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/coachdesk/backend/internal/models"
	"github.com/coachdesk/backend/pkg/response"
)

// Store is the enrollment persistence interface the handler depends on.
type Store interface {
	GetOrCreate(ctx context.Context, phoneNumber string, instituteID uuid.UUID, name string) (*models.Student, error)
	Enroll(ctx context.Context, phoneNumber string, instituteID, batchID uuid.UUID) error
	ListEnrolledIDs(ctx context.Context, studentID uuid.UUID) ([]uuid.UUID, error)
	ListEnrolled(ctx context.Context, phoneNumber string, instituteID uuid.UUID) ([]models.Batch, error)
}

// LoginRequest is the body for POST /api/auth/login.
type LoginRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	Name        string `json:"name"`
	InstituteID string `json:"instituteId" binding:"required,uuid"`
}

// EnrollRequest is the body for POST /api/auth/enroll.
type EnrollRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	InstituteID string `json:"instituteId" binding:"required,uuid"`
	BatchID     string `json:"batchId" binding:"required,uuid"`
}

// LoginResponse is the student login response.
type LoginResponse struct {
	Student         *models.Student `json:"student"`
	EnrolledBatches []uuid.UUID     `json:"enrolledBatches"`
}

// Handler handles student auth and enrollment HTTP endpoints.
type Handler struct {
	store  Store
	logger *zap.Logger
}

// NewHandler creates an enrollments handler.
func NewHandler(store Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, logger: logger}
}

// Login handles POST /api/auth/login. Finds or lazily creates the student
// keyed by (phoneNumber, instituteId).
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	instituteID, err := uuid.Parse(req.InstituteID)
	if err != nil {
		response.BadRequest(c, "invalid instituteId")
		return
	}

	student, err := h.store.GetOrCreate(c.Request.Context(), req.PhoneNumber, instituteID, req.Name)
	if err != nil {
		h.logger.Error("student login failed", zap.Error(err), zap.String("institute_id", instituteID.String()))
		response.Internal(c, "failed to log in")
		return
	}
	enrolled, err := h.store.ListEnrolledIDs(c.Request.Context(), student.ID)
	if err != nil {
		h.logger.Error("list enrolled ids failed", zap.Error(err))
		response.Internal(c, "failed to load enrollments")
		return
	}
	response.OK(c, LoginResponse{Student: student, EnrolledBatches: enrolled})
}

// Enroll handles POST /api/auth/enroll. Idempotent: enrolling the same batch
// again is a no-op, as is enrolling before first login.
func (h *Handler) Enroll(c *gin.Context) {
	var req EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	instituteID, err := uuid.Parse(req.InstituteID)
	if err != nil {
		response.BadRequest(c, "invalid instituteId")
		return
	}
	batchID, err := uuid.Parse(req.BatchID)
	if err != nil {
		response.BadRequest(c, "invalid batchId")
		return
	}

	if err := h.store.Enroll(c.Request.Context(), req.PhoneNumber, instituteID, batchID); err != nil {
		h.logger.Error("enroll failed", zap.Error(err), zap.String("batch_id", batchID.String()))
		response.Internal(c, "failed to enroll")
		return
	}
	response.OK(c, gin.H{"enrolled": true})
}

// MyBatches handles GET /api/auth/my-batches/:phone/:instId. Resolves the
// student's enrollment set to full batch records; unknown students get an
// empty list.
func (h *Handler) MyBatches(c *gin.Context) {
	instituteID, err := uuid.Parse(c.Param("instId"))
	if err != nil {
		response.BadRequest(c, "invalid institute id")
		return
	}
	phone := c.Param("phone")

	list, err := h.store.ListEnrolled(c.Request.Context(), phone, instituteID)
	if err != nil {
		h.logger.Error("list enrolled batches failed", zap.Error(err))
		response.Internal(c, "failed to load enrolled batches")
		return
	}
	response.OK(c, list)
}
