package institutes

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/coachdesk/backend/internal/auth"
	"github.com/coachdesk/backend/internal/cache"
	"github.com/coachdesk/backend/internal/middleware"
	"github.com/coachdesk/backend/internal/models"
	"github.com/coachdesk/backend/pkg/database"
	"github.com/coachdesk/backend/pkg/response"
	"github.com/coachdesk/backend/pkg/utils"
)

// configCacheTTL bounds staleness of the by-api-key config cache.
const configCacheTTL = 5 * time.Minute

// Store is the institute persistence interface the handler depends on.
type Store interface {
	Create(ctx context.Context, inst *models.Institute) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Institute, error)
	GetByAPIKey(ctx context.Context, apiKey string) (*models.Institute, error)
	GetByEmail(ctx context.Context, email string) (*models.Institute, error)
	List(ctx context.Context) ([]models.Institute, error)
}

// AddInstituteRequest is the body for POST /api/superadmin/add-institute.
type AddInstituteRequest struct {
	Name         string `json:"name" binding:"required"`
	Logo         string `json:"logo"`
	PrimaryColor string `json:"primaryColor"`
	AdminEmail   string `json:"adminEmail"`
	Password     string `json:"password"`
	APIKey       string `json:"apiKey"` // optional; generated when empty
}

// LoginRequest is the body for POST /api/teacher/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse is the teacher login response.
type TokenResponse struct {
	Token     string            `json:"token"`
	Institute *models.Institute `json:"institute"`
}

// Handler handles institute HTTP endpoints.
type Handler struct {
	store  Store
	cache  cache.Cache
	jwt    *auth.JWTService
	logger *zap.Logger
}

// NewHandler creates an institutes handler.
func NewHandler(store Store, c cache.Cache, jwt *auth.JWTService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, cache: c, jwt: jwt, logger: logger}
}

// AddInstitute handles POST /api/superadmin/add-institute. Provisions a new
// institute and returns its API key (generated when the caller supplied none).
func (h *Handler) AddInstitute(c *gin.Context) {
	var req AddInstituteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	apiKey := strings.TrimSpace(req.APIKey)
	if apiKey == "" {
		apiKey = generateAPIKey()
	}

	inst := &models.Institute{
		Name:         strings.TrimSpace(req.Name),
		Logo:         req.Logo,
		PrimaryColor: req.PrimaryColor,
		APIKey:       apiKey,
		AdminEmail:   strings.ToLower(strings.TrimSpace(req.AdminEmail)),
	}
	if req.Password != "" {
		hash, err := utils.HashPassword(req.Password)
		if err != nil {
			response.Internal(c, "failed to hash password")
			return
		}
		inst.PasswordHash = hash
	}

	if err := h.store.Create(c.Request.Context(), inst); err != nil {
		if database.IsUniqueViolation(err) {
			response.Conflict(c, "api key or admin email already in use")
			return
		}
		h.logger.Error("create institute failed", zap.Error(err))
		response.Internal(c, "failed to create institute")
		return
	}

	response.Created(c, gin.H{"apiKey": apiKey, "institute": inst})
}

// ListAll handles GET /api/superadmin/all. Credential hashes are never
// serialized (json:"-").
func (h *Handler) ListAll(c *gin.Context) {
	list, err := h.store.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list institutes failed", zap.Error(err))
		response.Internal(c, "failed to list institutes")
		return
	}
	response.OK(c, list)
}

// Login handles POST /api/teacher/login. Authenticates an institute admin by
// email and password and issues a JWT.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	inst, err := h.store.GetByEmail(c.Request.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		response.Unauthorized(c, "invalid email or password")
		return
	}
	if inst.PasswordHash == "" || !utils.CheckPassword(req.Password, inst.PasswordHash) {
		response.Unauthorized(c, "invalid email or password")
		return
	}

	token, err := h.jwt.Generate(inst.ID, inst.AdminEmail)
	if err != nil {
		response.Internal(c, "failed to generate token")
		return
	}
	response.OK(c, TokenResponse{Token: token, Institute: inst})
}

// Me handles GET /api/teacher/me (JWT required).
func (h *Handler) Me(c *gin.Context) {
	instituteID := c.MustGet(middleware.ContextInstituteID).(uuid.UUID)
	inst, err := h.store.GetByID(c.Request.Context(), instituteID)
	if err != nil {
		response.NotFound(c, "institute not found")
		return
	}
	response.OK(c, inst)
}

// GetConfig handles GET /api/institute/config (x-api-key header form).
func (h *Handler) GetConfig(c *gin.Context) {
	apiKey := c.GetHeader("x-api-key")
	h.resolveAndRespond(c, apiKey)
}

// GetConfigByKey handles GET /api/institute/config/:apiKey and
// GET /api/institute/login/:key (path forms, trimmed).
func (h *Handler) GetConfigByKey(c *gin.Context) {
	apiKey := strings.TrimSpace(c.Param("apiKey"))
	h.resolveAndRespond(c, apiKey)
}

func (h *Handler) resolveAndRespond(c *gin.Context, apiKey string) {
	if apiKey == "" {
		response.BadRequest(c, "api key required")
		return
	}
	inst, err := h.resolveByAPIKey(c.Request.Context(), apiKey)
	if errors.Is(err, ErrNotFound) {
		response.NotFound(c, "institute not found")
		return
	}
	if err != nil {
		h.logger.Error("resolve institute failed", zap.Error(err))
		response.Internal(c, "failed to resolve institute")
		return
	}
	response.OK(c, inst)
}

// resolveByAPIKey is a read-through cache over GetByAPIKey.
func (h *Handler) resolveByAPIKey(ctx context.Context, apiKey string) (*models.Institute, error) {
	key := cache.InstituteConfigKey(apiKey)
	if raw, found, err := h.cache.Get(ctx, key); err == nil && found {
		var inst models.Institute
		if err := json.Unmarshal(raw, &inst); err == nil {
			return &inst, nil
		}
	}

	inst, err := h.store.GetByAPIKey(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(inst); err == nil {
		if err := h.cache.Set(ctx, key, raw, configCacheTTL); err != nil {
			h.logger.Warn("cache institute config failed", zap.Error(err))
		}
	}
	return inst, nil
}
