package institutes

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coachdesk/backend/internal/models"
)

// ErrNotFound is returned when no institute matches the lookup.
var ErrNotFound = errors.New("institute not found")

// Repository handles institute persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an institutes repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const instituteColumns = `id, name, COALESCE(logo,''), COALESCE(primary_color,''), api_key,
	COALESCE(admin_email,''), COALESCE(password_hash,''), status, created_at, updated_at`

func scanInstitute(row pgx.Row) (*models.Institute, error) {
	var inst models.Institute
	err := row.Scan(&inst.ID, &inst.Name, &inst.Logo, &inst.PrimaryColor, &inst.APIKey,
		&inst.AdminEmail, &inst.PasswordHash, &inst.Status, &inst.CreatedAt, &inst.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inst, nil
}

// Create inserts a new institute. The unique indexes on api_key and
// admin_email surface duplicates as a constraint violation.
func (r *Repository) Create(ctx context.Context, inst *models.Institute) error {
	const q = `INSERT INTO institutes (id, name, logo, primary_color, api_key, admin_email, password_hash, status)
		VALUES (gen_random_uuid(), $1, NULLIF($2,''), NULLIF($3,''), $4, NULLIF($5,''), NULLIF($6,''), $7)
		RETURNING id, created_at, updated_at`
	if inst.Status == "" {
		inst.Status = models.InstituteStatusActive
	}
	return r.pool.QueryRow(ctx, q, inst.Name, inst.Logo, inst.PrimaryColor, inst.APIKey, inst.AdminEmail, inst.PasswordHash, inst.Status).
		Scan(&inst.ID, &inst.CreatedAt, &inst.UpdatedAt)
}

// GetByID returns an institute by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Institute, error) {
	return scanInstitute(r.pool.QueryRow(ctx, `SELECT `+instituteColumns+` FROM institutes WHERE id = $1`, id))
}

// GetByAPIKey returns an institute by its API key.
func (r *Repository) GetByAPIKey(ctx context.Context, apiKey string) (*models.Institute, error) {
	return scanInstitute(r.pool.QueryRow(ctx, `SELECT `+instituteColumns+` FROM institutes WHERE api_key = $1`, apiKey))
}

// GetByEmail returns an institute by its admin email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*models.Institute, error) {
	return scanInstitute(r.pool.QueryRow(ctx, `SELECT `+instituteColumns+` FROM institutes WHERE admin_email = $1`, email))
}

// List returns all institutes ordered by creation time.
func (r *Repository) List(ctx context.Context) ([]models.Institute, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+instituteColumns+` FROM institutes ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Institute
	for rows.Next() {
		var inst models.Institute
		if err := rows.Scan(&inst.ID, &inst.Name, &inst.Logo, &inst.PrimaryColor, &inst.APIKey,
			&inst.AdminEmail, &inst.PasswordHash, &inst.Status, &inst.CreatedAt, &inst.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, inst)
	}
	return list, rows.Err()
}
