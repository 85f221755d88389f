package batches

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coachdesk/backend/internal/models"
)

// ErrNotFound is returned when no batch matches the lookup.
var ErrNotFound = errors.New("batch not found")

// Repository handles batch persistence. The subjects tree is stored as one
// JSONB document and always read and written whole.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a batches repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new batch with its (possibly empty) subjects tree.
func (r *Repository) Create(ctx context.Context, b *models.Batch) error {
	if b.Subjects == nil {
		b.Subjects = []models.Subject{}
	}
	subjects, err := json.Marshal(b.Subjects)
	if err != nil {
		return fmt.Errorf("marshal subjects: %w", err)
	}
	const q = `INSERT INTO batches (id, institute_id, title, teacher, price, banner, description, subjects)
		VALUES (gen_random_uuid(), $1, $2, NULLIF($3,''), $4, NULLIF($5,''), NULLIF($6,''), $7)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, b.InstituteID, b.Title, b.Teacher, b.Price, b.Banner, b.Description, subjects).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

const batchColumns = `id, institute_id, title, COALESCE(teacher,''), price, COALESCE(banner,''),
	COALESCE(description,''), subjects, created_at, updated_at`

func scanBatch(row pgx.Row) (*models.Batch, error) {
	var b models.Batch
	var subjects []byte
	err := row.Scan(&b.ID, &b.InstituteID, &b.Title, &b.Teacher, &b.Price, &b.Banner,
		&b.Description, &subjects, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(subjects, &b.Subjects); err != nil {
		return nil, fmt.Errorf("unmarshal subjects: %w", err)
	}
	if b.Subjects == nil {
		b.Subjects = []models.Subject{}
	}
	return &b, nil
}

// GetByID returns a batch with its full subjects tree.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Batch, error) {
	return scanBatch(r.pool.QueryRow(ctx, `SELECT `+batchColumns+` FROM batches WHERE id = $1`, id))
}

// ListByInstitute returns all batches owned by an institute.
func (r *Repository) ListByInstitute(ctx context.Context, instituteID uuid.UUID) ([]models.Batch, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+batchColumns+` FROM batches WHERE institute_id = $1 ORDER BY created_at DESC`, instituteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Batch
	for rows.Next() {
		var b models.Batch
		var subjects []byte
		if err := rows.Scan(&b.ID, &b.InstituteID, &b.Title, &b.Teacher, &b.Price, &b.Banner,
			&b.Description, &subjects, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(subjects, &b.Subjects); err != nil {
			return nil, fmt.Errorf("unmarshal subjects: %w", err)
		}
		if b.Subjects == nil {
			b.Subjects = []models.Subject{}
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// Delete removes a batch by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM batches WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AddContent merges one content item into a batch's subjects tree and writes
// the whole document back, all inside one transaction. The SELECT ... FOR
// UPDATE row lock serializes concurrent additions to the same batch, so a
// slow writer cannot clobber another writer's merge.
func (r *Repository) AddContent(ctx context.Context, batchID uuid.UUID, subjectName, chapterName string, item models.ContentItem) (*models.Batch, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var raw []byte
	err = tx.QueryRow(ctx, `SELECT subjects FROM batches WHERE id = $1 FOR UPDATE`, batchID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var subjects []models.Subject
	if err := json.Unmarshal(raw, &subjects); err != nil {
		return nil, fmt.Errorf("unmarshal subjects: %w", err)
	}

	merged, err := MergeContent(subjects, subjectName, chapterName, item)
	if err != nil {
		return nil, err
	}

	out, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("marshal subjects: %w", err)
	}
	if _, err := tx.Exec(ctx, `UPDATE batches SET subjects = $1, updated_at = NOW() WHERE id = $2`, out, batchID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, batchID)
}
