package enrollments

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

// Repository handles student and enrollment persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an enrollments repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const studentColumns = `id, phone_number, COALESCE(name,''), institute_id, created_at, updated_at`

// GetOrCreate finds the student keyed by (phoneNumber, instituteID) or
// creates one. Concurrent first logins race on the unique index; the loser's
// insert is a no-op and both callers get the same row back.
func (r *Repository) GetOrCreate(ctx context.Context, phoneNumber string, instituteID uuid.UUID, name string) (*models.Student, error) {
	const insert = `INSERT INTO students (id, phone_number, name, institute_id)
		VALUES (gen_random_uuid(), $1, NULLIF($2,''), $3)
		ON CONFLICT (phone_number, institute_id) DO NOTHING
		RETURNING ` + studentColumns
	var s models.Student
	err := r.pool.QueryRow(ctx, insert, phoneNumber, name, instituteID).
		Scan(&s.ID, &s.PhoneNumber, &s.Name, &s.InstituteID, &s.CreatedAt, &s.UpdatedAt)
	if err == nil {
		return &s, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	const sel = `SELECT ` + studentColumns + ` FROM students WHERE phone_number = $1 AND institute_id = $2`
	err = r.pool.QueryRow(ctx, sel, phoneNumber, instituteID).
		Scan(&s.ID, &s.PhoneNumber, &s.Name, &s.InstituteID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Enroll adds a batch to the student's enrollment set. The primary key on
// (student_id, batch_id) gives set semantics: repeated enrollments are
// no-ops. A missing student is also a silent no-op; callers are expected to
// log in (get-or-create) first.
func (r *Repository) Enroll(ctx context.Context, phoneNumber string, instituteID, batchID uuid.UUID) error {
	var studentID uuid.UUID
	err := r.pool.QueryRow(ctx, `SELECT id FROM students WHERE phone_number = $1 AND institute_id = $2`, phoneNumber, instituteID).
		Scan(&studentID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `INSERT INTO enrollments (student_id, batch_id) VALUES ($1, $2)
		ON CONFLICT (student_id, batch_id) DO NOTHING`, studentID, batchID)
	return err
}

// ListEnrolledIDs returns the batch IDs in a student's enrollment set.
func (r *Repository) ListEnrolledIDs(ctx context.Context, studentID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `SELECT batch_id FROM enrollments WHERE student_id = $1 ORDER BY created_at`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListEnrolled resolves a student's enrollment set to full batch records.
// Returns an empty slice (never an error) when no student matches.
func (r *Repository) ListEnrolled(ctx context.Context, phoneNumber string, instituteID uuid.UUID) ([]models.Batch, error) {
	const q = `SELECT b.id, b.institute_id, b.title, COALESCE(b.teacher,''), b.price, COALESCE(b.banner,''),
		COALESCE(b.description,''), b.subjects, b.created_at, b.updated_at
		FROM batches b
		INNER JOIN enrollments e ON e.batch_id = b.id
		INNER JOIN students s ON s.id = e.student_id
		WHERE s.phone_number = $1 AND s.institute_id = $2
		ORDER BY e.created_at`
	rows, err := r.pool.Query(ctx, q, phoneNumber, instituteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []models.Batch{}
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
