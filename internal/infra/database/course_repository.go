package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/lib/pq"

	"github.com/admitglobal/referral-backend/internal/entity"
)

type CourseRepository struct {
	DB *sql.DB
}

func NewCourseRepository(db *sql.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

const courseColumns = `id, college_id, name, slug, degree_type, duration_months, tuition_fees, seats, status, is_sample, created_at, updated_at`

func scanCourse(row interface{ Scan(...any) error }) (*entity.Course, error) {
	var c entity.Course
	var degree sql.NullString
	var duration, seats sql.NullInt64
	var fees sql.NullFloat64

	err := row.Scan(
		&c.ID, &c.CollegeID, &c.Name, &c.Slug,
		&degree, &duration, &fees, &seats,
		&c.Status, &c.IsSample, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.DegreeType = degree.String
	c.DurationMonths = int(duration.Int64)
	c.TuitionFees = fees.Float64
	c.Seats = int(seats.Int64)
	return &c, nil
}

func (r *CourseRepository) Create(ctx context.Context, c *entity.Course) error {
	query := `
		INSERT INTO courses (id, college_id, name, slug, degree_type, duration_months, tuition_fees, seats, status, is_sample, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.DB.ExecContext(ctx, query,
		c.ID, c.CollegeID, c.Name, c.Slug,
		nullString(c.DegreeType), nullInt(c.DurationMonths), nullFloat(c.TuitionFees), nullInt(c.Seats),
		c.Status, c.IsSample, c.CreatedAt, c.UpdatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			// 23503 = foreign_key_violation: the parent college must exist.
			if pqErr.Code == "23503" {
				return entity.ErrCollegeMissing
			}
			if pqErr.Code == "23505" {
				return entity.ErrDuplicateSlug
			}
		}
		log.Printf("[DB] course insert failed: %v", err)
		return err
	}

	return nil
}

func (r *CourseRepository) List(ctx context.Context, collegeID string) ([]entity.Course, error) {
	query := fmt.Sprintf(`SELECT %s FROM courses ORDER BY created_at DESC`, courseColumns)
	args := []any{}
	if collegeID != "" {
		query = fmt.Sprintf(`SELECT %s FROM courses WHERE college_id = $1 ORDER BY created_at DESC`, courseColumns)
		args = append(args, collegeID)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *CourseRepository) FindByID(ctx context.Context, id string) (*entity.Course, error) {
	query := fmt.Sprintf(`SELECT %s FROM courses WHERE id = $1`, courseColumns)

	c, err := scanCourse(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrCourseNotFound
	}
	return c, err
}

func (r *CourseRepository) Update(ctx context.Context, id string, fields map[string]any) (*entity.Course, error) {
	set, args := buildSet(fields)
	query := fmt.Sprintf(
		`UPDATE courses SET %s WHERE id = $%d RETURNING %s`,
		set, len(args)+1, courseColumns,
	)
	args = append(args, id)

	c, err := scanCourse(r.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrCourseNotFound
	}
	return c, err
}

func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrCourseNotFound
	}
	return nil
}
