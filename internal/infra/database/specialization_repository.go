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

type SpecializationRepository struct {
	DB *sql.DB
}

func NewSpecializationRepository(db *sql.DB) *SpecializationRepository {
	return &SpecializationRepository{DB: db}
}

const specializationColumns = `id, course_id, name, slug, description, placement_rate, avg_package, recruiters, is_sample, created_at, updated_at`

func scanSpecialization(row interface{ Scan(...any) error }) (*entity.Specialization, error) {
	var s entity.Specialization
	var description sql.NullString
	var placement, pkg sql.NullFloat64

	err := row.Scan(
		&s.ID, &s.CourseID, &s.Name, &s.Slug,
		&description, &placement, &pkg, pq.Array(&s.Recruiters),
		&s.IsSample, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.Description = description.String
	s.PlacementRate = placement.Float64
	s.AvgPackage = pkg.Float64
	return &s, nil
}

func (r *SpecializationRepository) Create(ctx context.Context, s *entity.Specialization) error {
	query := `
		INSERT INTO specializations (id, course_id, name, slug, description, placement_rate, avg_package, recruiters, is_sample, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.DB.ExecContext(ctx, query,
		s.ID, s.CourseID, s.Name, s.Slug,
		nullString(s.Description), nullFloat(s.PlacementRate), nullFloat(s.AvgPackage), pq.Array(s.Recruiters),
		s.IsSample, s.CreatedAt, s.UpdatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code == "23503" {
				return entity.ErrCourseNotFound
			}
			if pqErr.Code == "23505" {
				return entity.ErrDuplicateSlug
			}
		}
		log.Printf("[DB] specialization insert failed: %v", err)
		return err
	}

	return nil
}

func (r *SpecializationRepository) List(ctx context.Context, courseID string) ([]entity.Specialization, error) {
	query := fmt.Sprintf(`SELECT %s FROM specializations ORDER BY created_at DESC`, specializationColumns)
	args := []any{}
	if courseID != "" {
		query = fmt.Sprintf(`SELECT %s FROM specializations WHERE course_id = $1 ORDER BY created_at DESC`, specializationColumns)
		args = append(args, courseID)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Specialization
	for rows.Next() {
		s, err := scanSpecialization(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (r *SpecializationRepository) FindByID(ctx context.Context, id string) (*entity.Specialization, error) {
	query := fmt.Sprintf(`SELECT %s FROM specializations WHERE id = $1`, specializationColumns)

	s, err := scanSpecialization(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrSpecializationNotFound
	}
	return s, err
}

func (r *SpecializationRepository) Update(ctx context.Context, id string, fields map[string]any) (*entity.Specialization, error) {
	if recruiters, ok := fields["recruiters"].([]string); ok {
		fields["recruiters"] = pq.Array(recruiters)
	}

	set, args := buildSet(fields)
	query := fmt.Sprintf(
		`UPDATE specializations SET %s WHERE id = $%d RETURNING %s`,
		set, len(args)+1, specializationColumns,
	)
	args = append(args, id)

	s, err := scanSpecialization(r.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrSpecializationNotFound
	}
	return s, err
}

func (r *SpecializationRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM specializations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrSpecializationNotFound
	}
	return nil
}
