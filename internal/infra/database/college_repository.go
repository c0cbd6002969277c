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

type CollegeRepository struct {
	DB *sql.DB
}

func NewCollegeRepository(db *sql.DB) *CollegeRepository {
	return &CollegeRepository{DB: db}
}

const collegeColumns = `id, name, slug, city, country, website, ranking, acceptance_rate, description, is_sample, created_at, updated_at`

func scanCollege(row interface{ Scan(...any) error }) (*entity.College, error) {
	var c entity.College
	var website, description sql.NullString
	var ranking sql.NullInt64
	var rate sql.NullFloat64

	err := row.Scan(
		&c.ID, &c.Name, &c.Slug, &c.City, &c.Country,
		&website, &ranking, &rate, &description,
		&c.IsSample, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Website = website.String
	c.Ranking = int(ranking.Int64)
	c.AcceptanceRate = rate.Float64
	c.Description = description.String
	return &c, nil
}

func (r *CollegeRepository) Create(ctx context.Context, c *entity.College) error {
	query := `
		INSERT INTO colleges (id, name, slug, city, country, website, ranking, acceptance_rate, description, is_sample, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.DB.ExecContext(ctx, query,
		c.ID, c.Name, c.Slug, c.City, c.Country,
		nullString(c.Website), nullInt(c.Ranking), nullFloat(c.AcceptanceRate), nullString(c.Description),
		c.IsSample, c.CreatedAt, c.UpdatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return entity.ErrDuplicateSlug
		}
		log.Printf("[DB] college insert failed: %v", err)
		return err
	}

	return nil
}

func (r *CollegeRepository) List(ctx context.Context) ([]entity.College, error) {
	query := fmt.Sprintf(`SELECT %s FROM colleges ORDER BY created_at DESC`, collegeColumns)

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.College
	for rows.Next() {
		c, err := scanCollege(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *CollegeRepository) FindByID(ctx context.Context, id string) (*entity.College, error) {
	query := fmt.Sprintf(`SELECT %s FROM colleges WHERE id = $1`, collegeColumns)

	c, err := scanCollege(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrCollegeNotFound
	}
	return c, err
}

func (r *CollegeRepository) FindBySlug(ctx context.Context, slug string) (*entity.College, error) {
	query := fmt.Sprintf(`SELECT %s FROM colleges WHERE slug = $1`, collegeColumns)

	c, err := scanCollege(r.DB.QueryRowContext(ctx, query, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrCollegeNotFound
	}
	return c, err
}

func (r *CollegeRepository) Update(ctx context.Context, id string, fields map[string]any) (*entity.College, error) {
	set, args := buildSet(fields)
	query := fmt.Sprintf(
		`UPDATE colleges SET %s WHERE id = $%d RETURNING %s`,
		set, len(args)+1, collegeColumns,
	)
	args = append(args, id)

	c, err := scanCollege(r.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrCollegeNotFound
	}
	return c, err
}

func (r *CollegeRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM colleges WHERE id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return entity.ErrCollegeHasLinked
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrCollegeNotFound
	}
	return nil
}

// DeleteSamples bulk-removes seed rows. Production rows never carry
// is_sample, so this is safe to run against a live database.
func (r *CollegeRepository) DeleteSamples(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM colleges WHERE is_sample = TRUE`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullInt(i int) *int {
	if i == 0 {
		return nil
	}
	return &i
}

func nullFloat(f float64) *float64 {
	if f == 0 {
		return nil
	}
	return &f
}
