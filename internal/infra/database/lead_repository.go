package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/admitglobal/referral-backend/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

const leadColumns = `id, name, email, phone, country_interest, message, college_id, course_id, specialization_id, status, priority, source, created_at, updated_at`

func scanLead(row interface{ Scan(...any) error }) (*entity.Lead, error) {
	var l entity.Lead
	var name, phone, country, message, collegeID, courseID, specID, source sql.NullString

	err := row.Scan(
		&l.ID, &name, &l.Email, &phone, &country, &message,
		&collegeID, &courseID, &specID,
		&l.Status, &l.Priority, &source,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	l.Name = name.String
	l.Phone = phone.String
	l.CountryInterest = country.String
	l.Message = message.String
	l.CollegeID = collegeID.String
	l.CourseID = courseID.String
	l.SpecializationID = specID.String
	l.Source = source.String
	return &l, nil
}

// Upsert is the atomic email-dedup path: one statement, no read-then-write
// race. A resubmission refreshes the contact fields but never resets the
// pipeline status a counselor may have set.
func (r *LeadRepository) Upsert(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (email, name, phone, country_interest, message, college_id, course_id, specialization_id, status, priority, source, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'NEW', 'MEDIUM', $9, NOW())
		ON CONFLICT (email)
		DO UPDATE SET
			name = COALESCE(EXCLUDED.name, leads.name),
			phone = COALESCE(EXCLUDED.phone, leads.phone),
			country_interest = COALESCE(EXCLUDED.country_interest, leads.country_interest),
			message = COALESCE(EXCLUDED.message, leads.message),
			college_id = COALESCE(EXCLUDED.college_id, leads.college_id),
			course_id = COALESCE(EXCLUDED.course_id, leads.course_id),
			specialization_id = COALESCE(EXCLUDED.specialization_id, leads.specialization_id),
			updated_at = NOW()
		RETURNING id, status, priority, created_at, updated_at
	`

	err := r.DB.QueryRowContext(ctx, query,
		lead.Email,
		nullString(lead.Name),
		nullString(lead.Phone),
		nullString(lead.CountryInterest),
		nullString(lead.Message),
		nullString(lead.CollegeID),
		nullString(lead.CourseID),
		nullString(lead.SpecializationID),
		nullString(lead.Source),
	).Scan(
		&lead.ID,
		&lead.Status,
		&lead.Priority,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)

	return err
}

func (r *LeadRepository) List(ctx context.Context, status string) ([]entity.Lead, error) {
	query := fmt.Sprintf(`SELECT %s FROM leads ORDER BY created_at DESC`, leadColumns)
	args := []any{}
	if status != "" {
		query = fmt.Sprintf(`SELECT %s FROM leads WHERE status = $1 ORDER BY created_at DESC`, leadColumns)
		args = append(args, status)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	query := fmt.Sprintf(`SELECT %s FROM leads WHERE id = $1`, leadColumns)

	l, err := scanLead(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrLeadNotFound
	}
	return l, err
}

func (r *LeadRepository) Update(ctx context.Context, id string, fields map[string]any) (*entity.Lead, error) {
	set, args := buildSet(fields)
	query := fmt.Sprintf(
		`UPDATE leads SET %s WHERE id = $%d RETURNING %s`,
		set, len(args)+1, leadColumns,
	)
	args = append(args, id)

	l, err := scanLead(r.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrLeadNotFound
	}
	return l, err
}

func (r *LeadRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}
