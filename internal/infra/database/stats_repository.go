package database

import (
	"context"
	"database/sql"

	"github.com/admitglobal/referral-backend/internal/entity"
)

type StatsRepository struct {
	DB *sql.DB
}

func NewStatsRepository(db *sql.DB) *StatsRepository {
	return &StatsRepository{DB: db}
}

func (r *StatsRepository) Collect(ctx context.Context) (*entity.Stats, error) {
	var s entity.Stats

	err := r.DB.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM colleges),
			(SELECT COUNT(*) FROM courses),
			(SELECT COUNT(*) FROM specializations),
			(SELECT COUNT(*) FROM leads),
			(SELECT COUNT(*) FROM leads WHERE created_at >= date_trunc('day', NOW())),
			(SELECT COUNT(*) FROM leads WHERE created_at >= date_trunc('week', NOW()))
	`).Scan(&s.Colleges, &s.Courses, &s.Specializations, &s.Leads, &s.LeadsToday, &s.LeadsThisWeek)

	if err != nil {
		return nil, err
	}
	return &s, nil
}
