package entity

import "context"

// Stats feeds the admin dashboard counters.
type Stats struct {
	Colleges        int `json:"colleges"`
	Courses         int `json:"courses"`
	Specializations int `json:"specializations"`
	Leads           int `json:"leads"`
	LeadsToday      int `json:"leads_today"`
	LeadsThisWeek   int `json:"leads_this_week"`
}

type StatsRepositoryInterface interface {
	Collect(ctx context.Context) (*Stats, error)
}
