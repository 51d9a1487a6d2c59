package domain

import (
	"context"
	"time"
)

// SeriesPoint is one labelled value in a dashboard chart series.
type SeriesPoint struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// DashboardStats carries every chart series the dashboard renders. All
// series are empty when no records exist.
type DashboardStats struct {
	TotalUsers      int           `json:"totalUsers"`
	UsersOverTime   []SeriesPoint `json:"usersOverTime"`
	UsersByCountry  []SeriesPoint `json:"usersByCountry"`
	AgeDistribution []SeriesPoint `json:"ageDistribution"`
	TopStates       []SeriesPoint `json:"topStates"`
	RecentUsers     []User        `json:"-"`
}

// StatsRepository defines the aggregate queries backing the dashboard.
// Each series is a separate query so it can be tested in isolation.
type StatsRepository interface {
	CountUsers(ctx context.Context) (int, error)
	UsersPerYear(ctx context.Context) ([]SeriesPoint, error)
	UsersPerCountry(ctx context.Context) ([]SeriesPoint, error)
	TopStatesInCountry(ctx context.Context, country string, limit int) ([]SeriesPoint, error)
	RecentUsers(ctx context.Context, limit int) ([]User, error)
	BirthDates(ctx context.Context) ([]time.Time, error)
}
