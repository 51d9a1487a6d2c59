package service

import (
	"context"
	"fmt"
	"time"

	"github.com/kmareda/regdesk/internal/domain"
)

const (
	recentUsersLimit = 5
	topStatesLimit   = 5
)

// ageBuckets are the histogram ranges, lower bound inclusive, upper bound
// exclusive. Ages of 120 and above land in the "Other" overflow bucket.
var ageBuckets = []struct {
	Label string
	Min   int
	Max   int
}{
	{"0-17", 0, 18},
	{"18-29", 18, 30},
	{"30-44", 30, 45},
	{"45-59", 45, 60},
	{"60-119", 60, 120},
}

// DashboardService assembles the admin dashboard's chart series from the
// stats repository, one fixed query per series.
type DashboardService struct {
	stats domain.StatsRepository
	now   func() time.Time
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(stats domain.StatsRepository) *DashboardService {
	return &DashboardService{stats: stats, now: time.Now}
}

// Build computes every dashboard series. With no records it returns a zero
// total and empty series without touching the other queries. Any failing
// series aborts the whole build so the dashboard never renders with
// inconsistent data.
func (s *DashboardService) Build(ctx context.Context) (*domain.DashboardStats, error) {
	total, err := s.stats.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if total == 0 {
		return &domain.DashboardStats{
			UsersOverTime:   []domain.SeriesPoint{},
			UsersByCountry:  []domain.SeriesPoint{},
			AgeDistribution: []domain.SeriesPoint{},
			TopStates:       []domain.SeriesPoint{},
			RecentUsers:     []domain.User{},
		}, nil
	}

	overTime, err := s.stats.UsersPerYear(ctx)
	if err != nil {
		return nil, fmt.Errorf("users per year: %w", err)
	}

	byCountry, err := s.stats.UsersPerCountry(ctx)
	if err != nil {
		return nil, fmt.Errorf("users per country: %w", err)
	}

	ages, err := s.AgeDistribution(ctx)
	if err != nil {
		return nil, fmt.Errorf("age distribution: %w", err)
	}

	topStates := []domain.SeriesPoint{}
	// The Unknown bucket folds absent values; it is not a country to drill
	// into.
	if len(byCountry) > 0 && byCountry[0].Label != "Unknown" {
		topStates, err = s.stats.TopStatesInCountry(ctx, byCountry[0].Label, topStatesLimit)
		if err != nil {
			return nil, fmt.Errorf("top states: %w", err)
		}
	}

	recent, err := s.stats.RecentUsers(ctx, recentUsersLimit)
	if err != nil {
		return nil, fmt.Errorf("recent users: %w", err)
	}

	return &domain.DashboardStats{
		TotalUsers:      total,
		UsersOverTime:   overTime,
		UsersByCountry:  byCountry,
		AgeDistribution: ages,
		TopStates:       topStates,
		RecentUsers:     recent,
	}, nil
}

// AgeDistribution buckets every record's age into the fixed histogram
// ranges. Only non-empty buckets appear, in range order, with the overflow
// bucket last.
func (s *DashboardService) AgeDistribution(ctx context.Context) ([]domain.SeriesPoint, error) {
	dates, err := s.stats.BirthDates(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	counts := make([]int, len(ageBuckets))
	other := 0
	for _, dob := range dates {
		age := ageAt(dob, now)
		bucket := -1
		for i, b := range ageBuckets {
			if age >= b.Min && age < b.Max {
				bucket = i
				break
			}
		}
		if bucket == -1 {
			other++
			continue
		}
		counts[bucket]++
	}

	var series []domain.SeriesPoint
	for i, b := range ageBuckets {
		if counts[i] > 0 {
			series = append(series, domain.SeriesPoint{Label: b.Label, Count: counts[i]})
		}
	}
	if other > 0 {
		series = append(series, domain.SeriesPoint{Label: "Other", Count: other})
	}
	return series, nil
}

// ageAt computes age in whole calendar years: the year difference,
// decremented when the birthday has not yet occurred this year. A date of
// birth exactly N years ago yields N.
func ageAt(dob, now time.Time) int {
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age
}
