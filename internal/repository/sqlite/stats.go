package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kmareda/regdesk/internal/domain"
)

// StatsRepository implements domain.StatsRepository using SQLite. Each
// dashboard series has its own query so it can be tested on its own.
type StatsRepository struct {
	db *sql.DB
}

// NewStatsRepository creates a new SQLite-backed StatsRepository.
func NewStatsRepository(db *DB) *StatsRepository {
	return &StatsRepository{db: db.SqlDB}
}

func (r *StatsRepository) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

// UsersPerYear groups records by the calendar year of created_at,
// ascending by year.
func (r *StatsRepository) UsersPerYear(ctx context.Context) ([]domain.SeriesPoint, error) {
	return r.querySeries(ctx, `
		SELECT strftime('%Y', created_at) AS year, COUNT(*)
		FROM users
		GROUP BY year
		ORDER BY year ASC`)
}

// UsersPerCountry groups records by country, descending by count. Records
// without a country fold into an "Unknown" bucket.
func (r *StatsRepository) UsersPerCountry(ctx context.Context) ([]domain.SeriesPoint, error) {
	return r.querySeries(ctx, `
		SELECT COALESCE(NULLIF(TRIM(country), ''), 'Unknown') AS country, COUNT(*)
		FROM users
		GROUP BY country
		ORDER BY COUNT(*) DESC, country ASC`)
}

// TopStatesInCountry returns the most frequent states within one country.
func (r *StatsRepository) TopStatesInCountry(ctx context.Context, country string, limit int) ([]domain.SeriesPoint, error) {
	return r.querySeries(ctx, `
		SELECT state, COUNT(*)
		FROM users
		WHERE country = ?
		GROUP BY state
		ORDER BY COUNT(*) DESC, state ASC
		LIMIT ?`, country, limit)
}

// RecentUsers returns the most recently created records, newest first.
func (r *StatsRepository) RecentUsers(ctx context.Context, limit int) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY created_at DESC, id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("query recent users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

// BirthDates returns every record's date of birth. Age bucketing happens
// in the dashboard service, where the calendar arithmetic lives.
func (r *StatsRepository) BirthDates(ctx context.Context) ([]time.Time, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT dob FROM users")
	if err != nil {
		return nil, fmt.Errorf("query birth dates: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan dob: %w", err)
		}
		d, err := parseDate(s)
		if err != nil {
			return nil, fmt.Errorf("parse dob: %w", err)
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

func (r *StatsRepository) querySeries(ctx context.Context, query string, args ...any) ([]domain.SeriesPoint, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query series: %w", err)
	}
	defer rows.Close()

	var points []domain.SeriesPoint
	for rows.Next() {
		var p domain.SeriesPoint
		if err := rows.Scan(&p.Label, &p.Count); err != nil {
			return nil, fmt.Errorf("scan series point: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
