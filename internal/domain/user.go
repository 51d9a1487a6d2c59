package domain

import (
	"context"
	"time"
)

// User is a single registration record collected through the public form
// or the admin panel.
type User struct {
	ID               int64
	Name             string
	Email            string
	DOB              time.Time
	Contact          string
	State            string
	Country          string
	CreatedAt        time.Time
	ValidationStatus string // outcome of the last deliverability check, "" if never checked
}

// UserFilter narrows List and Count to records whose name contains the
// given substring, case-insensitively. The zero value matches everything.
type UserFilter struct {
	Name string
}

// UserRepository defines persistence operations for registration records.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	List(ctx context.Context, filter UserFilter, limit, offset int) ([]User, error)
	// Each calls fn for every record in List order without materializing
	// the full set. Iteration stops at the first error fn returns.
	Each(ctx context.Context, fn func(*User) error) error
	Count(ctx context.Context, filter UserFilter) (int, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
}
