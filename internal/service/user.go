package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/kmareda/regdesk/internal/domain"
)

// UserService orchestrates the registration CRUD flows: field validation,
// the deliverability check, and persistence.
type UserService struct {
	users    domain.UserRepository
	verifier *EmailVerifier
}

// NewUserService creates a new UserService.
func NewUserService(users domain.UserRepository, verifier *EmailVerifier) *UserService {
	return &UserService{users: users, verifier: verifier}
}

// Submit handles a full submission: validate every field, run the
// deliverability check, and persist. An Invalid gateway verdict blocks the
// save; Unavailable degrades to saving with the unavailable status.
func (s *UserService) Submit(ctx context.Context, in UserInput) (*domain.User, error) {
	if errs := in.Validate(false); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(errs, ", "))
	}

	user := &domain.User{}
	in.Apply(user)

	result := s.verifier.Check(ctx, user.Email)
	if result.Status == VerifyInvalid {
		return nil, fmt.Errorf("%w: %s", domain.ErrEmailRejected, result.Message)
	}
	user.ValidationStatus = result.Message

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Create persists a record without consulting the deliverability service.
// This is the JSON API create path.
func (s *UserService) Create(ctx context.Context, in UserInput) (*domain.User, error) {
	if errs := in.Validate(false); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(errs, ", "))
	}

	user := &domain.User{}
	in.Apply(user)

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Get retrieves a single record by id.
func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// List returns one page of records plus the total count and page count.
// Page numbers are 1-based; out-of-range values are clamped. totalPages is
// never below 1 so pagination renders sanely on an empty store.
func (s *UserService) List(ctx context.Context, page, limit int, nameFilter string) ([]domain.User, int, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	filter := domain.UserFilter{Name: strings.TrimSpace(nameFilter)}

	total, err := s.users.Count(ctx, filter)
	if err != nil {
		return nil, 0, 0, err
	}

	users, err := s.users.List(ctx, filter, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, 0, err
	}

	totalPages := (total + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}
	return users, total, totalPages, nil
}

// Update applies a partial update: empty input fields leave the stored
// value unchanged, present fields are revalidated. With recheck set, the
// deliverability gateway runs against the effective email exactly as on
// create: an Invalid verdict blocks the update, Unavailable or Valid
// updates the stored validation status. Without recheck the status is left
// untouched.
func (s *UserService) Update(ctx context.Context, id int64, in UserInput, recheck bool) (*domain.User, error) {
	if errs := in.Validate(true); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(errs, ", "))
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.Apply(user)

	if recheck {
		result := s.verifier.Check(ctx, user.Email)
		if result.Status == VerifyInvalid {
			return nil, fmt.Errorf("%w: %s", domain.ErrEmailRejected, result.Message)
		}
		user.ValidationStatus = result.Message
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Each streams every record to fn in List order, newest first.
func (s *UserService) Each(ctx context.Context, fn func(*domain.User) error) error {
	return s.users.Each(ctx, fn)
}

// Delete removes one record permanently.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	return s.users.Delete(ctx, id)
}

// DeleteAll removes every record permanently.
func (s *UserService) DeleteAll(ctx context.Context) error {
	return s.users.DeleteAll(ctx)
}
