package sqlite_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/kmareda/regdesk/internal/domain"
)

func TestUserRepository_Create(t *testing.T) {
	db := newTestDB(t)
	repo := db.Users()
	ctx := context.Background()

	user := testUser("create@example.com")
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if user.ID == 0 {
		t.Fatal("expected user ID to be set after create")
	}
	if user.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be defaulted")
	}
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	repo := db.Users()
	ctx := context.Background()

	if err := repo.Create(ctx, testUser("dup@example.com")); err != nil {
		t.Fatalf("Create first: %v", err)
	}

	err := repo.Create(ctx, testUser("dup@example.com"))
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	count, err := repo.Count(ctx, domain.UserFilter{})
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one persisted record, got %d", count)
	}
}

func TestUserRepository_GetByID(t *testing.T) {
	db := newTestDB(t)
	repo := db.Users()
	ctx := context.Background()

	user := testUser("byid@example.com")
	user.ValidationStatus = "Email verified: DELIVERABLE (score 0.95)"
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create: %v", err)
	}

	found, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}

	if found.Email != user.Email {
		t.Fatalf("expected email %q, got %q", user.Email, found.Email)
	}
	if !found.DOB.Equal(user.DOB) {
		t.Fatalf("expected dob %v, got %v", user.DOB, found.DOB)
	}
	if found.ValidationStatus != user.ValidationStatus {
		t.Fatalf("expected validation status %q, got %q", user.ValidationStatus, found.ValidationStatus)
	}
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Users().GetByID(context.Background(), 99999)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepository_List_Pagination(t *testing.T) {
	db := newTestDB(t)
	repo := db.Users()
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		u := testUser(fmt.Sprintf("page%02d@example.com", i))
		u.CreatedAt = time.Date(2024, 1, 1, 12, 0, i, 0, time.UTC)
		if err := repo.Create(ctx, u); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}

	page2, err := repo.List(ctx, domain.UserFilter{}, 10, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page2) != 10 {
		t.Fatalf("expected 10 records on page 2, got %d", len(page2))
	}

	// Newest first: page 2 starts at the 11th newest record.
	if page2[0].Email != "page14@example.com" {
		t.Fatalf("expected page14@example.com first on page 2, got %s", page2[0].Email)
	}

	total, err := repo.Count(ctx, domain.UserFilter{})
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if total != 25 {
		t.Fatalf("expected 25 records, got %d", total)
	}
}

func TestUserRepository_Each(t *testing.T) {
	db := newTestDB(t)
	repo := db.Users()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		u := testUser(fmt.Sprintf("each%d@example.com", i))
		u.CreatedAt = time.Date(2024, 1, 1, 12, 0, i, 0, time.UTC)
		if err := repo.Create(ctx, u); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}

	var emails []string
	err := repo.Each(ctx, func(u *domain.User) error {
		emails = append(emails, u.Email)
		return nil
	})
	if err != nil {
		t.Fatalf("Each: %v", err)
	}

	// Same order as List: newest first.
	if len(emails) != 5 || emails[0] != "each4@example.com" || emails[4] != "each0@example.com" {
		t.Fatalf("unexpected iteration order: %v", emails)
	}

	// A callback error stops iteration and surfaces unchanged.
	stop := errors.New("stop")
	seen := 0
	err = repo.Each(ctx, func(u *domain.User) error {
		seen++
		return stop
	})
	if !errors.Is(err, stop) {
		t.Fatalf("expected callback error back, got %v", err)
	}
	if seen != 1 {
		t.Fatalf("expected iteration to stop after 1 record, got %d", seen)
	}
}

func TestUserRepository_List_NameFilter(t *testing.T) {
	db := newTestDB(t)
	repo := db.Users()
	ctx := context.Background()

	alice := testUser("alice@example.com")
	alice.Name = "Alice Johnson"
	bob := testUser("bob@example.com")
	bob.Name = "Bob Smith"
	for _, u := range []*domain.User{alice, bob} {
		if err := repo.Create(ctx, u); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	// Case-insensitive substring match.
	found, err := repo.List(ctx, domain.UserFilter{Name: "JOHN"}, 50, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(found) != 1 || found[0].Email != "alice@example.com" {
		t.Fatalf("expected only alice, got %+v", found)
	}

	count, err := repo.Count(ctx, domain.UserFilter{Name: "JOHN"})
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected filtered count 1, got %d", count)
	}
}

func TestUserRepository_Update(t *testing.T) {
	db := newTestDB(t)
	repo := db.Users()
	ctx := context.Background()

	user := testUser("update@example.com")
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create: %v", err)
	}

	user.Name = "Renamed"
	user.State = "Washington"
	if err := repo.Update(ctx, user); err != nil {
		t.Fatalf("Update: %v", err)
	}

	found, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if found.Name != "Renamed" || found.State != "Washington" {
		t.Fatalf("update not persisted: %+v", found)
	}
}

func TestUserRepository_Update_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	repo := db.Users()
	ctx := context.Background()

	first := testUser("first@example.com")
	second := testUser("second@example.com")
	for _, u := range []*domain.User{first, second} {
		if err := repo.Create(ctx, u); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	second.Email = "first@example.com"
	err := repo.Update(ctx, second)
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestUserRepository_Update_NotFound(t *testing.T) {
	db := newTestDB(t)

	ghost := testUser("ghost@example.com")
	ghost.ID = 424242
	err := db.Users().Update(context.Background(), ghost)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	repo := db.Users()
	ctx := context.Background()

	user := testUser("delete@example.com")
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.Delete(ctx, user.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	_, err := repo.GetByID(ctx, user.ID)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	if err := repo.Delete(ctx, user.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestUserRepository_DeleteAll(t *testing.T) {
	db := newTestDB(t)
	repo := db.Users()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := repo.Create(ctx, testUser(fmt.Sprintf("bulk%d@example.com", i))); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}

	if err := repo.DeleteAll(ctx); err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}

	count, err := repo.Count(ctx, domain.UserFilter{})
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 records after delete-all, got %d", count)
	}
}
