package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/kmareda/regdesk/internal/domain"
	"github.com/kmareda/regdesk/internal/service"
)

func TestUserService_Submit_StoresLowercasedEmail(t *testing.T) {
	srv := fakeGateway(t, "DELIVERABLE", "0.95")
	svc, db := newTestUserService(t, srv.URL)
	ctx := context.Background()

	in := validInput("MixedCase@Example.COM")
	user, err := svc.Submit(ctx, in)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	stored, err := db.Users().GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Email != "mixedcase@example.com" {
		t.Fatalf("expected lowercased email, got %q", stored.Email)
	}
	if !strings.Contains(stored.ValidationStatus, "DELIVERABLE") {
		t.Fatalf("expected gateway message as validation status, got %q", stored.ValidationStatus)
	}
}

func TestUserService_Submit_InvalidEmailBlocksSave(t *testing.T) {
	srv := fakeGateway(t, "UNDELIVERABLE", "0.05")
	svc, db := newTestUserService(t, srv.URL)
	ctx := context.Background()

	_, err := svc.Submit(ctx, validInput("bad@example.com"))
	if !errors.Is(err, domain.ErrEmailRejected) {
		t.Fatalf("expected ErrEmailRejected, got %v", err)
	}
	// The rejection carries the gateway's own classification.
	if !strings.Contains(err.Error(), "UNDELIVERABLE") {
		t.Fatalf("expected gateway classification in error, got %q", err)
	}

	count, err := db.Users().Count(ctx, domain.UserFilter{})
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 0 {
		t.Fatalf("rejected submission must not persist, found %d records", count)
	}
}

func TestUserService_Submit_GatewayDownStillSaves(t *testing.T) {
	svc, db := newTestUserService(t, brokenGateway(t))
	ctx := context.Background()

	user, err := svc.Submit(ctx, validInput("soft@example.com"))
	if err != nil {
		t.Fatalf("Submit with gateway down: %v", err)
	}

	stored, err := db.Users().GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.ValidationStatus != service.UnavailableMessage {
		t.Fatalf("expected %q, got %q", service.UnavailableMessage, stored.ValidationStatus)
	}
}

func TestUserService_Submit_ValidationErrorsJoined(t *testing.T) {
	srv := fakeGateway(t, "DELIVERABLE", "0.95")
	svc, _ := newTestUserService(t, srv.URL)

	in := service.UserInput{Name: "x", Email: "nope", DOB: "1990-06-15", Contact: "5551234567", State: "Oregon", Country: "USA"}
	_, err := svc.Submit(context.Background(), in)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	// Every violation surfaces, not just the first.
	if !strings.Contains(err.Error(), "Name") || !strings.Contains(err.Error(), "email") {
		t.Fatalf("expected both violations in error, got %q", err)
	}
}

func TestUserService_Submit_DuplicateEmail(t *testing.T) {
	srv := fakeGateway(t, "DELIVERABLE", "0.95")
	svc, db := newTestUserService(t, srv.URL)
	ctx := context.Background()

	if _, err := svc.Submit(ctx, validInput("once@example.com")); err != nil {
		t.Fatalf("first Submit: %v", err)
	}

	// Same address, different case: still one record.
	_, err := svc.Submit(ctx, validInput("ONCE@example.com"))
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	count, _ := db.Users().Count(ctx, domain.UserFilter{})
	if count != 1 {
		t.Fatalf("expected exactly one persisted record, got %d", count)
	}
}

func TestUserService_Create_SkipsGateway(t *testing.T) {
	// The API create path must not call the gateway at all.
	svc, db := newTestUserService(t, brokenGateway(t))
	ctx := context.Background()

	user, err := svc.Create(ctx, validInput("api@example.com"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	stored, _ := db.Users().GetByID(ctx, user.ID)
	if stored.ValidationStatus != "" {
		t.Fatalf("expected empty validation status, got %q", stored.ValidationStatus)
	}
}

func TestUserService_List_Pagination(t *testing.T) {
	srv := fakeGateway(t, "DELIVERABLE", "0.95")
	svc, _ := newTestUserService(t, srv.URL)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		if _, err := svc.Submit(ctx, validInput(fmt.Sprintf("p%02d@example.com", i))); err != nil {
			t.Fatalf("Submit %d: %v", i, err)
		}
	}

	users, total, totalPages, err := svc.List(ctx, 2, 10, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(users) != 10 {
		t.Fatalf("expected 10 records on page 2, got %d", len(users))
	}
	if total != 25 {
		t.Fatalf("expected total 25, got %d", total)
	}
	if totalPages != 3 {
		t.Fatalf("expected totalPages 3, got %d", totalPages)
	}
}

func TestUserService_List_EmptyStoreHasOnePage(t *testing.T) {
	srv := fakeGateway(t, "DELIVERABLE", "0.95")
	svc, _ := newTestUserService(t, srv.URL)

	users, total, totalPages, err := svc.List(context.Background(), 1, 10, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(users) != 0 || total != 0 {
		t.Fatalf("expected empty list, got %d users, total %d", len(users), total)
	}
	if totalPages != 1 {
		t.Fatalf("expected totalPages 1 on empty store, got %d", totalPages)
	}
}

func TestUserService_Update_Partial(t *testing.T) {
	srv := fakeGateway(t, "DELIVERABLE", "0.95")
	svc, _ := newTestUserService(t, srv.URL)
	ctx := context.Background()

	user, err := svc.Submit(ctx, validInput("edit@example.com"))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	updated, err := svc.Update(ctx, user.ID, service.UserInput{State: "Washington"}, false)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.State != "Washington" {
		t.Fatalf("expected updated state, got %q", updated.State)
	}
	// Absent fields stay as they were.
	if updated.Email != "edit@example.com" || updated.Name != "Test User" {
		t.Fatalf("absent fields must be unchanged: %+v", updated)
	}
}

func TestUserService_Update_RecheckBlocksOnRejection(t *testing.T) {
	good := fakeGateway(t, "DELIVERABLE", "0.95")
	svc, db := newTestUserService(t, good.URL)
	ctx := context.Background()

	user, err := svc.Submit(ctx, validInput("stable@example.com"))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	bad := fakeGateway(t, "UNDELIVERABLE", "0.01")
	rejecting := service.NewUserService(db.Users(), service.NewEmailVerifier(bad.URL, "k"))

	_, err = rejecting.Update(ctx, user.ID, service.UserInput{Email: "new@example.com"}, true)
	if !errors.Is(err, domain.ErrEmailRejected) {
		t.Fatalf("expected ErrEmailRejected, got %v", err)
	}

	// Blocked update leaves the record untouched.
	stored, _ := db.Users().GetByID(ctx, user.ID)
	if stored.Email != "stable@example.com" {
		t.Fatalf("expected email unchanged, got %q", stored.Email)
	}
}

func TestUserService_Update_NoRecheckKeepsStatus(t *testing.T) {
	srv := fakeGateway(t, "DELIVERABLE", "0.95")
	svc, db := newTestUserService(t, srv.URL)
	ctx := context.Background()

	user, err := svc.Submit(ctx, validInput("keep@example.com"))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	before, _ := db.Users().GetByID(ctx, user.ID)

	if _, err := svc.Update(ctx, user.ID, service.UserInput{Name: "Renamed"}, false); err != nil {
		t.Fatalf("Update: %v", err)
	}

	after, _ := db.Users().GetByID(ctx, user.ID)
	if after.ValidationStatus != before.ValidationStatus {
		t.Fatalf("expected status unchanged without recheck, got %q", after.ValidationStatus)
	}
}

func TestUserService_DeleteAll_ThenList(t *testing.T) {
	srv := fakeGateway(t, "DELIVERABLE", "0.95")
	svc, _ := newTestUserService(t, srv.URL)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := svc.Submit(ctx, validInput(fmt.Sprintf("gone%d@example.com", i))); err != nil {
			t.Fatalf("Submit %d: %v", i, err)
		}
	}

	if err := svc.DeleteAll(ctx); err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}

	users, total, totalPages, err := svc.List(ctx, 1, 10, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(users) != 0 || total != 0 || totalPages != 1 {
		t.Fatalf("expected empty list with totalPages 1, got %d users, total %d, pages %d",
			len(users), total, totalPages)
	}
}
