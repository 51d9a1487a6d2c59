package service_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/kmareda/regdesk/internal/repository/sqlite"
	"github.com/kmareda/regdesk/internal/service"
)

const testSessionSecret = "test-secret-key-for-unit-tests-32b"

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// fakeGateway stands in for the deliverability service, answering every
// request with the given classification and score.
func fakeGateway(t *testing.T, deliverability, score string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"deliverability":%q,"quality_score":%q}`, deliverability, score)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// brokenGateway is a gateway whose connection always fails.
func brokenGateway(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()
	return url
}

func newTestUserService(t *testing.T, gatewayURL string) (*service.UserService, *sqlite.DB) {
	t.Helper()
	db := newTestDB(t)
	verifier := service.NewEmailVerifier(gatewayURL, "test-key")
	return service.NewUserService(db.Users(), verifier), db
}

func newTestSessionService(t *testing.T) (*service.SessionService, *sqlite.DB) {
	t.Helper()
	db := newTestDB(t)
	// Use cost 4 for fast tests.
	sessions, err := service.NewSessionService(db.Sessions(), testSessionSecret, 24*time.Hour, "admin", "hunter22", 4)
	if err != nil {
		t.Fatalf("NewSessionService: %v", err)
	}
	return sessions, db
}

func validInput(email string) service.UserInput {
	return service.UserInput{
		Name:    "Test User",
		Email:   email,
		DOB:     "1990-06-15",
		Contact: "5551234567",
		State:   "Oregon",
		Country: "USA",
	}
}
