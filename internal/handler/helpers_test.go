package handler_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/kmareda/regdesk/internal/handler"
	"github.com/kmareda/regdesk/internal/repository/sqlite"
	"github.com/kmareda/regdesk/internal/service"
)

const (
	testSessionSecret = "test-secret-key-for-unit-tests-32b"
	testAdminUser     = "admin"
	testAdminPassword = "hunter22"
)

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

type testApp struct {
	srv *httptest.Server
	db  *sqlite.DB
}

// newTestApp builds the full route stack on a temp database with the
// given deliverability gateway, and returns a running test server.
func newTestApp(t *testing.T, gatewayURL string) *testApp {
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

	verifier := service.NewEmailVerifier(gatewayURL, "test-key")
	users := service.NewUserService(db.Users(), verifier)
	dashboard := service.NewDashboardService(db.Stats())
	limiter := service.NewSlidingWindow(100, 15*time.Minute)

	// Use cost 4 for fast tests.
	sessions, err := service.NewSessionService(db.Sessions(), testSessionSecret, 24*time.Hour, testAdminUser, testAdminPassword, 4)
	if err != nil {
		t.Fatalf("NewSessionService: %v", err)
	}

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, sessions, users, dashboard, verifier, limiter, false)

	// Mirror the full production middleware chain from main.go.
	srv := httptest.NewServer(handler.SecurityHeaders(handler.Recover(handler.AccessLog(io.Discard, mux))))
	t.Cleanup(srv.Close)

	return &testApp{srv: srv, db: db}
}

// newClient returns a client with a cookie jar that does not follow
// redirects, so tests can assert on 303 responses directly.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("create cookie jar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// login authenticates the client as the admin and fails the test if the
// server does not redirect to the dashboard.
func login(t *testing.T, client *http.Client, baseURL string) {
	t.Helper()
	resp, err := client.PostForm(baseURL+"/admin", url.Values{
		"username": {testAdminUser},
		"password": {testAdminPassword},
	})
	if err != nil {
		t.Fatalf("POST /admin: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("login: expected 303 redirect, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/dashboard" {
		t.Fatalf("login: expected redirect to /dashboard, got %s", loc)
	}
}

func registrationForm(email string) url.Values {
	return url.Values{
		"name":    {"Test User"},
		"email":   {email},
		"dob":     {"1990-06-15"},
		"contact": {"5551234567"},
		"state":   {"Oregon"},
		"country": {"USA"},
	}
}
