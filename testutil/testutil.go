// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/pollstream/live-polls/auth"
	"github.com/pollstream/live-polls/cliparse"
	"github.com/pollstream/live-polls/db"
	"github.com/pollstream/live-polls/models"
)

// SetupTestDB creates a fresh in-memory sqlite database with the full
// schema. A single connection keeps every statement on the same in-memory
// database and serializes concurrent test traffic the way the sqlite
// driver would.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:            4000,
		DatabaseURL:     ":memory:",
		DatabaseType:    "sqlite",
		JWTSecret:       "test-jwt-secret",
		PublishInterval: time.Minute,
	}
}

// CreateTestUser inserts a user with the given role and returns it.
func CreateTestUser(t *testing.T, conn *sql.DB, name, role string) models.User {
	t.Helper()

	hash, err := auth.HashPassword("password123")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	user := models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        name + "-" + uuid.NewString()[:8] + "@example.com",
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now(),
	}

	_, err = conn.Exec(`
		INSERT INTO app_user (id, name, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, user.ID, user.Name, user.Email, user.PasswordHash, user.Role, user.CreatedAt)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// CreateTestPoll inserts a poll owned by creatorID and returns its id.
func CreateTestPoll(t *testing.T, conn *sql.DB, creatorID string, published, closed bool) string {
	t.Helper()

	pollID := uuid.NewString()
	now := time.Now()
	_, err := conn.Exec(`
		INSERT INTO poll (id, question, is_published, is_closed, creator_id, created_at, updated_at)
		VALUES ($1, 'Test question?', $2, $3, $4, $5, $6)
	`, pollID, published, closed, creatorID, now, now)
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	return pollID
}

// CreateScheduledPoll inserts an unpublished poll with the given publish time.
func CreateScheduledPoll(t *testing.T, conn *sql.DB, creatorID string, publishAt time.Time) string {
	t.Helper()

	pollID := uuid.NewString()
	now := time.Now()
	_, err := conn.Exec(`
		INSERT INTO poll (id, question, is_published, is_closed, publish_at, creator_id, created_at, updated_at)
		VALUES ($1, 'Scheduled question?', FALSE, FALSE, $2, $3, $4, $5)
	`, pollID, publishAt, creatorID, now, now)
	if err != nil {
		t.Fatalf("Failed to create scheduled poll: %v", err)
	}

	return pollID
}

// AddTestOption adds an option to a poll and returns the option ID
func AddTestOption(t *testing.T, conn *sql.DB, pollID, text string) string {
	t.Helper()

	optionID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO poll_option (id, poll_id, text)
		VALUES ($1, $2, $3)
	`, optionID, pollID, text)
	if err != nil {
		t.Fatalf("Failed to create test option: %v", err)
	}

	return optionID
}

// CastTestVote inserts a vote row directly.
func CastTestVote(t *testing.T, conn *sql.DB, userID, pollID, optionID string) string {
	t.Helper()

	voteID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO vote (id, user_id, poll_id, option_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, voteID, userID, pollID, optionID, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}

	return voteID
}

// AuthHeader returns the Authorization header value for a user.
func AuthHeader(t *testing.T, cfg cliparse.Config, user models.User) string {
	t.Helper()

	token, err := auth.GenerateToken(user, cfg.JWTSecret)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	return "Bearer " + token
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
