// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pollstream/live-polls/auth"
	"github.com/pollstream/live-polls/models"
	"github.com/pollstream/live-polls/testutil"
)

func TestRegister(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	cfg := testutil.GetTestConfig()
	handler := NewAuthHandler(conn, cfg)

	req := testutil.MakeRequest("POST", "/auth/register", models.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "hunter2",
	}, nil)
	w := httptest.NewRecorder()
	handler.Register(w, req)

	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.AuthResponse
	testutil.AssertJSON(t, w, &resp)

	if resp.User.Email != "alice@example.com" {
		t.Errorf("Expected registered email, got %s", resp.User.Email)
	}
	if resp.User.Role != models.RoleMember {
		t.Errorf("Expected MEMBER role for self-registration, got %s", resp.User.Role)
	}
	if resp.Token == "" {
		t.Error("Expected a token in the response")
	}

	// The issued token is immediately usable.
	if sub, err := auth.ParseToken(resp.Token, cfg.JWTSecret); err != nil || sub != resp.User.ID {
		t.Errorf("Expected token for user %s, got %s (%v)", resp.User.ID, sub, err)
	}

	// Password is stored hashed, never plaintext.
	var storedHash string
	if err := conn.QueryRow(`SELECT password_hash FROM app_user WHERE id = $1`, resp.User.ID).Scan(&storedHash); err != nil {
		t.Fatalf("Failed to read user: %v", err)
	}
	if storedHash == "hunter2" {
		t.Error("Expected stored password to be hashed")
	}
}

func TestRegisterValidation(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	handler := NewAuthHandler(conn, testutil.GetTestConfig())

	tests := []struct {
		name string
		body models.RegisterRequest
	}{
		{"missing name", models.RegisterRequest{Email: "a@example.com", Password: "x"}},
		{"missing email", models.RegisterRequest{Name: "A", Password: "x"}},
		{"missing password", models.RegisterRequest{Name: "A", Email: "a@example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/auth/register", tt.body, nil)
			w := httptest.NewRecorder()
			handler.Register(w, req)
			testutil.AssertStatus(t, w, http.StatusBadRequest)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	handler := NewAuthHandler(conn, testutil.GetTestConfig())

	body := models.RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "hunter2"}

	w := httptest.NewRecorder()
	handler.Register(w, testutil.MakeRequest("POST", "/auth/register", body, nil))
	testutil.AssertStatus(t, w, http.StatusCreated)

	w = httptest.NewRecorder()
	handler.Register(w, testutil.MakeRequest("POST", "/auth/register", body, nil))
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestLogin(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	cfg := testutil.GetTestConfig()
	handler := NewAuthHandler(conn, cfg)
	user := testutil.CreateTestUser(t, conn, "Alice", models.RoleMember)

	t.Run("valid credentials", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/auth/login", models.LoginRequest{
			Email:    user.Email,
			Password: "password123",
		}, nil)
		w := httptest.NewRecorder()
		handler.Login(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.AuthResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.User.ID != user.ID {
			t.Errorf("Expected user %s, got %s", user.ID, resp.User.ID)
		}
		if resp.Token == "" {
			t.Error("Expected a token in the response")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/auth/login", models.LoginRequest{
			Email:    user.Email,
			Password: "wrong",
		}, nil)
		w := httptest.NewRecorder()
		handler.Login(w, req)
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("unknown email", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/auth/login", models.LoginRequest{
			Email:    "nobody@example.com",
			Password: "password123",
		}, nil)
		w := httptest.NewRecorder()
		handler.Login(w, req)
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("missing fields", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/auth/login", models.LoginRequest{}, nil)
		w := httptest.NewRecorder()
		handler.Login(w, req)
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})
}
