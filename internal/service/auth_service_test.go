package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/personal-page/site/internal/config"
	"github.com/personal-page/site/internal/models"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuth(t *testing.T, password string) *authService {
	t.Helper()

	var hash string
	if password != "" {
		b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		if err != nil {
			t.Fatalf("GenerateFromPassword failed: %v", err)
		}
		hash = string(b)
	}

	return newAuthService(config.SiteConfig{AdminPasswordHash: hash, SessionTTL: time.Hour}, zerolog.Nop())
}

func TestAuthService_Login(t *testing.T) {
	auth := newTestAuth(t, "correct horse")

	if !auth.Enabled() {
		t.Fatal("Expected login to be enabled")
	}

	if _, err := auth.Login("wrong"); !errors.Is(err, models.ErrInvalidPassword) {
		t.Errorf("Expected ErrInvalidPassword, got %v", err)
	}

	token, err := auth.Login("correct horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if !auth.Authenticated(token) {
		t.Error("Expected session to be valid")
	}
	if auth.Authenticated("") || auth.Authenticated("made-up") {
		t.Error("Expected unknown tokens to be rejected")
	}

	auth.Logout(token)
	if auth.Authenticated(token) {
		t.Error("Expected session to end on logout")
	}
}

func TestAuthService_Disabled(t *testing.T) {
	auth := newTestAuth(t, "")

	if auth.Enabled() {
		t.Error("Expected login to be disabled without a hash")
	}
	if _, err := auth.Login(""); !errors.Is(err, models.ErrLoginDisabled) {
		t.Errorf("Expected ErrLoginDisabled, got %v", err)
	}
}

func TestAuthService_Expiry(t *testing.T) {
	auth := newTestAuth(t, "pw")
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	auth.now = func() time.Time { return now }

	token, err := auth.Login("pw")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	other, _ := auth.Login("pw")

	now = now.Add(59 * time.Minute)
	if !auth.Authenticated(token) {
		t.Error("Expected session to be valid before expiry")
	}

	now = now.Add(time.Minute)
	if auth.Authenticated(token) {
		t.Error("Expected session to expire at TTL")
	}

	if removed := auth.sweep(); removed != 1 {
		t.Errorf("Expected sweep to remove the remaining expired session, removed %d", removed)
	}
	if auth.Authenticated(other) {
		t.Error("Expected swept session to be gone")
	}
}

func TestAuthService_SweeperLifecycle(t *testing.T) {
	auth := newTestAuth(t, "pw")

	auth.StartSweeper(context.Background())
	auth.StartSweeper(context.Background())
	auth.StopSweeper()
	auth.StopSweeper()

	ctx, cancel := context.WithCancel(context.Background())
	auth.StartSweeper(ctx)
	cancel()
	auth.StopSweeper()
}
