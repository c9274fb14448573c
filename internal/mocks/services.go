package mocks

import (
	"context"

	"github.com/personal-page/site/internal/models"
	"github.com/personal-page/site/internal/service"
)

// MockAuthService is a mock implementation of AuthService
type MockAuthService struct {
	LoginFunc   func(password string) (string, error)
	Disabled    bool
	Sessions    map[string]bool
	LoginCalls  int
	LoggedOut   []string
	SweeperLive bool
}

// Verify interface compliance
var _ service.AuthService = (*MockAuthService)(nil)

func NewMockAuthService() *MockAuthService {
	return &MockAuthService{
		Sessions:  make(map[string]bool),
		LoggedOut: make([]string, 0),
	}
}

func (m *MockAuthService) Enabled() bool {
	return !m.Disabled
}

func (m *MockAuthService) Login(password string) (string, error) {
	m.LoginCalls++
	if m.LoginFunc != nil {
		return m.LoginFunc(password)
	}
	if m.Disabled {
		return "", models.ErrLoginDisabled
	}
	token := "test-session-token"
	m.Sessions[token] = true
	return token, nil
}

func (m *MockAuthService) Authenticated(token string) bool {
	return m.Sessions[token]
}

func (m *MockAuthService) Logout(token string) {
	delete(m.Sessions, token)
	m.LoggedOut = append(m.LoggedOut, token)
}

func (m *MockAuthService) StartSweeper(ctx context.Context) {
	m.SweeperLive = true
}

func (m *MockAuthService) StopSweeper() {
	m.SweeperLive = false
}
