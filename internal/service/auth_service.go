package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/personal-page/site/internal/config"
	"github.com/personal-page/site/internal/models"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const sweepInterval = time.Minute

// authService checks the author's password and keeps login sessions in memory.
// Sessions do not survive a restart.
type authService struct {
	hash []byte
	ttl  time.Duration
	log  zerolog.Logger
	now  func() time.Time

	mu       sync.Mutex
	sessions map[string]time.Time // token -> expiry

	sweepMu sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
}

func newAuthService(cfg config.SiteConfig, log zerolog.Logger) *authService {
	return &authService{
		hash:     []byte(cfg.AdminPasswordHash),
		ttl:      cfg.SessionTTL,
		log:      log.With().Str("service", "auth").Logger(),
		now:      time.Now,
		sessions: make(map[string]time.Time),
	}
}

// Enabled reports whether a password hash is configured
func (s *authService) Enabled() bool {
	return len(s.hash) > 0
}

// Login verifies password and opens a session, returning its token
func (s *authService) Login(password string) (string, error) {
	if !s.Enabled() {
		return "", models.ErrLoginDisabled
	}
	if err := bcrypt.CompareHashAndPassword(s.hash, []byte(password)); err != nil {
		s.log.Warn().Msg("Login rejected")
		return "", models.ErrInvalidPassword
	}

	token := uuid.New().String()

	s.mu.Lock()
	s.sessions[token] = s.now().Add(s.ttl)
	s.mu.Unlock()

	s.log.Info().Msg("Login succeeded")
	return token, nil
}

// Authenticated reports whether token names a live session
func (s *authService) Authenticated(token string) bool {
	if token == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.sessions[token]
	if !ok {
		return false
	}
	if !s.now().Before(expiry) {
		delete(s.sessions, token)
		return false
	}
	return true
}

// Logout ends the session behind token
func (s *authService) Logout(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// StartSweeper removes expired sessions periodically until ctx is done or
// StopSweeper is called. It returns immediately; calling it twice is a no-op.
func (s *authService) StartSweeper(ctx context.Context) {
	s.sweepMu.Lock()
	defer s.sweepMu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go func(done chan struct{}) {
		defer close(done)

		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.sweep(); n > 0 {
					s.log.Debug().Int("expired", n).Msg("Expired sessions removed")
				}
			}
		}
	}(s.done)

	s.log.Info().Msg("Session sweeper started")
}

// StopSweeper stops the sweeper and waits for it to exit
func (s *authService) StopSweeper() {
	s.sweepMu.Lock()
	defer s.sweepMu.Unlock()
	if s.cancel == nil {
		return
	}

	s.cancel()
	<-s.done
	s.cancel = nil
	s.done = nil
	s.log.Info().Msg("Session sweeper stopped")
}

func (s *authService) sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for token, expiry := range s.sessions {
		if !now.Before(expiry) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}
