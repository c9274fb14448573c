package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/personal-page/site/internal/config"
	"github.com/personal-page/site/internal/models"
	"github.com/personal-page/site/internal/service"
	"github.com/rs/zerolog"
)

// AuthHandler handles the author login session
type AuthHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "auth").Logger(),
	}
}

// LoginForm handles GET /login
func (h *AuthHandler) LoginForm(c *gin.Context) {
	if c.GetBool(ctxLoggedIn) {
		c.Redirect(http.StatusFound, "/drafts")
		return
	}
	h.renderForm(c, http.StatusOK, "")
}

// Login handles POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	token, err := h.services.Auth.Login(c.PostForm("password"))
	switch {
	case errors.Is(err, models.ErrLoginDisabled):
		h.renderForm(c, http.StatusForbidden, "Login is disabled on this site.")
		return
	case errors.Is(err, models.ErrInvalidPassword):
		h.renderForm(c, http.StatusUnauthorized, "Wrong password.")
		return
	case err != nil:
		h.log.Error().Err(err).Msg("Login failed")
		h.renderForm(c, http.StatusInternalServerError, "Login failed.")
		return
	}

	maxAge := int(h.cfg.Site.SessionTTL.Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, token, maxAge, "/", "", h.cfg.Site.SecureCookies, true)
	c.Redirect(http.StatusSeeOther, "/drafts")
}

// Logout handles POST /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if token := c.GetString(ctxSessionToken); token != "" {
		h.services.Auth.Logout(token)
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, "", -1, "/", "", h.cfg.Site.SecureCookies, true)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *AuthHandler) renderForm(c *gin.Context, status int, message string) {
	render(c, h.cfg, status, "login.html", gin.H{
		"Title":   "Log in",
		"Error":   message,
		"Enabled": h.services.Auth.Enabled(),
	})
}
