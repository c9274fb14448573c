package api

import (
	"embed"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/personal-page/site/internal/config"
	"github.com/personal-page/site/internal/service"
	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	sessionCookie   = "session"
	ctxLoggedIn     = "logged_in"
	ctxSessionToken = "session_token"
)

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.SetHTMLTemplate(loadTemplates())

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(sessionMiddleware(services.Auth))

	// Handlers
	pages := NewPageHandler(services, cfg, log)
	auth := NewAuthHandler(services, cfg, log)

	// Health check
	router.GET("/health", healthCheck(services))

	// Static pages
	router.GET("/", pages.Index)
	router.GET("/about", pages.About)

	// Blog
	blog := router.Group("/blog")
	{
		blog.GET("", pages.Blog)
		blog.GET("/:slug", pages.Entry)
	}
	router.GET("/search", pages.Search)
	router.GET("/drafts", requireLogin(), pages.Drafts)

	// Login session
	router.GET("/login", auth.LoginForm)
	router.POST("/login", auth.Login)
	router.POST("/logout", auth.Logout)

	router.NoRoute(pages.NotFound)

	return router
}

func loadTemplates() *template.Template {
	funcs := template.FuncMap{
		"date": func(t time.Time) string {
			return t.Format("January 2, 2006")
		},
		"paragraphs": func(content string) []string {
			var out []string
			for _, p := range strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n\n") {
				if p = strings.TrimSpace(p); p != "" {
					out = append(out, p)
				}
			}
			return out
		},
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.html"))
}

// healthCheck returns the health status with entry and index counts
func healthCheck(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		entries, err := services.Entry.Count(ctx)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}
		indexed, err := services.Search.IndexedCount(ctx)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   "personal-site",
			"entries":   entries,
			"indexed":   indexed,
		})
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Str("path", c.Request.URL.Path).Msg("Panic recovered")
				c.String(http.StatusInternalServerError, "Internal server error")
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// sessionMiddleware marks requests that carry a live session cookie
func sessionMiddleware(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(sessionCookie)
		loggedIn := err == nil && auth.Authenticated(token)
		c.Set(ctxLoggedIn, loggedIn)
		if loggedIn {
			c.Set(ctxSessionToken, token)
		}
		c.Next()
	}
}

// requireLogin redirects anonymous visitors to the login page
func requireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(ctxLoggedIn) {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}
