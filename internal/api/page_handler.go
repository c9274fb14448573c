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

// recentEntries is how many entries the main page lists
const recentEntries = 5

// PageHandler renders the site's pages
type PageHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewPageHandler creates a new PageHandler
func NewPageHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *PageHandler {
	return &PageHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "pages").Logger(),
	}
}

// Index handles GET /
func (h *PageHandler) Index(c *gin.Context) {
	entries, err := h.services.Entry.Public(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if len(entries) > recentEntries {
		entries = entries[:recentEntries]
	}

	h.render(c, http.StatusOK, "index.html", gin.H{
		"Entries": entries,
	})
}

// About handles GET /about
func (h *PageHandler) About(c *gin.Context) {
	h.render(c, http.StatusOK, "about.html", gin.H{
		"Title":  "About",
		"Author": h.cfg.Site.Author,
	})
}

// Blog handles GET /blog
func (h *PageHandler) Blog(c *gin.Context) {
	entries, err := h.services.Entry.Public(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	h.render(c, http.StatusOK, "blog.html", gin.H{
		"Title":   "Blog",
		"Heading": "Blog",
		"Entries": entries,
	})
}

// Drafts handles GET /drafts (login required)
func (h *PageHandler) Drafts(c *gin.Context) {
	entries, err := h.services.Entry.Drafts(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	h.render(c, http.StatusOK, "blog.html", gin.H{
		"Title":   "Drafts",
		"Heading": "Drafts",
		"Entries": entries,
	})
}

// Entry handles GET /blog/:slug. Drafts are only shown to a logged-in author.
func (h *PageHandler) Entry(c *gin.Context) {
	entry, err := h.services.Entry.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if entry.IsDraft() && !c.GetBool(ctxLoggedIn) {
		h.NotFound(c)
		return
	}

	h.render(c, http.StatusOK, "entry.html", gin.H{
		"Title": entry.Title,
		"Entry": entry,
	})
}

// Search handles GET /search?q=
func (h *PageHandler) Search(c *gin.Context) {
	query := c.Query("q")

	results, err := h.services.Search.Search(c.Request.Context(), query)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.render(c, http.StatusOK, "search.html", gin.H{
		"Title":   "Search",
		"Query":   query,
		"Results": results,
	})
}

// NotFound renders the 404 page
func (h *PageHandler) NotFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, "error.html", gin.H{
		"Title":   "Not found",
		"Message": "The page you were looking for does not exist.",
	})
}

// fail maps a service error to an error page
func (h *PageHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, models.ErrNotFound) {
		h.NotFound(c)
		return
	}

	h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
	h.render(c, http.StatusInternalServerError, "error.html", gin.H{
		"Title":   "Error",
		"Message": "Something went wrong. Please try again later.",
	})
}

func (h *PageHandler) render(c *gin.Context, status int, name string, data gin.H) {
	render(c, h.cfg, status, name, data)
}

// render fills in the fields every page layout uses
func render(c *gin.Context, cfg *config.Config, status int, name string, data gin.H) {
	if _, ok := data["Title"]; !ok {
		data["Title"] = ""
	}
	if _, ok := data["Query"]; !ok {
		data["Query"] = ""
	}
	data["Site"] = cfg.Site.Title
	data["LoggedIn"] = c.GetBool(ctxLoggedIn)

	c.HTML(status, name, data)
}
