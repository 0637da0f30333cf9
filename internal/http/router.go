package http

import (
	"html/template"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/okunevich/biblio/internal/auth"
	"github.com/okunevich/biblio/internal/database"
	"github.com/okunevich/biblio/internal/database/readers"
	"github.com/okunevich/biblio/internal/library"
)

// RouterConfig carries every dependency the router wires into handlers.
type RouterConfig struct {
	Database       *database.Database
	Library        *library.Service
	Readers        *readers.Repository
	AuthService    *auth.Service
	SessionManager *auth.SessionManager
	AuthMiddleware *auth.Middleware
	CSRFSecret     []byte
	SecureCookies  bool
	TemplatesPath  string
	StaticPath     string
	Version        string
	DefaultPerPage int
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	// Session runs after CSRF so session context isn't overwritten by
	// CSRF's request replacement
	router.Use(cfg.SessionManager.SessionLoadSave())

	// Resolve the acting principal for every request
	router.Use(cfg.AuthMiddleware.Resolve())

	funcMap := template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
	}

	// Load HTML templates, including the per-book reading views
	tmpl := template.New("").Funcs(funcMap)
	if matches, _ := filepath.Glob(filepath.Join(cfg.TemplatesPath, "*.html")); len(matches) > 0 {
		tmpl = template.Must(tmpl.ParseGlob(filepath.Join(cfg.TemplatesPath, "*.html")))
	}
	if matches, _ := filepath.Glob(filepath.Join(cfg.TemplatesPath, "book_reads", "*.html")); len(matches) > 0 {
		tmpl = template.Must(tmpl.ParseGlob(filepath.Join(cfg.TemplatesPath, "book_reads", "*.html")))
	}
	router.SetHTMLTemplate(tmpl)

	if cfg.StaticPath != "" {
		router.Static("/static", cfg.StaticPath)
	}

	// Auth routes (login, register, logout)
	authController := auth.NewController(cfg.AuthService, cfg.SessionManager)
	authController.RegisterRoutes(router)

	// Health endpoints
	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// HTML surface
	ui := NewUIController(cfg.Library, cfg.Readers, tmpl, cfg.DefaultPerPage)
	router.GET("/", ui.Root)

	authed := router.Group("", cfg.AuthMiddleware.RequireAuth())
	authed.GET("/home", ui.Home)
	authed.GET("/profile/:id", ui.Profile)
	authed.GET("/book/:id", ui.BookPage)
	authed.POST("/book/:id", ui.BookSubmit)
	authed.GET("/book/:id/read", ui.BookReadPage)
	authed.POST("/book/:id/toggle-hidden", ui.ToggleHidden)
	authed.GET("/reviews/:id", ui.ReviewPage)
	authed.POST("/reviews/:id/delete", ui.DeleteReview)
	authed.POST("/annotations/:id/delete", ui.DeleteAnnotation)

	// JSON API. Reads are public; mutations are gated inside the service
	// so that a missing book reads as 404 before auth is considered.
	booksController := NewBooksController(cfg.Library, cfg.DefaultPerPage)
	reviewsController := NewReviewsController(cfg.Library)
	annotationsController := NewAnnotationsController(cfg.Library)
	readersController := NewReadersController(cfg.Readers)

	api := router.Group("/api/v1")
	api.GET("/books", booksController.List)
	api.GET("/books/:id", booksController.Details)
	api.GET("/books/:id/data", booksController.DetailsLegacy)
	api.POST("/books/:id/reviews", reviewsController.Create)
	api.POST("/books/:id/annotations", annotationsController.Create)
	api.GET("/readers/:id", readersController.Profile)
	api.GET("/reviews/:id", reviewsController.Details)
	api.PATCH("/reviews/:id", reviewsController.Update)
	api.DELETE("/reviews/:id", reviewsController.Delete)
	api.PATCH("/annotations/:id", annotationsController.Update)
	api.DELETE("/annotations/:id", annotationsController.Delete)

	return router
}
