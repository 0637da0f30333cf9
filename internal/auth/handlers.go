package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/okunevich/biblio/internal/entities"
)

// isLocalPath validates that a redirect path is local to prevent open
// redirect attacks.
func isLocalPath(path string) bool {
	if path == "" {
		return false
	}
	if !strings.HasPrefix(path, "/") {
		return false
	}
	// Reject protocol-relative URLs (//evil.com)
	if strings.HasPrefix(path, "//") {
		return false
	}
	if strings.Contains(path, "://") {
		return false
	}
	if strings.Contains(path, "\\") {
		return false
	}
	return true
}

// sanitizeRedirectPath returns a safe redirect path, defaulting to /home.
func sanitizeRedirectPath(path string) string {
	if isLocalPath(path) {
		return path
	}
	return "/home"
}

// Controller handles login, registration and logout.
type Controller struct {
	service        *Service
	sessionManager *SessionManager
}

// NewController creates a new authentication controller.
func NewController(service *Service, sessionManager *SessionManager) *Controller {
	return &Controller{
		service:        service,
		sessionManager: sessionManager,
	}
}

// RegisterRoutes registers authentication routes on the router.
func (ac *Controller) RegisterRoutes(router *gin.Engine) {
	router.GET("/login", ac.LoginPage)
	router.POST("/login", ac.Login)
	router.GET("/register", ac.RegisterPage)
	router.POST("/register", ac.Register)
	router.POST("/logout", ac.Logout)
	router.GET("/logout", ac.Logout) // Support GET for simple logout links
}

// LoginPage renders the login form.
func (ac *Controller) LoginPage(c *gin.Context) {
	if ac.sessionManager.IsAuthenticated(c.Request) {
		c.Redirect(http.StatusFound, "/home")
		return
	}

	c.HTML(http.StatusOK, "login.html", gin.H{
		"Title":     "Login",
		"Next":      sanitizeRedirectPath(c.Query("next")),
		"Email":     "",
		"CSRFToken": GetCSRFToken(c),
		"Error":     c.Query("error"),
	})
}

// Login handles the login form submission.
func (ac *Controller) Login(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")
	next := sanitizeRedirectPath(c.PostForm("next"))

	reader, err := ac.service.Authenticate(email, password)
	if err != nil {
		c.HTML(http.StatusOK, "login.html", gin.H{
			"Title":     "Login",
			"Next":      next,
			"Email":     email,
			"CSRFToken": GetCSRFToken(c),
			"Error":     "Invalid email or password.",
		})
		return
	}

	if err := ac.sessionManager.CreateSession(c.Request, reader); err != nil {
		c.HTML(http.StatusOK, "login.html", gin.H{
			"Title":     "Login",
			"Next":      next,
			"Email":     email,
			"CSRFToken": GetCSRFToken(c),
			"Error":     "Failed to create session.",
		})
		return
	}

	c.Redirect(http.StatusFound, next)
}

// RegisterPage renders the registration form.
func (ac *Controller) RegisterPage(c *gin.Context) {
	if ac.sessionManager.IsAuthenticated(c.Request) {
		c.Redirect(http.StatusFound, "/home")
		return
	}

	c.HTML(http.StatusOK, "register.html", gin.H{
		"Title":     "Register",
		"Role":      string(entities.RoleReader),
		"CSRFToken": GetCSRFToken(c),
	})
}

// Register handles the registration form submission. On success the new
// reader is logged in immediately.
func (ac *Controller) Register(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	surname := strings.TrimSpace(c.PostForm("surname"))
	email := strings.TrimSpace(c.PostForm("email"))
	role := entities.ReaderRole(c.PostForm("role"))
	password := c.PostForm("password")
	password2 := c.PostForm("password2")

	renderError := func(msg string) {
		c.HTML(http.StatusOK, "register.html", gin.H{
			"Title":     "Register",
			"Name":      name,
			"Surname":   surname,
			"Email":     email,
			"Role":      string(role),
			"CSRFToken": GetCSRFToken(c),
			"Error":     msg,
		})
	}

	if password != password2 {
		renderError("Passwords do not match.")
		return
	}

	reader, err := ac.service.Register(name, surname, email, role, password)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken):
			renderError("Email already registered.")
		case errors.Is(err, ErrPasswordTooShort):
			renderError("Password must be at least 8 characters.")
		case errors.Is(err, ErrPasswordTooLong):
			renderError("Password is too long.")
		case errors.Is(err, ErrInvalidRole):
			renderError("Role must be reader or librarian.")
		case errors.Is(err, ErrNameRequired),
			errors.Is(err, ErrSurnameRequired),
			errors.Is(err, ErrEmailRequired),
			errors.Is(err, ErrEmailInvalid),
			errors.Is(err, ErrPasswordRequired):
			renderError(err.Error())
		default:
			renderError("Registration failed. Please try again.")
		}
		return
	}

	_ = ac.sessionManager.CreateSession(c.Request, reader)
	c.Redirect(http.StatusFound, "/home")
}

// Logout destroys the session and redirects to login.
func (ac *Controller) Logout(c *gin.Context) {
	_ = ac.sessionManager.DestroySession(c.Request)
	c.Redirect(http.StatusFound, "/login")
}
