package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "pennywise/internal/errors"
	"pennywise/internal/middleware"
	"pennywise/internal/services"
)

// AuthHandler handles registration, login, and logout.
type AuthHandler struct {
	userService    services.UserServicer
	sessionService services.SessionServicer
	auditService   services.AuditServicer
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(userService services.UserServicer, sessionService services.SessionServicer, auditService services.AuditServicer) *AuthHandler {
	return &AuthHandler{
		userService:    userService,
		sessionService: sessionService,
		auditService:   auditService,
	}
}

// RegisterRequest represents the registration payload.
type RegisterRequest struct {
	Username        string `json:"username" form:"username" binding:"required,max=100"`
	Email           string `json:"email" form:"email" binding:"required,email,max=255"`
	Password        string `json:"password" form:"password" binding:"required"`
	ConfirmPassword string `json:"confirmation" form:"confirmation" binding:"required"`
}

// LoginRequest represents the login payload. Username accepts either the
// username or the email address.
type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// RegisterForm serves the registration form data.
// @Summary     Registration form
// @Tags        auth
// @Produce     json
// @Success     200 {object} map[string]interface{} "Form descriptor"
// @Router      /register [get]
func (h *AuthHandler) RegisterForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"page": "register"})
}

// Register handles user registration.
// @Summary     Register a new user
// @Description Create an account with username, email, and password
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RegisterRequest true "Registration data"
// @Success     303 "Redirect to login"
// @Failure     400 {object} map[string]string "Validation failure"
// @Failure     409 {object} map[string]string "Duplicate account"
// @Router      /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		respondWithResponse(c, apperrors.WithMessage(apperrors.ErrInvalidInput, bindingMessage(err)))
		return
	}

	user, err := h.userService.Register(req.Username, req.Email, req.Password, req.ConfirmPassword)
	if err != nil {
		respondWithResponse(c, err)
		return
	}

	h.auditService.Log(user.ID, "REGISTER", "user", user.ID, c.ClientIP(), nil)

	c.Redirect(http.StatusSeeOther, "/login")
}

// LoginForm serves the login form data.
// @Summary     Login form
// @Tags        auth
// @Produce     json
// @Success     200 {object} map[string]interface{} "Form descriptor"
// @Router      /login [get]
func (h *AuthHandler) LoginForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"page": "login", "next": c.Query("next")})
}

// Login authenticates a user and establishes a server-side session.
// @Summary     Login
// @Description Authenticate with username or email and password
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "Credentials"
// @Success     303 "Redirect to the requested page"
// @Failure     401 {object} map[string]string "Invalid credentials"
// @Router      /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		respondWithResponse(c, apperrors.WithMessage(apperrors.ErrInvalidInput, bindingMessage(err)))
		return
	}

	user, err := h.userService.Authenticate(req.Username, req.Password)
	if err != nil {
		// Collapse not-found and bad-password into one message.
		respondWithResponse(c, apperrors.ErrInvalidCredentials)
		return
	}

	session, err := h.sessionService.Create(user.ID)
	if err != nil {
		respondWithResponse(c, err)
		return
	}

	c.SetCookie(middleware.SessionCookie, session.ID, 0, "/", "", false, true)
	h.auditService.Log(user.ID, "LOGIN", "user", user.ID, c.ClientIP(), nil)

	// Send the user back to the page they were trying to reach. Only
	// same-site paths are honored; "//host" is scheme-relative and would
	// leave the site just like an absolute URL.
	next := c.Query("next")
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		next = "/"
	}
	c.Redirect(http.StatusSeeOther, next)
}

// Logout clears the session state unconditionally.
// @Summary     Logout
// @Tags        auth
// @Success     303 "Redirect to home"
// @Router      /logout [get]
func (h *AuthHandler) Logout(c *gin.Context) {
	if sid, err := c.Cookie(middleware.SessionCookie); err == nil && sid != "" {
		_ = h.sessionService.Delete(sid)
	}
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/")
}
