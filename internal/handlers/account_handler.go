package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "pennywise/internal/errors"
	"pennywise/internal/middleware"
	"pennywise/internal/services"
)

// AccountHandler handles the authenticated user's own account.
type AccountHandler struct {
	userService    services.UserServicer
	sessionService services.SessionServicer
	auditService   services.AuditServicer
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(userService services.UserServicer, sessionService services.SessionServicer, auditService services.AuditServicer) *AccountHandler {
	return &AccountHandler{
		userService:    userService,
		sessionService: sessionService,
		auditService:   auditService,
	}
}

// ChangePasswordRequest represents the change-password payload.
type ChangePasswordRequest struct {
	OldPassword     string `json:"old" form:"old" binding:"required"`
	NewPassword     string `json:"new" form:"new" binding:"required"`
	ConfirmPassword string `json:"confirmation" form:"confirmation" binding:"required"`
}

// DeleteAccountRequest represents the delete-account payload.
type DeleteAccountRequest struct {
	Password string `json:"password" form:"password" binding:"required"`
}

// GetAccount returns the current user.
// @Summary     Get current account
// @Tags        account
// @Produce     json
// @Success     200 {object} map[string]interface{} "Current user"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /account [get]
func (h *AccountHandler) GetAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
	})
}

// ChangePassword overwrites the user's password hash.
// @Summary     Change password
// @Tags        account
// @Accept      json
// @Produce     json
// @Param       request body ChangePasswordRequest true "Old and new passwords"
// @Success     200 {object} MessageResponse "Password changed"
// @Failure     400 {object} map[string]string "Validation failure"
// @Failure     401 {object} map[string]string "Wrong password"
// @Router      /change-password [post]
func (h *AccountHandler) ChangePassword(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		respondWithResponse(c, apperrors.WithMessage(apperrors.ErrInvalidInput, bindingMessage(err)))
		return
	}

	if err := h.userService.ChangePassword(userID, req.OldPassword, req.NewPassword, req.ConfirmPassword); err != nil {
		respondWithResponse(c, err)
		return
	}

	h.auditService.Log(userID, "CHANGE_PASSWORD", "user", userID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// DeleteAccount deletes the user and everything it owns, then invalidates
// the session.
// @Summary     Delete account
// @Tags        account
// @Accept      json
// @Produce     json
// @Param       request body DeleteAccountRequest true "Password confirmation"
// @Success     303 "Redirect to login"
// @Failure     401 {object} map[string]string "Wrong password"
// @Router      /delete-account [post]
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req DeleteAccountRequest
	if err := c.ShouldBind(&req); err != nil {
		respondWithResponse(c, apperrors.WithMessage(apperrors.ErrInvalidInput, bindingMessage(err)))
		return
	}

	if err := h.userService.DeleteAccount(userID, req.Password); err != nil {
		respondWithResponse(c, err)
		return
	}

	// Sessions cascade with the user row; the cookie is all that's left.
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)

	c.Redirect(http.StatusSeeOther, "/login")
}
