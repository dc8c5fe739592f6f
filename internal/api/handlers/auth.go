package handlers

import (
	"errors"

	"github.com/eben2468/srcwebsite-sub006/internal/models"
	"github.com/eben2468/srcwebsite-sub006/internal/rbac"
	"github.com/eben2468/srcwebsite-sub006/internal/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService  *services.AuthService
	resetService *services.PasswordResetService
	securityLog  *services.SecurityLogService
}

func NewAuthHandler(authService *services.AuthService, resetService *services.PasswordResetService,
	securityLog *services.SecurityLogService) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		resetService: resetService,
		securityLog:  securityLog,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Success                bool         `json:"success"`
	Token                  string       `json:"token"`
	User                   *models.User `json:"user"`
	AdminInterface         bool         `json:"admin_interface"`
	PasswordChangeRequired bool         `json:"password_change_required"`
}

// Login handles user login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Email and password are required"})
		return
	}

	session, user, err := h.authService.Authenticate(req.Email, req.Password, c.ClientIP(), c.GetHeader("User-Agent"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAccountLocked):
			c.JSON(423, gin.H{"success": false, "message": "Account is locked. Try again later or contact an administrator."})
		case errors.Is(err, services.ErrIPBlocked):
			c.JSON(403, gin.H{"success": false, "message": "Access denied"})
		case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrAccountSuspended):
			// One message for every credential-shaped failure.
			c.JSON(401, gin.H{"success": false, "message": "Invalid email or password"})
		default:
			c.JSON(500, gin.H{"success": false, "message": "Login failed"})
		}
		return
	}

	user.PasswordHash = ""
	c.JSON(200, LoginResponse{
		Success:                true,
		Token:                  session.Token,
		User:                   user,
		AdminInterface:         rbac.ShouldUseAdminInterface(user.Role),
		PasswordChangeRequired: user.IsDefaultPassword,
	})
}

// Logout handles user logout
func (h *AuthHandler) Logout(c *gin.Context) {
	session, exists := c.Get("session")
	if !exists {
		c.JSON(401, gin.H{"success": false, "message": "Not authenticated"})
		return
	}

	sess := session.(*models.Session)
	if err := h.authService.Invalidate(sess.Token); err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to logout"})
		return
	}

	h.securityLog.Record(&sess.UserID, services.EventLogout, "user logged out", c.ClientIP(), services.SeverityLow)
	c.JSON(200, gin.H{"success": true, "message": "Logged out successfully"})
}

// GetMe returns current user information
func (h *AuthHandler) GetMe(c *gin.Context) {
	user, exists := c.Get("user")
	if !exists {
		c.JSON(401, gin.H{"success": false, "message": "Not authenticated"})
		return
	}

	u := user.(*models.User)
	u.PasswordHash = ""
	c.JSON(200, gin.H{
		"success":                  true,
		"user":                     u,
		"admin_interface":          rbac.ShouldUseAdminInterface(u.Role),
		"password_change_required": u.IsDefaultPassword,
	})
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// ChangePassword lets the authenticated user rotate their own password. This
// is the one route a default-password account may reach besides logout.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	user, exists := c.Get("user")
	if !exists {
		c.JSON(401, gin.H{"success": false, "message": "Not authenticated"})
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Current and new password are required"})
		return
	}

	u := user.(*models.User)
	if err := h.authService.ChangePassword(u.ID, req.CurrentPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			c.JSON(401, gin.H{"success": false, "message": "Current password is incorrect"})
		case errors.Is(err, services.ErrPasswordTooShort):
			c.JSON(400, gin.H{"success": false, "message": "New password is too short"})
		default:
			c.JSON(500, gin.H{"success": false, "message": "Failed to change password"})
		}
		return
	}

	c.JSON(200, gin.H{"success": true, "message": "Password changed successfully"})
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPassword issues a reset token. The response is identical whether or
// not the email belongs to an account.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "A valid email is required"})
		return
	}

	if err := h.resetService.RequestReset(req.Email, c.ClientIP()); err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Request failed"})
		return
	}

	c.JSON(200, gin.H{"success": true, "message": "If the email is registered, a reset link has been sent"})
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ResetPassword redeems a reset token.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Token and new password are required"})
		return
	}

	if err := h.resetService.Redeem(req.Token, req.NewPassword, c.ClientIP()); err != nil {
		switch {
		case errors.Is(err, services.ErrTokenInvalidOrExpired):
			c.JSON(400, gin.H{"success": false, "message": "Reset token is invalid or expired"})
		case errors.Is(err, services.ErrPasswordTooShort):
			c.JSON(400, gin.H{"success": false, "message": "New password is too short"})
		default:
			c.JSON(500, gin.H{"success": false, "message": "Failed to reset password"})
		}
		return
	}

	c.JSON(200, gin.H{"success": true, "message": "Password has been reset"})
}
