package handlers

import (
	"errors"
	"strconv"

	"github.com/eben2468/srcwebsite-sub006/internal/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *services.UserService
	authService *services.AuthService
}

func NewUserHandler(userService *services.UserService, authService *services.AuthService) *UserHandler {
	return &UserHandler{userService: userService, authService: authService}
}

type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

type UpdateUserRequest struct {
	Name   string `json:"name" binding:"required"`
	Role   string `json:"role" binding:"required"`
	Status string `json:"status" binding:"required,oneof=active suspended"`
}

type SetPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

// GetUsers returns all users
func (h *UserHandler) GetUsers(c *gin.Context) {
	users, err := h.userService.GetUsers()
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to get users"})
		return
	}

	c.JSON(200, gin.H{"success": true, "users": users})
}

// GetUser returns a specific user
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid user ID"})
		return
	}

	user, err := h.userService.GetUser(uint(id))
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(404, gin.H{"success": false, "message": "User not found"})
			return
		}
		c.JSON(500, gin.H{"success": false, "message": "Failed to get user"})
		return
	}

	c.JSON(200, gin.H{"success": true, "user": user})
}

// CreateUser creates a new user
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Email, name, password, and role are required"})
		return
	}

	user, err := h.userService.CreateUser(req.Email, req.Name, req.Password, req.Role, actingUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserExists):
			c.JSON(409, gin.H{"success": false, "message": "A user with that email already exists"})
		case errors.Is(err, services.ErrInvalidRole):
			c.JSON(400, gin.H{"success": false, "message": "Invalid role"})
		case errors.Is(err, services.ErrPasswordTooShort):
			c.JSON(400, gin.H{"success": false, "message": "Password is too short"})
		default:
			c.JSON(500, gin.H{"success": false, "message": "Failed to create user"})
		}
		return
	}

	c.JSON(201, gin.H{"success": true, "user": user})
}

// UpdateUser updates a user
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid user ID"})
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Name, role, and status are required"})
		return
	}

	user, err := h.userService.UpdateUser(uint(id), req.Name, req.Role, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			c.JSON(404, gin.H{"success": false, "message": "User not found"})
		case errors.Is(err, services.ErrInvalidRole):
			c.JSON(400, gin.H{"success": false, "message": "Invalid role"})
		default:
			c.JSON(500, gin.H{"success": false, "message": "Failed to update user"})
		}
		return
	}

	c.JSON(200, gin.H{"success": true, "user": user})
}

// SetPassword sets a user's password from the admin side; the account must
// change it on next login.
func (h *UserHandler) SetPassword(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid user ID"})
		return
	}

	var req SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Password is required"})
		return
	}

	if err := h.userService.SetPassword(uint(id), req.Password); err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			c.JSON(404, gin.H{"success": false, "message": "User not found"})
		case errors.Is(err, services.ErrPasswordTooShort):
			c.JSON(400, gin.H{"success": false, "message": "Password is too short"})
		default:
			c.JSON(500, gin.H{"success": false, "message": "Failed to set password"})
		}
		return
	}

	c.JSON(200, gin.H{"success": true, "message": "Password updated; user must change it at next login"})
}

// DeleteUser deletes a user (never yourself)
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid user ID"})
		return
	}

	if err := h.userService.DeleteUser(uint(id), actingUserID(c)); err != nil {
		switch {
		case errors.Is(err, services.ErrSelfDelete):
			c.JSON(400, gin.H{"success": false, "message": "You cannot delete your own account"})
		case errors.Is(err, services.ErrUserNotFound):
			c.JSON(404, gin.H{"success": false, "message": "User not found"})
		default:
			c.JSON(500, gin.H{"success": false, "message": "Failed to delete user"})
		}
		return
	}

	c.JSON(200, gin.H{"success": true, "message": "User deleted successfully"})
}

// GetSessions returns the current user's active sessions
func (h *UserHandler) GetSessions(c *gin.Context) {
	sessions, err := h.authService.ActiveSessions(actingUserID(c))
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to get sessions"})
		return
	}

	c.JSON(200, gin.H{"success": true, "sessions": sessions})
}
