package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/eben2468/srcwebsite-sub006/internal/services"

	"github.com/gin-gonic/gin"
)

// SecurityHandler serves the admin-only security operations. Every route
// behind it already passed RequireAdmin, so the handlers only do the work and
// the audit writes.
type SecurityHandler struct {
	authService *services.AuthService
	attempts    *services.LoginAttemptService
	lockouts    *services.LockoutService
	ipAccess    *services.IPAccessService
	settings    *services.SettingsService
	securityLog *services.SecurityLogService
}

func NewSecurityHandler(authService *services.AuthService, attempts *services.LoginAttemptService,
	lockouts *services.LockoutService, ipAccess *services.IPAccessService,
	settings *services.SettingsService, securityLog *services.SecurityLogService) *SecurityHandler {
	return &SecurityHandler{
		authService: authService,
		attempts:    attempts,
		lockouts:    lockouts,
		ipAccess:    ipAccess,
		settings:    settings,
		securityLog: securityLog,
	}
}

func actingUserID(c *gin.Context) uint {
	if id, exists := c.Get("user_id"); exists {
		return id.(uint)
	}
	return 0
}

type UnlockAccountRequest struct {
	Email  string `json:"email" binding:"required,email"`
	Reason string `json:"reason"`
}

// UnlockAccount clears any active lockout for an email. Unlocking an
// unlocked account still reports success.
func (h *SecurityHandler) UnlockAccount(c *gin.Context) {
	var req UnlockAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "A valid email is required"})
		return
	}

	reason := req.Reason
	if reason == "" {
		reason = "manual unlock"
	}

	count, err := h.lockouts.Unlock(req.Email, actingUserID(c), reason)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to unlock account"})
		return
	}

	c.JSON(200, gin.H{"success": true, "message": fmt.Sprintf("Unlocked %d lockout(s) for %s", count, req.Email)})
}

// UnlockAll clears every active lockout and reports the affected row count.
func (h *SecurityHandler) UnlockAll(c *gin.Context) {
	count, err := h.lockouts.UnlockAll(actingUserID(c), "bulk unlock")
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to unlock accounts"})
		return
	}

	c.JSON(200, gin.H{"success": true, "message": fmt.Sprintf("Unlocked %d account(s)", count)})
}

// GetLockouts lists the lockouts currently in force.
func (h *SecurityHandler) GetLockouts(c *gin.Context) {
	lockouts, err := h.lockouts.ListActive()
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to load lockouts"})
		return
	}

	c.JSON(200, gin.H{"success": true, "lockouts": lockouts})
}

type ResetAttemptsRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetFailedAttempts deletes the recent failed attempts for an email.
func (h *SecurityHandler) ResetFailedAttempts(c *gin.Context) {
	var req ResetAttemptsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "A valid email is required"})
		return
	}

	count, err := h.attempts.ResetFailures(req.Email)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to reset attempts"})
		return
	}

	acting := actingUserID(c)
	h.securityLog.Record(&acting, services.EventAttemptsReset,
		fmt.Sprintf("failed attempts reset for %s (%d removed)", req.Email, count), c.ClientIP(), services.SeverityMedium)

	c.JSON(200, gin.H{"success": true, "message": fmt.Sprintf("Removed %d failed attempt(s)", count)})
}

// GetLoginAttempts lists recent attempts for the security page.
func (h *SecurityHandler) GetLoginAttempts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	attempts, err := h.attempts.RecentAttempts(limit)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to load attempts"})
		return
	}

	c.JSON(200, gin.H{"success": true, "attempts": attempts})
}

type AddIPControlRequest struct {
	IPAddress     string `json:"ip_address" binding:"required"`
	Type          string `json:"type" binding:"required,oneof=whitelist blacklist"`
	Reason        string `json:"reason"`
	ExpiresInMins int    `json:"expires_in_minutes"`
}

// AddIPControl creates an allow/deny entry.
func (h *SecurityHandler) AddIPControl(c *gin.Context) {
	var req AddIPControlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "IP address and type are required"})
		return
	}

	var expiresAt *time.Time
	if req.ExpiresInMins > 0 {
		t := time.Now().Add(time.Duration(req.ExpiresInMins) * time.Minute)
		expiresAt = &t
	}

	entry, err := h.ipAccess.Add(req.IPAddress, req.Type, req.Reason, actingUserID(c), expiresAt)
	if err != nil {
		if errors.Is(err, services.ErrInvalidIP) {
			c.JSON(400, gin.H{"success": false, "message": "Invalid IP address or CIDR range"})
			return
		}
		c.JSON(500, gin.H{"success": false, "message": "Failed to add IP control"})
		return
	}

	c.JSON(201, gin.H{"success": true, "message": "IP control added", "entry": entry})
}

// RemoveIPControl deactivates an entry by id.
func (h *SecurityHandler) RemoveIPControl(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid entry ID"})
		return
	}

	if err := h.ipAccess.Remove(uint(id), actingUserID(c)); err != nil {
		if errors.Is(err, services.ErrIPEntryNotFound) {
			c.JSON(404, gin.H{"success": false, "message": "IP access entry not found"})
			return
		}
		c.JSON(500, gin.H{"success": false, "message": "Failed to remove IP control"})
		return
	}

	c.JSON(200, gin.H{"success": true, "message": "IP control removed"})
}

// GetIPControls lists active entries.
func (h *SecurityHandler) GetIPControls(c *gin.Context) {
	entries, err := h.ipAccess.List()
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to load IP controls"})
		return
	}

	c.JSON(200, gin.H{"success": true, "entries": entries})
}

// ForceLogout deactivates every session of a user.
func (h *SecurityHandler) ForceLogout(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid user ID"})
		return
	}

	count, err := h.authService.InvalidateAll(uint(id))
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to log user out"})
		return
	}

	acting := actingUserID(c)
	target := uint(id)
	h.securityLog.Record(&acting, services.EventForceLogout,
		fmt.Sprintf("forced logout of user #%d (%d sessions)", target, count), c.ClientIP(), services.SeverityMedium)

	c.JSON(200, gin.H{"success": true, "message": fmt.Sprintf("Deactivated %d session(s)", count)})
}

// CleanExpiredSessions bulk-deactivates expired sessions.
func (h *SecurityHandler) CleanExpiredSessions(c *gin.Context) {
	count, err := h.authService.CleanExpiredSessions()
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to clean sessions"})
		return
	}

	acting := actingUserID(c)
	h.securityLog.Record(&acting, services.EventSessionsCleaned,
		fmt.Sprintf("cleaned %d expired session(s)", count), c.ClientIP(), services.SeverityLow)

	c.JSON(200, gin.H{"success": true, "message": fmt.Sprintf("Cleaned %d expired session(s)", count)})
}

// GetSecurityLogs lists recent security events.
func (h *SecurityHandler) GetSecurityLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	entries, err := h.securityLog.List(limit)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to load security logs"})
		return
	}

	c.JSON(200, gin.H{"success": true, "logs": entries})
}

// ExportSecurityLogs streams the last N days of the security log as CSV.
func (h *SecurityHandler) ExportSecurityLogs(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=security-logs-%s.csv", time.Now().Format("2006-01-02")))

	if err := h.securityLog.ExportCSV(c.Writer, days); err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to export security logs"})
		return
	}
}

// GetSettings returns the stored security settings.
func (h *SecurityHandler) GetSettings(c *gin.Context) {
	settings, err := h.settings.GetAll()
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to load settings"})
		return
	}

	c.JSON(200, gin.H{"success": true, "settings": settings})
}

type UpdateSettingRequest struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value" binding:"required"`
}

// UpdateSetting changes one tunable and records who did it.
func (h *SecurityHandler) UpdateSetting(c *gin.Context) {
	var req UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Key and value are required"})
		return
	}

	acting := actingUserID(c)
	if err := h.settings.Set(req.Key, req.Value, acting); err != nil {
		switch {
		case errors.Is(err, services.ErrSettingNotFound):
			c.JSON(404, gin.H{"success": false, "message": "Unknown setting"})
		case errors.Is(err, services.ErrInvalidSettingValue):
			c.JSON(400, gin.H{"success": false, "message": "Invalid value for setting"})
		default:
			c.JSON(500, gin.H{"success": false, "message": "Failed to update setting"})
		}
		return
	}

	h.securityLog.Record(&acting, services.EventSettingChanged,
		fmt.Sprintf("setting %s changed to %s", req.Key, req.Value), c.ClientIP(), services.SeverityMedium)

	c.JSON(200, gin.H{"success": true, "message": "Setting updated"})
}
