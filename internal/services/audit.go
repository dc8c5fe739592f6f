package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/eben2468/srcwebsite-sub006/internal/models"

	"github.com/rs/zerolog"
)

// Security event types
const (
	EventLoginSuccess      = "login_success"
	EventLoginFailed       = "login_failed"
	EventLogout            = "logout"
	EventAccountLocked     = "account_locked"
	EventAccountUnlocked   = "account_unlocked"
	EventPasswordChanged   = "password_changed"
	EventPasswordReset     = "password_reset"
	EventResetRequested    = "password_reset_requested"
	EventIPControlAdded    = "ip_control_added"
	EventIPControlRemoved  = "ip_control_removed"
	EventIPBlocked         = "ip_blocked"
	EventForceLogout       = "force_logout"
	EventSessionsCleaned   = "sessions_cleaned"
	EventAttemptsReset     = "failed_attempts_reset"
	EventSettingChanged    = "setting_changed"
	EventUserCreated       = "user_created"
	EventUserDeleted       = "user_deleted"
)

// Severities
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// SecurityLogService appends to the audit trail. Record never returns an
// error: a failed write must not abort the action that triggered it, so the
// failure goes to the process logger instead.
type SecurityLogService struct {
	log zerolog.Logger
}

func NewSecurityLogService(log zerolog.Logger) *SecurityLogService {
	return &SecurityLogService{log: log}
}

// Record appends a security event. userID is nil for anonymous actors
// (failed logins, blocked IPs).
func (s *SecurityLogService) Record(userID *uint, eventType, description, ip, severity string) {
	entry := models.SecurityLog{
		UserID:      userID,
		EventType:   eventType,
		Description: description,
		IPAddress:   ip,
		Severity:    severity,
	}
	if err := models.DB.Create(&entry).Error; err != nil {
		s.log.Error().Err(err).
			Str("event_type", eventType).
			Str("ip", ip).
			Msg("security log write failed")
	}
}

// List returns the newest events first, capped at limit.
func (s *SecurityLogService) List(limit int) ([]models.SecurityLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var entries []models.SecurityLog
	if err := models.DB.Preload("User").Order("created_at DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ExportCSV writes the last `days` of the security log as CSV.
func (s *SecurityLogService) ExportCSV(w io.Writer, days int) error {
	if days <= 0 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)

	var entries []models.SecurityLog
	if err := models.DB.Preload("User").
		Where("created_at >= ?", since).
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Date", "Time", "User", "Event Type", "Description", "IP Address", "Severity"}); err != nil {
		return err
	}

	for _, e := range entries {
		user := "system"
		if e.User != nil {
			user = e.User.Email
		} else if e.UserID != nil {
			user = fmt.Sprintf("user #%d", *e.UserID)
		}
		record := []string{
			e.CreatedAt.Format("2006-01-02"),
			e.CreatedAt.Format("15:04:05"),
			user,
			e.EventType,
			e.Description,
			e.IPAddress,
			e.Severity,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
