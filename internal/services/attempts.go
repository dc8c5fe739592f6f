package services

import (
	"time"

	"github.com/eben2468/srcwebsite-sub006/internal/models"
)

// resetWindow bounds the admin "reset failed attempts" action: only failures
// newer than this are deleted, so older history stays intact for audits.
const resetWindow = 24 * time.Hour

// LoginAttemptService is the append-only attempt tracker.
type LoginAttemptService struct{}

func NewLoginAttemptService() *LoginAttemptService {
	return &LoginAttemptService{}
}

// Record appends one attempt. failureReason is empty on success.
func (s *LoginAttemptService) Record(email, ip string, success bool, failureReason string) error {
	attempt := models.LoginAttempt{
		Email:         email,
		IPAddress:     ip,
		Success:       success,
		FailureReason: failureReason,
		AttemptedAt:   time.Now(),
	}
	return models.DB.Create(&attempt).Error
}

// FailureCount returns how many consecutive failed attempts the email accrued
// within the trailing window. A successful login resets the count: failures
// older than the most recent success are history, not strikes.
func (s *LoginAttemptService) FailureCount(email string, window time.Duration) (int64, error) {
	since := time.Now().Add(-window)

	var lastSuccess models.LoginAttempt
	err := models.DB.
		Where("email = ? AND success = ?", email, true).
		Order("attempted_at DESC").
		First(&lastSuccess).Error
	if err == nil && lastSuccess.AttemptedAt.After(since) {
		since = lastSuccess.AttemptedAt
	}

	var count int64
	err = models.DB.Model(&models.LoginAttempt{}).
		Where("email = ? AND success = ? AND attempted_at > ?", email, false, since).
		Count(&count).Error
	return count, err
}

// ResetFailures deletes recent failed attempts for the email. Successful
// attempts and anything older than the reset window are untouched.
func (s *LoginAttemptService) ResetFailures(email string) (int64, error) {
	res := models.DB.
		Where("email = ? AND success = ? AND attempted_at > ?", email, false, time.Now().Add(-resetWindow)).
		Delete(&models.LoginAttempt{})
	return res.RowsAffected, res.Error
}

// RecentAttempts lists the newest attempts for the admin security page.
func (s *LoginAttemptService) RecentAttempts(limit int) ([]models.LoginAttempt, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var attempts []models.LoginAttempt
	if err := models.DB.Order("attempted_at DESC").Limit(limit).Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}
