package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/eben2468/srcwebsite-sub006/internal/models"

	"gorm.io/gorm"
)

// Lockout reasons
const (
	LockReasonFailedAttempts     = "failed_attempts"
	LockReasonSuspiciousActivity = "suspicious_activity"
	LockReasonAdminAction        = "admin_action"
)

var ErrAccountLocked = errors.New("account is locked")

// LockoutService derives the locked/unlocked state of an email from the
// account_lockouts table. A row counts as locking only while IsActive is true
// AND UnlockAt is nil or in the future; a lapsed row is treated as unlocked
// without being rewritten.
type LockoutService struct {
	securityLog *SecurityLogService
}

func NewLockoutService(securityLog *SecurityLogService) *LockoutService {
	return &LockoutService{securityLog: securityLog}
}

// ActiveLockout returns the lockout currently in force for the email, or nil.
func (s *LockoutService) ActiveLockout(email string) (*models.AccountLockout, error) {
	var lockout models.AccountLockout
	err := models.DB.
		Where("email = ? AND is_active = ?", email, true).
		Order("locked_at DESC").
		First(&lockout).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if lockout.UnlockAt != nil && lockout.UnlockAt.Before(time.Now()) {
		// Lapsed; unlocked without touching the row.
		return nil, nil
	}
	return &lockout, nil
}

// Lock places a lockout on the email. If one is already in force this is a
// no-op returning the existing row; the check-then-insert can race between
// two requests, but a duplicate row is benign since readers only look at the
// newest active one.
func (s *LockoutService) Lock(email, ip, reason string, userID *uint, unlockAt *time.Time) (*models.AccountLockout, error) {
	existing, err := s.ActiveLockout(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	lockout := models.AccountLockout{
		Email:     email,
		UserID:    userID,
		IPAddress: ip,
		Reason:    reason,
		LockedAt:  time.Now(),
		UnlockAt:  unlockAt,
		IsActive:  true,
	}
	if err := models.DB.Create(&lockout).Error; err != nil {
		return nil, err
	}

	s.securityLog.Record(userID, EventAccountLocked,
		fmt.Sprintf("account %s locked (%s)", email, reason), ip, SeverityHigh)
	return &lockout, nil
}

// Unlock clears every active lockout for the email. Unlocking an already
// unlocked account succeeds with zero rows affected.
func (s *LockoutService) Unlock(email string, unlockedBy uint, unlockReason string) (int64, error) {
	res := models.DB.Model(&models.AccountLockout{}).
		Where("email = ? AND is_active = ?", email, true).
		Updates(map[string]interface{}{
			"is_active":     false,
			"unlocked_by":   unlockedBy,
			"unlock_reason": unlockReason,
		})
	if res.Error != nil {
		return 0, res.Error
	}

	if res.RowsAffected > 0 {
		s.securityLog.Record(&unlockedBy, EventAccountUnlocked,
			fmt.Sprintf("account %s unlocked: %s", email, unlockReason), "", SeverityMedium)
	}
	return res.RowsAffected, nil
}

// UnlockAll clears every active lockout in the system and returns the number
// of rows actually updated.
func (s *LockoutService) UnlockAll(unlockedBy uint, unlockReason string) (int64, error) {
	res := models.DB.Model(&models.AccountLockout{}).
		Where("is_active = ?", true).
		Updates(map[string]interface{}{
			"is_active":     false,
			"unlocked_by":   unlockedBy,
			"unlock_reason": unlockReason,
		})
	if res.Error != nil {
		return 0, res.Error
	}

	if res.RowsAffected > 0 {
		s.securityLog.Record(&unlockedBy, EventAccountUnlocked,
			fmt.Sprintf("bulk unlock of %d accounts: %s", res.RowsAffected, unlockReason), "", SeverityMedium)
	}
	return res.RowsAffected, nil
}

// ListActive returns the lockouts currently in force, for the admin page.
func (s *LockoutService) ListActive() ([]models.AccountLockout, error) {
	var lockouts []models.AccountLockout
	err := models.DB.
		Where("is_active = ? AND (unlock_at IS NULL OR unlock_at > ?)", true, time.Now()).
		Order("locked_at DESC").
		Find(&lockouts).Error
	if err != nil {
		return nil, err
	}
	return lockouts, nil
}
