package services

import (
	"errors"
	"strconv"
	"time"

	"github.com/eben2468/srcwebsite-sub006/internal/config"
	"github.com/eben2468/srcwebsite-sub006/internal/models"

	"gorm.io/gorm"
)

// Security setting keys. Every tunable the security subsystem reads lives in
// the security_settings table under one of these.
const (
	SettingMaxLoginAttempts       = "max_login_attempts"
	SettingAttemptWindowMinutes   = "attempt_window_minutes"
	SettingLockoutDurationMinutes = "account_lockout_duration"
	SettingSessionTimeoutMinutes  = "session_timeout_minutes"
	SettingMaxConcurrentSessions  = "max_concurrent_sessions"
	SettingEnableIPWhitelist      = "enable_ip_whitelist"
	SettingPasswordMinLength      = "password_min_length"
)

var ErrSettingNotFound = errors.New("setting not found")

type SettingsService struct {
	cfg *config.Config
}

func NewSettingsService(cfg *config.Config) *SettingsService {
	return &SettingsService{cfg: cfg}
}

// SeedDefaults writes the config defaults for any setting that has no row
// yet. Existing rows are left alone so runtime edits survive restarts.
func (s *SettingsService) SeedDefaults() error {
	defaults := []models.SecuritySetting{
		{Key: SettingMaxLoginAttempts, Value: strconv.Itoa(s.cfg.Security.MaxLoginAttempts), Type: "int"},
		{Key: SettingAttemptWindowMinutes, Value: strconv.Itoa(s.cfg.Security.AttemptWindowMinutes), Type: "int"},
		{Key: SettingLockoutDurationMinutes, Value: strconv.Itoa(s.cfg.Security.LockoutDurationMinutes), Type: "int"},
		{Key: SettingSessionTimeoutMinutes, Value: strconv.Itoa(s.cfg.Security.SessionTimeoutMinutes), Type: "int"},
		{Key: SettingMaxConcurrentSessions, Value: strconv.Itoa(s.cfg.Security.MaxConcurrentSessions), Type: "int"},
		{Key: SettingEnableIPWhitelist, Value: strconv.FormatBool(s.cfg.Security.EnableIPWhitelist), Type: "bool"},
		{Key: SettingPasswordMinLength, Value: strconv.Itoa(s.cfg.Security.PasswordMinLength), Type: "int"},
	}

	for _, def := range defaults {
		var existing models.SecuritySetting
		err := models.DB.Where("key = ?", def.Key).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := models.DB.Create(&def).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}
	return nil
}

// GetInt returns the stored integer for key, or fallback when the row is
// missing or malformed.
func (s *SettingsService) GetInt(key string, fallback int) int {
	var setting models.SecuritySetting
	if err := models.DB.Where("key = ?", key).First(&setting).Error; err != nil {
		return fallback
	}
	v, err := strconv.Atoi(setting.Value)
	if err != nil {
		return fallback
	}
	return v
}

func (s *SettingsService) GetBool(key string, fallback bool) bool {
	var setting models.SecuritySetting
	if err := models.DB.Where("key = ?", key).First(&setting).Error; err != nil {
		return fallback
	}
	v, err := strconv.ParseBool(setting.Value)
	if err != nil {
		return fallback
	}
	return v
}

// GetDuration reads a minutes-valued setting as a duration.
func (s *SettingsService) GetDuration(key string, fallbackMinutes int) time.Duration {
	return time.Duration(s.GetInt(key, fallbackMinutes)) * time.Minute
}

// GetAll returns every stored setting, for the admin settings page.
func (s *SettingsService) GetAll() ([]models.SecuritySetting, error) {
	var settings []models.SecuritySetting
	if err := models.DB.Order("key").Find(&settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

// Set updates an existing setting. Unknown keys are rejected rather than
// created, so a typoed admin request cannot grow the table.
func (s *SettingsService) Set(key, value string, updatedBy uint) error {
	var setting models.SecuritySetting
	if err := models.DB.Where("key = ?", key).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSettingNotFound
		}
		return err
	}

	switch setting.Type {
	case "int":
		if _, err := strconv.Atoi(value); err != nil {
			return ErrInvalidSettingValue
		}
	case "bool":
		if _, err := strconv.ParseBool(value); err != nil {
			return ErrInvalidSettingValue
		}
	}

	setting.Value = value
	setting.UpdatedBy = &updatedBy
	return models.DB.Save(&setting).Error
}

var ErrInvalidSettingValue = errors.New("invalid setting value")
