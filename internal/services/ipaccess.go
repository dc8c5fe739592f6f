package services

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/eben2468/srcwebsite-sub006/internal/models"
)

// IP entry types
const (
	IPTypeWhitelist = "whitelist"
	IPTypeBlacklist = "blacklist"
)

var (
	ErrInvalidIP       = errors.New("invalid IP address or CIDR range")
	ErrIPEntryNotFound = errors.New("IP access entry not found")
)

// IPAccessService answers the allow/deny question consulted before any
// credential check. Entries expire by timestamp comparison at read time;
// expired rows stay in the table until an admin removes them.
type IPAccessService struct {
	settings    *SettingsService
	securityLog *SecurityLogService
}

func NewIPAccessService(settings *SettingsService, securityLog *SecurityLogService) *IPAccessService {
	return &IPAccessService{settings: settings, securityLog: securityLog}
}

// CheckIP reports whether the address may proceed. A matching non-expired
// blacklist entry denies; with whitelist mode on, absence of a matching
// whitelist entry denies too.
func (s *IPAccessService) CheckIP(ip string) (bool, error) {
	addr := net.ParseIP(ip)
	if addr == nil {
		// Unparseable remote address; fail closed.
		return false, ErrInvalidIP
	}

	var entries []models.IPAccessEntry
	if err := models.DB.Where("is_active = ?", true).Find(&entries).Error; err != nil {
		return false, err
	}

	now := time.Now()
	whitelisted := false
	for _, entry := range entries {
		if entry.ExpiresAt != nil && entry.ExpiresAt.Before(now) {
			continue
		}
		if !entryMatches(entry.IPAddress, addr) {
			continue
		}
		if entry.Type == IPTypeBlacklist {
			return false, nil
		}
		if entry.Type == IPTypeWhitelist {
			whitelisted = true
		}
	}

	if s.settings.GetBool(SettingEnableIPWhitelist, false) && !whitelisted {
		return false, nil
	}
	return true, nil
}

// entryMatches checks a single address or CIDR range against addr.
func entryMatches(pattern string, addr net.IP) bool {
	if _, network, err := net.ParseCIDR(pattern); err == nil {
		return network.Contains(addr)
	}
	if single := net.ParseIP(pattern); single != nil {
		return single.Equal(addr)
	}
	return false
}

// Add creates an allow/deny entry after validating the syntax.
func (s *IPAccessService) Add(ipAddress, entryType, reason string, createdBy uint, expiresAt *time.Time) (*models.IPAccessEntry, error) {
	if entryType != IPTypeWhitelist && entryType != IPTypeBlacklist {
		return nil, fmt.Errorf("invalid entry type: %s", entryType)
	}
	if net.ParseIP(ipAddress) == nil {
		if _, _, err := net.ParseCIDR(ipAddress); err != nil {
			return nil, ErrInvalidIP
		}
	}

	entry := models.IPAccessEntry{
		IPAddress: ipAddress,
		Type:      entryType,
		Reason:    reason,
		CreatedBy: createdBy,
		ExpiresAt: expiresAt,
		IsActive:  true,
	}
	if err := models.DB.Create(&entry).Error; err != nil {
		return nil, err
	}

	s.securityLog.Record(&createdBy, EventIPControlAdded,
		fmt.Sprintf("%s entry added for %s: %s", entryType, ipAddress, reason), "", SeverityMedium)
	return &entry, nil
}

// Remove deactivates an entry rather than deleting it, keeping the audit
// trail intact.
func (s *IPAccessService) Remove(id uint, removedBy uint) error {
	var entry models.IPAccessEntry
	if err := models.DB.First(&entry, id).Error; err != nil {
		return ErrIPEntryNotFound
	}

	entry.IsActive = false
	if err := models.DB.Save(&entry).Error; err != nil {
		return err
	}

	s.securityLog.Record(&removedBy, EventIPControlRemoved,
		fmt.Sprintf("%s entry removed for %s", entry.Type, entry.IPAddress), "", SeverityMedium)
	return nil
}

// List returns active entries, newest first.
func (s *IPAccessService) List() ([]models.IPAccessEntry, error) {
	var entries []models.IPAccessEntry
	if err := models.DB.Where("is_active = ?", true).Order("created_at DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
