package models

import (
	"time"
)

type LoginAttempt struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Email         string    `json:"email" gorm:"type:varchar(255);not null;index"`
	IPAddress     string    `json:"ip_address" gorm:"type:varchar(45)"`
	Success       bool      `json:"success" gorm:"index"`
	FailureReason string    `json:"failure_reason,omitempty" gorm:"type:varchar(100)"`
	AttemptedAt   time.Time `json:"attempted_at" gorm:"index"`
}

// AccountLockout is one lock of an email. At most one row per email should be
// active at a time; this is an application-layer convention, not a schema
// constraint, and readers must also compare UnlockAt against the clock since a
// lapsed lock keeps IsActive=true until someone touches it.
type AccountLockout struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Email        string     `json:"email" gorm:"type:varchar(255);not null;index"`
	UserID       *uint      `json:"user_id,omitempty" gorm:"index"`
	IPAddress    string     `json:"ip_address" gorm:"type:varchar(45)"`
	Reason       string     `json:"reason" gorm:"type:varchar(50);not null"` // failed_attempts, suspicious_activity, admin_action
	LockedAt     time.Time  `json:"locked_at"`
	UnlockAt     *time.Time `json:"unlock_at,omitempty"` // nil = indefinite, manual unlock only
	IsActive     bool       `json:"is_active" gorm:"default:true;index"`
	UnlockedBy   *uint      `json:"unlocked_by,omitempty"`
	UnlockReason string     `json:"unlock_reason,omitempty" gorm:"type:varchar(255)"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type IPAccessEntry struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	IPAddress string     `json:"ip_address" gorm:"type:varchar(64);not null;index"` // single address or CIDR range
	Type      string     `json:"type" gorm:"type:varchar(20);not null"`             // whitelist, blacklist
	Reason    string     `json:"reason" gorm:"type:varchar(255)"`
	CreatedBy uint       `json:"created_by"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"` // nil = permanent
	IsActive  bool       `json:"is_active" gorm:"default:true;index"`
	CreatedAt time.Time  `json:"created_at"`
}

type PasswordResetToken struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Token     string    `json:"-" gorm:"type:varchar(128);uniqueIndex;not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	Used      bool      `json:"used" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
	User      User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// SecurityLog is append-only; nothing in the application updates or deletes
// rows once written.
type SecurityLog struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      *uint     `json:"user_id,omitempty" gorm:"index"`
	EventType   string    `json:"event_type" gorm:"type:varchar(64);not null;index"`
	Description string    `json:"description" gorm:"type:text"`
	IPAddress   string    `json:"ip_address" gorm:"type:varchar(45)"`
	Severity    string    `json:"severity" gorm:"type:varchar(20);default:'low';index"` // low, medium, high, critical
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
	User        *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

type SecuritySetting struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Key       string    `json:"key" gorm:"type:varchar(100);uniqueIndex;not null"`
	Value     string    `json:"value" gorm:"type:varchar(255);not null"`
	Type      string    `json:"type" gorm:"type:varchar(20);default:'string'"` // string, int, bool
	UpdatedBy *uint     `json:"updated_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
