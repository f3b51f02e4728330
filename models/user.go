package models

import (
	"time"

	"gorm.io/gorm"
)

// Roles a user account can hold.
const (
	RoleAgent   = "agent"
	RoleManager = "manager"
)

// User represents an account in the system: a field agent logging visits
// or a manager reading the dashboard.
type User struct {
	gorm.Model

	// Authentication fields
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	TokenVersion int    `gorm:"default:0" json:"-"` // bumped to invalidate outstanding tokens

	// Profile information
	Name     *string `json:"name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Timezone string  `gorm:"default:'UTC'" json:"timezone"`

	// Territory assignment
	Region string `json:"region"`

	// Account status
	Role     string `gorm:"default:'agent'" json:"role"` // agent, manager
	IsActive bool   `gorm:"default:true" json:"is_active"`

	// Relations
	Visits        []Visit        `gorm:"foreignKey:UserID" json:"visits,omitempty"`
	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID" json:"-"`
}

// IsManager reports whether the account may read other agents' data.
func (u *User) IsManager() bool {
	return u.Role == RoleManager
}

// RefreshToken stores an issued refresh token so sessions can be revoked.
type RefreshToken struct {
	gorm.Model
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	TokenHash string    `gorm:"not null;index" json:"-"`
	UserAgent string    `json:"user_agent"`
	IP        string    `json:"ip"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}
