package models

import (
	"time"

	"gorm.io/gorm"
)

// ShareLink is a time-bounded, token-addressed invitation to join a group.
// A group accumulates link rows over time; expired rows are purged the next
// time a link is generated for the group, never reused. The unique index on
// Token is the lookup path for resolution, so resolving a token never scans
// a group's link list.
type ShareLink struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Token       string         `gorm:"uniqueIndex;not null" json:"token"`
	GroupID     uint           `gorm:"not null;index" json:"group_id"`
	CreatedByID uint           `gorm:"not null" json:"created_by_id"`
	ExpiresAt   time.Time      `gorm:"not null" json:"expires_at"`

	// Relationships
	Group     Group `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	CreatedBy User  `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
}

// Expired reports whether the link is past its expiry at the given instant
func (l *ShareLink) Expired(now time.Time) bool {
	return !l.ExpiresAt.After(now)
}
