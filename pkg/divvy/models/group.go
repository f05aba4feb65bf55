package models

import (
	"time"

	"gorm.io/gorm"
)

// ApprovalPolicy determines whether a user joining via share link becomes
// active immediately or waits for a group admin to approve them
type ApprovalPolicy string

const (
	ApprovalPolicyAutomatic     ApprovalPolicy = "automatic"
	ApprovalPolicyAdminRequired ApprovalPolicy = "admin_required"
)

// Group represents a shared-finance group
type Group struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	Name           string         `gorm:"not null" json:"name"`
	CreatedByID    uint           `gorm:"not null" json:"created_by_id"`
	ApprovalPolicy ApprovalPolicy `gorm:"type:varchar(20);default:'automatic'" json:"approval_policy"`
	Currency       string         `gorm:"type:varchar(3);default:'USD'" json:"currency"`

	// Relationships
	Members    []GroupMembership `gorm:"foreignKey:GroupID" json:"members,omitempty"`
	ShareLinks []ShareLink       `gorm:"foreignKey:GroupID" json:"share_links,omitempty"`
	CreatedBy  User              `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
}
