package models

import (
	"time"

	"gorm.io/gorm"
)

// GroupRole represents a user's role within a specific group
type GroupRole string

const (
	GroupRoleAdmin  GroupRole = "admin"
	GroupRoleMember GroupRole = "member"
)

// MemberStatus represents the lifecycle state of a membership.
// A pending member is waiting on admin approval and does not count
// toward capacity or display-name uniqueness.
type MemberStatus string

const (
	MemberStatusPending MemberStatus = "pending"
	MemberStatusActive  MemberStatus = "active"
)

// ThemeColor is the visual identity assigned to a member at join time.
// It is immutable once assigned; a removed member is represented by the
// neutral placeholder (ColorIndex -1) rather than by their old theme.
type ThemeColor struct {
	Light      string    `gorm:"column:color_light" json:"light"`
	Dark       string    `gorm:"column:color_dark" json:"dark"`
	Name       string    `gorm:"column:color_name" json:"name"`
	Pattern    string    `gorm:"column:color_pattern" json:"pattern"`
	ColorIndex int       `gorm:"column:color_index" json:"color_index"`
	AssignedAt time.Time `gorm:"column:color_assigned_at" json:"assigned_at"`
}

// GroupMembership represents the many-to-many relationship between users and groups
type GroupMembership struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"uniqueIndex:idx_user_group" json:"-"`
	UserID      uint           `gorm:"not null;uniqueIndex:idx_user_group" json:"user_id"`
	GroupID     uint           `gorm:"not null;uniqueIndex:idx_user_group" json:"group_id"`
	Role        GroupRole      `gorm:"type:varchar(20);default:'member'" json:"role"`
	Status      MemberStatus   `gorm:"type:varchar(20);default:'active';index" json:"status"`
	DisplayName string         `gorm:"not null" json:"display_name"`
	ThemeColor  ThemeColor     `gorm:"embedded" json:"theme_color"`
	JoinedAt    time.Time      `json:"joined_at"`

	// Relationships
	User  User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Group Group `gorm:"foreignKey:GroupID" json:"group,omitempty"`
}
