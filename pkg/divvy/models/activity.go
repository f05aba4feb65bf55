package models

import (
	"time"
)

// EventType identifies the kind of event an activity item records
type EventType string

const (
	EventMemberJoined EventType = "MEMBER_JOINED"
)

// Action identifies what the actor did
type Action string

const (
	ActionJoin Action = "JOIN"
)

// ActivityItem is one entry in a single user's activity feed. Feeds are
// append-only: an event affecting N members is written as N rows, one per
// recipient, and rows are never mutated afterwards.
type ActivityItem struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	RecipientUserID uint      `gorm:"not null;index" json:"recipient_user_id"`
	EventType       EventType `gorm:"type:varchar(40);not null" json:"event_type"`
	Action          Action    `gorm:"type:varchar(20);not null" json:"action"`
	ActorID         uint      `gorm:"not null" json:"actor_id"`
	ActorName       string    `json:"actor_name"`
	GroupID         uint      `gorm:"not null;index" json:"group_id"`
	TargetUserID    uint      `json:"target_user_id"`
	TargetUserName  string    `json:"target_user_name"`
}
