package activity

import (
	"github.com/divvyapp/divvy/pkg/divvy/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Fanout appends membership events to per-user activity feeds. Appends are
// best effort: they run after the membership transaction has committed, and a
// failed append is logged without ever failing the join it describes.
type Fanout struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewFanout creates a new activity fanout writer
func NewFanout(db *gorm.DB, logger *zap.Logger) *Fanout {
	return &Fanout{db: db, logger: logger}
}

// MemberJoined writes one MEMBER_JOINED item to each recipient's feed. The
// joining user is the actor of their own join event: actorName is their
// profile name, displayName the group-scoped name they joined under. Callers
// must pass the recipient set captured inside the membership transaction so
// the fan-out never acts on a stale member list.
func (f *Fanout) MemberJoined(recipientIDs []uint, groupID uint, joinerID uint, actorName, displayName string) {
	for _, recipientID := range recipientIDs {
		item := models.ActivityItem{
			RecipientUserID: recipientID,
			EventType:       models.EventMemberJoined,
			Action:          models.ActionJoin,
			ActorID:         joinerID,
			ActorName:       actorName,
			GroupID:         groupID,
			TargetUserID:    joinerID,
			TargetUserName:  displayName,
		}
		if err := f.db.Create(&item).Error; err != nil {
			f.logger.Error("activity fan-out append failed",
				zap.Uint("recipient_user_id", recipientID),
				zap.Uint("group_id", groupID),
				zap.Uint("actor_id", joinerID),
				zap.Error(err))
		}
	}
}
