package groups

import (
	"net/http"
	"time"

	"github.com/divvyapp/divvy/pkg/divvy/apperrors"
	"github.com/divvyapp/divvy/pkg/divvy/auth"
	"github.com/divvyapp/divvy/pkg/divvy/database"
	"github.com/divvyapp/divvy/pkg/divvy/models"
	"github.com/divvyapp/divvy/pkg/divvy/sharelinks"
	"github.com/divvyapp/divvy/pkg/divvy/themecolor"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// JoinRequest represents the request to join a group by share token
type JoinRequest struct {
	DisplayName string `json:"display_name" binding:"required,min=1,max=50"`
}

// JoinResponse represents the outcome of a join attempt
type JoinResponse struct {
	GroupID      uint   `json:"group_id"`
	Success      bool   `json:"success"`
	MemberStatus string `json:"member_status"`
}

// Join handles joining a group through a share link.
//
// Token resolution happens first; the capacity check, display-name check,
// policy decision, theme assignment and membership insert all run inside one
// retried transaction so that two joins racing for the last slot cannot both
// succeed — the loser re-reads the updated count on retry and is rejected.
// The notification recipient set is captured inside that same transaction;
// the fan-out itself runs after commit and is best effort.
//
// @Summary Join a group by share link
// @Description Join the group a share token points at, choosing a display name
// @Tags groups
// @Accept json
// @Produce json
// @Param token path string true "Share token"
// @Param request body JoinRequest true "Display name"
// @Success 201 {object} JoinResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Unknown token"
// @Failure 409 {object} map[string]string "Group full or name taken"
// @Failure 410 {object} map[string]string "Link expired"
// @Security BearerAuth
// @Router /join/{token} [post]
func (h *Handler) Join(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	link, err := sharelinks.Resolve(h.db, c.Param("token"))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	// A live membership makes the join a no-op; a membership removed earlier
	// does not count and the user joins fresh with a new record
	var existing models.GroupMembership
	if err := h.db.Where("user_id = ? AND group_id = ?", userID, link.GroupID).First(&existing).Error; err == nil {
		c.JSON(http.StatusOK, JoinResponse{
			GroupID:      link.GroupID,
			Success:      existing.Status == models.MemberStatusActive,
			MemberStatus: string(existing.Status),
		})
		return
	}

	now := time.Now()
	var status models.MemberStatus
	var recipients []uint

	err = database.Transaction(h.db, func(tx *gorm.DB) error {
		// Fresh reads on every attempt; nothing carries over from a failed try
		status = ""
		recipients = nil

		var members []models.GroupMembership
		if err := tx.Where("group_id = ?", link.GroupID).Find(&members).Error; err != nil {
			return err
		}
		active := activeMembers(members)

		if err := detectOverflow(len(active), h.cfg.MaxGroupSize); err != nil {
			h.logger.Error("stored member count exceeds group maximum",
				zap.Uint("group_id", link.GroupID),
				zap.Int("active_count", len(active)),
				zap.Int("max_group_size", h.cfg.MaxGroupSize))
			return err
		}
		if err := checkCapacity(len(active), h.cfg.MaxGroupSize); err != nil {
			return err
		}
		if err := checkDisplayName(active, req.DisplayName); err != nil {
			return err
		}

		var group models.Group
		if err := tx.First(&group, link.GroupID).Error; err != nil {
			return err
		}
		status = decideStatus(group.ApprovalPolicy)

		existingThemes := make([]models.ThemeColor, len(active))
		for i, m := range active {
			existingThemes[i] = m.ThemeColor
		}

		membership := models.GroupMembership{
			UserID:      userID,
			GroupID:     link.GroupID,
			Role:        models.GroupRoleMember,
			Status:      status,
			DisplayName: req.DisplayName,
			ThemeColor:  themecolor.Assign(existingThemes, now, h.rnd),
			JoinedAt:    now,
		}
		if err := tx.Create(&membership).Error; err != nil {
			return err
		}

		// Recipient set as of this transaction: every active member plus the
		// joiner when the join itself is active. Pending members get nothing.
		if status == models.MemberStatusActive {
			for _, m := range active {
				recipients = append(recipients, m.UserID)
			}
			recipients = append(recipients, userID)
		}
		return nil
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	if status == models.MemberStatusActive {
		h.fanout.MemberJoined(recipients, link.GroupID, userID, user.Name, req.DisplayName)
	}

	c.JSON(http.StatusCreated, JoinResponse{
		GroupID:      link.GroupID,
		Success:      status == models.MemberStatusActive,
		MemberStatus: string(status),
	})
}
