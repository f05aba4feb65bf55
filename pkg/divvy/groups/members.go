package groups

import (
	"net/http"
	"strconv"
	"time"

	"github.com/divvyapp/divvy/pkg/divvy/apperrors"
	"github.com/divvyapp/divvy/pkg/divvy/auth"
	"github.com/divvyapp/divvy/pkg/divvy/database"
	"github.com/divvyapp/divvy/pkg/divvy/models"
	"github.com/divvyapp/divvy/pkg/divvy/themecolor"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MemberResponse represents a group member in API responses
type MemberResponse struct {
	UserID      uint              `json:"user_id"`
	DisplayName string            `json:"display_name"`
	Role        string            `json:"role"`
	Status      string            `json:"status"`
	ThemeColor  models.ThemeColor `json:"theme_color"`
	JoinedAt    time.Time         `json:"joined_at"`
	Departed    bool              `json:"departed,omitempty"`
}

// ListMembers returns the members of a group. With include_departed=true,
// removed members are included carrying the neutral placeholder theme.
// @Summary List group members
// @Description Get all members of a group with their roles, statuses and themes
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Param include_departed query bool false "Include removed members"
// @Success 200 {array} MemberResponse
// @Failure 404 {object} map[string]string "Group not found"
// @Security BearerAuth
// @Router /groups/{id}/members [get]
func (h *Handler) ListMembers(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	// Check membership
	if err := h.db.Where("user_id = ? AND group_id = ?", userID, groupID).First(&models.GroupMembership{}).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	query := h.db
	if c.Query("include_departed") == "true" {
		query = query.Unscoped()
	}

	var memberships []models.GroupMembership
	if err := query.Where("group_id = ?", groupID).Find(&memberships).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch members"})
		return
	}

	members := make([]MemberResponse, len(memberships))
	for i, m := range memberships {
		departed := m.DeletedAt.Valid
		theme := m.ThemeColor
		if departed {
			// A removed member's own theme is released; show the placeholder
			theme = themecolor.Departed(m.DeletedAt.Time)
		}
		members[i] = MemberResponse{
			UserID:      m.UserID,
			DisplayName: m.DisplayName,
			Role:        string(m.Role),
			Status:      string(m.Status),
			ThemeColor:  theme,
			JoinedAt:    m.JoinedAt,
			Departed:    departed,
		}
	}

	c.JSON(http.StatusOK, members)
}

// ApproveMember flips a pending membership to active (group admin only).
// Capacity and display-name are re-checked inside the transaction: the group
// may have filled up, or an active member may have claimed the name, while
// this membership sat pending. An approved member is announced to the group
// with the same fan-out as an automatic join.
// @Summary Approve a pending member
// @Description Approve a pending membership (requires admin role in group)
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Param userId path int true "User ID"
// @Success 200 {object} MemberResponse
// @Failure 403 {object} map[string]string "Admin access required"
// @Failure 404 {object} map[string]string "Member not found"
// @Failure 409 {object} map[string]string "Group full or name taken"
// @Security BearerAuth
// @Router /groups/{id}/members/{userId}/approve [post]
func (h *Handler) ApproveMember(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}
	memberID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	// Check admin membership
	if err := h.db.Where("user_id = ? AND group_id = ? AND role = ?", userID, groupID, models.GroupRoleAdmin).First(&models.GroupMembership{}).Error; err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}

	var membership models.GroupMembership
	var recipients []uint

	err = database.Transaction(h.db, func(tx *gorm.DB) error {
		recipients = nil

		if err := tx.Where("user_id = ? AND group_id = ? AND status = ?", memberID, groupID, models.MemberStatusPending).First(&membership).Error; err != nil {
			return apperrors.ErrNotFound.WithMessage("No pending member to approve")
		}

		var members []models.GroupMembership
		if err := tx.Where("group_id = ?", groupID).Find(&members).Error; err != nil {
			return err
		}
		active := activeMembers(members)

		if err := detectOverflow(len(active), h.cfg.MaxGroupSize); err != nil {
			h.logger.Error("stored member count exceeds group maximum",
				zap.Uint64("group_id", groupID),
				zap.Int("active_count", len(active)),
				zap.Int("max_group_size", h.cfg.MaxGroupSize))
			return err
		}
		if err := checkCapacity(len(active), h.cfg.MaxGroupSize); err != nil {
			return err
		}
		if err := checkDisplayName(active, membership.DisplayName); err != nil {
			return err
		}

		membership.Status = models.MemberStatusActive
		if err := tx.Save(&membership).Error; err != nil {
			return err
		}

		for _, m := range active {
			recipients = append(recipients, m.UserID)
		}
		recipients = append(recipients, membership.UserID)
		return nil
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	var approvedUser models.User
	actorName := membership.DisplayName
	if err := h.db.First(&approvedUser, membership.UserID).Error; err == nil {
		actorName = approvedUser.Name
	}
	h.fanout.MemberJoined(recipients, uint(groupID), membership.UserID, actorName, membership.DisplayName)

	c.JSON(http.StatusOK, MemberResponse{
		UserID:      membership.UserID,
		DisplayName: membership.DisplayName,
		Role:        string(membership.Role),
		Status:      string(membership.Status),
		ThemeColor:  membership.ThemeColor,
		JoinedAt:    membership.JoinedAt,
	})
}

// RemoveMember removes a user from a group. Group admins can remove anyone
// but the last admin; any member can remove themselves.
// @Summary Remove a group member
// @Description Remove a member (admin) or leave the group (self)
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Param userId path int true "User ID"
// @Success 200 {object} map[string]string "Member removed"
// @Failure 403 {object} map[string]string "Admin access required"
// @Failure 404 {object} map[string]string "Member not found"
// @Security BearerAuth
// @Router /groups/{id}/members/{userId} [delete]
func (h *Handler) RemoveMember(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}
	memberID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	// Self-leave is always allowed; removing others requires admin
	if userID != uint(memberID) {
		if err := h.db.Where("user_id = ? AND group_id = ? AND role = ?", userID, groupID, models.GroupRoleAdmin).First(&models.GroupMembership{}).Error; err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
	}

	// Prevent removing the last admin
	var target models.GroupMembership
	if err := h.db.Where("user_id = ? AND group_id = ?", memberID, groupID).First(&target).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return
	}
	if target.Role == models.GroupRoleAdmin {
		var adminCount int64
		h.db.Model(&models.GroupMembership{}).Where("group_id = ? AND role = ?", groupID, models.GroupRoleAdmin).Count(&adminCount)
		if adminCount <= 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot remove the last admin"})
			return
		}
	}

	// Soft delete; a rejoin later creates a brand-new membership
	result := h.db.Where("user_id = ? AND group_id = ?", memberID, groupID).Delete(&models.GroupMembership{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove member"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member removed"})
}

// RegisterMemberRoutes registers member management routes
func (h *Handler) RegisterMemberRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id/members", h.ListMembers)
	rg.POST("/:id/members/:userId/approve", h.ApproveMember)
	rg.DELETE("/:id/members/:userId", h.RemoveMember)
}
