package groups

import (
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/divvyapp/divvy/pkg/divvy/activity"
	"github.com/divvyapp/divvy/pkg/divvy/auth"
	"github.com/divvyapp/divvy/pkg/divvy/config"
	"github.com/divvyapp/divvy/pkg/divvy/models"
	"github.com/divvyapp/divvy/pkg/divvy/themecolor"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler handles group-related requests
type Handler struct {
	db     *gorm.DB
	cfg    *config.Config
	logger *zap.Logger
	fanout *activity.Fanout

	// rnd overrides the theme allocator's random source; nil means the
	// process-wide locked source. Set only by tests.
	rnd *rand.Rand
}

// NewHandler creates a new groups handler
func NewHandler(db *gorm.DB, cfg *config.Config, logger *zap.Logger) *Handler {
	return &Handler{
		db:     db,
		cfg:    cfg,
		logger: logger,
		fanout: activity.NewFanout(db, logger),
	}
}

// CreateGroupRequest represents the request to create a group
type CreateGroupRequest struct {
	Name           string `json:"name" binding:"required"`
	DisplayName    string `json:"display_name"`
	ApprovalPolicy string `json:"approval_policy" binding:"omitempty,oneof=automatic admin_required"`
	Currency       string `json:"currency" binding:"omitempty,len=3"`
}

// GroupResponse represents a group in API responses
type GroupResponse struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	ApprovalPolicy string `json:"approval_policy"`
	Currency       string `json:"currency"`
	Role           string `json:"role,omitempty"`
	Status         string `json:"status,omitempty"`
	MemberCount    int    `json:"member_count,omitempty"`
}

// List returns all groups the current user belongs to
// @Summary List groups
// @Description Get all groups the current user is a member of
// @Tags groups
// @Produce json
// @Success 200 {array} GroupResponse
// @Security BearerAuth
// @Router /groups [get]
func (h *Handler) List(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var memberships []models.GroupMembership
	if err := h.db.Preload("Group").Where("user_id = ?", userID).Find(&memberships).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch groups"})
		return
	}

	groups := make([]GroupResponse, len(memberships))
	for i, m := range memberships {
		var memberCount int64
		h.db.Model(&models.GroupMembership{}).Where("group_id = ? AND status = ?", m.GroupID, models.MemberStatusActive).Count(&memberCount)

		groups[i] = GroupResponse{
			ID:             m.Group.ID,
			Name:           m.Group.Name,
			ApprovalPolicy: string(m.Group.ApprovalPolicy),
			Currency:       m.Group.Currency,
			Role:           string(m.Role),
			Status:         string(m.Status),
			MemberCount:    int(memberCount),
		}
	}

	c.JSON(http.StatusOK, groups)
}

// Create creates a new group with the creator as its active admin
// @Summary Create a group
// @Description Create a new group with the current user as admin
// @Tags groups
// @Accept json
// @Produce json
// @Param request body CreateGroupRequest true "Group details"
// @Success 201 {object} GroupResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Security BearerAuth
// @Router /groups [post]
func (h *Handler) Create(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	displayName := req.DisplayName
	if displayName == "" {
		displayName = user.Name
	}
	policy := models.ApprovalPolicyAutomatic
	if req.ApprovalPolicy != "" {
		policy = models.ApprovalPolicy(req.ApprovalPolicy)
	}
	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	now := time.Now()
	var group models.Group
	err := h.db.Transaction(func(tx *gorm.DB) error {
		group = models.Group{
			Name:           req.Name,
			CreatedByID:    userID,
			ApprovalPolicy: policy,
			Currency:       currency,
		}
		if err := tx.Create(&group).Error; err != nil {
			return err
		}

		// Add creator as active admin with a freshly allocated theme
		membership := models.GroupMembership{
			UserID:      userID,
			GroupID:     group.ID,
			Role:        models.GroupRoleAdmin,
			Status:      models.MemberStatusActive,
			DisplayName: displayName,
			ThemeColor:  themecolor.Assign(nil, now, h.rnd),
			JoinedAt:    now,
		}
		return tx.Create(&membership).Error
	})

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create group"})
		return
	}

	c.JSON(http.StatusCreated, GroupResponse{
		ID:             group.ID,
		Name:           group.Name,
		ApprovalPolicy: string(group.ApprovalPolicy),
		Currency:       group.Currency,
		Role:           string(models.GroupRoleAdmin),
		Status:         string(models.MemberStatusActive),
		MemberCount:    1,
	})
}

// Get returns a specific group
// @Summary Get a group
// @Description Get details of a specific group
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {object} GroupResponse
// @Failure 404 {object} map[string]string "Group not found"
// @Security BearerAuth
// @Router /groups/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	// Check membership
	var membership models.GroupMembership
	if err := h.db.Where("user_id = ? AND group_id = ?", userID, groupID).First(&membership).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	var group models.Group
	if err := h.db.First(&group, groupID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	var memberCount int64
	h.db.Model(&models.GroupMembership{}).Where("group_id = ? AND status = ?", groupID, models.MemberStatusActive).Count(&memberCount)

	c.JSON(http.StatusOK, GroupResponse{
		ID:             group.ID,
		Name:           group.Name,
		ApprovalPolicy: string(group.ApprovalPolicy),
		Currency:       group.Currency,
		Role:           string(membership.Role),
		Status:         string(membership.Status),
		MemberCount:    int(memberCount),
	})
}

// RegisterRoutes registers group routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
}

// RegisterJoinRoutes registers the token-addressed join route under /join
func (h *Handler) RegisterJoinRoutes(rg *gin.RouterGroup) {
	rg.POST("/:token", h.Join)
}
