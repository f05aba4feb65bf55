package sharelinks

import (
	"net/http"
	"strconv"
	"time"

	"github.com/divvyapp/divvy/pkg/divvy/apperrors"
	"github.com/divvyapp/divvy/pkg/divvy/auth"
	"github.com/divvyapp/divvy/pkg/divvy/config"
	"github.com/divvyapp/divvy/pkg/divvy/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler handles share link requests
type Handler struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewHandler creates a new share links handler
func NewHandler(db *gorm.DB, cfg *config.Config) *Handler {
	return &Handler{db: db, cfg: cfg}
}

// GenerateRequest represents the request to generate a share link
type GenerateRequest struct {
	ExpiresAt *time.Time `json:"expires_at"`
}

// GenerateResponse represents a freshly issued share link
type GenerateResponse struct {
	SharePath string    `json:"share_path"`
	ShareURL  string    `json:"share_url"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PreviewResponse is the minimal group summary shown before joining
type PreviewResponse struct {
	GroupID        uint   `json:"group_id"`
	Name           string `json:"name"`
	MemberCount    int    `json:"member_count"`
	ApprovalPolicy string `json:"approval_policy"`
	Currency       string `json:"currency"`
}

// Generate issues a new share link for a group
// @Summary Generate a share link
// @Description Create a time-limited invite link for a group (members only)
// @Tags sharelinks
// @Accept json
// @Produce json
// @Param id path int true "Group ID"
// @Param request body GenerateRequest false "Optional custom expiry"
// @Success 201 {object} GenerateResponse
// @Failure 400 {object} map[string]string "Invalid expiration"
// @Failure 404 {object} map[string]string "Group not found"
// @Security BearerAuth
// @Router /groups/{id}/share-link [post]
func (h *Handler) Generate(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	// Requester must be an active member of the group
	if err := h.db.Where("user_id = ? AND group_id = ? AND status = ?", userID, groupID, models.MemberStatusActive).First(&models.GroupMembership{}).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	// Body is optional; an absent body means the default expiry
	var req GenerateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	ttl := time.Duration(h.cfg.LinkTTLHours) * time.Hour
	maxTTL := time.Duration(h.cfg.LinkMaxTTLHours) * time.Hour
	link, err := Generate(h.db, uint(groupID), userID, req.ExpiresAt, ttl, maxTTL)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, GenerateResponse{
		SharePath: SharePath(link.Token),
		ShareURL:  h.cfg.BaseURL + SharePath(link.Token),
		Token:     link.Token,
		ExpiresAt: link.ExpiresAt,
	})
}

// Preview returns a minimal group summary for a share token.
// The requester does not need to be a member of the group.
// @Summary Preview a group by share token
// @Description See which group an invite link points at before joining
// @Tags sharelinks
// @Produce json
// @Param token path string true "Share token"
// @Success 200 {object} PreviewResponse
// @Failure 404 {object} map[string]string "Unknown token"
// @Failure 410 {object} map[string]string "Link expired"
// @Security BearerAuth
// @Router /join/{token}/preview [get]
func (h *Handler) Preview(c *gin.Context) {
	link, err := Resolve(h.db, c.Param("token"))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	var group models.Group
	if err := h.db.First(&group, link.GroupID).Error; err != nil {
		apperrors.Respond(c, apperrors.ErrNotFound)
		return
	}

	var memberCount int64
	h.db.Model(&models.GroupMembership{}).Where("group_id = ? AND status = ?", group.ID, models.MemberStatusActive).Count(&memberCount)

	c.JSON(http.StatusOK, PreviewResponse{
		GroupID:        group.ID,
		Name:           group.Name,
		MemberCount:    int(memberCount),
		ApprovalPolicy: string(group.ApprovalPolicy),
		Currency:       group.Currency,
	})
}

// RegisterGroupRoutes registers the link-issuing route under /groups
func (h *Handler) RegisterGroupRoutes(rg *gin.RouterGroup) {
	rg.POST("/:id/share-link", h.Generate)
}

// RegisterJoinRoutes registers the token-addressed routes under /join
func (h *Handler) RegisterJoinRoutes(rg *gin.RouterGroup) {
	rg.GET("/:token/preview", h.Preview)
}
