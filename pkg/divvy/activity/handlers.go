package activity

import (
	"net/http"
	"strconv"
	"time"

	"github.com/divvyapp/divvy/pkg/divvy/auth"
	"github.com/divvyapp/divvy/pkg/divvy/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler handles activity feed requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new activity handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// ItemResponse represents one feed entry in API responses
type ItemResponse struct {
	ID             uint   `json:"id"`
	EventType      string `json:"event_type"`
	Action         string `json:"action"`
	ActorID        uint   `json:"actor_id"`
	ActorName      string `json:"actor_name"`
	GroupID        uint   `json:"group_id"`
	TargetUserID   uint   `json:"target_user_id"`
	TargetUserName string `json:"target_user_name"`
	CreatedAt      string `json:"created_at"`
}

// List returns the current user's activity feed, newest first
// @Summary List activity
// @Description Get the authenticated user's activity feed
// @Tags activity
// @Produce json
// @Param limit query int false "Maximum items to return (default 50)"
// @Success 200 {array} ItemResponse
// @Security BearerAuth
// @Router /activity [get]
func (h *Handler) List(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}

	var items []models.ActivityItem
	if err := h.db.Where("recipient_user_id = ?", userID).Order("created_at DESC, id DESC").Limit(limit).Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch activity"})
		return
	}

	feed := make([]ItemResponse, len(items))
	for i, item := range items {
		feed[i] = ItemResponse{
			ID:             item.ID,
			EventType:      string(item.EventType),
			Action:         string(item.Action),
			ActorID:        item.ActorID,
			ActorName:      item.ActorName,
			GroupID:        item.GroupID,
			TargetUserID:   item.TargetUserID,
			TargetUserName: item.TargetUserName,
			CreatedAt:      item.CreatedAt.UTC().Format(time.RFC3339),
		}
	}

	c.JSON(http.StatusOK, feed)
}

// RegisterRoutes registers activity routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
}
