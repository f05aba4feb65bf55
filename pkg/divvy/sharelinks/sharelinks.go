package sharelinks

import (
	"errors"
	"time"

	"github.com/divvyapp/divvy/pkg/divvy/apperrors"
	"github.com/divvyapp/divvy/pkg/divvy/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Generate creates a fresh share link for a group. A custom expiry must be
// strictly in the future and no further ahead than maxTTL; otherwise the
// default ttl applies. Expired links for the group are purged first, best
// effort — the purge does not share a transaction with the create.
func Generate(db *gorm.DB, groupID, createdBy uint, customExpiry *time.Time, ttl, maxTTL time.Duration) (*models.ShareLink, error) {
	now := time.Now()

	expiresAt := now.Add(ttl)
	if customExpiry != nil {
		if !customExpiry.After(now) || customExpiry.After(now.Add(maxTTL)) {
			return nil, apperrors.ErrInvalidExpiration
		}
		expiresAt = *customExpiry
	}

	// Best-effort cleanup; a failure here never blocks issuing the new link
	db.Unscoped().Where("group_id = ? AND expires_at <= ?", groupID, now).Delete(&models.ShareLink{})

	link := models.ShareLink{
		Token:       uuid.NewString(),
		GroupID:     groupID,
		CreatedByID: createdBy,
		ExpiresAt:   expiresAt,
	}
	if err := db.Create(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

// Resolve looks up a share link by token. Returns ErrNotFound for an unknown
// token and ErrLinkExpired for one past its expiry. No side effects.
func Resolve(db *gorm.DB, token string) (*models.ShareLink, error) {
	var link models.ShareLink
	if err := db.Where("token = ?", token).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	if link.Expired(time.Now()) {
		return nil, apperrors.ErrLinkExpired
	}
	return &link, nil
}

// SharePath returns the join path for a link's token
func SharePath(token string) string {
	return "/join/" + token
}
