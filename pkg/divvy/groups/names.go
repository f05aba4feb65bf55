package groups

import (
	"strings"

	"github.com/divvyapp/divvy/pkg/divvy/apperrors"
	"github.com/divvyapp/divvy/pkg/divvy/models"
)

// checkDisplayName rejects a candidate name already held by an active member,
// comparing case-insensitively. Pending members do not reserve their name.
// On conflict the error message names the stored conflicting spelling.
func checkDisplayName(active []models.GroupMembership, candidate string) error {
	folded := strings.ToLower(strings.TrimSpace(candidate))
	for _, m := range active {
		if strings.ToLower(m.DisplayName) == folded {
			return apperrors.ErrDisplayNameConflict.WithMessage(
				"The name \"" + m.DisplayName + "\" is already taken in this group")
		}
	}
	return nil
}
