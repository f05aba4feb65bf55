package groups

import (
	"github.com/divvyapp/divvy/pkg/divvy/apperrors"
	"github.com/divvyapp/divvy/pkg/divvy/models"
)

// checkCapacity rejects a join that would push the active member count past
// the configured maximum. This is the normal, user-facing rejection.
func checkCapacity(activeCount, maxGroupSize int) error {
	if activeCount+1 > maxGroupSize {
		return apperrors.ErrGroupAtCapacity
	}
	return nil
}

// detectOverflow flags a stored active count already over the maximum. That
// can only happen if the capacity invariant was broken elsewhere, so it is a
// distinct error from the ordinary at-capacity rejection: the former is a bug
// to page on, the latter is backpressure.
func detectOverflow(activeCount, maxGroupSize int) error {
	if activeCount > maxGroupSize {
		return apperrors.ErrGroupTooLarge
	}
	return nil
}

// activeMembers filters a membership set down to active rows
func activeMembers(members []models.GroupMembership) []models.GroupMembership {
	active := make([]models.GroupMembership, 0, len(members))
	for _, m := range members {
		if m.Status == models.MemberStatusActive {
			active = append(active, m)
		}
	}
	return active
}
