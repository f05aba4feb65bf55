package groups

import "github.com/divvyapp/divvy/pkg/divvy/models"

// decideStatus maps a group's approval policy to the status a new joiner
// receives. Pure mapping, no side effects.
func decideStatus(policy models.ApprovalPolicy) models.MemberStatus {
	if policy == models.ApprovalPolicyAdminRequired {
		return models.MemberStatusPending
	}
	return models.MemberStatusActive
}
