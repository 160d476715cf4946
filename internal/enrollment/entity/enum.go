package entity

// ApprovalStatus tracks where a pending voter sits in the onboarding flow.
type ApprovalStatus int16

const (
	// ApprovalStatusUnknown is mean status is not known / not set.
	ApprovalStatusUnknown ApprovalStatus = 0

	// ApprovalStatusPending mean the registration awaits an admin decision.
	ApprovalStatusPending ApprovalStatus = 1

	// ApprovalStatusApproved mean the registration was accepted and superseded
	// by a voter record. The row is kept as a tombstone.
	ApprovalStatusApproved ApprovalStatus = 2
)

func (as ApprovalStatus) String() string {
	switch as {
	case ApprovalStatusPending:
		return "Pending"
	case ApprovalStatusApproved:
		return "Approved"
	default:
		return "Unknown"
	}
}

func (as ApprovalStatus) IsUnknown() bool {
	switch as {
	case ApprovalStatusPending, ApprovalStatusApproved:
		return false
	default:
		return true
	}
}
