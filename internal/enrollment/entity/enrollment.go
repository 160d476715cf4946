package entity

import (
	"time"

	"github.com/votegate/votegate/internal/pkg/keymat"
)

// PendingVoter is a registration awaiting email verification and an admin
// decision. Credentials are stored only as one-way hashes.
type PendingVoter struct {
	ID           int64
	FullName     string
	Email        string
	PasswordHash string
	PincodeHash  string
	Status       ApprovalStatus
	IsVerified   bool
	OtpHash      string
	OtpExpiresAt *time.Time
}

// HasOtp reports whether the record currently carries an OTP challenge.
func (pv PendingVoter) HasOtp() bool {
	return pv.OtpHash != "" && pv.OtpExpiresAt != nil
}

// Voter is an approved participant carrying the key material provisioned at
// approval time. Material payloads are persisted verbatim.
type Voter struct {
	ID           int64
	VoterID      string
	FullName     string
	Email        string
	PasswordHash string
	PincodeHash  string
	Material     keymat.Material
}

// Participant is the variant result of a lookup across both collections.
// Exactly one of Pending and Voter is set; a miss in both is reported as an
// error by the repository, never as an empty Participant.
type Participant struct {
	Pending *PendingVoter
	Voter   *Voter
}

// FullName returns the display name of whichever record is present.
func (p Participant) FullName() string {
	if p.Pending != nil {
		return p.Pending.FullName
	}
	if p.Voter != nil {
		return p.Voter.FullName
	}
	return ""
}

// Email returns the email of whichever record is present.
func (p Participant) Email() string {
	if p.Pending != nil {
		return p.Pending.Email
	}
	if p.Voter != nil {
		return p.Voter.Email
	}
	return ""
}
