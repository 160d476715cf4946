package db

import (
	"context"
	"errors"
	"time"

	"github.com/votegate/votegate/internal/enrollment/entity"
	"github.com/votegate/votegate/internal/pkg/goerror"
)

const pendingVoterColumns = `
	id, full_name, email, password_hash, pincode_hash, status, is_verified,
	COALESCE(otp_hash, ''), otp_expires_at`

const voterColumns = `
	id, voter_id, full_name, email, password_hash, pincode_hash,
	public_key_cipher, public_key_iv, public_key_tag,
	private_key_cipher, private_key_iv, private_key_tag,
	session_token_cipher, session_token_iv, session_token_tag,
	key_salt`

func scanPendingVoter(row interface{ Scan(dest ...any) error }) (*entity.PendingVoter, error) {
	var pv entity.PendingVoter
	var expiresAt *time.Time

	err := row.Scan(
		&pv.ID, &pv.FullName, &pv.Email, &pv.PasswordHash, &pv.PincodeHash,
		&pv.Status, &pv.IsVerified, &pv.OtpHash, &expiresAt,
	)
	if err != nil {
		return nil, err
	}

	pv.OtpExpiresAt = expiresAt
	return &pv, nil
}

func scanVoter(row interface{ Scan(dest ...any) error }) (*entity.Voter, error) {
	var v entity.Voter

	err := row.Scan(
		&v.ID, &v.VoterID, &v.FullName, &v.Email, &v.PasswordHash, &v.PincodeHash,
		&v.Material.PublicKey.Ciphertext, &v.Material.PublicKey.IV, &v.Material.PublicKey.Tag,
		&v.Material.PrivateKey.Ciphertext, &v.Material.PrivateKey.IV, &v.Material.PrivateKey.Tag,
		&v.Material.SessionToken.Ciphertext, &v.Material.SessionToken.IV, &v.Material.SessionToken.Tag,
		&v.Material.Salt,
	)
	if err != nil {
		return nil, err
	}

	return &v, nil
}

func (s *DB) GetPendingVoterByEmail(ctx context.Context, email string) (_ *entity.PendingVoter, err error) {
	ctx, span := s.startSpan(ctx, "GetPendingVoterByEmail")
	defer func() { s.endSpan(span, err) }()

	row := s.conn.QueryRow(ctx, `
		SELECT `+pendingVoterColumns+`
		FROM enrollment_pending_voters
		WHERE email = $1`, email)

	pv, err := scanPendingVoter(row)
	if err != nil {
		return nil, s.mapError(err)
	}

	return pv, nil
}

func (s *DB) GetPendingVoterByID(ctx context.Context, id int64) (_ *entity.PendingVoter, err error) {
	ctx, span := s.startSpan(ctx, "GetPendingVoterByID")
	defer func() { s.endSpan(span, err) }()

	row := s.conn.QueryRow(ctx, `
		SELECT `+pendingVoterColumns+`
		FROM enrollment_pending_voters
		WHERE id = $1`, id)

	pv, err := scanPendingVoter(row)
	if err != nil {
		return nil, s.mapError(err)
	}

	return pv, nil
}

func (s *DB) GetVoterByEmail(ctx context.Context, email string) (_ *entity.Voter, err error) {
	ctx, span := s.startSpan(ctx, "GetVoterByEmail")
	defer func() { s.endSpan(span, err) }()

	row := s.conn.QueryRow(ctx, `
		SELECT `+voterColumns+`
		FROM enrollment_voters
		WHERE email = $1`, email)

	v, err := scanVoter(row)
	if err != nil {
		return nil, s.mapError(err)
	}

	return v, nil
}

// GetParticipantByID looks the ID up in both tables, preferring the pending
// record when both exist (which only happens transiently during approval).
func (s *DB) GetParticipantByID(ctx context.Context, id int64) (_ *entity.Participant, err error) {
	ctx, span := s.startSpan(ctx, "GetParticipantByID")
	defer func() { s.endSpan(span, err) }()

	row := s.conn.QueryRow(ctx, `
		SELECT `+pendingVoterColumns+`
		FROM enrollment_pending_voters
		WHERE id = $1 AND status = $2`, id, entity.ApprovalStatusPending)

	pv, err := scanPendingVoter(row)
	if err == nil {
		return &entity.Participant{Pending: pv}, nil
	}
	if mapped := s.mapError(err); !errors.Is(mapped, goerror.ErrNotFound) {
		return nil, mapped
	}

	row = s.conn.QueryRow(ctx, `
		SELECT `+voterColumns+`
		FROM enrollment_voters
		WHERE id = $1`, id)

	v, err := scanVoter(row)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &entity.Participant{Voter: v}, nil
}
