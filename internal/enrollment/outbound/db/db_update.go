package db

import (
	"context"
	"time"

	"github.com/votegate/votegate/internal/pkg/goerror"
)

func (s *DB) SetPendingVoterOtp(ctx context.Context, id int64, otpHash string, expiresAt time.Time) (err error) {
	ctx, span := s.startSpan(ctx, "SetPendingVoterOtp")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `
		UPDATE enrollment_pending_voters
		SET otp_hash = $2, otp_expires_at = $3, updated_at = NOW()
		WHERE id = $1`, id, otpHash, expiresAt)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	return nil
}

func (s *DB) MarkPendingVoterVerified(ctx context.Context, id int64) (err error) {
	ctx, span := s.startSpan(ctx, "MarkPendingVoterVerified")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `
		UPDATE enrollment_pending_voters
		SET is_verified = TRUE, otp_hash = NULL, otp_expires_at = NULL, updated_at = NOW()
		WHERE id = $1`, id)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	return nil
}

func (s *DB) UpdatePendingVoterName(ctx context.Context, id int64, fullName string) (err error) {
	ctx, span := s.startSpan(ctx, "UpdatePendingVoterName")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `
		UPDATE enrollment_pending_voters
		SET full_name = $2, updated_at = NOW()
		WHERE id = $1`, id, fullName)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	return nil
}

func (s *DB) UpdateVoterName(ctx context.Context, id int64, fullName string) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateVoterName")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `
		UPDATE enrollment_voters
		SET full_name = $2, updated_at = NOW()
		WHERE id = $1`, id, fullName)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	return nil
}

func (s *DB) DeletePendingVoter(ctx context.Context, id int64) (err error) {
	ctx, span := s.startSpan(ctx, "DeletePendingVoter")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `
		DELETE FROM enrollment_pending_voters
		WHERE id = $1`, id)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	return nil
}
