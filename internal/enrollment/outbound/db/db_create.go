package db

import (
	"context"

	"github.com/votegate/votegate/internal/enrollment/entity"
)

func (s *DB) CreatePendingVoter(ctx context.Context, pv entity.PendingVoter) (err error) {
	ctx, span := s.startSpan(ctx, "CreatePendingVoter")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		INSERT INTO enrollment_pending_voters
			(id, full_name, email, password_hash, pincode_hash, status, is_verified)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE)`,
		pv.ID, pv.FullName, pv.Email, pv.PasswordHash, pv.PincodeHash, pv.Status,
	)

	return s.mapError(err)
}
