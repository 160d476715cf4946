package db

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sethvargo/go-retry"
	"github.com/votegate/votegate/internal/enrollment/entity"
	"github.com/votegate/votegate/internal/pkg/goerror"
)

// ApprovePendingVoter creates the voter record and flips the pending row to
// approved in one transaction. Either both writes land or neither does; a
// pending row that is missing or no longer pending aborts with ErrNotFound.
// Serialization failures are retried a few times before giving up.
func (s *DB) ApprovePendingVoter(ctx context.Context, voter entity.Voter, pendingID int64) (err error) {
	ctx, span := s.startSpan(ctx, "ApprovePendingVoter")
	defer func() { s.endSpan(span, err) }()

	backoff := retry.WithMaxRetries(3, retry.NewExponential(50*time.Millisecond))

	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := s.approveTx(ctx, voter, pendingID); err != nil {
			if isRetryableTxError(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})

	return err
}

func (s *DB) approveTx(ctx context.Context, voter entity.Voter, pendingID int64) error {
	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rollback", "error", rErr)
		}
	}()

	m := voter.Material
	if _, err := tx.Exec(ctx, `
		INSERT INTO enrollment_voters
			(id, voter_id, full_name, email, password_hash, pincode_hash,
			 public_key_cipher, public_key_iv, public_key_tag,
			 private_key_cipher, private_key_iv, private_key_tag,
			 session_token_cipher, session_token_iv, session_token_tag,
			 key_salt)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		voter.ID, voter.VoterID, voter.FullName, voter.Email, voter.PasswordHash, voter.PincodeHash,
		m.PublicKey.Ciphertext, m.PublicKey.IV, m.PublicKey.Tag,
		m.PrivateKey.Ciphertext, m.PrivateKey.IV, m.PrivateKey.Tag,
		m.SessionToken.Ciphertext, m.SessionToken.IV, m.SessionToken.Tag,
		m.Salt,
	); err != nil {
		return s.mapError(err)
	}

	tag, err := tx.Exec(ctx, `
		UPDATE enrollment_pending_voters
		SET status = $2, otp_hash = NULL, otp_expires_at = NULL, updated_at = NOW()
		WHERE id = $1 AND status = $3`,
		pendingID, entity.ApprovalStatusApproved, entity.ApprovalStatusPending,
	)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}
