package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/votegate/votegate/internal/enrollment/entity"
	"github.com/votegate/votegate/internal/pkg/goerror"
	"github.com/votegate/votegate/internal/pkg/idempotency"
)

type ApproveInput struct {
	ID int64 `validate:"required,gt=0"`
}

type ApproveOutput struct {
	VoterID string
}

// Approve provisions key material for a verified pending voter and atomically
// creates the voter record while flipping the pending status. A redis lock
// keyed by the pending ID guards double submission; the approval email is sent
// best-effort after commit and never fails the response.
func (s *Usecase) Approve(ctx context.Context, in ApproveInput) (*ApproveOutput, error) {
	ctx, span := s.startSpan(ctx, "Approve")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	pv, err := s.repoDB.GetPendingVoterByID(ctx, in.ID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("Registration not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get pending voter by id", "pending_id", in.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	if pv.Status == entity.ApprovalStatusApproved {
		return nil, goerror.NewBusiness("Registration already approved", goerror.CodeConflict)
	}

	if !pv.IsVerified {
		return nil, goerror.NewBusiness("Email not verified", goerror.CodeForbidden)
	}

	var voter entity.Voter
	key := fmt.Sprintf("enrollment:approve:%d", pv.ID)
	err = s.idemp.Exec(ctx, key, func(ctx context.Context) error {
		material, err := s.provisioner.Provision(pv.PasswordHash)
		if err != nil {
			slog.ErrorContext(ctx, "failed to provision key material", "pending_id", pv.ID, "error", err)
			return goerror.NewServer(err)
		}

		voter = entity.Voter{
			ID:           int64(s.uid.Generate()),
			VoterID:      "VG-" + strconv.FormatUint(s.uid.Generate(), 10),
			FullName:     pv.FullName,
			Email:        pv.Email,
			PasswordHash: pv.PasswordHash,
			PincodeHash:  pv.PincodeHash,
			Material:     material,
		}

		if err := s.repoDB.ApprovePendingVoter(ctx, voter, pv.ID); err != nil {
			slog.ErrorContext(ctx, "failed to repo approve pending voter", "pending_id", pv.ID, "error", err)
			return goerror.NewServer(err)
		}

		return nil
	})

	switch {
	case errors.Is(err, idempotency.ErrAlreadyInProgress):
		return nil, goerror.NewBusiness("Approval is already in progress", goerror.CodeConflict)
	case errors.Is(err, idempotency.ErrAlreadyCompleted):
		return nil, goerror.NewBusiness("Registration already approved", goerror.CodeConflict)
	case errors.Is(err, idempotency.ErrAlreadyFailed):
		return nil, goerror.NewBusiness("Previous approval attempt failed, retry later", goerror.CodeConflict)
	case err != nil:
		var gerr *goerror.Error
		if errors.As(err, &gerr) {
			return nil, err
		}
		slog.ErrorContext(ctx, "failed to exec approval under idempotency lock", "pending_id", pv.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	// The state change is committed; delivery failure must not surface.
	s.goroutine.Go(context.WithoutCancel(ctx), func(ctx context.Context) error {
		if err := s.notifier.SendApproval(ctx, voter.Email, voter.FullName, voter.VoterID); err != nil {
			slog.ErrorContext(ctx, "failed to send approval email", "voter_id", voter.VoterID, "error", err)
		}
		return nil
	})

	return &ApproveOutput{VoterID: voter.VoterID}, nil
}
