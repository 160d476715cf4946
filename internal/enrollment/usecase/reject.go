package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/votegate/votegate/internal/pkg/goerror"
)

type RejectInput struct {
	ID     int64  `validate:"required,gt=0"`
	Reason string `validate:"required,min=3,max=500"`
}

// Reject notifies the applicant and then deletes the pending record. The
// notification is deliberately in the critical path: if it fails the record is
// kept so the admin can retry and the applicant is never silently dropped.
func (s *Usecase) Reject(ctx context.Context, in RejectInput) error {
	ctx, span := s.startSpan(ctx, "Reject")
	defer span.End()

	in.Reason = strings.TrimSpace(in.Reason)

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	pv, err := s.repoDB.GetPendingVoterByID(ctx, in.ID)
	if errors.Is(err, goerror.ErrNotFound) {
		return goerror.NewBusiness("Registration not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get pending voter by id", "pending_id", in.ID, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.notifier.SendRejection(ctx, pv.Email, pv.FullName, in.Reason); err != nil {
		slog.ErrorContext(ctx, "failed to send rejection email", "pending_id", pv.ID, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoDB.DeletePendingVoter(ctx, pv.ID); err != nil {
		slog.ErrorContext(ctx, "failed to repo delete pending voter", "pending_id", pv.ID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
