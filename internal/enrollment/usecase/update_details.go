package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/votegate/votegate/internal/pkg/goerror"
)

type UpdateDetailsInput struct {
	ID       int64  `validate:"required,gt=0"`
	FullName string `validate:"omitempty,min=5,max=100,alphaspace"`
}

// UpdateDetails renames a participant found in either collection. An empty
// name still touches the record and sends a generic update notification; the
// lenient contract is intentional. Notification delivery is best-effort.
func (s *Usecase) UpdateDetails(ctx context.Context, in UpdateDetailsInput) error {
	ctx, span := s.startSpan(ctx, "UpdateDetails")
	defer span.End()

	in.FullName = strings.TrimSpace(in.FullName)

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	p, err := s.repoDB.GetParticipantByID(ctx, in.ID)
	if errors.Is(err, goerror.ErrNotFound) {
		return goerror.NewBusiness("Participant not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get participant by id", "participant_id", in.ID, "error", err)
		return goerror.NewServer(err)
	}

	nameChanged := in.FullName != ""
	fullName := p.FullName()
	if nameChanged {
		fullName = in.FullName
	}

	if p.Pending != nil {
		err = s.repoDB.UpdatePendingVoterName(ctx, p.Pending.ID, fullName)
	} else {
		err = s.repoDB.UpdateVoterName(ctx, p.Voter.ID, fullName)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo update participant name", "participant_id", in.ID, "error", err)
		return goerror.NewServer(err)
	}

	email := p.Email()
	s.goroutine.Go(context.WithoutCancel(ctx), func(ctx context.Context) error {
		if err := s.notifier.SendProfileUpdated(ctx, email, fullName, nameChanged); err != nil {
			slog.ErrorContext(ctx, "failed to send profile update email", "participant_id", in.ID, "error", err)
		}
		return nil
	})

	return nil
}
