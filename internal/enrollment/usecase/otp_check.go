package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/votegate/votegate/internal/pkg/goerror"
)

type OtpCheckInput struct {
	Email string `validate:"required,email"`
	Otp   string `validate:"required"`
}

type OtpCheckOutput struct {
	Match bool
}

// OtpCheck applies the same rules as OtpVerify but never mutates the record:
// a mismatch is reported as Match=false, while missing and expired challenges
// still fail the same way verification does.
func (s *Usecase) OtpCheck(ctx context.Context, in OtpCheckInput) (*OtpCheckOutput, error) {
	ctx, span := s.startSpan(ctx, "OtpCheck")
	defer span.End()

	in.Email = normalizeEmail(in.Email)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	pv, err := s.repoDB.GetPendingVoterByEmail(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("Registration not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get pending voter by email", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	match, err := s.checkOtp(ctx, pv, in.Otp)
	if err != nil {
		return nil, err
	}

	return &OtpCheckOutput{Match: match}, nil
}
