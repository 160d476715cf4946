package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/votegate/votegate/internal/pkg/goerror"
)

type OtpVerifyInput struct {
	Email string `validate:"required,email"`
	Otp   string `validate:"required"`
}

// OtpVerify checks the supplied code and, on success, marks the pending voter
// as verified and clears the stored challenge.
func (s *Usecase) OtpVerify(ctx context.Context, in OtpVerifyInput) error {
	ctx, span := s.startSpan(ctx, "OtpVerify")
	defer span.End()

	in.Email = normalizeEmail(in.Email)

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	pv, err := s.repoDB.GetPendingVoterByEmail(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		return goerror.NewBusiness("Registration not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get pending voter by email", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	match, err := s.checkOtp(ctx, pv, in.Otp)
	if err != nil {
		return err
	}
	if !match {
		return goerror.NewBusiness("Verification code does not match", goerror.CodeInvalidFormat)
	}

	if err := s.repoDB.MarkPendingVoterVerified(ctx, pv.ID); err != nil {
		slog.ErrorContext(ctx, "failed to repo mark pending voter verified", "pending_id", pv.ID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
