package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/votegate/votegate/internal/pkg/goerror"
)

type OtpResendInput struct {
	Email string `validate:"required,email"`
}

// OtpResend issues a fresh OTP for an unverified pending voter, replacing any
// previous code.
func (s *Usecase) OtpResend(ctx context.Context, in OtpResendInput) error {
	ctx, span := s.startSpan(ctx, "OtpResend")
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

	if pv.IsVerified {
		return goerror.NewBusiness("Email already verified", goerror.CodeInvalidFormat)
	}

	return s.issueOtp(ctx, pv)
}
