package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/votegate/votegate/internal/enrollment/entity"
	"github.com/votegate/votegate/internal/pkg/goerror"
)

type RegisterInput struct {
	FullName string `validate:"required,min=5,max=100,alphaspace"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,password"`
	Pincode  string `validate:"required,pincode"`
}

type RegisterOutput struct {
	Email string
}

// Register creates a pending voter and issues the first OTP challenge. An
// email already present as a voter or a pending voter is rejected, including
// approved tombstones.
func (s *Usecase) Register(ctx context.Context, in RegisterInput) (*RegisterOutput, error) {
	ctx, span := s.startSpan(ctx, "Register")
	defer span.End()

	in.Email = normalizeEmail(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if _, err := s.repoDB.GetVoterByEmail(ctx, in.Email); err == nil {
		return nil, goerror.NewBusiness("Email already registered", goerror.CodeConflict)
	} else if !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get voter by email", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	if _, err := s.repoDB.GetPendingVoterByEmail(ctx, in.Email); err == nil {
		return nil, goerror.NewBusiness("Email already registered", goerror.CodeConflict)
	} else if !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get pending voter by email", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	passwordHash, err := s.bcrypt.Hash(in.Password)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		return nil, goerror.NewServer(err)
	}

	pincodeHash, err := s.argon2id.Hash(in.Pincode)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash pincode", "error", err)
		return nil, goerror.NewServer(err)
	}

	pv := entity.PendingVoter{
		ID:           int64(s.uid.Generate()),
		FullName:     in.FullName,
		Email:        in.Email,
		PasswordHash: string(passwordHash),
		PincodeHash:  string(pincodeHash),
		Status:       entity.ApprovalStatusPending,
	}

	if err := s.repoDB.CreatePendingVoter(ctx, pv); err != nil {
		if errors.Is(err, goerror.ErrConflict) {
			return nil, goerror.NewBusiness("Email already registered", goerror.CodeConflict)
		}
		slog.ErrorContext(ctx, "failed to repo create pending voter", "email", pv.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.issueOtp(ctx, &pv); err != nil {
		return nil, err
	}

	return &RegisterOutput{Email: pv.Email}, nil
}
