package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/votegate/votegate/internal/enrollment/entity"
	"github.com/votegate/votegate/internal/pkg/clock"
	"github.com/votegate/votegate/internal/pkg/config"
	"github.com/votegate/votegate/internal/pkg/goerror"
	"github.com/votegate/votegate/internal/pkg/goroutine"
	"github.com/votegate/votegate/internal/pkg/hash"
	"github.com/votegate/votegate/internal/pkg/idempotency"
	"github.com/votegate/votegate/internal/pkg/instrument"
	"github.com/votegate/votegate/internal/pkg/keymat"
	"github.com/votegate/votegate/internal/pkg/otp"
	"github.com/votegate/votegate/internal/pkg/uid"
	"github.com/votegate/votegate/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type repoDB interface {
	GetPendingVoterByEmail(ctx context.Context, email string) (*entity.PendingVoter, error)
	GetPendingVoterByID(ctx context.Context, id int64) (*entity.PendingVoter, error)
	GetVoterByEmail(ctx context.Context, email string) (*entity.Voter, error)
	GetParticipantByID(ctx context.Context, id int64) (*entity.Participant, error)

	CreatePendingVoter(ctx context.Context, pv entity.PendingVoter) error

	SetPendingVoterOtp(ctx context.Context, id int64, otpHash string, expiresAt time.Time) error
	MarkPendingVoterVerified(ctx context.Context, id int64) error
	UpdatePendingVoterName(ctx context.Context, id int64, fullName string) error
	UpdateVoterName(ctx context.Context, id int64, fullName string) error

	ApprovePendingVoter(ctx context.Context, voter entity.Voter, pendingID int64) error
	DeletePendingVoter(ctx context.Context, id int64) error
}

type notifier interface {
	SendOtp(ctx context.Context, email, fullName, code string) error
	SendApproval(ctx context.Context, email, fullName, voterID string) error
	SendRejection(ctx context.Context, email, fullName, reason string) error
	SendProfileUpdated(ctx context.Context, email, fullName string, nameChanged bool) error
}

type Usecase struct {
	repoDB      repoDB
	notifier    notifier
	idemp       idempotency.Idempotency
	validator   validator.Validator
	cfg         config.Config
	hmac        hash.Hash
	bcrypt      hash.Hash
	argon2id    hash.Hash
	provisioner keymat.Provisioner
	uid         uid.NumberID
	clock       clock.Clocker
	ins         instrument.Instrumentation
	goroutine   *goroutine.Manager
}

type Dependency struct {
	RepoDB      repoDB
	Notifier    notifier
	Idempotency idempotency.Idempotency
	Validator   validator.Validator
	Config      config.Config
	HMAC        hash.Hash
	Bcrypt      hash.Hash
	Argon2ID    hash.Hash
	Provisioner keymat.Provisioner
	UID         uid.NumberID
	Clock       clock.Clocker
	Instrument  instrument.Instrumentation
	Goroutine   *goroutine.Manager
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:      dep.RepoDB,
		notifier:    dep.Notifier,
		idemp:       dep.Idempotency,
		validator:   dep.Validator,
		cfg:         dep.Config,
		hmac:        dep.HMAC,
		bcrypt:      dep.Bcrypt,
		argon2id:    dep.Argon2ID,
		provisioner: dep.Provisioner,
		uid:         dep.UID,
		clock:       dep.Clock,
		ins:         dep.Instrument,
		goroutine:   dep.Goroutine,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("enrollment.usecase").Start(ctx, name)
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

// issueOtp generates a fresh code, stores its hash with expiry on the pending
// record, and sends the plaintext to the voter's email. Delivery failure is
// logged and swallowed so registration and resend still succeed.
func (s *Usecase) issueOtp(ctx context.Context, pv *entity.PendingVoter) error {
	code, err := otp.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp", "pending_id", pv.ID, "error", err)
		return goerror.NewServer(err)
	}

	codeHash, err := s.hmac.Hash(code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otp", "pending_id", pv.ID, "error", err)
		return goerror.NewServer(err)
	}

	expiresAt := s.clock.Now().Add(s.cfg.GetMinute("modules.enrollment.otp_ttl_minutes"))
	if err := s.repoDB.SetPendingVoterOtp(ctx, pv.ID, string(codeHash), expiresAt); err != nil {
		slog.ErrorContext(ctx, "failed to repo set pending voter otp", "pending_id", pv.ID, "error", err)
		return goerror.NewServer(err)
	}

	// Plaintext is logged for observability only and masked via
	// instrument.log_mask_fields; it is never persisted.
	slog.InfoContext(ctx, "otp issued", "pending_id", pv.ID, "otp", code)

	if err := s.notifier.SendOtp(ctx, pv.Email, pv.FullName, code); err != nil {
		slog.ErrorContext(ctx, "failed to send otp email", "pending_id", pv.ID, "error", err)
	}

	return nil
}

// checkOtp applies the verification rules without touching the store. The
// bypass code short-circuits every check when enabled in configuration.
func (s *Usecase) checkOtp(ctx context.Context, pv *entity.PendingVoter, code string) (bool, error) {
	if s.cfg.GetBool("modules.enrollment.otp_bypass_enabled") &&
		code == s.cfg.GetString("modules.enrollment.otp_bypass_code") {
		slog.WarnContext(ctx, "otp bypass code used", "pending_id", pv.ID)
		return true, nil
	}

	if !pv.HasOtp() {
		return false, goerror.NewBusiness("No verification code pending", goerror.CodeInvalidFormat)
	}

	if s.clock.Now().After(*pv.OtpExpiresAt) {
		return false, goerror.NewBusiness("Verification code has expired", goerror.CodeInvalidFormat)
	}

	return s.hmac.Verify(pv.OtpHash, code), nil
}
