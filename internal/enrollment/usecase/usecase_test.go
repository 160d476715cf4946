package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/votegate/votegate/internal/enrollment/entity"
	"github.com/votegate/votegate/internal/pkg/config"
	"github.com/votegate/votegate/internal/pkg/goerror"
	"github.com/votegate/votegate/internal/pkg/goroutine"
	"github.com/votegate/votegate/internal/pkg/hash"
	"github.com/votegate/votegate/internal/pkg/idempotency"
	"github.com/votegate/votegate/internal/pkg/instrument"
	"github.com/votegate/votegate/internal/pkg/keymat"
	"github.com/votegate/votegate/internal/pkg/validator"
)

type fakeRepo struct {
	mu       sync.Mutex
	pending  map[int64]*entity.PendingVoter
	voters   map[int64]*entity.Voter
	verified []int64
	deleted  []int64

	approveErr error
	deleteErr  error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		pending: map[int64]*entity.PendingVoter{},
		voters:  map[int64]*entity.Voter{},
	}
}

func (r *fakeRepo) GetPendingVoterByEmail(_ context.Context, email string) (*entity.PendingVoter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, pv := range r.pending {
		if pv.Email == email {
			cp := *pv
			return &cp, nil
		}
	}
	return nil, goerror.ErrNotFound
}

func (r *fakeRepo) GetPendingVoterByID(_ context.Context, id int64) (*entity.PendingVoter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pv, ok := r.pending[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	cp := *pv
	return &cp, nil
}

func (r *fakeRepo) GetVoterByEmail(_ context.Context, email string) (*entity.Voter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.voters {
		if v.Email == email {
			cp := *v
			return &cp, nil
		}
	}
	return nil, goerror.ErrNotFound
}

func (r *fakeRepo) GetParticipantByID(_ context.Context, id int64) (*entity.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if pv, ok := r.pending[id]; ok && pv.Status == entity.ApprovalStatusPending {
		cp := *pv
		return &entity.Participant{Pending: &cp}, nil
	}
	if v, ok := r.voters[id]; ok {
		cp := *v
		return &entity.Participant{Voter: &cp}, nil
	}
	return nil, goerror.ErrNotFound
}

func (r *fakeRepo) CreatePendingVoter(_ context.Context, pv entity.PendingVoter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, exist := range r.pending {
		if exist.Email == pv.Email {
			return goerror.ErrConflict
		}
	}
	r.pending[pv.ID] = &pv
	return nil
}

func (r *fakeRepo) SetPendingVoterOtp(_ context.Context, id int64, otpHash string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	pv, ok := r.pending[id]
	if !ok {
		return goerror.ErrNotFound
	}
	pv.OtpHash = otpHash
	pv.OtpExpiresAt = &expiresAt
	return nil
}

func (r *fakeRepo) MarkPendingVoterVerified(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	pv, ok := r.pending[id]
	if !ok {
		return goerror.ErrNotFound
	}
	pv.IsVerified = true
	pv.OtpHash = ""
	pv.OtpExpiresAt = nil
	r.verified = append(r.verified, id)
	return nil
}

func (r *fakeRepo) UpdatePendingVoterName(_ context.Context, id int64, fullName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	pv, ok := r.pending[id]
	if !ok {
		return goerror.ErrNotFound
	}
	pv.FullName = fullName
	return nil
}

func (r *fakeRepo) UpdateVoterName(_ context.Context, id int64, fullName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.voters[id]
	if !ok {
		return goerror.ErrNotFound
	}
	v.FullName = fullName
	return nil
}

func (r *fakeRepo) ApprovePendingVoter(_ context.Context, voter entity.Voter, pendingID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.approveErr != nil {
		return r.approveErr
	}
	pv, ok := r.pending[pendingID]
	if !ok || pv.Status != entity.ApprovalStatusPending {
		return goerror.ErrNotFound
	}
	pv.Status = entity.ApprovalStatusApproved
	r.voters[voter.ID] = &voter
	return nil
}

func (r *fakeRepo) DeletePendingVoter(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.pending[id]; !ok {
		return goerror.ErrNotFound
	}
	delete(r.pending, id)
	r.deleted = append(r.deleted, id)
	return nil
}

type sentMail struct {
	kind  string
	email string
	value string
}

type fakeNotifier struct {
	mu           sync.Mutex
	sent         []sentMail
	otpErr       error
	rejectionErr error
}

func (n *fakeNotifier) record(kind, email, value string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMail{kind: kind, email: email, value: value})
}

func (n *fakeNotifier) SendOtp(_ context.Context, email, _, code string) error {
	if n.otpErr != nil {
		return n.otpErr
	}
	n.record("otp", email, code)
	return nil
}

func (n *fakeNotifier) SendApproval(_ context.Context, email, _, voterID string) error {
	n.record("approval", email, voterID)
	return nil
}

func (n *fakeNotifier) SendRejection(_ context.Context, email, _, reason string) error {
	if n.rejectionErr != nil {
		return n.rejectionErr
	}
	n.record("rejection", email, reason)
	return nil
}

func (n *fakeNotifier) SendProfileUpdated(_ context.Context, email, fullName string, _ bool) error {
	n.record("profile_updated", email, fullName)
	return nil
}

func (n *fakeNotifier) byKind(kind string) []sentMail {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []sentMail
	for _, m := range n.sent {
		if m.kind == kind {
			out = append(out, m)
		}
	}
	return out
}

type fakeIdemp struct {
	execErr error
}

func (f *fakeIdemp) Acquire(context.Context, string, time.Duration) (idempotency.State, error) {
	return idempotency.StateNone, nil
}

func (f *fakeIdemp) MarkCompleted(context.Context, string, time.Duration) error { return nil }

func (f *fakeIdemp) MarkFailed(context.Context, string, time.Duration) error { return nil }

func (f *fakeIdemp) Exec(ctx context.Context, _ string, fn func(context.Context) error, _ ...idempotency.Option) error {
	if f.execErr != nil {
		return f.execErr
	}
	return fn(ctx)
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

type seqUID struct {
	mu   sync.Mutex
	next uint64
}

func (s *seqUID) Generate() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return s.next
}

type testEnv struct {
	uc       *Usecase
	repo     *fakeRepo
	notifier *fakeNotifier
	idemp    *fakeIdemp
	clock    *fakeClock
	hmac     hash.Hash
	mgr      *goroutine.Manager
}

const testConfigYAML = `
modules:
  enrollment:
    otp_ttl_minutes: 5
    otp_bypass_enabled: false
    otp_bypass_code: "1"
`

func newTestEnv(t *testing.T, configYAML string) *testEnv {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(configYAML))
	if err != nil {
		t.Fatalf("failed to build config: %v", err)
	}

	v10, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("failed to build validator: %v", err)
	}

	env := &testEnv{
		repo:     newFakeRepo(),
		notifier: &fakeNotifier{},
		idemp:    &fakeIdemp{},
		clock:    &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
		hmac:     hash.NewHMACSHA256("test-hmac-secret"),
		mgr:      goroutine.NewManager(4),
	}

	env.uc = New(Dependency{
		RepoDB:      env.repo,
		Notifier:    env.notifier,
		Idempotency: env.idemp,
		Validator:   v10,
		Config:      cfg,
		HMAC:        env.hmac,
		Bcrypt:      hash.NewBcrypt(4, ""),
		Argon2ID:    hash.NewArgon2id(""),
		Provisioner: keymat.NewAESGCMProvisioner(),
		UID:         &seqUID{},
		Clock:       env.clock,
		Instrument:  instrument.NewNoop(),
		Goroutine:   env.mgr,
	})

	return env
}

func (e *testEnv) seedPending(t *testing.T, pv entity.PendingVoter) *entity.PendingVoter {
	t.Helper()
	if pv.Status == entity.ApprovalStatusUnknown {
		pv.Status = entity.ApprovalStatusPending
	}
	e.repo.mu.Lock()
	defer e.repo.mu.Unlock()
	e.repo.pending[pv.ID] = &pv
	return &pv
}

func (e *testEnv) seedOtp(t *testing.T, id int64, code string, expiresAt time.Time) {
	t.Helper()
	codeHash, err := e.hmac.Hash(code)
	if err != nil {
		t.Fatalf("failed to hash otp: %v", err)
	}
	if err := e.repo.SetPendingVoterOtp(context.Background(), id, string(codeHash), expiresAt); err != nil {
		t.Fatalf("failed to seed otp: %v", err)
	}
}

func assertBusinessError(t *testing.T, err error, wantMsg string) {
	t.Helper()
	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected goerror, got %v", err)
	}
	if gerr.Msg() != wantMsg {
		t.Fatalf("expected message %q, got %q", wantMsg, gerr.Msg())
	}
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t, testConfigYAML)

	out, err := env.uc.Register(context.Background(), RegisterInput{
		FullName: "Jane Doe",
		Email:    "  Jane.Doe@Example.COM ",
		Password: "Secret123!",
		Pincode:  "12345",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if out.Email != "jane.doe@example.com" {
		t.Fatalf("expected normalized email, got %q", out.Email)
	}

	pv, err := env.repo.GetPendingVoterByEmail(context.Background(), "jane.doe@example.com")
	if err != nil {
		t.Fatalf("pending voter not stored: %v", err)
	}
	if pv.PasswordHash == "" || pv.PasswordHash == "Secret123!" {
		t.Fatal("password must be stored hashed")
	}
	if pv.PincodeHash == "" || pv.PincodeHash == "12345" {
		t.Fatal("pincode must be stored hashed")
	}
	if !pv.HasOtp() {
		t.Fatal("expected otp challenge on fresh registration")
	}

	sent := env.notifier.byKind("otp")
	if len(sent) != 1 {
		t.Fatalf("expected 1 otp email, got %d", len(sent))
	}
	if len(sent[0].value) != 6 {
		t.Fatalf("expected 6 digit otp, got %q", sent[0].value)
	}
	if !env.hmac.Verify(pv.OtpHash, sent[0].value) {
		t.Fatal("stored otp hash does not match the emailed code")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t, testConfigYAML)
	env.seedPending(t, entity.PendingVoter{ID: 7, Email: "jane@example.com", FullName: "Jane Doe"})

	_, err := env.uc.Register(context.Background(), RegisterInput{
		FullName: "Jane Doe",
		Email:    "jane@example.com",
		Password: "Secret123!",
		Pincode:  "12345",
	})
	assertBusinessError(t, err, "Email already registered")
}

func TestRegisterDuplicateOfApprovedVoter(t *testing.T) {
	env := newTestEnv(t, testConfigYAML)
	env.repo.voters[9] = &entity.Voter{ID: 9, Email: "jane@example.com"}

	_, err := env.uc.Register(context.Background(), RegisterInput{
		FullName: "Jane Doe",
		Email:    "jane@example.com",
		Password: "Secret123!",
		Pincode:  "12345",
	})
	assertBusinessError(t, err, "Email already registered")
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t, testConfigYAML)

	cases := []struct {
		name string
		in   RegisterInput
	}{
		{
			name: "short name",
			in:   RegisterInput{FullName: "Al", Email: "al@example.com", Password: "Secret123!", Pincode: "12345"},
		},
		{
			name: "digits in name",
			in:   RegisterInput{FullName: "Jane Doe 2", Email: "jane@example.com", Password: "Secret123!", Pincode: "12345"},
		},
		{
			name: "short password",
			in:   RegisterInput{FullName: "Jane Doe", Email: "jane@example.com", Password: "short", Pincode: "12345"},
		},
		{
			name: "pincode not five digits",
			in:   RegisterInput{FullName: "Jane Doe", Email: "jane@example.com", Password: "Secret123!", Pincode: "1234"},
		},
		{
			name: "bad email",
			in:   RegisterInput{FullName: "Jane Doe", Email: "not-an-email", Password: "Secret123!", Pincode: "12345"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.uc.Register(context.Background(), tc.in)
			var gerr *goerror.Error
			if !errors.As(err, &gerr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if gerr.StatusCode() != 422 {
				t.Fatalf("expected status 422, got %d", gerr.StatusCode())
			}
		})
	}
}

func TestOtpVerify(t *testing.T) {
	env := newTestEnv(t, testConfigYAML)
	pv := env.seedPending(t, entity.PendingVoter{ID: 1, Email: "jane@example.com", FullName: "Jane Doe"})
	env.seedOtp(t, pv.ID, "654321", env.clock.now.Add(5*time.Minute))

	if err := env.uc.OtpVerify(context.Background(), OtpVerifyInput{Email: "jane@example.com", Otp: "654321"}); err != nil {
		t.Fatalf("otp verify failed: %v", err)
	}

	stored, err := env.repo.GetPendingVoterByID(context.Background(), pv.ID)
	if err != nil {
		t.Fatalf("pending voter missing: %v", err)
	}
	if !stored.IsVerified {
		t.Fatal("expected pending voter to be verified")
	}
	if stored.HasOtp() {
		t.Fatal("expected otp challenge to be cleared after verification")
	}
}

func TestOtpVerifyMismatch(t *testing.T) {
	env := newTestEnv(t, testConfigYAML)
	pv := env.seedPending(t, entity.PendingVoter{ID: 1, Email: "jane@example.com"})
	env.seedOtp(t, pv.ID, "654321", env.clock.now.Add(5*time.Minute))

	err := env.uc.OtpVerify(context.Background(), OtpVerifyInput{Email: "jane@example.com", Otp: "111111"})
	assertBusinessError(t, err, "Verification code does not match")

	stored, _ := env.repo.GetPendingVoterByID(context.Background(), pv.ID)
	if stored.IsVerified {
		t.Fatal("mismatch must not verify the record")
	}
}

func TestOtpVerifyExpired(t *testing.T) {
	env := newTestEnv(t, testConfigYAML)
	pv := env.seedPending(t, entity.PendingVoter{ID: 1, Email: "jane@example.com"})
	env.seedOtp(t, pv.ID, "654321", env.clock.now.Add(-time.Minute))

	err := env.uc.OtpVerify(context.Background(), OtpVerifyInput{Email: "jane@example.com", Otp: "654321"})
	assertBusinessError(t, err, "Verification code has expired")
}

func TestOtpVerifyNoPendingChallenge(t *testing.T) {
	env := newTestEnv(t, testConfigYAML)
	env.seedPending(t, entity.PendingVoter{ID: 1, Email: "jane@example.com"})

	err := env.uc.OtpVerify(context.Background(), OtpVerifyInput{Email: "jane@example.com", Otp: "654321"})
	assertBusinessError(t, err, "No verification code pending")
}

func TestOtpVerifyBypassCode(t *testing.T) {
	bypassConfig := strings.Replace(testConfigYAML, "otp_bypass_enabled: false", "otp_bypass_enabled: true", 1)
	env := newTestEnv(t, bypassConfig)
	pv := env.seedPending(t, entity.PendingVoter{ID: 1, Email: "jane@example.com"})

	// No challenge was ever issued; the bypass code must still work.
	if err := env.uc.OtpVerify(context.Background(), OtpVerifyInput{Email: "jane@example.com", Otp: "1"}); err != nil {
		t.Fatalf("bypass verify failed: %v", err)
	}

	stored, _ := env.repo.GetPendingVoterByID(context.Background(), pv.ID)
	if !stored.IsVerified {
		t.Fatal("expected bypass code to verify the record")
	}
}

func TestOtpVerifyBypassDisabled(t *testing.T) {
	env := newTestEnv(t, testConfigYAML)
	pv := env.seedPending(t, entity.PendingVoter{ID: 1, Email: "jane@example.com"})
	env.seedOtp(t, pv.ID, "654321", env.clock.now.Add(5*time.Minute))

	err := env.uc.OtpVerify(context.Background(), OtpVerifyInput{Email: "jane@example.com", Otp: "1"})
	assertBusinessError(t, err, "Verification code does not match")
}

func TestOtpResend(t *testing.T) {
	env := newTestEnv(t, testConfigYAML)
	pv := env.seedPending(t, entity.PendingVoter{ID: 1, Email: "jane@example.com", FullName: "Jane Doe"})
	env.seedOtp(t, pv.ID, "654321", env.clock.now.Add(5*time.Minute))

	if err := env.uc.OtpResend(context.Background(), OtpResendInput{Email: "jane@example.com"}); err != nil {
		t.Fatalf("otp resend failed: %v", err)
	}

	stored, _ := env.repo.GetPendingVoterByID(context.Background(), pv.ID)
	if env.hmac.Verify(stored.OtpHash, "654321") {
		t.Fatal("expected resend to replace the previous code")
	}

	sent := env.notifier.byKind("otp")
	if len(sent) != 1 {
		t.Fatalf("expected 1 otp email, got %d", len(sent))
	}
	if !env.hmac.Verify(stored.OtpHash, sent[0].value) {
		t.Fatal("stored otp hash does not match the emailed code")
	}
}

func TestOtpResendAlreadyVerified(t *testing.T) {
	env := newTestEnv(t, testConfigYAML)
	env.seedPending(t, entity.PendingVoter{ID: 1, Email: "jane@example.com", IsVerified: true})

	err := env.uc.OtpResend(context.Background(), OtpResendInput{Email: "jane@example.com"})
	assertBusinessError(t, err, "Email already verified")
}

func TestOtpResendUnknownEmail(t *testing.T) {
	env := newTestEnv(t, testConfigYAML)

	err := env.uc.OtpResend(context.Background(), OtpResendInput{Email: "nobody@example.com"})
	assertBusinessError(t, err, "Registration not found")
}

func TestOtpCheck(t *testing.T) {
	env := newTestEnv(t, testConfigYAML)
	pv := env.seedPending(t, entity.PendingVoter{ID: 1, Email: "jane@example.com"})
	env.seedOtp(t, pv.ID, "654321", env.clock.now.Add(5*time.Minute))

	out, err := env.uc.OtpCheck(context.Background(), OtpCheckInput{Email: "jane@example.com", Otp: "654321"})
	if err != nil {
		t.Fatalf("otp check failed: %v", err)
	}
	if !out.Match {
		t.Fatal("expected matching code to report Match=true")
	}

	stored, _ := env.repo.GetPendingVoterByID(context.Background(), pv.ID)
	if stored.IsVerified {
		t.Fatal("otp check must not verify the record")
	}
	if !stored.HasOtp() {
		t.Fatal("otp check must not consume the challenge")
	}
}

func TestOtpCheckMismatch(t *testing.T) {
	env := newTestEnv(t, testConfigYAML)
	pv := env.seedPending(t, entity.PendingVoter{ID: 1, Email: "jane@example.com"})
	env.seedOtp(t, pv.ID, "654321", env.clock.now.Add(5*time.Minute))

	out, err := env.uc.OtpCheck(context.Background(), OtpCheckInput{Email: "jane@example.com", Otp: "111111"})
	if err != nil {
		t.Fatalf("otp check failed: %v", err)
	}
	if out.Match {
		t.Fatal("expected mismatched code to report Match=false")
	}
}

func TestOtpCheckExpired(t *testing.T) {
	env := newTestEnv(t, testConfigYAML)
	pv := env.seedPending(t, entity.PendingVoter{ID: 1, Email: "jane@example.com"})
	env.seedOtp(t, pv.ID, "654321", env.clock.now.Add(-time.Minute))

	_, err := env.uc.OtpCheck(context.Background(), OtpCheckInput{Email: "jane@example.com", Otp: "654321"})
	assertBusinessError(t, err, "Verification code has expired")
}

func TestApprove(t *testing.T) {
	env := newTestEnv(t, testConfigYAML)
	passwordHash, err := hash.NewBcrypt(4, "").Hash("Secret123!")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	env.seedPending(t, entity.PendingVoter{
		ID:           1,
		Email:        "jane@example.com",
		FullName:     "Jane Doe",
		PasswordHash: string(passwordHash),
		IsVerified:   true,
	})

	out, err := env.uc.Approve(context.Background(), ApproveInput{ID: 1})
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if !strings.HasPrefix(out.VoterID, "VG-") {
		t.Fatalf("expected voter id with VG- prefix, got %q", out.VoterID)
	}

	voter, err := env.repo.GetVoterByEmail(context.Background(), "jane@example.com")
	if err != nil {
		t.Fatalf("voter not created: %v", err)
	}
	if voter.Material.Salt == "" ||
		voter.Material.PublicKey.Ciphertext == "" ||
		voter.Material.PrivateKey.Ciphertext == "" ||
		voter.Material.SessionToken.Ciphertext == "" {
		t.Fatal("expected provisioned key material on the voter record")
	}

	stored, _ := env.repo.GetPendingVoterByID(context.Background(), 1)
	if stored.Status != entity.ApprovalStatusApproved {
		t.Fatalf("expected pending status approved, got %v", stored.Status)
	}

	if err := env.mgr.Wait(); err != nil {
		t.Fatalf("background tasks failed: %v", err)
	}
	if got := env.notifier.byKind("approval"); len(got) != 1 || got[0].value != out.VoterID {
		t.Fatalf("expected 1 approval email carrying the voter id, got %v", got)
	}
}

func TestApproveNotVerified(t *testing.T) {
	env := newTestEnv(t, testConfigYAML)
	env.seedPending(t, entity.PendingVoter{ID: 1, Email: "jane@example.com"})

	_, err := env.uc.Approve(context.Background(), ApproveInput{ID: 1})
	assertBusinessError(t, err, "Email not verified")
}

func TestApproveAlreadyApproved(t *testing.T) {
	env := newTestEnv(t, testConfigYAML)
	env.seedPending(t, entity.PendingVoter{
		ID:         1,
		Email:      "jane@example.com",
		IsVerified: true,
		Status:     entity.ApprovalStatusApproved,
	})

	_, err := env.uc.Approve(context.Background(), ApproveInput{ID: 1})
	assertBusinessError(t, err, "Registration already approved")
}

func TestApproveNotFound(t *testing.T) {
	env := newTestEnv(t, testConfigYAML)

	_, err := env.uc.Approve(context.Background(), ApproveInput{ID: 42})
	assertBusinessError(t, err, "Registration not found")
}

func TestApproveAlreadyInProgress(t *testing.T) {
	env := newTestEnv(t, testConfigYAML)
	env.idemp.execErr = idempotency.ErrAlreadyInProgress
	env.seedPending(t, entity.PendingVoter{ID: 1, Email: "jane@example.com", IsVerified: true})

	_, err := env.uc.Approve(context.Background(), ApproveInput{ID: 1})
	assertBusinessError(t, err, "Approval is already in progress")
}

func TestApproveTransactionFails(t *testing.T) {
	env := newTestEnv(t, testConfigYAML)
	env.repo.approveErr = errors.New("serialization conflict")
	env.seedPending(t, entity.PendingVoter{ID: 1, Email: "jane@example.com", IsVerified: true})

	_, err := env.uc.Approve(context.Background(), ApproveInput{ID: 1})
	if err == nil {
		t.Fatal("expected approve to surface the transaction failure")
	}

	if _, err := env.repo.GetVoterByEmail(context.Background(), "jane@example.com"); !errors.Is(err, goerror.ErrNotFound) {
		t.Fatal("failed approval must not leave a voter record")
	}
	if got := env.notifier.byKind("approval"); len(got) != 0 {
		t.Fatal("failed approval must not send an approval email")
	}
}

func TestReject(t *testing.T) {
	env := newTestEnv(t, testConfigYAML)
	env.seedPending(t, entity.PendingVoter{ID: 1, Email: "jane@example.com", FullName: "Jane Doe"})

	if err := env.uc.Reject(context.Background(), RejectInput{ID: 1, Reason: "Document mismatch"}); err != nil {
		t.Fatalf("reject failed: %v", err)
	}

	if _, err := env.repo.GetPendingVoterByID(context.Background(), 1); !errors.Is(err, goerror.ErrNotFound) {
		t.Fatal("expected pending record to be deleted")
	}
	if got := env.notifier.byKind("rejection"); len(got) != 1 || got[0].value != "Document mismatch" {
		t.Fatalf("expected 1 rejection email carrying the reason, got %v", got)
	}
}

func TestRejectNotificationFailureKeepsRecord(t *testing.T) {
	env := newTestEnv(t, testConfigYAML)
	env.notifier.rejectionErr = errors.New("smtp unavailable")
	env.seedPending(t, entity.PendingVoter{ID: 1, Email: "jane@example.com"})

	err := env.uc.Reject(context.Background(), RejectInput{ID: 1, Reason: "Document mismatch"})
	if err == nil {
		t.Fatal("expected reject to fail when notification fails")
	}

	if _, err := env.repo.GetPendingVoterByID(context.Background(), 1); err != nil {
		t.Fatal("record must be kept when the rejection email fails")
	}
}

func TestRejectReasonRequired(t *testing.T) {
	env := newTestEnv(t, testConfigYAML)
	env.seedPending(t, entity.PendingVoter{ID: 1, Email: "jane@example.com"})

	err := env.uc.Reject(context.Background(), RejectInput{ID: 1, Reason: "  "})
	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if gerr.StatusCode() != 422 {
		t.Fatalf("expected status 422, got %d", gerr.StatusCode())
	}

	if _, err := env.repo.GetPendingVoterByID(context.Background(), 1); err != nil {
		t.Fatal("record must be kept when the reason is invalid")
	}
}

func TestUpdateDetailsPending(t *testing.T) {
	env := newTestEnv(t, testConfigYAML)
	env.seedPending(t, entity.PendingVoter{ID: 1, Email: "jane@example.com", FullName: "Jane Doe"})

	if err := env.uc.UpdateDetails(context.Background(), UpdateDetailsInput{ID: 1, FullName: "Janet Doe"}); err != nil {
		t.Fatalf("update details failed: %v", err)
	}

	stored, _ := env.repo.GetPendingVoterByID(context.Background(), 1)
	if stored.FullName != "Janet Doe" {
		t.Fatalf("expected renamed pending voter, got %q", stored.FullName)
	}

	if err := env.mgr.Wait(); err != nil {
		t.Fatalf("background tasks failed: %v", err)
	}
	if got := env.notifier.byKind("profile_updated"); len(got) != 1 {
		t.Fatalf("expected 1 profile update email, got %d", len(got))
	}
}

func TestUpdateDetailsVoter(t *testing.T) {
	env := newTestEnv(t, testConfigYAML)
	env.repo.voters[9] = &entity.Voter{ID: 9, Email: "jane@example.com", FullName: "Jane Doe"}

	if err := env.uc.UpdateDetails(context.Background(), UpdateDetailsInput{ID: 9, FullName: "Janet Doe"}); err != nil {
		t.Fatalf("update details failed: %v", err)
	}

	if env.repo.voters[9].FullName != "Janet Doe" {
		t.Fatalf("expected renamed voter, got %q", env.repo.voters[9].FullName)
	}
}

func TestUpdateDetailsEmptyNameStillNotifies(t *testing.T) {
	env := newTestEnv(t, testConfigYAML)
	env.seedPending(t, entity.PendingVoter{ID: 1, Email: "jane@example.com", FullName: "Jane Doe"})

	if err := env.uc.UpdateDetails(context.Background(), UpdateDetailsInput{ID: 1}); err != nil {
		t.Fatalf("update details failed: %v", err)
	}

	stored, _ := env.repo.GetPendingVoterByID(context.Background(), 1)
	if stored.FullName != "Jane Doe" {
		t.Fatalf("empty input must keep the current name, got %q", stored.FullName)
	}

	if err := env.mgr.Wait(); err != nil {
		t.Fatalf("background tasks failed: %v", err)
	}
	if got := env.notifier.byKind("profile_updated"); len(got) != 1 {
		t.Fatalf("expected a notification even without a name change, got %d", len(got))
	}
}

func TestUpdateDetailsNotFound(t *testing.T) {
	env := newTestEnv(t, testConfigYAML)

	err := env.uc.UpdateDetails(context.Background(), UpdateDetailsInput{ID: 404, FullName: "Janet Doe"})
	assertBusinessError(t, err, "Participant not found")
}
