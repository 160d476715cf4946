package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/votegate/votegate/internal/pkg/clock"
	"github.com/votegate/votegate/internal/pkg/config"
	"github.com/votegate/votegate/internal/pkg/goerror"
	"github.com/votegate/votegate/internal/pkg/instrument"
	"github.com/votegate/votegate/internal/pkg/jwt"
	"github.com/votegate/votegate/internal/pkg/uid"
)

const routerTestConfig = `
app:
  maintenance:
    endpoints: ""
instrument:
  log_mask_fields: "password,otp"
`

type createdResponse struct {
	Email string `json:"email"`
}

func (createdResponse) StatusCode() int { return http.StatusCreated }

func newTestRouter(t *testing.T) (*Router, jwt.JWT) {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(routerTestConfig))
	if err != nil {
		t.Fatalf("failed to build config: %v", err)
	}

	signer, err := jwt.NewHS512(jwt.Config{
		Secret:    []byte(strings.Repeat("s", 64)),
		Issuer:    "votegate",
		Audiences: []string{"votegate-api"},
		TTL:       time.Hour,
		Clock:     clock.New(),
		UUID:      uid.NewUUID(),
	})
	if err != nil {
		t.Fatalf("failed to build jwt: %v", err)
	}

	r := NewRouter(Config{
		Config:     cfg,
		UUID:       uid.NewUUID(),
		JWT:        signer,
		Instrument: instrument.NewNoop(),
	})

	return r, signer
}

func doRequest(t *testing.T, r *Router, method, path, token string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestWelcomeEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doRequest(t, r, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestPublicEndpointSkipsAuthentication(t *testing.T) {
	r, _ := newTestRouter(t)
	r.POST("/api/v1/enrollment/register", func(*Request) (any, error) {
		return createdResponse{Email: "jane@example.com"}, nil
	})

	rec := doRequest(t, r, http.MethodPost, "/api/v1/enrollment/register", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}

	var env struct {
		Data createdResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if env.Data.Email != "jane@example.com" {
		t.Fatalf("unexpected payload: %s", rec.Body.String())
	}
}

func TestProtectedEndpointRequiresToken(t *testing.T) {
	r, _ := newTestRouter(t)
	r.POST("/api/v1/enrollment/approvals/:id/approve", func(*Request) (any, error) {
		return nil, nil
	})

	rec := doRequest(t, r, http.MethodPost, "/api/v1/enrollment/approvals/1/approve", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	rec = doRequest(t, r, http.MethodPost, "/api/v1/enrollment/approvals/1/approve", "not-a-jwt")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a malformed token, got %d", rec.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	r, signer := newTestRouter(t)
	r.POST("/api/v1/enrollment/approvals/:id/approve", func(*Request) (any, error) {
		return nil, nil
	}, RequireAdmin)

	voterToken, err := signer.Generate(7, "voter@votegate.io", "voter")
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	rec := doRequest(t, r, http.MethodPost, "/api/v1/enrollment/approvals/1/approve", voterToken)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin token, got %d", rec.Code)
	}

	adminToken, err := signer.Generate(1, "admin@votegate.io", jwt.RoleAdmin)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	rec = doRequest(t, r, http.MethodPost, "/api/v1/enrollment/approvals/1/approve", adminToken)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for admin token, got %d", rec.Code)
	}
}

func TestErrorCodec(t *testing.T) {
	r, _ := newTestRouter(t)
	r.POST("/api/v1/enrollment/register", func(*Request) (any, error) {
		return nil, goerror.NewBusiness("Email already registered", goerror.CodeConflict)
	})

	rec := doRequest(t, r, http.MethodPost, "/api/v1/enrollment/register", "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}

	var env struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if env.Message != "Email already registered" {
		t.Fatalf("unexpected message %q", env.Message)
	}
}

func TestErrorCodecMasksUnknownErrors(t *testing.T) {
	r, _ := newTestRouter(t)
	r.POST("/api/v1/enrollment/register", func(*Request) (any, error) {
		return nil, http.ErrBodyNotAllowed
	})

	rec := doRequest(t, r, http.MethodPost, "/api/v1/enrollment/register", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), http.ErrBodyNotAllowed.Error()) {
		t.Fatal("internal error details must not leak to clients")
	}
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	r, _ := newTestRouter(t)
	r.POST("/api/v1/enrollment/register", func(*Request) (any, error) {
		return nil, nil
	})

	rec := doRequest(t, r, http.MethodGet, "/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	rec = doRequest(t, r, http.MethodPut, "/api/v1/enrollment/register", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}
