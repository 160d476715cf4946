package inbound

import (
	"context"

	"github.com/votegate/votegate/internal/enrollment/usecase"
	"github.com/votegate/votegate/internal/pkg/router"
)

type uc interface {
	Register(ctx context.Context, in usecase.RegisterInput) (*usecase.RegisterOutput, error)
	OtpVerify(ctx context.Context, in usecase.OtpVerifyInput) error
	OtpResend(ctx context.Context, in usecase.OtpResendInput) error
	OtpCheck(ctx context.Context, in usecase.OtpCheckInput) (*usecase.OtpCheckOutput, error)

	Approve(ctx context.Context, in usecase.ApproveInput) (*usecase.ApproveOutput, error)
	Reject(ctx context.Context, in usecase.RejectInput) error
	UpdateDetails(ctx context.Context, in usecase.UpdateDetailsInput) error
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Self-registration & email verification
	r.POST("/api/v1/enrollment/register", end.Register)
	r.POST("/api/v1/enrollment/otp/verify", end.OtpVerify)
	r.POST("/api/v1/enrollment/otp/resend", end.OtpResend)
	r.POST("/api/v1/enrollment/otp/check", end.OtpCheck)

	// Admin review (need authenticated & admin role)
	r.POST("/api/v1/enrollment/approvals/:id/approve", end.Approve, router.RequireAdmin)
	r.POST("/api/v1/enrollment/approvals/:id/reject", end.Reject, router.RequireAdmin)
	r.PUT("/api/v1/enrollment/participants/:id", end.UpdateDetails, router.RequireAdmin)
}
