package inbound

import (
	"github.com/votegate/votegate/internal/enrollment/usecase"
	"github.com/votegate/votegate/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for voter enrollment workflows.
type HTTPEndpoint struct {
	uc uc
}

// Register creates a new pending voter registration.
// @Summary Register voter
// @Description Creates a pending registration and sends a verification code to the email address.
// @Tags Enrollment
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration payload"
// @Success 201 {object} router.successResponse{data=RegisterResponse} "Registration created"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 409 {object} router.errorResponse "Email already registered"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/enrollment/register [post]
func (h *HTTPEndpoint) Register(r *router.Request) (any, error) {
	var req RegisterRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Register(r.Context(), usecase.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Pincode:  req.Pincode,
	})
	if err != nil {
		return nil, err
	}

	return RegisterResponse{Email: resp.Email}, nil
}

// OtpVerify confirms a registration email using a verification code.
// @Summary Verify email
// @Description Confirms the registrant's email address using the emailed verification code.
// @Tags Enrollment
// @Accept json
// @Param request body OtpVerifyRequest true "Verification payload"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid or expired code"
// @Failure 404 {object} router.errorResponse "Registration not found"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/enrollment/otp/verify [post]
func (h *HTTPEndpoint) OtpVerify(r *router.Request) (any, error) {
	var req OtpVerifyRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	return nil, h.uc.OtpVerify(r.Context(), usecase.OtpVerifyInput{
		Email: req.Email,
		Otp:   req.Code,
	})
}

// OtpResend issues and emails a fresh verification code.
// @Summary Resend verification code
// @Description Generates a new verification code for an unverified registration and emails it.
// @Tags Enrollment
// @Accept json
// @Produce json
// @Param request body OtpResendRequest true "Resend payload"
// @Success 200 {object} router.successResponse{data=OtpResendResponse} "Resend result"
// @Failure 400 {object} router.errorResponse "Email already verified"
// @Failure 404 {object} router.errorResponse "Registration not found"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/enrollment/otp/resend [post]
func (h *HTTPEndpoint) OtpResend(r *router.Request) (any, error) {
	var req OtpResendRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.OtpResend(r.Context(), usecase.OtpResendInput{Email: req.Email}); err != nil {
		return nil, err
	}

	return &OtpResendResponse{}, nil
}

// OtpCheck tests a verification code without consuming it.
// @Summary Check verification code
// @Description Reports whether the provided code matches the active verification code. Does not mark the email verified.
// @Tags Enrollment
// @Accept json
// @Produce json
// @Param request body OtpCheckRequest true "Check payload"
// @Success 200 {object} router.successResponse{data=OtpCheckResponse} "Check result"
// @Failure 400 {object} router.errorResponse "No code pending or code expired"
// @Failure 404 {object} router.errorResponse "Registration not found"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/enrollment/otp/check [post]
func (h *HTTPEndpoint) OtpCheck(r *router.Request) (any, error) {
	var req OtpCheckRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.OtpCheck(r.Context(), usecase.OtpCheckInput{
		Email: req.Email,
		Otp:   req.Code,
	})
	if err != nil {
		return nil, err
	}

	return OtpCheckResponse{Match: resp.Match}, nil
}

// Approve promotes a verified registration to an active voter.
// @Summary Approve registration
// @Description Provisions voter key material and atomically promotes the pending registration to the voter roll.
// @Tags Enrollment, Approvals
// @Security BearerAuth
// @Produce json
// @Param id path int true "Pending registration ID"
// @Success 200 {object} router.successResponse{data=ApproveResponse} "Approval result"
// @Failure 400 {object} router.errorResponse "Invalid path parameter"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden or email not verified"
// @Failure 404 {object} router.errorResponse "Registration not found"
// @Failure 409 {object} router.errorResponse "Already approved or approval in progress"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/enrollment/approvals/{id}/approve [post]
func (h *HTTPEndpoint) Approve(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.Approve(r.Context(), usecase.ApproveInput{ID: id})
	if err != nil {
		return nil, err
	}

	return ApproveResponse{VoterID: resp.VoterID}, nil
}

// Reject declines a registration and removes it after notifying the registrant.
// @Summary Reject registration
// @Description Emails the rejection reason to the registrant, then removes the pending registration.
// @Tags Enrollment, Approvals
// @Security BearerAuth
// @Accept json
// @Param id path int true "Pending registration ID"
// @Param request body RejectRequest true "Rejection payload"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 404 {object} router.errorResponse "Registration not found"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/enrollment/approvals/{id}/reject [post]
func (h *HTTPEndpoint) Reject(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	var req RejectRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	return nil, h.uc.Reject(r.Context(), usecase.RejectInput{
		ID:     id,
		Reason: req.Reason,
	})
}

// UpdateDetails edits a participant's profile, pending or approved.
// @Summary Update participant details
// @Description Updates the full name of a pending registration or an approved voter and notifies them.
// @Tags Enrollment, Approvals
// @Security BearerAuth
// @Accept json
// @Param id path int true "Participant ID"
// @Param request body UpdateDetailsRequest true "Update payload"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 404 {object} router.errorResponse "Participant not found"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/enrollment/participants/{id} [put]
func (h *HTTPEndpoint) UpdateDetails(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	var req UpdateDetailsRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	return nil, h.uc.UpdateDetails(r.Context(), usecase.UpdateDetailsInput{
		ID:       id,
		FullName: req.FullName,
	})
}
