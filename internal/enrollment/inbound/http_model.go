package inbound

import "net/http"

type RegisterRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Pincode  string `json:"pincode"`
}

type RegisterResponse struct {
	Email string `json:"email"`
}

func (RegisterResponse) StatusCode() int {
	return http.StatusCreated
}

func (RegisterResponse) Message() string {
	return "Registration successful. Please check your email for the verification code."
}

type OtpVerifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type OtpResendRequest struct {
	Email string `json:"email"`
}

type OtpResendResponse struct{}

func (OtpResendResponse) Message() string {
	return "A new verification code has been sent to your email."
}

type OtpCheckRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type OtpCheckResponse struct {
	Match bool `json:"match"`
}

type ApproveResponse struct {
	VoterID string `json:"voter_id"`
}

func (ApproveResponse) Message() string {
	return "Registration approved and voter credentials provisioned."
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

type UpdateDetailsRequest struct {
	FullName string `json:"full_name"`
}
