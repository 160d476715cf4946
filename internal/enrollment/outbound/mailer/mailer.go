// Package mailer sends enrollment notification emails over the mail provider.
package mailer

import (
	"context"
	"fmt"

	"github.com/votegate/votegate/internal/pkg/instrument"
	"github.com/votegate/votegate/internal/pkg/mail"
	"go.opentelemetry.io/otel/codes"
)

type Mailer struct {
	client mail.Mail
	ins    instrument.Instrumentation
}

func NewMailer(client mail.Mail, ins instrument.Instrumentation) *Mailer {
	return &Mailer{client: client, ins: ins}
}

func (m *Mailer) send(ctx context.Context, spanName string, msg mail.Message) error {
	ctx, span := m.ins.Tracer("enrollment.outbound.mailer").Start(ctx, spanName)
	defer span.End()

	if err := m.client.Send(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

func (m *Mailer) SendOtp(ctx context.Context, email, fullName, code string) error {
	return m.send(ctx, "SendOtp", mail.Message{
		To:      []string{email},
		Subject: "Your VoteGate verification code",
		TextBody: fmt.Sprintf(
			"Hello %s,\n\nYour verification code is %s. It expires in 5 minutes.\n\nIf you did not register, ignore this email.",
			fullName, code,
		),
		HTMLBody: fmt.Sprintf(
			"<p>Hello %s,</p><p>Your verification code is <strong>%s</strong>. It expires in 5 minutes.</p><p>If you did not register, ignore this email.</p>",
			fullName, code,
		),
	})
}

func (m *Mailer) SendApproval(ctx context.Context, email, fullName, voterID string) error {
	return m.send(ctx, "SendApproval", mail.Message{
		To:      []string{email},
		Subject: "Your VoteGate registration has been approved",
		TextBody: fmt.Sprintf(
			"Hello %s,\n\nYour registration has been approved. Your voter ID is %s. Keep it safe.",
			fullName, voterID,
		),
		HTMLBody: fmt.Sprintf(
			"<p>Hello %s,</p><p>Your registration has been approved. Your voter ID is <strong>%s</strong>. Keep it safe.</p>",
			fullName, voterID,
		),
	})
}

func (m *Mailer) SendRejection(ctx context.Context, email, fullName, reason string) error {
	return m.send(ctx, "SendRejection", mail.Message{
		To:      []string{email},
		Subject: "Your VoteGate registration has been rejected",
		TextBody: fmt.Sprintf(
			"Hello %s,\n\nYour registration has been rejected. Reason: %s",
			fullName, reason,
		),
		HTMLBody: fmt.Sprintf(
			"<p>Hello %s,</p><p>Your registration has been rejected.</p><p>Reason: %s</p>",
			fullName, reason,
		),
	})
}

func (m *Mailer) SendProfileUpdated(ctx context.Context, email, fullName string, nameChanged bool) error {
	subject := "Your VoteGate profile has been updated"
	text := fmt.Sprintf("Hello %s,\n\nYour profile has been updated by an administrator.", fullName)
	html := fmt.Sprintf("<p>Hello %s,</p><p>Your profile has been updated by an administrator.</p>", fullName)

	if nameChanged {
		text = fmt.Sprintf("Hello %s,\n\nYour name has been updated by an administrator.", fullName)
		html = fmt.Sprintf("<p>Hello %s,</p><p>Your name has been updated by an administrator.</p>", fullName)
	}

	return m.send(ctx, "SendProfileUpdated", mail.Message{
		To:       []string{email},
		Subject:  subject,
		TextBody: text,
		HTMLBody: html,
	})
}
