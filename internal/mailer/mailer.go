// Package mailer delivers one-time-password emails. The actual transport is
// an injected function so the services never depend on SMTP directly.
package mailer

import (
	"bytes"
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"net/smtp"
	"text/template"
)

// SendFunc delivers one email. Implementations own retries and transport
// concerns; callers treat delivery as fire-and-forget.
type SendFunc func(ctx context.Context, to, subject, body string) error

type otpParams struct {
	Email   string
	OTP     string
	Purpose string
	AppName string
}

const otpTemplate = `Hi {{.Email}},

This is your {{.Purpose}} code for {{.AppName}}:

{{.OTP}}

If you did not request this code, you can ignore this email.

Regards,

{{.AppName}}
`

var otpTmpl = template.Must(template.New("otp").Parse(otpTemplate))

type Mailer struct {
	send    SendFunc
	appName string
}

func New(send SendFunc, appName string) *Mailer {
	return &Mailer{send: send, appName: appName}
}

// SendOTP renders the OTP body and hands it to the transport.
func (m *Mailer) SendOTP(ctx context.Context, to, subject, purpose, otp string) error {
	var body bytes.Buffer
	err := otpTmpl.Execute(&body, otpParams{
		Email:   to,
		OTP:     otp,
		Purpose: purpose,
		AppName: m.appName,
	})
	if err != nil {
		return fmt.Errorf("failed to render otp email: %w", err)
	}

	return m.send(ctx, to, subject, body.String())
}

// GenerateOTP returns a random 6-digit one-time password.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// SMTPSender returns a SendFunc that delivers mail over authenticated SMTP.
func SMTPSender(host string, port int, from, password string) SendFunc {
	return func(ctx context.Context, to, subject, body string) error {
		msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", from, to, subject, body)
		auth := smtp.PlainAuth("", from, password, host)
		addr := fmt.Sprintf("%s:%d", host, port)
		return smtp.SendMail(addr, auth, from, []string{to}, []byte(msg))
	}
}
