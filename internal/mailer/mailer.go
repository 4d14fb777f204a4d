// Package mailer sends transactional email over SMTP.
package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/bomalink/bomalink/internal/config"
)

// Mailer is satisfied by the SMTP sender and by test fakes.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

type SMTP struct {
	host   string
	port   int
	user   string
	pass   string
	sender string
}

func NewSMTP(cfg *config.Config) *SMTP {
	return &SMTP{
		host:   cfg.SMTPHost,
		port:   cfg.SMTPPort,
		user:   cfg.SMTPUser,
		pass:   cfg.SMTPPass,
		sender: cfg.SMTPSender,
	}
}

func (s *SMTP) Send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.sender)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(s.host, s.port, s.user, s.pass)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("mailer: send to %s: %w", to, err)
	}

	return nil
}

// PasswordResetHTML renders the reset-link email body.
func PasswordResetHTML(resetURL string) string {
	return fmt.Sprintf(`
		<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
			<h2>Reset Your Password</h2>
			<p>We received a request to reset your password. Click the link below to choose a new one. The link is valid for 24 hours and can only be used once.</p>
			<p><a href="%s">Reset password</a></p>
			<p>If you did not request a password reset, you can ignore this email.</p>
		</div>`, resetURL)
}
