package email

import (
	"fmt"
	"log/slog"

	"gopkg.in/gomail.v2"
)

// Sender delivers transactional mail. A nil *Sender is valid and silently
// skips sending, so environments without SMTP configured still work.
type Sender struct {
	dialer *gomail.Dialer
	from   string
	appURL string
}

// NewSender builds a sender, or returns nil when no SMTP host is configured.
func NewSender(host string, port int, user, pass, from, appURL string) *Sender {
	if host == "" {
		return nil
	}
	return &Sender{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   from,
		appURL: appURL,
	}
}

// SendVerification mails the email-verification link. Delivery runs in the
// background; a failure is logged, never surfaced to the signup flow.
func (s *Sender) SendVerification(to, verificationToken string) {
	if s == nil {
		return
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Verify your email")
	m.SetBody("text/html", fmt.Sprintf(
		`<p>Welcome! Confirm your email by opening the link below.</p>
<p><a href="%s/api/auth/verify?token=%s">Verify email</a></p>`,
		s.appURL, verificationToken,
	))

	go func() {
		if err := s.dialer.DialAndSend(m); err != nil {
			slog.Error("failed to send verification email", "to", to, "error", err)
		}
	}()
}
