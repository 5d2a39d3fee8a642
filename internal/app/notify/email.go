package notify

import (
	"strings"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	apierrors "clipscribe/internal/api/errors"
	"clipscribe/internal/config"
)

// Mailer sends one plain-text message to a single recipient.
type Mailer interface {
	Send(to, subject, body string) error
}

// EmailSender delivers mail over an authenticated SMTP submission connection.
type EmailSender struct {
	cfg  config.SMTPConfig
	dial func(m ...*gomail.Message) error
	log  *zap.SugaredLogger
}

// NewEmailSender creates an EmailSender. Missing credentials are reported on
// Send, not here, so the server can start without mail configured.
func NewEmailSender(cfg config.SMTPConfig, log *zap.SugaredLogger) *EmailSender {
	dialer := gomail.NewDialer(cfg.Server, cfg.Port, cfg.Email, cfg.Password)
	return &EmailSender{cfg: cfg, dial: dialer.DialAndSend, log: log}
}

func (s *EmailSender) Send(to, subject, body string) error {
	if s.cfg.Email == "" || s.cfg.Password == "" {
		return apierrors.NewNotificationError(
			"Email not configured. Please set SMTP_EMAIL and SMTP_PASSWORD in your .env file.")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.Email)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dial(m); err != nil {
		s.log.Warnw("email delivery failed", "to", to, "error", err)
		if isAuthFailure(err) {
			return apierrors.NewNotificationError(
				"Mail authentication failed. Make sure you're using an App Password, " +
					"not your regular account password.")
		}
		return apierrors.NewNotificationError("Failed to send email: " + err.Error())
	}
	return nil
}

// isAuthFailure matches the SMTP 535 rejection Gmail and most providers
// return for bad or non-app-specific credentials.
func isAuthFailure(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "535") ||
		strings.Contains(msg, "Username and Password not accepted")
}
