package mail

import (
	"context"
	"fmt"
	"net/smtp"

	"go.uber.org/zap"
)

// Sender delivers outbound mail. Usecases depend on this interface so
// tests can substitute a mock.
type Sender interface {
	SendVerificationCode(ctx context.Context, to, code string) error
}

// Config holds SMTP server configuration.
type Config struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
}

// SMTPSender sends mail through a plain-auth SMTP relay.
type SMTPSender struct {
	cfg Config
	log *zap.Logger
}

// NewSMTPSender creates a new SMTP-backed sender.
func NewSMTPSender(cfg Config, log *zap.Logger) *SMTPSender {
	return &SMTPSender{cfg: cfg, log: log}
}

// SendVerificationCode emails the verification code to the recipient.
func (s *SMTPSender) SendVerificationCode(ctx context.Context, to, code string) error {
	subject := "Verification Code"
	body := fmt.Sprintf("Your verification code is: %s", code)

	if err := s.send(to, subject, body); err != nil {
		s.log.Error("failed to send verification email",
			zap.String("to", to),
			zap.Error(err),
		)
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	s.log.Info("verification email sent", zap.String("to", to))
	return nil
}

func (s *SMTPSender) send(to, subject, body string) error {
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	msg := fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, s.cfg.FromAddress)
	msg += fmt.Sprintf("To: %s\r\n", to)
	msg += fmt.Sprintf("Subject: %s\r\n", subject)
	msg += "MIME-Version: 1.0\r\n"
	msg += "Content-Type: text/plain; charset=UTF-8\r\n\r\n"
	msg += body + "\r\n"

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	return smtp.SendMail(addr, auth, s.cfg.FromAddress, []string{to}, []byte(msg))
}
