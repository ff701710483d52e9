package service

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"taskcadence/internal/config"
)

// EmailSender delivers generated content over SMTP. With no host
// configured it degrades to log-only delivery, which keeps local
// environments runnable without a mail relay.
type EmailSender struct {
	cfg    config.SMTPConfig
	logger *zap.Logger
}

func NewEmailSender(cfg config.SMTPConfig, logger *zap.Logger) *EmailSender {
	return &EmailSender{
		cfg:    cfg,
		logger: logger,
	}
}

func (s *EmailSender) Send(ctx context.Context, to, subject, body string) error {
	if s.cfg.Host == "" {
		s.logger.Info("SMTP host not configured, logging email instead of sending",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Int("body_size", len(body)),
		)
		return nil
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	msg := buildMessage(s.cfg.From, to, subject, body)

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}

	s.logger.Info("Email sent",
		zap.String("to", to),
		zap.String("subject", subject),
	)
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
