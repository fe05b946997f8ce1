package service

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/codeformaine/codecourse/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAILER
// ══════════════════════════════════════════════════════════════════════════════

// Mailer sends outbound email. Delivery is best effort everywhere it is
// used: invites and reach-outs log their row first and then attempt the
// send, so a mail failure never fails the operation.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// ─────────────────────────────────────────────────────────────────────────────
// SMTP Mailer
// ─────────────────────────────────────────────────────────────────────────────

// SMTPConfig holds SMTP relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Addr returns the relay address in "host:port" form.
func (c SMTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	config SMTPConfig
	log    *logger.Logger
}

// NewSMTPMailer creates a new SMTPMailer.
func NewSMTPMailer(cfg SMTPConfig, log *logger.Logger) *SMTPMailer {
	return &SMTPMailer{
		config: cfg,
		log:    log.With(logger.Component("mailer")),
	}
}

// Send delivers one message. The context is honored only up to the dial;
// net/smtp has no per-operation deadline hooks.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := strings.Join([]string{
		"From: " + m.config.From,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	auth := smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	if err := smtp.SendMail(m.config.Addr(), auth, m.config.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}

	m.log.Info("mail sent", logger.String("to", to), logger.String("subject", subject))
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Log Mailer
// ─────────────────────────────────────────────────────────────────────────────

// LogMailer writes would-be mail to the log. Used in development and as the
// fallback when no SMTP relay is configured.
type LogMailer struct {
	log *logger.Logger
}

// NewLogMailer creates a new LogMailer.
func NewLogMailer(log *logger.Logger) *LogMailer {
	return &LogMailer{log: log.With(logger.Component("mailer"))}
}

// Send logs the message instead of delivering it.
func (m *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	m.log.Info("mail suppressed (no relay configured)",
		logger.String("to", to),
		logger.String("subject", subject),
		logger.Int("body_bytes", len(body)),
	)
	return nil
}
