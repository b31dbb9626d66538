package utils

import (
	"fmt"
	"net/smtp"

	"gig-roster-api/core/config"
	"gig-roster-api/core/logger"
)

// Mailer sends templated messages. Delivery guarantees are the SMTP
// provider's problem; callers only get a success/failure signal.
type Mailer interface {
	SendInvitationEmail(recipientEmail, recipientName, inviterName, gigTitle, magicLink string) error
	SendNotificationEmail(recipientEmail, subject, body string) error
}

type smtpMailer struct {
	cfg config.SMTPConfig
}

func NewSMTPMailer(cfg config.SMTPConfig) Mailer {
	return &smtpMailer{cfg: cfg}
}

func (m *smtpMailer) auth() smtp.Auth {
	if m.cfg.Username == "" {
		return nil
	}
	return smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
}

func (m *smtpMailer) send(to, subject, body string) error {
	sender := m.cfg.Sender
	if sender == "" {
		sender = "no-reply@localhost"
		logger.Warn("SMTP_SENDER not set, using default sender", "sender", sender)
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	msg := []byte(
		fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n", sender, to, subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/plain; charset=UTF-8\r\n\r\n" +
			body,
	)

	if err := smtp.SendMail(addr, m.auth(), sender, []string{to}, msg); err != nil {
		logger.Error("SMTP send error", "to", to, "error", err)
		return err
	}
	return nil
}

func (m *smtpMailer) SendInvitationEmail(recipientEmail, recipientName, inviterName, gigTitle, magicLink string) error {
	greeting := "Hi there"
	if recipientName != "" {
		greeting = "Hi " + recipientName
	}

	subject := fmt.Sprintf("You've been invited to play: %s", gigTitle)
	body := fmt.Sprintf(
		"%s,\n\n%s has invited you to play the gig '%s'.\n\nView the details and respond here:\n%s\n\nThe GigRoster Team",
		greeting, inviterName, gigTitle, magicLink,
	)

	return m.send(recipientEmail, subject, body)
}

func (m *smtpMailer) SendNotificationEmail(recipientEmail, subject, body string) error {
	return m.send(recipientEmail, subject, body)
}
