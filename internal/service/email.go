package service

import (
	"context"
	"fmt"

	"farmshare-backend/internal/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"gopkg.in/gomail.v2"
)

// mailDialer is the part of *gomail.Dialer the SMTP sender needs.
type mailDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type smtpSender struct {
	dialer   mailDialer
	from     string
	fromName string
}

func NewSMTPSender(host string, port int, username, password, from, fromName string) EmailSender {
	return &smtpSender{
		dialer:   gomail.NewDialer(host, port, username, password),
		from:     from,
		fromName: fromName,
	}
}

func (s *smtpSender) Send(ctx context.Context, toEmail, toName, subject, body string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.fromName)
	m.SetAddressHeader("To", toEmail, toName)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	logger.ExternalServiceCall("smtp", "send", "to", toEmail, "subject", subject)
	err := s.dialer.DialAndSend(m)
	logger.ExternalServiceResult("smtp", "send", err, "to", toEmail)
	if err != nil {
		return fmt.Errorf("failed to send email via gomail: %w", err)
	}
	return nil
}

type sendGridSender struct {
	client   *sendgrid.Client
	from     string
	fromName string
}

func NewSendGridSender(apiKey, from, fromName string) EmailSender {
	return &sendGridSender{
		client:   sendgrid.NewSendClient(apiKey),
		from:     from,
		fromName: fromName,
	}
}

func (s *sendGridSender) Send(ctx context.Context, toEmail, toName, subject, body string) error {
	message := mail.NewSingleEmail(
		mail.NewEmail(s.fromName, s.from),
		subject,
		mail.NewEmail(toName, toEmail),
		body,
		"",
	)

	logger.ExternalServiceCall("sendgrid", "send", "to", toEmail, "subject", subject)
	response, err := s.client.SendWithContext(ctx, message)
	if err == nil && response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	logger.ExternalServiceResult("sendgrid", "send", err, "to", toEmail)
	if err != nil {
		return fmt.Errorf("failed to send email via sendgrid: %w", err)
	}
	return nil
}

type logSender struct{}

// NewLogSender returns a sender that only logs messages. Used in development
// and when no mail provider is configured.
func NewLogSender() EmailSender { return logSender{} }

func (logSender) Send(ctx context.Context, toEmail, toName, subject, body string) error {
	logger.InfoContext(ctx, "Email (not sent)", "to", toEmail, "toName", toName, "subject", subject, "body", body)
	return nil
}
