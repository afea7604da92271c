package email

import (
	"context"

	"class_reminder_bot/internal/domain/delivery"

	"gopkg.in/gomail.v2"
)

// GomailSender implements delivery.Channel over SMTP, one dial-and-send per
// message. A single attempt per call; the evaluator logs failures and moves on.
type GomailSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewGomailSender(host string, port int, username, password string) *GomailSender {
	return &GomailSender{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   username,
	}
}

func (s *GomailSender) Send(_ context.Context, dest delivery.Destination, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", dest.Address)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return s.dialer.DialAndSend(m)
}
