package mail

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"deptportal/internal/config"
)

// SendgridSender delivers mail through the SendGrid v3 API.
type SendgridSender struct {
	client      *sendgrid.Client
	fromName    string
	fromAddress string
}

func NewSendgridSender(cfg config.MailConfig) *SendgridSender {
	return &SendgridSender{
		client:      sendgrid.NewSendClient(cfg.SendgridAPIKey),
		fromName:    cfg.FromName,
		fromAddress: cfg.FromAddress,
	}
}

func (s *SendgridSender) Send(ctx context.Context, msg Message) error {
	from := sgmail.NewEmail(s.fromName, s.fromAddress)
	to := sgmail.NewEmail(msg.ToName, msg.ToAddress)
	m := sgmail.NewSingleEmail(from, msg.Subject, to, msg.PlainText, "")

	resp, err := s.client.SendWithContext(ctx, m)
	if err != nil {
		return fmt.Errorf("sending mail: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid rejected message: status %d", resp.StatusCode)
	}
	return nil
}
