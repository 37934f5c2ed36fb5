// Package mail sends the portal's notification emails. Delivery is
// best effort everywhere: callers log failures and carry on, a lost
// notice never rolls back the database work that triggered it.
package mail

import (
	"context"
	"fmt"
	"log/slog"

	"deptportal/internal/config"
)

// Message is a single outbound notification.
type Message struct {
	ToName    string
	ToAddress string
	Subject   string
	PlainText string
}

// Sender delivers notification messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// New returns a sendgrid-backed sender when an API key is configured,
// otherwise a console sender that only logs the message.
func New(cfg config.MailConfig, logger *slog.Logger) Sender {
	if cfg.SendgridAPIKey != "" {
		return NewSendgridSender(cfg)
	}
	logger.Warn("SENDGRID_API_KEY not set, outbound mail will be logged to the console")
	return NewConsoleSender(logger)
}

// PaymentApproved builds the notice sent when an admin approves a
// student's payment claim.
func PaymentApproved(name, address, matric string) Message {
	return Message{
		ToName:    name,
		ToAddress: address,
		Subject:   "Payment Approved",
		PlainText: fmt.Sprintf(
			"Dear %s,\n\nYour departmental payment (matric number %s) has been approved. "+
				"You can now log in to the portal to view your results.\n\nDepartment of Agricultural Engineering",
			name, matric),
	}
}

// AccountActivated builds the notice sent when an admin approves a
// student's registration.
func AccountActivated(name, address string) Message {
	return Message{
		ToName:    name,
		ToAddress: address,
		Subject:   "Account Approved",
		PlainText: fmt.Sprintf(
			"Dear %s,\n\nYour student account has been approved. You can now log in "+
				"with your matric number and password.\n\nDepartment of Agricultural Engineering",
			name),
	}
}
