package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"
)

// Mailer sends a plain-text mail. Handlers depend on this interface so tests
// can substitute a fake.
type Mailer interface {
	Send(ctx context.Context, to, subject, text string) error
}

// SMTPMailer sends mail through an authenticated SMTP account.
type SMTPMailer struct {
	client *gomail.Client
	from   string
}

// NewSMTPMailer connects settings for an SMTP submission account (STARTTLS,
// plain auth), e.g. a Gmail account with an app password.
func NewSMTPMailer(host string, port int, username, password, from string) (*SMTPMailer, error) {
	client, err := gomail.NewClient(host,
		gomail.WithPort(port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(username),
		gomail.WithPassword(password),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("mail client: %w", err)
	}
	return &SMTPMailer{client: client, from: from}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, text string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("mail to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, text)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("mail send: %w", err)
	}
	return nil
}

// ReferralSubject is the subject line on referral notifications.
const ReferralSubject = "You have been referred!"

// ReferralBody builds the plain-text referral notification sent to the referee.
func ReferralBody(refereeName, message string) string {
	body := fmt.Sprintf("Hello %s,\n\nYou have been referred by someone at Accredian.", refereeName)
	if message != "" {
		body += fmt.Sprintf("\n\nMessage: %s", message)
	}
	return body
}
