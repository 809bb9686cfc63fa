package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Sender is the notification port used by the usecases. Notifications are
// best-effort: failures are logged by the caller, never retried.
type Sender interface {
	SendListingCreatedEmail(toEmail, listingTitle string) error
	SendMessageReceivedEmail(toEmail, buyerEmail, listingTitle string) error
}

// smtpDialer is the delivery seam; *gomail.Dialer in production.
type smtpDialer interface {
	DialAndSend(msg ...*gomail.Message) error
}

// Mailer sends seller notifications over SMTP. Credentials are injected at
// construction rather than read from the environment.
type Mailer struct {
	dialer smtpDialer
	from   string
}

func New(host string, port int, from, password string) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(host, port, from, password),
		from:   from,
	}
}

func (m *Mailer) SendListingCreatedEmail(toEmail, listingTitle string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", "New Listing Created")
	msg.SetBody("text/plain", fmt.Sprintf("Your listing '%s' has been created successfully.", listingTitle))
	return m.dialer.DialAndSend(msg)
}

func (m *Mailer) SendMessageReceivedEmail(toEmail, buyerEmail, listingTitle string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", "New Message About Your Listing")
	msg.SetBody("text/plain", fmt.Sprintf("%s sent you a message about your listing '%s'.", buyerEmail, listingTitle))
	return m.dialer.DialAndSend(msg)
}
