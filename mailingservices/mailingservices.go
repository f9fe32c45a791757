package mailingservices

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mailgun/mailgun-go/v4"
)

// Mailer sends transactional mail.
type Mailer interface {
	SendResetPasswordMail(recipient, resetToken string) error
}

type Mailgun struct {
	Client  *mailgun.MailgunImpl
	From    string
	BaseURL string
}

func (m *Mailgun) Init(domain, apiKey, from, baseURL string) {
	m.Client = mailgun.NewMailgun(domain, apiKey)
	m.From = from
	m.BaseURL = baseURL
	log.Println("Mailgun client initialized")
}

func (m *Mailgun) SendResetPasswordMail(recipient, resetToken string) error {
	subject := "Reset your password"
	body := fmt.Sprintf("Follow this link to reset your password: %s/password/reset/%s\n\nThe link expires in 20 minutes.",
		m.BaseURL, resetToken)

	message := m.Client.NewMessage(m.From, subject, body, recipient)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()

	_, _, err := m.Client.Send(ctx, message)
	if err != nil {
		log.Printf("error sending reset password mail to %s: %v", recipient, err)
		return err
	}
	return nil
}
