package utils

import (
	"fmt"

	"github.com/kartlane/ecommerce-api/models"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailService sends transactional mail through SendGrid. With an empty
// API key it becomes a no-op, which keeps local development working
// without credentials.
type EmailService struct {
	client *sendgrid.Client
	from   string
}

func NewEmailService(apiKey, from string) *EmailService {
	es := &EmailService{from: from}
	if apiKey != "" {
		es.client = sendgrid.NewSendClient(apiKey)
	}
	return es
}

func (es *EmailService) send(toName, toEmail, subject, plain, html string) error {
	if es.client == nil {
		return nil
	}
	from := mail.NewEmail("Kartlane", es.from)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plain, html)
	resp, err := es.client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid rejected email: status %d", resp.StatusCode)
	}
	return nil
}

func (es *EmailService) SendOTPEmail(toName, toEmail, otp string) error {
	subject := "Verify your account"
	plain := fmt.Sprintf("Hi %s, your verification code is %s. It expires in 5 minutes.", toName, otp)
	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your verification code is <strong>%s</strong>. It expires in 5 minutes.</p>",
		toName, otp,
	)
	return es.send(toName, toEmail, subject, plain, html)
}

func (es *EmailService) SendOrderConfirmationEmail(toName, toEmail string, order models.Order) error {
	subject := "Order confirmation"
	plain := fmt.Sprintf(
		"Hi %s, your order %s has been placed. Total: %.2f.",
		toName, order.ID, order.TotalAmount,
	)
	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your order <strong>%s</strong> has been placed.</p><p>Total: <strong>%.2f</strong></p>",
		toName, order.ID, order.TotalAmount,
	)
	return es.send(toName, toEmail, subject, plain, html)
}
