package handlers

import (
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// sendEmail delivers a transactional email through sendgrid. Failures are
// the caller's to log; a missing API key is reported as a no-op so local
// environments work without sendgrid.
func sendEmail(toEmail, toName, subject, htmlContent, plainText string) error {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	if apiKey == "" {
		zap.S().Debugw("sendgrid api key not set, skipping email", "to", toEmail, "subject", subject)
		return nil
	}

	from := mail.NewEmail("Campus Lost & Found", "no-reply@lostfound.diu.edu")
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainText, htmlContent)
	client := sendgrid.NewSendClient(apiKey)
	response, err := client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		zap.S().Errorw("sendgrid returned error status", "status", response.StatusCode, "body", response.Body)
	}
	return nil
}
