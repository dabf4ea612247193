package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/mindhaven/wellness/internal/apperr"
)

// ContactRequest is the POST /api/sendEmail payload.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (r ContactRequest) validate() error {
	for field, v := range map[string]string{
		"name":    r.Name,
		"email":   r.Email,
		"subject": r.Subject,
		"message": r.Message,
	} {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%w: %s is required", apperr.ErrValidation, field)
		}
	}
	return nil
}

type Mailer struct {
	client *sendgrid.Client
	from   *mail.Email
	to     *mail.Email
}

func NewMailer(apiKey, fromName, fromAddress, toAddress string) *Mailer {
	return &Mailer{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail(fromName, fromAddress),
		to:     mail.NewEmail("", toAddress),
	}
}

// SendContact forwards a contact-form submission to the support inbox.
func (m *Mailer) SendContact(ctx context.Context, req ContactRequest) error {
	if err := req.validate(); err != nil {
		return err
	}

	body := fmt.Sprintf("From: %s <%s>\n\n%s", req.Name, req.Email, req.Message)
	msg := mail.NewSingleEmail(m.from, req.Subject, m.to, body, "")
	msg.ReplyTo = mail.NewEmail(req.Name, req.Email)

	resp, err := m.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("while sending mail through SendGrid: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("non-2XX response while sending mail through SendGrid: %d %s", resp.StatusCode, resp.Body)
	}
	return nil
}
