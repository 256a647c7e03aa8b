// internal/adapters/out/mail/sendgrid_client.go
package mail

import (
	"context"
	"fmt"
	"html"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"storefront/internal/platform/logger"
)

// EmailClient abstracts the real sender (SendGrid, SMTP, a test fake).
type EmailClient interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// sendFunc matches sendgrid.Client.SendWithContext.
type sendFunc func(ctx context.Context, m *sgmail.SGMailV3) (*rest.Response, error)

// SendGridClient implements EmailClient.
type SendGridClient struct {
	apiKey   string
	fromName string
	send     sendFunc
	log      *logger.Logger
}

func NewSendGridClient(apiKey string, log *logger.Logger) *SendGridClient {
	c := &SendGridClient{
		apiKey:   apiKey,
		fromName: "Storefront",
		log:      logger.OrNop(log).Component("sendgrid"),
	}
	if apiKey != "" {
		c.send = sendgrid.NewSendClient(apiKey).SendWithContext
	}
	return c
}

func (c *SendGridClient) Send(ctx context.Context, from, to, subject, body string) error {
	if c.apiKey == "" || c.send == nil {
		return fmt.Errorf("sendgrid api key is empty")
	}
	if from == "" {
		return fmt.Errorf("from address is empty")
	}
	if to == "" {
		return fmt.Errorf("to address is empty")
	}

	message := sgmail.NewSingleEmail(
		sgmail.NewEmail(c.fromName, from),
		subject,
		sgmail.NewEmail("", to),
		body,
		fmt.Sprintf("<pre>%s</pre>", html.EscapeString(body)),
	)

	response, err := c.send(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send error: %w", err)
	}
	if response.StatusCode >= 400 {
		c.log.Error("sendgrid rejected mail", "status", response.StatusCode, "body", response.Body)
		return fmt.Errorf("sendgrid send failed: status=%d, body=%s", response.StatusCode, response.Body)
	}

	c.log.Info("mail sent", "status", response.StatusCode, "to", to, "subject", subject)
	return nil
}
