package mailer

import (
	"context"
	"fmt"
	"net/http"
	"net/mail"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

const (
	sendGridHost     = "https://api.sendgrid.com"
	sendGridEndpoint = "/v3/mail/send"
)

// SendGridMailer posts messages to the SendGrid v3 mail API.
type SendGridMailer struct {
	key    string
	host   string
	logger *zap.Logger
}

// NewSendGridMailer constructs the mailer. An empty host targets the public API.
func NewSendGridMailer(apiKey, host string, logger *zap.Logger) *SendGridMailer {
	if host == "" {
		host = sendGridHost
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SendGridMailer{key: apiKey, host: host, logger: logger}
}

// Send delivers msg and returns the X-Message-Id assigned by SendGrid.
func (m *SendGridMailer) Send(ctx context.Context, msg Message) (string, error) {
	if err := msg.Validate(); err != nil {
		return "", err
	}

	req := sendgrid.GetRequest(m.key, sendGridEndpoint, m.host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m.prepare(msg))

	res, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return "", fmt.Errorf("sendgrid request: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		m.logger.Warn("sendgrid rejected message",
			zap.Int("status", res.StatusCode),
			zap.String("body", res.Body),
		)
		return "", fmt.Errorf("sendgrid status %d", res.StatusCode)
	}

	var id string
	if values := res.Headers["X-Message-Id"]; len(values) > 0 {
		id = values[0]
	}
	return id, nil
}

func (m *SendGridMailer) prepare(msg Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject
	for _, to := range msg.To {
		p.AddTos(sgEmail(to))
	}
	for _, bcc := range msg.Bcc {
		p.AddBCCs(sgEmail(bcc))
	}

	v3 := sgmail.NewV3Mail()
	v3.SetFrom(sgEmail(msg.From))
	v3.AddPersonalizations(p)
	if msg.ReplyTo != nil {
		v3.SetReplyTo(sgEmail(*msg.ReplyTo))
	}

	// SendGrid requires text/plain before text/html.
	if msg.Text != "" {
		v3.AddContent(sgmail.NewContent("text/plain", msg.Text))
	}
	if msg.HTML != "" {
		v3.AddContent(sgmail.NewContent("text/html", msg.HTML))
	}
	return v3
}

func sgEmail(addr mail.Address) *sgmail.Email {
	return sgmail.NewEmail(addr.Name, addr.Address)
}
