package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"github.com/rpupo63/portfolio-cms-backend/config"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/metrics"
)

// Email is one outbound message. HTML takes precedence over Text when both
// are set.
type Email struct {
	To      []string
	ReplyTo string
	Subject string
	HTML    string
	Text    string
}

// Mailer delivers outbound email.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// NewMailer picks the driver named by MAIL_DRIVER: resend, smtp or log.
func NewMailer(cfg map[string]string, logger zerolog.Logger) (Mailer, error) {
	from := config.GetString(cfg, "MAIL_FROM", config.GetString(cfg, "RESEND_FROM_EMAIL", ""))

	switch driver := config.GetString(cfg, "MAIL_DRIVER", "log"); driver {
	case "resend":
		apiKey := config.GetString(cfg, "RESEND_API_KEY", "")
		if apiKey == "" {
			return nil, errs.NewConfigMissingError("RESEND_API_KEY")
		}
		if from == "" {
			return nil, errs.NewConfigMissingError("MAIL_FROM")
		}
		return NewResendMailer(apiKey, from, logger), nil
	case "smtp":
		host := config.GetString(cfg, "SMTP_HOST", "")
		if host == "" {
			return nil, errs.NewConfigMissingError("SMTP_HOST")
		}
		if from == "" {
			return nil, errs.NewConfigMissingError("MAIL_FROM")
		}
		dialer := gomail.NewDialer(
			host,
			config.GetInt(cfg, "SMTP_PORT", 587),
			config.GetString(cfg, "SMTP_USER", ""),
			config.GetString(cfg, "SMTP_PASSWORD", ""),
		)
		return NewSMTPMailer(dialer, from), nil
	case "log":
		return NewLogMailer(logger), nil
	default:
		return nil, errs.NewConfigError("MAIL_DRIVER", fmt.Errorf("unsupported mail driver %q", driver))
	}
}

// ResendEmailRequest represents the request payload for Resend API
type ResendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	ReplyTo string   `json:"reply_to,omitempty"`
	Subject string   `json:"subject"`
	Html    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// ResendEmailResponse represents the response from Resend API
type ResendEmailResponse struct {
	ID string `json:"id"`
}

// ResendErrorResponse represents an error response from Resend API
type ResendErrorResponse struct {
	Message string `json:"message"`
}

const resendEndpoint = "https://api.resend.com/emails"

// ResendMailer sends email through the Resend HTTP API
type ResendMailer struct {
	apiKey   string
	from     string
	endpoint string
	client   *http.Client
	logger   zerolog.Logger
}

func NewResendMailer(apiKey, from string, logger zerolog.Logger) *ResendMailer {
	return &ResendMailer{
		apiKey:   apiKey,
		from:     from,
		endpoint: resendEndpoint,
		client:   &http.Client{Timeout: 15 * time.Second},
		logger:   logger.With().Str("mailer", "resend").Logger(),
	}
}

func (m *ResendMailer) Send(ctx context.Context, email Email) (err error) {
	defer func() { metrics.RecordEmail("resend", err) }()

	if len(email.To) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}

	payload := ResendEmailRequest{
		From:    m.from,
		To:      email.To,
		ReplyTo: email.ReplyTo,
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create Resend API request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to Resend API: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read Resend API response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ResendErrorResponse
		if err := json.Unmarshal(bodyBytes, &errorResp); err == nil && errorResp.Message != "" {
			return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, errorResp.Message)
		}
		return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var emailResponse ResendEmailResponse
	if err := json.Unmarshal(bodyBytes, &emailResponse); err != nil {
		m.logger.Warn().Err(err).Msg("Failed to parse Resend email response, but email was sent")
	} else {
		m.logger.Info().Str("emailId", emailResponse.ID).Msg("Successfully sent email via Resend")
	}

	return nil
}

// SMTPMailer sends email through an SMTP relay
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(dialer *gomail.Dialer, from string) *SMTPMailer {
	return &SMTPMailer{dialer: dialer, from: from}
}

func (m *SMTPMailer) Send(ctx context.Context, email Email) (err error) {
	defer func() { metrics.RecordEmail("smtp", err) }()

	if len(email.To) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email.To...)
	msg.SetHeader("Subject", email.Subject)
	if email.ReplyTo != "" {
		msg.SetHeader("Reply-To", email.ReplyTo)
	}
	switch {
	case email.HTML != "" && email.Text != "":
		msg.SetBody("text/plain", email.Text)
		msg.AddAlternative("text/html", email.HTML)
	case email.HTML != "":
		msg.SetBody("text/html", email.HTML)
	default:
		msg.SetBody("text/plain", email.Text)
	}

	return m.dialer.DialAndSend(msg)
}

// LogMailer only logs outgoing mail. Used in development.
type LogMailer struct {
	logger zerolog.Logger
}

func NewLogMailer(logger zerolog.Logger) *LogMailer {
	return &LogMailer{logger: logger.With().Str("mailer", "log").Logger()}
}

func (m *LogMailer) Send(ctx context.Context, email Email) error {
	metrics.RecordEmail("log", nil)
	m.logger.Info().
		Strs("to", email.To).
		Str("replyTo", email.ReplyTo).
		Str("subject", email.Subject).
		Msg("Email not sent, log mailer in use")
	return nil
}
