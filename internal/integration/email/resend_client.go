package email

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/resend/resend-go/v2"

	"github.com/goal-tracker/backend/internal/application/adapter"
	domainerror "github.com/goal-tracker/backend/internal/domain/error"
)

// ResendConfig holds the Resend credentials and sender identity.
type ResendConfig struct {
	APIKey string
	// BaseURL overrides the public Resend endpoint. Empty keeps the default.
	BaseURL   string
	FromName  string
	FromEmail string
}

// ResendClient implements the adapter.EmailSender interface using Resend.
type ResendClient struct {
	client *resend.Client
	from   string
}

// NewResendClient creates a new Resend client.
func NewResendClient(cfg ResendConfig) (*ResendClient, error) {
	client := resend.NewClient(cfg.APIKey)
	if cfg.BaseURL != "" {
		u, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid resend base url: %w", err)
		}
		client.BaseURL = u
	}

	from := cfg.FromEmail
	if cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromEmail)
	}

	return &ResendClient{client: client, from: from}, nil
}

// Send sends an email via Resend.
func (c *ResendClient) Send(ctx context.Context, input adapter.SendEmailInput) (*adapter.SendEmailResult, error) {
	params := &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{input.To},
		Subject: input.Subject,
		Html:    input.HTML,
		Text:    input.Text,
	}
	if input.Tag != "" {
		params.Tags = []resend.Tag{{Name: "template", Value: input.Tag}}
	}

	resp, err := c.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return nil, classifySendError(err)
	}

	return &adapter.SendEmailResult{
		ProviderID: resp.Id,
	}, nil
}

func classifySendError(err error) error {
	if isPermanentError(err) {
		return domainerror.NewEmailError(
			domainerror.ErrCodePermanentEmailFailure,
			"permanent email failure",
			err,
		)
	}
	return domainerror.NewEmailError(
		domainerror.ErrCodeTemporaryEmailFailure,
		"temporary email failure",
		err,
	)
}

var statusPattern = regexp.MustCompile(`\b([45]\d\d)\b`)

// isPermanentError reports whether resending can never succeed. Client
// errors are permanent except timeouts, conflicts and rate limiting.
func isPermanentError(err error) bool {
	if err == nil {
		return false
	}

	msg := strings.ToLower(err.Error())
	if m := statusPattern.FindStringSubmatch(msg); m != nil {
		status, _ := strconv.Atoi(m[1])
		switch {
		case status == 408 || status == 409 || status == 429:
			return false
		case status < 500:
			return true
		default:
			return false
		}
	}

	return strings.Contains(msg, "unauthorized") ||
		strings.Contains(msg, "forbidden") ||
		strings.Contains(msg, "invalid") ||
		strings.Contains(msg, "validation")
}

var _ adapter.EmailSender = (*ResendClient)(nil)
