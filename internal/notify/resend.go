package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const DefaultResendBaseURL = "https://api.resend.com"

type ResendConfig struct {
	APIKey  string
	From    string
	BaseURL string
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

type resendResponse struct {
	ID string `json:"id"`
}

type resendError struct {
	StatusCode int    `json:"statusCode"`
	Name       string `json:"name"`
	Message    string `json:"message"`
}

// ResendMailer delivers mail through the Resend HTTP API.
type ResendMailer struct {
	client *resty.Client
	from   string
	logger *zap.Logger
}

func NewResendMailer(cfg ResendConfig, logger *zap.Logger) (*ResendMailer, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultResendBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(10*time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(2*time.Second).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &ResendMailer{client: client, from: cfg.From, logger: logger}, nil
}

func (m *ResendMailer) Send(ctx context.Context, msg Message) error {
	var (
		result  resendResponse
		failure resendError
	)
	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(resendRequest{
			From:    m.from,
			To:      msg.To,
			Subject: msg.Subject,
			HTML:    msg.HTML,
			ReplyTo: msg.ReplyTo,
		}).
		SetResult(&result).
		SetError(&failure).
		Post("/emails")
	if err != nil {
		return fmt.Errorf("resend request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("resend rejected email (status %d): %s", resp.StatusCode(), failure.Message)
	}

	m.logger.Info("email sent", zap.String("provider_id", result.ID), zap.String("subject", msg.Subject))
	return nil
}
