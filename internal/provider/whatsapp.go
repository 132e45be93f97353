package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/wakandasalud/clinic-api/internal/domain"
	"github.com/wakandasalud/clinic-api/internal/ratelimit"
	"go.uber.org/zap"
)

const (
	defaultTwilioBaseURL = "https://api.twilio.com"
	defaultSendTimeout   = 10 * time.Second

	// limiterChannel keys the outbound rate limiter window.
	limiterChannel = "whatsapp"
)

// TwilioWhatsAppDispatcher submits messages through a Twilio-compatible
// Messages endpoint. It never returns an error: provider failures are logged
// and reported as the failed outcome.
type TwilioWhatsAppDispatcher struct {
	client     *resty.Client
	accountSID string
	authToken  string
	fromNumber string
	limiter    ratelimit.RateLimiter
	logger     *zap.Logger
}

type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	BaseURL    string // defaults to the public Twilio API
}

func NewTwilioWhatsAppDispatcher(cfg TwilioConfig, limiter ratelimit.RateLimiter, logger *zap.Logger) (*TwilioWhatsAppDispatcher, error) {
	client := resty.New()
	client.SetTimeout(defaultSendTimeout)
	client.SetRetryCount(0)

	return NewTwilioWhatsAppDispatcherWithClient(cfg, limiter, logger, client)
}

func NewTwilioWhatsAppDispatcherWithClient(
	cfg TwilioConfig,
	limiter ratelimit.RateLimiter,
	logger *zap.Logger,
	client *resty.Client,
) (*TwilioWhatsAppDispatcher, error) {
	if strings.TrimSpace(cfg.AccountSID) == "" {
		return nil, fmt.Errorf("twilio account sid is required")
	}
	if strings.TrimSpace(cfg.AuthToken) == "" {
		return nil, fmt.Errorf("twilio auth token is required")
	}
	if strings.TrimSpace(cfg.FromNumber) == "" {
		return nil, fmt.Errorf("twilio whatsapp from number is required")
	}
	if client == nil {
		return nil, fmt.Errorf("resty client is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultTwilioBaseURL
	}

	if client.GetClient().Timeout == 0 {
		client.SetTimeout(defaultSendTimeout)
	}
	client.SetRetryCount(0)
	client.SetBaseURL(strings.TrimRight(baseURL, "/"))
	client.SetBasicAuth(cfg.AccountSID, cfg.AuthToken)

	return &TwilioWhatsAppDispatcher{
		client:     client,
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		fromNumber: cfg.FromNumber,
		limiter:    limiter,
		logger:     logger,
	}, nil
}

// Send submits one WhatsApp message. The destination gets its own "+" prefix
// check, independent of the workflow-side normalization.
func (d *TwilioWhatsAppDispatcher) Send(ctx context.Context, destination string, content string) domain.DeliveryOutcome {
	if d == nil || d.client == nil {
		return domain.OutcomeFailed
	}
	if ctx == nil {
		ctx = context.Background()
	}

	to := strings.TrimSpace(destination)
	if !strings.HasPrefix(to, "+") {
		to = "+" + to
	}

	if d.limiter != nil {
		if err := d.limiter.Wait(ctx, limiterChannel); err != nil {
			d.logger.Error("whatsapp send rate limit wait failed",
				zap.String("to", to),
				zap.Error(err),
			)
			return domain.OutcomeFailed
		}
	}

	if err := d.send(ctx, to, content); err != nil {
		d.logger.Error("whatsapp send failed",
			zap.String("to", to),
			zap.Error(err),
		)
		return domain.OutcomeFailed
	}

	return domain.OutcomeSent
}

func (d *TwilioWhatsAppDispatcher) send(ctx context.Context, to string, content string) error {
	endpoint := fmt.Sprintf("/2010-04-01/Accounts/%s/Messages.json", d.accountSID)

	response, err := d.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"From": "whatsapp:" + d.fromNumber,
			"To":   "whatsapp:" + to,
			"Body": content,
		}).
		Post(endpoint)
	if err != nil {
		return &ProviderError{
			Message: "provider request failed",
			Cause:   err,
		}
	}
	if response == nil {
		return &ProviderError{Message: "provider returned empty response"}
	}

	statusCode := response.StatusCode()
	if statusCode >= http.StatusOK && statusCode < http.StatusMultipleChoices {
		return nil
	}

	return &ProviderError{
		StatusCode: statusCode,
		Message:    strings.TrimSpace(response.String()),
	}
}
