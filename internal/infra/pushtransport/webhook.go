package pushtransport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/KasumiMercury/primind-attendance-alerts/internal/observability/logging"
	"github.com/KasumiMercury/primind-attendance-alerts/internal/observability/tracing"
)

const NameWebhook = "webhook"

// WebhookClient posts push messages straight to the push gateway.
type WebhookClient struct {
	url        string
	httpClient *http.Client
	maxRetries int
}

func NewWebhookClient(url string, maxRetries int) *WebhookClient {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	return &WebhookClient{
		url:        url,
		httpClient: newHTTPClient(url),
		maxRetries: maxRetries,
	}
}

func (c *WebhookClient) Name() string {
	return NameWebhook
}

func (c *WebhookClient) Deliver(ctx context.Context, msg *PushMessage) (*Receipt, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal push message: %w", err)
	}

	return withRetry(ctx, c.maxRetries, msg, func(ctx context.Context) (*Receipt, error) {
		return c.post(ctx, body, msg)
	})
}

func (c *WebhookClient) post(ctx context.Context, body []byte, msg *PushMessage) (*Receipt, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", msg.DeliveryID)
	req.Header.Set(logging.RequestIDHeader, logging.ValidateAndExtractRequestID(logging.RequestIDFromContext(ctx)))
	tracing.InjectToHTTPRequest(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.WarnContext(ctx, "failed to send push webhook",
			slog.String("delivery_id", msg.DeliveryID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.WarnContext(ctx, "unexpected status code from push gateway",
			slog.String("delivery_id", msg.DeliveryID),
			slog.Int("status_code", resp.StatusCode),
		)
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	return &Receipt{
		Name:       msg.DeliveryID,
		CreateTime: time.Now(),
	}, nil
}
