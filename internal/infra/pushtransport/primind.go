//go:build !gcloud

package pushtransport

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/KasumiMercury/primind-attendance-alerts/internal/observability/logging"
	"github.com/KasumiMercury/primind-attendance-alerts/internal/observability/tracing"
)

const NamePrimindTasks = "primind_tasks"

// PrimindTasksClient enqueues push messages on a Primind Tasks queue, which
// forwards them to the push gateway.
type PrimindTasksClient struct {
	baseURL    string
	queueName  string
	httpClient *http.Client
	maxRetries int
}

func NewPrimindTasksClient(baseURL, queueName string, maxRetries int) *PrimindTasksClient {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	return &PrimindTasksClient{
		baseURL:   baseURL,
		queueName: queueName,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxRetries: maxRetries,
	}
}

func (c *PrimindTasksClient) Name() string {
	return NamePrimindTasks
}

func (c *PrimindTasksClient) Deliver(ctx context.Context, msg *PushMessage) (*Receipt, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal push message: %w", err)
	}

	primindReq := PrimindTaskRequest{
		Task: PrimindTask{
			Name: msg.DeliveryID,
			HTTPRequest: PrimindHTTPRequest{
				Body: base64.StdEncoding.EncodeToString(payload),
				Headers: map[string]string{
					"Content-Type": "application/json",
					"message_type": "alert.push",
				},
			},
		},
	}

	reqBody, err := json.Marshal(primindReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal primind request: %w", err)
	}

	url := fmt.Sprintf("%s/tasks", c.baseURL)
	if c.queueName != "" && c.queueName != "default" {
		url = fmt.Sprintf("%s/tasks/%s", c.baseURL, c.queueName)
	}

	return withRetry(ctx, c.maxRetries, msg, func(ctx context.Context) (*Receipt, error) {
		return c.doRequest(ctx, url, reqBody, msg)
	})
}

func (c *PrimindTasksClient) doRequest(ctx context.Context, url string, reqBody []byte, msg *PushMessage) (*Receipt, error) {
	slog.DebugContext(ctx, "enqueueing push message to Primind Tasks",
		slog.String("url", url),
		slog.String("delivery_id", msg.DeliveryID),
		slog.String("target_id", msg.TargetID),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(logging.RequestIDHeader, logging.ValidateAndExtractRequestID(logging.RequestIDFromContext(ctx)))
	tracing.InjectToHTTPRequest(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.WarnContext(ctx, "failed to send request to Primind Tasks",
			slog.String("delivery_id", msg.DeliveryID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		slog.WarnContext(ctx, "unexpected status code from Primind Tasks",
			slog.String("delivery_id", msg.DeliveryID),
			slog.Int("status_code", resp.StatusCode),
		)
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var primindResp PrimindTaskResponse
	if err := json.NewDecoder(resp.Body).Decode(&primindResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	createTime, _ := time.Parse(time.RFC3339, primindResp.CreateTime)

	slog.InfoContext(ctx, "push message enqueued to Primind Tasks",
		slog.String("task_name", primindResp.Name),
		slog.String("delivery_id", msg.DeliveryID),
		slog.String("alert_id", msg.AlertID),
	)

	return &Receipt{
		Name:       primindResp.Name,
		CreateTime: createTime,
	}, nil
}
