//go:build gcloud

package pushtransport

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	cloudtasks "cloud.google.com/go/cloudtasks/apiv2"
	taskspb "cloud.google.com/go/cloudtasks/apiv2/cloudtaskspb"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"
)

const NameCloudTasks = "cloud_tasks"

type CloudTasksConfig struct {
	ProjectID  string
	LocationID string
	QueueID    string
	TargetURL  string
	MaxRetries int
	// Endpoint points the client at an emulator. Empty uses the real API.
	Endpoint string
}

type CloudTasksClient struct {
	client     *cloudtasks.Client
	queuePath  string
	targetURL  string
	maxRetries int
}

func NewCloudTasksClient(ctx context.Context, cfg CloudTasksConfig) (*CloudTasksClient, error) {
	var opts []option.ClientOption
	if cfg.Endpoint != "" {
		opts = append(opts,
			option.WithEndpoint(cfg.Endpoint),
			option.WithoutAuthentication(),
			option.WithGRPCDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
		)
	}

	client, err := cloudtasks.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud tasks client: %w", err)
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	return &CloudTasksClient{
		client:     client,
		queuePath:  fmt.Sprintf("projects/%s/locations/%s/queues/%s", cfg.ProjectID, cfg.LocationID, cfg.QueueID),
		targetURL:  cfg.TargetURL,
		maxRetries: maxRetries,
	}, nil
}

func (c *CloudTasksClient) Name() string {
	return NameCloudTasks
}

func (c *CloudTasksClient) Deliver(ctx context.Context, msg *PushMessage) (*Receipt, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal push message: %w", err)
	}

	cloudTask := &taskspb.Task{
		MessageType: &taskspb.Task_HttpRequest{
			HttpRequest: &taskspb.HttpRequest{
				HttpMethod: taskspb.HttpMethod_POST,
				Url:        c.targetURL,
				Headers: map[string]string{
					"Content-Type": "application/json",
					"message_type": "alert.push",
				},
				Body: payload,
			},
		},
		ScheduleTime: timestamppb.Now(),
	}
	// Named tasks let Cloud Tasks reject a redelivered message.
	if msg.DeliveryID != "" {
		cloudTask.Name = c.queuePath + "/tasks/" + msg.DeliveryID
	}

	req := &taskspb.CreateTaskRequest{
		Parent: c.queuePath,
		Task:   cloudTask,
	}

	return withRetry(ctx, c.maxRetries, msg, func(ctx context.Context) (*Receipt, error) {
		return c.createTask(ctx, req, msg)
	})
}

func (c *CloudTasksClient) createTask(ctx context.Context, req *taskspb.CreateTaskRequest, msg *PushMessage) (*Receipt, error) {
	slog.DebugContext(ctx, "enqueueing push message to Cloud Tasks",
		slog.String("queue_path", req.Parent),
		slog.String("delivery_id", msg.DeliveryID),
	)

	createdTask, err := c.client.CreateTask(ctx, req)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			slog.InfoContext(ctx, "push task already exists in Cloud Tasks",
				slog.String("delivery_id", msg.DeliveryID),
			)
			return &Receipt{Name: req.Task.Name}, nil
		}

		slog.WarnContext(ctx, "failed to create cloud task",
			slog.String("delivery_id", msg.DeliveryID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to create cloud task: %w", err)
	}

	slog.InfoContext(ctx, "push message enqueued to Cloud Tasks",
		slog.String("task_name", createdTask.Name),
		slog.String("delivery_id", msg.DeliveryID),
		slog.String("alert_id", msg.AlertID),
	)

	var createTime time.Time
	if createdTask.CreateTime != nil {
		createTime = createdTask.CreateTime.AsTime()
	}

	return &Receipt{
		Name:       createdTask.Name,
		CreateTime: createTime,
	}, nil
}

func (c *CloudTasksClient) Close() error {
	return c.client.Close()
}
