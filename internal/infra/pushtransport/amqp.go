package pushtransport

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"
)

const NameAMQP = "amqp"

type AMQPConfig struct {
	URL        string
	Exchange   string
	RoutingKey string
	MaxRetries int
}

// AMQPPublisher publishes push messages to RabbitMQ with publisher confirms.
// Consumers on the routing key own the actual device delivery.
type AMQPPublisher struct {
	conn       *amqp.Connection
	exchange   string
	routingKey string
	maxRetries int

	mu sync.Mutex
	ch *amqp.Channel
}

func NewAMQPPublisher(cfg AMQPConfig) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to amqp broker: %w", err)
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	p := &AMQPPublisher{
		conn:       conn,
		exchange:   cfg.Exchange,
		routingKey: cfg.RoutingKey,
		maxRetries: maxRetries,
	}

	ch, err := p.openChannel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	p.ch = ch

	return p, nil
}

func (p *AMQPPublisher) openChannel() (*amqp.Channel, error) {
	ch, err := p.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open amqp channel: %w", err)
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("failed to enable publisher confirms: %w", err)
	}

	if p.exchange != "" {
		if err := ch.ExchangeDeclare(p.exchange, "direct", true, false, false, false, nil); err != nil {
			_ = ch.Close()
			return nil, fmt.Errorf("failed to declare exchange %s: %w", p.exchange, err)
		}
	} else {
		// default exchange routes by queue name
		if _, err := ch.QueueDeclare(p.routingKey, true, false, false, false, nil); err != nil {
			_ = ch.Close()
			return nil, fmt.Errorf("failed to declare queue %s: %w", p.routingKey, err)
		}
	}

	return ch, nil
}

func (p *AMQPPublisher) channel() (*amqp.Channel, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}

	slog.Warn("amqp channel closed, reopening",
		slog.String("exchange", p.exchange),
		slog.String("routing_key", p.routingKey),
	)

	ch, err := p.openChannel()
	if err != nil {
		return nil, err
	}
	p.ch = ch
	return ch, nil
}

func (p *AMQPPublisher) Name() string {
	return NameAMQP
}

func (p *AMQPPublisher) Deliver(ctx context.Context, msg *PushMessage) (*Receipt, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal push message: %w", err)
	}

	headers := amqp.Table{
		"role":       msg.Role,
		"alert_type": msg.AlertType,
	}
	otel.GetTextMapPropagator().Inject(ctx, amqpHeaderCarrier(headers))

	publishing := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.DeliveryID,
		Timestamp:    time.Now(),
		Type:         "alert.push",
		Headers:      headers,
		Body:         body,
	}

	return withRetry(ctx, p.maxRetries, msg, func(ctx context.Context) (*Receipt, error) {
		return p.publish(ctx, publishing, msg)
	})
}

func (p *AMQPPublisher) publish(ctx context.Context, publishing amqp.Publishing, msg *PushMessage) (*Receipt, error) {
	ch, err := p.channel()
	if err != nil {
		return nil, err
	}

	confirmation, err := ch.PublishWithDeferredConfirmWithContext(ctx, p.exchange, p.routingKey, false, false, publishing)
	if err != nil {
		slog.WarnContext(ctx, "failed to publish push message",
			slog.String("delivery_id", msg.DeliveryID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to publish: %w", err)
	}

	acked, err := confirmation.WaitContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to wait for publish confirm: %w", err)
	}
	if !acked {
		return nil, ErrNotConfirmed
	}

	slog.InfoContext(ctx, "push message published to amqp",
		slog.String("delivery_id", msg.DeliveryID),
		slog.String("alert_id", msg.AlertID),
		slog.String("routing_key", p.routingKey),
	)

	return &Receipt{
		Name:       p.exchange + "/" + p.routingKey + "/" + msg.DeliveryID,
		CreateTime: publishing.Timestamp,
	}, nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch != nil && !p.ch.IsClosed() {
		if err := p.ch.Close(); err != nil {
			slog.Warn("failed to close amqp channel", slog.String("error", err.Error()))
		}
	}
	return p.conn.Close()
}

// amqpHeaderCarrier adapts message headers for trace context propagation.
type amqpHeaderCarrier amqp.Table

func (c amqpHeaderCarrier) Get(key string) string {
	v, _ := c[key].(string)
	return v
}

func (c amqpHeaderCarrier) Set(key, value string) {
	c[key] = value
}

func (c amqpHeaderCarrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	return keys
}
