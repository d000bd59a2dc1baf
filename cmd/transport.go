package main

import (
	"context"
	"log/slog"

	"github.com/KasumiMercury/primind-attendance-alerts/internal/infra/pushtransport"
)

// initPushTransport builds the transport named by PUSH_TRANSPORT. The
// tasks kind differs per platform.
func initPushTransport(ctx context.Context, cfg *pushtransport.Config) (pushtransport.Transport, func() error, error) {
	switch cfg.Kind {
	case pushtransport.KindTasks:
		return initTasksTransport(ctx, cfg)

	case pushtransport.KindAMQP:
		publisher, err := pushtransport.NewAMQPPublisher(pushtransport.AMQPConfig{
			URL:        cfg.AMQPURL,
			Exchange:   cfg.AMQPExchange,
			RoutingKey: cfg.AMQPRoutingKey,
			MaxRetries: cfg.MaxRetries,
		})
		if err != nil {
			return nil, nil, err
		}

		slog.Info("push transport initialized",
			slog.String("type", pushtransport.NameAMQP),
			slog.String("exchange", cfg.AMQPExchange),
			slog.String("routing_key", cfg.AMQPRoutingKey),
		)

		return publisher, publisher.Close, nil

	case pushtransport.KindWebhook:
		client := pushtransport.NewWebhookClient(cfg.WebhookURL, cfg.MaxRetries)

		slog.Info("push transport initialized",
			slog.String("type", client.Name()),
			slog.String("url", cfg.WebhookURL),
		)

		return client, nil, nil

	case pushtransport.KindLog:
		slog.Info("push transport initialized", slog.String("type", pushtransport.NameLog))
		return pushtransport.NewLogTransport(), nil, nil

	default:
		return nil, nil, cfg.Validate()
	}
}
