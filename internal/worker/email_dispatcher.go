package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/docudetect/docu-detect/internal/config"
	"github.com/docudetect/docu-detect/internal/models"
	"github.com/docudetect/docu-detect/internal/repository"
	"github.com/docudetect/docu-detect/internal/service/mailer"
)

// EmailDispatcher hands a report-email task off for delivery.
type EmailDispatcher interface {
	Dispatch(ctx context.Context, task models.EmailTask) error
}

// InlineDispatcher sends mail synchronously. Used when no message
// broker is configured.
type InlineDispatcher struct {
	mailer *mailer.Service
}

func NewInlineDispatcher(m *mailer.Service) *InlineDispatcher {
	return &InlineDispatcher{mailer: m}
}

func (d *InlineDispatcher) Dispatch(ctx context.Context, task models.EmailTask) error {
	return d.mailer.SendReport(ctx, task.ReportID, task.Recipient)
}

// QueueDispatcher publishes tasks to RabbitMQ for asynchronous delivery
// by an EmailWorker.
type QueueDispatcher struct {
	queue  repository.RabbitMQRepository
	mailer *mailer.Service
	cfg    config.RabbitMQConfig
	logger zerolog.Logger
}

func NewQueueDispatcher(queue repository.RabbitMQRepository, m *mailer.Service, cfg config.RabbitMQConfig, logger zerolog.Logger) (*QueueDispatcher, error) {
	if err := queue.SetupQueue(cfg.Exchange, cfg.QueueName, cfg.RoutingKey); err != nil {
		return nil, err
	}
	return &QueueDispatcher{queue: queue, mailer: m, cfg: cfg, logger: logger}, nil
}

func (d *QueueDispatcher) Dispatch(ctx context.Context, task models.EmailTask) error {
	// Fail fast on conditions the consumer cannot recover from, so the
	// caller gets a meaningful error instead of a silent dead letter.
	if err := d.mailer.Check(ctx, task.ReportID); err != nil {
		return err
	}

	body, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal email task: %w", err)
	}

	if err := d.queue.Publish(ctx, d.cfg.Exchange, d.cfg.RoutingKey, body); err != nil {
		return fmt.Errorf("failed to publish email task: %w", err)
	}

	d.logger.Info().
		Str("report_id", task.ReportID).
		Str("recipient", task.Recipient).
		Msg("Email task queued")

	return nil
}
