package worker

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/docudetect/docu-detect/internal/config"
	"github.com/docudetect/docu-detect/internal/models"
	"github.com/docudetect/docu-detect/internal/repository"
	"github.com/docudetect/docu-detect/internal/service/mailer"
)

// EmailWorker consumes queued email tasks and delivers report PDFs
// through the mailer, using a worker pool to bound concurrent sends.
type EmailWorker struct {
	queue  repository.RabbitMQRepository
	mailer *mailer.Service
	pool   *WorkerPool
	cfg    config.RabbitMQConfig
	logger zerolog.Logger
	cancel context.CancelFunc
	done   chan struct{}
}

func NewEmailWorker(queue repository.RabbitMQRepository, m *mailer.Service, pool *WorkerPool, cfg config.RabbitMQConfig, logger zerolog.Logger) *EmailWorker {
	return &EmailWorker{
		queue:  queue,
		mailer: m,
		pool:   pool,
		cfg:    cfg,
		logger: logger,
		done:   make(chan struct{}),
	}
}

func (w *EmailWorker) Start(ctx context.Context) error {
	ctx, w.cancel = context.WithCancel(ctx)

	if err := w.pool.Start(ctx); err != nil {
		return err
	}

	deliveries, err := w.queue.Consume(ctx, w.cfg.QueueName, w.cfg.ConsumerTag)
	if err != nil {
		return err
	}

	go w.run(ctx, deliveries)

	w.logger.Info().Str("queue", w.cfg.QueueName).Msg("Email worker started")
	return nil
}

func (w *EmailWorker) Stop() error {
	if w.cancel != nil {
		w.cancel()
	}
	select {
	case <-w.done:
	case <-time.After(10 * time.Second):
		w.logger.Warn().Msg("Email worker stop timed out")
	}
	return w.pool.Stop()
}

func (w *EmailWorker) run(ctx context.Context, deliveries <-chan amqp.Delivery) {
	defer close(w.done)

	for {
		select {
		case <-ctx.Done():
			return
		case delivery, ok := <-deliveries:
			if !ok {
				w.logger.Warn().Msg("Delivery channel closed")
				return
			}
			w.pool.Submit(func() {
				w.handle(ctx, delivery)
			})
		}
	}
}

func (w *EmailWorker) handle(ctx context.Context, delivery amqp.Delivery) {
	var task models.EmailTask
	if err := json.Unmarshal(delivery.Body, &task); err != nil {
		w.logger.Error().Err(err).Msg("Failed to decode email task")
		// Malformed payloads never succeed; drop without requeue.
		if err := delivery.Nack(false, false); err != nil {
			w.logger.Error().Err(err).Msg("Failed to nack delivery")
		}
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := w.mailer.SendReport(sendCtx, task.ReportID, task.Recipient); err != nil {
		w.logger.Error().
			Err(err).
			Str("report_id", task.ReportID).
			Str("recipient", task.Recipient).
			Msg("Failed to send report email")

		requeue := !delivery.Redelivered
		if err := delivery.Nack(false, requeue); err != nil {
			w.logger.Error().Err(err).Msg("Failed to nack delivery")
		}
		return
	}

	if err := delivery.Ack(false); err != nil {
		w.logger.Error().Err(err).Msg("Failed to ack delivery")
	}
}
