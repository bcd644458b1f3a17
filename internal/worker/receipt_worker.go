package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/models"
	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/service"
	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/worker/queue"
)

// ReceiptSender is the part of the receipt service the worker needs.
type ReceiptSender interface {
	SendReceipt(ctx context.Context, key string) error
}

type WorkerStats struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
	Dropped   int `json:"dropped"`
}

// ReceiptWorker consumes receipt requests and sends the emails.
type ReceiptWorker struct {
	pool      *WorkerPool
	consumer  queue.RabbitMQConsumer
	receipts  ReceiptSender
	logger    zerolog.Logger
	stats     WorkerStats
	statsMu   sync.RWMutex
	startTime time.Time
	done      chan struct{}
}

func NewReceiptWorker(pool *WorkerPool, consumer queue.RabbitMQConsumer, receipts ReceiptSender, logger zerolog.Logger) *ReceiptWorker {
	return &ReceiptWorker{
		pool:      pool,
		consumer:  consumer,
		receipts:  receipts,
		logger:    logger,
		startTime: time.Now(),
		done:      make(chan struct{}),
	}
}

func (w *ReceiptWorker) Start(ctx context.Context) error {
	msgs, err := w.consumer.Consume(ctx)
	if err != nil {
		return fmt.Errorf("failed to start consuming messages: %w", err)
	}

	w.pool.Start()
	go w.processMessages(ctx, msgs)

	w.logger.Info().Msg("Receipt worker started")
	return nil
}

// Stop closes the consumer and waits for in-flight emails.
func (w *ReceiptWorker) Stop() {
	if err := w.consumer.Close(); err != nil {
		w.logger.Error().Err(err).Msg("Failed to close queue consumer")
	}
	<-w.done
	w.pool.Stop()

	stats := w.Stats()
	w.logger.Info().
		Int("processed", stats.Processed).
		Int("failed", stats.Failed).
		Int("dropped", stats.Dropped).
		Dur("uptime", time.Since(w.startTime)).
		Msg("Receipt worker stopped")
}

func (w *ReceiptWorker) Stats() WorkerStats {
	w.statsMu.RLock()
	defer w.statsMu.RUnlock()
	return w.stats
}

func (w *ReceiptWorker) processMessages(ctx context.Context, msgs <-chan queue.RabbitMQMessage) {
	defer close(w.done)
	for msg := range msgs {
		msg := msg
		if !w.pool.Submit(func() { w.handle(ctx, msg) }) {
			if err := msg.Nack(false, true); err != nil {
				w.logger.Error().Err(err).Msg("Failed to nack message")
			}
		}
	}
}

func (w *ReceiptWorker) handle(ctx context.Context, msg queue.RabbitMQMessage) {
	err := w.processMessage(ctx, msg)
	if err == nil {
		w.count(func(s *WorkerStats) { s.Processed++ })
		if ackErr := msg.Ack(false); ackErr != nil {
			w.logger.Error().Err(ackErr).Msg("Failed to ack message")
		}
		return
	}

	w.logger.Error().Err(err).Bool("redelivered", msg.Redelivered).Msg("Failed to process receipt request")

	// Retry once; a second failure or a bad request is dropped.
	if isPermanentError(err) || msg.Redelivered {
		w.count(func(s *WorkerStats) { s.Dropped++ })
		if nackErr := msg.Nack(false, false); nackErr != nil {
			w.logger.Error().Err(nackErr).Msg("Failed to nack message")
		}
		return
	}

	w.count(func(s *WorkerStats) { s.Failed++ })
	if nackErr := msg.Nack(false, true); nackErr != nil {
		w.logger.Error().Err(nackErr).Msg("Failed to nack message")
	}
}

func (w *ReceiptWorker) count(f func(*WorkerStats)) {
	w.statsMu.Lock()
	f(&w.stats)
	w.statsMu.Unlock()
}

type permanentError struct{ err error }

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() error { return e.err }

func isPermanentError(err error) bool {
	var p permanentError
	return errors.As(err, &p)
}

func (w *ReceiptWorker) processMessage(ctx context.Context, msg queue.RabbitMQMessage) error {
	var event models.ReceiptRequestedEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		return permanentError{fmt.Errorf("failed to unmarshal receipt request: %w", err)}
	}
	if event.StudentKey == "" {
		return permanentError{errors.New("receipt request without student key")}
	}

	w.logger.Info().
		Str("event_id", event.EventID).
		Str("student_key", event.StudentKey).
		Str("requested_by", event.RequestedBy).
		Msg("Processing receipt request")

	if err := w.receipts.SendReceipt(ctx, event.StudentKey); err != nil {
		if errors.Is(err, service.ErrReceiptNoRecipient) {
			return permanentError{err}
		}
		return err
	}
	return nil
}
