package handler

import (
	"context"
	"time"

	"github.com/Astemirdum/library-lending/lending/internal/errs"
	"github.com/Astemirdum/library-lending/lending/internal/model"
	"github.com/Astemirdum/library-lending/pkg/kafka"
	"github.com/Astemirdum/library-lending/pkg/retry"
	"github.com/IBM/sarama"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	handleTimeout  = 30 * time.Second
	retryBaseDelay = 100 * time.Millisecond
	retryMaxDelay  = 10 * time.Second
)

// Consumer applies catalog events from kafka to the inventory.
type Consumer struct {
	catalogSvc CatalogService
	log        *zap.Logger
	retry      []retry.Option
}

type ConsumerOption func(*Consumer)

// WithRetry overrides the backoff between attempts at a failing event.
func WithRetry(opts ...retry.Option) ConsumerOption {
	return func(c *Consumer) {
		c.retry = append(c.retry, opts...)
	}
}

func NewConsumer(catalogSvc CatalogService, log *zap.Logger, opts ...ConsumerOption) *Consumer {
	c := &Consumer{
		catalogSvc: catalogSvc,
		log:        log.Named("consumer"),
		retry: []retry.Option{
			retry.WithoutAttemptLimit(),
			retry.WithBaseDelay(retryBaseDelay),
			retry.WithMaxDelay(retryMaxDelay),
			retry.WithRetryIf(func(err error) bool { return !permanent(err) }),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (consumer *Consumer) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines have exited.
func (consumer *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (consumer *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				consumer.log.Warn("message channel was closed")
				return nil
			}
			var event model.CatalogEvent
			if err := kafka.Unmarshal(message.Value, &event); err != nil {
				consumer.log.Error("bad catalog event", zap.Error(err), zap.ByteString("value", message.Value))
				session.MarkMessage(message, "")
				continue
			}

			if err := consumer.Process(session.Context(), event); err != nil {
				if session.Context().Err() != nil {
					// unmarked: the next session resumes from this offset
					return nil
				}
				consumer.log.Error("consumer.Process", zap.Error(err), zap.String("type", string(event.Type)), zap.String("title", event.TitleID))
			}

			consumer.log.Debug("Message claimed:", zap.String("value", string(message.Value)), zap.Time("timestamp", message.Timestamp), zap.String("topic", message.Topic))
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

// Process applies one event, retrying transient failures until they pass or ctx is done.
// Offsets are committed per partition, so an event is never skipped while it can still succeed.
func (consumer *Consumer) Process(ctx context.Context, event model.CatalogEvent) error {
	return retry.Do(ctx, func(ctx context.Context) error {
		hctx, cancel := context.WithTimeout(ctx, handleTimeout)
		defer cancel()
		err := consumer.Handle(hctx, event)
		if err != nil && !permanent(err) {
			consumer.log.Warn("consumer.Handle, retrying", zap.Error(err), zap.String("title", event.TitleID))
		}
		return err
	}, consumer.retry...)
}

// Handle applies one catalog event. Re-delivered creations are accepted.
func (consumer *Consumer) Handle(ctx context.Context, event model.CatalogEvent) error {
	switch event.Type {
	case model.TitleCreated:
		_, err := consumer.catalogSvc.AddTitle(ctx, model.Title{
			ID:          event.TitleID,
			Name:        event.Name,
			Author:      event.Author,
			ISBN:        event.ISBN,
			Price:       event.Price,
			TotalCopies: event.Quantity,
		})
		if errors.Is(err, errs.ErrTitleExists) {
			return nil
		}
		return err
	case model.TitleQuantityChanged:
		_, err := consumer.catalogSvc.SetTotalCopies(ctx, event.TitleID, event.Quantity)
		return err
	case model.TitleDeactivated:
		return consumer.catalogSvc.SetTitleActive(ctx, event.TitleID, false)
	case model.TitleActivated:
		return consumer.catalogSvc.SetTitleActive(ctx, event.TitleID, true)
	}
	return errors.Wrapf(errs.ErrInvalidInput, "unknown catalog event %q", event.Type)
}

// permanent errors will fail the same way on every redelivery.
func permanent(err error) bool {
	switch errs.KindOf(err) {
	case errs.KindNotFound, errs.KindInvalidInput, errs.KindConflict, errs.KindInvariant:
		return true
	}
	return false
}
