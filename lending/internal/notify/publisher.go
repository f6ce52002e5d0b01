package notify

import (
	"github.com/Astemirdum/library-lending/pkg/kafka"
	"go.uber.org/zap"
)

// LogPublisher stands in for kafka when no brokers are configured.
type LogPublisher struct {
	log *zap.Logger
}

var _ kafka.Publisher = (*LogPublisher)(nil)

func NewLogPublisher(log *zap.Logger) *LogPublisher {
	return &LogPublisher{log: log.Named("publisher")}
}

func (p *LogPublisher) Publish(topic, key string, v any) error {
	p.log.Info("publish", zap.String("topic", topic), zap.String("key", key), zap.Any("message", v))
	return nil
}
