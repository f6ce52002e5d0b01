package kafka

import (
	"context"
	"time"

	"github.com/IBM/sarama"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	NotificationTopic = "lending.notifications"
	CatalogTopic      = "catalog.titles"

	LendingConsumerGroup = "lending"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Config struct {
	Addrs   []string      `envconfig:"KAFKA_ADDRS"`
	Timeout time.Duration `envconfig:"KAFKA_TIMEOUT" default:"5s"`
}

func (c Config) Enabled() bool {
	return len(c.Addrs) > 0
}

func NewProducer(cfg Config) (sarama.SyncProducer, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Producer.RequiredAcks = sarama.WaitForAll
	defaultCfg.Producer.Return.Successes = true
	if cfg.Timeout > 0 {
		defaultCfg.Producer.Timeout = cfg.Timeout
		defaultCfg.Net.DialTimeout = cfg.Timeout
	}

	return sarama.NewSyncProducer(cfg.Addrs, defaultCfg)
}

func NewConsumer(cfg Config, group string) (sarama.ConsumerGroup, error) {
	defaultCfg := sarama.NewConfig()
	defaultCfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	defaultCfg.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}

	return sarama.NewConsumerGroup(cfg.Addrs, group, defaultCfg)
}

// Consume blocks serving the handler until ctx is done.
func Consume(ctx context.Context, group sarama.ConsumerGroup, handler sarama.ConsumerGroupHandler, log *zap.Logger, topics ...string) {
	for {
		if err := group.Consume(ctx, topics, handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return
			}
			log.Error("kafka consume", zap.Error(err), zap.Strings("topics", topics))
		}
		if ctx.Err() != nil {
			return
		}
	}
}

// Marshal and Unmarshal are the wire codec for every message on the bus.
func Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

type Publisher interface {
	Publish(topic, key string, v any) error
}

func NewPublisher(producer sarama.SyncProducer) Publisher {
	return &publisher{producer: producer}
}

type publisher struct {
	producer sarama.SyncProducer
}

func (p *publisher) Publish(topic, key string, v any) error {
	data, err := Marshal(v)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(data),
	}
	if _, _, err = p.producer.SendMessage(msg); err != nil {
		return errors.Wrapf(err, "send to %s", topic)
	}
	return nil
}
