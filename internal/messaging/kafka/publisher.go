// Package kafka publishes order events to Apache Kafka.
package kafka

import (
	"context"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/pizzaria/internal/domain/order"
)

// EventOrderPlaced is the type header of order.placed messages.
const EventOrderPlaced = "order.placed"

var _ order.EventPublisher = (*Publisher)(nil)

// Publisher implements order.EventPublisher on a sarama.SyncProducer.
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewPublisher connects a synchronous idempotent producer to brokers.
func NewPublisher(brokers []string, topic string) (*Publisher, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Return.Successes = true
	cfg.Producer.Compression = sarama.CompressionSnappy
	cfg.Producer.Idempotent = true
	cfg.Net.MaxOpenRequests = 1

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "create kafka producer")
	}
	return NewPublisherWithProducer(producer, topic), nil
}

// NewPublisherWithProducer wraps an existing producer.
func NewPublisherWithProducer(producer sarama.SyncProducer, topic string) *Publisher {
	return &Publisher{producer: producer, topic: topic}
}

// PublishOrderPlaced sends e keyed by order ID, so events of one order keep
// their partition.
func (p *Publisher) PublishOrderPlaced(ctx context.Context, e order.PlacedEvent) error {
	key := strconv.FormatInt(e.OrderID, 10)
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(EncodePlacedEvent(e)),
		Headers: []sarama.RecordHeader{
			{Key: []byte("type"), Value: []byte(EventOrderPlaced)},
		},
		Timestamp: e.PlacedAt,
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return errors.Wrapf(err, "send %s for order %s", EventOrderPlaced, key)
	}
	zctx.From(ctx).Debug("Order event sent",
		zap.String("topic", p.topic),
		zap.String("key", key),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset),
	)
	return nil
}

// Close flushes and closes the producer.
func (p *Publisher) Close() error {
	if err := p.producer.Close(); err != nil {
		return errors.Wrap(err, "close kafka producer")
	}
	return nil
}

// EncodePlacedEvent renders the JSON message value.
func EncodePlacedEvent(e order.PlacedEvent) []byte {
	var enc jx.Encoder
	enc.ObjStart()
	enc.FieldStart("type")
	enc.Str(EventOrderPlaced)
	enc.FieldStart("id_pedido")
	enc.Int64(e.OrderID)
	enc.FieldStart("id_cliente")
	enc.Int64(e.CustomerID)
	enc.FieldStart("itens")
	enc.Str(e.Items)
	enc.FieldStart("total")
	enc.Str(e.Total.StringFixed(2))
	enc.FieldStart("desconto")
	enc.Str(e.Discount.StringFixed(2))
	enc.FieldStart("data")
	enc.Str(e.PlacedAt.UTC().Format(time.RFC3339Nano))
	enc.ObjEnd()
	return enc.Bytes()
}
