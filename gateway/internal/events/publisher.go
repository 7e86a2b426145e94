package events

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/Astemirdum/bookshelf/pkg/kafka"
)

// Publisher writes catalog events to kafka without waiting for acks. Failed deliveries
// are logged and dropped.
type Publisher struct {
	log      *zap.Logger
	producer sarama.AsyncProducer
	topic    string
	wg       sync.WaitGroup
	once     sync.Once
}

func NewPublisher(log *zap.Logger, producer sarama.AsyncProducer, topic string) *Publisher {
	if topic == "" {
		topic = kafka.CatalogTopic
	}
	p := &Publisher{
		log:      log.Named("events"),
		producer: producer,
		topic:    topic,
	}
	p.wg.Add(1)
	go p.drain()
	return p
}

func (p *Publisher) drain() {
	defer p.wg.Done()
	for perr := range p.producer.Errors() {
		p.log.Warn("publish event", zap.String("topic", perr.Msg.Topic), zap.Error(perr.Err))
	}
}

func (p *Publisher) Publish(ctx context.Context, ev kafka.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		p.log.Error("marshal event", zap.Error(err))
		return
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(ev.UserID),
		Value: sarama.ByteEncoder(data),
	}
	select {
	case p.producer.Input() <- msg:
	case <-ctx.Done():
		p.log.Debug("event dropped", zap.String("type", string(ev.EventType)), zap.Error(ctx.Err()))
	}
}

// Close flushes buffered messages and waits for the error drain.
func (p *Publisher) Close() error {
	var err error
	p.once.Do(func() {
		err = p.producer.Close()
		p.wg.Wait()
	})
	return err
}

// Noop is used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, kafka.Event) {}

func (Noop) Close() error { return nil }
