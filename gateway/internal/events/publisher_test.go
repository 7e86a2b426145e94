package events_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/bookshelf/gateway/internal/events"
	"github.com/Astemirdum/bookshelf/pkg/kafka"
)

func TestPublisher_Publish(t *testing.T) {
	t.Parallel()
	producer := mocks.NewAsyncProducer(t, nil)
	producer.ExpectInputWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "catalog-events" {
			return errors.Errorf("topic %q", msg.Topic)
		}
		raw, err := msg.Value.Encode()
		if err != nil {
			return err
		}
		var ev kafka.Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			return err
		}
		if ev.EventType != kafka.ListCreated || ev.ListID != "l1" {
			return errors.Errorf("unexpected event %+v", ev)
		}
		return nil
	})

	p := events.NewPublisher(zap.NewNop(), producer, "")
	p.Publish(context.Background(), kafka.Event{
		Timestamp: time.Now(),
		EventType: kafka.ListCreated,
		UserID:    "u1",
		ListID:    "l1",
	})
	require.NoError(t, p.Close())
}

func TestPublisher_FailedDeliveryIsDropped(t *testing.T) {
	t.Parallel()
	producer := mocks.NewAsyncProducer(t, nil)
	producer.ExpectInputAndFail(sarama.ErrOutOfBrokers)

	p := events.NewPublisher(zap.NewNop(), producer, "reviews")
	p.Publish(context.Background(), kafka.Event{EventType: kafka.ReviewCreated, UserID: "u1", ReviewID: "r1"})
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
}

func TestNoop(t *testing.T) {
	t.Parallel()
	var n events.Noop
	n.Publish(context.Background(), kafka.Event{})
	require.NoError(t, n.Close())
}
