package kafka

import (
	"time"

	"github.com/IBM/sarama"
)

const CatalogTopic = "catalog-events"

type Config struct {
	Addrs []string `yaml:"addrs" envconfig:"KAFKA_ADDRS"`
	Topic string   `yaml:"topic" envconfig:"KAFKA_TOPIC" default:"catalog-events"`
}

func (c Config) Enabled() bool {
	return len(c.Addrs) > 0
}

func NewAsyncProducer(cfg Config) (sarama.AsyncProducer, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Producer.RequiredAcks = sarama.WaitForLocal
	defaultCfg.Producer.Return.Errors = true
	defaultCfg.Producer.Flush.Frequency = 500 * time.Millisecond

	return sarama.NewAsyncProducer(cfg.Addrs, defaultCfg)
}

type EventType string

const (
	ListCreated   EventType = "LIST_CREATED"
	ListUpdated   EventType = "LIST_UPDATED"
	ListDeleted   EventType = "LIST_DELETED"
	BookAdded     EventType = "BOOK_ADDED"
	BookRemoved   EventType = "BOOK_REMOVED"
	ReviewCreated EventType = "REVIEW_CREATED"
)

// Event is what the gateway reports after a mutation the catalog API confirmed.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	EventType EventType `json:"eventType"`
	UserID    string    `json:"userId"`
	ListID    string    `json:"listId,omitempty"`
	BookID    string    `json:"bookId,omitempty"`
	ReviewID  string    `json:"reviewId,omitempty"`
	Rating    int       `json:"rating,omitempty"`
}
