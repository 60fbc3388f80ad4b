package kafka

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"

	"shorestay/internal/app/reservation"
)

type Producer struct {
	sync        sarama.SyncProducer
	topicPrefix string
}

func NewProducer(brokers []string, topicPrefix string, cfg *sarama.Config) (*Producer, error) {
	if cfg == nil {
		cfg = sarama.NewConfig()
	}
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Idempotent = true
	cfg.Producer.Return.Successes = true
	cfg.Net.MaxOpenRequests = 1 // required by the idempotent producer
	sync, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}
	return &Producer{sync: sync, topicPrefix: topicPrefix}, nil
}

// PublishReservationCreated emits the event keyed by listing so all events
// for one property land on the same partition.
func (p *Producer) PublishReservationCreated(ctx context.Context, event reservation.Event, requestID string) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topicPrefix + "reservation.created",
		Key:   sarama.StringEncoder(event.ListingID),
		Value: sarama.ByteEncoder(payload),
	}
	if requestID != "" {
		msg.Headers = append(msg.Headers, sarama.RecordHeader{Key: []byte("request_id"), Value: []byte(requestID)})
	}
	_, _, err = p.sync.SendMessage(msg)
	return err
}

func (p *Producer) Close() error {
	if p == nil || p.sync == nil {
		return nil
	}
	return p.sync.Close()
}

var _ reservation.Publisher = (*Producer)(nil)
