package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaSender publishes notifications to a topic for a downstream mailer or
// push service.
type KafkaSender struct {
	writer *kafka.Writer
}

type notificationEvent struct {
	To      string    `json:"to"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	SentAt  time.Time `json:"sent_at"`
}

func NewKafkaSender(brokers []string, topic string) *KafkaSender {
	return &KafkaSender{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (k *KafkaSender) Send(ctx context.Context, msg Message) error {
	km, err := encodeEvent(msg, time.Now().UTC())
	if err != nil {
		return err
	}
	return k.writer.WriteMessages(ctx, km)
}

func (k *KafkaSender) Close() error {
	return k.writer.Close()
}

func encodeEvent(msg Message, at time.Time) (kafka.Message, error) {
	data, err := json.Marshal(notificationEvent{
		To:      msg.To,
		Subject: msg.Subject,
		Body:    msg.Body,
		SentAt:  at,
	})
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(msg.To),
		Value: data,
	}, nil
}
