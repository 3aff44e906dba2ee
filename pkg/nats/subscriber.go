package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// TriggerHandler processes the raw payload of a pipeline trigger message.
// Returning an error causes redelivery, up to the consumer's MaxDeliver.
type TriggerHandler func(ctx context.Context, data []byte) error

// AdvisoryHandler is called when a message exhausts its deliveries.
type AdvisoryHandler func(streamSeq uint64, subject string)

// maxDeliveriesAdvisory is the part of the JetStream advisory we care about.
type maxDeliveriesAdvisory struct {
	Stream    string `json:"stream"`
	Consumer  string `json:"consumer"`
	StreamSeq uint64 `json:"stream_seq"`
}

// Subscriber handles listening for trigger messages from NATS.
type Subscriber struct {
	nc *nats.Conn
	js jetstream.JetStream
}

// NewSubscriber creates a new NATS subscriber with its own connection.
func NewSubscriber(url string) (*Subscriber, error) {
	nc, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	return &Subscriber{nc: nc, js: js}, nil
}

// SubscribeTrigger registers a durable consumer on the pipeline stream.
// Explicit acks only; a failed handler NAKs so the message is redelivered,
// and after maxDeliver attempts JetStream emits a max-deliveries advisory.
func (s *Subscriber) SubscribeTrigger(subject string, durableName string, maxDeliver int, handler TriggerHandler) error {
	ctx := context.Background()

	consumer, err := s.js.CreateOrUpdateConsumer(ctx, PipelineStream, jetstream.ConsumerConfig{
		Durable:       durableName,
		FilterSubject: subject,
		AckPolicy:     jetstream.AckExplicitPolicy,
		MaxDeliver:    maxDeliver,
		AckWait:       30 * time.Minute, // pipeline runs are long
	})
	if err != nil {
		return fmt.Errorf("failed to create consumer: %w", err)
	}

	_, err = consumer.Consume(func(msg jetstream.Msg) {
		err := handler(context.Background(), msg.Data())
		if err != nil {
			log.Printf("Handler failed for trigger %s: %v", msg.Subject(), err)
			msg.Nak()
			return
		}

		msg.Ack()
	})
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	log.Printf("Subscribed to %s with durable %s", subject, durableName)
	return nil
}

// SubscribeMaxDeliveries listens for the JetStream advisory raised when a
// message on the given consumer runs out of delivery attempts. This is the
// dead-letter hook: the handler gets the stream sequence so the message can
// be inspected or the session flagged.
func (s *Subscriber) SubscribeMaxDeliveries(durableName string, handler AdvisoryHandler) error {
	subject := fmt.Sprintf("$JS.EVENT.ADVISORY.CONSUMER.MAX_DELIVERIES.%s.%s", PipelineStream, durableName)

	_, err := s.nc.Subscribe(subject, func(msg *nats.Msg) {
		var adv maxDeliveriesAdvisory
		if err := json.Unmarshal(msg.Data, &adv); err != nil {
			log.Printf("Error unmarshalling max-deliveries advisory: %v", err)
			return
		}
		handler(adv.StreamSeq, msg.Subject)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to advisory: %w", err)
	}

	return nil
}

// Close closes the connection.
func (s *Subscriber) Close() {
	if s.nc != nil {
		s.nc.Close()
	}
}
