// Package queue_publisher publishes domain events to RabbitMQ.  Errors are
// logged and returned so callers can ignore a broker outage without
// failing the request: notification delivery is best-effort, the RSVP
// itself is already committed.
package queue_publisher

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/filmnight/screening-rsvp/internal/queue"
)

// PublishInvitationCreated publishes to the invitation.created queue.
func PublishInvitationCreated(ctx context.Context, event q.InvitationCreatedEvent) error {
	return publish(ctx, q.InvitationCreatedQueue, event)
}

// PublishRSVPRecorded publishes to the rsvp.recorded queue.
func PublishRSVPRecorded(ctx context.Context, event q.RSVPRecordedEvent) error {
	return publish(ctx, q.RSVPRecordedQueue, event)
}

// publish opens a short-lived connection, declares the durable queue
// (idempotent) and sends one persistent JSON message on the default
// exchange.
func publish(ctx context.Context, queueName string, event any) error {
	conn, err := amqp.Dial(q.BrokerURL())
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", queueName, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
