package consumers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/markethub/storefront-gateway/clients"
	"github.com/markethub/storefront-gateway/config"
	"github.com/markethub/storefront-gateway/models"
)

// StartOrderConsumer drains the order queue and turns events into customer
// emails via the notification service. Malformed messages are rejected
// without requeue and land in the dead-letter queue.
func StartOrderConsumer(ch *amqp.Channel, cfg *config.Config, notifier *clients.NotificationClient) {
	msgs, err := ch.Consume(
		cfg.OrderQueue,
		"storefront-gateway", // consumer tag
		false,                // auto-ack
		false,                // exclusive
		false,                // no-local
		false,                // no-wait
		nil,
	)
	if err != nil {
		log.Printf("Failed to register order consumer: %v", err)
		return
	}

	go func() {
		for msg := range msgs {
			processOrderMessage(msg, notifier)
		}
	}()

	dlqMsgs, err := ch.Consume(
		cfg.DeadLetterQueue,
		"storefront-gateway-dlq",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		log.Printf("Failed to register DLQ consumer: %v", err)
		return
	}

	go func() {
		for msg := range dlqMsgs {
			log.Printf("Received dead letter: %s", msg.Body)
			msg.Ack(false)
		}
	}()
}

func processOrderMessage(msg amqp.Delivery, notifier *clients.NotificationClient) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic in order message processing: %v", r)
		}
	}()

	var event models.OrderEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		log.Printf("Invalid order event: %v", err)
		msg.Nack(false, false)
		return
	}

	log.Printf("Processing order event: order=%d type=%s", event.OrderID, event.Type)

	switch event.Type {
	case "created":
		notifyOrderCreated(event, notifier)
	case "status_updated":
		notifyStatusUpdated(event, notifier)
	default:
		log.Printf("Unknown order event type: %s", event.Type)
	}

	msg.Ack(false)
}

func notifyOrderCreated(event models.OrderEvent, notifier *clients.NotificationClient) {
	if event.Email == "" {
		return
	}
	err := notifier.SendEmail(context.Background(), models.EmailRequest{
		To:      event.Email,
		Subject: fmt.Sprintf("Order #%d confirmed", event.OrderID),
		Body:    fmt.Sprintf("Your order #%d totaling %.2f has been placed.", event.OrderID, event.Total),
	})
	if err != nil {
		log.Printf("Order %d confirmation email failed: %v", event.OrderID, err)
	}
}

func notifyStatusUpdated(event models.OrderEvent, notifier *clients.NotificationClient) {
	if event.Email == "" {
		return
	}
	err := notifier.SendEmail(context.Background(), models.EmailRequest{
		To:      event.Email,
		Subject: fmt.Sprintf("Order #%d update", event.OrderID),
		Body:    fmt.Sprintf("Your order #%d is now %s.", event.OrderID, event.Status),
	})
	if err != nil {
		log.Printf("Order %d status email failed: %v", event.OrderID, err)
	}
}
