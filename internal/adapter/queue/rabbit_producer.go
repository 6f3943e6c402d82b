package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/brianragasi/Highland-sub003/internal/usecase"
	amqp "github.com/rabbitmq/amqp091-go"
)

const defaultQueueName = "sale.completed.q"

// RabbitProducer implements usecase.SaleEvents. Inventory and reporting
// consumers bind to the exchange to pick up finished sales.
type RabbitProducer struct {
	ch         *amqp.Channel
	exchange   string
	routingKey string
}

// NewRabbitProducer sets up the exchange, queue, and binding once at startup.
func NewRabbitProducer(ch *amqp.Channel, exchange, routingKey string) (*RabbitProducer, error) {
	if exchange == "" {
		exchange = "pos.events"
	}
	if routingKey == "" {
		routingKey = "sale.completed"
	}

	// topic exchange, durable
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	q, err := ch.QueueDeclare(defaultQueueName, true, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, routingKey, exchange, false, nil); err != nil {
		return nil, fmt.Errorf("queue bind: %w", err)
	}

	// publisher confirms so a dropped publish is at least observable
	if err := ch.Confirm(false); err != nil {
		return nil, fmt.Errorf("enable confirm mode: %w", err)
	}

	return &RabbitProducer{ch: ch, exchange: exchange, routingKey: routingKey}, nil
}

// PublishCompleted sends a sale.completed event to the exchange.
func (p *RabbitProducer) PublishCompleted(ctx context.Context, msg usecase.SaleCompletedMsg) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // survive broker restarts
		MessageId:    msg.SaleID,
		Body:         body,
	}

	if err := p.ch.PublishWithContext(ctx, p.exchange, p.routingKey, false, false, pub); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

var _ usecase.SaleEvents = (*RabbitProducer)(nil)
