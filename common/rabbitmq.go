package common

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// Exchange names
	OrderExchange = "order.exchange"
	DLXExchange   = "dlx.exchange"

	// Queue names
	OrderNotificationQueue = "order.notification.queue"
	DLXQueue               = "dlx.queue"

	// Routing keys
	OrderNotificationRoutingKey = "order.notification"
	DLXRoutingKey               = "dlx"
)

// Outcome é o resultado do processamento de uma mensagem, consumido pelo
// driver de entrega para decidir entre ack, requeue e dead-letter.
type Outcome int

const (
	OutcomeAck Outcome = iota
	OutcomeRequeue
	OutcomeDeadLetter
)

// RabbitMQConfig holds the configuration for RabbitMQ
type RabbitMQConfig struct {
	URL string
}

// RabbitMQClient is a wrapper around RabbitMQ connection
type RabbitMQClient struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewRabbitMQClient abre a conexão (com retry) e garante a topologia
func NewRabbitMQClient(config RabbitMQConfig) (*RabbitMQClient, error) {
	var conn *amqp.Connection
	var err error

	// Retry connection up to 5 times with quadratic backoff
	for i := 0; i < 5; i++ {
		conn, err = amqp.Dial(config.URL)
		if err == nil {
			break
		}
		retryTime := time.Duration(i*i)*time.Second + time.Second
		log.Printf("⏳ Failed to connect to RabbitMQ, retrying in %v: %v", retryTime, err)
		time.Sleep(retryTime)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ after retries: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	client := &RabbitMQClient{conn: conn, channel: channel}

	if err := client.EnsureTopology(); err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	return client, nil
}

// EnsureTopology declara exchanges, filas e bindings de forma idempotente.
// A fila de notificação nasce com argumentos de dead-letter apontando para
// o DLX, então um Nack sem requeue roteia a mensagem para a dlx.queue.
func (c *RabbitMQClient) EnsureTopology() error {
	err := c.channel.ExchangeDeclare(
		OrderExchange, // name
		"topic",       // type
		true,          // durable
		false,         // auto-deleted
		false,         // internal
		false,         // no-wait
		nil,           // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", OrderExchange, err)
	}

	err = c.channel.ExchangeDeclare(
		DLXExchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", DLXExchange, err)
	}

	_, err = c.channel.QueueDeclare(
		DLXQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", DLXQueue, err)
	}

	err = c.channel.QueueBind(DLXQueue, DLXRoutingKey, DLXExchange, false, nil)
	if err != nil {
		return fmt.Errorf("failed to bind queue %s: %w", DLXQueue, err)
	}

	_, err = c.channel.QueueDeclare(
		OrderNotificationQueue,
		true,
		false,
		false,
		false,
		amqp.Table{
			"x-dead-letter-exchange":    DLXExchange,
			"x-dead-letter-routing-key": DLXRoutingKey,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", OrderNotificationQueue, err)
	}

	err = c.channel.QueueBind(OrderNotificationQueue, OrderNotificationRoutingKey, OrderExchange, false, nil)
	if err != nil {
		return fmt.Errorf("failed to bind queue %s: %w", OrderNotificationQueue, err)
	}

	return nil
}

// Close closes the RabbitMQ connection and channel
func (c *RabbitMQClient) Close() error {
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			return err
		}
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// PublishJSON publica uma mensagem persistente na exchange de pedidos
func (c *RabbitMQClient) PublishJSON(ctx context.Context, routingKey string, message any) error {
	messageBytes, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = c.channel.PublishWithContext(
		ctx,
		OrderExchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         messageBytes,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message with routing key %s: %w", routingKey, err)
	}

	return nil
}

// Consume inicia um consumidor com ack manual. O handler devolve um Outcome
// e o driver aplica a chamada de transporte correspondente.
func (c *RabbitMQClient) Consume(queueName string, handler func(amqp.Delivery) Outcome) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}

	// Limita mensagens não confirmadas por consumidor
	if err := ch.Qos(1, 0, false); err != nil {
		ch.Close()
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	msgs, err := ch.Consume(
		queueName, // queue
		"",        // consumer
		false,     // auto-ack
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		ch.Close()
		return fmt.Errorf("failed to start consuming from queue %s: %w", queueName, err)
	}

	go func() {
		defer ch.Close()

		for msg := range msgs {
			switch handler(msg) {
			case OutcomeAck:
				if err := msg.Ack(false); err != nil {
					log.Printf("❌ Failed to ack message: %v", err)
				}
			case OutcomeRequeue:
				if err := msg.Nack(false, true); err != nil {
					log.Printf("❌ Failed to nack (requeue) message: %v", err)
				}
			case OutcomeDeadLetter:
				if err := msg.Nack(false, false); err != nil {
					log.Printf("❌ Failed to nack (dead-letter) message: %v", err)
				}
			}
		}
	}()

	log.Printf("✅ Consumer started for queue %s", queueName)
	return nil
}
