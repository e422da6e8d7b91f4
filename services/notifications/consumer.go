package main

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjgsu-lll/secondhand-services/common"
)

// Notifier abstrai os efeitos colaterais de notificação
type Notifier interface {
	NotifyBuyer(ctx context.Context, event common.OrderCreatedEvent) error
	NotifySeller(ctx context.Context, event common.OrderCreatedEvent) error
}

// LogNotifier simula o envio de notificações. Aqui entraria a integração
// com e-mail, SMS ou mensagem interna.
type LogNotifier struct{}

// NotifyBuyer envia a confirmação de pedido ao comprador
func (LogNotifier) NotifyBuyer(_ context.Context, event common.OrderCreatedEvent) error {
	log.Printf("📧 Notifying buyer | BuyerID: %d | OrderNo: %s | TotalAmount: %s",
		event.BuyerID, event.OrderNo, event.TotalAmount)
	return nil
}

// NotifySeller avisa o vendedor sobre o novo pedido
func (LogNotifier) NotifySeller(_ context.Context, event common.OrderCreatedEvent) error {
	log.Printf("📧 Notifying seller | SellerID: %d | OrderNo: %s | ProductID: %d",
		event.SellerID, event.OrderNo, event.ProductID)
	return nil
}

// NotificationConsumer processa mensagens da fila de notificação de pedidos
type NotificationConsumer struct {
	notifier Notifier
	tracer   trace.Tracer
}

// NewNotificationConsumer cria uma nova instância de NotificationConsumer
func NewNotificationConsumer(notifier Notifier, tracer trace.Tracer) *NotificationConsumer {
	return &NotificationConsumer{
		notifier: notifier,
		tracer:   tracer,
	}
}

// HandleDelivery processa uma entrega e devolve o Outcome que o driver
// traduz em ack, requeue ou dead-letter. Só confirma depois que as duas
// notificações completam sem erro.
func (c *NotificationConsumer) HandleDelivery(msg amqp.Delivery) common.Outcome {
	ctx, span := c.tracer.Start(context.Background(), "handle_order_notification")
	defer span.End()

	var event common.OrderCreatedEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		// Mensagem envenenada: nunca vai parsear, vai direto para inspeção
		span.RecordError(err)
		log.Printf("❌ Unparseable notification message, dead-lettering: %v", err)
		return common.OutcomeDeadLetter
	}

	span.SetAttributes(
		attribute.Int64("order_id", event.OrderID),
		attribute.String("order_no", event.OrderNo),
	)

	log.Printf("📨 Order notification received | OrderNo: %s | OrderID: %d", event.OrderNo, event.OrderID)

	if err := c.notifier.NotifyBuyer(ctx, event); err != nil {
		span.RecordError(err)
		return c.failureOutcome(msg, event, err)
	}

	if err := c.notifier.NotifySeller(ctx, event); err != nil {
		span.RecordError(err)
		return c.failureOutcome(msg, event, err)
	}

	log.Printf("✅ Order notification processed | OrderNo: %s", event.OrderNo)
	return common.OutcomeAck
}

// failureOutcome limita o retry: a primeira falha reenfileira, a falha de
// uma mensagem já reentregue segue para a rota de dead-letter
func (c *NotificationConsumer) failureOutcome(msg amqp.Delivery, event common.OrderCreatedEvent, err error) common.Outcome {
	if msg.Redelivered {
		log.Printf("❌ Notification failed again, dead-lettering | OrderNo: %s | Error: %v", event.OrderNo, err)
		return common.OutcomeDeadLetter
	}
	log.Printf("↩️ Notification failed, requeueing | OrderNo: %s | Error: %v", event.OrderNo, err)
	return common.OutcomeRequeue
}
