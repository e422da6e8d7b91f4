package main

import (
	"context"
	"log"

	"github.com/zjgsu-lll/secondhand-services/common"
)

// EventPublisher abstrai a publicação de mensagens no broker
type EventPublisher interface {
	PublishJSON(ctx context.Context, routingKey string, message any) error
}

// OrderProducer envia eventos de pedido para o RabbitMQ
type OrderProducer struct {
	publisher EventPublisher
}

// NewOrderProducer cria uma nova instância de OrderProducer
func NewOrderProducer(publisher EventPublisher) *OrderProducer {
	return &OrderProducer{
		publisher: publisher,
	}
}

// SendOrderCreatedEvent publica o evento de criação em best-effort. Uma
// falha de publicação é engolida e logada: o pedido já foi criado e a
// notificação é um efeito auxiliar, não parte da correção do pedido.
func (p *OrderProducer) SendOrderCreatedEvent(ctx context.Context, order *Order) {
	event := common.OrderCreatedEvent{
		OrderID:         order.ID,
		OrderNo:         order.OrderNo,
		BuyerID:         order.BuyerID,
		SellerID:        order.SellerID,
		ProductID:       order.ProductID,
		TotalAmount:     order.TotalAmount,
		ShippingAddress: order.ShippingAddress,
		ContactPhone:    order.ContactPhone,
		CreatedAt:       order.CreatedAt,
	}

	if err := p.publisher.PublishJSON(ctx, common.OrderNotificationRoutingKey, event); err != nil {
		log.Printf("❌ Failed to publish order created event, order already persisted | OrderID: %d | Error: %v",
			order.ID, err)
		return
	}

	log.Printf("📤 Order created event published | OrderID: %d | OrderNo: %s", order.ID, order.OrderNo)
}
