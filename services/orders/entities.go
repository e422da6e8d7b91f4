package main

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus representa os possíveis status de um pedido
const (
	OrderStatusPendingPayment = "pending_payment"
	OrderStatusPaid           = "paid"
	OrderStatusShipped        = "shipped"
	OrderStatusFinished       = "finished"
	OrderStatusCancelled      = "cancelled"
)

var ErrInvalidTransition = errors.New("order is not in a state compatible with the requested operation")

// Order representa um pedido no sistema
type Order struct {
	ID              int64           `json:"id" db:"id"`
	OrderNo         string          `json:"order_no" db:"order_no"`
	BuyerID         int64           `json:"buyer_id" db:"buyer_id"`
	SellerID        int64           `json:"seller_id" db:"seller_id"`
	ProductID       int64           `json:"product_id" db:"product_id"`
	TotalAmount     decimal.Decimal `json:"total_amount" db:"total_amount"`
	Status          string          `json:"status" db:"status"`
	ShippingAddress string          `json:"shipping_address" db:"shipping_address"`
	ContactPhone    string          `json:"contact_phone" db:"contact_phone"`
	PaidAt          *time.Time      `json:"paid_at" db:"paid_at"`
	ShippedAt       *time.Time      `json:"shipped_at" db:"shipped_at"`
	FinishedAt      *time.Time      `json:"finished_at" db:"finished_at"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// NewOrder cria um pedido em pending_payment com número de pedido atribuído.
// SellerID e TotalAmount vêm do produto buscado no serviço de catálogo,
// nunca da requisição do cliente.
func NewOrder(buyerID, sellerID, productID int64, totalAmount decimal.Decimal, shippingAddress, contactPhone string) *Order {
	now := time.Now()
	return &Order{
		OrderNo:         GenerateOrderNo(),
		BuyerID:         buyerID,
		SellerID:        sellerID,
		ProductID:       productID,
		TotalAmount:     totalAmount,
		Status:          OrderStatusPendingPayment,
		ShippingAddress: shippingAddress,
		ContactPhone:    contactPhone,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// GenerateOrderNo gera o número legível do pedido: prefixo + timestamp em
// milissegundos + sufixo aleatório de 8 caracteres. A unicidade real é
// garantida pela constraint UNIQUE em order_no.
func GenerateOrderNo() string {
	suffix := strings.ToUpper(uuid.New().String()[:8])
	return "ORD" + strconv.FormatInt(time.Now().UnixMilli(), 10) + suffix
}

// Pay marca o pedido como pago
func (o *Order) Pay() error {
	if o.Status != OrderStatusPendingPayment {
		return ErrInvalidTransition
	}
	now := time.Now()
	o.Status = OrderStatusPaid
	o.PaidAt = &now
	o.UpdatedAt = now
	return nil
}

// Ship marca o pedido como enviado
func (o *Order) Ship() error {
	if o.Status != OrderStatusPaid {
		return ErrInvalidTransition
	}
	now := time.Now()
	o.Status = OrderStatusShipped
	o.ShippedAt = &now
	o.UpdatedAt = now
	return nil
}

// Finish marca o pedido como concluído, o que habilita a avaliação
// do pedido pelo serviço de comentários.
func (o *Order) Finish() error {
	if o.Status != OrderStatusShipped {
		return ErrInvalidTransition
	}
	now := time.Now()
	o.Status = OrderStatusFinished
	o.FinishedAt = &now
	o.UpdatedAt = now
	return nil
}

// Cancel cancela um pedido ainda não pago
func (o *Order) Cancel() error {
	if o.Status != OrderStatusPendingPayment {
		return ErrInvalidTransition
	}
	o.Status = OrderStatusCancelled
	o.UpdatedAt = time.Now()
	return nil
}
