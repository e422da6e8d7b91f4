package common

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderCreatedEvent é um snapshot imutável do pedido no momento da criação.
// O consumidor nunca relê o pedido do banco: o conteúdo da notificação
// reflete o estado de criação mesmo que o pedido mude depois.
type OrderCreatedEvent struct {
	OrderID         int64           `json:"order_id"`
	OrderNo         string          `json:"order_no"`
	BuyerID         int64           `json:"buyer_id"`
	SellerID        int64           `json:"seller_id"`
	ProductID       int64           `json:"product_id"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	ShippingAddress string          `json:"shipping_address,omitempty"`
	ContactPhone    string          `json:"contact_phone,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}
