package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/zjgsu-lll/secondhand-services/common"
)

var (
	ErrInvalidRequest        = errors.New("invalid request")
	ErrDependencyUnavailable = errors.New("dependency temporarily unavailable")
)

// OrderNotifier abstrai o disparo da notificação de pedido criado
type OrderNotifier interface {
	SendOrderCreatedEvent(ctx context.Context, order *Order)
}

// OrderUseCase contém a lógica de negócio dos pedidos
type OrderUseCase struct {
	repository Repository
	products   ProductClient
	notifier   OrderNotifier
}

// NewOrderUseCase cria uma nova instância de OrderUseCase
func NewOrderUseCase(
	repository Repository,
	products ProductClient,
	notifier OrderNotifier,
) *OrderUseCase {
	return &OrderUseCase{
		repository: repository,
		products:   products,
		notifier:   notifier,
	}
}

// CreateOrder orquestra a criação do pedido: busca o produto, valida a
// disponibilidade, resolve vendedor e valor a partir do catálogo (nunca da
// requisição), persiste em pending_payment e publica o evento em best-effort.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	log.Printf("➡️ [CREATE ORDER] BuyerID: %d | ProductID: %d", req.BuyerID, req.ProductID)

	result := uc.products.GetProduct(ctx, req.ProductID)
	if result.Code == common.CodeDependencyUnavailable {
		return nil, fmt.Errorf("%w: %s", ErrDependencyUnavailable, result.Message)
	}
	if result.Code != common.CodeOK || result.Data == nil {
		return nil, fmt.Errorf("%w: product not found", ErrInvalidRequest)
	}

	product := result.Data
	if product.Status != ProductStatusAvailable || product.Stock <= 0 {
		return nil, fmt.Errorf("%w: product is not available for purchase", ErrInvalidRequest)
	}

	order := NewOrder(req.BuyerID, product.SellerID, product.ID, product.Price,
		req.ShippingAddress, req.ContactPhone)

	if err := uc.repository.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Falha de publicação não desfaz o pedido já criado
	uc.notifier.SendOrderCreatedEvent(ctx, order)

	log.Printf("✅ Order created | OrderID: %d | OrderNo: %s", order.ID, order.OrderNo)
	return order, nil
}

// PayOrder paga um pedido pendente. A baixa de estoque acontece antes do
// commit local; se a baixa falha, o pedido permanece pending_payment.
func (uc *OrderUseCase) PayOrder(ctx context.Context, orderID int64) (*Order, error) {
	log.Printf("➡️ [PAY ORDER] OrderID: %d", orderID)

	order, err := uc.repository.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	fromStatus := order.Status
	if err := order.Pay(); err != nil {
		return nil, err
	}

	result := uc.products.ReduceStock(ctx, order.ProductID, 1)
	if result.Code == common.CodeDependencyUnavailable {
		return nil, fmt.Errorf("%w: %s", ErrDependencyUnavailable, result.Message)
	}
	if result.Code != common.CodeOK {
		return nil, fmt.Errorf("%w: failed to reduce product stock: %s", ErrInvalidRequest, result.Message)
	}

	if err := uc.repository.TransitionOrder(ctx, order, fromStatus); err != nil {
		if errors.Is(err, ErrInvalidTransition) {
			// Janela de inconsistência conhecida: estoque já baixado no
			// serviço remoto e sem ação compensatória modelada
			log.Printf("🚨 [INCONSISTENCY] stock reduced but paid transition lost | OrderID: %d | ProductID: %d",
				order.ID, order.ProductID)
		}
		return nil, err
	}

	log.Printf("✅ Order paid | OrderID: %d", order.ID)
	return order, nil
}

// ShipOrder marca um pedido pago como enviado
func (uc *OrderUseCase) ShipOrder(ctx context.Context, orderID int64) (*Order, error) {
	log.Printf("➡️ [SHIP ORDER] OrderID: %d", orderID)

	order, err := uc.repository.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	fromStatus := order.Status
	if err := order.Ship(); err != nil {
		return nil, err
	}

	if err := uc.repository.TransitionOrder(ctx, order, fromStatus); err != nil {
		return nil, err
	}

	log.Printf("✅ Order shipped | OrderID: %d", order.ID)
	return order, nil
}

// FinishOrder conclui um pedido enviado
func (uc *OrderUseCase) FinishOrder(ctx context.Context, orderID int64) (*Order, error) {
	log.Printf("➡️ [FINISH ORDER] OrderID: %d", orderID)

	order, err := uc.repository.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	fromStatus := order.Status
	if err := order.Finish(); err != nil {
		return nil, err
	}

	if err := uc.repository.TransitionOrder(ctx, order, fromStatus); err != nil {
		return nil, err
	}

	log.Printf("✅ Order finished | OrderID: %d", order.ID)
	return order, nil
}

// CancelOrder cancela um pedido ainda não pago
func (uc *OrderUseCase) CancelOrder(ctx context.Context, orderID int64) (*Order, error) {
	log.Printf("➡️ [CANCEL ORDER] OrderID: %d", orderID)

	order, err := uc.repository.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	fromStatus := order.Status
	if err := order.Cancel(); err != nil {
		return nil, err
	}

	if err := uc.repository.TransitionOrder(ctx, order, fromStatus); err != nil {
		return nil, err
	}

	log.Printf("✅ Order cancelled | OrderID: %d", order.ID)
	return order, nil
}

// GetOrder busca um pedido pelo ID
func (uc *OrderUseCase) GetOrder(ctx context.Context, orderID int64) (*Order, error) {
	return uc.repository.GetOrder(ctx, orderID)
}

// GetOrderByOrderNo busca um pedido pelo número de pedido
func (uc *OrderUseCase) GetOrderByOrderNo(ctx context.Context, orderNo string) (*Order, error) {
	return uc.repository.GetOrderByOrderNo(ctx, orderNo)
}

// ListOrdersByBuyer lista os pedidos de um comprador
func (uc *OrderUseCase) ListOrdersByBuyer(ctx context.Context, buyerID int64) ([]Order, error) {
	return uc.repository.ListOrdersByBuyer(ctx, buyerID)
}

// ListOrdersBySeller lista os pedidos de um vendedor
func (uc *OrderUseCase) ListOrdersBySeller(ctx context.Context, sellerID int64) ([]Order, error) {
	return uc.repository.ListOrdersBySeller(ctx, sellerID)
}

// ListOrdersByStatus lista os pedidos por status
func (uc *OrderUseCase) ListOrdersByStatus(ctx context.Context, status string) ([]Order, error) {
	return uc.repository.ListOrdersByStatus(ctx, status)
}
