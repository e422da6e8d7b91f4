package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjgsu-lll/secondhand-services/common"
)

// OrderUseCaseInterface define a interface para o use case
type OrderUseCaseInterface interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error)
	PayOrder(ctx context.Context, orderID int64) (*Order, error)
	ShipOrder(ctx context.Context, orderID int64) (*Order, error)
	FinishOrder(ctx context.Context, orderID int64) (*Order, error)
	CancelOrder(ctx context.Context, orderID int64) (*Order, error)
	GetOrder(ctx context.Context, orderID int64) (*Order, error)
	GetOrderByOrderNo(ctx context.Context, orderNo string) (*Order, error)
	ListOrdersByBuyer(ctx context.Context, buyerID int64) ([]Order, error)
	ListOrdersBySeller(ctx context.Context, sellerID int64) ([]Order, error)
	ListOrdersByStatus(ctx context.Context, status string) ([]Order, error)
}

// OrderHandler contém os handlers HTTP
type OrderHandler struct {
	useCase       OrderUseCaseInterface
	tracer        trace.Tracer
	ordersCreated metric.Int64Counter
}

// NewOrderHandler cria uma nova instância de OrderHandler
func NewOrderHandler(useCase OrderUseCaseInterface, tracer trace.Tracer, ordersCreated metric.Int64Counter) *OrderHandler {
	return &OrderHandler{
		useCase:       useCase,
		tracer:        tracer,
		ordersCreated: ordersCreated,
	}
}

// errorResult traduz os erros do use case para o envelope de resposta.
// Nenhum erro de transporte ou stack trace vaza para o cliente.
func errorResult(err error) (int, common.Result) {
	switch {
	case errors.Is(err, ErrDependencyUnavailable):
		return http.StatusServiceUnavailable, common.Error(common.CodeDependencyUnavailable, err.Error())
	case errors.Is(err, ErrInvalidTransition):
		return http.StatusConflict, common.Error(common.CodeInvalidTransition, err.Error())
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrDuplicateOrderNo):
		return http.StatusBadRequest, common.Error(common.CodeInvalidRequest, err.Error())
	case errors.Is(err, ErrOrderNotFound):
		return http.StatusNotFound, common.Error(common.CodeNotFound, "order not found")
	default:
		return http.StatusInternalServerError, common.Error(http.StatusInternalServerError, "internal error")
	}
}

// CreateOrder cria um novo pedido
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "create_order")
	defer span.End()

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, common.Error(common.CodeInvalidRequest, err.Error()))
		return
	}

	span.SetAttributes(
		attribute.Int64("buyer_id", req.BuyerID),
		attribute.Int64("product_id", req.ProductID),
	)

	order, err := h.useCase.CreateOrder(ctx, req)
	if err != nil {
		span.RecordError(err)
		status, result := errorResult(err)
		c.JSON(status, result)
		return
	}

	span.SetAttributes(attribute.String("order_no", order.OrderNo))
	h.ordersCreated.Add(ctx, 1)

	c.JSON(http.StatusOK, common.Ok(order))
}

// transition aplica uma operação de transição parametrizada pelo use case
func (h *OrderHandler) transition(c *gin.Context, operation string, fn func(context.Context, int64) (*Order, error)) {
	ctx, span := h.tracer.Start(c.Request.Context(), operation)
	defer span.End()

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, common.Error(common.CodeInvalidRequest, "invalid order id"))
		return
	}

	span.SetAttributes(attribute.Int64("order_id", orderID))

	order, err := fn(ctx, orderID)
	if err != nil {
		span.RecordError(err)
		status, result := errorResult(err)
		c.JSON(status, result)
		return
	}

	c.JSON(http.StatusOK, common.Ok(order))
}

// PayOrder paga um pedido pendente
func (h *OrderHandler) PayOrder(c *gin.Context) {
	h.transition(c, "pay_order", h.useCase.PayOrder)
}

// ShipOrder marca um pedido como enviado
func (h *OrderHandler) ShipOrder(c *gin.Context) {
	h.transition(c, "ship_order", h.useCase.ShipOrder)
}

// FinishOrder conclui um pedido
func (h *OrderHandler) FinishOrder(c *gin.Context) {
	h.transition(c, "finish_order", h.useCase.FinishOrder)
}

// CancelOrder cancela um pedido pendente
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	h.transition(c, "cancel_order", h.useCase.CancelOrder)
}

// GetOrder busca um pedido pelo ID
func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, common.Error(common.CodeInvalidRequest, "invalid order id"))
		return
	}

	order, err := h.useCase.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		status, result := errorResult(err)
		c.JSON(status, result)
		return
	}

	c.JSON(http.StatusOK, common.Ok(order))
}

// GetOrderByOrderNo busca um pedido pelo número de pedido
func (h *OrderHandler) GetOrderByOrderNo(c *gin.Context) {
	order, err := h.useCase.GetOrderByOrderNo(c.Request.Context(), c.Param("orderNo"))
	if err != nil {
		status, result := errorResult(err)
		c.JSON(status, result)
		return
	}

	c.JSON(http.StatusOK, common.Ok(order))
}

// ListOrdersByBuyer lista os pedidos de um comprador
func (h *OrderHandler) ListOrdersByBuyer(c *gin.Context) {
	buyerID, err := strconv.ParseInt(c.Param("buyerId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, common.Error(common.CodeInvalidRequest, "invalid buyer id"))
		return
	}

	orders, err := h.useCase.ListOrdersByBuyer(c.Request.Context(), buyerID)
	if err != nil {
		status, result := errorResult(err)
		c.JSON(status, result)
		return
	}

	c.JSON(http.StatusOK, common.Ok(orders))
}

// ListOrdersBySeller lista os pedidos de um vendedor
func (h *OrderHandler) ListOrdersBySeller(c *gin.Context) {
	sellerID, err := strconv.ParseInt(c.Param("sellerId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, common.Error(common.CodeInvalidRequest, "invalid seller id"))
		return
	}

	orders, err := h.useCase.ListOrdersBySeller(c.Request.Context(), sellerID)
	if err != nil {
		status, result := errorResult(err)
		c.JSON(status, result)
		return
	}

	c.JSON(http.StatusOK, common.Ok(orders))
}

// ListOrdersByStatus lista os pedidos por status
func (h *OrderHandler) ListOrdersByStatus(c *gin.Context) {
	orders, err := h.useCase.ListOrdersByStatus(c.Request.Context(), c.Param("status"))
	if err != nil {
		status, result := errorResult(err)
		c.JSON(status, result)
		return
	}

	c.JSON(http.StatusOK, common.Ok(orders))
}

// HealthCheck verifica a saúde do serviço
func (h *OrderHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "orders-service",
	})
}
