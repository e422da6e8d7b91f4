package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrDuplicateOrderNo = errors.New("order number already exists")
)

// Repository define a interface para operações de banco de dados de pedidos
type Repository interface {
	// CreateOrder persiste um novo pedido em uma única escrita atômica
	CreateOrder(ctx context.Context, order *Order) error

	// GetOrder busca um pedido pelo ID
	GetOrder(ctx context.Context, id int64) (*Order, error)

	// GetOrderByOrderNo busca um pedido pelo número de pedido
	GetOrderByOrderNo(ctx context.Context, orderNo string) (*Order, error)

	// ListOrdersByBuyer lista os pedidos de um comprador
	ListOrdersByBuyer(ctx context.Context, buyerID int64) ([]Order, error)

	// ListOrdersBySeller lista os pedidos de um vendedor
	ListOrdersBySeller(ctx context.Context, sellerID int64) ([]Order, error)

	// ListOrdersByStatus lista os pedidos em um determinado status
	ListOrdersByStatus(ctx context.Context, status string) ([]Order, error)

	// TransitionOrder grava a transição de estado condicionada ao status
	// persistido no momento do UPDATE; devolve ErrInvalidTransition se o
	// status já avançou (exatamente um vencedor entre tentativas concorrentes)
	TransitionOrder(ctx context.Context, order *Order, fromStatus string) error
}

// OrderRepository implementa Repository usando PostgreSQL
type OrderRepository struct {
	db *pgxpool.Pool
}

// NewOrderRepository cria uma nova instância de OrderRepository
func NewOrderRepository(db *pgxpool.Pool) Repository {
	return &OrderRepository{
		db: db,
	}
}

const orderColumns = `id, order_no, buyer_id, seller_id, product_id, total_amount, status,
	shipping_address, contact_phone, paid_at, shipped_at, finished_at, created_at, updated_at`

// CreateOrder persiste um novo pedido e preenche o ID gerado
func (r *OrderRepository) CreateOrder(ctx context.Context, order *Order) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO orders (order_no, buyer_id, seller_id, product_id, total_amount, status,
			shipping_address, contact_phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`, order.OrderNo, order.BuyerID, order.SellerID, order.ProductID, order.TotalAmount,
		order.Status, order.ShippingAddress, order.ContactPhone, order.CreatedAt, order.UpdatedAt,
	).Scan(&order.ID)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateOrderNo
	}
	return err
}

// GetOrder busca um pedido pelo ID
func (r *OrderRepository) GetOrder(ctx context.Context, id int64) (*Order, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+orderColumns+`
		FROM orders WHERE id = $1
	`, id)
	return scanOrder(row)
}

// GetOrderByOrderNo busca um pedido pelo número de pedido
func (r *OrderRepository) GetOrderByOrderNo(ctx context.Context, orderNo string) (*Order, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+orderColumns+`
		FROM orders WHERE order_no = $1
	`, orderNo)
	return scanOrder(row)
}

// ListOrdersByBuyer lista os pedidos de um comprador em ordem de inserção
func (r *OrderRepository) ListOrdersByBuyer(ctx context.Context, buyerID int64) ([]Order, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders WHERE buyer_id = $1 ORDER BY id
	`, buyerID)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

// ListOrdersBySeller lista os pedidos de um vendedor em ordem de inserção
func (r *OrderRepository) ListOrdersBySeller(ctx context.Context, sellerID int64) ([]Order, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders WHERE seller_id = $1 ORDER BY id
	`, sellerID)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

// ListOrdersByStatus lista os pedidos em um determinado status
func (r *OrderRepository) ListOrdersByStatus(ctx context.Context, status string) ([]Order, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders WHERE status = $1 ORDER BY id
	`, status)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

// TransitionOrder aplica a transição com compare-and-swap sobre o status
func (r *OrderRepository) TransitionOrder(ctx context.Context, order *Order, fromStatus string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE orders
		SET status = $1, paid_at = $2, shipped_at = $3, finished_at = $4, updated_at = $5
		WHERE id = $6 AND status = $7
	`, order.Status, order.PaidAt, order.ShippedAt, order.FinishedAt, order.UpdatedAt,
		order.ID, fromStatus)
	if err != nil {
		return fmt.Errorf("failed to persist order transition: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// O status persistido já não é o esperado: outra transição venceu
		return ErrInvalidTransition
	}
	return nil
}

func scanOrder(row pgx.Row) (*Order, error) {
	var order Order
	err := row.Scan(
		&order.ID, &order.OrderNo, &order.BuyerID, &order.SellerID, &order.ProductID,
		&order.TotalAmount, &order.Status, &order.ShippingAddress, &order.ContactPhone,
		&order.PaidAt, &order.ShippedAt, &order.FinishedAt, &order.CreatedAt, &order.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func collectOrders(rows pgx.Rows) ([]Order, error) {
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var order Order
		err := rows.Scan(
			&order.ID, &order.OrderNo, &order.BuyerID, &order.SellerID, &order.ProductID,
			&order.TotalAmount, &order.Status, &order.ShippingAddress, &order.ContactPhone,
			&order.PaidAt, &order.ShippedAt, &order.FinishedAt, &order.CreatedAt, &order.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}
