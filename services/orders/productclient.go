package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/zjgsu-lll/secondhand-services/common"
)

// ProductStatusAvailable é o status de um produto à venda no catálogo
const ProductStatusAvailable = 1

// Product é o snapshot do produto devolvido pelo serviço de catálogo
type Product struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
	Status   int             `json:"status"`
	SellerID int64           `json:"sellerId"`
}

// ProductResult é o envelope remoto do serviço de catálogo
type ProductResult struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Data    *Product `json:"data"`
}

// ProductClient abstrai as chamadas síncronas ao serviço de produtos.
// Implementações nunca devolvem erro de transporte: toda falha vira um
// envelope 503 bem formado, então quem chama raciocina sobre uma única
// forma de falha.
type ProductClient interface {
	GetProduct(ctx context.Context, productID int64) ProductResult
	ReduceStock(ctx context.Context, productID int64, quantity int) ProductResult
}

// remoteProductClient fala com o serviço de produtos via resty
type remoteProductClient struct {
	rc *resty.Client
}

func (c *remoteProductClient) GetProduct(ctx context.Context, productID int64) (ProductResult, error) {
	resp, err := c.rc.R().SetContext(ctx).Get(fmt.Sprintf("/products/%d", productID))
	return decodeProductResult(resp, err)
}

func (c *remoteProductClient) ReduceStock(ctx context.Context, productID int64, quantity int) (ProductResult, error) {
	resp, err := c.rc.R().SetContext(ctx).Put(fmt.Sprintf("/products/%d/reduce-stock/%d", productID, quantity))
	return decodeProductResult(resp, err)
}

func decodeProductResult(resp *resty.Response, err error) (ProductResult, error) {
	if err != nil {
		return ProductResult{}, err
	}
	if resp.StatusCode() >= 500 {
		return ProductResult{}, fmt.Errorf("product service returned status %d", resp.StatusCode())
	}

	var result ProductResult
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return ProductResult{}, fmt.Errorf("failed to decode product service response: %w", err)
	}
	return result, nil
}

// fallbackProductClient intercepta falhas de transporte (timeout, conexão,
// 5xx) e substitui pelo envelope degradado fixo de cada operação
type fallbackProductClient struct {
	remote *remoteProductClient
}

// NewProductClient cria o cliente com timeout limitado e caminho degradado
func NewProductClient(baseURL string, timeout time.Duration) ProductClient {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)
	return &fallbackProductClient{remote: &remoteProductClient{rc: rc}}
}

func (c *fallbackProductClient) GetProduct(ctx context.Context, productID int64) ProductResult {
	result, err := c.remote.GetProduct(ctx, productID)
	if err != nil {
		log.Printf("⚠️ [FALLBACK] GetProduct degraded | ProductID: %d | Cause: %v", productID, err)
		return ProductResult{
			Code:    common.CodeDependencyUnavailable,
			Message: "product service temporarily unavailable, please retry later",
		}
	}
	return result
}

func (c *fallbackProductClient) ReduceStock(ctx context.Context, productID int64, quantity int) ProductResult {
	result, err := c.remote.ReduceStock(ctx, productID, quantity)
	if err != nil {
		log.Printf("⚠️ [FALLBACK] ReduceStock degraded | ProductID: %d | Cause: %v", productID, err)
		return ProductResult{
			Code:    common.CodeDependencyUnavailable,
			Message: "stock service temporarily unavailable, please retry later",
		}
	}
	return result
}
