package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/zjgsu-lll/secondhand-services/common"
)

func TestProductClient_GetProduct(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/products/10", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":200,"message":"ok","data":{"id":10,"name":"Used camera","price":"99.00","stock":3,"status":1,"sellerId":789}}`))
	}))
	defer server.Close()

	client := NewProductClient(server.URL, time.Second)
	result := client.GetProduct(context.Background(), 10)

	assert.Equal(t, common.CodeOK, result.Code)
	if assert.NotNil(t, result.Data) {
		assert.Equal(t, int64(789), result.Data.SellerID)
		assert.Equal(t, 3, result.Data.Stock)
		assert.Equal(t, "99.00", result.Data.Price.StringFixed(2))
	}
}

func TestProductClient_GetProduct_RemoteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewProductClient(server.URL, time.Second)
	result := client.GetProduct(context.Background(), 10)

	assert.Equal(t, common.CodeDependencyUnavailable, result.Code)
	assert.Equal(t, "product service temporarily unavailable, please retry later", result.Message)
	assert.Nil(t, result.Data)
}

func TestProductClient_GetProduct_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nada escutando no endereço

	client := NewProductClient(server.URL, time.Second)
	result := client.GetProduct(context.Background(), 10)

	assert.Equal(t, common.CodeDependencyUnavailable, result.Code)
	assert.NotEmpty(t, result.Message)
}

func TestProductClient_GetProduct_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer server.Close()

	client := NewProductClient(server.URL, 50*time.Millisecond)
	result := client.GetProduct(context.Background(), 10)

	assert.Equal(t, common.CodeDependencyUnavailable, result.Code)
}

func TestProductClient_ReduceStock(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/products/10/reduce-stock/1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":200,"message":"ok"}`))
	}))
	defer server.Close()

	client := NewProductClient(server.URL, time.Second)
	result := client.ReduceStock(context.Background(), 10, 1)

	assert.Equal(t, common.CodeOK, result.Code)
}

func TestProductClient_ReduceStock_InsufficientStock(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":400,"message":"insufficient stock"}`))
	}))
	defer server.Close()

	// Falha de negócio do serviço remoto não é degradação: o envelope
	// original chega intacto ao chamador
	client := NewProductClient(server.URL, time.Second)
	result := client.ReduceStock(context.Background(), 10, 1)

	assert.Equal(t, common.CodeInvalidRequest, result.Code)
	assert.Equal(t, "insufficient stock", result.Message)
}

func TestProductClient_ReduceStock_RemoteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewProductClient(server.URL, time.Second)
	result := client.ReduceStock(context.Background(), 10, 1)

	assert.Equal(t, common.CodeDependencyUnavailable, result.Code)
	assert.Equal(t, "stock service temporarily unavailable, please retry later", result.Message)
}
