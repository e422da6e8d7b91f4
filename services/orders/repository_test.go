package main

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
)

// fakeRow simula uma linha de resultado do pgx
type fakeRow struct {
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	return r.err
}

func TestNewOrderRepository(t *testing.T) {
	var db *pgxpool.Pool

	repo := NewOrderRepository(db)

	assert.NotNil(t, repo)
	assert.IsType(t, &OrderRepository{}, repo)
}

func TestScanOrder_NoRows(t *testing.T) {
	order, err := scanOrder(fakeRow{err: pgx.ErrNoRows})

	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.Nil(t, order)
}

func TestScanOrder_OtherError(t *testing.T) {
	scanErr := errors.New("connection reset")

	order, err := scanOrder(fakeRow{err: scanErr})

	assert.ErrorIs(t, err, scanErr)
	assert.Nil(t, order)
}
