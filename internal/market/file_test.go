package market_test

import (
	"context"
	"testing"

	"github.com/alejandrodnm/oreplan/internal/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileProvider(t *testing.T) {
	p, err := market.LoadFileProvider("../../testdata/fixtures/orders.json")
	require.NoError(t, err)

	orders, err := p.FetchOrders(context.Background(), 62516)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.InDelta(t, 1234.6, orders[1].Price, 1e-9)

	orders, err = p.FetchOrders(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestFileProvider_Missing(t *testing.T) {
	_, err := market.LoadFileProvider("../../testdata/fixtures/nope.json")
	assert.Error(t, err)
}
