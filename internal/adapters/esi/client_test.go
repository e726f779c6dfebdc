package esi_test

import (
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/alejandrodnm/oreplan/internal/adapters/esi"
	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile("../../../testdata/fixtures/" + name)
	require.NoError(t, err)
	return data
}

func newTestClient(srv *httptest.Server, location int64) *esi.Client {
	return esi.NewClient(esi.Config{BaseURL: srv.URL, LocationID: location, RatePerSec: 1000, Burst: 100})
}

func TestFetchOrders_PaginatesAndFilters(t *testing.T) {
	pages := map[string][]byte{
		"1": readFixture(t, "esi_orders_page1.json"),
		"2": readFixture(t, "esi_orders_page2.json"),
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/markets/10000002/orders/", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "tranquility", q.Get("datasource"))
		assert.Equal(t, "sell", q.Get("order_type"))
		assert.Equal(t, "62516", q.Get("type_id"))

		data, ok := pages[q.Get("page")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Pages", "2")
		w.Write(data)
	}))
	defer srv.Close()

	orders, err := newTestClient(srv, esi.DefaultLocationID).FetchOrders(context.Background(), 62516)

	require.NoError(t, err)
	// la orden de otra estación y la de compra quedan fuera
	require.Len(t, orders, 2)
	assert.Equal(t, int64(6871234501), orders[0].OrderID)
	assert.Equal(t, 62516, orders[0].TypeID)
	assert.InDelta(t, 1234.4, orders[0].Price, 1e-9)
	assert.InDelta(t, 1500, orders[0].VolumeRemain, 1e-9)
	assert.Equal(t, int64(6871234504), orders[1].OrderID)
}

func TestFetchOrders_WholeRegion(t *testing.T) {
	data := readFixture(t, "esi_orders_page1.json")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(data)
	}))
	defer srv.Close()

	orders, err := newTestClient(srv, 0).FetchOrders(context.Background(), 62516)

	require.NoError(t, err)
	assert.Len(t, orders, 2, "sin location solo se descartan las órdenes de compra")
}

func TestFetchOrders_Brotli(t *testing.T) {
	var buf bytes.Buffer
	bw := brotli.NewWriter(&buf)
	_, err := bw.Write(readFixture(t, "esi_orders_page2.json"))
	require.NoError(t, err)
	require.NoError(t, bw.Close())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("Accept-Encoding"), "br")
		w.Header().Set("Content-Encoding", "br")
		w.Write(buf.Bytes())
	}))
	defer srv.Close()

	orders, err := newTestClient(srv, esi.DefaultLocationID).FetchOrders(context.Background(), 62516)

	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.InDelta(t, 1250, orders[0].Price, 1e-9)
}

func TestFetchOrders_Gzip(t *testing.T) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	_, err := gw.Write(readFixture(t, "esi_orders_page2.json"))
	require.NoError(t, err)
	require.NoError(t, gw.Close())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		w.Write(buf.Bytes())
	}))
	defer srv.Close()

	orders, err := newTestClient(srv, esi.DefaultLocationID).FetchOrders(context.Background(), 62516)

	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestFetchOrders_RetriesServerError(t *testing.T) {
	data := readFixture(t, "esi_orders_page2.json")
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write(data)
	}))
	defer srv.Close()

	orders, err := newTestClient(srv, esi.DefaultLocationID).FetchOrders(context.Background(), 62516)

	require.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetchOrders_ClientError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"type_id must be a valid type"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv, esi.DefaultLocationID).FetchOrders(context.Background(), 1)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "type_id must be a valid type")
	assert.Contains(t, err.Error(), "type 1 page 1")
}

func TestFetchOrders_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(srv, esi.DefaultLocationID).FetchOrders(ctx, 62516)
	assert.ErrorIs(t, err, context.Canceled)
}
