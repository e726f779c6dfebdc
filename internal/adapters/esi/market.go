package esi

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/alejandrodnm/oreplan/internal/domain"
)

// maxPages corta la paginación si ESI devuelve un X-Pages absurdo.
const maxPages = 50

// FetchOrders devuelve las órdenes de venta de un type en la región configurada,
// filtradas a LocationID. Recorre todas las páginas que anuncia X-Pages.
func (c *Client) FetchOrders(ctx context.Context, typeID int) ([]domain.Order, error) {
	var orders []domain.Order
	pages := 1

	for page := 1; page <= pages; page++ {
		var raw []marketOrder
		h, err := c.get(ctx, c.ordersURL(typeID, page), &raw)
		if err != nil {
			return nil, fmt.Errorf("esi.FetchOrders: type %d page %d: %w", typeID, page, err)
		}
		orders = append(orders, mapOrders(raw, c.cfg.LocationID)...)

		if page == 1 {
			pages = parsePages(h.Get("X-Pages"))
			if pages > maxPages {
				slog.Warn("ESI reports too many pages, truncating", "type_id", typeID, "pages", pages, "max", maxPages)
				pages = maxPages
			}
		}
	}

	slog.Debug("orders fetched from ESI", "type_id", typeID, "pages", pages, "orders", len(orders))
	return orders, nil
}

func (c *Client) ordersURL(typeID, page int) string {
	q := url.Values{}
	q.Set("datasource", c.cfg.Datasource)
	q.Set("order_type", "sell")
	q.Set("type_id", strconv.Itoa(typeID))
	q.Set("page", strconv.Itoa(page))
	return fmt.Sprintf("%s/markets/%d/orders/?%s", c.cfg.BaseURL, c.cfg.RegionID, q.Encode())
}

func parsePages(v string) int {
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
