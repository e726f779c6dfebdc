package esi

import "github.com/alejandrodnm/oreplan/internal/domain"

// mapOrders convierte los DTOs a domain.Order, descartando órdenes de compra,
// órdenes vacías y, si locationID != 0, las de otras estaciones.
func mapOrders(raw []marketOrder, locationID int64) []domain.Order {
	orders := make([]domain.Order, 0, len(raw))
	for _, r := range raw {
		if r.IsBuyOrder || r.VolumeRemain <= 0 {
			continue
		}
		if locationID != 0 && r.LocationID != locationID {
			continue
		}
		orders = append(orders, mapOrder(r))
	}
	return orders
}

func mapOrder(r marketOrder) domain.Order {
	return domain.Order{
		OrderID:      r.OrderID,
		TypeID:       r.TypeID,
		LocationID:   r.LocationID,
		VolumeRemain: float64(r.VolumeRemain),
		Price:        r.Price,
	}
}
