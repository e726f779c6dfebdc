package planner

import (
	"fmt"
	"sort"

	"github.com/alejandrodnm/oreplan/internal/domain"
	"github.com/shopspring/decimal"
)

// RoundPrice redondea un precio a ISK entero, con empates al par (banker's rounding).
// Se hace en decimal para que 2.5 sea exactamente 2.5 y no 2.4999….
func RoundPrice(p float64) float64 {
	return decimal.NewFromFloat(p).RoundBank(0).InexactFloat64()
}

type tierKey struct {
	typeID int
	price  float64
}

// Aggregate agrupa las órdenes en tiers (ore, precio redondeado) sumando el volumen.
// Una orden de un type id fuera del catálogo es un error de integridad y aborta
// la agregación. El resultado sale ordenado por (nombre de ore, precio).
func Aggregate(orders []domain.Order, catalog *domain.Catalog) ([]domain.PriceTier, error) {
	tiers := make(map[tierKey]*domain.PriceTier)

	for _, o := range orders {
		ore, ok := catalog.ByID(o.TypeID)
		if !ok {
			return nil, fmt.Errorf("planner.Aggregate: order %d: %w: %d", o.OrderID, domain.ErrUnknownOre, o.TypeID)
		}
		if o.Price < 0 || o.VolumeRemain <= 0 {
			return nil, fmt.Errorf("planner.Aggregate: order %d (%s): %w: price=%g volume=%g",
				o.OrderID, ore.Name, domain.ErrInvalidOrder, o.Price, o.VolumeRemain)
		}

		k := tierKey{typeID: o.TypeID, price: RoundPrice(o.Price)}
		if t, ok := tiers[k]; ok {
			t.Available += o.VolumeRemain
			continue
		}
		tiers[k] = &domain.PriceTier{
			Ore:       ore.Name,
			TypeID:    ore.TypeID,
			Price:     k.price,
			Available: o.VolumeRemain,
		}
	}

	out := make([]domain.PriceTier, 0, len(tiers))
	for _, t := range tiers {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Ore != out[j].Ore {
			return out[i].Ore < out[j].Ore
		}
		return out[i].Price < out[j].Price
	})
	return out, nil
}
