package domain

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Order es una orden de venta del mercado: cantidad disponible a un precio unitario.
type Order struct {
	OrderID      int64   `json:"order_id,omitempty"`
	TypeID       int     `json:"type_id"`
	LocationID   int64   `json:"location_id,omitempty"`
	VolumeRemain float64 `json:"volume_remain"`
	Price        float64 `json:"price"`
}

var keyPrinter = message.NewPrinter(language.English)

// PriceTier agrupa todo el stock de un ore a un mismo precio redondeado.
type PriceTier struct {
	Ore    string
	TypeID int
	// Price es el precio redondeado a ISK entero; es el coeficiente del LP.
	Price     float64
	Available float64
}

// Key es la etiqueta estable del tier, p.ej. "Compressed Veldspar at 1,234".
func (t PriceTier) Key() string {
	return keyPrinter.Sprintf("%s at %d", t.Ore, int64(math.Ceil(t.Price)))
}

// TierPurchase es la cantidad (fraccional) que el solver decidió comprar de un tier.
type TierPurchase struct {
	Tier     PriceTier
	Quantity float64
}

// Cost devuelve precio × cantidad.
func (p TierPurchase) Cost() float64 {
	return p.Tier.Price * p.Quantity
}
