package esi

// DTOs raw de ESI. Solo se usan dentro de este paquete.
// La conversión a domain.Order se hace en mapping.go.

// marketOrder es un elemento de GET /markets/{region_id}/orders/.
type marketOrder struct {
	OrderID      int64   `json:"order_id"`
	TypeID       int     `json:"type_id"`
	LocationID   int64   `json:"location_id"`
	SystemID     int64   `json:"system_id"`
	IsBuyOrder   bool    `json:"is_buy_order"`
	Price        float64 `json:"price"`
	VolumeRemain int64   `json:"volume_remain"`
	VolumeTotal  int64   `json:"volume_total"`
	MinVolume    int64   `json:"min_volume"`
	Duration     int     `json:"duration"`
	Issued       string  `json:"issued"`
	Range        string  `json:"range"`
}

// errorResponse es el cuerpo de error estándar de ESI.
type errorResponse struct {
	Error string `json:"error"`
}
