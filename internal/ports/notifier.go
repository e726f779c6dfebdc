package ports

import (
	"context"

	"github.com/alejandrodnm/oreplan/internal/domain"
)

// Reporter presenta el plan de compra al usuario.
type Reporter interface {
	// Report muestra el plan. En la implementación de consola imprime tablas
	// y un bloque de multi-buy por ronda.
	Report(ctx context.Context, plan domain.Plan) error
}
