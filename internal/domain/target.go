package domain

import "fmt"

// TargetBuilder compone el vector objetivo a partir de bundles con nombre
// (p.ej. el coste en minerales de N naves) menos lo que ya hay en stash.
type TargetBuilder struct {
	bundles map[string]Minerals
	total   Minerals
	err     error
}

// NewTargetBuilder crea un builder con la tabla de bundles dada (puede ser nil).
func NewTargetBuilder(bundles map[string]Minerals) *TargetBuilder {
	if bundles == nil {
		bundles = map[string]Minerals{}
	}
	return &TargetBuilder{bundles: bundles}
}

// Add suma count × m al target.
func (b *TargetBuilder) Add(m Minerals, count float64) *TargetBuilder {
	b.total = b.total.Add(m.Scale(count))
	return b
}

// AddBundle suma count × bundle. Un nombre desconocido se reporta en Build.
func (b *TargetBuilder) AddBundle(name string, count float64) *TargetBuilder {
	m, ok := b.bundles[name]
	if !ok {
		if b.err == nil {
			b.err = fmt.Errorf("%w: %q", ErrUnknownBundle, name)
		}
		return b
	}
	return b.Add(m, count)
}

// Subtract resta el stash disponible.
func (b *TargetBuilder) Subtract(stash Minerals) *TargetBuilder {
	return b.Add(stash, -1)
}

// Scale multiplica el target acumulado, p.ej. 1.1 para un 10% de margen.
func (b *TargetBuilder) Scale(f float64) *TargetBuilder {
	b.total = b.total.Scale(f)
	return b
}

// Build devuelve el target. Los componentes pueden quedar negativos si el stash
// supera lo pedido; el solver los trata como ya cubiertos.
func (b *TargetBuilder) Build() (Minerals, error) {
	if b.err != nil {
		return Minerals{}, b.err
	}
	return b.total, nil
}
