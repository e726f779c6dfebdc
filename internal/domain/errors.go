package domain

import "errors"

var (
	// ErrUnknownOre indica que una orden referencia un type id ausente del catálogo.
	ErrUnknownOre = errors.New("unknown ore type id")
	// ErrInvalidOrder indica una orden con precio negativo o volumen no positivo.
	ErrInvalidOrder = errors.New("invalid market order")
	// ErrInfeasible indica que el stock disponible no alcanza el target.
	ErrInfeasible = errors.New("target cannot be met with available supply")
	// ErrSolverTimeout indica que el solver superó el tiempo máximo.
	ErrSolverTimeout = errors.New("solver timeout")
	// ErrSolverFailed agrupa los fallos numéricos del solver sin plan utilizable.
	ErrSolverFailed   = errors.New("solver failed")
	ErrEmptyCatalog   = errors.New("empty ore catalog")
	ErrUnknownMineral = errors.New("unknown mineral")
	ErrUnknownBundle  = errors.New("unknown target bundle")
	ErrDuplicateOre   = errors.New("duplicate ore in catalog")
)
