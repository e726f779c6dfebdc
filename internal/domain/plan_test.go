package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlignRounds(t *testing.T) {
	lots := map[string][]Lot{
		"B": {{Ore: "B", Price: 5, Quantity: 10}},
		"A": {{Ore: "A", Price: 1, Quantity: 20}, {Ore: "A", Price: 3, Quantity: 2}, {Ore: "A", Price: 9, Quantity: 1}},
	}

	rounds := AlignRounds(lots)

	require.Len(t, rounds, 3)
	assert.Equal(t, []Lot{lots["A"][0], lots["B"][0]}, rounds[0])
	assert.Equal(t, []Lot{lots["A"][1]}, rounds[1])
	assert.Equal(t, []Lot{lots["A"][2]}, rounds[2])
}

func TestAlignRounds_Empty(t *testing.T) {
	assert.Empty(t, AlignRounds(nil))
}

func TestSolveStatus(t *testing.T) {
	assert.True(t, StatusOptimal.Usable())
	assert.True(t, StatusFeasible.Usable())
	assert.False(t, StatusInfeasible.Usable())
	assert.False(t, StatusTimeout.Usable())
	assert.Equal(t, "INFEASIBLE", StatusInfeasible.String())
}

func TestPriceTier_Key(t *testing.T) {
	tier := PriceTier{Ore: "Compressed Veldspar", Price: 1234}
	assert.Equal(t, "Compressed Veldspar at 1,234", tier.Key())
}

func TestNewCatalog(t *testing.T) {
	cat, err := NewCatalog([]Ore{
		{TypeID: 2, Name: "Zeta", Volume: 1},
		{TypeID: 1, Name: "Alpha", Volume: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, cat.TypeIDs())
	o, ok := cat.ByName("Zeta")
	require.True(t, ok)
	assert.Equal(t, 2, o.TypeID)

	_, err = NewCatalog(nil)
	assert.ErrorIs(t, err, ErrEmptyCatalog)

	_, err = NewCatalog([]Ore{{TypeID: 1, Name: "A"}, {TypeID: 1, Name: "B"}})
	assert.ErrorIs(t, err, ErrDuplicateOre)
}
