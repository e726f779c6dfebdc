package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetBuilder_BundlesMinusStash(t *testing.T) {
	bundles := map[string]Minerals{
		"five_drakes": NewMinerals(12_600_000, 4_500_000, 810_000, 90_000, 36_000, 9_000, 1_800),
		"five_canes":  NewMinerals(12_474_000, 4_455_000, 801_900, 89_100, 35_640, 8_910, 1_782),
	}
	stash := Minerals{}.With(Isogen, 4_700_000).With(Nocxium, 4_900_000)

	target, err := NewTargetBuilder(bundles).
		AddBundle("five_drakes", 1).
		AddBundle("five_canes", 1).
		Subtract(stash).
		Build()
	require.NoError(t, err)

	assert.Equal(t, 25_074_000.0, target.Get(Tritanium))
	assert.Equal(t, 179_100.0-4_700_000, target.Get(Isogen))
	assert.Equal(t, 3_582.0, target.Get(Megacyte))
}

func TestTargetBuilder_Scale(t *testing.T) {
	target, err := NewTargetBuilder(nil).
		Add(NewMinerals(100, 10), 2).
		Scale(1.1).
		Build()
	require.NoError(t, err)
	assert.InDelta(t, 220, target.Get(Tritanium), 1e-9)
	assert.InDelta(t, 22, target.Get(Pyerite), 1e-9)
}

func TestTargetBuilder_UnknownBundle(t *testing.T) {
	_, err := NewTargetBuilder(nil).AddBundle("titan", 1).Build()
	assert.ErrorIs(t, err, ErrUnknownBundle)
}
