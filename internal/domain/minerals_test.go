package domain

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinerals_AddIsComponentWise(t *testing.T) {
	a := NewMinerals(1, 2, 3, 4, 5, 6, 7)
	b := NewMinerals(10, 20, 30, 40, 50, 60, 70)

	sum := a.Add(b)

	for i, m := range AllMinerals {
		assert.Equal(t, a[i]+b[i], sum.Get(m), m.String())
	}
	// operandos intactos
	assert.Equal(t, NewMinerals(1, 2, 3, 4, 5, 6, 7), a)
	assert.Equal(t, NewMinerals(10, 20, 30, 40, 50, 60, 70), b)
}

func TestMinerals_ScaleIsComponentWise(t *testing.T) {
	a := NewMinerals(1, 2, 3, 4, 5, 6, 7)

	scaled := a.Scale(2.5)

	for i := range a {
		assert.InDelta(t, a[i]*2.5, scaled[i], 1e-12)
	}
	assert.Equal(t, 1.0, a[0], "Scale no debe mutar el receptor")
}

func TestMinerals_ScaleNonNegativePreservesSign(t *testing.T) {
	a := NewMinerals(3, 0, 9)
	for _, q := range a.Scale(0.8254) {
		assert.GreaterOrEqual(t, q, 0.0)
	}
}

func TestMinerals_SubtractStashWithNegativeScalar(t *testing.T) {
	target := NewMinerals(100, 50)
	stash := NewMinerals(30, 80)

	net := target.Add(stash.Scale(-1))

	assert.Equal(t, 70.0, net.Get(Tritanium))
	assert.Equal(t, -30.0, net.Get(Pyerite))
	assert.Equal(t, net, target.Sub(stash))
	assert.Equal(t, 0.0, net.ClampNegative().Get(Pyerite))
}

func TestMinerals_Floor(t *testing.T) {
	a := NewMinerals(1.9, 2.0, 0.4999, 1234.567, 0, 7.1, 99.99)

	f := a.Floor()

	for i := range a {
		assert.LessOrEqual(t, f[i], a[i])
		assert.Equal(t, math.Trunc(f[i]), f[i], "componente %d no es entero", i)
	}
	assert.Equal(t, NewMinerals(1, 2, 0, 1234, 0, 7, 99), f)
}

func TestMinerals_Covers(t *testing.T) {
	target := NewMinerals(100, 10)
	assert.True(t, NewMinerals(100, 10).Covers(target, 0))
	assert.True(t, NewMinerals(99.9999999, 10).Covers(target, 1e-6))
	assert.False(t, NewMinerals(99, 10).Covers(target, 1e-6))
}

func TestParseMineral(t *testing.T) {
	m, err := ParseMineral(" Megacyte ")
	require.NoError(t, err)
	assert.Equal(t, Megacyte, m)

	m, err = ParseMineral("Noxcium")
	require.NoError(t, err)
	assert.Equal(t, Nocxium, m)

	_, err = ParseMineral("morphite")
	assert.True(t, errors.Is(err, ErrUnknownMineral))
}

func TestMineralsFromMap_UnknownName(t *testing.T) {
	_, err := MineralsFromMap(map[string]float64{"tritanium": 1, "veldspar": 2})
	assert.ErrorIs(t, err, ErrUnknownMineral)
}

func TestMinerals_JSON(t *testing.T) {
	m := NewMinerals(400).With(Zydrine, 2)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"tritanium":400,"zydrine":2}`, string(data))

	var back Minerals
	require.NoError(t, json.Unmarshal([]byte(`{"Tritanium":400,"zydrine":2}`), &back))
	assert.Equal(t, m, back)
}

func TestMineral_StringOrderMatchesLayout(t *testing.T) {
	names := []string{"tritanium", "pyerite", "mexallon", "isogen", "nocxium", "zydrine", "megacyte"}
	for i, m := range AllMinerals {
		assert.Equal(t, names[i], m.String())
		assert.Equal(t, i, int(m))
	}
}
