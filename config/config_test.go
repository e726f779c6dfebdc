package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alejandrodnm/oreplan/config"
	"github.com/alejandrodnm/oreplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, "{}\n"))
	require.NoError(t, err)

	assert.Equal(t, int64(10000002), cfg.ESI.RegionID)
	assert.Equal(t, int64(60003760), cfg.ESI.LocationID)
	assert.Equal(t, "sqlite", cfg.Cache.Backend)
	assert.Equal(t, time.Hour, cfg.CacheTTL())
	assert.Equal(t, 1.0, cfg.Planner.RefineRate)
	assert.Equal(t, 3, cfg.Planner.MaxRounds)
	assert.Equal(t, 30*time.Second, cfg.SolverTimeout())
	assert.Equal(t, 15*time.Second, cfg.ESITimeout())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_ExampleFile(t *testing.T) {
	cfg, err := config.Load("config.yaml")
	require.NoError(t, err)

	target, err := cfg.BuildTarget()
	require.NoError(t, err)
	// 5 drakes + 5 hurricanes − stash: trit 12.6M + 12.474M
	assert.InDelta(t, 25074000, target.Get(domain.Tritanium), 1e-6)
	// el stash de isogen supera lo pedido
	assert.Less(t, target.Get(domain.Isogen), 0.0)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ESI_BASE", "http://localhost:9999")
	t.Setenv("ORE_CACHE_DSN", ":memory:")
	t.Setenv("ORE_REDIS_ADDR", "redis:6379")
	t.Setenv("ORE_REFINE_RATE", "0.8254")

	cfg, err := config.Load(writeConfig(t, "log:\n  level: warn\n"))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "http://localhost:9999", cfg.ESI.BaseURL)
	assert.Equal(t, ":memory:", cfg.Cache.DSN)
	assert.Equal(t, "redis:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, 0.8254, cfg.Planner.RefineRate)
}

func TestLoad_Errors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = config.Load(writeConfig(t, "esi: [not, a, map]\n"))
	assert.Error(t, err)
}

func TestBuildTarget(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, `
bundles:
  thorax:
    tritanium: 515000
    pyerite: 64500
target:
  items:
    - bundle: thorax
      count: 2
    - minerals: {mexallon: 1000}
  margin: 1.1
stash:
  tritanium: 100000
`))
	require.NoError(t, err)

	target, err := cfg.BuildTarget()
	require.NoError(t, err)
	assert.InDelta(t, 2*515000*1.1-100000, target.Get(domain.Tritanium), 1e-6)
	assert.InDelta(t, 2*64500*1.1, target.Get(domain.Pyerite), 1e-6)
	assert.InDelta(t, 1100, target.Get(domain.Mexallon), 1e-6, "count por defecto 1")
}

func TestBuildTarget_Errors(t *testing.T) {
	cases := map[string]string{
		"unknown bundle":  "target:\n  items:\n    - bundle: titan\n",
		"unknown mineral": "target:\n  items:\n    - minerals: {morphite: 1}\n",
		"bad stash":       "stash:\n  veldspar: 1\n",
		"both set":        "bundles:\n  a: {tritanium: 1}\ntarget:\n  items:\n    - bundle: a\n      minerals: {pyerite: 1}\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			cfg, err := config.Load(writeConfig(t, body))
			require.NoError(t, err)
			_, err = cfg.BuildTarget()
			assert.Error(t, err)
		})
	}

	cfg, err := config.Load(writeConfig(t, cases["unknown bundle"]))
	require.NoError(t, err)
	_, err = cfg.BuildTarget()
	assert.ErrorIs(t, err, domain.ErrUnknownBundle)
}
