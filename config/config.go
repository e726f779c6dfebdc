package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/alejandrodnm/oreplan/internal/domain"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa del planner.
type Config struct {
	ESI     ESIConfig                     `yaml:"esi"`
	Cache   CacheConfig                   `yaml:"cache"`
	Catalog CatalogConfig                 `yaml:"catalog"`
	Planner PlannerConfig                 `yaml:"planner"`
	Bundles map[string]map[string]float64 `yaml:"bundles"` // nombre → minerales
	Target  TargetConfig                  `yaml:"target"`
	Stash   map[string]float64            `yaml:"stash"` // minerales ya disponibles
	Log     LogConfig                     `yaml:"log"`
}

// ESIConfig controla el acceso al mercado.
type ESIConfig struct {
	BaseURL        string  `yaml:"base_url"`
	RegionID       int64   `yaml:"region_id"`
	LocationID     int64   `yaml:"location_id"` // 0 = toda la región
	RatePerSec     float64 `yaml:"rate_per_sec"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	UserAgent      string  `yaml:"user_agent"`
}

// CacheConfig controla la caché de órdenes.
type CacheConfig struct {
	Backend       string `yaml:"backend"` // sqlite | memory | redis | none
	DSN           string `yaml:"dsn"`     // ruta al archivo SQLite, o ":memory:"
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	TTLSeconds    int    `yaml:"ttl_seconds"`
}

// CatalogConfig indica de dónde se carga el catálogo de ores.
type CatalogConfig struct {
	Path string `yaml:"path"` // .json o .csv
}

// PlannerConfig controla el LP y la consolidación.
type PlannerConfig struct {
	RefineRate      float64 `yaml:"refine_rate"`
	FloorYields     bool    `yaml:"floor_yields"` // floor del yield por porción tras el refine rate
	PortionSize     int     `yaml:"portion_size"`
	MaxRounds       int     `yaml:"max_rounds"`
	ExhaustiveLimit int     `yaml:"exhaustive_limit"`
	TimeoutSeconds  int     `yaml:"timeout_seconds"`
	FetchWorkers    int     `yaml:"fetch_workers"`
}

// TargetConfig describe el target como suma de bundles o minerales sueltos.
type TargetConfig struct {
	Items []TargetItem `yaml:"items"`
	// Margin multiplica el total antes de restar el stash (1.1 = +10%).
	Margin float64 `yaml:"margin"`
}

// TargetItem es count × (bundle con nombre | minerales).
type TargetItem struct {
	Bundle   string             `yaml:"bundle"`
	Minerals map[string]float64 `yaml:"minerals"`
	Count    float64            `yaml:"count"`
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Las variables de entorno sobreescriben los valores del YAML.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// SolverTimeout devuelve el timeout del LP como time.Duration.
func (c *Config) SolverTimeout() time.Duration {
	return time.Duration(c.Planner.TimeoutSeconds) * time.Second
}

// CacheTTL devuelve la vida de una entrada de la caché.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// ESITimeout devuelve el timeout HTTP de ESI.
func (c *Config) ESITimeout() time.Duration {
	return time.Duration(c.ESI.TimeoutSeconds) * time.Second
}

// BuildTarget compone el vector objetivo: Σ count × item, × margin, − stash.
func (c *Config) BuildTarget() (domain.Minerals, error) {
	bundles := make(map[string]domain.Minerals, len(c.Bundles))
	for name, raw := range c.Bundles {
		m, err := domain.MineralsFromMap(raw)
		if err != nil {
			return domain.Minerals{}, fmt.Errorf("config.BuildTarget: bundle %q: %w", name, err)
		}
		bundles[name] = m
	}

	b := domain.NewTargetBuilder(bundles)
	for i, item := range c.Target.Items {
		count := item.Count
		if count == 0 {
			count = 1
		}
		switch {
		case item.Bundle != "" && item.Minerals != nil:
			return domain.Minerals{}, fmt.Errorf("config.BuildTarget: item %d: set bundle or minerals, not both", i)
		case item.Bundle != "":
			b.AddBundle(item.Bundle, count)
		default:
			m, err := domain.MineralsFromMap(item.Minerals)
			if err != nil {
				return domain.Minerals{}, fmt.Errorf("config.BuildTarget: item %d: %w", i, err)
			}
			b.Add(m, count)
		}
	}
	b.Scale(c.Target.Margin)

	stash, err := domain.MineralsFromMap(c.Stash)
	if err != nil {
		return domain.Minerals{}, fmt.Errorf("config.BuildTarget: stash: %w", err)
	}
	target, err := b.Subtract(stash).Build()
	if err != nil {
		return domain.Minerals{}, fmt.Errorf("config.BuildTarget: %w", err)
	}
	return target, nil
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("ESI_BASE"); v != "" {
		cfg.ESI.BaseURL = v
	}
	if v := os.Getenv("ORE_CACHE_DSN"); v != "" {
		cfg.Cache.DSN = v
	}
	if v := os.Getenv("ORE_REDIS_ADDR"); v != "" {
		cfg.Cache.RedisAddr = v
	}
	if v := os.Getenv("ORE_REDIS_PASSWORD"); v != "" {
		cfg.Cache.RedisPassword = v
	}
	if v := os.Getenv("ORE_REFINE_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Planner.RefineRate = f
		}
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.ESI.BaseURL == "" {
		cfg.ESI.BaseURL = "https://esi.evetech.net/latest"
	}
	if cfg.ESI.RegionID == 0 {
		cfg.ESI.RegionID = 10000002 // The Forge
	}
	if cfg.ESI.LocationID == 0 {
		cfg.ESI.LocationID = 60003760 // Jita 4-4
	}
	if cfg.ESI.RatePerSec <= 0 {
		cfg.ESI.RatePerSec = 20
	}
	if cfg.ESI.TimeoutSeconds <= 0 {
		cfg.ESI.TimeoutSeconds = 15
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = "sqlite"
	}
	if cfg.Cache.DSN == "" {
		cfg.Cache.DSN = "oreplan.cache.db"
	}
	if cfg.Cache.RedisAddr == "" {
		cfg.Cache.RedisAddr = "localhost:6379"
	}
	if cfg.Cache.TTLSeconds <= 0 {
		cfg.Cache.TTLSeconds = 3600
	}
	if cfg.Catalog.Path == "" {
		cfg.Catalog.Path = "data/ores.json"
	}
	if cfg.Planner.RefineRate <= 0 {
		cfg.Planner.RefineRate = 1.0 // el catálogo ya trae yields efectivos
	}
	if cfg.Planner.PortionSize <= 0 {
		cfg.Planner.PortionSize = domain.DefaultPortionSize
	}
	if cfg.Planner.MaxRounds <= 0 {
		cfg.Planner.MaxRounds = 3
	}
	if cfg.Planner.ExhaustiveLimit <= 0 {
		cfg.Planner.ExhaustiveLimit = 12
	}
	if cfg.Planner.TimeoutSeconds <= 0 {
		cfg.Planner.TimeoutSeconds = 30
	}
	if cfg.Planner.FetchWorkers <= 0 {
		cfg.Planner.FetchWorkers = 8
	}
	if cfg.Target.Margin <= 0 {
		cfg.Target.Margin = 1
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
