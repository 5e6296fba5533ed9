package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Booking  BookingConfig  `yaml:"booking"`
	Seeder   SeederConfig   `yaml:"seeder"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
	AdminJWTSecret  string  `yaml:"admin_jwt_secret"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver"`
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	LogLevel               string `yaml:"log_level"`
}

// BookingConfig holds the allocation engine settings.
type BookingConfig struct {
	Timezone            string         `yaml:"timezone"`
	Location            *time.Location `yaml:"-"`
	DurationPolicy      string         `yaml:"duration_policy"`
	MaxPartySize        int            `yaml:"max_party_size"`
	MaxListResults      int            `yaml:"max_list_results"`
	SeedDefaultTables   *bool          `yaml:"seed_default_tables"`
	CatalogCacheSeconds int            `yaml:"catalog_cache_seconds"`
}

// SeederConfig holds the defaults of the slot seeding tool.
type SeederConfig struct {
	Days         int     `yaml:"days"`
	TargetRatio  float64 `yaml:"target_ratio"`
	MaxAttempts  int     `yaml:"max_attempts"`
	Seed         int64   `yaml:"seed"`
	Workers      int     `yaml:"workers"`
	ConfirmRatio float64 `yaml:"confirm_ratio"`
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	DurationPolicyFixed     = "fixed"
	DurationPolicyPartySize = "party_size"
)

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	applyEnv(&cfg)
	if err := applyDefaults(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a configuration with every default applied, backed by an
// in-memory SQLite database.
func Default() *Config {
	cfg := &Config{}
	cfg.Database.Driver = DriverSQLite
	cfg.Database.DSN = "file::memory:?cache=shared"
	if err := applyDefaults(cfg); err != nil {
		// UTC always loads.
		panic(err)
	}
	return cfg
}

// applyEnv lets deployment environments override secrets and endpoints
// without editing the YAML file.
func applyEnv(cfg *Config) {
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("DATABASE_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		} else {
			log.Printf("ignoring invalid SERVER_PORT %q", v)
		}
	}
	if v := os.Getenv("ADMIN_JWT_SECRET"); v != "" {
		cfg.Server.AdminJWTSecret = v
	}
}

func applyDefaults(cfg *Config) error {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 30
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = DriverPostgres
	}
	if cfg.Database.LogLevel == "" {
		cfg.Database.LogLevel = "warn"
	}

	if cfg.Booking.Timezone == "" {
		cfg.Booking.Timezone = "UTC"
	}
	loc, err := time.LoadLocation(cfg.Booking.Timezone)
	if err != nil {
		return err
	}
	cfg.Booking.Location = loc

	switch cfg.Booking.DurationPolicy {
	case DurationPolicyFixed, DurationPolicyPartySize:
	case "":
		cfg.Booking.DurationPolicy = DurationPolicyFixed
	default:
		log.Printf("booking.duration_policy %q is unknown; defaulting to %q", cfg.Booking.DurationPolicy, DurationPolicyFixed)
		cfg.Booking.DurationPolicy = DurationPolicyFixed
	}
	if cfg.Booking.MaxPartySize <= 0 {
		cfg.Booking.MaxPartySize = 12
	}
	if cfg.Booking.MaxListResults <= 0 {
		cfg.Booking.MaxListResults = 50
	}
	if cfg.Booking.SeedDefaultTables == nil {
		seed := true
		cfg.Booking.SeedDefaultTables = &seed
	}
	if cfg.Booking.CatalogCacheSeconds <= 0 {
		cfg.Booking.CatalogCacheSeconds = 60
	}

	if cfg.Seeder.Days <= 0 {
		cfg.Seeder.Days = 7
	}
	if cfg.Seeder.TargetRatio <= 0 || cfg.Seeder.TargetRatio > 1 {
		cfg.Seeder.TargetRatio = 0.5
	}
	if cfg.Seeder.MaxAttempts <= 0 {
		cfg.Seeder.MaxAttempts = 3000
	}
	if cfg.Seeder.Seed == 0 {
		cfg.Seeder.Seed = 42
	}
	if cfg.Seeder.Workers <= 0 {
		log.Printf("seeder.workers is not set or invalid; defaulting to 1")
		cfg.Seeder.Workers = 1
	}
	if cfg.Seeder.ConfirmRatio <= 0 || cfg.Seeder.ConfirmRatio > 1 {
		cfg.Seeder.ConfirmRatio = 0.65
	}
	return nil
}

// CatalogCacheTTL is the lifetime of the cached active table list.
func (b BookingConfig) CatalogCacheTTL() time.Duration {
	return time.Duration(b.CatalogCacheSeconds) * time.Second
}
