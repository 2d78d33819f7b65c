package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces every environment override.
const EnvPrefix = "GEOSHELL_"

// DefaultGuestQueryLimit is the per-guest quota for describe queries.
const DefaultGuestQueryLimit = 10000

// Config is the full runtime configuration of the shell.
type Config struct {
	Database Database `yaml:"database" envPrefix:"DB_"`
	Log      Log      `yaml:"log" envPrefix:"LOG_"`
	Metrics  Metrics  `yaml:"metrics" envPrefix:"METRICS_"`
	Guest    Guest    `yaml:"guest" envPrefix:"GUEST_"`
	Secrets  Secrets  `yaml:"secrets"`
}

// Database selects and addresses the backing store.
type Database struct {
	Driver    string        `yaml:"driver" env:"DRIVER" validate:"oneof=postgres pgx memory"`
	Host      string        `yaml:"host" env:"HOST"`
	Port      int           `yaml:"port" env:"PORT" validate:"gte=0,lte=65535"`
	Name      string        `yaml:"name" env:"NAME"`
	User      string        `yaml:"user" env:"USER"`
	Password  string        `yaml:"password" env:"PASSWORD"`
	SSLMode   string        `yaml:"sslmode" env:"SSLMODE"`
	URL       string        `yaml:"dsn" env:"DSN"`
	TxTimeout time.Duration `yaml:"tx_timeout" env:"TX_TIMEOUT" validate:"gt=0"`
	Isolation string        `yaml:"isolation" env:"ISOLATION" validate:"oneof=read_committed repeatable_read serializable"`
	// Seed is a YAML dataset loaded when Driver is "memory".
	Seed string `yaml:"seed" env:"SEED"`
}

type Log struct {
	Level  string `yaml:"level" env:"LEVEL" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" env:"FORMAT" validate:"oneof=text json"`
}

type Metrics struct {
	// Textfile, when set, receives a prometheus text exposition at exit.
	Textfile string `yaml:"textfile" env:"TEXTFILE"`
}

type Guest struct {
	QueryLimit int `yaml:"query_limit" env:"QUERY_LIMIT" validate:"gt=0"`
}

type Secrets struct {
	BcryptCost int `yaml:"bcrypt_cost" env:"BCRYPT_COST" validate:"gte=4,lte=31"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Database: Database{
			Driver:    "postgres",
			Host:      "localhost",
			Port:      5432,
			Name:      "mondial",
			User:      "postgres",
			SSLMode:   "disable",
			TxTimeout: 5 * time.Second,
			Isolation: "read_committed",
		},
		Log:     Log{Level: "warn", Format: "text"},
		Guest:   Guest{QueryLimit: DefaultGuestQueryLimit},
		Secrets: Secrets{BcryptCost: 10},
	}
}

// Load applies, in order: defaults, the YAML file at path (skipped when it
// does not exist), then GEOSHELL_* environment variables. The result is
// validated before it is returned.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// DSN renders the connection string understood by both lib/pq and pgx.
// An explicit URL wins over the discrete fields.
func (d Database) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	parts := []string{
		"host=" + quoteDSN(d.Host),
		fmt.Sprintf("port=%d", d.Port),
		"dbname=" + quoteDSN(d.Name),
		"user=" + quoteDSN(d.User),
		"sslmode=" + quoteDSN(d.SSLMode),
	}
	if d.Password != "" {
		parts = append(parts, "password="+quoteDSN(d.Password))
	}
	return strings.Join(parts, " ")
}

func quoteDSN(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}
