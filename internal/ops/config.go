package ops

import (
	"os"
	"strconv"
	"strings"
	"time"

	"feedbridge/internal/risk"
	"feedbridge/pkg/conn"

	"github.com/yanun0323/errors"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the file.
const (
	EnvGRPCPort       = "GRPC_PORT"
	EnvPrometheusPort = "PROMETHEUS_PORT"
	EnvSimulation     = "SHIOAJI_SIMULATION"
	EnvAPIKey         = "BROKER_API_KEY"
	EnvAPISecret      = "BROKER_API_SECRET"
)

// Config mirrors the yaml layout.
type Config struct {
	Broker       BrokerConfig       `yaml:"broker"`
	Server       ServerConfig       `yaml:"server"`
	Subscription SubscriptionConfig `yaml:"subscription"`
	Login        LoginConfig        `yaml:"login"`
	Journal      JournalConfig      `yaml:"journal"`
	Risk         risk.Config        `yaml:"risk"`
	Profiling    ProfilingConfig    `yaml:"profiling"`
}

type BrokerConfig struct {
	APIKey       string        `yaml:"api_key"`
	APISecret    string        `yaml:"api_secret"`
	CAPath       string        `yaml:"ca_path"`
	CAPassword   string        `yaml:"ca_password"`
	PersonID     string        `yaml:"person_id"`
	Simulation   bool          `yaml:"simulation"`
	TickInterval time.Duration `yaml:"tick_interval"`
}

type ServerConfig struct {
	GRPCPort    int `yaml:"grpc_port"`
	MetricsPort int `yaml:"metrics_port"`
}

type SubscriptionConfig struct {
	MaxCount int `yaml:"max_count"`
}

type LoginConfig struct {
	ReadinessTarget int           `yaml:"readiness_target"`
	Timeout         time.Duration `yaml:"timeout"`
}

// JournalConfig selects the optional order journal store.
type JournalConfig struct {
	Enabled  bool              `yaml:"enabled"`
	Driver   string            `yaml:"driver"`
	Path     string            `yaml:"path"`
	Host     string            `yaml:"host"`
	Port     int               `yaml:"port"`
	User     string            `yaml:"user"`
	Password string            `yaml:"password"`
	Database string            `yaml:"database"`
	SSLMode  string            `yaml:"ssl_mode"`
	Params   map[string]string `yaml:"params"`
}

type ProfilingConfig struct {
	Enabled       bool   `yaml:"enabled"`
	ServerAddress string `yaml:"server_address"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Broker: BrokerConfig{
			Simulation:   true,
			TickInterval: time.Second,
		},
		Server: ServerConfig{
			GRPCPort:    56666,
			MetricsPort: 8887,
		},
		Subscription: SubscriptionConfig{MaxCount: 200},
		Login: LoginConfig{
			ReadinessTarget: 4,
			Timeout:         time.Minute,
		},
		Journal: JournalConfig{Driver: conn.DriverSQLite, Path: "feedbridge.db"},
	}
}

// Load reads a yaml file over the defaults, applies environment overrides
// and validates. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrapf(err, "read config %s", path)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Wrapf(err, "parse config %s", path)
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from the environment through lookup.
func (cfg *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvGRPCPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "parse %s", EnvGRPCPort)
		}
		cfg.Server.GRPCPort = port
	}
	if v, ok := lookup(EnvPrometheusPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "parse %s", EnvPrometheusPort)
		}
		cfg.Server.MetricsPort = port
	}
	if v, ok := lookup(EnvSimulation); ok && v != "" {
		cfg.Broker.Simulation = strings.EqualFold(v, "true")
	}
	if v, ok := lookup(EnvAPIKey); ok && v != "" {
		cfg.Broker.APIKey = v
	}
	if v, ok := lookup(EnvAPISecret); ok && v != "" {
		cfg.Broker.APISecret = v
	}
	return nil
}

// Validate rejects values the bridge cannot start with.
func (cfg Config) Validate() error {
	if !validPort(cfg.Server.GRPCPort) {
		return errors.Errorf("grpc port out of range: %d", cfg.Server.GRPCPort)
	}
	if !validPort(cfg.Server.MetricsPort) {
		return errors.Errorf("metrics port out of range: %d", cfg.Server.MetricsPort)
	}
	if cfg.Server.GRPCPort == cfg.Server.MetricsPort {
		return errors.Errorf("grpc and metrics share port %d", cfg.Server.GRPCPort)
	}
	if cfg.Subscription.MaxCount <= 0 {
		return errors.Errorf("subscription max_count must be > 0, got %d", cfg.Subscription.MaxCount)
	}
	if cfg.Login.ReadinessTarget <= 0 {
		return errors.Errorf("login readiness_target must be > 0, got %d", cfg.Login.ReadinessTarget)
	}
	if cfg.Login.Timeout <= 0 {
		return errors.Errorf("login timeout must be > 0, got %s", cfg.Login.Timeout)
	}
	if cfg.Broker.Simulation && cfg.Broker.TickInterval <= 0 {
		return errors.Errorf("broker tick_interval must be > 0 in simulation, got %s", cfg.Broker.TickInterval)
	}
	if !cfg.Broker.Simulation && (cfg.Broker.APIKey == "" || cfg.Broker.APISecret == "") {
		return errors.New("broker api_key and api_secret are required outside simulation")
	}
	if cfg.Journal.Enabled && cfg.Journal.Driver != conn.DriverPostgres && cfg.Journal.Driver != conn.DriverSQLite {
		return errors.Errorf("unsupported journal driver: %s", cfg.Journal.Driver)
	}
	if cfg.Risk.MaxOrderQty < 0 || cfg.Risk.OrderRateLimit < 0 || cfg.Risk.MaxOrderNotional < 0 {
		return errors.New("risk limits must be >= 0")
	}
	if cfg.Profiling.Enabled && cfg.Profiling.ServerAddress == "" {
		return errors.New("profiling server_address is required when enabled")
	}
	return nil
}

// ConnOption converts the journal section for pkg/conn.
func (j JournalConfig) ConnOption() conn.Option {
	return conn.Option{
		Driver:   j.Driver,
		Path:     j.Path,
		Host:     j.Host,
		Port:     j.Port,
		User:     j.User,
		Password: j.Password,
		Database: j.Database,
		SSLMode:  j.SSLMode,
		Params:   j.Params,
	}
}

func validPort(p int) bool {
	return p > 0 && p <= 65535
}
