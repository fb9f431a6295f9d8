package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"http_server"`
	Warehouse     WarehouseConfig     `mapstructure:"warehouse"`
	Identity      IdentityConfig      `mapstructure:"identity"`
	Security      SecurityConfig      `mapstructure:"security" validate:"required"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

// WarehouseConfig describes the remote SQL warehouse the dashboard reads from and
// writes to. The warehouse id is the only parameter without a usable default.
type WarehouseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	WarehouseID     string        `mapstructure:"warehouse_id" validate:"required"`
	Token           string        `mapstructure:"token"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	Source          string        `mapstructure:"source"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"required,min=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"required,min=1"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	QueryTimeout    time.Duration `mapstructure:"query_timeout"`
	ReportSchema    string        `mapstructure:"report_schema"`
	ExtensionSchema string        `mapstructure:"extension_schema"`
}

type IdentityConfig struct {
	Header string `mapstructure:"header"`
}

type SecurityConfig struct {
	SessionSecret string        `mapstructure:"session_secret" validate:"required,min=32"`
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
}

type ObservabilityConfig struct {
	Metrics MetricsConfig `mapstructure:"metrics"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required_if=Enabled true"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

const (
	DefaultIdentityHeader  = "X-Forwarded-Email"
	DefaultReportSchema    = "minerva_prod.goldaccessmodel"
	DefaultExtensionSchema = "minerva_dev.accessmodel"
)

// LoadConfigFromEnv builds the configuration from plain environment variables, the way
// the dashboard is deployed next to the warehouse.
func LoadConfigFromEnv() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port:              getEnvAsInt("PORT", 8000),
			BaseURL:           getEnv("BASE_URL", ""),
			ReadHeaderTimeout: getEnvAsDuration("READ_HEADER_TIMEOUT", 5*time.Second),
			ReadTimeout:       getEnvAsDuration("READ_TIMEOUT", 30*time.Second),
			WriteTimeout:      getEnvAsDuration("WRITE_TIMEOUT", 60*time.Second),
			IdleTimeout:       getEnvAsDuration("IDLE_TIMEOUT", 120*time.Second),
		},
		Warehouse: WarehouseConfig{
			Host:            getEnv("DATABRICKS_HOST", ""),
			Port:            getEnvAsInt("DATABRICKS_PORT", 443),
			WarehouseID:     getEnv("DATABRICKS_WAREHOUSE_ID", ""),
			Token:           getEnv("DATABRICKS_TOKEN", ""),
			SSLMode:         getEnv("DATABRICKS_SSL_MODE", "require"),
			Source:          getEnv("WAREHOUSE_SOURCE", ""),
			MaxOpenConns:    getEnvAsInt("WAREHOUSE_MAX_OPEN_CONNS", 5),
			MaxIdleConns:    getEnvAsInt("WAREHOUSE_MAX_IDLE_CONNS", 2),
			ConnMaxLifetime: getEnvAsDuration("WAREHOUSE_CONN_MAX_LIFETIME", 30*time.Minute),
			QueryTimeout:    getEnvAsDuration("WAREHOUSE_QUERY_TIMEOUT", 60*time.Second),
			ReportSchema:    getEnv("REPORT_SCHEMA", DefaultReportSchema),
			ExtensionSchema: getEnv("EXTENSION_SCHEMA", DefaultExtensionSchema),
		},
		Identity: IdentityConfig{
			Header: getEnv("IDENTITY_HEADER", DefaultIdentityHeader),
		},
		Security: SecurityConfig{
			SessionSecret: getEnv("SESSION_SECRET", ""),
			SessionTTL:    getEnvAsDuration("SESSION_TTL", 8*time.Hour),
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: getEnv("METRICS_ENABLED", "true") == "true",
				Path:    getEnv("METRICS_PATH", "/metrics"),
			},
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "json"),
			},
		},
	}
	return cfg
}

// ApplyDefaults fills optional values left empty by a config file.
func (c *Config) ApplyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Warehouse.Port == 0 {
		c.Warehouse.Port = 443
	}
	if c.Warehouse.SSLMode == "" {
		c.Warehouse.SSLMode = "require"
	}
	if c.Warehouse.MaxOpenConns == 0 {
		c.Warehouse.MaxOpenConns = 5
	}
	if c.Warehouse.MaxIdleConns == 0 {
		c.Warehouse.MaxIdleConns = 2
	}
	if c.Warehouse.ReportSchema == "" {
		c.Warehouse.ReportSchema = DefaultReportSchema
	}
	if c.Warehouse.ExtensionSchema == "" {
		c.Warehouse.ExtensionSchema = DefaultExtensionSchema
	}
	if c.Identity.Header == "" {
		c.Identity.Header = DefaultIdentityHeader
	}
	if c.Security.SessionTTL == 0 {
		c.Security.SessionTTL = 8 * time.Hour
	}
	if c.Observability.Metrics.Path == "" {
		c.Observability.Metrics.Path = "/metrics"
	}
	if c.Observability.Logging.Level == "" {
		c.Observability.Logging.Level = "info"
	}
	if c.Observability.Logging.Format == "" {
		c.Observability.Logging.Format = "text"
	}
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

// ----------------- VALIDATION -----------------

// Validate reports every problem at once. A missing warehouse id is reported as a
// startup config error so the caller can refuse to start.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Warehouse.WarehouseID) == "" {
		return NewStartupConfigError("DATABRICKS_WAREHOUSE_ID must be set")
	}

	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Warehouse.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("warehouse config: %v", err))
	}

	if err := c.Security.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}

	if err := c.Observability.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("logging config: %v", err))
	}

	if len(errs) > 0 {
		return NewStartupConfigError(strings.Join(errs, "; "))
	}

	return nil
}

// SecureCookies reports whether the session cookie must be marked Secure.
func (c *ServerConfig) SecureCookies() bool {
	return strings.HasPrefix(c.BaseURL, "https://")
}

func (c *ServerConfig) Validate() error {
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

var schemaPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*){0,2}$`)

func (c *WarehouseConfig) Validate() error {
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	if c.Source == "" && c.Host == "" {
		return errors.New("either host or source is required")
	}
	for name, schema := range map[string]string{
		"report_schema":    c.ReportSchema,
		"extension_schema": c.ExtensionSchema,
	} {
		if schema != "" && !schemaPattern.MatchString(schema) {
			return fmt.Errorf("%s %q is not a valid dotted identifier", name, schema)
		}
	}
	return nil
}

// HTTPPath is the warehouse endpoint path on the SQL host.
func (c *WarehouseConfig) HTTPPath() string {
	return fmt.Sprintf("/sql/1.0/warehouses/%s", c.WarehouseID)
}

// DSN returns the explicit source when configured, otherwise a pgx connection string
// built from host, credential and warehouse path.
func (c *WarehouseConfig) DSN() string {
	if c.Source != "" {
		return c.Source
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   c.HTTPPath(),
	}
	if c.Token != "" {
		u.User = url.UserPassword("token", c.Token)
	}
	q := url.Values{}
	q.Set("sslmode", c.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

func (c *SecurityConfig) Validate() error {
	if len(c.SessionSecret) < 32 {
		return errors.New("session secret must be at least 32 characters")
	}
	return nil
}

func (c *LoggingConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Level)
	}
	switch c.Format {
	case "json", "text":
	default:
		return fmt.Errorf("unknown log format %q", c.Format)
	}
	return nil
}
