package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"usersadmin/internal/domain"
	"usersadmin/internal/utils"
)

type Env struct {
	AppAddr         string   `toml:"addr"`
	GinMode         string   `toml:"gin_mode"`
	DBDriver        string   `toml:"db_driver"` // mysql | sqlite3
	DBDSN           string   `toml:"db_dsn"`
	AutoMigrate     bool     `toml:"auto_migrate"`
	NATSURL         string   `toml:"nats_url"`   // empty = events disabled
	JWTSecret       string   `toml:"jwt_secret"` // empty = auth disabled
	CORSOrigins     []string `toml:"cors_allowed_origins"`
	DefaultPageSize int      `toml:"default_page_size"`
	LogLevel        string   `toml:"log_level"`
	LogFormat       string   `toml:"log_format"` // json | console
}

const defaultMySQLDSN = "root:@tcp(127.0.0.1:3306)/users_admin?parseTime=true&loc=UTC&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s"

// Defaults returns the configuration used when nothing is set.
func Defaults() Env {
	return Env{
		AppAddr:  ":8080",
		DBDriver: "mysql",
		DBDSN:    defaultMySQLDSN,
		CORSOrigins: []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"http://localhost:5173",
			"http://127.0.0.1:5173",
		},
		DefaultPageSize: domain.DefaultPageSize,
		LogLevel:        "info",
		LogFormat:       "json",
	}
}

// LoadEnv builds the configuration from defaults, then the TOML file named
// by APP_CONFIG (if any), then individual environment variables.
func LoadEnv() (Env, error) {
	env := Defaults()

	if path := strings.TrimSpace(os.Getenv("APP_CONFIG")); path != "" {
		if _, err := toml.DecodeFile(path, &env); err != nil {
			return env, fmt.Errorf("APP_CONFIG %s: %w", path, err)
		}
	}

	setString(&env.AppAddr, "APP_ADDR")
	setString(&env.GinMode, "GIN_MODE")
	setString(&env.DBDriver, "APP_DB_DRIVER")
	setString(&env.DBDSN, "APP_DB_DSN")
	setString(&env.NATSURL, "APP_NATS_URL")
	setString(&env.JWTSecret, "APP_JWT_SECRET")
	setString(&env.LogLevel, "APP_LOG_LEVEL")
	setString(&env.LogFormat, "APP_LOG_FORMAT")

	if v := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")); v != "" {
		env.CORSOrigins = utils.SplitList(v)
	}

	if v := strings.TrimSpace(os.Getenv("APP_AUTO_MIGRATE")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return env, fmt.Errorf("APP_AUTO_MIGRATE: %w", err)
		}
		env.AutoMigrate = b
	}

	if v := strings.TrimSpace(os.Getenv("APP_DEFAULT_PAGE_SIZE")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return env, fmt.Errorf("APP_DEFAULT_PAGE_SIZE: %w", err)
		}
		env.DefaultPageSize = n
	}

	return env, env.Validate()
}

// Validate checks values that would otherwise fail late at runtime.
func (e Env) Validate() error {
	switch e.DBDriver {
	case "mysql", "sqlite3":
	default:
		return fmt.Errorf("APP_DB_DRIVER must be mysql or sqlite3, got %q", e.DBDriver)
	}
	if strings.TrimSpace(e.DBDSN) == "" {
		return fmt.Errorf("APP_DB_DSN is required")
	}
	if e.DefaultPageSize < 1 {
		return fmt.Errorf("APP_DEFAULT_PAGE_SIZE must be > 0, got %d", e.DefaultPageSize)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}
