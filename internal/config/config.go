package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	JWT         JWTConfig         `yaml:"jwt"`
	Security    SecurityConfig    `yaml:"security"`
	SMTP        SMTPConfig        `yaml:"smtp"`
	DefaultUser DefaultUserConfig `yaml:"default_user"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	Mode string `yaml:"mode"`
}

type DatabaseConfig struct {
	Type   string       `yaml:"type"`
	SQLite SQLiteConfig `yaml:"sqlite"`
	MySQL  MySQLConfig  `yaml:"mysql"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type MySQLConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	Charset  string `yaml:"charset"`
}

type JWTConfig struct {
	Secret string `yaml:"secret"`
	Issuer string `yaml:"issuer"`
}

// SecurityConfig holds the defaults for the tunable security settings. These
// values seed the security_settings table on first start; after that the
// stored rows win, so admins can adjust them at runtime.
type SecurityConfig struct {
	BcryptCost             int  `yaml:"bcrypt_cost"`
	MaxLoginAttempts       int  `yaml:"max_login_attempts"`
	AttemptWindowMinutes   int  `yaml:"attempt_window_minutes"`
	LockoutDurationMinutes int  `yaml:"lockout_duration_minutes"`
	SessionTimeoutMinutes  int  `yaml:"session_timeout_minutes"`
	MaxConcurrentSessions  int  `yaml:"max_concurrent_sessions"`
	EnableIPWhitelist      bool `yaml:"enable_ip_whitelist"`
	PasswordMinLength      int  `yaml:"password_min_length"`
}

type SMTPConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	BaseURL  string `yaml:"base_url"`
}

type DefaultUserConfig struct {
	Email    string `yaml:"email"`
	Name     string `yaml:"name"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

var Global *Config

// Load reads the configuration file and environment variables
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	// Override with environment variables
	if jwtSecret := os.Getenv("SRC_JWT_SECRET"); jwtSecret != "" {
		cfg.JWT.Secret = jwtSecret
	}

	if dbType := os.Getenv("SRC_DB_TYPE"); dbType != "" {
		cfg.Database.Type = dbType
	}

	if dbPath := os.Getenv("SRC_DB_PATH"); dbPath != "" {
		cfg.Database.SQLite.Path = dbPath
	}

	if mysqlHost := os.Getenv("SRC_MYSQL_HOST"); mysqlHost != "" {
		cfg.Database.MySQL.Host = mysqlHost
	}

	if mysqlPort := os.Getenv("SRC_MYSQL_PORT"); mysqlPort != "" {
		if port, err := strconv.Atoi(mysqlPort); err == nil {
			cfg.Database.MySQL.Port = port
		}
	}

	if mysqlUser := os.Getenv("SRC_MYSQL_USER"); mysqlUser != "" {
		cfg.Database.MySQL.Username = mysqlUser
	}

	if mysqlPass := os.Getenv("SRC_MYSQL_PASSWORD"); mysqlPass != "" {
		cfg.Database.MySQL.Password = mysqlPass
	}

	if mysqlDB := os.Getenv("SRC_MYSQL_DATABASE"); mysqlDB != "" {
		cfg.Database.MySQL.Database = mysqlDB
	}

	if smtpPass := os.Getenv("SRC_SMTP_PASSWORD"); smtpPass != "" {
		cfg.SMTP.Password = smtpPass
	}

	// Ensure data directory exists for SQLite
	if cfg.Database.Type == "sqlite" {
		dataDir := filepath.Dir(cfg.Database.SQLite.Path)
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	// Validate MySQL configuration if MySQL is selected
	if cfg.Database.Type == "mysql" {
		if cfg.Database.MySQL.Username == "" {
			return nil, fmt.Errorf("MySQL username is required")
		}
		if cfg.Database.MySQL.Database == "" {
			return nil, fmt.Errorf("MySQL database name is required")
		}
	}

	Global = &cfg
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Security.BcryptCost == 0 {
		cfg.Security.BcryptCost = 12
	}
	if cfg.Security.MaxLoginAttempts == 0 {
		cfg.Security.MaxLoginAttempts = 5
	}
	if cfg.Security.AttemptWindowMinutes == 0 {
		cfg.Security.AttemptWindowMinutes = 15
	}
	if cfg.Security.LockoutDurationMinutes == 0 {
		cfg.Security.LockoutDurationMinutes = 30
	}
	if cfg.Security.SessionTimeoutMinutes == 0 {
		cfg.Security.SessionTimeoutMinutes = 60
	}
	if cfg.Security.MaxConcurrentSessions == 0 {
		cfg.Security.MaxConcurrentSessions = 3
	}
	if cfg.Security.PasswordMinLength == 0 {
		cfg.Security.PasswordMinLength = 8
	}
	if cfg.SMTP.Port == 0 {
		cfg.SMTP.Port = 587
	}
}
