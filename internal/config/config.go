package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Output struct {
		// Root is the directory under which course trees are created. Defaults to $HOME.
		Root string `yaml:"root" env:"COURSEGEN_OUTPUT_ROOT"`
	} `yaml:"output"`

	Site struct {
		// StaticBaseURL hosts the shared CSS/JS referenced by generated pages
		StaticBaseURL string `yaml:"static_base_url" env:"COURSEGEN_STATIC_BASE_URL"`
		// LearningBaseURL hosts the platform pages (discussion, progress, login)
		LearningBaseURL string `yaml:"learning_base_url" env:"COURSEGEN_LEARNING_BASE_URL"`
	} `yaml:"site"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
		File   string `yaml:"file" env:"LOG_FILE"`
	} `yaml:"logging"`

	Autosave struct {
		Enabled  bool   `yaml:"enabled" env:"COURSEGEN_AUTOSAVE_ENABLED"`
		Interval string `yaml:"interval" env:"COURSEGEN_AUTOSAVE_INTERVAL"`
	} `yaml:"autosave"`

	Preview struct {
		Port           string   `yaml:"port" env:"PREVIEW_PORT"`
		AllowedOrigins []string `yaml:"allowed_origins" env:"PREVIEW_ALLOWED_ORIGINS"`
	} `yaml:"preview"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	// Scaffold holds the values baked into the generated AUTH/config.php
	Scaffold struct {
		DBHost     string `yaml:"db_host" env:"SCAFFOLD_DB_HOST"`
		DBName     string `yaml:"db_name" env:"SCAFFOLD_DB_NAME"`
		DBUser     string `yaml:"db_user" env:"SCAFFOLD_DB_USER"`
		DBPassword string `yaml:"db_password" env:"SCAFFOLD_DB_PASSWORD"`
		LoginURL   string `yaml:"login_url" env:"SCAFFOLD_LOGIN_URL"`
	} `yaml:"scaffold"`
}

// LoadConfig loads configuration from a file, an optional .env file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load default config with sane defaults
	config := &Config{}
	if err := setDefaults(config); err != nil {
		return nil, err
	}

	// Try to read config file if it exists
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// load .env next to the config file if it exists (ignore if it does not)
	if err := loadDotEnv(filepath.Join(filepath.Dir(configPath), ".env")); err != nil {
		return nil, err
	}

	// Override with environment variables
	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// loadDotEnv loads variables from path without overriding ones already set
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to resolve home directory: %w", err)
	}
	config.Output.Root = home

	config.Site.StaticBaseURL = "https://elitelearnersacademy.com"
	config.Site.LearningBaseURL = "https://elitelearnersacademy.com/LEARNING"

	config.Logging.Level = "info"
	config.Logging.Format = "text"

	config.Autosave.Enabled = true
	config.Autosave.Interval = "60s"

	config.Preview.Port = "8080"
	config.Preview.AllowedOrigins = []string{"*"}

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "coursegen"
	config.Database.SSLMode = "disable"
	config.Database.MaxOpenConns = 4
	config.Database.MaxIdleConns = 1
	config.Database.ConnMaxLifetime = "1h"

	config.Scaffold.DBHost = "localhost"
	config.Scaffold.DBName = "dabasename_here"
	config.Scaffold.DBUser = "user_here"
	config.Scaffold.DBPassword = "password_here"
	config.Scaffold.LoginURL = "login.php"
	return nil
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if strings.TrimSpace(config.Output.Root) == "" {
		return fmt.Errorf("output root is required")
	}

	if _, err := time.ParseDuration(config.Autosave.Interval); err != nil {
		return fmt.Errorf("invalid autosave interval format: %w", err)
	}

	if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
		return fmt.Errorf("invalid connection max lifetime format: %w", err)
	}

	if port, err := strconv.Atoi(config.Preview.Port); err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("invalid preview port %q", config.Preview.Port)
	}

	switch strings.ToLower(config.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid logging format %q (want text or json)", config.Logging.Format)
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// AutosaveInterval returns the parsed autosave interval
func (c *Config) AutosaveInterval() time.Duration {
	d, err := time.ParseDuration(c.Autosave.Interval)
	if err != nil {
		return time.Minute
	}
	return d
}
