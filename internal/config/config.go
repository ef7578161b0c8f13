package config

import (
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/bigredeye/temrin/pkg/conf"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Server struct {
		ListenAddress string
		MaxBodySize   string
		Cookies       struct {
			AuthenticationKey string
			EncryptionKey     string
			Secure            bool
		}
	}

	DataBase struct {
		Driver string
		Host   string
		Port   uint16
		User   string
		Pass   string
		Name   string
		// Path is the SQLite database file, used when Driver is "sqlite".
		Path           string
		ConnectTimeout time.Duration
	}

	Analysis struct {
		APIKey   string
		Model    string
		Endpoint string
		Timeout  time.Duration
		CacheTTL time.Duration
	}

	Telegram struct {
		BotToken     string
		AllowedChats []int64
	}

	Log struct {
		Production bool
		File       string
		MaxSizeMB  int
		MaxBackups int
		MaxAgeDays int
	}
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.DataBase.Host, c.DataBase.Port, c.DataBase.User, c.DataBase.Pass, c.DataBase.Name,
	)
}

var defaults = map[string]interface{}{
	"server.listenaddress":    ":8080",
	"server.maxbodysize":      "1MB",
	"database.driver":         DriverPostgres,
	"database.host":           "localhost",
	"database.port":           5432,
	"database.user":           "temrin",
	"database.name":           "temrin",
	"database.path":           "temrin.db",
	"database.connecttimeout": "30s",
	"analysis.model":          "gemini-3-pro-preview",
	"analysis.endpoint":       "https://generativelanguage.googleapis.com",
	"analysis.timeout":        "60s",
	"analysis.cachettl":       "1h",
	"log.maxsizemb":           100,
	"log.maxbackups":          3,
	"log.maxagedays":          28,
}

func ParseConfig(path string) (*Config, error) {
	config := &Config{}
	err := conf.ParseConfig(config,
		conf.EnvPrefix("TEMRIN"),
		conf.File(path),
		conf.Defaults(defaults),
	)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to parse config")
	}
	switch config.DataBase.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, errors.Errorf("Unknown database driver %q", config.DataBase.Driver)
	}
	return config, nil
}
