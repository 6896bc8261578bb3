package postgres

import (
	"strings"
	"time"

	"go.trai.ch/flow/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 30 * time.Minute
	defaultConnMaxIdleTime = 10 * time.Minute
)

// Config holds PostgreSQL connection settings.
type Config struct {
	databaseURL     string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// NewConfig builds a Config from the engine's store settings, filling unset pool values
// with defaults.
func NewConfig(sc domain.StoreConfig) *Config {
	c := &Config{
		databaseURL:     sc.DatabaseURL,
		MaxOpenConns:    sc.MaxOpenConns,
		MaxIdleConns:    sc.MaxIdleConns,
		ConnMaxLifetime: sc.ConnMaxLifetime,
		ConnMaxIdleTime: sc.ConnMaxIdleTime,
	}
	if c.MaxOpenConns == 0 {
		c.MaxOpenConns = defaultMaxOpenConns
	}
	if c.MaxIdleConns == 0 {
		c.MaxIdleConns = defaultMaxIdleConns
	}
	if c.ConnMaxLifetime == 0 {
		c.ConnMaxLifetime = defaultConnMaxLifetime
	}
	if c.ConnMaxIdleTime == 0 {
		c.ConnMaxIdleTime = defaultConnMaxIdleTime
	}
	return c
}

// Validate checks that a database url is present.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.databaseURL) == "" {
		return zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "database url cannot be empty"), "field", "store.database_url")
	}
	return nil
}

// MaskDatabaseURL returns the database url with its password replaced, safe for logging.
func (c *Config) MaskDatabaseURL() string {
	return MaskDatabaseURL(c.databaseURL)
}

// MaskDatabaseURL replaces the password of a postgres url with ***.
func MaskDatabaseURL(url string) string {
	schemeEnd := strings.Index(url, "://")
	if schemeEnd == -1 {
		return url
	}

	afterScheme := url[schemeEnd+3:]
	lastAt := strings.LastIndex(afterScheme, "@")
	if lastAt == -1 {
		return url
	}

	userInfo := afterScheme[:lastAt]
	colon := strings.Index(userInfo, ":")
	if colon == -1 || colon == len(userInfo)-1 {
		return url
	}

	return url[:schemeEnd] + "://" + userInfo[:colon] + ":***" + afterScheme[lastAt:]
}
