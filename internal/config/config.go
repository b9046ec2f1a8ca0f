// Package config reads process settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every setting of the portfolio server.
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	GinMode     string `env:"GIN_MODE" envDefault:"release"`
	Profile     string `env:"PORTFOLIO_PROFILE" envDefault:"jatin"`
	ContentFile string `env:"PORTFOLIO_CONTENT_FILE"`
	DBPath      string `env:"DB_PATH" envDefault:"portfolio.db"`
	ImagesDir   string `env:"IMAGES_DIR" envDefault:"images"`
	// HashSalt keeps visitor hashes stable across restarts. A random salt is
	// used when empty.
	HashSalt string `env:"HASH_SALT"`

	ScrollSpy      bool          `env:"SCROLL_SPY" envDefault:"true"`
	UnifyEntrances bool          `env:"UNIFY_ENTRANCES" envDefault:"false"`
	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"30m"`
	TrackVisitors  bool          `env:"TRACK_VISITORS" envDefault:"true"`

	AdminUsername string `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

// Load parses Config from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Addr is the listen address for gin.
func (c Config) Addr() string {
	return ":" + c.Port
}

// AdminEnabled reports whether the admin area can be logged into. It stays
// closed until a password is configured.
func (c Config) AdminEnabled() bool {
	return c.AdminPassword != ""
}
