package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvProduction = "production"

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port        int    `envconfig:"PORT" default:"5000"`
	Environment string `envconfig:"APP_ENV" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	Version     string `envconfig:"VERSION" default:"dev"`

	MongoURI      string        `envconfig:"MONGODB_URI" default:"mongodb://localhost:27017"`
	MongoDatabase string        `envconfig:"MONGODB_DATABASE" default:"hackfest2025"`
	MongoTimeout  time.Duration `envconfig:"MONGODB_TIMEOUT" default:"10s"`

	MaxTeams int `envconfig:"MAX_TEAMS" default:"1000"`

	FrontendURL          string `envconfig:"FRONTEND_URL" default:"http://localhost:3000"`
	StaticDir            string `envconfig:"STATIC_DIR" default:""`
	RateLimitPerWindow   int    `envconfig:"RATE_LIMIT_PER_WINDOW" default:"100"`
	RegisterLimitPerHour int    `envconfig:"REGISTER_LIMIT_PER_HOUR" default:"5"`

	AdminTokenSecret string `envconfig:"ADMIN_TOKEN_SECRET" default:""`

	SMTP  SMTP
	Event Event
}

// SMTP configures the confirmation mailer. Delivery is skipped when credentials are empty.
type SMTP struct {
	Host     string        `envconfig:"SMTP_HOST" default:"smtp.gmail.com"`
	Port     int           `envconfig:"SMTP_PORT" default:"587"`
	Username string        `envconfig:"SMTP_USERNAME" default:""`
	Password string        `envconfig:"SMTP_PASSWORD" default:""`
	From     string        `envconfig:"SMTP_FROM" default:""`
	Timeout  time.Duration `envconfig:"SMTP_TIMEOUT" default:"10s"`
}

// Event holds the details printed in confirmation emails.
type Event struct {
	Name         string `envconfig:"EVENT_NAME" default:"HackFest 2025"`
	Date         string `envconfig:"EVENT_DATE" default:"March 15-16, 2025"`
	Venue        string `envconfig:"EVENT_VENUE" default:"IIT Delhi"`
	ContactEmail string `envconfig:"CONTACT_EMAIL" default:"contact@hackfest2025.com"`
}

func (s SMTP) Configured() bool {
	return s.Username != "" && s.Password != ""
}

// Sender returns the From address, defaulting to the SMTP username.
func (s SMTP) Sender() string {
	if s.From != "" {
		return s.From
	}
	return s.Username
}

func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// Load reads configuration from environment variables into a Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
