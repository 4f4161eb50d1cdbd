package mongotx

import "github.com/caarlos0/env/v11"

// Config carries the connection settings for the adapter.
type Config struct {
	// URL is the store connection string.
	URL string `env:"MONGO_URL" envDefault:"mongodb://localhost:27017"`
	// Database is the database holding all storage domains.
	Database string `env:"MONGO_DB" envDefault:"platform"`
}

// FromEnv loads configuration from the environment, falling back to
// defaults suitable for local development.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
