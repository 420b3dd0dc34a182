package config

import "time"

// Config holds application configuration.
type Config struct {
	DatabaseURL  string        `env:"DATABASE_URL"`
	HTTPAddr     string        `env:"HTTP_ADDR" envDefault:":8080"`
	HTTPTimeout  time.Duration `env:"HTTP_TIMEOUT" envDefault:"10s"`
	UserAgent    string        `env:"USER_AGENT" envDefault:"souktrack/0.1.0"`
	PoolSize     int           `env:"POOL_SIZE" envDefault:"4"`
	Recheck      string        `env:"RECHECK_SCHEDULE" envDefault:"0 */12 * * *"`
	Origins      []string      `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	RateLimitRPS float64       `env:"RATE_LIMIT_RPS" envDefault:"10"`

	RabbitMQ RabbitMQ
}

// RabbitMQ holds RabbitMQ configuration. Consuming track commands is
// enabled only when URL is set.
type RabbitMQ struct {
	URL      string `env:"RABBITMQ_URL"`
	Exchange string `env:"RABBITMQ_EXCHANGE" envDefault:"souktrack-ex"`
	Queue    string `env:"RABBITMQ_QUEUE" envDefault:"souktrack.commands"`
}
