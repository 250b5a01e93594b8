package config

import (
	"crypto/rsa"
	"time"

	"github.com/ansari-project/maix-server/utils"
	"github.com/caarlos0/env/v6"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port           string `env:"LISTEN_ADDR" envDefault:":3000"`
	Timeout        uint64 `env:"TIMEOUT" envDefault:"10"`
	ReadBufferSize int    `env:"READ_BUFFER_SIZE" envDefault:"4096"`
	BodyLimit      int    `env:"BODY_LIMIT" envDefault:"1048576"`
	AppName        string `env:"APP_NAME" envDefault:"Maix"`
	IsProduction   bool   `env:"PRODUCTION"`
	Dsn            string `env:"DSN"`
	DbPoolSize     int    `env:"DB_POOL_SIZE" envDefault:"16"`
	CookieKey      string `env:"COOKIE_KEY"`
	RedisUrl       string `env:"REDIS_URL"`

	// AppOrigin is the base for invitation acceptance links.
	AppOrigin string `env:"APP_ORIGIN" envDefault:"http://localhost:3000"`

	InviteTtl       time.Duration `env:"INVITE_TTL" envDefault:"168h"`
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" envDefault:"1h"`

	JwtPublicKey       string `env:"JWT_PUBLIC_KEY"`
	JwtParsedPublicKey *rsa.PublicKey

	EmailConfig EmailConfig `envPrefix:"EMAIL_"`
}

type EmailConfig struct {
	From             string `env:"FROM"`
	SmtpHost         string `env:"SMTP_HOST"`
	SmtpPort         int    `env:"SMTP_PORT" envDefault:"587"`
	SmtpUser         string `env:"SMTP_USER"`
	SmtpPassword     string `env:"SMTP_PASSWORD"`
	SmtpSkipInsecure bool   `env:"SMTP_SKIP_INSECURE" envDefault:"false"`
}

func Parse() (*Config, error) {
	cfg := Config{
		IsProduction: utils.ParseFlags(),
	}

	if err := env.Parse(&cfg); err != nil {
		log.Panic().Err(err).Msg("Failed to parse env config")
	}

	cfg.JwtParsedPublicKey = utils.ParsePublicKey(cfg.JwtPublicKey)

	return &cfg, nil
}
