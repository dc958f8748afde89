package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

// Config is read from the environment. Outer services (Postgres, Redis,
// RabbitMQ, Gemini, Firebase) are optional: an empty value disables them.
type Config struct {
	Port      string        `envconfig:"PORT" default:"8080"`
	LogLevel  string        `envconfig:"LOG_LEVEL" default:"info"`
	JWTSecret string        `envconfig:"APP_JWT_SECRET" required:"true"`
	TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"168h"`

	TaxRate    decimal.Decimal `envconfig:"TAX_RATE" default:"0.08"`
	TableCount int             `envconfig:"TABLE_COUNT" default:"12"`
	Timezone   string          `envconfig:"TIMEZONE" default:"UTC"`

	AdminEmail    string `envconfig:"ADMIN_EMAIL" default:"admin@bistro.local"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD"`

	DatabaseURL string `envconfig:"DATABASE_URL"`
	RedisAddr   string `envconfig:"REDIS_ADDR"`
	RabbitMQURL string `envconfig:"RABBITMQ_URL"`

	GeminiAPIKey      string        `envconfig:"GEMINI_API_KEY"`
	GeminiTextModel   string        `envconfig:"GEMINI_TEXT_MODEL" default:"gemini-2.5-flash"`
	GeminiImageModel  string        `envconfig:"GEMINI_IMAGE_MODEL" default:"gemini-2.5-flash-image"`
	GeminiSpeechModel string        `envconfig:"GEMINI_SPEECH_MODEL" default:"gemini-2.5-flash-preview-tts"`
	AITimeout         time.Duration `envconfig:"AI_TIMEOUT" default:"20s"`
	AICacheTTL        time.Duration `envconfig:"AI_CACHE_TTL" default:"1h"`

	FirebaseCredentialsBase64 string `envconfig:"FIREBASE_CREDENTIALS_BASE64"`
	FirebaseCredentialsFile   string `envconfig:"FIREBASE_CREDENTIALS_FILE"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Location returns the configured timezone, falling back to UTC
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
