package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTP      HTTPConfig
	DB        DBConfig
	JWT       JWTConfig
	AWS       AWSConfig
	OpenAI    OpenAIConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

type HTTPConfig struct {
	Port    string `env:"PORT,default=8080"`
	GinMode string `env:"GIN_MODE,default=release"`
	// Upper bound on decoded image bytes accepted by /analyze.
	MaxImageBytes int64 `env:"MAX_IMAGE_BYTES,default=8388608"`
}

type DBConfig struct {
	Host     string `env:"DB_HOST,default=localhost"`
	User     string `env:"DB_USER,default=postgres"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME,default=foodlens"`
	Port     string `env:"DB_PORT,default=5432"`
	SSLMode  string `env:"DB_SSLMODE,default=disable"`
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
}

type JWTConfig struct {
	Secret string        `env:"JWT_SECRET"`
	TTL    time.Duration `env:"JWT_TTL,default=72h"`
}

type AWSConfig struct {
	Region        string `env:"AWS_REGION,default=eu-north-1"`
	S3Region      string `env:"S3_REGION"`
	S3Bucket      string `env:"S3_BUCKET"`
	CloudFrontURL string `env:"CLOUDFRONT_URL"`
	SESSender     string `env:"SES_EMAIL"`
	// When set, images are checked with Rekognition before the vision model runs.
	FoodPrescreen      bool    `env:"REKOGNITION_PRESCREEN,default=false"`
	PrescreenMinConfid float64 `env:"REKOGNITION_MIN_CONFIDENCE,default=75"`
}

type OpenAIConfig struct {
	APIKey  string        `env:"OPENAI_API_KEY"`
	Model   string        `env:"OPENAI_MODEL,default=gpt-4o-mini"`
	BaseURL string        `env:"OPENAI_BASE_URL,default=https://api.openai.com/v1"`
	Timeout time.Duration `env:"OPENAI_TIMEOUT,default=60s"`
}

type RedisConfig struct {
	Address  string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,default=0"`
}

type RateLimitConfig struct {
	AnalyzePerMinute int `env:"ANALYZE_PER_MINUTE,default=10"`
	AnalyzeBurst     int `env:"ANALYZE_BURST,default=3"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL,default=info"`
	Format string `env:"LOG_FORMAT,default=text"`
}

// Load reads an optional .env file and decodes the environment.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode environment: %w", err)
	}
	if cfg.AWS.S3Region == "" {
		cfg.AWS.S3Region = cfg.AWS.Region
	}
	return &cfg, nil
}
