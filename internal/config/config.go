// config описывает конфигурацию babies-service и её загрузку из YAML/ENV.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config - корневая конфигурация сервиса.
type Config struct {
	Env      string         `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTPConfig     `yaml:"http"`
	Postgres PostgresConfig `yaml:"postgres"`
	S3       S3Config       `yaml:"s3"`
	Avatar   AvatarConfig   `yaml:"avatar"`
	Audio    AudioConfig    `yaml:"audio"`
	Signing  SigningConfig  `yaml:"signing"`
	Timeouts TimeoutConfig  `yaml:"timeouts"`
}

// HTTPConfig - адрес HTTP API (вместе с /livez, /healthz, /metrics).
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"8085"`
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

type PostgresConfig struct {
	URL string `yaml:"url" env:"POSTGRES" env-required:"true"`
}

type S3Config struct {
	Endpoint     string `yaml:"endpoint" env:"S3_ENDPOINT" env-required:"true"`
	RootUser     string `yaml:"root_user" env:"S3_ROOT_USER" env-required:"true"`
	RootPassword string `yaml:"root_password" env:"S3_ROOT_PASSWORD" env-required:"true"`
	Bucket       string `yaml:"bucket" env:"S3_BUCKET" env-required:"true"`
}

type AvatarConfig struct {
	MaxSizeBytes        int64    `yaml:"max_size_bytes" env:"AVATAR_MAX_SIZE_BYTES" env-default:"5242880"`
	AllowedContentTypes []string `yaml:"allowed_content_types" env:"AVATAR_ALLOWED_CONTENT_TYPES" env-separator:"," env-default:"image/jpeg,image/png,image/webp"`
}

// AudioConfig - ограничения на загружаемые записи плача.
// Записи меньше MinSizeBytes считаются пустыми (микрофон ничего не записал).
type AudioConfig struct {
	MinSizeBytes int64 `yaml:"min_size_bytes" env:"AUDIO_MIN_SIZE_BYTES" env-default:"1024"`
	MaxSizeBytes int64 `yaml:"max_size_bytes" env:"AUDIO_MAX_SIZE_BYTES" env-default:"20971520"`
}

// SigningConfig - подписанные ссылки на объекты.
//   - DefaultTTL: срок жизни, если клиент не указал свой;
//   - MaxTTL: верхняя граница запрошенного срока;
//   - CacheSkew: на сколько раньше истечения подписи ссылка выбывает из кэша.
type SigningConfig struct {
	DefaultTTL time.Duration `yaml:"default_ttl" env:"SIGNING_DEFAULT_TTL" env-default:"1h"`
	MaxTTL     time.Duration `yaml:"max_ttl" env:"SIGNING_MAX_TTL" env-default:"24h"`
	CacheSkew  time.Duration `yaml:"cache_skew" env:"SIGNING_CACHE_SKEW" env-default:"1m"`
}

// TimeoutConfig - таймауты сервиса; Upload - для загрузки аватаров и записей.
type TimeoutConfig struct {
	Service time.Duration `yaml:"service" env:"SERVICE_TIMEOUT" env-default:"5s"`
	Upload  time.Duration `yaml:"upload" env:"UPLOAD_TIMEOUT" env-default:"60s"`
}

// MustLoad - обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}

	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}

	if path == "" {
		if _, err := os.Stat("local.yaml"); err == nil {
			path = "local.yaml"
		}
	}

	var cfg Config

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", path, err)
		}

		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config %q: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Avatar.MaxSizeBytes == 0 {
		c.Avatar.MaxSizeBytes = 5 * 1024 * 1024 // 5 MiB
	}

	if c.Audio.MinSizeBytes == 0 {
		c.Audio.MinSizeBytes = 1024
	}

	if c.Audio.MaxSizeBytes == 0 {
		c.Audio.MaxSizeBytes = 20 * 1024 * 1024
	}

	if c.Signing.DefaultTTL == 0 {
		c.Signing.DefaultTTL = time.Hour
	}

	if c.Signing.MaxTTL == 0 {
		c.Signing.MaxTTL = 24 * time.Hour
	}

	switch {
	case c.Postgres.URL == "":
		return fmt.Errorf("postgres.url is required")
	case c.HTTP.Host == "":
		return fmt.Errorf("http.host is required")
	case c.S3.Endpoint == "":
		return fmt.Errorf("s3.endpoint is required")
	case c.S3.RootUser == "":
		return fmt.Errorf("s3.root_user is required")
	case c.S3.RootPassword == "":
		return fmt.Errorf("s3.root_password is required")
	case c.S3.Bucket == "":
		return fmt.Errorf("s3.bucket is required")
	}

	if p, err := strconv.Atoi(c.HTTP.Port); err != nil || p <= 0 || p > 65535 {
		return fmt.Errorf("http.port must be a valid TCP port (1..65535)")
	}

	if c.Avatar.MaxSizeBytes < 0 {
		return fmt.Errorf("avatar.max_size_bytes must be >= 0")
	}

	if len(c.Avatar.AllowedContentTypes) == 0 {
		return fmt.Errorf("avatar.allowed_content_types must not be empty")
	}

	if c.Audio.MinSizeBytes < 0 || c.Audio.MaxSizeBytes < c.Audio.MinSizeBytes {
		return fmt.Errorf("audio: need 0 <= min_size_bytes <= max_size_bytes")
	}

	if c.Signing.DefaultTTL < 0 || c.Signing.MaxTTL < c.Signing.DefaultTTL {
		return fmt.Errorf("signing: need 0 < default_ttl <= max_ttl")
	}

	if c.Signing.CacheSkew < 0 || c.Signing.CacheSkew >= c.Signing.DefaultTTL {
		return fmt.Errorf("signing.cache_skew must be in [0, default_ttl)")
	}

	return nil
}
