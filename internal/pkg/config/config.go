package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Server     Server     `yaml:"server"`
	Logger     Logger     `yaml:"logger"`
	PostgresDB PostgresDB `yaml:"db"`
	Auth       Auth       `yaml:"auth"`
	RedisCache RedisCache `yaml:"rdb"`
	Session    Session    `yaml:"session"`
	Recaptcha  Recaptcha  `yaml:"recaptcha"`
	S3         S3         `yaml:"s3"`
	Pagination Pagination `yaml:"pagination"`
}

type Server struct {
	Addr         string        `env-default:":8080" yaml:"addr"`
	ReadTimeout  time.Duration `env-default:"5s"    yaml:"readTimeout"`
	IdleTimeout  time.Duration `env-default:"30s"   yaml:"idleTimeout"`
	WriteTimeout time.Duration `env-default:"10s"   yaml:"writeTimeout"`
}

type Logger struct {
	Level     string   `env-default:"info" yaml:"level"`
	Output    []string `yaml:"output"`
	ErrOutput []string `yaml:"errOutput"`
}

type PostgresDB struct {
	Addr     string `env:"POSTGRES_ADDR"     yaml:"addr"`
	Username string `env:"POSTGRES_USER"     env-required:"true" yaml:"username"`
	Password string `env:"POSTGRES_PASSWORD" yaml:"password"`
	DB       string `env:"POSTGRES_DB"       env-required:"true" yaml:"db"`
	SSLmode  string `env-default:"disable"   yaml:"sslmode"`
	MaxConns string `env-default:"10"        yaml:"maxConns"`
	Reload   bool   `yaml:"reload"`
	Version  int    `yaml:"version"`
}

type Auth struct {
	TTL        time.Duration `env-default:"24h" yaml:"ttl"`
	Secret     string        `env:"SECRET"      env-required:"true" yaml:"secret"`
	BcryptCost int           `env-default:"10"  yaml:"bcryptCost"`
}

type RedisCache struct {
	Addr     string        `env:"REDIS_ADDR"     yaml:"addr"`
	Password string        `env:"REDIS_PASSWORD" yaml:"password"`
	DB       int           `yaml:"db"`
	ExpTime  time.Duration `env-default:"10m"    yaml:"exp"`
}

type Session struct {
	Secret         string        `env:"SESSION_SECRET" env-required:"true" yaml:"secret"`
	CookieName     string        `env-default:"en_session" yaml:"cookieName"`
	RememberMaxAge time.Duration `env-default:"720h"       yaml:"rememberMaxAge"`
	Secure         bool          `yaml:"secure"`
}

type Recaptcha struct {
	Enabled   bool          `yaml:"enabled"`
	SiteKey   string        `env:"RECAPTCHA_SITE_KEY" yaml:"siteKey"`
	Secret    string        `env:"RECAPTCHA_SECRET"   yaml:"secret"`
	VerifyURL string        `env-default:"https://www.google.com/recaptcha/api/siteverify" yaml:"verifyURL"`
	MinScore  float64       `env-default:"0.5"        yaml:"minScore"`
	Timeout   time.Duration `env-default:"5s"         yaml:"timeout"`
}

type S3 struct {
	Endpoint  string `env:"S3_ENDPOINT"   yaml:"endpoint"`
	Region    string `env-default:"us-east-1" yaml:"region"`
	Bucket    string `env:"S3_BUCKET"     env-default:"notes-images" yaml:"bucket"`
	AccessKey string `env:"S3_ACCESS_KEY" yaml:"accessKey"`
	SecretKey string `env:"S3_SECRET_KEY" yaml:"secretKey"`
	PathStyle bool   `env-default:"true"  yaml:"pathStyle"`
}

type Pagination struct {
	PageSize      int `env-default:"20" yaml:"pageSize"`
	SiblingCount  int `env-default:"1"  yaml:"siblingCount"`
	BoundaryCount int `env-default:"1"  yaml:"boundaryCount"`
}

// New reads the YAML file at configPath and overlays environment variables.
// A .env file in the working directory, when present, is loaded first.
func New(configPath string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env error: %w", err)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return Config{}, fmt.Errorf("read config error: %w", err)
	}

	return cfg, nil
}
