package config

import (
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures service level configuration loaded from config.yaml.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	CORS     CORSConfig     `yaml:"cors"`
	Upload   UploadConfig   `yaml:"upload"`
	Redis    RedisConfig    `yaml:"redis"`
	Storage  StorageConfig  `yaml:"storage"`
	Worker   WorkerConfig   `yaml:"worker"`
	Credits  CreditsConfig  `yaml:"credits"`
}

// RedisConfig defines Redis connection settings for the URL cache and the
// per-task callback lock.
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// CORSConfig defines CORS middleware settings.
type CORSConfig struct {
	AllowOrigin      string `yaml:"allow_origin"`
	AllowMethods     string `yaml:"allow_methods"`
	AllowHeaders     string `yaml:"allow_headers"`
	AllowCredentials bool   `yaml:"allow_credentials"`
}

// UploadConfig defines file upload constraints.
type UploadConfig struct {
	MaxSize      int64    `yaml:"max_size"`
	AllowedTypes []string `yaml:"allowed_types"`
}

// ServerConfig defines HTTP server options.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// DatabaseConfig defines the database backend configuration.
type DatabaseConfig struct {
	Driver   string         `yaml:"driver"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	MySQL    MySQLConfig    `yaml:"mysql"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// SQLiteConfig contains SQLite specific settings.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// MySQLConfig contains MySQL specific connection details.
type MySQLConfig struct {
	DSN string `yaml:"dsn"`
}

// PostgresConfig contains PostgreSQL specific connection details.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// StorageConfig defines the object store backend and the two logical buckets:
// a private bucket for authoritative media and a public bucket for covers.
type StorageConfig struct {
	Backend       string        `yaml:"backend"` // "local" or "s3"
	PrivateBucket string        `yaml:"private_bucket"`
	PublicBucket  string        `yaml:"public_bucket"`
	PublicBaseURL string        `yaml:"public_base_url"`
	PresignExpiry Duration      `yaml:"presign_expiry"`
	URLCacheTTL   Duration      `yaml:"url_cache_ttl"`
	Local         LocalStorage  `yaml:"local"`
	S3            S3Storage     `yaml:"s3"`
}

// LocalStorage holds filesystem storage settings.
type LocalStorage struct {
	BasePath string `yaml:"base_path"`
}

// S3Storage holds S3-compatible storage settings (AWS S3, Cloudflare R2, MinIO).
type S3Storage struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	PathStyle bool   `yaml:"path_style"`
}

// WorkerConfig defines the external generation worker endpoint.
type WorkerConfig struct {
	BaseURL string   `yaml:"base_url"`
	Timeout Duration `yaml:"timeout"`
}

// CreditsConfig defines the per-type cost of a generation task.
type CreditsConfig struct {
	ImageCost int64 `yaml:"image_cost"`
	VideoCost int64 `yaml:"video_cost"`
}

// Load reads a YAML configuration file from the provided path.
// It searches in the current working directory first, then next to the binary executable.
func Load(name string) (*Config, error) {
	cfg := defaultConfig()

	configPath := findConfigFile(name)
	if configPath == "" {
		log.Printf("Warning: config file %q not found, using defaults", name)
		return cfg, nil
	}

	log.Printf("Loading config from: %s", configPath)
	f, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = f.Close() }()

	var parsed Config
	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	applyDefaults(&parsed)
	return &parsed, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Address: ":8080",
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			SQLite: SQLiteConfig{
				Path: "data/media_vault.db",
			},
		},
		CORS: CORSConfig{
			AllowOrigin:      "*",
			AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
			AllowHeaders:     "*",
			AllowCredentials: false,
		},
		Upload: UploadConfig{
			MaxSize: 20 * 1024 * 1024, // 20MB
			AllowedTypes: []string{
				"image/jpeg",
				"image/png",
				"image/gif",
				"image/webp",
			},
		},
		Storage: StorageConfig{
			Backend:       "local",
			PrivateBucket: "media",
			PublicBucket:  "covers",
			PublicBaseURL: "http://localhost:8080/covers",
			PresignExpiry: Duration(time.Hour),
			// Cached URLs must expire before the signature does, so a cache
			// hit can never serve a dead link.
			URLCacheTTL: Duration(50 * time.Minute),
			Local: LocalStorage{
				BasePath: "data/objects",
			},
			S3: S3Storage{
				Region: "auto",
			},
		},
		Worker: WorkerConfig{
			BaseURL: "http://localhost:3000",
			Timeout: Duration(30 * time.Second),
		},
		Credits: CreditsConfig{
			ImageCost: 1,
			VideoCost: 5,
		},
	}
}

func applyDefaults(cfg *Config) {
	def := defaultConfig()
	if cfg.Server.Address == "" {
		cfg.Server.Address = def.Server.Address
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = def.Database.Driver
	}
	if cfg.Database.SQLite.Path == "" {
		cfg.Database.SQLite.Path = def.Database.SQLite.Path
	}
	if cfg.CORS.AllowOrigin == "" {
		cfg.CORS.AllowOrigin = def.CORS.AllowOrigin
	}
	if cfg.CORS.AllowMethods == "" {
		cfg.CORS.AllowMethods = def.CORS.AllowMethods
	}
	if cfg.CORS.AllowHeaders == "" {
		cfg.CORS.AllowHeaders = def.CORS.AllowHeaders
	}
	if cfg.Upload.MaxSize <= 0 {
		cfg.Upload.MaxSize = def.Upload.MaxSize
	}
	if len(cfg.Upload.AllowedTypes) == 0 {
		cfg.Upload.AllowedTypes = def.Upload.AllowedTypes
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = def.Storage.Backend
	}
	if cfg.Storage.PrivateBucket == "" {
		cfg.Storage.PrivateBucket = def.Storage.PrivateBucket
	}
	if cfg.Storage.PublicBucket == "" {
		cfg.Storage.PublicBucket = def.Storage.PublicBucket
	}
	if cfg.Storage.PublicBaseURL == "" {
		cfg.Storage.PublicBaseURL = def.Storage.PublicBaseURL
	}
	if cfg.Storage.PresignExpiry <= 0 {
		cfg.Storage.PresignExpiry = def.Storage.PresignExpiry
	}
	if cfg.Storage.URLCacheTTL <= 0 || cfg.Storage.URLCacheTTL >= cfg.Storage.PresignExpiry {
		cfg.Storage.URLCacheTTL = cfg.Storage.PresignExpiry * 5 / 6
	}
	if cfg.Storage.Local.BasePath == "" {
		cfg.Storage.Local.BasePath = def.Storage.Local.BasePath
	}
	if cfg.Storage.S3.Region == "" {
		cfg.Storage.S3.Region = def.Storage.S3.Region
	}
	if cfg.Worker.BaseURL == "" {
		cfg.Worker.BaseURL = def.Worker.BaseURL
	}
	if cfg.Worker.Timeout <= 0 {
		cfg.Worker.Timeout = def.Worker.Timeout
	}
	if cfg.Credits.ImageCost <= 0 {
		cfg.Credits.ImageCost = def.Credits.ImageCost
	}
	if cfg.Credits.VideoCost <= 0 {
		cfg.Credits.VideoCost = def.Credits.VideoCost
	}
}

// findConfigFile looks for the configuration file in the working directory
// first, then next to the binary.
func findConfigFile(name string) string {
	if name == "" {
		name = "config.yaml"
	}
	if _, err := os.Stat(name); err == nil {
		return name
	}
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	candidate := path.Join(filepath.Dir(exe), name)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return ""
}
