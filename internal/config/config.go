package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoreLocal = "local"
	StoreMinio = "minio"
)

type Settings struct {
	ServerPort int

	ArtifactStore string
	ArtifactDir   string
	TempDir       string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	MinioBucket    string

	RedisAddr      string
	RedisPassword  string
	StatusCacheTTL time.Duration

	MariaDBDSN      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	WorkerConcurrency int
	MaxUploadSize     int64
	MaxPixels         int64
	ImageFormats      []string
	JPEGQuality       int
	WebPQuality       int

	JWTPublicKey string
}

func Load() (*Settings, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found; proceeding with OS environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetConfigFile(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		log.Printf("Warning: could not read .env file: %v", err)
	}

	v.SetDefault("ARTIFACT_STORE", StoreLocal)
	v.SetDefault("ARTIFACT_DIR", "files")
	v.SetDefault("STATUS_CACHE_TTL", 3600)
	v.SetDefault("MARIADB_MAX_OPEN_CONN", 10)
	v.SetDefault("MARIADB_MAX_IDLE_CONNS", 5)
	v.SetDefault("MARIADB_CONN_MAX_LIFETIME", 300)
	v.SetDefault("WORKER_CONCURRENCY", 10)
	v.SetDefault("MAX_UPLOAD_SIZE", 10<<20)
	v.SetDefault("MAX_PIXELS", 50_000_000)
	v.SetDefault("JPEG_QUALITY", 90)
	v.SetDefault("WEBP_QUALITY", 80)

	if !v.IsSet("SERVER_PORT") {
		return nil, fmt.Errorf("SERVER_PORT is required")
	}

	store := strings.ToLower(strings.TrimSpace(v.GetString("ARTIFACT_STORE")))
	switch store {
	case StoreLocal:
	case StoreMinio:
		for _, key := range []string{"MINIO_ENDPOINT", "MINIO_ACCESS_KEY", "MINIO_SECRET_KEY", "MINIO_BUCKET"} {
			if !v.IsSet(key) {
				return nil, fmt.Errorf("%s is required", key)
			}
		}
	default:
		return nil, fmt.Errorf("ARTIFACT_STORE must be %q or %q, got %q", StoreLocal, StoreMinio, store)
	}

	if n := v.GetInt("WORKER_CONCURRENCY"); n < 1 {
		return nil, fmt.Errorf("WORKER_CONCURRENCY must be at least 1, got %d", n)
	}
	if n := v.GetInt64("MAX_UPLOAD_SIZE"); n < 1 {
		return nil, fmt.Errorf("MAX_UPLOAD_SIZE must be positive, got %d", n)
	}
	if n := v.GetInt64("MAX_PIXELS"); n < 1 {
		return nil, fmt.Errorf("MAX_PIXELS must be positive, got %d", n)
	}
	if q := v.GetInt("JPEG_QUALITY"); q < 1 || q > 100 {
		return nil, fmt.Errorf("JPEG_QUALITY must be between 1 and 100, got %d", q)
	}
	if q := v.GetInt("WEBP_QUALITY"); q < 0 || q > 100 {
		return nil, fmt.Errorf("WEBP_QUALITY must be between 0 and 100, got %d", q)
	}

	return &Settings{
		ServerPort: v.GetInt("SERVER_PORT"),

		ArtifactStore: store,
		ArtifactDir:   v.GetString("ARTIFACT_DIR"),
		TempDir:       v.GetString("TEMP_DIR"),

		MinioEndpoint:  v.GetString("MINIO_ENDPOINT"),
		MinioAccessKey: v.GetString("MINIO_ACCESS_KEY"),
		MinioSecretKey: v.GetString("MINIO_SECRET_KEY"),
		MinioUseSSL:    v.GetBool("MINIO_USE_SSL"),
		MinioBucket:    v.GetString("MINIO_BUCKET"),

		RedisAddr:      v.GetString("REDIS_ADDR"),
		RedisPassword:  v.GetString("REDIS_PASSWORD"),
		StatusCacheTTL: time.Duration(v.GetInt("STATUS_CACHE_TTL")) * time.Second,

		MariaDBDSN:      v.GetString("MARIADB_DSN"),
		MaxOpenConns:    v.GetInt("MARIADB_MAX_OPEN_CONN"),
		MaxIdleConns:    v.GetInt("MARIADB_MAX_IDLE_CONNS"),
		ConnMaxLifetime: time.Duration(v.GetInt("MARIADB_CONN_MAX_LIFETIME")) * time.Second,

		WorkerConcurrency: v.GetInt("WORKER_CONCURRENCY"),
		MaxUploadSize:     v.GetInt64("MAX_UPLOAD_SIZE"),
		MaxPixels:         v.GetInt64("MAX_PIXELS"),
		ImageFormats:      splitList(v.GetString("IMAGE_FORMATS")),
		JPEGQuality:       v.GetInt("JPEG_QUALITY"),
		WebPQuality:       v.GetInt("WEBP_QUALITY"),

		JWTPublicKey: v.GetString("JWT_PUBLIC_KEY"),
	}, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
