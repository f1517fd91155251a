package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StorageLocal = "local"
	StorageMinIO = "minio"
)

type DB struct {
	DbHOST         string
	DbPORT         string
	DbUSER         string
	DbPASSWORD     string
	DbNAME         string
	DbSSLMODE      string
	MigrationsPath string
}

type MinIO struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	BucketName string
	UseSSL     bool
	Region     string
}

type Storage struct {
	Backend   string
	UploadDir string
	MinIO     MinIO
}

type Config struct {
	ServerPort       int
	DB               DB
	Storage          Storage
	JWTSecret        string
	BcryptCost       int
	MaxThumbnailSize int64
	MaxAvatarSize    int64
	LogLevel         slog.Level
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}

func parseLogLevel(value string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(value))); err != nil {
		return slog.LevelInfo
	}
	return level
}

func LoadDB() DB {
	return DB{
		DbHOST:         getEnv("DB_HOST", "localhost"),
		DbPORT:         getEnv("DB_PORT", "5432"),
		DbUSER:         getEnv("DB_USER", "postgres"),
		DbPASSWORD:     getEnv("DB_PASSWORD", "password"),
		DbNAME:         getEnv("DB_NAME", "blog"),
		DbSSLMODE:      getEnv("DB_SSLMODE", "disable"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations/001_create_tables.sql"),
	}
}

func LoadStorage() Storage {
	return Storage{
		Backend:   strings.ToLower(getEnv("STORAGE_BACKEND", StorageLocal)),
		UploadDir: getEnv("UPLOAD_DIR", "uploads"),
		MinIO: MinIO{
			Endpoint:   getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey:  getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey:  getEnv("MINIO_SECRET_KEY", "minioadmin"),
			BucketName: getEnv("MINIO_BUCKET_NAME", "uploads"),
			UseSSL:     getEnvBool("MINIO_USE_SSL", false),
			Region:     getEnv("MINIO_REGION", "us-east-1"),
		},
	}
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		slog.Info(".env file not found, using environment variables")
	}

	return &Config{
		ServerPort:       getEnvAsInt("SERVER_PORT", 8080),
		DB:               LoadDB(),
		Storage:          LoadStorage(),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		BcryptCost:       getEnvAsInt("BCRYPT_COST", 10),
		MaxThumbnailSize: getEnvAsInt64("MAX_THUMBNAIL_SIZE", 2000000),
		MaxAvatarSize:    getEnvAsInt64("MAX_AVATAR_SIZE", 500000),
		LogLevel:         parseLogLevel(getEnv("LOG_LEVEL", "info")),
	}
}
