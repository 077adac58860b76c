package config

import (
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/devmatch/internal/flagx"
	"github.com/joho/godotenv"
)

// Environment variables read by parseEnv.
const (
	EnvGRPCAddr        = "DEVMATCH_GRPC_ADDR"
	EnvHealthAddr      = "DEVMATCH_HEALTH_ADDR"
	EnvStorage         = "DEVMATCH_STORAGE"
	EnvDatabaseDSN     = "DATABASE_DSN"
	EnvMongoURI        = "MONGO_URI"
	EnvMongoDatabase   = "MONGO_DATABASE"
	EnvSecretKey       = "JWT_SECRET"
	EnvTokenValidity   = "JWT_VALIDITY"
	EnvLogBackend      = "LOG_BACKEND"
	EnvLogLevel        = "LOG_LEVEL"
	EnvS3RootUser      = "S3_ROOT_USER"
	EnvS3RootPassword  = "S3_ROOT_PASSWORD"
	EnvS3Bucket        = "S3_BUCKET"
	EnvS3Region        = "S3_REGION"
	EnvS3BaseEndpoint  = "S3_BASE_ENDPOINT"
	EnvS3PresignExpiry = "S3_PRESIGN_EXPIRY"
)

// parseEnv overlays the process environment onto config. When -env points
// at a dotenv file it must load; otherwise a ./.env file is loaded if present.
// godotenv never overrides variables that are already set.
func parseEnv(config *Config, args []string) error {
	if path := flagx.EnvFilePath(args); path != "" {
		if err := godotenv.Load(path); err != nil {
			return err
		}
	} else {
		_ = godotenv.Load()
	}

	config.EndpointAddrGRPC = getEnv(EnvGRPCAddr, config.EndpointAddrGRPC)
	config.HealthAddr = getEnv(EnvHealthAddr, config.HealthAddr)
	config.StorageBackend = getEnv(EnvStorage, config.StorageBackend)
	config.DatabaseDSN = getEnv(EnvDatabaseDSN, config.DatabaseDSN)
	config.MongoURI = getEnv(EnvMongoURI, config.MongoURI)
	config.MongoDatabase = getEnv(EnvMongoDatabase, config.MongoDatabase)
	config.SecretKey = getEnv(EnvSecretKey, config.SecretKey)
	config.LogBackend = getEnv(EnvLogBackend, config.LogBackend)
	config.LogLevel = getEnv(EnvLogLevel, config.LogLevel)
	config.S3RootUser = getEnv(EnvS3RootUser, config.S3RootUser)
	config.S3RootPassword = getEnv(EnvS3RootPassword, config.S3RootPassword)
	config.S3Bucket = getEnv(EnvS3Bucket, config.S3Bucket)
	config.S3Region = getEnv(EnvS3Region, config.S3Region)
	config.S3BaseEndpoint = getEnv(EnvS3BaseEndpoint, config.S3BaseEndpoint)

	var err error
	if config.AccessTokenValidityDuration, err = getEnvDuration(EnvTokenValidity, config.AccessTokenValidityDuration); err != nil {
		return err
	}
	if config.PresignExpiry, err = getEnvDuration(EnvS3PresignExpiry, config.PresignExpiry); err != nil {
		return err
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
