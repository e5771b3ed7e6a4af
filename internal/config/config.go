package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Blockchain BlockchainConfig
	Bounds     BoundsConfig
	Jobs       JobsConfig
}

// JobsConfig holds background job configuration
type JobsConfig struct {
	KeeperSweepInterval time.Duration
	KeeperBatchSize     int
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode + "&prepare_threshold=0"
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	PASSWORD string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// BlockchainConfig holds chain access configuration. KeeperPrivateKey signs
// keeper-driven charge transactions; KeeperAddress is recorded as the executor
// on charges the background job triggers.
type BlockchainConfig struct {
	RPCURL              string
	PaymentTokenAddress string
	KeeperPrivateKey    string
	KeeperAddress       string
	VerifierURL         string
	CallTimeout         time.Duration
}

// BoundsConfig holds the subscription term bounds enforced by subscribe and
// update. Amounts are wei strings; intervals are seconds. All bounds are
// inclusive.
type BoundsConfig struct {
	MinAmount   string
	MaxAmount   string
	MinInterval int64
	MaxInterval int64
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "zktipping"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			PASSWORD: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret:        getEnv("JWT_SECRET", "change-this-in-production"),
			AccessExpiry:  getEnvAsDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshExpiry: getEnvAsDuration("JWT_REFRESH_EXPIRY", 7*24*time.Hour),
		},
		Blockchain: BlockchainConfig{
			RPCURL:              getEnv("CHAIN_RPC_URL", "https://rpc.sepolia.mantle.xyz"),
			PaymentTokenAddress: getEnv("PAYMENT_TOKEN_ADDRESS", "0x09Bc4E0D864854c6aFB6eB9A9cdF58aC190D0dF9"),
			KeeperPrivateKey:    getEnv("KEEPER_PRIVATE_KEY", ""),
			KeeperAddress:       getEnv("KEEPER_ADDRESS", ""),
			VerifierURL:         getEnv("ZK_VERIFIER_URL", "http://localhost:9090/verify"),
			CallTimeout:         getEnvAsDuration("CHAIN_CALL_TIMEOUT", 30*time.Second),
		},
		Jobs: JobsConfig{
			KeeperSweepInterval: getEnvAsDuration("KEEPER_SWEEP_INTERVAL", 1*time.Minute),
			KeeperBatchSize:     getEnvAsInt("KEEPER_BATCH_SIZE", 100),
		},
		Bounds: BoundsConfig{
			MinAmount:   getEnv("MIN_AMOUNT", "1"),
			MaxAmount:   getEnv("MAX_AMOUNT", "1000000000000000000000000"),
			MinInterval: getEnvAsInt64("MIN_INTERVAL", 86400),
			MaxInterval: getEnvAsInt64("MAX_INTERVAL", 31536000),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
