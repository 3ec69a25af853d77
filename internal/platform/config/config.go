package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string

	DatabaseURL string
	Redis       RedisConfig

	KafkaBrokers      []string
	KafkaCommandTopic string

	WorkingDayServiceURL string
	DocumentServiceURL   string
	OperationInfoURL     string
}

// RedisConfig captures Redis connection settings.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// WorkingDayCacheTTL bounds staleness of cached working-day answers. Operation
// calendars change rarely; an hour keeps the oracle off the hot path.
var WorkingDayCacheTTL = time.Hour

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("SGPREP_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	topic := os.Getenv("KAFKA_COMMAND_TOPIC")
	if topic == "" {
		topic = "sgprep.commands"
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		brokers = strings.Split(raw, ",")
	}

	return Server{
		Addr:          addr,
		JWTSigningKey: jwtSigningKey,
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		KafkaBrokers:         brokers,
		KafkaCommandTopic:    topic,
		WorkingDayServiceURL: os.Getenv("WORKING_DAY_SERVICE_URL"),
		DocumentServiceURL:   os.Getenv("DOCUMENT_SERVICE_URL"),
		OperationInfoURL:     os.Getenv("OPERATION_INFO_URL"),
	}
}
