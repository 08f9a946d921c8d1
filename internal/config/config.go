package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const defaultAuthGatewayURL = "https://demobackend.emergentagent.com/auth/v1/env/oauth/session-data"

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string

	DatabaseURL string

	AuthGatewayURL string
	FrontendURL    string
	CORSOrigins    []string
	CookieSecure   bool

	KafkaBrokers    []string
	KafkaOrderTopic string

	RedisURL string

	ESURL       string
	ESUser      string
	ESPassword  string
	ESMenuIndex string

	UploadDir      string
	UploadMaxBytes int64
	PublicURL      string
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "qr-menu"),
		ServerPort:  EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		AuthGatewayURL: EnvDefault("AUTH_GATEWAY_URL", defaultAuthGatewayURL),
		FrontendURL:    strings.TrimRight(EnvDefault("FRONTEND_URL", "http://localhost:3000"), "/"),
		CORSOrigins:    CSV(EnvDefault("CORS_ORIGINS", "*")),
		CookieSecure:   EnvBoolDefault("COOKIE_SECURE", true),

		KafkaBrokers:    CSV(os.Getenv("KAFKA_BROKERS")),
		KafkaOrderTopic: EnvDefault("KAFKA_ORDER_TOPIC", "order_events"),

		RedisURL: os.Getenv("REDIS_URL"),

		ESURL:       os.Getenv("ES_URL"),
		ESUser:      os.Getenv("ES_USER"),
		ESPassword:  os.Getenv("ES_PASSWORD"),
		ESMenuIndex: EnvDefault("ES_MENU_INDEX", "menu_items"),

		UploadDir:      EnvDefault("UPLOAD_DIR", "uploads"),
		UploadMaxBytes: int64(EnvIntDefault("UPLOAD_MAX_BYTES", 5<<20)),
		PublicURL:      strings.TrimRight(os.Getenv("PUBLIC_URL"), "/"),
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
