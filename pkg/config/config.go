package config

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// New reads the configuration from the environment. Variables found in a .env file in the working
// directory are loaded first but never override variables already set in the environment.
func New() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env file: %v", err)
	}

	sameSiteMode, err := parseSameSiteMode(getEnv("SAME_SITE_MODE", "strict"))
	if err != nil {
		return Config{}, err
	}

	return Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		BasePath:    getEnv("BASE_PATH", ""),
		Hostname:    requireEnv("HOSTNAME"),
		UIURL:       requireEnv("UI_URL"),
		Postgresql: Postgresql{
			Host:         requireEnv("DATABASE_HOST"),
			Port:         requireEnvAsInt("DATABASE_PORT"),
			Username:     requireEnv("DATABASE_USERNAME"),
			Password:     requireEnv("DATABASE_PASSWORD"),
			DatabaseName: requireEnv("DATABASE_NAME"),
		},
		Redis: Redis{
			Host: requireEnv("REDIS_HOST"),
			Port: requireEnvAsInt("REDIS_PORT"),
		},
		Authentication: Authentication{
			SameSiteMode:                  sameSiteMode,
			PrivateKey:                    requireEnv("PRIVATE_KEY"),
			AccessTokenExpirationSeconds:  requireEnvAsInt("ACCESS_TOKEN_EXPIRATION_IN_SECONDS"),
			RefreshTokenSecretKey:         requireEnv("REFRESH_TOKEN_SECRET_KEY"),
			RefreshTokenExpirationSeconds: requireEnvAsInt("REFRESH_TOKEN_EXPIRATION_IN_SECONDS"),
		},
		S3: S3{
			Bucket:                   getEnv("S3_BUCKET", ""),
			Region:                   getEnv("S3_REGION", "eu-west-1"),
			Endpoint:                 getEnv("S3_ENDPOINT", ""),
			FeedURLExpirationSeconds: getEnvAsInt("FEED_URL_EXPIRATION_IN_SECONDS", 7*24*60*60),
		},
		SMTP: SMTP{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
		},
		RateLimit: RateLimit{
			RequestsPerSecond: getEnvAsFloat("RATE_LIMIT_REQUESTS_PER_SECOND", 1),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 5),
		},
		OccurrenceCacheTTLSeconds: getEnvAsInt("OCCURRENCE_CACHE_TTL_IN_SECONDS", 0),
		ReminderSchedule:          getEnv("REMINDER_SCHEDULE", "@every 1m"),
		JaegerCollectorURL:        getEnv("JAEGER_COLLECTOR_URL", ""),
	}, nil
}

type Config struct {
	Environment               string
	BasePath                  string
	Hostname                  string
	UIURL                     string
	Postgresql                Postgresql
	Redis                     Redis
	Authentication            Authentication
	S3                        S3
	SMTP                      SMTP
	RateLimit                 RateLimit
	OccurrenceCacheTTLSeconds int
	ReminderSchedule          string
	JaegerCollectorURL        string
}

type Postgresql struct {
	Host         string
	Port         int
	Username     string
	Password     string
	DatabaseName string
}

type Redis struct {
	Host string
	Port int
}

type Authentication struct {
	SameSiteMode                  http.SameSite
	PrivateKey                    string
	AccessTokenExpirationSeconds  int
	RefreshTokenSecretKey         string
	RefreshTokenExpirationSeconds int
}

// GetPrivateKey decodes the PEM encoded RSA private key. Both PKCS#1 and PKCS#8 are supported.
func (a Authentication) GetPrivateKey() (*rsa.PrivateKey, error) {
	decode, _ := pem.Decode([]byte(a.PrivateKey))
	if decode == nil {
		return nil, errors.New("failed to decode private key")
	}

	if key, err := x509.ParsePKCS1PrivateKey(decode.Bytes); err == nil {
		return key, nil
	}

	parsed, err := x509.ParsePKCS8PrivateKey(decode.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %v", err)
	}

	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("private key is of type %T, want RSA", parsed)
	}
	return key, nil
}

type S3 struct {
	Bucket                   string
	Region                   string
	Endpoint                 string
	FeedURLExpirationSeconds int
}

// Enabled reports whether calendar feeds can be published.
func (s S3) Enabled() bool {
	return s.Bucket != ""
}

type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
}

// Enabled reports whether reminder emails can be sent.
func (s SMTP) Enabled() bool {
	return s.Host != ""
}

type RateLimit struct {
	RequestsPerSecond float64
	Burst             int
}

func parseSameSiteMode(mode string) (http.SameSite, error) {
	switch strings.ToLower(mode) {
	case "lax":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	default:
		return 0, fmt.Errorf("failed to parse SAME_SITE_MODE %q, want one of lax, strict or none", mode)
	}
}

func requireEnv(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		log.Fatalf("Can't find environment variable: %s\n", key)
	}
	return value
}

func requireEnvAsInt(key string) int {
	valueStr := requireEnv(key)
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("Can't parse value as integer: %s", err.Error())
	}
	return value
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("Can't parse %s as integer: %s", key, err.Error())
	}
	return value
}

func getEnvAsFloat(key string, fallback float64) float64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Fatalf("Can't parse %s as float: %s", key, err.Error())
	}
	return value
}
