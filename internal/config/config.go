package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
// It is built once in main and treated as immutable afterwards; business logic
// never reads ambient environment state.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	JWTSecret string
	JWTExpiry time.Duration

	CookieDomain   string
	AllowedOrigins []string // CORS allowed origins

	SNSRegion        string
	ChallengeTTL     time.Duration
	ChallengeTimeout time.Duration

	// ReissueOnVerify controls what happens to the session after a successful
	// phone-verification check: true reissues a token with the new role, false
	// clears the cookie and forces a fresh login.
	ReissueOnVerify bool
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Accounts    string
	Credentials string
	Challenges  string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "4000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Accounts:    getEnv("DYNAMO_TABLE_ACCOUNTS", "accounts"),
			Credentials: getEnv("DYNAMO_TABLE_CREDENTIALS", "credentials"),
			Challenges:  getEnv("DYNAMO_TABLE_CHALLENGES", "challenges"),
		},

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTExpiry: time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 24)) * time.Hour,

		CookieDomain:   getEnv("COOKIE_DOMAIN", ""),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"), ","),

		SNSRegion:        getEnv("SNS_REGION", "us-east-1"),
		ChallengeTTL:     time.Duration(getEnvInt("CHALLENGE_TTL_MINUTES", 10)) * time.Minute,
		ChallengeTimeout: time.Duration(getEnvInt("CHALLENGE_TIMEOUT_SECONDS", 10)) * time.Second,

		ReissueOnVerify: getEnvBool("VERIFY_REISSUE_TOKEN", true),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
