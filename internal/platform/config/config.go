package config

import (
	"os"
	"time"
)

// Server captures process-level configuration so main stays lean.
type Server struct {
	Addr       string
	AdminToken string

	// JWT settings for login-issued access tokens.
	JWTSigningKey string
	JWTIssuer     string
	TokenTTL      time.Duration

	Ledger    Ledger
	Assistant Assistant

	// PostgresDSN selects the Postgres-backed stores when non-empty; the
	// in-memory stores are used otherwise.
	PostgresDSN string
	Redis       RedisConfig

	// InstitutionsPath and PendingPath select the file-backed institution
	// stores when non-empty.
	InstitutionsPath string
	PendingPath      string
}

// Ledger configures the certificate registry chain client.
type Ledger struct {
	RPCURL          string
	ContractAddress string
	FromAddress     string
	RequestTimeout  time.Duration
}

// Assistant configures the AI question-answering collaborator.
type Assistant struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// RedisConfig configures the optional Redis-backed log store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	addr := os.Getenv("CERTLEDGER_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	adminToken := os.Getenv("ADMIN_TOKEN")
	if adminToken == "" {
		adminToken = "dev-admin-token"
	}

	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-3.5-turbo"
	}
	assistantBase := os.Getenv("OPENAI_BASE_URL")
	if assistantBase == "" {
		assistantBase = "https://api.openai.com/v1"
	}

	return Server{
		Addr:          addr,
		AdminToken:    adminToken,
		JWTSigningKey: jwtSigningKey,
		JWTIssuer:     "certledger",
		TokenTTL:      time.Hour,
		Ledger: Ledger{
			RPCURL:          os.Getenv("LEDGER_RPC_URL"),
			ContractAddress: os.Getenv("LEDGER_CONTRACT_ADDRESS"),
			FromAddress:     os.Getenv("LEDGER_FROM_ADDRESS"),
			RequestTimeout:  10 * time.Second,
		},
		Assistant: Assistant{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			BaseURL: assistantBase,
			Model:   model,
			Timeout: 30 * time.Second,
		},
		PostgresDSN: os.Getenv("POSTGRES_DSN"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		InstitutionsPath: os.Getenv("INSTITUTIONS_PATH"),
		PendingPath:      os.Getenv("PENDING_INSTITUTIONS_PATH"),
	}
}
