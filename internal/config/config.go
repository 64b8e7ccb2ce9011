package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultPort        = "3000"
	defaultNetwork     = "arc-testnet"
	defaultPrice       = "$0.10"
	defaultRegion      = "us-central1"
	defaultVertexModel = "gemini-2.5-flash"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string

	ProjectID   string
	Region      string
	VertexModel string
	GeminiKey   string

	ThirdwebSecretKey string
	ThirdwebBaseURL   string
	ServerWallet      string
	Network           string
	Price             string
	Asset             string

	CircleAPIKey       string
	CircleEntitySecret string
	CircleBaseURL      string

	KMSKeyName        string
	FirestoreDatabase string
}

// New loads a local .env file when one exists and reads the process
// environment. Values already set in the environment are never overridden.
func New() *Config {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

func FromEnv(getenv func(string) string) *Config {
	return &Config{
		Port:        valueOr(getenv("PORT"), defaultPort),
		Environment: strings.ToLower(getenv("ENVIRONMENT")),
		LogLevel:    getenv("LOGLEVEL"),

		ProjectID:   getenv("PROJECTID"),
		Region:      valueOr(getenv("REGION"), defaultRegion),
		VertexModel: valueOr(getenv("VERTEXMODEL"), defaultVertexModel),
		GeminiKey:   getenv("GEMINI_API_KEY"),

		ThirdwebSecretKey: getenv("THIRDWEB_SECRET_KEY"),
		ThirdwebBaseURL:   getenv("THIRDWEB_BASE_URL"),
		ServerWallet:      getenv("SERVER_WALLET_ADDRESS"),
		Network:           valueOr(getenv("NETWORK"), defaultNetwork),
		Price:             valueOr(getenv("X402_PRICE"), defaultPrice),
		Asset:             getenv("X402_ASSET"),

		CircleAPIKey:       getenv("CIRCLE_API_KEY"),
		CircleEntitySecret: getenv("CIRCLE_ENTITY_SECRET"),
		CircleBaseURL:      getenv("CIRCLE_BASE_URL"),

		KMSKeyName:        getenv("KMSKEYNAME"),
		FirestoreDatabase: getenv("FIRESTOREDATABASE"),
	}
}

// Development reports whether error bodies may carry stack traces.
func (c *Config) Development() bool {
	return c.Environment == "development"
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

func valueOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
