package config

import (
	"strings"

	sharedauth "github.com/focusnest/user-sync/internal/platform/auth"
	"github.com/focusnest/user-sync/internal/platform/envconfig"
)

// DataStore enumerates supported persistence backends.
type DataStore string

const (
	// DataStoreMemory keeps users in-memory (local development and tests).
	DataStoreMemory DataStore = "memory"
	// DataStoreFirestore stores users in Google Cloud Firestore.
	DataStoreFirestore DataStore = "firestore"
	// DataStorePostgres stores users in PostgreSQL.
	DataStorePostgres DataStore = "postgres"
)

// Config encapsulates the runtime configuration of the user sync service.
// It is loaded once at startup and read-only afterwards.
type Config struct {
	Port         string    `validate:"required,numeric"`
	DataStore    DataStore `validate:"required,oneof=memory firestore postgres"`
	GCPProjectID string    `validate:"required_if=DataStore firestore"`
	DatabaseURL  string    `validate:"required_if=DataStore postgres"`
	Webhook      WebhookConfig
	Clerk        ClerkConfig
	Auth         AuthConfig
	Firestore    FirestoreConfig
}

// WebhookConfig holds the Svix endpoint signing secret.
type WebhookConfig struct {
	Secret string `validate:"required,startswith=whsec_"`
}

// ClerkConfig configures the Backend API client used for the metadata mirror.
// An empty SecretKey disables the mirror.
type ClerkConfig struct {
	APIURL    string `validate:"required,url"`
	SecretKey string
}

// AuthConfig stores authentication middleware setup.
type AuthConfig struct {
	Mode     sharedauth.Mode `validate:"required,oneof=clerk noop"`
	JWKSURL  string          `validate:"required_if=Mode clerk"`
	Audience string
	Issuer   string
}

// FirestoreConfig tailors Firestore client behavior.
type FirestoreConfig struct {
	EmulatorHost string
}

// Load reads environment variables (and an optional .env file) into Config with validation.
func Load() (Config, error) {
	envconfig.LoadDotenv()

	cfg := Config{
		Port:         envconfig.Get("PORT", "8080"),
		DataStore:    DataStore(strings.ToLower(envconfig.Get("DATASTORE", string(DataStoreMemory)))),
		GCPProjectID: envconfig.Get("GCP_PROJECT_ID", ""),
		DatabaseURL:  envconfig.Get("DATABASE_URL", ""),
		Webhook: WebhookConfig{
			Secret: envconfig.Get("CLERK_WEBHOOK_SECRET", ""),
		},
		Clerk: ClerkConfig{
			APIURL:    envconfig.Get("CLERK_API_URL", "https://api.clerk.com/v1"),
			SecretKey: envconfig.Get("CLERK_SECRET_KEY", ""),
		},
		Auth: AuthConfig{
			Mode:     sharedauth.Mode(strings.ToLower(envconfig.Get("AUTH_MODE", string(sharedauth.ModeNoop)))),
			JWKSURL:  envconfig.Get("CLERK_JWKS_URL", ""),
			Audience: envconfig.Get("CLERK_AUDIENCE", ""),
			Issuer:   envconfig.Get("CLERK_ISSUER", ""),
		},
		Firestore: FirestoreConfig{
			EmulatorHost: envconfig.Get("FIRESTORE_EMULATOR_HOST", ""),
		},
	}

	if err := envconfig.Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
