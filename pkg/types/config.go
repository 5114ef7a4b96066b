package types

type StoreBackend string

const (
	StoreBackendFirestore StoreBackend = "firestore"
	StoreBackendPostgres  StoreBackend = "postgres"
	StoreBackendMemory    StoreBackend = "memory"
)

type Config struct {
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel        string `envconfig:"LOG_LEVEL" default:"info"`
	ServerPort      uint   `envconfig:"PORT" default:"5000"`
	ClientOrigin    string `envconfig:"CLIENT_ORIGIN" default:"http://localhost:3000"`
	ReadTimeoutSec  uint   `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"15"`

	StoreBackend     StoreBackend `envconfig:"STORE_BACKEND" default:"firestore"`
	SubscribePollSec uint         `envconfig:"SUBSCRIBE_POLL_SEC" default:"5"`

	// Firestore
	FirebaseProjectID       string `envconfig:"FIREBASE_PROJECT_ID"`
	FirebaseServiceAccount  string `envconfig:"FIREBASE_SERVICE_ACCOUNT"`
	FirebaseCredentialsFile string `envconfig:"FIREBASE_CREDENTIALS_FILE" default:"serviceAccountKey.json"`

	// Filled in by loadConfig from the blob or the file above
	FirebaseCredentials []byte `ignored:"true"`

	// Postgres
	DatabaseURL string `envconfig:"DATABASE_URL"`

	// Cognito Auth
	CognitoClientID  string `envconfig:"COGNITO_CLIENT_ID"`
	CognitoIssuerURL string `envconfig:"COGNITO_ISSUER_URL"`

	// Auth Configuration
	CookieName       string `envconfig:"SESSION_COOKIE_NAME" default:"session_id"`
	SessionMaxAgeSec int    `envconfig:"SESSION_MAX_AGE_SEC" default:"3600"`

	// Cookie encryption keys (base64 encoded)
	// openssl rand -base64 32
	// to generate values
	CookieHashKey  string `envconfig:"COOKIE_HASH_KEY"`  // 32 or 64 bytes
	CookieBlockKey string `envconfig:"COOKIE_BLOCK_KEY"` // 16, 24, or 32 bytes

	// Stats export
	ExportBucket string `envconfig:"EXPORT_BUCKET"`
	ExportPrefix string `envconfig:"EXPORT_PREFIX" default:"stats/"`
}

func (c *Config) JWKSURL() string {
	if c.CognitoIssuerURL == "" {
		return ""
	}
	return c.CognitoIssuerURL + "/.well-known/jwks.json"
}
