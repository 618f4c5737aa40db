package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/tnp/pkg/cryptox"
	"github.com/joho/godotenv"
)

type Config struct {
	JWTSecret                string        // Required outside dev: HS256 signing secret (AUTH_JWT_SECRET)
	Issuer                   string        // Optional: iss claim (default: tnp-portal)
	TokenTTL                 time.Duration // Optional: access token lifetime, 0 never expires (default: 24h)
	BcryptCost               int           // Optional: bcrypt cost for every hash (default: 12)
	MinPasswordLength        int           // Optional: shortest accepted password (default: 8)
	RevealUnknownIdentifier  bool          // Optional: answer 404 for unknown identifiers on login (default: false)
	AdminToken               string        // Optional: enables bulk provisioning when set
	ProvisionPasswordLength  int           // Optional: generated password length (default: 12)
	ProvisionPasswordCharset string        // Optional: generated password alphabet

	DatabaseDriver string // sqlite or postgres (default: sqlite)
	DatabaseDSN    string // Optional for sqlite (default: file:portal.db)

	BlobDriver     string // s3 or memory (default: memory)
	S3Bucket       string
	S3Region       string
	S3AccessKey    string
	S3SecretKey    string
	S3Endpoint     string // Optional: MinIO / R2 endpoint
	S3UsePathStyle bool
	S3CreateBucket bool   // Optional: create the bucket at startup (local MinIO)
	PublicBaseURL  string // Prefix of every media URL (default: http://localhost:<port>)

	MailDriver      string // brevo or log (default: log)
	BrevoAPIKey     string
	MailSenderName  string
	MailSenderEmail string
	MailTimeout     time.Duration

	CORSOrigins []string // Optional: comma separated, "*" allows any (default: *)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	loadEnvFile(getEnvOrDefault("ENV_FILE", ".env"))

	cfg := Config{
		JWTSecret:                os.Getenv("AUTH_JWT_SECRET"),
		Issuer:                   getEnvOrDefault("AUTH_ISSUER", "tnp-portal"),
		TokenTTL:                 getEnvDurationOrDefault("AUTH_TOKEN_TTL", 24*time.Hour),
		BcryptCost:               getEnvIntOrDefault("AUTH_BCRYPT_COST", cryptox.DefaultCost),
		MinPasswordLength:        getEnvIntOrDefault("AUTH_MIN_PASSWORD_LENGTH", 8),
		RevealUnknownIdentifier:  getEnvBoolOrDefault("AUTH_REVEAL_UNKNOWN_IDENTIFIER", false),
		AdminToken:               os.Getenv("ADMIN_TOKEN"),
		ProvisionPasswordLength:  getEnvIntOrDefault("PROVISION_PASSWORD_LENGTH", cryptox.DefaultPasswordLength),
		ProvisionPasswordCharset: getEnvOrDefault("PROVISION_PASSWORD_ALPHABET", cryptox.DefaultPasswordCharset),

		DatabaseDriver: getEnvOrDefault("DB_DRIVER", "sqlite"),
		DatabaseDSN:    os.Getenv("DB_DSN"),

		BlobDriver:     getEnvOrDefault("BLOB_DRIVER", "memory"),
		S3Bucket:       os.Getenv("S3_BUCKET"),
		S3Region:       getEnvOrDefault("S3_REGION", "us-east-1"),
		S3AccessKey:    os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:    os.Getenv("S3_SECRET_KEY"),
		S3Endpoint:     os.Getenv("S3_ENDPOINT"),
		S3UsePathStyle: getEnvBoolOrDefault("S3_USE_PATH_STYLE", false),
		S3CreateBucket: getEnvBoolOrDefault("S3_CREATE_BUCKET", false),
		PublicBaseURL:  os.Getenv("PUBLIC_BASE_URL"),

		MailDriver:      getEnvOrDefault("MAIL_DRIVER", "log"),
		BrevoAPIKey:     os.Getenv("BREVO_API_KEY"),
		MailSenderName:  getEnvOrDefault("MAIL_SENDER_NAME", "TnP Team"),
		MailSenderEmail: os.Getenv("MAIL_SENDER_EMAIL"),
		MailTimeout:     getEnvDurationOrDefault("MAIL_TIMEOUT", 10*time.Second),

		CORSOrigins: splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	if cfg.DatabaseDSN == "" && cfg.DatabaseDriver == "sqlite" {
		cfg.DatabaseDSN = "file:portal.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	if cfg.PublicBaseURL == "" {
		cfg.PublicBaseURL = fmt.Sprintf("http://localhost:%d", cfg.Port)
	}

	return cfg
}

// Validate reports every missing or inconsistent setting at once.
func (c Config) Validate() error {
	var errs []error

	if c.JWTSecret == "" && c.Env != "dev" {
		errs = append(errs, errors.New("AUTH_JWT_SECRET is required outside dev"))
	}
	if c.TokenTTL < 0 {
		errs = append(errs, errors.New("AUTH_TOKEN_TTL must not be negative"))
	}
	if c.MinPasswordLength < 1 {
		errs = append(errs, errors.New("AUTH_MIN_PASSWORD_LENGTH must be positive"))
	}
	if c.ProvisionPasswordLength < 1 {
		errs = append(errs, errors.New("PROVISION_PASSWORD_LENGTH must be positive"))
	}

	switch c.DatabaseDriver {
	case "sqlite":
	case "postgres":
		if c.DatabaseDSN == "" {
			errs = append(errs, errors.New("DB_DSN is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown DB_DRIVER %q", c.DatabaseDriver))
	}

	switch c.BlobDriver {
	case "memory":
	case "s3":
		if c.S3Bucket == "" {
			errs = append(errs, errors.New("S3_BUCKET is required for the s3 blob driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown BLOB_DRIVER %q", c.BlobDriver))
	}

	switch c.MailDriver {
	case "log":
	case "brevo":
		if c.BrevoAPIKey == "" {
			errs = append(errs, errors.New("BREVO_API_KEY is required for the brevo mail driver"))
		}
		if c.MailSenderEmail == "" {
			errs = append(errs, errors.New("MAIL_SENDER_EMAIL is required for the brevo mail driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown MAIL_DRIVER %q", c.MailDriver))
	}

	return errors.Join(errs...)
}

// loadEnvFile fills unset variables from a dotenv file. Variables already
// present in the environment win. A missing file is not an error.
func loadEnvFile(path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := godotenv.Load(path); err != nil {
		fmt.Fprintf(os.Stderr, "ignoring env file %s: %v\n", path, err)
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
