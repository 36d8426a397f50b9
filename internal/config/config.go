package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

// DefaultJWTSecret is the insecure development fallback. Validate rejects it in prod.
const DefaultJWTSecret = "your_jwt_secret"

type Config struct {
	Port string

	DBHost string
	DBPort string
	DBName string
	DBUser string
	DBPass string

	// DBMaxOpenConns is the maximum number of open connections to the database (default 25).
	DBMaxOpenConns int
	// DBMaxIdleConns is the maximum number of idle connections (default 5).
	DBMaxIdleConns int

	JWTSecret string

	// JWTExpireMinutes is the token lifetime in minutes (default 60). Set via JWT_EXPIRE_MINUTES.
	JWTExpireMinutes int

	// Env is "dev" (default) or "prod". When "prod", JWT_SECRET must be set and not the default.
	Env string

	// SMTPHost and SMTPPort locate the outbound mail server.
	SMTPHost string
	SMTPPort int
	// MailUser and MailPass are the outbound mail account credentials (EMAIL / PASSWORD).
	MailUser string
	MailPass string
	// MailFrom is the From address on referral mail. Defaults to MailUser.
	MailFrom string

	// MailEnabled turns off outbound mail entirely when false (MAIL_ENABLED=false).
	// Intended for local development without an SMTP account.
	MailEnabled bool

	// MailFailureFatal controls what the referral endpoint does when the referral
	// row was inserted but the mail send failed: false (default) logs the failure
	// and still reports success; true returns 500 to the client. The row persists
	// either way.
	MailFailureFatal bool

	// TLSCertFile and TLSKeyFile enable HTTPS when both are set.
	// When empty, the API listens with plain HTTP.
	TLSCertFile string
	TLSKeyFile  string

	// LogFormat is "text" (default) or "json" for structured logging.
	LogFormat string

	// CORSAllowedOrigins is a list of origins allowed for CORS (e.g. https://app.example.com, http://localhost:3000).
	// Set via CORS_ALLOWED_ORIGINS (comma-separated). When empty, no CORS headers are sent (same-origin only).
	CORSAllowedOrigins []string
}

func Load() Config {
	mailUser := getEnv("EMAIL", "")
	return Config{
		Port: getEnv("PORT", "5000"),

		DBHost: getEnv("DB_HOST", "localhost"),
		DBPort: getEnv("DB_PORT", "5432"),
		DBName: getEnv("DB_NAME", "referraldb"),
		DBUser: getEnv("DB_USER", "referraluser"),
		DBPass: getEnv("DB_PASS", "referralpass"),

		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),

		JWTSecret:        getEnv("JWT_SECRET", DefaultJWTSecret),
		JWTExpireMinutes: getEnvInt("JWT_EXPIRE_MINUTES", 60),
		Env:              getEnv("ENV", "dev"),

		SMTPHost: getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort: getEnvInt("SMTP_PORT", 587),
		MailUser: mailUser,
		MailPass: getEnv("PASSWORD", ""),
		MailFrom: getEnv("MAIL_FROM", mailUser),

		MailEnabled:      getEnvBool("MAIL_ENABLED", true),
		MailFailureFatal: getEnvBool("MAIL_FAILURE_FATAL", false),

		TLSCertFile: getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:  getEnv("TLS_KEY_FILE", ""),

		LogFormat: getEnv("LOG_FORMAT", "text"),

		CORSAllowedOrigins: parseCORSOrigins(getEnv("CORS_ALLOWED_ORIGINS", "")),
	}
}

// Validate checks required settings at startup so a misconfigured server fails
// fast instead of issuing unverifiable tokens or dropping every mail.
func (c Config) Validate() error {
	if c.Env == "prod" && (c.JWTSecret == "" || c.JWTSecret == DefaultJWTSecret) {
		return errors.New("JWT_SECRET must be set to a non-default value when ENV=prod")
	}
	if c.MailEnabled && (c.MailUser == "" || c.MailPass == "") {
		return errors.New("EMAIL and PASSWORD must be set when mail is enabled (or set MAIL_ENABLED=false)")
	}
	if c.JWTExpireMinutes <= 0 {
		return errors.New("JWT_EXPIRE_MINUTES must be positive")
	}
	return nil
}

// parseCORSOrigins splits a comma-separated list of origins and trims spaces. Empty strings are omitted.
func parseCORSOrigins(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if o := strings.TrimSpace(p); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
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

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
