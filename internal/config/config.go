package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort  string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	JWTSecret   string
	SwaggerHost string
	Debug       bool
	BcryptCost  int
	Mail        MailConfig
	Uploads     UploadsConfig
	Policy      Policy
}

// MailConfig configures the SMTP mailer.
type MailConfig struct {
	Host      string
	Port      string
	User      string
	Password  string
	From      string
	SiteURL   string
	SiteTitle string
}

// UploadsConfig selects and configures the file store driver.
type UploadsConfig struct {
	Driver     string // "local" or "s3"
	LocalDir   string
	S3Bucket   string
	S3Region   string
	S3Endpoint string
	S3Key      string
	S3Secret   string
	S3Prefix   string
}

// Load builds Config from environment with sensible defaults.
// A .env file in the working directory is read first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		MySQLDSN:    getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/social?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:     getEnvInt("REDIS_DB", 0),
		RedisPass:   os.Getenv("REDIS_PASSWORD"),
		JWTSecret:   getEnv("JWT_SECRET", "change-me"),
		SwaggerHost: os.Getenv("SWAGGER_HOST"),
		Debug:       getEnvBool("DEBUG", false),
		BcryptCost:  getEnvInt("BCRYPT_COST", 10),
		Mail: MailConfig{
			Host:      getEnv("SMTP_HOST", "localhost"),
			Port:      getEnv("SMTP_PORT", "25"),
			User:      os.Getenv("SMTP_USER"),
			Password:  os.Getenv("SMTP_PASSWORD"),
			From:      getEnv("MAIL_FROM", "no-reply@localhost"),
			SiteURL:   getEnv("SITE_URL", "http://localhost:8080"),
			SiteTitle: getEnv("SITE_TITLE", "Social"),
		},
		Uploads: UploadsConfig{
			Driver:     getEnv("UPLOADS_DRIVER", "local"),
			LocalDir:   getEnv("UPLOADS_DIR", "./content"),
			S3Bucket:   os.Getenv("S3_BUCKET"),
			S3Region:   getEnv("S3_REGION", "us-east-1"),
			S3Endpoint: os.Getenv("S3_ENDPOINT"),
			S3Key:      os.Getenv("S3_ACCESS_KEY"),
			S3Secret:   os.Getenv("S3_SECRET_KEY"),
			S3Prefix:   os.Getenv("S3_PREFIX"),
		},
		Policy: loadPolicy(),
	}
}

func loadPolicy() Policy {
	p := DefaultPolicy()
	p.RegistrationEnabled = getEnvBool("REGISTRATION_ENABLED", p.RegistrationEnabled)
	p.ActivationEnabled = getEnvBool("ACTIVATION_ENABLED", p.ActivationEnabled)
	p.UsersApprovalEnabled = getEnvBool("USERS_APPROVAL_ENABLED", p.UsersApprovalEnabled)
	p.SpecialCharsEnabled = getEnvBool("SPECIAL_CHARACTERS_ENABLED", p.SpecialCharsEnabled)
	p.NameMinLength = getEnvInt("NAME_MIN_LENGTH", p.NameMinLength)
	p.PasswordComplexityEnabled = getEnvBool("PASSWORD_COMPLEXITY_ENABLED", p.PasswordComplexityEnabled)
	p.ReservedUsernamesEnabled = getEnvBool("RESERVED_USERNAMES_ENABLED", p.ReservedUsernamesEnabled)
	p.ReservedUsernames = getEnv("RESERVED_USERNAMES", p.ReservedUsernames)
	p.BruteForceEnabled = getEnvBool("BRUTE_FORCE_DETECTION_ENABLED", p.BruteForceEnabled)
	p.BruteForceBadLoginLimit = getEnvInt("BRUTE_FORCE_BAD_LOGIN_LIMIT", p.BruteForceBadLoginLimit)
	p.BruteForceLockoutTime = getEnvInt("BRUTE_FORCE_LOCKOUT_TIME", p.BruteForceLockoutTime)
	p.PackagesEnabled = getEnvBool("PACKAGES_ENABLED", p.PackagesEnabled)
	return p
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}
