package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultAppName        = "TriGate"
	defaultAppEnv         = "development"
	defaultPort           = "8080"
	defaultLogLevel       = "info"
	defaultLogFormat      = "json"
	defaultShutdownDelay  = 10 * time.Second
	defaultIdempotencyTTL = 24 * time.Hour
	defaultJWTIssuer      = "trigate"
	defaultAccessTTL      = 30 * time.Minute
	defaultOTPLength      = 6
	defaultOTPTTL         = 300 * time.Second
	defaultOTPHashCost    = 10
	defaultOTPRetention   = time.Hour
	defaultFaceTolerance  = 0.6
	defaultSMTPPort       = 587
	defaultFromName       = "TriGate"
	defaultBcryptCost     = 12

	// devJWTSecret is only accepted when APP_ENV is a development environment.
	devJWTSecret = "dev-secret-key-change-in-production"
)

// OTP store backends.
const (
	OTPStorePostgres = "postgres"
	OTPStoreRedis    = "redis"
	OTPStoreMemory   = "memory"
)

// Config captures application runtime configuration loaded from the
// environment and an optional .env file.
type Config struct {
	AppName        string
	AppEnv         string
	Port           string
	LogLevel       string
	LogFormat      string
	DatabaseURL    string
	RedisURL       string
	ShutdownPeriod time.Duration
	IdempotencyTTL time.Duration

	JWTSecret      string
	JWTIssuer      string
	AccessTokenTTL time.Duration

	OTPLength    int
	OTPTTL       time.Duration
	OTPHashCost  int
	OTPStore     string
	OTPRetention time.Duration

	FaceTolerance       float64
	FaceExtractorURL    string
	BiometricSimulation bool

	MSG91AuthKey    string
	MSG91TemplateID string
	MSG91SenderID   string
	MSG91BaseURL    string
	SMTPHost        string
	SMTPPort        int
	SMTPUser        string
	SMTPPassword    string
	FromEmail       string
	FromName        string
	DeliveryDevMode bool

	EmailBootstrapEnabled bool
	BcryptCost            int
}

// Load reads .env (if present) and the process environment and returns a
// validated Config. Environment variables override values from .env.
func Load() (Config, error) {
	return load(true)
}

// LoadAdmin is Load for the administrative commands (migrate, seed), which
// never match faces and so do not require biometric settings.
func LoadAdmin() (Config, error) {
	return load(false)
}

func load(serving bool) (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // a missing .env is fine
	v.AutomaticEnv()

	v.SetDefault("APP_NAME", defaultAppName)
	v.SetDefault("APP_ENV", defaultAppEnv)
	v.SetDefault("PORT", defaultPort)
	v.SetDefault("LOG_LEVEL", defaultLogLevel)
	v.SetDefault("LOG_FORMAT", defaultLogFormat)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ISSUER", defaultJWTIssuer)
	v.SetDefault("OTP_LENGTH", defaultOTPLength)
	v.SetDefault("OTP_HASH_COST", defaultOTPHashCost)
	v.SetDefault("OTP_STORE", "")
	v.SetDefault("FACE_MATCH_TOLERANCE", defaultFaceTolerance)
	v.SetDefault("FACE_EXTRACTOR_URL", "")
	v.SetDefault("BIOMETRIC_SIMULATION", false)
	v.SetDefault("MSG91_AUTH_KEY", "")
	v.SetDefault("MSG91_TEMPLATE_ID", "")
	v.SetDefault("MSG91_SENDER_ID", "")
	v.SetDefault("MSG91_BASE_URL", "")
	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", defaultSMTPPort)
	v.SetDefault("SMTP_USER", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("FROM_EMAIL", "")
	v.SetDefault("FROM_NAME", defaultFromName)
	v.SetDefault("DELIVERY_DEV_MODE", false)
	v.SetDefault("EMAIL_BOOTSTRAP_ENABLED", true)
	v.SetDefault("BCRYPT_COST", defaultBcryptCost)

	cfg := Config{
		AppName:               v.GetString("APP_NAME"),
		AppEnv:                strings.ToLower(v.GetString("APP_ENV")),
		Port:                  v.GetString("PORT"),
		LogLevel:              strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat:             strings.ToLower(v.GetString("LOG_FORMAT")),
		DatabaseURL:           v.GetString("DATABASE_URL"),
		RedisURL:              v.GetString("REDIS_URL"),
		JWTSecret:             v.GetString("JWT_SECRET"),
		JWTIssuer:             v.GetString("JWT_ISSUER"),
		OTPLength:             v.GetInt("OTP_LENGTH"),
		OTPHashCost:           v.GetInt("OTP_HASH_COST"),
		OTPStore:              strings.ToLower(v.GetString("OTP_STORE")),
		FaceTolerance:         v.GetFloat64("FACE_MATCH_TOLERANCE"),
		FaceExtractorURL:      v.GetString("FACE_EXTRACTOR_URL"),
		BiometricSimulation:   v.GetBool("BIOMETRIC_SIMULATION"),
		MSG91AuthKey:          v.GetString("MSG91_AUTH_KEY"),
		MSG91TemplateID:       v.GetString("MSG91_TEMPLATE_ID"),
		MSG91SenderID:         v.GetString("MSG91_SENDER_ID"),
		MSG91BaseURL:          v.GetString("MSG91_BASE_URL"),
		SMTPHost:              v.GetString("SMTP_HOST"),
		SMTPPort:              v.GetInt("SMTP_PORT"),
		SMTPUser:              v.GetString("SMTP_USER"),
		SMTPPassword:          v.GetString("SMTP_PASSWORD"),
		FromEmail:             v.GetString("FROM_EMAIL"),
		FromName:              v.GetString("FROM_NAME"),
		DeliveryDevMode:       v.GetBool("DELIVERY_DEV_MODE"),
		EmailBootstrapEnabled: v.GetBool("EMAIL_BOOTSTRAP_ENABLED"),
		BcryptCost:            v.GetInt("BCRYPT_COST"),
	}

	var err error
	if cfg.ShutdownPeriod, err = duration(v, "SHUTDOWN_TIMEOUT_SECONDS", "SHUTDOWN_TIMEOUT", time.Second, defaultShutdownDelay); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = duration(v, "IDEMPOTENCY_TTL_SECONDS", "IDEMPOTENCY_TTL", time.Second, defaultIdempotencyTTL); err != nil {
		return Config{}, err
	}
	if cfg.AccessTokenTTL, err = duration(v, "JWT_EXPIRY_MINUTES", "ACCESS_TOKEN_TTL", time.Minute, defaultAccessTTL); err != nil {
		return Config{}, err
	}
	if cfg.OTPTTL, err = duration(v, "OTP_EXPIRY_SECONDS", "OTP_TTL", time.Second, defaultOTPTTL); err != nil {
		return Config{}, err
	}
	if cfg.OTPRetention, err = duration(v, "OTP_RETENTION_SECONDS", "OTP_RETENTION", time.Second, defaultOTPRetention); err != nil {
		return Config{}, err
	}

	if cfg.OTPStore == "" {
		if cfg.DatabaseURL != "" {
			cfg.OTPStore = OTPStorePostgres
		} else {
			cfg.OTPStore = OTPStoreMemory
		}
	}
	if cfg.JWTSecret == "" && cfg.IsDev() {
		cfg.JWTSecret = devJWTSecret
	}

	if err := cfg.validate(serving); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate(serving bool) error {
	if c.Port == "" {
		return errors.New("PORT must be set")
	}
	if !c.IsDev() {
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL must be set when APP_ENV=%s", c.AppEnv)
		}
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET must be set when APP_ENV=%s", c.AppEnv)
		}
	}
	if c.IsProduction() {
		if c.BiometricSimulation {
			return errors.New("BIOMETRIC_SIMULATION must not be true when APP_ENV=production")
		}
		if c.DeliveryDevMode {
			return errors.New("DELIVERY_DEV_MODE must not be true when APP_ENV=production")
		}
	}
	if serving && !c.BiometricSimulation && c.FaceExtractorURL == "" {
		return errors.New("FACE_EXTRACTOR_URL must be set unless BIOMETRIC_SIMULATION=true")
	}
	switch c.OTPStore {
	case OTPStorePostgres:
		if c.DatabaseURL == "" {
			return errors.New("OTP_STORE=postgres requires DATABASE_URL")
		}
	case OTPStoreRedis:
		if c.RedisURL == "" {
			return errors.New("OTP_STORE=redis requires REDIS_URL")
		}
	case OTPStoreMemory:
		if c.IsProduction() {
			return errors.New("OTP_STORE=memory is not allowed when APP_ENV=production")
		}
	default:
		return fmt.Errorf("invalid OTP_STORE %q", c.OTPStore)
	}
	if c.OTPLength < 4 || c.OTPLength > 10 {
		return errors.New("OTP_LENGTH must be between 4 and 10")
	}
	if c.OTPTTL <= 0 {
		return errors.New("OTP_TTL must be positive")
	}
	if c.OTPHashCost < 4 || c.OTPHashCost > 31 {
		return errors.New("OTP_HASH_COST must be between 4 and 31")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return errors.New("BCRYPT_COST must be between 4 and 31")
	}
	if c.FaceTolerance < 0 {
		return errors.New("FACE_MATCH_TOLERANCE must not be negative")
	}
	if c.AccessTokenTTL <= 0 {
		return errors.New("ACCESS_TOKEN_TTL must be positive")
	}
	return nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

// IsDev reports whether the app runs in a local development environment.
func (c Config) IsDev() bool {
	switch c.AppEnv {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

// IsProduction reports whether APP_ENV is production.
func (c Config) IsProduction() bool {
	return c.AppEnv == "production" || c.AppEnv == "prod"
}

// duration reads a count of unit from countKey, falling back to a Go duration
// string under durKey, then to fallback.
func duration(v *viper.Viper, countKey, durKey string, unit, fallback time.Duration) (time.Duration, error) {
	if s := strings.TrimSpace(v.GetString(countKey)); s != "" {
		n := v.GetInt(countKey)
		if n <= 0 {
			return 0, fmt.Errorf("invalid %s: %q", countKey, s)
		}
		return time.Duration(n) * unit, nil
	}
	if s := strings.TrimSpace(v.GetString(durKey)); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", durKey, err)
		}
		return d, nil
	}
	return fallback, nil
}
