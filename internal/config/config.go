package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Redis    RedisConfig
	Kiosk    KioskConfig
	QR       QRConfig
	Payroll  PayrollConfig
	CORS     CORSConfig
	Admin    AdminConfig
	SMTP     SMTPConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration time.Duration
}

// AppConfig holds application configuration
type AppConfig struct {
	Port            int
	Env             string
	LogLevel        string
	LogFile         string
	Timezone        string
	Location        *time.Location
	ShutdownTimeout time.Duration
}

// RedisConfig is optional; an empty Addr runs without the QR token cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type KioskConfig struct {
	APIKey string
}

type QRConfig struct {
	RotationInterval time.Duration
}

// PayrollConfig holds the defaults applied when a payroll request omits a
// policy parameter.
type PayrollConfig struct {
	StandardMonthlyHours int             `toml:"standard_monthly_hours"`
	OvertimeMultiplier   decimal.Decimal `toml:"overtime_multiplier"`
	IncomeTaxRate        decimal.Decimal `toml:"income_tax_rate"`
}

type CORSConfig struct {
	AllowedOrigins []string
}

// AdminConfig seeds an approved ADMIN account at startup when both fields are set.
type AdminConfig struct {
	Email    string
	Password string
}

// SMTPConfig is optional; an empty Host disables registration decision mail.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// policyFile is the optional TOML document named by PAY_POLICY_FILE.
type policyFile struct {
	Payroll PayrollConfig `toml:"payroll"`
	QR      struct {
		RotationInterval string `toml:"rotation_interval"`
	} `toml:"qr"`
}

func DefaultPayroll() PayrollConfig {
	return PayrollConfig{
		StandardMonthlyHours: 160,
		OvertimeMultiplier:   decimal.RequireFromString("1.5"),
		IncomeTaxRate:        decimal.RequireFromString("0.15"),
	}
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	config := &Config{}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	dbMaxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "hrmanagement"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(dbMaxConns),
	}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}
	timezone := getEnv("APP_TIMEZONE", "UTC")
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	shutdownTimeout, err := time.ParseDuration(getEnv("APP_SHUTDOWN_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_SHUTDOWN_TIMEOUT: %w", err)
	}

	config.App = AppConfig{
		Port:            appPort,
		Env:             getEnv("APP_ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFile:         getEnv("LOG_FILE", ""),
		Timezone:        timezone,
		Location:        location,
		ShutdownTimeout: shutdownTimeout,
	}

	accessExpiration, err := time.ParseDuration(getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: accessExpiration,
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	config.Redis = RedisConfig{
		Addr:     getEnv("REDIS_ADDR", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
	}

	config.Kiosk = KioskConfig{APIKey: getEnv("KIOSK_API_KEY", "")}
	config.CORS = CORSConfig{AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"})}
	config.Admin = AdminConfig{
		Email:    getEnv("ADMIN_EMAIL", ""),
		Password: getEnv("ADMIN_PASSWORD", ""),
	}

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}
	config.SMTP = SMTPConfig{
		Host:     getEnv("SMTP_HOST", ""),
		Port:     smtpPort,
		Username: getEnv("SMTP_USERNAME", ""),
		Password: getEnv("SMTP_PASSWORD", ""),
		From:     getEnv("SMTP_FROM", ""),
		FromName: getEnv("SMTP_FROM_NAME", "HR Management"),
	}

	config.Payroll = DefaultPayroll()
	config.QR = QRConfig{RotationInterval: 3 * time.Minute}
	if path := getEnv("PAY_POLICY_FILE", ""); path != "" {
		if err := config.applyPolicyFile(path); err != nil {
			return nil, err
		}
	}
	if raw := getEnv("QR_ROTATION_INTERVAL", ""); raw != "" {
		interval, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid QR_ROTATION_INTERVAL: %w", err)
		}
		config.QR.RotationInterval = interval
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// applyPolicyFile overrides only the keys the file actually defines.
func (c *Config) applyPolicyFile(path string) error {
	var pf policyFile
	md, err := toml.DecodeFile(path, &pf)
	if err != nil {
		return fmt.Errorf("decode pay policy file %s: %w", path, err)
	}

	if md.IsDefined("payroll", "standard_monthly_hours") {
		c.Payroll.StandardMonthlyHours = pf.Payroll.StandardMonthlyHours
	}
	if md.IsDefined("payroll", "overtime_multiplier") {
		c.Payroll.OvertimeMultiplier = pf.Payroll.OvertimeMultiplier
	}
	if md.IsDefined("payroll", "income_tax_rate") {
		c.Payroll.IncomeTaxRate = pf.Payroll.IncomeTaxRate
	}
	if md.IsDefined("qr", "rotation_interval") {
		interval, err := time.ParseDuration(pf.QR.RotationInterval)
		if err != nil {
			return fmt.Errorf("invalid qr.rotation_interval: %w", err)
		}
		c.QR.RotationInterval = interval
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown keys in pay policy file %s: %v", path, undecoded)
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Kiosk.APIKey == "" {
		return fmt.Errorf("KIOSK_API_KEY is required")
	}
	if c.QR.RotationInterval <= 0 {
		return fmt.Errorf("QR rotation interval must be positive")
	}
	if c.Payroll.StandardMonthlyHours <= 0 {
		return fmt.Errorf("payroll.standard_monthly_hours must be positive")
	}
	if c.Payroll.OvertimeMultiplier.IsNegative() {
		return fmt.Errorf("payroll.overtime_multiplier must not be negative")
	}
	if c.Payroll.IncomeTaxRate.IsNegative() || c.Payroll.IncomeTaxRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("payroll.income_tax_rate must be between 0 and 1")
	}
	if (c.Admin.Email == "") != (c.Admin.Password == "") {
		return fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}
	if c.SMTP.Host != "" && c.SMTP.From == "" {
		return fmt.Errorf("SMTP_FROM is required when SMTP_HOST is set")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
