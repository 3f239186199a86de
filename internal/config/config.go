package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Mail transports supported by the notification dispatcher.
const (
	MailProviderSMTP     = "smtp"
	MailProviderSendGrid = "sendgrid"
)

// Notification delivery policies.
const (
	// NotifyModeStrict sends mail before answering and fails the request when sending fails.
	NotifyModeStrict = "strict"
	// NotifyModeAsync queues mail for background delivery with retries.
	NotifyModeAsync = "async"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress      string
	DatabaseURI     string
	DBTimeout       time.Duration
	ShutdownTimeout time.Duration
	LogLevel        string
	BcryptCost      int

	MailProvider   string
	MailUser       string
	MailPassword   string
	MailFrom       string
	OpsEmail       string
	SMTPHost       string
	SMTPPort       string
	SendGridAPIKey string
	MailTimeout    time.Duration

	NotifyMode        string
	NotifyWorkers     int
	NotifyQueueSize   int
	NotifyMaxAttempts int
	NotifyRetryDelay  time.Duration

	LoginRateLimit float64
	LoginRateBurst int
	// TrustedProxies lists proxy IPs or CIDRs whose forwarding headers are
	// honoured when resolving the client IP. Empty trusts no proxy.
	TrustedProxies []string
}

const (
	defaultDBPort            = "5432"
	defaultDBTimeout         = 5 * time.Second
	defaultShutdownTimeout   = 10 * time.Second
	defaultLogLevel          = "info"
	defaultSMTPHost          = "smtp.gmail.com"
	defaultSMTPPort          = "587"
	defaultMailTimeout       = 10 * time.Second
	defaultNotifyWorkers     = 2
	defaultNotifyQueueSize   = 64
	defaultNotifyMaxAttempts = 3
	defaultNotifyRetryDelay  = 2 * time.Second
	defaultLoginRateBurst    = 5
	defaultEnvFile           = ".env"
)

// Load parses configuration from an optional .env file, environment variables and flags.
func Load() (*Config, error) {
	lookup, err := withDotEnv(os.LookupEnv)
	if err != nil {
		return nil, err
	}
	return load(os.Args[1:], lookup)
}

type envLookup func(string) (string, bool)

// withDotEnv layers values from the env file under the process environment.
// A missing default .env is fine; a missing ENV_FILE is not.
func withDotEnv(lookup envLookup) (envLookup, error) {
	path, explicit := lookup("ENV_FILE")
	if !explicit || path == "" {
		path, explicit = defaultEnvFile, false
	}

	values, err := godotenv.Read(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return lookup, nil
		}
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}

	return func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := values[key]
		return v, ok
	}, nil
}

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		DatabaseURI:       getString(lookup, "DATABASE_URI", ""),
		DBTimeout:         getDuration(lookup, "DB_TIMEOUT", defaultDBTimeout),
		ShutdownTimeout:   getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		LogLevel:          getString(lookup, "LOG_LEVEL", defaultLogLevel),
		BcryptCost:        getInt(lookup, "BCRYPT_COST", bcrypt.DefaultCost),
		MailProvider:      getString(lookup, "MAIL_PROVIDER", MailProviderSMTP),
		MailUser:          getString(lookup, "EMAIL_USER", ""),
		MailPassword:      getString(lookup, "EMAIL_PASS", ""),
		SMTPHost:          getString(lookup, "SMTP_HOST", defaultSMTPHost),
		SMTPPort:          getString(lookup, "SMTP_PORT", defaultSMTPPort),
		SendGridAPIKey:    getString(lookup, "SENDGRID_API_KEY", ""),
		MailTimeout:       getDuration(lookup, "MAIL_TIMEOUT", defaultMailTimeout),
		NotifyMode:        getString(lookup, "NOTIFY_MODE", NotifyModeStrict),
		NotifyWorkers:     getInt(lookup, "NOTIFY_WORKERS", defaultNotifyWorkers),
		NotifyQueueSize:   getInt(lookup, "NOTIFY_QUEUE_SIZE", defaultNotifyQueueSize),
		NotifyMaxAttempts: getInt(lookup, "NOTIFY_MAX_ATTEMPTS", defaultNotifyMaxAttempts),
		NotifyRetryDelay:  getDuration(lookup, "NOTIFY_RETRY_DELAY", defaultNotifyRetryDelay),
		LoginRateLimit:    getFloat(lookup, "LOGIN_RATE_LIMIT", 0),
		LoginRateBurst:    getInt(lookup, "LOGIN_RATE_BURST", defaultLoginRateBurst),
		TrustedProxies:    getList(lookup, "TRUSTED_PROXIES"),
	}
	cfg.MailFrom = getString(lookup, "MAIL_FROM", cfg.MailUser)
	cfg.OpsEmail = getString(lookup, "OPS_EMAIL", cfg.MailUser)

	flags := flag.NewFlagSet("restaurant", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var (
		port               = getString(lookup, "PORT", "")
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	flags.StringVar(&port, "port", port, "HTTP server listen port")
	flags.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN, overrides DB_* variables")
	flags.StringVar(&cfg.MailProvider, "mail-provider", cfg.MailProvider, "Mail transport: smtp or sendgrid")
	flags.StringVar(&cfg.NotifyMode, "notify-mode", cfg.NotifyMode, "Notification policy: strict or async")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error")
	flags.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if port == "" {
		return nil, fmt.Errorf("PORT must be provided")
	}
	cfg.RunAddress = net.JoinHostPort("", port)

	if cfg.DatabaseURI == "" {
		if cfg.DatabaseURI, err = databaseURIFromParts(lookup); err != nil {
			return nil, err
		}
	}

	if cfg.MailUser == "" || cfg.MailPassword == "" {
		return nil, fmt.Errorf("EMAIL_USER and EMAIL_PASS must be provided")
	}

	switch cfg.MailProvider {
	case MailProviderSMTP:
	case MailProviderSendGrid:
		if cfg.SendGridAPIKey == "" {
			return nil, fmt.Errorf("SENDGRID_API_KEY must be provided for the sendgrid mail provider")
		}
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.MailProvider)
	}

	if cfg.NotifyMode != NotifyModeStrict && cfg.NotifyMode != NotifyModeAsync {
		return nil, fmt.Errorf("unknown notify mode %q", cfg.NotifyMode)
	}

	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cfg.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
	}

	for _, proxy := range cfg.TrustedProxies {
		if net.ParseIP(proxy) == nil {
			if _, _, err := net.ParseCIDR(proxy); err != nil {
				return nil, fmt.Errorf("invalid trusted proxy %q", proxy)
			}
		}
	}

	if cfg.DBTimeout <= 0 {
		cfg.DBTimeout = defaultDBTimeout
	}

	if cfg.MailTimeout <= 0 {
		cfg.MailTimeout = defaultMailTimeout
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.NotifyWorkers <= 0 {
		cfg.NotifyWorkers = defaultNotifyWorkers
	}

	if cfg.NotifyQueueSize <= 0 {
		cfg.NotifyQueueSize = defaultNotifyQueueSize
	}

	if cfg.NotifyMaxAttempts <= 0 {
		cfg.NotifyMaxAttempts = defaultNotifyMaxAttempts
	}

	if cfg.NotifyRetryDelay < 0 {
		cfg.NotifyRetryDelay = defaultNotifyRetryDelay
	}

	if cfg.LoginRateLimit < 0 {
		cfg.LoginRateLimit = 0
	}

	if cfg.LoginRateBurst <= 0 {
		cfg.LoginRateBurst = defaultLoginRateBurst
	}

	return cfg, nil
}

func databaseURIFromParts(lookup envLookup) (string, error) {
	var (
		host     = getString(lookup, "DB_HOST", "")
		user     = getString(lookup, "DB_USER", "")
		password = getString(lookup, "DB_PASSWORD", "")
		name     = getString(lookup, "DB_NAME", "")
		port     = getString(lookup, "DB_PORT", defaultDBPort)
	)

	var missing []string
	for key, v := range map[string]string{"DB_HOST": host, "DB_USER": user, "DB_PASSWORD": password, "DB_NAME": name} {
		if v == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return "", fmt.Errorf("database configuration incomplete, missing %s", strings.Join(missing, ", "))
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(user, password),
		Host:   net.JoinHostPort(host, port),
		Path:   "/" + name,
	}
	return u.String(), nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getList(lookup envLookup, key string) []string {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	var items []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(lookup envLookup, key string, def float64) float64 {
	if v, ok := lookup(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
