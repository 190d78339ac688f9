package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/aussiebroadwan/keygate/internal/keygate/domain"
	"github.com/aussiebroadwan/keygate/pkg/httpx"
	"gopkg.in/yaml.v3"
)

// ConfigFileEnv names an optional YAML file applied between defaults and the
// environment.
const ConfigFileEnv = "KEYGATE_CONFIG_FILE"

type Config struct {
	APISecret      string // Required: shared secret the gateway and bot present
	BootstrapToken string // Optional: enables POST /v1/bootstrap

	DatabaseFile         string        // SQLite database file (default: ./keygate.db)
	PepperFile           string        // Password pepper, created on first start (default: ./pepper)
	Env                  string        // dev, staging, prod (default: dev)
	LogLevel             string        // debug, info, warn, error (default: info)
	LogFormat            string        // json, text (default: json)
	LogFile              string        // Optional: rotated log file in addition to stdout
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // default: 10s
	HousekeepingInterval time.Duration // default: 1h

	ReconcileInterval time.Duration // default: 1h
	ReconcileWorkers  int           // default: 4
	RoleSinkTimeout   time.Duration // default: 10s

	TrialKeyDuration time.Duration // default: 24h; 0 disables
	InviteTTL        time.Duration // default: 30 days
	LinkCodeTTL      time.Duration // default: 15m

	DefaultRoleLimits domain.RoleLimits
	Discord           DiscordConfig
	RateLimits        httpx.RateLimits
}

// DiscordConfig enables the Discord role sink when all fields are set.
type DiscordConfig struct {
	Token   string
	GuildID string
	RoleID  string
}

func (d DiscordConfig) Enabled() bool {
	return d.Token != "" && d.GuildID != "" && d.RoleID != ""
}

// configFile mirrors the YAML schema. Pointers distinguish absent keys from
// explicit zeros such as trial_key_duration: 0.
type configFile struct {
	APISecret      string `yaml:"api_secret"`
	BootstrapToken string `yaml:"bootstrap_token"`

	Database struct {
		File string `yaml:"file"`
	} `yaml:"database"`
	PepperFile string `yaml:"pepper_file"`
	Env        string `yaml:"env"`
	Log        struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		File   string `yaml:"file"`
	} `yaml:"log"`
	HTTP struct {
		Port                *int           `yaml:"port"`
		ShutdownGracePeriod *time.Duration `yaml:"shutdown_grace_period"`
	} `yaml:"http"`
	HousekeepingInterval *time.Duration `yaml:"housekeeping_interval"`

	Reconcile struct {
		Interval    *time.Duration `yaml:"interval"`
		Workers     *int           `yaml:"workers"`
		SinkTimeout *time.Duration `yaml:"sink_timeout"`
	} `yaml:"reconcile"`

	TrialKeyDuration *time.Duration `yaml:"trial_key_duration"`
	InviteTTL        *time.Duration `yaml:"invite_ttl"`
	LinkCodeTTL      *time.Duration `yaml:"link_code_ttl"`

	RoleLimits struct {
		Admin   *int `yaml:"admin"`
		Support *int `yaml:"support"`
		User    *int `yaml:"user"`
	} `yaml:"role_limits"`

	Discord struct {
		Token   string `yaml:"token"`
		GuildID string `yaml:"guild_id"`
		RoleID  string `yaml:"role_id"`
	} `yaml:"discord"`
}

func defaultConfig() Config {
	return Config{
		DatabaseFile:         "keygate.db",
		PepperFile:           "pepper",
		Env:                  "dev",
		LogLevel:             "info",
		LogFormat:            "json",
		Port:                 8080,
		ShutdownGracePeriod:  10 * time.Second,
		HousekeepingInterval: time.Hour,
		ReconcileInterval:    time.Hour,
		ReconcileWorkers:     4,
		RoleSinkTimeout:      10 * time.Second,
		TrialKeyDuration:     24 * time.Hour,
		InviteTTL:            domain.DefaultInviteTTL,
		LinkCodeTTL:          domain.DefaultLinkCodeTTL,
		DefaultRoleLimits:    domain.DefaultRoleLimits(),
		RateLimits:           httpx.DefaultRateLimits(),
	}
}

// LoadConfig resolves configuration in priority order: defaults -> file -> env.
func LoadConfig() (Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv(ConfigFileEnv); path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}
	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var f configFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&cfg.APISecret, f.APISecret)
	setString(&cfg.BootstrapToken, f.BootstrapToken)
	setString(&cfg.DatabaseFile, f.Database.File)
	setString(&cfg.PepperFile, f.PepperFile)
	setString(&cfg.Env, f.Env)
	setString(&cfg.LogLevel, f.Log.Level)
	setString(&cfg.LogFormat, f.Log.Format)
	setString(&cfg.LogFile, f.Log.File)
	setPtr(&cfg.Port, f.HTTP.Port)
	setPtr(&cfg.ShutdownGracePeriod, f.HTTP.ShutdownGracePeriod)
	setPtr(&cfg.HousekeepingInterval, f.HousekeepingInterval)
	setPtr(&cfg.ReconcileInterval, f.Reconcile.Interval)
	setPtr(&cfg.ReconcileWorkers, f.Reconcile.Workers)
	setPtr(&cfg.RoleSinkTimeout, f.Reconcile.SinkTimeout)
	setPtr(&cfg.TrialKeyDuration, f.TrialKeyDuration)
	setPtr(&cfg.InviteTTL, f.InviteTTL)
	setPtr(&cfg.LinkCodeTTL, f.LinkCodeTTL)
	setPtr(&cfg.DefaultRoleLimits.Admin, f.RoleLimits.Admin)
	setPtr(&cfg.DefaultRoleLimits.Support, f.RoleLimits.Support)
	setPtr(&cfg.DefaultRoleLimits.User, f.RoleLimits.User)
	setString(&cfg.Discord.Token, f.Discord.Token)
	setString(&cfg.Discord.GuildID, f.Discord.GuildID)
	setString(&cfg.Discord.RoleID, f.Discord.RoleID)
	return nil
}

func applyEnv(cfg *Config) {
	cfg.APISecret = getEnvOrDefault("KEYGATE_API_SECRET", cfg.APISecret)
	cfg.BootstrapToken = getEnvOrDefault("BOOTSTRAP_TOKEN", cfg.BootstrapToken)
	cfg.DatabaseFile = getEnvOrDefault("KEYGATE_DATABASE_FILE", cfg.DatabaseFile)
	cfg.PepperFile = getEnvOrDefault("KEYGATE_PEPPER_FILE", cfg.PepperFile)
	cfg.Env = getEnvOrDefault("ENV", cfg.Env)
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnvOrDefault("LOG_FORMAT", cfg.LogFormat)
	cfg.LogFile = getEnvOrDefault("LOG_FILE", cfg.LogFile)
	cfg.Port = getEnvIntOrDefault("PORT", cfg.Port)
	cfg.ShutdownGracePeriod = getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", cfg.ShutdownGracePeriod)
	cfg.HousekeepingInterval = getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", cfg.HousekeepingInterval)
	cfg.ReconcileInterval = getEnvDurationOrDefault("RECONCILE_INTERVAL", cfg.ReconcileInterval)
	cfg.ReconcileWorkers = getEnvIntOrDefault("RECONCILE_WORKERS", cfg.ReconcileWorkers)
	cfg.RoleSinkTimeout = getEnvDurationOrDefault("ROLE_SINK_TIMEOUT", cfg.RoleSinkTimeout)
	cfg.TrialKeyDuration = getEnvDurationOrDefault("TRIAL_KEY_DURATION", cfg.TrialKeyDuration)
	cfg.InviteTTL = getEnvDurationOrDefault("INVITE_TTL", cfg.InviteTTL)
	cfg.LinkCodeTTL = getEnvDurationOrDefault("LINK_CODE_TTL", cfg.LinkCodeTTL)
	cfg.DefaultRoleLimits.Admin = getEnvIntOrDefault("ROLE_LIMIT_ADMIN", cfg.DefaultRoleLimits.Admin)
	cfg.DefaultRoleLimits.Support = getEnvIntOrDefault("ROLE_LIMIT_SUPPORT", cfg.DefaultRoleLimits.Support)
	cfg.DefaultRoleLimits.User = getEnvIntOrDefault("ROLE_LIMIT_USER", cfg.DefaultRoleLimits.User)
	cfg.Discord.Token = getEnvOrDefault("DISCORD_TOKEN", cfg.Discord.Token)
	cfg.Discord.GuildID = getEnvOrDefault("DISCORD_GUILD_ID", cfg.Discord.GuildID)
	cfg.Discord.RoleID = getEnvOrDefault("DISCORD_ROLE_ID", cfg.Discord.RoleID)
	cfg.RateLimits = httpx.RateLimitsFromEnv(cfg.RateLimits)
}

// ValidateServer is Validate plus the settings only the HTTP server needs.
func (c Config) ValidateServer() error {
	var errs []error
	if c.APISecret == "" {
		errs = append(errs, errors.New("KEYGATE_API_SECRET is required"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	return errors.Join(append(errs, c.Validate())...)
}

// Validate checks the settings shared by the server and keygatectl.
func (c Config) Validate() error {
	var errs []error
	if c.ReconcileWorkers < 1 {
		errs = append(errs, errors.New("reconcile workers must be at least 1"))
	}
	if c.ReconcileInterval <= 0 || c.HousekeepingInterval <= 0 {
		errs = append(errs, errors.New("intervals must be positive"))
	}
	if c.TrialKeyDuration < 0 {
		errs = append(errs, errors.New("trial key duration must not be negative"))
	}
	if err := c.DefaultRoleLimits.Validate(); err != nil {
		errs = append(errs, err)
	}
	d := c.Discord
	if (d.Token != "" || d.GuildID != "" || d.RoleID != "") && !d.Enabled() {
		errs = append(errs, errors.New("discord token, guild id and role id must be set together"))
	}
	return errors.Join(errs...)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setPtr[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
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

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
