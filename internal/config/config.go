package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Ayushprasai11/Valorant/internal/render"
	"github.com/Ayushprasai11/Valorant/internal/store"
)

// Config holds the full application configuration.
type Config struct {
	Log    LogConfig     `yaml:"log" mapstructure:"log"`
	Run    RunConfig     `yaml:"run" mapstructure:"run"`
	Render render.Config `yaml:"render" mapstructure:"render"`
	Store  store.Config  `yaml:"store" mapstructure:"store"`
	Server ServerConfig  `yaml:"server" mapstructure:"server"`
}

// RunConfig configures ingestion runs.
type RunConfig struct {
	MaxAttempts int    `yaml:"max_attempts" mapstructure:"max_attempts"`
	BackoffMs   int    `yaml:"backoff_ms" mapstructure:"backoff_ms"`
	SpecsFile   string `yaml:"specs_file" mapstructure:"specs_file"`
}

// Backoff is the fixed wait between attempts.
func (r RunConfig) Backoff() time.Duration {
	return time.Duration(r.BackoffMs) * time.Millisecond
}

// ServerConfig configures the HTTP trigger server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment. An empty path searches
// for statscrape.yaml in the working directory.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Config file
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("statscrape")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Environment
	v.SetEnvPrefix("STATSCRAPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("run.max_attempts", 5)
	v.SetDefault("run.backoff_ms", 5000)
	v.SetDefault("run.specs_file", "")
	v.SetDefault("render.driver", "rod")
	v.SetDefault("render.headless", true)
	v.SetDefault("render.control_url", "")
	v.SetDefault("render.nav_timeout_secs", 60)
	v.SetDefault("render.wait_timeout_secs", 30)
	v.SetDefault("render.user_agent", render.DefaultUserAgent)
	v.SetDefault("store.driver", "mongo")
	v.SetDefault("store.url", "mongodb://localhost:27017")
	v.SetDefault("store.database", "game_stats")
	v.SetDefault("store.collection", "player_stats")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Read config file (optional unless named explicitly)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command mode depends on. Modes: "run",
// "preview", "serve".
func (c *Config) Validate(mode string) error {
	var errs []string

	validateRun := func() {
		if c.Run.MaxAttempts < 1 {
			errs = append(errs, "run.max_attempts must be >= 1")
		}
		if c.Run.BackoffMs < 0 {
			errs = append(errs, "run.backoff_ms must be >= 0")
		}
		if err := c.Store.Validate(); err != nil {
			errs = append(errs, err.Error())
		}
	}
	validateRender := func() {
		switch c.Render.Driver {
		case "rod", "static":
		default:
			errs = append(errs, "render.driver must be rod or static")
		}
		if c.Render.NavTimeoutSecs < 0 || c.Render.WaitTimeoutSecs < 0 {
			errs = append(errs, "render timeouts must be >= 0")
		}
	}

	switch mode {
	case "run":
		validateRun()
		validateRender()
	case "preview":
		validateRender()
	case "serve":
		validateRun()
		validateRender()
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, "server.port must be > 0 and <= 65535")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
