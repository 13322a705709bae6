package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/dgallion1/docgloss/internal/chrome"
)

// EnvPrefix prefixes every environment override. Nested keys are joined with
// a double underscore: DOCGLOSS_SERVER__PORT sets server.port.
const EnvPrefix = "DOCGLOSS_"

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Content  ContentConfig  `koanf:"content"`
	Annotate AnnotateConfig `koanf:"annotate"`
	Tooltip  chrome.Options `koanf:"tooltip"`
	Log      LogConfig      `koanf:"log"`
	Stats    StatsConfig    `koanf:"stats"`
}

type ServerConfig struct {
	Port            string        `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// Auth for POST /api/annotate. Empty disables the endpoint.
	AdminAPIKey string `koanf:"admin_api_key"`

	CORSOrigins []string `koanf:"cors_origins"`

	// Upper bound on annotate request bodies.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`
}

type ContentConfig struct {
	Dir      string `koanf:"dir"`
	Glob     string `koanf:"glob"`
	Glossary string `koanf:"glossary"`
}

// Annotation modes.
const (
	ModeString = "string"
	ModeTree   = "tree"
)

type AnnotateConfig struct {
	Mode string `koanf:"mode"`
	// WarmWorkers bounds concurrent renders when the page cache is warmed at
	// startup. Zero disables warming.
	WarmWorkers int `koanf:"warm_workers"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

type StatsConfig struct {
	Window time.Duration `koanf:"window"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            "8090",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			CORSOrigins:     []string{"*"},
			MaxBodyBytes:    5 << 20, // 5MB
		},
		Content: ContentConfig{
			Dir:      "content",
			Glob:     "**/*.{md,html,txt,docx,pdf}",
			Glossary: "content/glossary.yaml",
		},
		Annotate: AnnotateConfig{Mode: ModeString, WarmWorkers: 4},
		Tooltip:  chrome.DefaultOptions(),
		Log:      LogConfig{Level: "info"},
		Stats:    StatsConfig{Window: time.Hour},
	}
}

// Load starts from Default, overlays the YAML file at path when it exists,
// then DOCGLOSS_* environment variables. An empty path skips the file.
func Load(path string) (Config, error) {
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return Config{}, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("loading env overrides: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}

// envKey maps DOCGLOSS_TOOLTIP__GLOSSARY__WIDTH to tooltip.glossary.width.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func (c Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	if c.Content.Dir == "" {
		return fmt.Errorf("content.dir is required")
	}
	if c.Content.Glossary == "" {
		return fmt.Errorf("content.glossary is required")
	}
	if c.Annotate.Mode != ModeString && c.Annotate.Mode != ModeTree {
		return fmt.Errorf("invalid annotate.mode %q: must be one of string, tree", c.Annotate.Mode)
	}
	if c.Annotate.WarmWorkers < 0 {
		return fmt.Errorf("annotate.warm_workers must not be negative")
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Stats.Window <= 0 {
		return fmt.Errorf("stats.window must be positive")
	}
	if err := c.Tooltip.Validate(); err != nil {
		return fmt.Errorf("tooltip: %w", err)
	}
	return nil
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log.level %q: %w", s, err)
	}
	return l, nil
}
