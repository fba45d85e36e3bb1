package platform

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"kpterm/internal/content"
	"kpterm/internal/runtime"

	"github.com/joho/godotenv"
)

// FlagsConfig holds all boolean or string flags for the app.
type FlagsConfig struct {
	// Headless disables the HTTP server when true.
	Headless bool
	// Preload warms the content cache at startup.
	Preload bool
	// LogLevel for the default slog handler.
	LogLevel slog.Level
}

// TerminalConfig tunes the dispatcher and the content client.
type TerminalConfig struct {
	CommandTimeout time.Duration
	Content        content.Config
}

// AppConfig contains the configuration for the app.
type AppConfig struct {
	Flags       *FlagsConfig
	NatsCfg     *EmbeddedServerConfig
	HTTPSrvCfg  *HTTPServerConfig
	TerminalCfg *TerminalConfig
}

// LoadAppConfig reads .env (if present) and then the KP_* environment
// variables over the defaults. Malformed values are reported together.
func LoadAppConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return configFromEnv(os.LookupEnv)
}

type lookupFunc func(string) (string, bool)

func configFromEnv(lookup lookupFunc) (*AppConfig, error) {
	cfg := &AppConfig{
		Flags:       defaultFlagsCfg(),
		NatsCfg:     defaultNatsCfg(),
		HTTPSrvCfg:  defaultHTTPServerCfg(),
		TerminalCfg: defaultTerminalCfg(),
	}
	p := envParser{lookup: lookup}

	p.setInt("KP_PORT", &cfg.HTTPSrvCfg.Port)
	p.setBool("KP_TLS", &cfg.HTTPSrvCfg.EnableTLS)
	p.setString("KP_CERT_FILE", &cfg.HTTPSrvCfg.CertFile)
	p.setString("KP_KEY_FILE", &cfg.HTTPSrvCfg.KeyFile)
	p.setString("KP_SESSION_KEY", &cfg.HTTPSrvCfg.SessionKey)

	p.setBool("KP_HEADLESS", &cfg.Flags.Headless)
	p.setBool("KP_PRELOAD", &cfg.Flags.Preload)
	p.setLevel("KP_LOG_LEVEL", &cfg.Flags.LogLevel)

	p.setString("KP_STORE_DIR", &cfg.NatsCfg.StoreDir)
	p.setBool("KP_NATS_INPROCESS", &cfg.NatsCfg.InProcess)
	p.setString("KP_NATS_LEAF_URL", &cfg.NatsCfg.LeafNodeURL)
	p.setString("KP_NATS_LEAF_CREDS", &cfg.NatsCfg.LeafNodeCreds)

	p.setString("KP_CONTENT_BASE_URL", &cfg.TerminalCfg.Content.BaseURL)
	p.setDuration("KP_CONTENT_TIMEOUT", &cfg.TerminalCfg.Content.Timeout)
	p.setString("KP_CONTENT_OVERLAY_DIR", &cfg.TerminalCfg.Content.OverlayDir)
	p.setDuration("KP_COMMAND_TIMEOUT", &cfg.TerminalCfg.CommandTimeout)

	if cfg.HTTPSrvCfg.Port <= 0 || cfg.HTTPSrvCfg.Port > 65535 {
		p.errs = append(p.errs, fmt.Errorf("KP_PORT: %d out of range", cfg.HTTPSrvCfg.Port))
	}
	if err := errors.Join(p.errs...); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// defaultFlagsCfg returns the default FlagsConfig.
func defaultFlagsCfg() *FlagsConfig {
	return &FlagsConfig{
		Headless: false,
		Preload:  true,
		LogLevel: slog.LevelInfo,
	}
}

// defaultHTTPServerCfg returns sane defaults for the HTTP server.
func defaultHTTPServerCfg() *HTTPServerConfig {
	return &HTTPServerConfig{
		Port:         8080,
		ReadTimeout:  -1,
		WriteTimeout: -1,
		IdleTimeout:  -1,
		EnableTLS:    false,
		CertFile:     "./local_certs/localhost+2.pem",
		KeyFile:      "./local_certs/localhost+2-key.pem",
		SessionKey:   "very-secret-key-change-me",
	}
}

// defaultNatsCfg returns the default EmbeddedServerConfig.
func defaultNatsCfg() *EmbeddedServerConfig {
	return &EmbeddedServerConfig{
		InProcess:       true,
		EnableLogging:   true,
		JetStream:       true,
		JetStreamDomain: "",
		StoreDir:        "./store/js",
	}
}

func defaultTerminalCfg() *TerminalConfig {
	return &TerminalConfig{
		CommandTimeout: runtime.DefaultCommandTimeout,
		Content: content.Config{
			BaseURL: content.DefaultBaseURL,
			Timeout: 10 * time.Second,
		},
	}
}

// envParser collects parse errors so every bad variable is reported at once.
type envParser struct {
	lookup lookupFunc
	errs   []error
}

func (p *envParser) get(key string) (string, bool) {
	v, ok := p.lookup(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func (p *envParser) setString(key string, dst *string) {
	if v, ok := p.get(key); ok {
		*dst = v
	}
}

func (p *envParser) setInt(key string, dst *int) {
	v, ok := p.get(key)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return
	}
	*dst = n
}

func (p *envParser) setBool(key string, dst *bool) {
	v, ok := p.get(key)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return
	}
	*dst = b
}

func (p *envParser) setDuration(key string, dst *time.Duration) {
	v, ok := p.get(key)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return
	}
	*dst = d
}

func (p *envParser) setLevel(key string, dst *slog.Level) {
	v, ok := p.get(key)
	if !ok {
		return
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(v)); err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return
	}
	*dst = lvl
}
