package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// FileEnv names the environment variable pointing at an optional TOML config file.
const FileEnv = "AD_SKIPPER_CONFIG"

type Config struct {
	ListenAddr     string     `toml:"listen_addr"`
	OpenAIAPIKey   string     `toml:"-"`
	OpenAIBaseURL  string     `toml:"openai_base_url"`
	Model          string     `toml:"model"`
	AllowedOrigins []string   `toml:"allowed_origins"`
	ServiceAPIKey  string     `toml:"-"`
	Environment    string     `toml:"environment"`
	LogLevel       string     `toml:"log_level"`
	Transcript     Transcript `toml:"transcript"`
	Matching       Matching   `toml:"matching"`
}

type Transcript struct {
	Languages []string `toml:"languages"`
	Timeout   Duration `toml:"timeout"`
}

type Matching struct {
	// Threshold is the partial-ratio score a segment must strictly exceed.
	Threshold int `toml:"threshold"`
	// SkipLeadSeconds drops segments starting before this offset.
	SkipLeadSeconds float64 `toml:"skip_lead_seconds"`
}

// Duration decodes TOML strings such as "15s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Error reports a missing or invalid setting.
type Error struct {
	Key    string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("config %s: %s", e.Key, e.Reason)
}

func Default() Config {
	return Config{
		ListenAddr:     ":8000",
		AllowedOrigins: []string{"http://example.com", "https://example.com"},
		Transcript: Transcript{
			Languages: []string{"en"},
			Timeout:   Duration{15 * time.Second},
		},
		Matching: Matching{
			Threshold:       70,
			SkipLeadSeconds: 10,
		},
	}
}

// Load builds the configuration from defaults, the optional TOML file named by
// AD_SKIPPER_CONFIG and the process environment, in that order.
func Load() (Config, error) {
	return LoadFrom(os.Getenv)
}

func LoadFrom(getenv func(string) string) (Config, error) {
	cfg := Default()

	if path := getenv(FileEnv); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, &Error{Key: FileEnv, Reason: err.Error()}
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, &Error{Key: FileEnv, Reason: fmt.Sprintf("parse %s: %v", path, err)}
		}
	}

	if err := applyEnv(&cfg, getenv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	setString := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	setList := func(key string, dst *[]string) {
		if v := getenv(key); strings.TrimSpace(v) != "" {
			*dst = splitList(v)
		}
	}

	setString("OPENAI_API_KEY", &cfg.OpenAIAPIKey)
	setString("OPENAI_BASE_URL", &cfg.OpenAIBaseURL)
	setString("OPENAI_MODEL", &cfg.Model)
	setString("LISTEN_ADDR", &cfg.ListenAddr)
	setString("SERVICE_API_KEY", &cfg.ServiceAPIKey)
	setString("ENVIRONMENT", &cfg.Environment)
	setString("LOG_LEVEL", &cfg.LogLevel)
	setList("ALLOWED_ORIGINS", &cfg.AllowedOrigins)
	setList("TRANSCRIPT_LANGUAGES", &cfg.Transcript.Languages)

	if v := getenv("MATCH_THRESHOLD"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return &Error{Key: "MATCH_THRESHOLD", Reason: err.Error()}
		}
		cfg.Matching.Threshold = n
	}
	if v := getenv("SKIP_LEAD_SECONDS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return &Error{Key: "SKIP_LEAD_SECONDS", Reason: err.Error()}
		}
		cfg.Matching.SkipLeadSeconds = f
	}
	if v := getenv("TRANSCRIPT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return &Error{Key: "TRANSCRIPT_TIMEOUT", Reason: err.Error()}
		}
		cfg.Transcript.Timeout = Duration{d}
	}
	return nil
}

func (c Config) Validate() error {
	var errs []error
	if c.OpenAIAPIKey == "" {
		errs = append(errs, &Error{Key: "OPENAI_API_KEY", Reason: "must be set"})
	}
	if c.Matching.Threshold < 0 || c.Matching.Threshold > 100 {
		errs = append(errs, &Error{Key: "MATCH_THRESHOLD", Reason: "must be between 0 and 100"})
	}
	if c.Matching.SkipLeadSeconds < 0 {
		errs = append(errs, &Error{Key: "SKIP_LEAD_SECONDS", Reason: "must not be negative"})
	}
	if c.Transcript.Timeout.Duration < 0 {
		errs = append(errs, &Error{Key: "TRANSCRIPT_TIMEOUT", Reason: "must not be negative"})
	}
	if len(c.AllowedOrigins) == 0 {
		errs = append(errs, &Error{Key: "ALLOWED_ORIGINS", Reason: "at least one origin is required"})
	}
	if len(c.Transcript.Languages) == 0 {
		errs = append(errs, &Error{Key: "TRANSCRIPT_LANGUAGES", Reason: "at least one language is required"})
	}
	return errors.Join(errs...)
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
