package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spiffcs/prsweep/internal/constants"
	"gopkg.in/yaml.v3"
)

// Environment variable names
const (
	EnvGitHubToken    = "GITHUB_TOKEN"
	EnvOrgName        = "ORG_NAME"
	EnvDaysStale      = "DAYS_STALE"
	EnvDaysClose      = "DAYS_CLOSE"
	EnvWebhookURL     = "TEAMS_WEBHOOK_URL"
	EnvAdmin          = "ADMIN_GITHUB_USERNAME"
	EnvGitHubAPIURL   = "GITHUB_API_URL"
	EnvPushgatewayURL = "PUSHGATEWAY_URL"
	EnvHTTPTimeout    = "HTTP_TIMEOUT"
)

// ErrMissingEnv is returned when a required environment variable is unset or empty.
var ErrMissingEnv = errors.New("required environment variable not set")

// Config holds the run parameters. It is built once at startup and never
// mutated afterwards.
type Config struct {
	// Token is intentionally excluded from every serialized form.
	Token string `yaml:"-" json:"-"`

	Org        string        `yaml:"org" json:"org"`
	DaysStale  int           `yaml:"days_stale" json:"days_stale"`
	DaysClose  int           `yaml:"days_close" json:"days_close"`
	WebhookURL string        `yaml:"webhook_url,omitempty" json:"webhook_url,omitempty"`
	Admin      string        `yaml:"admin" json:"admin"`
	APIURL     string        `yaml:"api_url,omitempty" json:"api_url,omitempty"`
	PushURL    string        `yaml:"pushgateway_url,omitempty" json:"pushgateway_url,omitempty"`
	Timeout    time.Duration `yaml:"http_timeout" json:"http_timeout"`
}

// LookupFunc matches the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	return LoadFrom(os.LookupEnv)
}

// LoadFrom reads the configuration using the given lookup function.
// Missing required values and non-numeric thresholds are errors.
func LoadFrom(lookup LookupFunc) (*Config, error) {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	token := get(EnvGitHubToken)
	if token == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingEnv, EnvGitHubToken)
	}
	org := get(EnvOrgName)
	if org == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingEnv, EnvOrgName)
	}

	daysStale, err := intOrDefault(get(EnvDaysStale), EnvDaysStale, constants.DefaultDaysStale)
	if err != nil {
		return nil, err
	}
	daysClose, err := intOrDefault(get(EnvDaysClose), EnvDaysClose, constants.DefaultDaysClose)
	if err != nil {
		return nil, err
	}

	timeout := constants.DefaultHTTPTimeout
	if raw := get(EnvHTTPTimeout); raw != "" {
		timeout, err = time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", EnvHTTPTimeout, raw, err)
		}
	}

	admin := get(EnvAdmin)
	if admin == "" {
		admin = constants.DefaultAdmin
	}

	return &Config{
		Token:      token,
		Org:        org,
		DaysStale:  daysStale,
		DaysClose:  daysClose,
		WebhookURL: get(EnvWebhookURL),
		Admin:      admin,
		APIURL:     get(EnvGitHubAPIURL),
		PushURL:    get(EnvPushgatewayURL),
		Timeout:    timeout,
	}, nil
}

func intOrDefault(raw, key string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be an integer number of days", key, raw)
	}
	return n, nil
}

// NotificationsEnabled reports whether a webhook URL is configured.
func (c *Config) NotificationsEnabled() bool {
	return c.WebhookURL != ""
}

// ToYAML returns the config as a YAML string. The token is never included.
func (c *Config) ToYAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(data), nil
}

// ToJSON returns the config as indented JSON. The token is never included.
func (c *Config) ToJSON() (string, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(data), nil
}
