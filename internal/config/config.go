// Package config loads turknet-query settings from a YAML file, a .env
// file and environment variables, in increasing order of precedence.
//
// Every setting has a default that reproduces the behavior of the web
// forms the tool talks to, so running without any configuration works.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultTurknetBaseURL is the root of the primary provider's address service.
	DefaultTurknetBaseURL = "https://turk.net/service/AddressServ.svc"

	// DefaultTurknetReferer is the web form the primary provider expects
	// requests to come from.
	DefaultTurknetReferer = "https://turk.net/internet-hiz-altyapi-sorgulama/"

	// DefaultTurknetOrigin is sent alongside the referer.
	DefaultTurknetOrigin = "https://turk.net"

	// DefaultGoknetBaseURL is the lesser provider's infrastructure endpoint.
	DefaultGoknetBaseURL = "https://user.goknet.com.tr/sistem/getTTAddressWebservice.php"

	// DefaultGoknetReferer is the lesser provider's web form.
	DefaultGoknetReferer = "https://user.goknet.com.tr/inactive/service_availability.php"

	// DefaultUserAgent is the browser-like user agent both providers accept.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/85.0.4183.121 Safari/537.36"

	// envPrefix namespaces the environment variable overrides.
	envPrefix = "TURKNET_QUERY_"
)

// ErrInvalidConfig is wrapped by every configuration error.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all settings of one CLI run.
type Config struct {
	Turknet ProviderConfig `yaml:"turknet"`
	Goknet  ProviderConfig `yaml:"goknet"`

	// UserAgent is sent with every request.
	UserAgent string `yaml:"user_agent"`

	// Timeout bounds each HTTP exchange. Zero leaves the transport's
	// defaults in place.
	Timeout time.Duration `yaml:"timeout"`

	// CABundle is an optional PEM file whose certificates replace the
	// system roots when verifying the providers' TLS certificates.
	CABundle string `yaml:"ca_bundle"`

	// RequestsPerSecond paces outgoing requests. Zero disables pacing.
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	// LogFile, when set, receives JSON logs with rotation.
	LogFile string `yaml:"log_file"`
}

// ProviderConfig holds the endpoint settings of one provider.
type ProviderConfig struct {
	BaseURL string `yaml:"base_url"`
	Referer string `yaml:"referer"`
	Origin  string `yaml:"origin,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Turknet: ProviderConfig{
			BaseURL: DefaultTurknetBaseURL,
			Referer: DefaultTurknetReferer,
			Origin:  DefaultTurknetOrigin,
		},
		Goknet: ProviderConfig{
			BaseURL: DefaultGoknetBaseURL,
			Referer: DefaultGoknetReferer,
		},
		UserAgent: DefaultUserAgent,
	}
}

// Load builds the effective configuration.
//
// Resolution order:
//  1. Built-in defaults
//  2. The YAML file at path, or the first file found by DefaultPaths
//     when path is empty (a missing default file is not an error)
//  3. A .env file in the working directory, if present
//  4. TURKNET_QUERY_* environment variables
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = findConfigFile(DefaultPaths())
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if explicit || !os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: reading %s: %v", ErrInvalidConfig, path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: parsing %s: %v", ErrInvalidConfig, path, err)
		}
	}

	// godotenv.Load does not override variables that are already set,
	// so the real environment keeps precedence over .env.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: loading .env: %v", ErrInvalidConfig, err)
	}

	if err := mergeEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultPaths lists the config file locations searched when no explicit
// path is given, most specific first.
func DefaultPaths() []string {
	paths := []string{"./turknet-query.yaml", "./turknet-query.yml"}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "turknet-query", "config.yaml"))
	}
	return paths
}

func findConfigFile(paths []string) string {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// mergeEnv applies TURKNET_QUERY_* overrides.
func mergeEnv(cfg *Config) error {
	setString(&cfg.Turknet.BaseURL, "TURKNET_BASE_URL")
	setString(&cfg.Turknet.Referer, "TURKNET_REFERER")
	setString(&cfg.Turknet.Origin, "TURKNET_ORIGIN")
	setString(&cfg.Goknet.BaseURL, "GOKNET_BASE_URL")
	setString(&cfg.Goknet.Referer, "GOKNET_REFERER")
	setString(&cfg.UserAgent, "USER_AGENT")
	setString(&cfg.CABundle, "CA_BUNDLE")
	setString(&cfg.LogFile, "LOG_FILE")

	if v := os.Getenv(envPrefix + "TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %sTIMEOUT: %v", ErrInvalidConfig, envPrefix, err)
		}
		cfg.Timeout = d
	}

	if v := os.Getenv(envPrefix + "REQUESTS_PER_SECOND"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %sREQUESTS_PER_SECOND: %v", ErrInvalidConfig, envPrefix, err)
		}
		cfg.RequestsPerSecond = rps
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(envPrefix + key); v != "" {
		*dst = v
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	for name, raw := range map[string]string{
		"turknet.base_url": c.Turknet.BaseURL,
		"goknet.base_url":  c.Goknet.BaseURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: %s must be an absolute URL, got %q", ErrInvalidConfig, name, raw)
		}
	}
	if c.UserAgent == "" {
		return fmt.Errorf("%w: user_agent must not be empty", ErrInvalidConfig)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: timeout must not be negative", ErrInvalidConfig)
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: requests_per_second must not be negative", ErrInvalidConfig)
	}
	return nil
}
