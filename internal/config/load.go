package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "SPORTETL_"

// LoadFile builds a Config from defaults, an optional file at path, and the
// process environment. An empty path skips the file layer.
func LoadFile(path string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		fromFile, err := ReadFile(path)
		if err != nil {
			return Config{}, err
		}
		cfg = fromFile
	}
	cfg = ApplyEnv(cfg, os.Getenv)
	return ExpandPaths(cfg)
}

// ReadFile decodes a YAML or JSON config file. Missing fields take their
// default values.
func ReadFile(path string) (Config, error) {
	p, err := homedir.Expand(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config: expand %s", path)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return Config{}, errors.Wrap(err, "config: read")
	}
	return Decode(b)
}

// Decode parses YAML (JSON being a subset) into a Config and applies defaults.
func Decode(b []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "config: decode")
	}
	return cfg.withDefaults(), nil
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment without overriding variables that are already set. Files that
// do not exist are skipped.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		p, err := homedir.Expand(f)
		if err != nil {
			return errors.Wrapf(err, "config: expand %s", f)
		}
		if _, err := os.Stat(p); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return errors.Wrapf(err, "config: load %s", p)
		}
	}
	return nil
}

// ApplyEnv overlays SPORTETL_* variables read through getenv onto cfg.
// PUSHGATEWAY_URL is honoured without the prefix for compatibility with
// existing deployments.
func ApplyEnv(cfg Config, getenv func(string) string) Config {
	str := func(dst *string, name string) {
		if v := strings.TrimSpace(getenv(EnvPrefix + name)); v != "" {
			*dst = v
		}
	}
	dur := func(dst *time.Duration, name string) {
		if v := strings.TrimSpace(getenv(EnvPrefix + name)); v != "" {
			if d, err := time.ParseDuration(v); err == nil {
				*dst = d
			}
		}
	}

	str(&cfg.Job, "JOB")
	str(&cfg.LogLevel, "LOG_LEVEL")

	str(&cfg.Extract.URL, "URL")
	str(&cfg.Extract.APIKey, "API_KEY")
	str(&cfg.Extract.Output, "RAW_PATH")
	dur(&cfg.Extract.Timeout, "HTTP_TIMEOUT")
	if v := getenv(EnvPrefix + "INSECURE_SKIP_VERIFY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Extract.InsecureSkipVerify = b
		}
	}

	str(&cfg.Transform.Input, "RAW_PATH")
	str(&cfg.Transform.CleanedOutput, "CLEANED_PATH")
	str(&cfg.Transform.AggregateOutput, "AGGREGATE_PATH")

	str(&cfg.Load.DSN, "DSN")
	str(&cfg.Load.Input, "CLEANED_PATH")
	str(&cfg.Load.Table, "TABLE")
	str(&cfg.Load.Strategy, "LOAD_STRATEGY")
	dur(&cfg.Load.Timeout, "DB_TIMEOUT")

	str(&cfg.Metrics.Backend, "METRICS_BACKEND")
	str(&cfg.Metrics.DatadogAddr, "DATADOG_ADDR")
	if v := strings.TrimSpace(getenv("PUSHGATEWAY_URL")); v != "" {
		cfg.Metrics.PushgatewayURL = v
	}
	str(&cfg.Metrics.PushgatewayURL, "PUSHGATEWAY_URL")
	return cfg
}

// ExpandPaths resolves a leading ~ in every filesystem path.
func ExpandPaths(cfg Config) (Config, error) {
	paths := []*string{
		&cfg.Extract.Output,
		&cfg.Transform.Input,
		&cfg.Transform.CleanedOutput,
		&cfg.Transform.AggregateOutput,
		&cfg.Load.Input,
		&cfg.Load.AggregateInput,
	}
	for _, p := range paths {
		if *p == "" {
			continue
		}
		v, err := homedir.Expand(*p)
		if err != nil {
			return Config{}, errors.Wrapf(err, "config: expand %s", *p)
		}
		*p = v
	}
	return cfg, nil
}
