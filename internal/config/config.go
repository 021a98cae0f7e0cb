package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	LogLevel        string `mapstructure:"log_level" yaml:"log_level"`
	OutputFormat    string `mapstructure:"output_format" yaml:"output_format"`
	SampleRows      int    `mapstructure:"sample_rows" yaml:"sample_rows"`
	TopCorrelations int    `mapstructure:"top_correlations" yaml:"top_correlations"`

	// HTTP server
	ListenAddr  string `mapstructure:"listen_addr" yaml:"listen_addr"`
	MaxUploadMB int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`

	// Batch analysis
	BatchWorkers int    `mapstructure:"batch_workers" yaml:"batch_workers"`
	ReportsDir   string `mapstructure:"reports_dir" yaml:"reports_dir"`
}

// Keys lists the configuration keys in display order.
var Keys = []string{
	"log_level",
	"output_format",
	"sample_rows",
	"top_correlations",
	"listen_addr",
	"max_upload_mb",
	"batch_workers",
	"reports_dir",
}

// Defaults returns the built-in configuration. ReportsDir is left empty and
// resolved by Load.
func Defaults() Global {
	return Global{
		LogLevel:        "info",
		OutputFormat:    "markdown",
		SampleRows:      5,
		TopCorrelations: 10,
		ListenAddr:      "127.0.0.1:8080",
		MaxUploadMB:     10,
		BatchWorkers:    4,
	}
}

// Dir returns ~/.csvscope.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".csvscope"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.csvscope/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env (including .env files) > config file > defaults.
// A .env in the working directory is read first, then ~/.csvscope/.env;
// neither overrides variables already set in the environment.
func Load(cfgFile string) (*Global, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	if err := loadDotenv(".env", filepath.Join(dir, ".env")); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix("CSVSCOPE")
	v.AutomaticEnv()

	d := Defaults()
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("output_format", d.OutputFormat)
	v.SetDefault("sample_rows", d.SampleRows)
	v.SetDefault("top_correlations", d.TopCorrelations)
	v.SetDefault("listen_addr", d.ListenAddr)
	v.SetDefault("max_upload_mb", d.MaxUploadMB)
	v.SetDefault("batch_workers", d.BatchWorkers)
	v.SetDefault("reports_dir", d.ReportsDir)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.ReportsDir == "" {
		c.ReportsDir = filepath.Join(dir, "reports")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func loadDotenv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Validate checks enumerations and numeric ranges.
func (c *Global) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %s", c.LogLevel)
	}
	switch c.OutputFormat {
	case "markdown", "json":
	default:
		return fmt.Errorf("invalid output_format: %s (use markdown or json)", c.OutputFormat)
	}
	if c.SampleRows < 0 {
		return fmt.Errorf("invalid sample_rows: %d", c.SampleRows)
	}
	if c.TopCorrelations < 0 {
		return fmt.Errorf("invalid top_correlations: %d", c.TopCorrelations)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("invalid max_upload_mb: %d", c.MaxUploadMB)
	}
	if c.BatchWorkers <= 0 {
		return fmt.Errorf("invalid batch_workers: %d", c.BatchWorkers)
	}
	return nil
}

// Set assigns one key from its string form.
func (c *Global) Set(key, val string) error {
	atoi := func() (int, error) {
		i, err := strconv.Atoi(val)
		if err != nil {
			return 0, fmt.Errorf("invalid int for %s: %v", key, val)
		}
		return i, nil
	}
	var err error
	switch key {
	case "log_level":
		lvl, perr := logrus.ParseLevel(val)
		if perr != nil {
			return fmt.Errorf("invalid log_level: %s", val)
		}
		c.LogLevel = lvl.String()
	case "output_format":
		c.OutputFormat = strings.ToLower(val)
	case "sample_rows":
		c.SampleRows, err = atoi()
	case "top_correlations":
		c.TopCorrelations, err = atoi()
	case "listen_addr":
		c.ListenAddr = val
	case "max_upload_mb":
		c.MaxUploadMB, err = atoi()
	case "batch_workers":
		c.BatchWorkers, err = atoi()
	case "reports_dir":
		c.ReportsDir = val
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	if err != nil {
		return err
	}
	return c.Validate()
}

// Get returns the string form of one key.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "log_level":
		return c.LogLevel, nil
	case "output_format":
		return c.OutputFormat, nil
	case "sample_rows":
		return strconv.Itoa(c.SampleRows), nil
	case "top_correlations":
		return strconv.Itoa(c.TopCorrelations), nil
	case "listen_addr":
		return c.ListenAddr, nil
	case "max_upload_mb":
		return strconv.Itoa(c.MaxUploadMB), nil
	case "batch_workers":
		return strconv.Itoa(c.BatchWorkers), nil
	case "reports_dir":
		return c.ReportsDir, nil
	}
	return "", fmt.Errorf("unknown key: %s", key)
}

// MaxUploadBytes converts MaxUploadMB to bytes.
func (c *Global) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}
