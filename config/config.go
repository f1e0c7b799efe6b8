package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Rasterizer backends.
const (
	RasterizerNative = "native"
	RasterizerChrome = "chrome"
)

// Config structure
type Config struct {
	Listen              string   `json:"listen"`
	DataDir             string   `json:"dataDir"`
	LogDir              string   `json:"logDir"`
	DatabasePath        string   `json:"databasePath"`
	ExtractionURL       string   `json:"extractionURL"` // PDF term extraction service
	ImageURL            string   `json:"imageURL"`      // image generation service
	TOCURL              string   `json:"tocURL"`        // outline generation service
	DefaultTheme        string   `json:"defaultTheme"`
	Rasterizer          string   `json:"rasterizer"` // "native" or "chrome"
	ChromePath          string   `json:"chromePath,omitempty"`
	FontDirs            []string `json:"fontDirs,omitempty"`
	AssetTimeoutSeconds int      `json:"assetTimeoutSeconds"`
	MaxUploadBytes      int64    `json:"maxUploadBytes"`
	PublicOrigin        string   `json:"publicOrigin"` // prefix of share links
}

// Default returns the configuration used when no file exists.
func Default() Config {
	home, _ := os.UserHomeDir()
	dataDir := filepath.Join(home, ".slideshow")
	return Config{
		Listen:              "127.0.0.1:5173",
		DataDir:             dataDir,
		LogDir:              filepath.Join(dataDir, "logs"),
		DatabasePath:        filepath.Join(dataDir, "slideshow.db"),
		ExtractionURL:       "http://localhost:5000",
		ImageURL:            "http://localhost:5000",
		TOCURL:              "http://localhost:5000",
		DefaultTheme:        "default",
		Rasterizer:          RasterizerNative,
		AssetTimeoutSeconds: 15,
		MaxUploadBytes:      32 << 20,
		PublicOrigin:        "http://localhost:5173",
	}
}

// Load reads the JSON file at path over the defaults. A missing file yields
// the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.fillDefaults()
	return cfg, nil
}

// fillDefaults restores zero-valued fields that have a default.
func (c *Config) fillDefaults() {
	d := Default()
	if c.DataDir == "" {
		c.DataDir = d.DataDir
	}
	if c.LogDir == "" {
		c.LogDir = filepath.Join(c.DataDir, "logs")
	}
	if c.DatabasePath == "" {
		c.DatabasePath = filepath.Join(c.DataDir, "slideshow.db")
	}
	if c.Rasterizer == "" {
		c.Rasterizer = d.Rasterizer
	}
	if c.AssetTimeoutSeconds <= 0 {
		c.AssetTimeoutSeconds = d.AssetTimeoutSeconds
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = d.MaxUploadBytes
	}
	if c.DefaultTheme == "" {
		c.DefaultTheme = d.DefaultTheme
	}
}

// Save writes the configuration to path through a temporary file.
func (c Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".config-*.json")
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

// ApplyEnv overrides fields from SLIDESHOW_* environment variables.
// Malformed numeric values are reported and leave the field unchanged.
func (c *Config) ApplyEnv() error {
	return c.applyEnv(os.LookupEnv)
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strVars := []struct {
		name string
		dst  *string
	}{
		{"SLIDESHOW_LISTEN", &c.Listen},
		{"SLIDESHOW_DATA_DIR", &c.DataDir},
		{"SLIDESHOW_LOG_DIR", &c.LogDir},
		{"SLIDESHOW_DATABASE", &c.DatabasePath},
		{"SLIDESHOW_EXTRACTION_URL", &c.ExtractionURL},
		{"SLIDESHOW_IMAGE_URL", &c.ImageURL},
		{"SLIDESHOW_TOC_URL", &c.TOCURL},
		{"SLIDESHOW_THEME", &c.DefaultTheme},
		{"SLIDESHOW_RASTERIZER", &c.Rasterizer},
		{"SLIDESHOW_CHROME_PATH", &c.ChromePath},
		{"SLIDESHOW_PUBLIC_ORIGIN", &c.PublicOrigin},
	}
	for _, v := range strVars {
		if val, ok := lookup(v.name); ok {
			*v.dst = val
		}
	}
	if val, ok := lookup("SLIDESHOW_FONT_DIRS"); ok {
		c.FontDirs = filepath.SplitList(val)
	}

	var errs []error
	if val, ok := lookup("SLIDESHOW_ASSET_TIMEOUT"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			errs = append(errs, fmt.Errorf("SLIDESHOW_ASSET_TIMEOUT: %w", err))
		} else {
			c.AssetTimeoutSeconds = n
		}
	}
	if val, ok := lookup("SLIDESHOW_MAX_UPLOAD_BYTES"); ok {
		n, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("SLIDESHOW_MAX_UPLOAD_BYTES: %w", err))
		} else {
			c.MaxUploadBytes = n
		}
	}
	return errors.Join(errs...)
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var errs []error
	if c.Listen == "" {
		errs = append(errs, errors.New("listen address is empty"))
	}
	if c.Rasterizer != RasterizerNative && c.Rasterizer != RasterizerChrome {
		errs = append(errs, fmt.Errorf("unknown rasterizer %q", c.Rasterizer))
	}
	if c.AssetTimeoutSeconds <= 0 {
		errs = append(errs, errors.New("asset timeout must be positive"))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("max upload bytes must be positive"))
	}
	if c.DatabasePath == "" {
		errs = append(errs, errors.New("database path is empty"))
	}
	return errors.Join(errs...)
}

// AssetTimeout returns the per-asset fetch timeout.
func (c Config) AssetTimeout() time.Duration {
	return time.Duration(c.AssetTimeoutSeconds) * time.Second
}
