// Package config loads YAML configuration from disk and seeds a default
// file on first run.
package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Michael-Yan-wun/google-calendar-tool/internal/domain"
	"github.com/Michael-Yan-wun/google-calendar-tool/internal/ports"
)

// FileLoader loads YAML configuration from ~/.gcaltool/config.yaml
// (overridable via GCALTOOL_CONFIG).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader. It also loads a .env file from the
// working directory when one exists, so API keys can live next to the
// deployment instead of the shell profile.
func NewFileLoader(path string) *FileLoader {
	_ = godotenv.Load()
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.resolvePath()
	if err := ensureConfigDir(path); err != nil {
		return domain.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := defaultConfig()
			if err := writeDefault(path, cfg); err != nil {
				return domain.Config{}, err
			}
			return cfg, nil
		}
		return domain.Config{}, err
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, err
	}

	return hydrateDefaults(cfg), nil
}

func (l *FileLoader) resolvePath() string {
	if l.overridePath != "" {
		return l.overridePath
	}
	if custom := os.Getenv("GCALTOOL_CONFIG"); custom != "" {
		return expandPath(custom)
	}
	return filepath.Join(userHomeDir(), ".gcaltool", "config.yaml")
}

func ensureConfigDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

func writeDefault(path string, cfg domain.Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o600)
}

func defaultConfig() domain.Config {
	return domain.Config{
		ConfigFormatVersion: "1",
		Server: domain.ServerSettings{
			Listen:          ":3000",
			StaticDir:       "public",
			SessionTTLHours: 24,
		},
		Google: domain.GoogleSettings{
			ClientIDEnvVar:     "GOOGLE_CLIENT_ID",
			ClientSecretEnvVar: "GOOGLE_CLIENT_SECRET",
			RedirectURL:        "http://localhost:3000/auth/google/callback",
			CalendarID:         "primary",
		},
		Preferences: domain.Preferences{
			DefaultModel:   "gemini-pro",
			FallbackModels: []string{"gemini-1.5-flash", "gemini-1.5-pro"},
		},
		Models: []domain.ModelDefinition{
			{
				Name:       "gemini-pro",
				AuthEnvVar: "GEMINI_API_KEY",
				ModelID:    "gemini-pro",
			},
			{
				Name:       "gemini-1.5-flash",
				AuthEnvVar: "GEMINI_API_KEY",
				ModelID:    "gemini-1.5-flash",
			},
			{
				Name:       "gemini-1.5-pro",
				AuthEnvVar: "GEMINI_API_KEY",
				ModelID:    "gemini-1.5-pro",
			},
		},
	}
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":3000"
	}
	if cfg.Server.SessionTTLHours == 0 {
		cfg.Server.SessionTTLHours = 24
	}
	if cfg.Google.ClientIDEnvVar == "" {
		cfg.Google.ClientIDEnvVar = "GOOGLE_CLIENT_ID"
	}
	if cfg.Google.ClientSecretEnvVar == "" {
		cfg.Google.ClientSecretEnvVar = "GOOGLE_CLIENT_SECRET"
	}
	if cfg.Google.CalendarID == "" {
		cfg.Google.CalendarID = "primary"
	}
	if cfg.Preferences.DefaultModel == "" && len(cfg.Models) > 0 {
		cfg.Preferences.DefaultModel = cfg.Models[0].Name
	}
	return cfg
}

func expandPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if len(path) > 1 && path[:2] == "~/" {
		return filepath.Join(userHomeDir(), path[2:])
	}
	return filepath.Clean(path)
}

func userHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
