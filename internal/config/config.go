package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/mpataki/agentbuilder/internal/pacing"
)

const (
	FileName = "config.toml"

	DefaultPacingMin = 400 * time.Millisecond
	DefaultPacingMax = 1200 * time.Millisecond
)

type Config struct {
	DataDir           string
	DBPath            string
	UserCatalogDir    string
	ProjectCatalogDir string
	ExtraCatalogDirs  []string
	ScriptPath        string
	ExportDir         string

	Log    LogConfig
	Pacing PacingConfig
}

type LogConfig struct {
	Level  string
	Format string
	File   string
}

type PacingConfig struct {
	Min time.Duration
	Max time.Duration
}

// fileConfig mirrors config.toml. Empty values leave the defaults alone.
type fileConfig struct {
	DBPath      string   `toml:"db_path"`
	Script      string   `toml:"script"`
	ExportDir   string   `toml:"export_dir"`
	CatalogDirs []string `toml:"catalog_dirs"`
	Log         struct {
		Level  string `toml:"level"`
		Format string `toml:"format"`
		File   string `toml:"file"`
	} `toml:"log"`
	Pacing struct {
		Min string `toml:"min"`
		Max string `toml:"max"`
	} `toml:"pacing"`
}

// New resolves configuration from defaults, then <data dir>/config.toml,
// then AGENTBUILDER_* environment variables.
func New() (*Config, error) {
	dataDir, ok := os.LookupEnv("AGENTBUILDER_DATA_DIR")
	if !ok {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dataDir = filepath.Join(homeDir, ".agentbuilder")
	}

	c := &Config{
		DataDir:           dataDir,
		DBPath:            filepath.Join(dataDir, "agentbuilder.db"),
		UserCatalogDir:    filepath.Join(dataDir, "catalog"),
		ProjectCatalogDir: filepath.Join(".agentbuilder", "catalog"),
		ExportDir:         "exports",
		Log: LogConfig{
			Level:  "info",
			Format: "console",
			File:   filepath.Join(dataDir, "agentbuilder.log"),
		},
		Pacing: PacingConfig{Min: DefaultPacingMin, Max: DefaultPacingMax},
	}

	path := getEnv("AGENTBUILDER_CONFIG", filepath.Join(dataDir, FileName))
	if err := c.loadFile(path); err != nil {
		return nil, err
	}
	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	if c.Pacing.Max > 0 && c.Pacing.Max < c.Pacing.Min {
		return nil, fmt.Errorf("pacing max %s is below min %s", c.Pacing.Max, c.Pacing.Min)
	}

	return c, nil
}

func (c *Config) loadFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var f fileConfig
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	setIf(&c.DBPath, f.DBPath)
	setIf(&c.ScriptPath, f.Script)
	setIf(&c.ExportDir, f.ExportDir)
	c.ExtraCatalogDirs = append(c.ExtraCatalogDirs, f.CatalogDirs...)
	setIf(&c.Log.Level, f.Log.Level)
	setIf(&c.Log.Format, f.Log.Format)
	setIf(&c.Log.File, f.Log.File)

	if err := setDuration(&c.Pacing.Min, f.Pacing.Min); err != nil {
		return fmt.Errorf("%s: pacing.min: %w", path, err)
	}
	if err := setDuration(&c.Pacing.Max, f.Pacing.Max); err != nil {
		return fmt.Errorf("%s: pacing.max: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.DBPath = getEnv("AGENTBUILDER_DB", c.DBPath)
	c.ScriptPath = getEnv("AGENTBUILDER_SCRIPT", c.ScriptPath)
	c.ExportDir = getEnv("AGENTBUILDER_EXPORT_DIR", c.ExportDir)
	c.Log.Level = getEnv("AGENTBUILDER_LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("AGENTBUILDER_LOG_FORMAT", c.Log.Format)
	c.Log.File = getEnv("AGENTBUILDER_LOG_FILE", c.Log.File)

	if err := setDuration(&c.Pacing.Min, os.Getenv("AGENTBUILDER_PACING_MIN")); err != nil {
		return fmt.Errorf("AGENTBUILDER_PACING_MIN: %w", err)
	}
	if err := setDuration(&c.Pacing.Max, os.Getenv("AGENTBUILDER_PACING_MAX")); err != nil {
		return fmt.Errorf("AGENTBUILDER_PACING_MAX: %w", err)
	}
	return nil
}

func (c *Config) EnsureDataDir() error {
	if err := os.MkdirAll(c.DataDir, 0755); err != nil {
		return err
	}
	if err := os.MkdirAll(c.UserCatalogDir, 0755); err != nil {
		return err
	}
	return nil
}

// CatalogDirs lists override directories, lowest precedence first.
func (c *Config) CatalogDirs() []string {
	dirs := []string{c.UserCatalogDir, c.ProjectCatalogDir}
	return append(dirs, c.ExtraCatalogDirs...)
}

// Pacer returns the reply pacer. A zero max disables pacing.
func (c *Config) Pacer() pacing.Pacer {
	if c.Pacing.Max <= 0 {
		return pacing.None
	}
	return pacing.Jitter(c.Pacing.Min, c.Pacing.Max, time.Now().UnixNano())
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v string) error {
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return err
	}
	if d < 0 {
		return fmt.Errorf("negative duration %s", v)
	}
	*dst = d
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
