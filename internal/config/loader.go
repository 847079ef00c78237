package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// ProjectConfigFile is the name of the project-level config file
	ProjectConfigFile = "idscheck.yaml"
	// EnvPrefix prefixes every environment variable read by the loader
	EnvPrefix = "IDSCHECK_"
)

// Loader handles configuration loading with layered precedence
type Loader struct {
	logger *slog.Logger

	// EnvFiles are dotenv files read before the process environment.
	// Missing files are skipped.
	EnvFiles []string
	// LookupEnv reads the process environment.
	LookupEnv func(string) (string, bool)
	// Getwd returns the directory the project config search starts from.
	Getwd func() (string, error)
}

// NewLoader creates a new configuration loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger:    logger,
		EnvFiles:  []string{".env"},
		LookupEnv: os.LookupEnv,
		Getwd:     os.Getwd,
	}
}

// Load loads configuration with layered precedence:
// 1. Default config
// 2. Config file (path, or idscheck.yaml in current or parent directories)
// 3. .env files
// 4. Environment variables (IDSCHECK_*)
//
// Command line flags are applied by the caller on top of the result.
func (l *Loader) Load(path string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		fileConfig, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		l.logger.Debug("Loaded config", slog.String("path", path))
		config.Merge(fileConfig)
	} else if projectConfigPath := l.findProjectConfig(); projectConfigPath != "" {
		if projectConfig, err := LoadFromFile(projectConfigPath); err == nil {
			l.logger.Debug("Loaded project config", slog.String("path", projectConfigPath))
			config.Merge(projectConfig)
		} else {
			l.logger.Warn("Failed to load project config", slog.String("path", projectConfigPath), slog.String("error", err.Error()))
		}
	} else {
		l.logger.Debug("No project config found")
	}

	if err := l.applyEnv(config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnv overlays IDSCHECK_* variables. Process variables win over dotenv
// files.
func (l *Loader) applyEnv(c *Config) error {
	dotenv := map[string]string{}
	for _, f := range l.EnvFiles {
		vals, err := godotenv.Read(f)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			l.logger.Warn("Failed to read env file", slog.String("path", f), slog.String("error", err.Error()))
			continue
		}
		for k, v := range vals {
			dotenv[k] = v
		}
	}
	get := func(key string) (string, bool) {
		key = EnvPrefix + key
		if l.LookupEnv != nil {
			if v, ok := l.LookupEnv(key); ok {
				return v, true
			}
		}
		v, ok := dotenv[key]
		return v, ok
	}

	if v, ok := get("LANG"); ok && v != "" {
		c.Lang = v
	}
	if v, ok := get("FORMAT"); ok && v != "" {
		c.Format = strings.ToLower(v)
	}
	if v, ok := get("METRICS_FILE"); ok {
		c.MetricsFile = v
	}
	if v, ok := get("LOG_LEVEL"); ok && v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v, ok := get("LOG_FORMAT"); ok && v != "" {
		c.Log.Format = strings.ToLower(v)
	}

	var errs []error
	if v, ok := get("MAX_ENTITIES"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, envError("MAX_ENTITIES", err))
		} else {
			c.MaxEntities = n
		}
	}
	if v, ok := get("CONCURRENCY"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, envError("CONCURRENCY", err))
		} else {
			c.Concurrency = n
		}
	}
	if v, ok := get("OMIT_PASSING"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, envError("OMIT_PASSING", err))
		} else {
			c.OmitPassing = b
		}
	}
	return errors.Join(errs...)
}

func envError(key string, err error) error {
	return &EnvError{Key: EnvPrefix + key, Err: err}
}

// EnvError reports an environment variable that could not be parsed.
type EnvError struct {
	Key string
	Err error
}

func (e *EnvError) Error() string { return e.Key + ": " + e.Err.Error() }
func (e *EnvError) Unwrap() error { return e.Err }

// findProjectConfig searches for idscheck.yaml in current and parent directories
func (l *Loader) findProjectConfig() string {
	if l.Getwd == nil {
		return ""
	}
	cwd, err := l.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		configPath := filepath.Join(dir, ProjectConfigFile)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
