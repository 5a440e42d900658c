// Package config loads CLI settings from flags, PUMLSQL_* environment variables,
// .env files and a .pumlsql.yaml config file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// AppFs is the filesystem used for config files, .env files, diagrams and output
var AppFs = afero.NewOsFs()

// Config holds the application configuration
type Config struct {
	Format      string
	Output      string
	OutputDir   string
	FKColumns   bool
	FKPolicy    string
	LogLevel    string
	DatabaseURL string
}

// flagKeys maps config keys to the CLI flags that override them
var flagKeys = map[string]string{
	"format":     "format",
	"output":     "output",
	"output_dir": "output-dir",
	"fk_columns": "fk-columns",
	"fk_policy":  "fk-policy",
}

// Load reads the configuration. configFile, when set, replaces the config file search;
// flags, when non-nil, override every other source for the flags the user set.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetFs(AppFs)

	if configFile != "" {
		path, err := homedir.Expand(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to expand config path: %w", err)
		}
		v.SetConfigFile(path)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return nil, fmt.Errorf("failed to find home directory: %w", err)
		}
		v.SetConfigName(".pumlsql")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(home)
		v.AddConfigPath(filepath.Join(home, ".config", "pumlsql"))
	}

	v.SetEnvPrefix("PUMLSQL")
	v.AutomaticEnv()

	v.SetDefault("format", "sql")
	v.SetDefault("output", "")
	v.SetDefault("output_dir", "")
	v.SetDefault("fk_columns", false)
	v.SetDefault("fk_policy", "left")
	v.SetDefault("log_level", "warn")
	v.SetDefault("database_url", "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// .env.local is loaded last and wins over .env; neither replaces the real environment
	environ := environKeys()
	for _, name := range []string{".env", ".env.local"} {
		if err := loadDotenv(name, environ); err != nil {
			return nil, err
		}
	}

	if flags != nil {
		for key, name := range flagKeys {
			if flag := flags.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	databaseURL := v.GetString("database_url")
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}

	return &Config{
		Format:      v.GetString("format"),
		Output:      v.GetString("output"),
		OutputDir:   v.GetString("output_dir"),
		FKColumns:   v.GetBool("fk_columns"),
		FKPolicy:    v.GetString("fk_policy"),
		LogLevel:    v.GetString("log_level"),
		DatabaseURL: databaseURL,
	}, nil
}

// loadDotenv sets the variables of a .env file when it exists. Variables named in keep are
// left untouched.
func loadDotenv(name string, keep map[string]bool) error {
	file, err := AppFs.Open(name)
	if err != nil {
		return nil
	}
	defer func() { _ = file.Close() }()

	vars, err := godotenv.Parse(file)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}

	for key, value := range vars {
		if keep[key] {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("failed to set %s from %s: %w", key, name, err)
		}
	}
	return nil
}

// environKeys returns the names of the variables set in the process environment
func environKeys() map[string]bool {
	keys := make(map[string]bool)
	for _, kv := range os.Environ() {
		if key, _, ok := strings.Cut(kv, "="); ok {
			keys[key] = true
		}
	}
	return keys
}
