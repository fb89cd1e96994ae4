package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/electr1fy0/knotes/storage"
)

const envPrefix = "KNOTES"

// StorageConfig selects the KV backend.
type StorageConfig struct {
	Backend    string `mapstructure:"backend" toml:"backend"`
	Path       string `mapstructure:"path" toml:"path"`
	Passphrase string `mapstructure:"passphrase" toml:"passphrase"`
}

// LogConfig controls the log file. File "-" logs to stderr, "" disables logging.
type LogConfig struct {
	Level string `mapstructure:"level" toml:"level"`
	File  string `mapstructure:"file" toml:"file"`
}

type UIConfig struct {
	DateFormat string `mapstructure:"date_format" toml:"date_format"`
}

type Config struct {
	Storage StorageConfig `mapstructure:"storage" toml:"storage"`
	Log     LogConfig     `mapstructure:"log" toml:"log"`
	UI      UIConfig      `mapstructure:"ui" toml:"ui"`
}

// DefaultDateFormat renders like "May 1, 2025, 10:30 AM".
const DefaultDateFormat = "Jan 2, 2006, 03:04 PM"

var flagKeys = map[string]string{
	"backend":   "storage.backend",
	"path":      "storage.path",
	"log-file":  "log.file",
	"log-level": "log.level",
}

// RegisterFlags adds the config-related flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to config file (default ~/.knotes/config.toml)")
	fs.String("backend", "", "storage backend: bolt, file, sqlcipher or memory")
	fs.String("path", "", "storage file path")
	fs.String("log-file", "", `log file path ("-" for stderr)`)
	fs.String("log-level", "", "log level: debug, info, warn or error")
}

// DefaultFile is the config file read when --config is not given.
func DefaultFile() (string, error) {
	dir, err := storage.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load merges defaults, the config file, KNOTES_* environment variables (a
// .env file in the working directory included) and flags, in increasing
// order of precedence.
func Load(fs *pflag.FlagSet) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	if err := setDefaults(v); err != nil {
		return nil, err
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := ""
	if fs != nil {
		if f := fs.Lookup("config"); f != nil {
			explicit = f.Value.String()
		}
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("v.BindPFlag(%s): %w", name, err)
				}
			}
		}
	}
	if err := readConfigFile(v, explicit); err != nil {
		return nil, err
	}

	for _, k := range v.AllKeys() {
		if s, ok := v.Get(k).(string); ok && s != "" {
			v.Set(k, expandEnvWithDefaults(s))
		}
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("v.Unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Defaults is the configuration used when nothing overrides it.
func Defaults() (Config, error) {
	dir, err := storage.DataDir()
	if err != nil {
		return Config{}, err
	}
	return Config{
		Storage: StorageConfig{Backend: storage.BackendBolt},
		Log:     LogConfig{Level: "info", File: filepath.Join(dir, "knotes.log")},
		UI:      UIConfig{DateFormat: DefaultDateFormat},
	}, nil
}

func setDefaults(v *viper.Viper) error {
	d, err := Defaults()
	if err != nil {
		return err
	}
	v.SetDefault("storage.backend", d.Storage.Backend)
	v.SetDefault("storage.path", d.Storage.Path)
	v.SetDefault("storage.passphrase", d.Storage.Passphrase)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("ui.date_format", d.UI.DateFormat)
	return nil
}

// WriteDefault writes Defaults as TOML to path. An existing file is left alone.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	d, err := Defaults()
	if err != nil {
		return err
	}
	data, err := toml.Marshal(d)
	if err != nil {
		return fmt.Errorf("toml.Marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("os.MkdirAll: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

// readConfigFile reads path, or the default file when path is empty. Only an
// explicitly requested file has to exist.
func readConfigFile(v *viper.Viper, path string) error {
	required := path != ""
	if !required {
		p, err := DefaultFile()
		if err != nil {
			return err
		}
		path = p
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) && !required {
		return nil
	}
	ext := strings.TrimLeft(filepath.Ext(path), ".")
	if ext == "" {
		ext = "toml"
	}
	v.SetConfigFile(path)
	v.SetConfigType(ext)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("v.ReadInConfig: %w", err)
	}
	return nil
}

var envRef = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandEnvWithDefaults replaces ${VAR} and ${VAR:-default}.
func expandEnvWithDefaults(s string) string {
	return envRef.ReplaceAllStringFunc(s, func(match string) string {
		m := envRef.FindStringSubmatch(match)
		if value := os.Getenv(m[1]); value != "" {
			return value
		}
		return m[2]
	})
}

func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case storage.BackendBolt, storage.BackendFile, storage.BackendSQLCipher, storage.BackendMemory:
	default:
		return fmt.Errorf("storage.backend: %w: %q", storage.ErrUnsupportedBackend, c.Storage.Backend)
	}
	if c.Storage.Backend == storage.BackendSQLCipher && c.Storage.Passphrase == "" {
		return errors.New("storage.passphrase is required for the sqlcipher backend")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level: unknown level %q", c.Log.Level)
	}
	if strings.TrimSpace(c.UI.DateFormat) == "" {
		c.UI.DateFormat = DefaultDateFormat
	}
	return nil
}

// StorageOptions converts the storage section for storage.OpenKV.
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		Backend:    c.Storage.Backend,
		Path:       c.Storage.Path,
		Passphrase: c.Storage.Passphrase,
	}
}
