package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	ConfigFile = "distship.yml"
	EnvFile    = ".env"
	EnvPrefix  = "DISTSHIP"
)

// SearchNames lists the file names Find looks for, in order.
var SearchNames = []string{ConfigFile, "distship.yaml", ".distship.yml", ".distship.yaml"}

// envKeys maps config keys onto the environment variables that override them.
var envKeys = map[string]string{
	"remoteHost":      EnvPrefix + "_REMOTE_HOST",
	"remoteUser":      EnvPrefix + "_REMOTE_USER",
	"remotePort":      EnvPrefix + "_REMOTE_PORT",
	"remoteTargetDir": EnvPrefix + "_REMOTE_TARGET_DIR",
	"backupDir":       EnvPrefix + "_BACKUP_DIR",
	"privateKeyPath":  EnvPrefix + "_PRIVATE_KEY_PATH",
	"transport":       EnvPrefix + "_TRANSPORT",
	"localSourceDir":  EnvPrefix + "_LOCAL_SOURCE_DIR",
	"autoConfirm":     EnvPrefix + "_AUTO_CONFIRM",
	"build.command":   EnvPrefix + "_BUILD_COMMAND",
	"build.outDir":    EnvPrefix + "_BUILD_OUT_DIR",
	"build.mode":      EnvPrefix + "_BUILD_MODE",
}

// Loader discovers and reads the project config file.
type Loader struct {
	Fs        afero.Fs
	Dir       string
	LookupEnv func(string) (string, bool)
	HomeDir   func() (string, error)
}

// Loaded is the result of reading a config file.
type Loaded struct {
	Path     string
	Options  Options
	Warnings []string
}

// NewLoader returns a Loader bound to the OS filesystem and environment,
// searching the current working directory.
func NewLoader() *Loader {
	return &Loader{
		Fs:        afero.NewOsFs(),
		Dir:       ".",
		LookupEnv: os.LookupEnv,
		HomeDir:   os.UserHomeDir,
	}
}

// Find resolves the config file path. An explicit path must exist; otherwise
// the first of SearchNames present in l.Dir is used.
func (l *Loader) Find(explicit string) (string, error) {
	if explicit != "" {
		if ok, _ := afero.Exists(l.Fs, explicit); !ok {
			return "", &ConfigError{Err: fmt.Errorf("%w: %s", ErrConfigNotFound, explicit)}
		}
		return explicit, nil
	}

	for _, name := range SearchNames {
		candidate := filepath.Join(l.Dir, name)
		if ok, _ := afero.Exists(l.Fs, candidate); ok {
			return candidate, nil
		}
	}
	return "", &ConfigError{Err: fmt.Errorf("%w: looked for %s in %s", ErrConfigNotFound, strings.Join(SearchNames, ", "), l.Dir)}
}

// LoadOptions finds and reads the config file, then applies environment
// overrides (process environment first, then the project .env file).
func (l *Loader) LoadOptions(explicit string) (*Loaded, error) {
	path, err := l.Find(explicit)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetFs(l.Fs)
	v.SetConfigFile(path)
	switch filepath.Ext(path) {
	case ".yml", ".yaml":
	default:
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("read %s: %w", path, err)}
	}

	dotenv, err := l.readDotEnv()
	if err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("read %s: %w", EnvFile, err)}
	}
	for key, name := range envKeys {
		if val, ok := l.lookup(name, dotenv); ok {
			v.Set(key, val)
		}
	}

	var opts Options
	if err := v.Unmarshal(&opts); err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("decode %s: %w", path, err)}
	}

	if opts.PrivateKeyPath, err = l.expandHome(opts.PrivateKeyPath); err != nil {
		return nil, fieldError("privateKeyPath", err)
	}

	warnings, err := l.unknownKeys(path)
	if err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("parse %s: %w", path, err)}
	}

	return &Loaded{Path: path, Options: opts, Warnings: warnings}, nil
}

// Load is the single typed extraction point used by the CLI: it discovers the
// config file, reads it and normalizes the result.
func Load(explicit string) (*DeploymentConfig, *Loaded, error) {
	loaded, err := NewLoader().LoadOptions(explicit)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := Normalize(loaded.Options)
	if err != nil {
		return nil, loaded, err
	}
	return cfg, loaded, nil
}

func (l *Loader) lookup(name string, dotenv map[string]string) (string, bool) {
	if l.LookupEnv != nil {
		if val, ok := l.LookupEnv(name); ok {
			return val, true
		}
	}
	val, ok := dotenv[name]
	return val, ok
}

func (l *Loader) readDotEnv() (map[string]string, error) {
	f, err := l.Fs.Open(filepath.Join(l.Dir, EnvFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return godotenv.Parse(f)
}

func (l *Loader) expandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	if l.HomeDir == nil {
		return p, nil
	}
	home, err := l.HomeDir()
	if err != nil {
		return "", fmt.Errorf("expand %s: %w", p, err)
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}

// unknownKeys reports top-level and build keys that Options does not know.
// Typos such as "remotHost" would otherwise be dropped silently.
func (l *Loader) unknownKeys(path string) ([]string, error) {
	data, err := afero.ReadFile(l.Fs, path)
	if err != nil {
		return nil, err
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(envKeys))
	for key := range envKeys {
		known[key] = true
	}
	known["build"] = true

	var warnings []string
	for key, val := range raw {
		if !known[key] {
			warnings = append(warnings, fmt.Sprintf("unknown config key %q", key))
			continue
		}
		if nested, ok := val.(map[string]interface{}); ok && key == "build" {
			for sub := range nested {
				if !known["build."+sub] {
					warnings = append(warnings, fmt.Sprintf("unknown config key %q", "build."+sub))
				}
			}
		}
	}
	sort.Strings(warnings)
	return warnings, nil
}
