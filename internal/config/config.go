package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	envPrefix      = "HOSTDESK_"
	defaultBaseURL = "http://localhost:8000"
	dirName        = ".hostdesk"
)

// envAliases are the short environment variable names accepted alongside
// the HOSTDESK_<SECTION>__<KEY> form.
var envAliases = map[string]string{
	"HOSTDESK_API_URL": "api.base_url",
	"HOSTDESK_TOKEN":   "api.token",
}

// Config is the console configuration.
type Config struct {
	API struct {
		BaseURL string        `koanf:"base_url"`
		Token   string        `koanf:"token"`
		Timeout time.Duration `koanf:"timeout"` // 0 means no client timeout
	} `koanf:"api"`

	Log struct {
		Level  string `koanf:"level"`
		Pretty bool   `koanf:"pretty"`
		Path   string `koanf:"path"`
	} `koanf:"log"`

	Push struct {
		// WorkerPath is the well-known script path registered for push delivery.
		WorkerPath string `koanf:"worker_path"`
		// RelayURL is the push relay that issues subscription endpoints.
		RelayURL  string `koanf:"relay_url"`
		StatePath string `koanf:"state_path"`
	} `koanf:"push"`
}

// Dir returns ~/.hostdesk.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "get home dir")
	}
	return filepath.Join(home, dirName), nil
}

func defaults() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	cfg.API.BaseURL = defaultBaseURL
	cfg.Log.Level = "info"
	cfg.Log.Path = filepath.Join(dir, "hostdesk.log")
	cfg.Push.WorkerPath = "/sw.js"
	cfg.Push.StatePath = filepath.Join(dir, "push.json")
	return cfg, nil
}

// Load reads configuration from .env, the YAML config file and the
// environment, in increasing order of precedence. The config file is
// $HOSTDESK_CONFIG or ~/.hostdesk/config.yaml.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(err, "load .env")
	}
	path := os.Getenv(envPrefix + "CONFIG")
	explicit := path != ""
	if !explicit {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "config.yaml")
	}
	return LoadFile(path, explicit)
}

// LoadFile loads configuration from the YAML file at path, then applies
// environment overrides. A missing file is an error only when required.
func LoadFile(path string, required bool) (*Config, error) {
	cfg, err := defaults()
	if err != nil {
		return nil, err
	}
	k := koanf.New(".")

	if _, statErr := os.Stat(path); statErr == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	} else if required {
		return nil, errors.Wrapf(statErr, "config file %s", path)
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        envPrefix,
		TransformFunc: transformEnv,
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables")
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")
	return cfg, nil
}

// transformEnv maps HOSTDESK_API__BASE_URL to api.base_url. Variables
// without a section separator are ignored unless they are known aliases.
func transformEnv(k, v string) (string, any) {
	if alias, ok := envAliases[k]; ok {
		return alias, v
	}
	key := strings.TrimPrefix(k, envPrefix)
	if !strings.Contains(key, "__") {
		return "", nil
	}
	return strings.ToLower(strings.ReplaceAll(key, "__", ".")), v
}
