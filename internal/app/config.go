package app

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fairlead/chartering-backend/internal/pkg/logger"
	"github.com/fairlead/chartering-backend/internal/utils"
)

// Config is env-first; a YAML file named by CONFIG_PATH fills in
// anything the environment left blank.
type Config struct {
	ServiceName  string   `yaml:"service_name"`
	Environment  string   `yaml:"environment"`
	Version      string   `yaml:"version"`
	Port         string   `yaml:"port"`
	AllowOrigins []string `yaml:"allow_origins"`
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		ServiceName: utils.GetEnv("SERVICE_NAME", "chartering-backend", log),
		Environment: utils.GetEnv("ENVIRONMENT", "development", log),
		Version:     utils.GetEnv("SERVICE_VERSION", "dev", log),
		Port:        utils.GetEnv("PORT", "8080", log),
	}
	if origins := strings.TrimSpace(os.Getenv("ALLOW_ORIGINS")); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowOrigins = append(cfg.AllowOrigins, o)
			}
		}
	}

	path := strings.TrimSpace(os.Getenv("CONFIG_PATH"))
	if path == "" {
		return cfg
	}
	fileCfg, err := readConfigFile(path)
	if err != nil {
		log.Warn("config file ignored", "path", path, "error", err)
		return cfg
	}
	mergeConfig(&cfg, fileCfg)
	log.Info("config file merged", "path", path)
	return cfg
}

func readConfigFile(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}
	return cfg, nil
}

// mergeConfig fills only the fields the environment did not set past
// their defaults; env always wins over the file.
func mergeConfig(dst *Config, file Config) {
	if dst.ServiceName == "chartering-backend" && file.ServiceName != "" {
		dst.ServiceName = file.ServiceName
	}
	if dst.Environment == "development" && file.Environment != "" {
		dst.Environment = file.Environment
	}
	if dst.Version == "dev" && file.Version != "" {
		dst.Version = file.Version
	}
	if dst.Port == "8080" && file.Port != "" {
		dst.Port = file.Port
	}
	if len(dst.AllowOrigins) == 0 {
		dst.AllowOrigins = file.AllowOrigins
	}
}
