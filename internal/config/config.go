package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port               string   `yaml:"port"`
	DataDir            string   `yaml:"data_dir"`
	SessionSecret      string   `yaml:"session_secret"`
	CorsAllowedOrigins []string `yaml:"cors_allowed_origins"`
	AdminEmail         string   `yaml:"admin_email"`
	AdminPassword      string   `yaml:"admin_password"`
}

// Load reads configuration from the environment (after sourcing .env)
// and then applies overrides from an optional YAML file named by
// CONFIG_FILE.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port:               getEnv("PORT", "8080"),
		DataDir:            getEnv("DATA_DIR", "data"),
		SessionSecret:      getEnv("SESSION_SECRET", ""),
		CorsAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		AdminEmail:         getEnv("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword:      getEnv("ADMIN_PASSWORD", ""),
	}

	if path := getEnv("CONFIG_FILE", ""); path != "" {
		applyFile(&cfg, path)
	}

	if cfg.SessionSecret == "" {
		log.Fatal("SESSION_SECRET is required")
	}

	return cfg
}

func applyFile(cfg *Config, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("read config file %s: %v", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		log.Fatalf("parse config file %s: %v", path, err)
	}
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
