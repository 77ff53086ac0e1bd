package config

import (
	"errors"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type HTTPConfig struct {
	Address string        `yaml:"address" env:"API_ADDRESS" env-default:":8000"`
	Timeout time.Duration `yaml:"timeout" env:"API_TIMEOUT" env-default:"30s"`
}

type AuthConfig struct {
	Secret   string        `yaml:"secret" env:"SECRET_KEY" env-required:"true"`
	TokenTTL time.Duration `yaml:"token_ttl" env:"ACCESS_TOKEN_TTL" env-default:"30m"`
}

type AgentConfig struct {
	BaseURL string `yaml:"base_url" env:"AGENT_BASE_URL" env-default:"https://api.openai.com/v1"`
	APIKey  string `yaml:"api_key" env:"AGENT_API_KEY"`
	Model   string `yaml:"model" env:"AGENT_MODEL" env-default:"gpt-4o-mini"`
}

type Config struct {
	LogLevel  string      `yaml:"log_level" env:"LOG_LEVEL" env-default:"DEBUG"`
	HTTP      HTTPConfig  `yaml:"api_server"`
	DBAddress string      `yaml:"db_address" env:"DB_ADDRESS" env-required:"true"`
	Auth      AuthConfig  `yaml:"auth"`
	Agent     AgentConfig `yaml:"agent"`
}

func MustLoad(configPath string) Config {
	var cfg Config

	// empty path means env only
	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			log.Fatalf("cannot read env: %s", err)
		}
		return cfg
	}

	// try the file, fall back to env when it is absent
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		var pe *os.PathError
		if errors.As(err, &pe) {
			if err := cleanenv.ReadEnv(&cfg); err != nil {
				log.Fatalf("cannot read env: %s", err)
			}
			return cfg
		}
		log.Fatalf("cannot read config %q: %s", configPath, err)
	}

	return cfg
}
