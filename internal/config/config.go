package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del proxy y del cliente de chat.
type Config struct {
	HTTPPort        string        `env:"HTTP_PORT" envDefault:"8080"`
	AssistantURL    string        `env:"ASSISTANT_URL" envDefault:"http://localhost:5001/api/chat"`
	ChatAPIURL      string        `env:"CHAT_API_URL" envDefault:"http://localhost:8080/api/chat"`
	SessionStore    string        `env:"SESSION_STORE" envDefault:"file"`
	SessionFile     string        `env:"SESSION_FILE" envDefault:".chat_session.json"`
	RedisAddr       string        `env:"REDIS_ADDR"`
	RedisPassword   string        `env:"REDIS_PASSWORD"`
	RedisDB         int           `env:"REDIS_DB" envDefault:"0"`
	EmailDraftDelay time.Duration `env:"EMAIL_DRAFT_DELAY" envDefault:"1500ms"`
	OwnerName       string        `env:"OWNER_NAME" envDefault:"Gaurav Kumar"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
