// Package config carga la configuración: YAML opcional y luego variables de entorno.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port string `yaml:"port"`

	DB struct {
		Driver string `yaml:"driver"` // postgres | sqlite
		DSN    string `yaml:"dsn"`    // vacío = repos en memoria
	} `yaml:"db"`

	Sessions struct {
		RedisURL string        `yaml:"redis_url"` // vacío = sesiones en memoria
		TTL      time.Duration `yaml:"ttl"`       // 0 = la sesión vive hasta completarse o reiniciar
	} `yaml:"sessions"`

	// AdminPhones pueden ejecutar "vaciar bd" por WhatsApp.
	AdminPhones []string `yaml:"admin_phones"`

	// FreeTextCategories deja elegir la categoría con texto libre además del menú.
	FreeTextCategories bool `yaml:"free_text_categories"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		App    string `yaml:"app"`
	} `yaml:"log"`

	RateLimit struct {
		PerSecond float64 `yaml:"per_second"`
		Burst     int     `yaml:"burst"`
	} `yaml:"rate_limit"`

	Twilio struct {
		AccountSID string `yaml:"account_sid"`
		AuthToken  string `yaml:"auth_token"`
		From       string `yaml:"from"`
		BaseURL    string `yaml:"base_url"`
	} `yaml:"twilio"`
}

// Default devuelve valores de desarrollo: puerto 8080, todo en memoria.
func Default() Config {
	var c Config
	c.Port = "8080"
	c.DB.Driver = "postgres"
	c.Log.Level = "info"
	c.Log.Format = "text"
	c.Log.App = "finca-digital"
	c.RateLimit.PerSecond = 1
	c.RateLimit.Burst = 5
	c.Twilio.BaseURL = "https://api.twilio.com"
	return c
}

// Load lee path (si no es vacío) y aplica overrides de entorno.
func Load(path string) (Config, error) {
	c := Default()
	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &c); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := c.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return c, nil
}

// LoadFromEnv usa FINCA_CONFIG como ruta del YAML.
func LoadFromEnv() (Config, error) {
	return Load(os.Getenv("FINCA_CONFIG"))
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	str("PORT", &c.Port)
	str("DB_DRIVER", &c.DB.Driver)
	str("DB_DSN", &c.DB.DSN)
	str("REDIS_URL", &c.Sessions.RedisURL)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	str("APP_NAME", &c.Log.App)
	str("TWILIO_ACCOUNT_SID", &c.Twilio.AccountSID)
	str("TWILIO_AUTH_TOKEN", &c.Twilio.AuthToken)
	str("TWILIO_FROM", &c.Twilio.From)
	str("TWILIO_BASE_URL", &c.Twilio.BaseURL)

	if v, ok := lookup("ADMIN_PHONES"); ok && strings.TrimSpace(v) != "" {
		c.AdminPhones = splitList(v)
	}
	if v, ok := lookup("FREE_TEXT_CATEGORIES"); ok && strings.TrimSpace(v) != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("FREE_TEXT_CATEGORIES: %w", err)
		}
		c.FreeTextCategories = b
	}
	if v, ok := lookup("SESSION_TTL"); ok && strings.TrimSpace(v) != "" {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("SESSION_TTL: %w", err)
		}
		c.Sessions.TTL = d
	}
	if v, ok := lookup("RATE_LIMIT_PER_SEC"); ok && strings.TrimSpace(v) != "" {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_PER_SEC: %w", err)
		}
		c.RateLimit.PerSecond = f
	}
	if v, ok := lookup("RATE_LIMIT_BURST"); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_BURST: %w", err)
		}
		c.RateLimit.Burst = n
	}
	return nil
}

// Addr devuelve ":<port>" para http.Server.
func (c Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}

// TwilioEnabled indica si hay credenciales para enviar mensajes salientes.
func (c Config) TwilioEnabled() bool {
	return c.Twilio.AccountSID != "" && c.Twilio.AuthToken != "" && c.Twilio.From != ""
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.ReplaceAll(strings.TrimSpace(p), " ", ""); p != "" {
			out = append(out, p)
		}
	}
	return out
}
