package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	mu sync.RWMutex `yaml:"-"`

	Web       WebConfig       `yaml:"web"`
	API       APIConfig       `yaml:"api"`
	Auth      AuthConfig      `yaml:"auth"`
	Session   SessionConfig   `yaml:"session"`
	Redis     RedisConfig     `yaml:"redis"`
	Database  DatabaseConfig  `yaml:"database"`
	Messaging MessagingConfig `yaml:"messaging"`
}

type WebConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type APIConfig struct {
	BaseURL        string        `yaml:"base_url"`
	Timeout        time.Duration `yaml:"timeout"`
	QualityPath    string        `yaml:"quality_path"`
	HealthInterval time.Duration `yaml:"health_interval"`
}

type AuthConfig struct {
	Backend      string        `yaml:"backend"` // mock | http
	JWTSecret    string        `yaml:"jwt_secret"`
	TokenTTL     time.Duration `yaml:"token_ttl"`
	AllowUnknown bool          `yaml:"allow_unknown"`
	LoginRate    string        `yaml:"login_rate"`
}

type SessionConfig struct {
	Storage string `yaml:"storage"` // cookie | redis
	Secret  string `yaml:"secret"`
	MaxAge  int    `yaml:"max_age"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type DatabaseConfig struct {
	Driver   string         `yaml:"driver"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Postgres PostgresConfig `yaml:"postgres"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

// Messaging transports.
const (
	TransportKafka = "kafka"
	TransportMQTT  = "mqtt"
)

type MessagingConfig struct {
	Enabled      bool        `yaml:"enabled"`
	Transport    string      `yaml:"transport"` // "kafka" or "mqtt"
	Kafka        KafkaConfig `yaml:"kafka"`
	MQTT         MQTTConfig  `yaml:"mqtt"`
	ChangesTopic string      `yaml:"changes_topic"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	GroupID string   `yaml:"group_id"`
}

type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	Port     int    `yaml:"port"`
	ClientID string `yaml:"client_id"` // random per process when empty
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// DefaultSecret is the placeholder shipped for the cookie and token
// secrets. Validate refuses it outside the mock backend.
const DefaultSecret = "change-me-in-production"

func Defaults() *Config {
	return &Config{
		Web: WebConfig{
			Host: "0.0.0.0",
			Port: 3000,
		},
		API: APIConfig{
			BaseURL:        "http://localhost:8080",
			Timeout:        10 * time.Second,
			QualityPath:    "/api/quality-traces",
			HealthInterval: 30 * time.Second,
		},
		Auth: AuthConfig{
			Backend:   "mock",
			JWTSecret: DefaultSecret,
			TokenTTL:  8 * time.Hour,
			LoginRate: "5-M",
		},
		Session: SessionConfig{
			Storage: "cookie",
			Secret:  DefaultSecret,
			MaxAge:  8 * 3600,
		},
		Redis: RedisConfig{
			Address: "localhost:6379",
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			SQLite: SQLiteConfig{Path: "ckmconsole.db"},
			Postgres: PostgresConfig{
				Host:     "localhost",
				Port:     5432,
				Database: "ckmconsole",
				User:     "ckmconsole",
				SSLMode:  "disable",
			},
		},
		Messaging: MessagingConfig{
			Transport: TransportKafka,
			Kafka: KafkaConfig{
				Brokers: []string{"localhost:9092"},
				GroupID: "ckmconsole",
			},
			MQTT: MQTTConfig{
				Broker: "localhost",
				Port:   1883,
			},
			ChangesTopic: "ckm.changes",
		},
	}
}

// Load reads path over the defaults, then applies environment overrides. A
// missing file is not an error. A .env file next to the working directory
// is loaded first when present.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	cfg.applyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	set("CKM_API_BASE_URL", &c.API.BaseURL)
	set("CKM_SESSION_SECRET", &c.Session.Secret)
	set("CKM_JWT_SECRET", &c.Auth.JWTSecret)
	set("CKM_AUTH_BACKEND", &c.Auth.Backend)
	set("CKM_SESSION_STORAGE", &c.Session.Storage)
	set("CKM_REDIS_ADDR", &c.Redis.Address)
	set("CKM_MESSAGING_TRANSPORT", &c.Messaging.Transport)
	set("CKM_MQTT_BROKER", &c.Messaging.MQTT.Broker)
	if v, ok := lookup("CKM_KAFKA_BROKERS"); ok && v != "" {
		c.Messaging.Kafka.Brokers = strings.Split(v, ",")
	}
}

// Validate rejects values the console cannot start with.
func (c *Config) Validate() error {
	switch c.Auth.Backend {
	case "mock", "http":
	default:
		return fmt.Errorf("auth.backend: unknown backend %q", c.Auth.Backend)
	}
	switch c.Session.Storage {
	case "cookie", "redis":
	default:
		return fmt.Errorf("session.storage: unknown storage %q", c.Session.Storage)
	}
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("database.driver: unknown driver %q", c.Database.Driver)
	}
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	switch c.Messaging.Transport {
	case "", TransportKafka, TransportMQTT:
	default:
		return fmt.Errorf("messaging.transport: unknown transport %q", c.Messaging.Transport)
	}
	// cookie storage carries the user record, role included, so a known
	// secret lets anyone sign an ADMIN cookie
	if c.Auth.Backend == "http" {
		if c.Session.Secret == "" || c.Session.Secret == DefaultSecret {
			return fmt.Errorf("session.secret: set a private secret when auth.backend is http")
		}
		if c.Auth.JWTSecret == "" || c.Auth.JWTSecret == DefaultSecret {
			return fmt.Errorf("auth.jwt_secret: set a private secret when auth.backend is http")
		}
	}
	return nil
}

func (c *Config) Save(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
