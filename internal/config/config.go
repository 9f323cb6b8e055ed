package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Behyna/sms-services/messagegateway/pkg/mq"
	"github.com/Behyna/sms-services/messagegateway/pkg/mysql"
	"github.com/spf13/viper"
)

const envPrefix = "MESSAGEGATEWAY"

type Config struct {
	API       API          `mapstructure:"api"`
	Database  mysql.Config `mapstructure:"database"`
	Redis     Redis        `mapstructure:"redis"`
	RabbitMQ  mq.Config    `mapstructure:"rabbitmq"`
	RPC       RPC          `mapstructure:"rpc"`
	RateLimit RateLimit    `mapstructure:"rate_limit"`
	Metrics   Metrics      `mapstructure:"metrics"`
}

type API struct {
	Port      string `mapstructure:"port"`
	Name      string `mapstructure:"name"`
	BodyLimit int    `mapstructure:"body_limit"`
}

type Redis struct {
	Addr           string        `mapstructure:"addr"`
	Password       string        `mapstructure:"password"`
	DB             int           `mapstructure:"db"`
	IdempotencyTTL time.Duration `mapstructure:"idempotency_ttl"`
}

type RPC struct {
	Queue          string        `mapstructure:"queue"`
	Prefetch       int           `mapstructure:"prefetch"`
	RequestTTL     time.Duration `mapstructure:"request_ttl"`
	EventsExchange string        `mapstructure:"events_exchange"`
}

func (r RPC) Topology() mq.Topology {
	return mq.Topology{
		Queue:          r.Queue,
		RequestTTL:     r.RequestTTL,
		EventsExchange: r.EventsExchange,
	}
}

type RateLimit struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

type Metrics struct {
	CollectInterval time.Duration `mapstructure:"collect_interval"`
	// Port serves /metrics for workers without an HTTP API.
	Port string `mapstructure:"port"`
}

func Load() (*Config, error) {
	return LoadFrom("./config")
}

func LoadFrom(dir string) (cfg *Config, err error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	err = v.ReadInConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	err = v.Unmarshal(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.port", ":8080")
	v.SetDefault("api.name", "messagegateway")
	v.SetDefault("api.body_limit", 1<<20)
	v.SetDefault("redis.idempotency_ttl", 24*time.Hour)
	v.SetDefault("rpc.queue", "messagegateway.rpc")
	v.SetDefault("rpc.prefetch", 10)
	v.SetDefault("rpc.request_ttl", 30*time.Second)
	v.SetDefault("rpc.events_exchange", "messagegateway.events")
	v.SetDefault("rate_limit.rps", 50)
	v.SetDefault("rate_limit.burst", 100)
	v.SetDefault("metrics.collect_interval", 15*time.Second)
	v.SetDefault("metrics.port", ":9091")
}
