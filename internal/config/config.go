package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"taskcadence/pkg/config"
)

type SchedulerConfig struct {
	Cron             string `yaml:"cron"`               // evaluation trigger, e.g. "*/1 * * * *"
	HistoryDepth     int    `yaml:"history_depth"`      // executions appended to prompts
	StrictTimestamps bool   `yaml:"strict_timestamps"`  // reject malformed log rows instead of skipping
	DedupTTLHours    int    `yaml:"dedup_ttl_hours"`    // dispatch dedup window
}

type AgentConfig struct {
	URL string `yaml:"url"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"` // empty host means log-only delivery
	Port     int    `yaml:"port"`
	From     string `yaml:"from"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type DispatchConfig struct {
	MaxRetries int64 `yaml:"max_retries"`
}

type OperatorConfig struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"password_hash"` // bcrypt
}

type Config struct {
	DB        config.DBConfig    `yaml:"db"`
	MQ        config.MQConfig    `yaml:"mq"`
	Redis     config.RedisConfig `yaml:"redis"`
	JWT       config.JWTConfig   `yaml:"jwt"`
	Server    config.ServerConfig `yaml:"server"`
	Scheduler SchedulerConfig    `yaml:"scheduler"`
	Agent     AgentConfig        `yaml:"agent_service"`
	SMTP      SMTPConfig         `yaml:"smtp"`
	Dispatch  DispatchConfig     `yaml:"dispatch"`
	Operator  OperatorConfig     `yaml:"operator"`
}

func Load() *Config {
	env := config.GetConfigEnv()
	configDir := config.GetEnv("CONFIG_DIR", "config")

	cfgMap, err := config.LoadConfig(env, configDir)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var cfg Config
	cfgData, err := yaml.Marshal(cfgMap)
	if err != nil {
		log.Fatalf("failed to marshal config: %v", err)
	}
	if err := yaml.Unmarshal(cfgData, &cfg); err != nil {
		log.Fatalf("failed to unmarshal config: %v", err)
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	return &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Scheduler.Cron == "" {
		cfg.Scheduler.Cron = "*/1 * * * *"
	}
	if cfg.Scheduler.DedupTTLHours <= 0 {
		cfg.Scheduler.DedupTTLHours = 24
	}
	if cfg.Dispatch.MaxRetries <= 0 {
		cfg.Dispatch.MaxRetries = 3
	}
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8084"
	}
}

func applyEnvOverrides(cfg *Config) {
	config.OverrideDBFromEnv(&cfg.DB)
	config.OverrideMQFromEnv(&cfg.MQ)
	config.OverrideRedisFromEnv(&cfg.Redis)
	config.OverrideJWTFromEnv(&cfg.JWT)
	config.OverrideServerFromEnv(&cfg.Server)

	if url := os.Getenv("AGENT_SERVICE_URL"); url != "" {
		cfg.Agent.URL = url
	}
	if host := os.Getenv("SMTP_HOST"); host != "" {
		cfg.SMTP.Host = host
	}
	if port := os.Getenv("SMTP_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.SMTP.Port = p
		}
	}
	if spec := os.Getenv("SCHEDULER_CRON"); spec != "" {
		cfg.Scheduler.Cron = spec
	}
}
