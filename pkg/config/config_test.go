package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverrideDBFromEnv(t *testing.T) {
	cfg := DBConfig{Host: "localhost", Port: 5432, User: "app", Name: "app"}

	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	OverrideDBFromEnv(&cfg)

	assert.Equal(t, "db.internal", cfg.Host)
	assert.Equal(t, 5433, cfg.Port)
	assert.Equal(t, "app", cfg.User)
}

func TestOverrideDBFromEnvIgnoresBadPort(t *testing.T) {
	cfg := DBConfig{Port: 5432}

	t.Setenv("DB_PORT", "not-a-number")
	OverrideDBFromEnv(&cfg)

	assert.Equal(t, 5432, cfg.Port)
}

func TestOverrideMQAndRedisFromEnv(t *testing.T) {
	mq := MQConfig{URL: "amqp://localhost"}
	rd := RedisConfig{Addr: "localhost:6379"}

	t.Setenv("MQ_URL", "amqp://mq.internal")
	t.Setenv("REDIS_ADDR", "redis.internal:6379")
	OverrideMQFromEnv(&mq)
	OverrideRedisFromEnv(&rd)

	assert.Equal(t, "amqp://mq.internal", mq.URL)
	assert.Equal(t, "redis.internal:6379", rd.Addr)
}

func TestMergeMaps(t *testing.T) {
	base := map[string]interface{}{
		"db": map[string]interface{}{
			"host": "localhost",
			"port": 5432,
		},
		"server": map[string]interface{}{"port": "8084"},
	}
	env := map[string]interface{}{
		"db": map[string]interface{}{
			"host": "db.internal",
		},
	}

	merged := mergeMaps(base, env)

	db := merged["db"].(map[string]interface{})
	assert.Equal(t, "db.internal", db["host"])
	assert.Equal(t, 5432, db["port"])
	assert.Equal(t, map[string]interface{}{"port": "8084"}, merged["server"])
}

func TestSubstituteString(t *testing.T) {
	env := map[string]string{"DB_PASSWORD": "s3cret"}

	assert.Equal(t, "s3cret", substituteString("${DB_PASSWORD}", env))
	assert.Equal(t, "plain", substituteString("plain", env))
	assert.Equal(t, "${MISSING}", substituteString("${MISSING}", env))
}

func TestGetConfigEnvDefault(t *testing.T) {
	t.Setenv("CONFIG_ENV", "")
	assert.Equal(t, "local", GetConfigEnv())

	t.Setenv("CONFIG_ENV", "prod")
	assert.Equal(t, "prod", GetConfigEnv())
}
