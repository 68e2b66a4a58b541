package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chatYAML = `
port: "8082"
grpc_port: "9092"
profile_cache_ttl: 10m
history_limit: 50
mongo:
  host: ${TEST_MONGO_HOST}
  port: 27017
  database: nexus
redis:
  redis_db: 2
kafka:
  brokers: ["k1:9092", "k2:9092"]
  topic: chat.activity
`

func TestReadConfig_ExpandsEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "chat_service.yaml"), []byte(chatYAML), 0644))
	t.Setenv("TEST_MONGO_HOST", "mongo.internal")

	cfg, err := ReadConfig[Chat]("chat_service", dir)
	require.NoError(t, err)

	assert.Equal(t, "8082", cfg.Port)
	assert.Equal(t, "9092", cfg.GRPCPort)
	assert.Equal(t, 10*time.Minute, cfg.ProfileCacheTTL)
	assert.Equal(t, 50, cfg.HistoryLimit)
	assert.Equal(t, "mongo.internal", cfg.MongoSQL.Host)
	assert.Equal(t, 2, cfg.Redis.RedisDB)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
}

func TestReadConfig_MissingFile(t *testing.T) {
	_, err := ReadConfig[Chat]("nope", t.TempDir())
	assert.Error(t, err)
}

func TestGetRedisSetting(t *testing.T) {
	t.Setenv("REDIS_MASTER_NAME", "")
	t.Setenv("REDIS_SENTINEL1_IP", "10.0.0.1")
	t.Setenv("REDIS_SENTINEL1_PORT", "26379")

	master, addrs := GetRedisSetting()
	assert.Equal(t, "mymaster", master)
	assert.Contains(t, addrs, "10.0.0.1:26379")
}

func TestGetPath(t *testing.T) {
	_, err := GetPath("definitely-not-here.env", 2)
	assert.Error(t, err)
}
