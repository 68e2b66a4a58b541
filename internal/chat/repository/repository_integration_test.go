package repository

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"nexus_chat_service/internal/chat/domain"
	"nexus_chat_service/pkg/database"
	"nexus_chat_service/pkg/logger"
	testtool "nexus_chat_service/pkg/test_tool"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	mongoDB     *database.MongoDB
	redisClient *redis.Client
)

// **TestMain 初始化測試環境** (go test -short 略過容器)
func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	ctx := context.Background()
	logger.SetNewNop()

	// **啟動 MongoDB**
	mongoContainer, mongoHost, mongoPort, err := testtool.SetupContainer(ctx, testcontainers.ContainerRequest{
		Image:        "mongo:7",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForListeningPort("27017/tcp"),
	})
	if err != nil {
		log.Fatalf("❌ Failed to start MongoDB container: %v", err)
	}

	// **啟動 Redis**
	redisContainer, redisHost, redisPort, err := testtool.SetupContainer(ctx, testcontainers.ContainerRequest{
		Image:        "redis:7",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp"),
	})
	if err != nil {
		log.Fatalf("❌ Failed to start Redis container: %v", err)
	}

	mongoDB, err = database.NewMongoDB(ctx, database.Connection{
		ConnectStr:    fmt.Sprintf("mongodb://%s:%s", mongoHost, mongoPort),
		RetryCount:    5,
		RetryInterval: time.Second,
	}, "test_chat_db")
	if err != nil {
		log.Fatalf("❌ Failed to connect to MongoDB: %v", err)
	}

	redisClient, err = database.NewRedisClient("", nil, fmt.Sprintf("%s:%s", redisHost, redisPort), 0)
	if err != nil {
		log.Fatalf("❌ Failed to connect to Redis: %v", err)
	}

	code := m.Run()

	_ = mongoDB.Close(ctx)
	_ = redisClient.Close()
	_ = mongoContainer.Terminate(ctx)
	_ = redisContainer.Terminate(ctx)
	os.Exit(code)
}

func skipShort(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test, needs docker")
	}
}

func TestMessageRepository_Lifecycle(t *testing.T) {
	skipShort(t)
	ctx := context.Background()
	repo := NewMongoMessageRepository(mongoDB.Database)
	require.NoError(t, repo.EnsureIndexes(ctx))

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	project := "proj-1"
	text := func(s string) *string { return &s }

	msgs := []*domain.Message{
		{ID: "m1", TeamID: "team-1", SenderID: "u1", Content: text("team level"), CreatedAt: base},
		{ID: "m2", TeamID: "team-1", ProjectID: &project, SenderID: "u1", Content: text("p1"), CreatedAt: base.Add(time.Second)},
		{ID: "m3", TeamID: "team-1", SenderID: "u2", Content: text("team again"), CreatedAt: base.Add(2 * time.Second)},
		{ID: "m4", TeamID: "team-1", SenderID: "u2", Content: text("later"), CreatedAt: base.Add(3 * time.Second)},
	}
	for _, m := range msgs {
		require.NoError(t, repo.InsertMessage(ctx, m))
	}

	// team-level scope 不可混入 project 訊息
	got, err := repo.FindMessagesBefore(ctx, domain.NewScope("team-1", ""), base.Add(time.Hour), 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "m3", got[0].ID)
	assert.Equal(t, "m4", got[1].ID)

	got, err = repo.FindMessagesBefore(ctx, domain.NewScope("team-1", project), base.Add(time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "m2", got[0].ID)

	m, err := repo.FindByID(ctx, "m1")
	require.NoError(t, err)
	m.Content = text("edited")
	m.Metadata.Edited = true
	require.NoError(t, repo.UpdateMessage(ctx, m))

	m, err = repo.FindByID(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "edited", m.Text())
	assert.True(t, m.Metadata.Edited)

	require.NoError(t, repo.DeleteMessage(ctx, "m1"))
	assert.ErrorIs(t, repo.DeleteMessage(ctx, "m1"), ErrMessageNotFound)
	_, err = repo.FindByID(ctx, "m1")
	assert.ErrorIs(t, err, ErrMessageNotFound)
}

func TestRedisPubSub_PublishSubscribe(t *testing.T) {
	skipShort(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feed := NewRedisPubSub(redisClient)
	got := make(chan []byte, 1)
	require.NoError(t, feed.Subscribe(ctx, domain.TeamChannel("team-1"), func(payload []byte) {
		got <- payload
	}))

	require.NoError(t, feed.Publish(ctx, domain.TeamChannel("team-1"), domain.ChangeEvent{Type: domain.EventDelete, TeamID: "team-1"}))

	select {
	case p := <-got:
		assert.Contains(t, string(p), `"type":"DELETE"`)
	case <-time.After(5 * time.Second):
		t.Fatal("no change event received")
	}
}

func TestNotificationRepository_PushList(t *testing.T) {
	skipShort(t)
	ctx := context.Background()
	repo := NewNotificationRepository(redisClient)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Push(ctx, domain.Notification{ID: fmt.Sprint(i), UserID: "u2", Kind: "mention"}))
	}

	list, err := repo.List(ctx, "u2", 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2", list[0].ID)
}

func TestProfileCache_RoundTrip(t *testing.T) {
	skipShort(t)
	ctx := context.Background()
	cache := database.NewRedisRepository[domain.Profile](redisClient, "profile:")

	_, err := cache.Get(ctx, "u1")
	assert.ErrorIs(t, err, database.ErrCacheMiss)

	require.NoError(t, cache.Set(ctx, "u1", domain.Profile{UserID: "u1", Name: "Alice"}, time.Minute))
	p, err := cache.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", p.Name)

	ttl, err := cache.GetTTL(ctx, "u1")
	require.NoError(t, err)
	assert.Greater(t, ttl, 0)
}
