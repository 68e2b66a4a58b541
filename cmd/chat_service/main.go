package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "nexus_chat_service/cmd/chat_service/docs" // 引入生成的 Swagger 文档
	"nexus_chat_service/internal/chat/app"
	"nexus_chat_service/internal/chat/domain"
	"nexus_chat_service/internal/chat/repository"
	"nexus_chat_service/internal/chat/router"
	"nexus_chat_service/pkg/config"
	"nexus_chat_service/pkg/database"
	"nexus_chat_service/pkg/logger"
	testtool "nexus_chat_service/pkg/test_tool"

	"github.com/gofiber/fiber/v2"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.ChatService, config.EnvConfig.ChatServiceLogPath)
	defer logger.Log.Sync()
	cfg := config.LoadConfig[config.Chat](config.EnvConfig.ChatService, config.EnvConfig.ChatServiceYAMLPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	testtool.StartPprof()

	// 1. Mongo (訊息)
	uri := fmt.Sprintf("mongodb://%s:%s@%s:%d", cfg.MongoSQL.User, cfg.MongoSQL.Password, cfg.MongoSQL.Host, cfg.MongoSQL.Port)
	mongo, err := database.NewMongoDB(ctx,
		database.Connection{
			ConnectStr:    uri,
			RetryCount:    cfg.MongoSQL.RetryCount,
			RetryInterval: time.Duration(cfg.MongoSQL.RetryInterval) * time.Second,
		},
		cfg.MongoSQL.Database)
	if err != nil {
		logger.Log.Fatal(
			"Unable to connect to mongoDB database after retries",
			zap.String("address", fmt.Sprintf("[%s:%d]", cfg.MongoSQL.Host, cfg.MongoSQL.Port)),
			zap.Error(err),
		)
	}
	defer mongo.Close(context.Background())

	// 2. PostgreSQL: pgx 查 profile / membership, gorm 存 shared items
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		cfg.PostgreSQL.Host, cfg.PostgreSQL.User, cfg.PostgreSQL.Password, cfg.PostgreSQL.Database, cfg.PostgreSQL.Port)
	pgConn := database.Connection{
		ConnectStr:    dsn,
		RetryCount:    cfg.PostgreSQL.RetryCount,
		RetryInterval: time.Duration(cfg.PostgreSQL.RetryInterval) * time.Second,
	}
	pool, err := database.NewDatabaseConnection(pgConn)
	if err != nil {
		logger.Log.Fatal("Unable to connect to postgreSQL (pgx) after retries", zap.String("host", cfg.PostgreSQL.Host), zap.Error(err))
	}
	defer pool.Close()

	gormDB, err := database.NewPGConnection(pgConn)
	if err != nil {
		logger.Log.Fatal("Unable to connect to postgreSQL (gorm) after retries", zap.String("host", cfg.PostgreSQL.Host), zap.Error(err))
	}

	// 3. Redis (change feed / profile cache / notifications)
	masterName, sentinel := config.GetRedisSetting()
	redisClient, err := database.NewRedisClient(masterName, sentinel, cfg.Redis.Addr, cfg.Redis.RedisDB)
	if err != nil {
		logger.Log.Fatal("connect redis err", zap.Error(err))
	}
	defer redisClient.Close()

	// 4. Kafka activity stream
	kafkaWriter, err := database.NewKafkaWriterWithRetry(database.KafkaConnection{
		Brokers:       cfg.Kafka.Brokers,
		Topic:         cfg.Kafka.Topic,
		RetryCount:    cfg.Kafka.RetryCount,
		RetryInterval: cfg.Kafka.RetryInterval,
	})
	if err != nil {
		logger.Log.Fatal("Kafka Writer 建立失敗", zap.Error(err))
	}
	defer kafkaWriter.Close()

	// 5. RabbitMQ mention queue
	rabbitURL := fmt.Sprintf("amqp://%s:%s@%s:%s/", cfg.RabbitMQ.User, cfg.RabbitMQ.Password, cfg.RabbitMQ.IP, cfg.RabbitMQ.Port)
	rabbitConn, err := database.ConnectRabbitMQWithRetry(database.Connection{
		ConnectStr:    rabbitURL,
		RetryCount:    cfg.RabbitMQ.RetryCount,
		RetryInterval: cfg.RabbitMQ.RetryInterval,
	})
	if err != nil {
		logger.Log.Fatal("RabbitMQ 連線失敗", zap.Error(err))
	}
	defer rabbitConn.Close()

	rabbitChannel, err := database.GetRabbitMQChannelWithRetry(rabbitConn, cfg.RabbitMQ.RetryCount, cfg.RabbitMQ.RetryInterval)
	if err != nil {
		logger.Log.Fatal("取得 RabbitMQ Channel 失敗", zap.Error(err))
	}
	defer rabbitChannel.Close()

	// 6. MinIO attachments
	minioClient, err := database.NewMinIOConnection(database.MinIOConnection{
		Endpoint:   fmt.Sprintf("%s:%d", cfg.MinIO.Host, cfg.MinIO.Port),
		User:       cfg.MinIO.User,
		Password:   cfg.MinIO.Password,
		BucketName: cfg.MinIO.BucketName,
		UseSSL:     cfg.MinIO.UseSSL,

		RetryCount:    cfg.MinIO.RetryCount,
		RetryInterval: cfg.MinIO.RetryInterval,
	})
	if err != nil {
		logger.Log.Fatal("Unable to connect to minio after retries", zap.String("host", cfg.MinIO.Host), zap.Error(err))
	}

	// 7. 初始化 Repository
	msgRepo := repository.NewMongoMessageRepository(mongo.Database)
	if err := msgRepo.EnsureIndexes(ctx); err != nil {
		logger.Log.Fatal("建立 mongo index 失敗", zap.Error(err))
	}
	sharedRepo := repository.NewSharedItemRepository(gormDB)
	if err := sharedRepo.AutoMigrate(); err != nil {
		logger.Log.Fatal("資料表遷移失敗", zap.Error(err))
	}
	mentionQueue, err := repository.NewMentionQueue(database.NewRabbitRepository(rabbitChannel), cfg.RabbitMQ.Queue)
	if err != nil {
		logger.Log.Fatal("declare mention queue", zap.Error(err))
	}
	profileRepo := repository.NewProfileRepository(pool)
	feed := repository.NewRedisPubSub(redisClient)

	// 8. 初始化 UseCases
	messageUC := app.NewMessageUseCase(app.Stores{
		Messages:      msgRepo,
		SharedItems:   sharedRepo,
		Profiles:      profileRepo,
		ProfileCache:  database.NewRedisRepository[domain.Profile](redisClient, "profile:"),
		Feed:          feed,
		Activity:      repository.NewKafkaActivityStream(kafkaWriter),
		Mentions:      mentionQueue,
		Notifications: repository.NewNotificationRepository(redisClient),
	}, cfg.ProfileCacheTTL, cfg.HistoryLimit)
	attachmentUC := app.NewAttachmentUseCase(minioClient, profileRepo, cfg.MinIO.PresignExpiry)

	// 9. Fiber
	r := fiber.New(fiber.Config{BodyLimit: app.MaxAttachmentSize + 1<<20})
	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.ChatServiceLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()

	r.Use(fiber_log.New(fiber_log.Config{
		Output: file, // 将日志输出到文件
	}))

	router.RegisterRoutes(r,
		app.NewChatHTTPHandler(messageUC, attachmentUC),
		app.NewRealtimeHandler(feed, messageUC, app.DefaultPingInterval),
	)

	// 10. grpc health
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Log.Info("Chat Service listening", zap.String("port", cfg.Port))
		return r.Listen(":" + cfg.Port)
	})
	g.Go(func() error {
		lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
		if err != nil {
			return fmt.Errorf("listen grpc: %w", err)
		}
		healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
		logger.Log.Info("health grpc listening", zap.String("port", cfg.GRPCPort))
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Log.Info("shutting down chat service")
		healthServer.Shutdown()
		grpcServer.GracefulStop()
		return r.ShutdownWithTimeout(5 * time.Second)
	})

	if err := g.Wait(); err != nil {
		logger.Log.Error("chat service stopped", zap.Error(err))
	}
}
