package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"nexus_chat_service/internal/chat/app"
	"nexus_chat_service/internal/chat/repository"
	"nexus_chat_service/pkg/config"
	"nexus_chat_service/pkg/database"
	"nexus_chat_service/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.NotifyWorker, config.EnvConfig.NotifyWorkerLogPath)
	defer logger.Log.Sync()
	cfg := config.LoadConfig[config.NotifyWorker](config.EnvConfig.NotifyWorker, config.EnvConfig.NotifyWorkerYAMLPath)

	masterName, sentinel := config.GetRedisSetting()
	redisClient, err := database.NewRedisClient(masterName, sentinel, cfg.Redis.Addr, cfg.Redis.RedisDB)
	if err != nil {
		logger.Log.Fatal("connect redis err", zap.Error(err))
	}
	defer redisClient.Close()

	rabbitURL := fmt.Sprintf("amqp://%s:%s@%s:%s/", cfg.RabbitMQ.User, cfg.RabbitMQ.Password, cfg.RabbitMQ.IP, cfg.RabbitMQ.Port)
	conn, err := database.ConnectRabbitMQWithRetry(database.Connection{
		ConnectStr:    rabbitURL,
		RetryCount:    cfg.RabbitMQ.RetryCount,
		RetryInterval: cfg.RabbitMQ.RetryInterval,
	})
	if err != nil {
		logger.Log.Fatal("RabbitMQ 連線失敗", zap.Error(err))
	}
	defer conn.Close()

	rabbitChannel, err := database.GetRabbitMQChannelWithRetry(conn, cfg.RabbitMQ.RetryCount, cfg.RabbitMQ.RetryInterval)
	if err != nil {
		logger.Log.Fatal("取得 RabbitMQ Channel 失敗", zap.Error(err))
	}
	defer rabbitChannel.Close()

	// 一次只處理一筆, 失敗的 nack 回 queue
	if err := rabbitChannel.Qos(1, 0, false); err != nil {
		logger.Log.Fatal("set qos", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer := app.NewConsumer(rabbitChannel, repository.NewNotificationRepository(redisClient), cfg.RabbitMQ.Queue)
	if err := consumer.StartConsumer(ctx); err != nil {
		logger.Log.Error("mention consumer stopped", zap.Error(err))
	}
	logger.Log.Info("notify worker exit")
}
