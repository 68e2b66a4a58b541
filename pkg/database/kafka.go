package database

import (
	"context"
	"fmt"
	"time"

	"nexus_chat_service/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// NewKafkaWriterWithRetry 建立 Kafka Writer，先對 broker 取 metadata 確認連線
func NewKafkaWriterWithRetry(k KafkaConnection) (*kafka.Writer, error) {
	if len(k.Brokers) == 0 {
		return nil, fmt.Errorf("kafka: no brokers configured")
	}

	var err error
	for attempt := 1; attempt <= k.RetryCount; attempt++ {
		err = pingKafka(k.Brokers[0], k.Topic)
		if err == nil {
			logger.Log.Info("kafka writer ready", zap.Strings("brokers", k.Brokers), zap.Int("attempt", attempt))
			return &kafka.Writer{
				Addr:                   kafka.TCP(k.Brokers...),
				Topic:                  k.Topic,
				Balancer:               &kafka.Hash{},
				AllowAutoTopicCreation: true,
			}, nil
		}

		logger.Log.Warn("kafka connect failed, retrying...",
			zap.Int("attempt", attempt), zap.Int("max", k.RetryCount), zap.Error(err))
		time.Sleep(k.RetryInterval)
	}

	return nil, fmt.Errorf("無法建立 Kafka Writer，經過 %d 次嘗試: %w", k.RetryCount, err)
}

func pingKafka(broker, topic string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := kafka.DialContext(ctx, "tcp", broker)
	if err != nil {
		return err
	}
	defer conn.Close()

	_, err = conn.ReadPartitions(topic)
	return err
}
