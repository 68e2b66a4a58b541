package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"nexus_chat_service/internal/chat/domain"
	"nexus_chat_service/internal/chat/repository"
	"nexus_chat_service/pkg/logger"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// Consumer 消費 mention 工作並寫入通知
type Consumer struct {
	rabbitChannel *amqp.Channel
	notifications repository.NotificationRepository
	queueName     string
	retryDelay    time.Duration
}

// NewConsumer 建構 Consumer 實例
func NewConsumer(rabbitChannel *amqp.Channel, notifications repository.NotificationRepository, queueName string) *Consumer {
	if queueName == "" {
		queueName = domain.MentionQueueName
	}
	return &Consumer{
		rabbitChannel: rabbitChannel,
		notifications: notifications,
		queueName:     queueName,
		retryDelay:    5 * time.Second,
	}
}

// StartConsumer 開始消費訊息, ctx 結束或 channel 關閉時回傳
func (c *Consumer) StartConsumer(ctx context.Context) error {
	if _, err := c.rabbitChannel.QueueDeclare(c.queueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", c.queueName, err)
	}
	msgs, err := c.rabbitChannel.Consume(
		c.queueName,
		"",    // consumer tag，留空由系統分配
		false, // autoAck 為 false，使用手動確認
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("無法開始消費 RabbitMQ 訊息: %w", err)
	}

	logger.Log.Info("mention consumer started", zap.String("queue", c.queueName))

	for {
		select {
		case d, ok := <-msgs:
			if !ok {
				logger.Log.Warn("RabbitMQ 消費 channel 已關閉")
				return nil
			}

			err := c.HandleMessage(ctx, d.Body)
			switch {
			case err == nil:
				if err := d.Ack(false); err != nil {
					logger.Log.Error("ack failed", zap.Error(err))
				}
			case isPoison(err):
				// 解析失敗重送也不會成功
				logger.Log.Error("drop malformed mention job", zap.Error(err))
				_ = d.Nack(false, false)
			default:
				logger.Log.Error("處理 mention 工作失敗", zap.Error(err))
				select {
				case <-time.After(c.retryDelay):
				case <-ctx.Done():
				}
				_ = d.Nack(false, true)
			}
		case <-ctx.Done():
			logger.Log.Info("Consumer 收到停止訊號")
			return nil
		}
	}
}

type poisonError struct{ err error }

func (e poisonError) Error() string { return "malformed job: " + e.err.Error() }
func (e poisonError) Unwrap() error { return e.err }

func isPoison(err error) bool {
	_, ok := err.(poisonError)
	return ok
}

// HandleMessage 解析一筆 MentionJob 並寫入通知
func (c *Consumer) HandleMessage(ctx context.Context, body []byte) error {
	var job domain.MentionJob
	if err := json.Unmarshal(body, &job); err != nil {
		return poisonError{err}
	}
	if job.MentionedID == "" || job.MessageID == "" {
		return poisonError{fmt.Errorf("mention job missing ids")}
	}

	n := domain.Notification{
		ID:        uuid.New().String(),
		UserID:    job.MentionedID,
		Kind:      "mention",
		MessageID: job.MessageID,
		TeamID:    job.TeamID,
		ProjectID: job.ProjectID,
		SenderID:  job.SenderID,
		Preview:   job.Preview,
		CreatedAt: job.CreatedAt,
	}
	if err := c.notifications.Push(ctx, n); err != nil {
		return err
	}
	logger.Log.Debug("mention notified", zap.String("user_id", n.UserID), zap.String("message_id", n.MessageID))
	return nil
}
