package repository

import (
	"context"
	"encoding/json"

	"nexus_chat_service/internal/chat/domain"
	"nexus_chat_service/pkg/database"

	"github.com/streadway/amqp"
)

// MentionQueue 發布 mention 工作到 rabbitmq
type MentionQueue interface {
	Enqueue(ctx context.Context, job domain.MentionJob) error
}

type rabbitMentionQueue struct {
	rabbit database.RabbitRepo
	queue  string
}

// NewMentionQueue declare the durable queue and return a MentionQueue
func NewMentionQueue(rabbit database.RabbitRepo, queue string) (MentionQueue, error) {
	if queue == "" {
		queue = domain.MentionQueueName
	}
	if _, err := rabbit.GetRabbit().QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return nil, err
	}
	return &rabbitMentionQueue{rabbit: rabbit, queue: queue}, nil
}

func (q *rabbitMentionQueue) Enqueue(_ context.Context, job domain.MentionJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return q.rabbit.Publish(
		"",      // 預設 exchange
		q.queue, // queue 名稱
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         data,
		},
	)
}
