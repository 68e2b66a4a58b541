package repository

import (
	"context"
	"encoding/json"

	"nexus_chat_service/internal/chat/domain"

	"github.com/segmentio/kafka-go"
)

// ActivityTopic kafka topic for chat activity
const ActivityTopic = "chat.activity"

// ActivityStream 每一筆 change event 的 audit stream
type ActivityStream interface {
	Emit(ctx context.Context, event domain.ChangeEvent) error
}

// MessageWriter kafka.Writer 的最小介面
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type kafkaActivityStream struct {
	writer MessageWriter
}

// NewKafkaActivityStream create ActivityStream over a kafka writer
func NewKafkaActivityStream(writer MessageWriter) ActivityStream {
	return &kafkaActivityStream{writer: writer}
}

// Emit key = team id, 同 team 的事件落在同一 partition
func (s *kafkaActivityStream) Emit(ctx context.Context, event domain.ChangeEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.TeamID),
		Value: data,
		Time:  event.CommitTimestamp,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Type)},
			{Key: "table", Value: []byte(event.Table)},
		},
	})
}
