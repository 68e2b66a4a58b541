package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"nexus_chat_service/internal/chat/domain"

	"github.com/go-redis/redis/v8"
)

// MaxNotifications 每個使用者保留的通知數
const MaxNotifications = 100

// NotificationRepository per-user notification list + realtime push
type NotificationRepository interface {
	Push(ctx context.Context, n domain.Notification) error
	List(ctx context.Context, userID string, limit int) ([]domain.Notification, error)
}

type notificationRepository struct {
	client *redis.Client
}

// NewNotificationRepository create NotificationRepository
func NewNotificationRepository(client *redis.Client) NotificationRepository {
	return &notificationRepository{client: client}
}

func notificationKey(userID string) string {
	return "notifications:" + userID
}

func (r *notificationRepository) Push(ctx context.Context, n domain.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}

	key := notificationKey(n.UserID)
	_, err = r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.LPush(ctx, key, data)
		p.LTrim(ctx, key, 0, MaxNotifications-1)
		p.Publish(ctx, domain.UserChannel(n.UserID), data)
		return nil
	})
	if err != nil {
		return fmt.Errorf("push notification %s: %w", n.UserID, err)
	}
	return nil
}

func (r *notificationRepository) List(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	if limit <= 0 || limit > MaxNotifications {
		limit = MaxNotifications
	}
	raw, err := r.client.LRange(ctx, notificationKey(userID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	out := make([]domain.Notification, 0, len(raw))
	for _, s := range raw {
		var n domain.Notification
		if err := json.Unmarshal([]byte(s), &n); err != nil {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}
