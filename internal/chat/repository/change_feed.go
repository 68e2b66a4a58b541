package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"nexus_chat_service/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// ChangeFeed redis pub/sub 的 change feed
type ChangeFeed interface {
	// Publish 將 message 序列化後，發布到指定 channel
	Publish(ctx context.Context, channel string, message interface{}) error
	// Subscribe 等待訂閱確認後回傳, ctx 結束時關閉訂閱
	Subscribe(ctx context.Context, channel string, handler func(payload []byte)) error
}

// RedisPubSub definition redis pub/sub
type RedisPubSub struct {
	client *redis.Client
}

// NewRedisPubSub create RedisPubSub
func NewRedisPubSub(client *redis.Client) *RedisPubSub {
	return &RedisPubSub{client: client}
}

// Publish implement ChangeFeed
func (r *RedisPubSub) Publish(ctx context.Context, channel string, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, channel, data).Err()
}

// Subscribe implement ChangeFeed
func (r *RedisPubSub) Subscribe(ctx context.Context, channel string, handler func(payload []byte)) error {
	sub := r.client.Subscribe(ctx, channel)

	// 第一個回覆是 *redis.Subscription, 代表 server 已確認
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return fmt.Errorf("subscribe %s: %w", channel, err)
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()

		for {
			select {
			case m, ok := <-ch:
				if !ok {
					return
				}
				handler([]byte(m.Payload))
			case <-ctx.Done():
				logger.Log.Debug("sub close", zap.String("channel", channel))
				return
			}
		}
	}()
	return nil
}
