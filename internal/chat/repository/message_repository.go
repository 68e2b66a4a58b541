package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nexus_chat_service/internal/chat/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrMessageNotFound 找不到訊息
var ErrMessageNotFound = errors.New("message not found")

// MessageRepository definition team message storage
type MessageRepository interface {
	EnsureIndexes(ctx context.Context) error
	InsertMessage(ctx context.Context, msg *domain.Message) error
	FindByID(ctx context.Context, id string) (*domain.Message, error)
	UpdateMessage(ctx context.Context, msg *domain.Message) error
	DeleteMessage(ctx context.Context, id string) error
	// FindMessagesBefore 取 scope 內 created_at < before 的最新 limit 筆, 以時間升序回傳
	FindMessagesBefore(ctx context.Context, scope domain.Scope, before time.Time, limit int) ([]domain.Message, error)
}

type messageRepository struct {
	coll *mongo.Collection
}

// NewMongoMessageRepository create a MessageRepository
func NewMongoMessageRepository(db *mongo.Database) MessageRepository {
	return &messageRepository{
		coll: db.Collection(domain.MessageCollection),
	}
}

func (r *messageRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "team_id", Value: 1}, {Key: "project_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "client_id", Value: 1}}, Options: options.Index().SetSparse(true)},
	})
	return err
}

func (r *messageRepository) InsertMessage(ctx context.Context, msg *domain.Message) error {
	_, err := r.coll.InsertOne(ctx, msg)
	return err
}

func (r *messageRepository) FindByID(ctx context.Context, id string) (*domain.Message, error) {
	var msg domain.Message
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&msg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrMessageNotFound
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *messageRepository) UpdateMessage(ctx context.Context, msg *domain.Message) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": msg.ID}, bson.M{"$set": bson.M{
		"content":  msg.Content,
		"metadata": msg.Metadata,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrMessageNotFound
	}
	return nil
}

func (r *messageRepository) DeleteMessage(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrMessageNotFound
	}
	return nil
}

func (r *messageRepository) FindMessagesBefore(ctx context.Context, scope domain.Scope, before time.Time, limit int) ([]domain.Message, error) {
	// project_id: nil 也會匹配不存在欄位, team-level 訊息不會混入 project
	filter := bson.M{
		"team_id":    scope.TeamID,
		"project_id": scope.ProjectID,
		"created_at": bson.M{"$lt": before},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find messages: %w", err)
	}

	var messages []domain.Message
	if err := cur.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("cursor All error: %w", err)
	}

	// 反轉為時間升序
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
