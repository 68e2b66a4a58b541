package app

import (
	"context"
	"io"
	"time"

	"nexus_chat_service/internal/chat/domain"

	"github.com/stretchr/testify/mock"
)

// MockMessageRepository Mock MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

// EnsureIndexes mock
func (m *MockMessageRepository) EnsureIndexes(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// InsertMessage mock insert message
func (m *MockMessageRepository) InsertMessage(ctx context.Context, msg *domain.Message) error {
	return m.Called(ctx, msg).Error(0)
}

// FindByID mock find message by id
func (m *MockMessageRepository) FindByID(ctx context.Context, id string) (*domain.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

// UpdateMessage mock
func (m *MockMessageRepository) UpdateMessage(ctx context.Context, msg *domain.Message) error {
	return m.Called(ctx, msg).Error(0)
}

// DeleteMessage mock
func (m *MockMessageRepository) DeleteMessage(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// FindMessagesBefore mock find history
func (m *MockMessageRepository) FindMessagesBefore(ctx context.Context, scope domain.Scope, before time.Time, limit int) ([]domain.Message, error) {
	args := m.Called(ctx, scope, before, limit)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockSharedItemRepository Mock SharedItemRepository
type MockSharedItemRepository struct {
	mock.Mock
}

// AutoMigrate mock
func (m *MockSharedItemRepository) AutoMigrate() error {
	return m.Called().Error(0)
}

// CreateSharedItems mock
func (m *MockSharedItemRepository) CreateSharedItems(ctx context.Context, items []domain.SharedItem) error {
	return m.Called(ctx, items).Error(0)
}

// FindByMessage mock
func (m *MockSharedItemRepository) FindByMessage(ctx context.Context, messageID string) ([]domain.SharedItem, error) {
	args := m.Called(ctx, messageID)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.SharedItem), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockProfileRepository Mock ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

// FindByUserID mock
func (m *MockProfileRepository) FindByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Profile), args.Error(1)
	}
	return nil, args.Error(1)
}

// IsTeamMember mock
func (m *MockProfileRepository) IsTeamMember(ctx context.Context, teamID, userID string) (bool, error) {
	args := m.Called(ctx, teamID, userID)
	return args.Bool(0), args.Error(1)
}

// MockProfileCache Mock RedisRepository[domain.Profile]
type MockProfileCache struct {
	mock.Mock
}

// Set mock
func (m *MockProfileCache) Set(ctx context.Context, key string, value domain.Profile, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

// Get mock
func (m *MockProfileCache) Get(ctx context.Context, key string) (domain.Profile, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(domain.Profile), args.Error(1)
}

// Del mock
func (m *MockProfileCache) Del(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

// GetTTL mock
func (m *MockProfileCache) GetTTL(ctx context.Context, key string) (int, error) {
	args := m.Called(ctx, key)
	return args.Int(0), args.Error(1)
}

// ExtendTTL mock
func (m *MockProfileCache) ExtendTTL(ctx context.Context, key string, ttl time.Duration) error {
	return m.Called(ctx, key, ttl).Error(0)
}

// MockChangeFeed Mock ChangeFeed
type MockChangeFeed struct {
	mock.Mock
}

// Publish mock publisher
func (m *MockChangeFeed) Publish(ctx context.Context, channel string, message interface{}) error {
	return m.Called(ctx, channel, message).Error(0)
}

// Subscribe mock subscriber
func (m *MockChangeFeed) Subscribe(ctx context.Context, channel string, handler func(payload []byte)) error {
	return m.Called(ctx, channel, handler).Error(0)
}

// MockActivityStream Mock ActivityStream
type MockActivityStream struct {
	mock.Mock
}

// Emit mock
func (m *MockActivityStream) Emit(ctx context.Context, event domain.ChangeEvent) error {
	return m.Called(ctx, event).Error(0)
}

// MockMentionQueue Mock MentionQueue
type MockMentionQueue struct {
	mock.Mock
}

// Enqueue mock
func (m *MockMentionQueue) Enqueue(ctx context.Context, job domain.MentionJob) error {
	return m.Called(ctx, job).Error(0)
}

// MockNotificationRepository Mock NotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

// Push mock
func (m *MockNotificationRepository) Push(ctx context.Context, n domain.Notification) error {
	return m.Called(ctx, n).Error(0)
}

// List mock
func (m *MockNotificationRepository) List(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Notification), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockObjectStore Mock ObjectStore
type MockObjectStore struct {
	mock.Mock
}

// PutObject mock; reads the stream so callers see it consumed
func (m *MockObjectStore) PutObject(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) error {
	_, _ = io.Copy(io.Discard, r)
	return m.Called(ctx, objectName, size, contentType).Error(0)
}

// PresignGetURL mock
func (m *MockObjectStore) PresignGetURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, objectName, expiry)
	return args.String(0), args.Error(1)
}
