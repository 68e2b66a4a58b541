package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"nexus_chat_service/internal/chat/domain"
	"nexus_chat_service/internal/chat/repository"
	"nexus_chat_service/pkg"
	"nexus_chat_service/pkg/database"
	errprocess "nexus_chat_service/pkg/err"
	"nexus_chat_service/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultHistoryLimit GET /messages 未帶 limit 時的筆數
	DefaultHistoryLimit = 50
	// MaxHistoryLimit 單次最多筆數
	MaxHistoryLimit = 200
	// DefaultProfileCacheTTL profile 快取時間
	DefaultProfileCacheTTL = 10 * time.Minute

	previewLength = 120
)

// Stores message use case 需要的所有 repository
type Stores struct {
	Messages      repository.MessageRepository
	SharedItems   repository.SharedItemRepository
	Profiles      repository.ProfileRepository
	ProfileCache  database.RedisRepository[domain.Profile]
	Feed          repository.ChangeFeed
	Activity      repository.ActivityStream
	Mentions      repository.MentionQueue
	Notifications repository.NotificationRepository
}

// MessageUseCase 負責處理團隊聊天訊息
type MessageUseCase struct {
	Stores
	profileTTL   time.Duration
	historyLimit int
	now          func() time.Time
}

// NewMessageUseCase init message use case
func NewMessageUseCase(stores Stores, profileTTL time.Duration, historyLimit int) *MessageUseCase {
	if profileTTL <= 0 {
		profileTTL = DefaultProfileCacheTTL
	}
	if historyLimit <= 0 || historyLimit > MaxHistoryLimit {
		historyLimit = DefaultHistoryLimit
	}
	return &MessageUseCase{
		Stores:       stores,
		profileTTL:   profileTTL,
		historyLimit: historyLimit,
		now:          time.Now,
	}
}

// SendMessage 驗證、寫入並廣播一則新訊息
func (uc *MessageUseCase) SendMessage(ctx context.Context, userID string, req domain.SendMessageRequest) (*domain.Message, error) {
	if req.TeamID == "" {
		return nil, errprocess.Setf(errprocess.ErrValidation, "team_id is required")
	}
	text := ""
	if req.Content != nil {
		text = strings.TrimSpace(*req.Content)
	}
	if text == "" && len(req.Metadata.Attachments) == 0 {
		return nil, errprocess.Setf(errprocess.ErrValidation, "message needs text or an attachment")
	}
	if err := uc.checkMember(ctx, req.TeamID, userID); err != nil {
		return nil, err
	}

	projectID := req.ProjectID
	if projectID != nil && *projectID == "" {
		projectID = nil
	}

	meta := req.Metadata
	meta.Edited = false
	meta.Mentions = withoutSender(pkg.Unique(meta.Mentions), userID)

	msg := &domain.Message{
		ID:         uuid.New().String(),
		ClientID:   req.ClientID,
		TeamID:     req.TeamID,
		ProjectID:  projectID,
		SenderID:   userID,
		Content:    domain.StringPtr(text),
		CreatedAt:  uc.now().UTC().Truncate(time.Millisecond),
		Metadata:   meta,
		ReadStatus: domain.ReadStatusDelivered,
	}
	if err := uc.Messages.InsertMessage(ctx, msg); err != nil {
		logger.Log.Error("insert message", zap.String("team_id", msg.TeamID), zap.Error(err))
		return nil, err
	}

	uc.publish(ctx, domain.ChangeEvent{
		Type:            domain.EventInsert,
		Table:           domain.MessageCollection,
		TeamID:          msg.TeamID,
		New:             msg,
		CommitTimestamp: msg.CreatedAt,
	}, mentionJobs(msg)...)

	return msg, nil
}

// EditMessage 只有發送者可以修改內容
func (uc *MessageUseCase) EditMessage(ctx context.Context, userID, messageID, content string) (*domain.Message, error) {
	msg, err := uc.ownMessage(ctx, userID, messageID)
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(content)
	if text == "" && !msg.HasAttachments() {
		return nil, errprocess.Setf(errprocess.ErrValidation, "message needs text or an attachment")
	}

	old := *msg
	msg.Content = domain.StringPtr(text)
	msg.Metadata.Edited = true
	if err := uc.Messages.UpdateMessage(ctx, msg); err != nil {
		return nil, err
	}

	uc.publish(ctx, domain.ChangeEvent{
		Type:            domain.EventUpdate,
		Table:           domain.MessageCollection,
		TeamID:          msg.TeamID,
		New:             msg,
		Old:             &old,
		CommitTimestamp: uc.now().UTC(),
	})
	return msg, nil
}

// DeleteMessage 只有發送者可以刪除
func (uc *MessageUseCase) DeleteMessage(ctx context.Context, userID, messageID string) error {
	msg, err := uc.ownMessage(ctx, userID, messageID)
	if err != nil {
		return err
	}
	if err := uc.Messages.DeleteMessage(ctx, messageID); err != nil {
		if errors.Is(err, repository.ErrMessageNotFound) {
			return errprocess.Setf(errprocess.ErrNotFound, "message %s not found", messageID)
		}
		return err
	}

	uc.publish(ctx, domain.ChangeEvent{
		Type:            domain.EventDelete,
		Table:           domain.MessageCollection,
		TeamID:          msg.TeamID,
		Old:             msg,
		CommitTimestamp: uc.now().UTC(),
	})
	return nil
}

// ListMessages scope 內 before 之前的歷史訊息, 時間升序, 已補上 sender 顯示資料
func (uc *MessageUseCase) ListMessages(ctx context.Context, userID string, scope domain.Scope, before time.Time, limit int) ([]domain.Message, error) {
	if !scope.Valid() {
		return nil, errprocess.Setf(errprocess.ErrValidation, "team_id is required")
	}
	if err := uc.checkMember(ctx, scope.TeamID, userID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = uc.historyLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	if before.IsZero() {
		before = uc.now().UTC().Add(time.Millisecond)
	}

	msgs, err := uc.Messages.FindMessagesBefore(ctx, scope, before, limit)
	if err != nil {
		return nil, err
	}

	profiles := map[string]*domain.Profile{}
	for i := range msgs {
		p, ok := profiles[msgs[i].SenderID]
		if !ok {
			p, err = uc.GetProfile(ctx, msgs[i].SenderID)
			if err != nil {
				logger.Log.Debug("history sender profile", zap.String("user_id", msgs[i].SenderID), zap.Error(err))
			}
			profiles[msgs[i].SenderID] = p
		}
		msgs[i].WithSender(p)
	}
	return msgs, nil
}

// ShareItems 寫入附件連結; shared_by 一律是目前使用者
func (uc *MessageUseCase) ShareItems(ctx context.Context, userID string, items []domain.SharedItem) error {
	if len(items) == 0 {
		return errprocess.Setf(errprocess.ErrValidation, "no shared items")
	}

	var teams []string
	for i := range items {
		if items[i].MessageID == "" || items[i].TeamID == "" {
			return errprocess.Setf(errprocess.ErrValidation, "shared item %d needs message_id and team_id", i)
		}
		items[i].ID = 0
		items[i].SharedBy = userID
		if items[i].ItemType == "" {
			items[i].ItemType = "attachment"
		}
		teams = append(teams, items[i].TeamID)
	}
	for _, teamID := range pkg.Unique(teams) {
		if err := uc.checkMember(ctx, teamID, userID); err != nil {
			return err
		}
	}
	return uc.SharedItems.CreateSharedItems(ctx, items)
}

// GetProfile cache-aside: redis → postgres
func (uc *MessageUseCase) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	if userID == "" {
		return nil, errprocess.Setf(errprocess.ErrValidation, "user id is required")
	}

	if uc.ProfileCache != nil {
		if p, err := uc.ProfileCache.Get(ctx, userID); err == nil {
			return &p, nil
		} else if !errors.Is(err, database.ErrCacheMiss) {
			logger.Log.Warn("profile cache get", zap.String("user_id", userID), zap.Error(err))
		}
	}

	p, err := uc.Profiles.FindByUserID(ctx, userID)
	if errors.Is(err, repository.ErrProfileNotFound) {
		return nil, errprocess.Setf(errprocess.ErrNotFound, "profile %s not found", userID)
	}
	if err != nil {
		return nil, err
	}

	if uc.ProfileCache != nil {
		if err := uc.ProfileCache.Set(ctx, userID, *p, uc.profileTTL); err != nil {
			logger.Log.Warn("profile cache set", zap.String("user_id", userID), zap.Error(err))
		}
	}
	return p, nil
}

// ListNotifications 目前使用者的 mention 通知
func (uc *MessageUseCase) ListNotifications(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	return uc.Notifications.List(ctx, userID, limit)
}

// IsTeamMember 給 realtime handler 檢查訂閱權限
func (uc *MessageUseCase) IsTeamMember(ctx context.Context, teamID, userID string) error {
	return uc.checkMember(ctx, teamID, userID)
}

func (uc *MessageUseCase) checkMember(ctx context.Context, teamID, userID string) error {
	ok, err := uc.Profiles.IsTeamMember(ctx, teamID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return errprocess.Setf(errprocess.ErrForbidden, "user %s is not a member of team %s", userID, teamID)
	}
	return nil
}

func (uc *MessageUseCase) ownMessage(ctx context.Context, userID, messageID string) (*domain.Message, error) {
	msg, err := uc.Messages.FindByID(ctx, messageID)
	if errors.Is(err, repository.ErrMessageNotFound) {
		return nil, errprocess.Setf(errprocess.ErrNotFound, "message %s not found", messageID)
	}
	if err != nil {
		return nil, err
	}
	if msg.SenderID != userID {
		return nil, errprocess.Setf(errprocess.ErrForbidden, "message %s belongs to another user", messageID)
	}
	return msg, nil
}

// publish 先送 change feed, 再平行送 activity stream 與 mention jobs; 失敗只記 log
func (uc *MessageUseCase) publish(ctx context.Context, event domain.ChangeEvent, jobs ...domain.MentionJob) {
	if err := uc.Feed.Publish(ctx, domain.TeamChannel(event.TeamID), event); err != nil {
		logger.Log.Error("publish change event",
			zap.String("team_id", event.TeamID), zap.String("type", string(event.Type)), zap.Error(err))
	}

	var g errgroup.Group
	if uc.Activity != nil {
		g.Go(func() error {
			return uc.Activity.Emit(ctx, event)
		})
	}
	if uc.Mentions != nil {
		for _, job := range jobs {
			job := job
			g.Go(func() error {
				return uc.Mentions.Enqueue(ctx, job)
			})
		}
	}
	if err := g.Wait(); err != nil {
		logger.Log.Warn("change event side effect", zap.String("team_id", event.TeamID), zap.Error(err))
	}
}

func mentionJobs(msg *domain.Message) []domain.MentionJob {
	jobs := make([]domain.MentionJob, 0, len(msg.Metadata.Mentions))
	for _, userID := range msg.Metadata.Mentions {
		jobs = append(jobs, domain.MentionJob{
			MessageID:   msg.ID,
			TeamID:      msg.TeamID,
			ProjectID:   msg.ProjectID,
			SenderID:    msg.SenderID,
			MentionedID: userID,
			Preview:     preview(msg.Text()),
			CreatedAt:   msg.CreatedAt,
		})
	}
	return jobs
}

func preview(text string) string {
	r := []rune(text)
	if len(r) <= previewLength {
		return text
	}
	return string(r[:previewLength]) + "…"
}

func withoutSender(ids []string, senderID string) []string {
	out := ids[:0]
	for _, id := range ids {
		if id != senderID {
			out = append(out, id)
		}
	}
	return out
}
