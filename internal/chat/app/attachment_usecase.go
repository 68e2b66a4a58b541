package app

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"nexus_chat_service/internal/chat/domain"
	"nexus_chat_service/internal/chat/repository"
	errprocess "nexus_chat_service/pkg/err"

	"github.com/google/uuid"
)

const (
	// MaxAttachmentSize 單一附件上限
	MaxAttachmentSize = 25 << 20
	// DefaultPresignExpiry presigned url 有效時間
	DefaultPresignExpiry = 7 * 24 * time.Hour
)

// ObjectStore 附件儲存, *database.MinIOClient 實作
type ObjectStore interface {
	PutObject(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) error
	PresignGetURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
}

// AttachmentUseCase 上傳附件並回傳可放進 message metadata 的 Attachment
type AttachmentUseCase struct {
	store    ObjectStore
	profiles repository.ProfileRepository
	expiry   time.Duration
}

// NewAttachmentUseCase create AttachmentUseCase
func NewAttachmentUseCase(store ObjectStore, profiles repository.ProfileRepository, expiry time.Duration) *AttachmentUseCase {
	if expiry <= 0 {
		expiry = DefaultPresignExpiry
	}
	return &AttachmentUseCase{store: store, profiles: profiles, expiry: expiry}
}

// Upload 存到 attachments/<team>/<uuid>/<file name>
func (uc *AttachmentUseCase) Upload(ctx context.Context, userID, teamID, fileName, contentType string, size int64, r io.Reader) (*domain.Attachment, error) {
	if teamID == "" {
		return nil, errprocess.Setf(errprocess.ErrValidation, "team_id is required")
	}
	if size <= 0 || size > MaxAttachmentSize {
		return nil, errprocess.Setf(errprocess.ErrValidation, "attachment size %d out of range", size)
	}

	ok, err := uc.profiles.IsTeamMember(ctx, teamID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errprocess.Setf(errprocess.ErrForbidden, "user %s is not a member of team %s", userID, teamID)
	}

	name := sanitizeFileName(fileName)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := fmt.Sprintf("attachments/%s/%s/%s", teamID, uuid.New().String(), name)

	if err := uc.store.PutObject(ctx, key, r, size, contentType); err != nil {
		return nil, fmt.Errorf("upload attachment: %w", err)
	}
	url, err := uc.store.PresignGetURL(ctx, key, uc.expiry)
	if err != nil {
		return nil, err
	}

	return &domain.Attachment{
		Name:        name,
		URL:         url,
		ObjectKey:   key,
		ContentType: contentType,
		Size:        size,
	}, nil
}

func sanitizeFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "file"
	}
	return name
}
