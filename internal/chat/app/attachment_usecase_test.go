package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	errprocess "nexus_chat_service/pkg/err"
	"nexus_chat_service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAttachmentUseCase_Upload(t *testing.T) {
	logger.SetNewNop()
	ctx := context.Background()
	store := new(MockObjectStore)
	profiles := new(MockProfileRepository)
	uc := NewAttachmentUseCase(store, profiles, time.Hour)

	profiles.On("IsTeamMember", ctx, "team-1", "u1").Return(true, nil)
	keyMatcher := mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "attachments/team-1/") && strings.HasSuffix(key, "/report.pdf")
	})
	store.On("PutObject", ctx, keyMatcher, int64(5), "application/pdf").Return(nil)
	store.On("PresignGetURL", ctx, keyMatcher, time.Hour).Return("http://minio/report.pdf?sig", nil)

	att, err := uc.Upload(ctx, "u1", "team-1", "../../etc/report.pdf", "application/pdf", 5, strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", att.Name)
	assert.Equal(t, "http://minio/report.pdf?sig", att.URL)
	assert.Equal(t, int64(5), att.Size)
	store.AssertExpectations(t)
}

func TestAttachmentUseCase_Upload_Rejects(t *testing.T) {
	logger.SetNewNop()
	ctx := context.Background()
	store := new(MockObjectStore)
	profiles := new(MockProfileRepository)
	uc := NewAttachmentUseCase(store, profiles, 0)

	_, err := uc.Upload(ctx, "u1", "", "a.txt", "", 1, strings.NewReader("a"))
	assert.True(t, errors.Is(err, errprocess.ErrValidation))

	_, err = uc.Upload(ctx, "u1", "team-1", "big.bin", "", MaxAttachmentSize+1, strings.NewReader(""))
	assert.True(t, errors.Is(err, errprocess.ErrValidation))

	profiles.On("IsTeamMember", ctx, "team-1", "u9").Return(false, nil)
	_, err = uc.Upload(ctx, "u9", "team-1", "a.txt", "", 1, strings.NewReader("a"))
	assert.True(t, errors.Is(err, errprocess.ErrForbidden))
	store.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "a.png", sanitizeFileName(`C:\Users\me\a.png`))
	assert.Equal(t, "file", sanitizeFileName(""))
	assert.Equal(t, "b.txt", sanitizeFileName("/tmp/b.txt"))
}
