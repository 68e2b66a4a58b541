package logger

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize_WritesDailyFile(t *testing.T) {
	dir := t.TempDir()
	l := Initialize("chat_service", dir)
	l.Info("hello")
	l.Sync()

	name := filepath.Join(dir, "log_"+time.Now().Format("2006-01-02")+".log")
	b, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Contains(t, string(b), "hello")
	assert.Contains(t, string(b), "chat_service")
}

func TestSetDebugMode(t *testing.T) {
	l := Initialize("chat_service", t.TempDir())
	assert.False(t, l.IsDebugMode())
	l.SetDebugMode(true)
	assert.True(t, l.IsDebugMode())
}

func TestSetNewNop(t *testing.T) {
	SetNewNop()
	assert.NotNil(t, Log.Zap())
	Log.Error("discarded")
}
