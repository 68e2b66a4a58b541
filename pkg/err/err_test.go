package errprocess

import (
	"errors"
	"testing"

	"nexus_chat_service/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestSetf_WrapsKind(t *testing.T) {
	logger.SetNewNop()

	err := Setf(ErrValidation, "team_id is required")
	assert.True(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrForbidden))
	assert.Contains(t, err.Error(), "team_id is required")
}

func TestSet(t *testing.T) {
	logger.SetNewNop()
	assert.EqualError(t, Set("boom"), "boom")
}
