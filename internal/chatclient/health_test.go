package chatclient

import (
	"context"
	"testing"
	"time"

	"nexus_chat_service/pkg/logger"
	testtool "nexus_chat_service/pkg/test_tool"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func TestCheckHealth(t *testing.T) {
	logger.SetNewNop()

	srv, addr, err := testtool.StartHealthGRPCServer(healthpb.HealthCheckResponse_SERVING)
	require.NoError(t, err)
	defer srv.Stop()

	status, err := CheckHealth(context.Background(), addr, 3*time.Second)
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status)
}

func TestCheckHealth_Unreachable(t *testing.T) {
	logger.SetNewNop()

	status, err := CheckHealth(context.Background(), "127.0.0.1:1", 200*time.Millisecond)
	assert.Error(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_UNKNOWN, status)
}
