package chatclient

import (
	"context"
	"fmt"
	"time"

	"nexus_chat_service/pkg/database"

	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// CheckHealth grpc health probe against the chat service
func CheckHealth(ctx context.Context, addr string, timeout time.Duration) (healthpb.HealthCheckResponse_ServingStatus, error) {
	conn, err := database.CreateGRPCClient(ctx, addr, timeout)
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, err
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, fmt.Errorf("health check %s: %w", addr, err)
	}
	return resp.GetStatus(), nil
}
