package testhelpers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// RabbitMQ is a broker container started for one test.
type RabbitMQ struct {
	Container testcontainers.Container

	// URL is the AMQP URL for the mapped port, using the default guest account.
	URL string
}

// SetupRabbitMQ starts a RabbitMQ container that is terminated when the test finishes.
//
// Requirements:
//   - Docker daemon running and accessible
//   - Docker image: rabbitmq:3.13-alpine
//
// Skip the caller in short mode:
//
//	if testing.Short() {
//	    t.Skip("Skipping container-based test in short mode")
//	}
//	mq := testhelpers.SetupRabbitMQ(t)
func SetupRabbitMQ(t *testing.T) *RabbitMQ {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "rabbitmq:3.13-alpine",
		ExposedPorts: []string{"5672/tcp"},
		WaitingFor: wait.ForLog("Server startup complete").
			WithStartupTimeout(90 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start RabbitMQ container: %v", err)
	}

	t.Cleanup(func() {
		t.Log("Terminating RabbitMQ container...")
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate RabbitMQ container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get RabbitMQ host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5672")
	if err != nil {
		t.Fatalf("Failed to get RabbitMQ port: %v", err)
	}

	mq := &RabbitMQ{
		Container: container,
		URL:       fmt.Sprintf("amqp://guest:guest@%s:%d/", host, port.Int()),
	}
	t.Logf("RabbitMQ started: %s:%d", host, port.Int())
	return mq
}
