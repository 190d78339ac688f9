package keygate_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/aussiebroadwan/keygate/pkg/keygatesdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Container setup and shared steps for keygate end-to-end tests. The chat
 * platform is not configured, so role changes go to the no-op sink.
 */

const (
	testImageName = "keygate-test:latest"

	apiSecret      = "test-api-secret-12345"
	bootstrapToken = "test-bootstrap-token-12345"
	adminHandle    = "admin"
	adminPassword  = "Admin123!"
)

// TestMain builds the Docker image once before all tests and removes it after.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building keygate Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up keygate Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	cmd := exec.CommandContext(context.Background(), "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/keygate/Dockerfile",
		"../../../")
	cmd.Stdout = os.Stdout
	return cmd.Run()
}

func cleanupDockerImage() {
	_ = exec.CommandContext(context.Background(), "docker", "rmi", "-f", testImageName).Run()
}

// setupContainer starts keygate and returns the base URL. Rate limits are
// relaxed unless strictLimits is set.
func setupContainer(t *testing.T, env map[string]string, strictLimits bool) string {
	t.Helper()
	ctx := context.Background()

	vars := map[string]string{
		"KEYGATE_API_SECRET": apiSecret,
		"BOOTSTRAP_TOKEN":    bootstrapToken,
		"ENV":                "test",
		"LOG_LEVEL":          "info",
		"LOG_FORMAT":         "json",
	}
	if !strictLimits {
		vars["RATELIMIT_STRICT_REQUESTS"] = "1000"
		vars["RATELIMIT_STRICT_BURST"] = "1000"
		vars["RATELIMIT_MODERATE_REQUESTS"] = "1000"
		vars["RATELIMIT_MODERATE_BURST"] = "1000"
	}
	for k, v := range env {
		vars[k] = v
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        testImageName,
			ExposedPorts: []string{"8080/tcp"},
			Env:          vars,
			WaitingFor: wait.ForHTTP("/livez").
				WithPort("8080/tcp").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)
	host, err := container.Host(ctx)
	require.NoError(t, err)

	return fmt.Sprintf("http://%s:%s", host, mappedPort.Port())
}

// bootstrap creates the admin and returns its session.
func bootstrap(t *testing.T, client *keygatesdk.Client) *keygatesdk.Session {
	t.Helper()

	admin, err := client.Bootstrap(t.Context(), bootstrapToken, keygatesdk.BootstrapRequest{
		Handle:   adminHandle,
		Password: adminPassword,
	})
	require.NoError(t, err, "Bootstrap should succeed")
	require.Equal(t, "admin", admin.Role)
	return client.Session(admin.ID)
}

// register invites and registers a user, returning their session.
func register(t *testing.T, client *keygatesdk.Client, inviter *keygatesdk.Session, handle string) (*keygatesdk.Session, *keygatesdk.RegisterResponse) {
	t.Helper()

	inv, err := inviter.CreateInvite(t.Context())
	require.NoError(t, err)

	res, err := client.Register(t.Context(), keygatesdk.RegisterRequest{
		InviteCode: inv.Code,
		Handle:     handle,
		Password:   "Password123!",
	})
	require.NoError(t, err)
	return client.Session(res.Identity.ID), res
}

func requireAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()
	var apiErr *keygatesdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, status, apiErr.StatusCode, "code=%s", apiErr.Code)
	require.Equal(t, code, apiErr.Code)
}
