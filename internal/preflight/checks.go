package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"marquee/internal/api"
	"marquee/internal/config"
	"marquee/internal/services"
	"marquee/internal/services/tmdb"
)

// CheckProvider verifies that the metadata provider is reachable and the
// credentials are accepted. It issues a single bounded search, no retries.
func CheckProvider(ctx context.Context, cfg *config.Config) Result {
	const name = "TMDB"
	if cfg == nil {
		return Result{Name: name, Detail: "missing configuration"}
	}

	client, err := tmdb.NewFromConfig(cfg)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := client.SearchMovies(checkCtx, "the"); err != nil {
		return Result{Name: name, Detail: summarizeProviderError(err)}
	}
	return Result{Name: name, Passed: true, Detail: "API reachable"}
}

// CheckService verifies that a marquee service is answering on the configured
// bind address.
func CheckService(ctx context.Context, bind string) Result {
	const name = "Service"

	client, err := api.NewClient(bind)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	health, err := client.Health(checkCtx)
	if err != nil {
		if errors.Is(err, services.ErrTransient) {
			return Result{Name: name, Detail: "not running (start it with 'marquee serve')"}
		}
		return Result{Name: name, Detail: err.Error()}
	}
	detail := "running"
	if health.Version != "" {
		detail = fmt.Sprintf("running (version %s)", health.Version)
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// summarizeProviderError produces a human-readable summary for provider check
// failures.
func summarizeProviderError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "check timed out (provider unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "check timed out (provider unreachable)"
	}
	return err.Error()
}
