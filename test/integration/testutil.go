//go:build integration

package integration

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"
)

// skipIfShort skips container-backed tests under -short or when
// LINKER_SKIP_INTEGRATION is set.
func skipIfShort(t *testing.T) {
	t.Helper()
	switch {
	case testing.Short():
		t.Skip("integration: -short set")
	case os.Getenv("LINKER_SKIP_INTEGRATION") != "":
		t.Skip("integration: LINKER_SKIP_INTEGRATION set")
	}
}

// waitForHealthy polls url until it answers 200.
func waitForHealthy(ctx context.Context, url string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	var lastErr error
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := http.DefaultClient.Do(req)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
			err = fmt.Errorf("status %d", resp.StatusCode)
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return fmt.Errorf("%s not healthy after %s: %w", url, timeout, lastErr)
		case <-ticker.C:
		}
	}
}
