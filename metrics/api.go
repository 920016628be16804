package metrics

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/safing/treebase/log"
)

// RegisterRoutes registers the metrics endpoint on the router.
func RegisterRoutes(r *mux.Router) {
	r.Handle("/metrics", &metricsAPI{}).Methods(http.MethodGet, http.MethodHead)
}

type metricsAPI struct{}

func (m *metricsAPI) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	WritePrometheus(w)
}

// PushTo writes the metrics to the given URL with a PUT request.
func PushTo(ctx context.Context, url string) error {
	// First, collect metrics into buffer.
	buf := &bytes.Buffer{}
	WritePrometheus(buf)

	// Create request
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, buf)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	// Send.
	client := &http.Client{
		Timeout: 10 * time.Second,
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Check return status.
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}

	// Get and return error.
	body, _ := io.ReadAll(resp.Body)
	return fmt.Errorf(
		"got %s while writing metrics to %s: %s",
		resp.Status,
		url,
		body,
	)
}

// PushPeriodically pushes the metrics to the given URL in the given interval,
// until the context is canceled.
func PushPeriodically(ctx context.Context, url string, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := PushTo(ctx, url); err != nil {
				log.Warningf("metrics: failed to push metrics: %s", err)
			}
		}
	}
}
