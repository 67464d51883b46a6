// Package extract implements the source connectors. Every connector
// materializes its source as an in-memory table with a stable,
// source-defined column set. Failure to reach a source is surfaced to the
// caller; only the store API tolerates (and retries) per-record failures.
package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// fetch issues a GET request and returns the response body. Any status
// other than 200 is an error.
func fetch(ctx context.Context, client *http.Client, url string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request failed with status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
