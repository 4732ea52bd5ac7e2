// Package testutil holds helpers for tests that wait on background work,
// such as a simulation serving its logs over HTTP.
package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"
)

// Poll checks cond every interval until it holds, returning an error once
// timeout passes or ctx ends.
func Poll(ctx context.Context, timeout, interval time.Duration, cond func() bool) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for !cond() {
		select {
		case <-ctx.Done():
			return fmt.Errorf("testutil: condition not met within %v: %w", timeout, ctx.Err())
		case <-ticker.C:
		}
	}
	return nil
}

// FreeAddr returns a loopback address whose port was free when checked.
func FreeAddr(tb testing.TB) string {
	tb.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		tb.Fatalf("testutil: listen: %v", err)
	}
	addr := l.Addr().String()
	_ = l.Close()
	return addr
}

// GetJSON fetches url and decodes the body into v. Transport errors are
// returned; the status code is returned either way.
func GetJSON(ctx context.Context, url string, v any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, json.NewDecoder(resp.Body).Decode(v)
}
