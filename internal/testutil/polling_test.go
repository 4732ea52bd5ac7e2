package testutil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPoll(t *testing.T) {
	t.Parallel()

	calls := 0
	require.NoError(t, Poll(context.Background(), time.Second, time.Millisecond, func() bool {
		calls++
		return calls >= 3
	}))
	require.Equal(t, 3, calls)

	err := Poll(context.Background(), 20*time.Millisecond, time.Millisecond, func() bool { return false })
	require.ErrorIs(t, err, context.DeadlineExceeded)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = Poll(ctx, time.Second, time.Millisecond, func() bool { return false })
	require.ErrorIs(t, err, context.Canceled)
}

func TestFreeAddrAndGetJSON(t *testing.T) {
	t.Parallel()

	require.Contains(t, FreeAddr(t), "127.0.0.1:")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	var body struct{ OK bool }
	code, err := GetJSON(context.Background(), srv.URL, &body)
	require.NoError(t, err)
	require.Equal(t, http.StatusTeapot, code)
	require.True(t, body.OK)
}
