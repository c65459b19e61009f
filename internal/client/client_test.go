package client_test

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/remylog/internal/client"
	"github.com/Tiliavir/remylog/internal/model"
	"github.com/Tiliavir/remylog/internal/server"
	"github.com/Tiliavir/remylog/internal/storage"
)

func startServer(t *testing.T, wrap func(http.Handler) http.Handler) *httptest.Server {
	t.Helper()
	s, err := server.New(server.Options{
		Store:    storage.NewFileStore(filepath.Join(t.TempDir(), "log.json")),
		Location: time.UTC,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)

	h := s.Handler()
	if wrap != nil {
		h = wrap(h)
	}
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func TestRoundTrip(t *testing.T) {
	srv := startServer(t, nil)
	c := client.New(t.Context(), srv.URL+"/", "")
	ctx := t.Context()

	start := time.Date(2025, 1, 1, 13, 0, 0, 0, time.UTC)
	a, err := c.Append(ctx, model.NewEvent{Type: model.NapStart, Time: start})
	require.NoError(t, err)
	b, err := c.Append(ctx, model.NewEvent{Type: model.NapEnd, Time: start.Add(90 * time.Minute), Notes: "woke up"})
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)

	events, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, b.ID, events[0].ID)
	assert.Equal(t, "woke up", events[0].Notes)
	assert.Equal(t, start, events[1].Time)

	require.NoError(t, c.Remove(ctx, a.ID))
	require.NoError(t, c.Remove(ctx, a.ID), "second delete is a no-op")

	events, err = c.List(ctx)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestAppendWithoutTypeNeverReachesServer(t *testing.T) {
	var hits int
	srv := startServer(t, func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
			next.ServeHTTP(w, r)
		})
	})
	c := client.New(t.Context(), srv.URL, "")

	_, err := c.Append(t.Context(), model.NewEvent{Time: time.Now()})
	assert.ErrorIs(t, err, model.ErrNoActivity)
	assert.Zero(t, hits)
}

func TestBearerToken(t *testing.T) {
	srv := startServer(t, func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer s3cret" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	_, err := client.New(t.Context(), srv.URL, "s3cret").List(t.Context())
	require.NoError(t, err)

	_, err = client.New(t.Context(), srv.URL, "").List(t.Context())
	var statusErr *client.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
}
