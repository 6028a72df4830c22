package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/vk/sharegrid/internal/shared"
)

type glyphs struct{}

func TestDiagnosticsHandler(t *testing.T) {
	t.Parallel()

	var logs SafeBuffer
	a := &App{
		logger: newLogger("debug", "text", &logs),
		shares: shared.New(shared.WithLogger(newLogger("error", "text", &logs))),
	}
	_, err := shared.GetOrCreate(a.shares.Handle("component.ui.menu"), "glyphs", func() (*glyphs, error) {
		return &glyphs{}, nil
	})
	require.NoError(t, err)

	srv := httptest.NewServer(a.diagnosticsHandler())
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/shares")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var got []shared.Share
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	want := []shared.Share{{
		Tag:       "glyphs",
		Creator:   "component.ui.menu",
		Consumers: []shared.Identity{"component.ui.menu"},
		Type:      "*app.glyphs",
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("shares mismatch (-want +got):\n%s", diff)
	}
}
