package socketio

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	platformerrors "github.com/jmgilman/go/errors"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/sharegrid/internal/shared"
)

func TestTag(t *testing.T) {
	t.Parallel()
	require.Equal(t, "socketio:http://localhost:3000/", Tag("http://localhost:3000", ""))
	require.Equal(t, "socketio:http://localhost:3000/chat", Tag("http://localhost:3000", "/chat"))
}

func TestDial_InvalidURL(t *testing.T) {
	t.Parallel()
	for _, raw := range []string{"://nope", "ftp://example.com", "http://"} {
		_, err := Dial(context.Background(), DialOptions{URL: raw})
		require.Equal(t, platformerrors.CodeInvalidInput, platformerrors.GetCode(err), raw)
	}
}

func TestAcquire_DialFailureLeavesNoEntry(t *testing.T) {
	t.Parallel()
	reg := shared.New(shared.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	h := reg.Handle("component.socketio.feed")

	_, err := Acquire(context.Background(), h, DialOptions{URL: "ftp://example.com"})
	require.True(t, shared.IsCreationFailed(err))
	require.Equal(t, 0, reg.Len())
	require.Empty(t, h.Held())
}

func TestStart_RejectsBadTimeout(t *testing.T) {
	t.Parallel()
	reg := shared.New(shared.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	err := start(context.Background(), reg.Handle("component.socketio.feed"), &Input{
		URL:     "http://localhost:3000",
		Timeout: "soon",
	})
	require.ErrorContains(t, err, "invalid timeout")
	require.Equal(t, 0, reg.Len())
}

func TestCtyValueToInterface(t *testing.T) {
	t.Parallel()
	val := cty.ObjectVal(map[string]cty.Value{
		"room":  cty.StringVal("lobby"),
		"count": cty.NumberIntVal(3),
		"tags":  cty.TupleVal([]cty.Value{cty.StringVal("a"), cty.True}),
		"none":  cty.NullVal(cty.String),
	})

	got, err := ctyValueToInterface(val)
	require.NoError(t, err)

	want := map[string]any{
		"room":  "lobby",
		"count": float64(3),
		"tags":  []any{"a", true},
		"none":  nil,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("converted value mismatch (-want +got):\n%s", diff)
	}

	got, err = ctyValueToInterface(cty.NilVal)
	require.NoError(t, err)
	require.Nil(t, got)
}
