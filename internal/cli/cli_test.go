package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/vk/sharegrid/internal/app"
)

func TestParse(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		args []string
		want *app.Config
	}{
		{
			name: "positional path with defaults",
			args: []string{"grid.hcl"},
			want: &app.Config{ConfigPath: "grid.hcl", LogFormat: "text", LogLevel: "info"},
		},
		{
			name: "long flag wins over positional",
			args: []string{"--config", "a.hcl", "--log-level", "DEBUG", "--once", "b.hcl"},
			want: &app.Config{ConfigPath: "a.hcl", LogFormat: "text", LogLevel: "debug", Once: true},
		},
		{
			name: "shorthand and server port",
			args: []string{"-c", "dir", "--log-format", "json", "--healthcheck-port", "8080"},
			want: &app.Config{ConfigPath: "dir", LogFormat: "json", LogLevel: "info", HealthcheckPort: 8080},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, exit, err := Parse(tc.args, &bytes.Buffer{})
			require.NoError(t, err)
			require.False(t, exit)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_ExitWithoutPath(t *testing.T) {
	t.Parallel()
	out := &bytes.Buffer{}
	cfg, exit, err := Parse(nil, out)
	require.NoError(t, err)
	require.True(t, exit)
	require.Nil(t, cfg)
	require.Contains(t, out.String(), "Usage:")
}

func TestParse_InvalidValues(t *testing.T) {
	t.Parallel()

	for _, args := range [][]string{
		{"--log-format", "xml", "grid.hcl"},
		{"--log-level", "trace", "grid.hcl"},
		{"--nope"},
	} {
		_, _, err := Parse(args, &bytes.Buffer{})
		var exitErr *ExitError
		require.True(t, errors.As(err, &exitErr), "args %v", args)
		require.Equal(t, 2, exitErr.Code)
	}
}
