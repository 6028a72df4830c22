package app_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/sharegrid/internal/app"
	"github.com/vk/sharegrid/internal/hcl"
	"github.com/vk/sharegrid/internal/registry"
	"github.com/vk/sharegrid/internal/shared"
	"github.com/vk/sharegrid/internal/testutil"
)

func TestRun_ComponentsShareOneValue(t *testing.T) {
	t.Parallel()
	rec := testutil.NewRecorderModule()

	result := testutil.RunIntegrationTest(t, map[string]string{
		"main.hcl": `
component "recorder" "a" {
  tag = "fonts"
}
component "recorder" "b" {
  tag = "fonts"
}
`,
	}, rec)
	require.NoError(t, result.Err)

	a, ok := rec.Seen("component.recorder.a")
	require.True(t, ok)
	b, ok := rec.Seen("component.recorder.b")
	require.True(t, ok)
	require.Same(t, a, b)
	require.Equal(t, 1, rec.Created())
	require.Equal(t, 1, rec.Disposed())
	require.Equal(t, []shared.Identity{"component.recorder.b", "component.recorder.a"}, rec.Stopped())
	require.Equal(t, 0, result.App.Shares().Len())
	testutil.AssertShareCreated(t, result, "fonts", string(a.Creator))
}

func TestRun_ComponentReleasesItself(t *testing.T) {
	t.Parallel()
	rec := testutil.NewRecorderModule()

	result := testutil.RunIntegrationTest(t, map[string]string{
		"main.hcl": `
component "recorder" "a" {
  tag     = "fonts"
  release = true
}
`,
	}, rec)
	require.NoError(t, result.Err)
	require.Equal(t, 1, rec.Disposed())
	require.NotContains(t, result.LogOutput, "Releasing shares still held by component.")
}

func TestRun_StartFailureReleasesEverything(t *testing.T) {
	t.Parallel()
	rec := testutil.NewRecorderModule()

	result := testutil.RunIntegrationTest(t, map[string]string{
		"main.hcl": `
component "recorder" "ok" {
  tag = "fonts"
}
component "recorder" "broken" {
  tag  = "fonts"
  fail = true
}
`,
	}, rec)
	require.Error(t, result.Err)
	require.ErrorContains(t, result.Err, "failed to start component.recorder.broken")
	require.Equal(t, 1, rec.Created())
	require.Equal(t, 1, rec.Disposed())
	require.Equal(t, 0, result.App.Shares().Len())
	require.NotContains(t, rec.Stopped(), shared.Identity("component.recorder.broken"))
}

type otherFonts struct{}

func TestRun_TypeMismatchBetweenComponents(t *testing.T) {
	t.Parallel()
	rec := testutil.NewRecorderModule()
	other := &testutil.SimpleModule{
		Name: "other",
		Component: &registry.RegisteredComponent{
			NewInput: func() any { return new(struct{}) },
			Start: func(ctx context.Context, h *shared.Handle, _ any) error {
				_, err := shared.GetOrCreate(h, "fonts", func() (*otherFonts, error) {
					return &otherFonts{}, nil
				})
				return err
			},
		},
	}

	result := testutil.RunIntegrationTest(t, map[string]string{
		"main.hcl": `
component "recorder" "a" {
  tag = "fonts"
}
component "other" "b" {}
`,
	}, rec, other)
	require.Error(t, result.Err)
	require.True(t, shared.IsTypeMismatch(result.Err), "got %v", result.Err)
	require.Equal(t, 0, result.App.Shares().Len())
}

func TestNewApp_ValidationPanics(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		hcl     string
		errText string
	}{
		{
			name:    "unknown type",
			hcl:     `component "missing" "a" {}`,
			errText: "unknown component type 'missing'",
		},
		{
			name: "duplicate component",
			hcl: `
component "noop" "a" {}
component "noop" "a" {}
`,
			errText: "declared more than once",
		},
		{
			name:    "syntax error",
			hcl:     `component "noop" "a" {`,
			errText: "failed to parse",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			result := testutil.RunIntegrationTest(t, map[string]string{"main.hcl": tc.hcl}, &testutil.NoOpModule{})
			require.Error(t, result.Err)
			require.ErrorContains(t, result.Err, "application startup panicked")
			require.ErrorContains(t, result.Err, tc.errText)
		})
	}
}

func TestRun_WaitsForCancellation(t *testing.T) {
	t.Parallel()
	rec := testutil.NewRecorderModule()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.hcl"), []byte(`
component "recorder" "a" {
  tag = "fonts"
}
`), 0o600))

	cfg, err := app.NewConfig(app.Config{ConfigPath: dir})
	require.NoError(t, err)
	testApp, logs := app.SetupAppTest(t, cfg, hcl.NewLoaderWithEnv(nil), rec)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, testApp.Run(ctx))
	require.Equal(t, 1, rec.Disposed())
	require.Contains(t, logs.String(), "Shutdown requested.")
}

func TestRun_CoreModules(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.hcl"), []byte(`
component "http_client" "api" {
  timeout = "2s"
}
component "print" "report" {
  message = "shares at startup"
}
`), 0o600))

	cfg, err := app.NewConfig(app.Config{ConfigPath: dir, Once: true})
	require.NoError(t, err)
	testApp, out := app.SetupAppTest(t, cfg, hcl.NewLoaderWithEnv(nil))
	require.Equal(t, []string{"assets", "env_vars", "http_client", "http_request", "print", "s3", "socketio"}, testApp.Components().Types())

	require.NoError(t, testApp.Run(context.Background()))
	require.Contains(t, out.String(), "TAG")
	require.Equal(t, 0, testApp.Shares().Len())
}
