package assets

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	platformerrors "github.com/jmgilman/go/errors"
	"github.com/stretchr/testify/require"
	"github.com/vk/sharegrid/internal/registry"
	"github.com/vk/sharegrid/internal/shared"
	"github.com/vk/sharegrid/modules/http_client"
)

var atlasBytes = []byte("glyph atlas v1")

func checksum(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

type assetServer struct {
	*httptest.Server
	downloads atomic.Int32
}

func newAssetServer(t *testing.T, sha string) *assetServer {
	t.Helper()
	s := &assetServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("/manifest.hcl", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `
asset "font-atlas" {
  url    = "fonts/atlas.bin"
  sha256 = %q
}
`, sha)
	})
	mux.HandleFunc("/fonts/atlas.bin", func(w http.ResponseWriter, r *http.Request) {
		s.downloads.Add(1)
		_, _ = w.Write(atlasBytes)
	})
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

func newRegistry() *shared.Registry {
	return shared.New(shared.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func TestFetch_VerifiesChecksum(t *testing.T) {
	t.Parallel()
	srv := newAssetServer(t, checksum(atlasBytes))

	asset, err := NewFetcher(srv.Client()).Fetch(context.Background(), srv.URL+"/manifest.hcl", "font-atlas")
	require.NoError(t, err)
	require.Equal(t, atlasBytes, asset.Data)
	require.Equal(t, srv.URL+"/fonts/atlas.bin", asset.Source)
}

func TestFetch_Failures(t *testing.T) {
	t.Parallel()

	t.Run("checksum mismatch", func(t *testing.T) {
		t.Parallel()
		srv := newAssetServer(t, checksum([]byte("something else")))
		_, err := NewFetcher(srv.Client()).Fetch(context.Background(), srv.URL+"/manifest.hcl", "font-atlas")
		require.Equal(t, CodeChecksumMismatch, platformerrors.GetCode(err))
	})

	t.Run("asset not listed", func(t *testing.T) {
		t.Parallel()
		srv := newAssetServer(t, checksum(atlasBytes))
		_, err := NewFetcher(srv.Client()).Fetch(context.Background(), srv.URL+"/manifest.hcl", "cursor")
		require.Equal(t, platformerrors.CodeNotFound, platformerrors.GetCode(err))
	})

	t.Run("manifest missing", func(t *testing.T) {
		t.Parallel()
		srv := newAssetServer(t, checksum(atlasBytes))
		_, err := NewFetcher(srv.Client()).Fetch(context.Background(), srv.URL+"/nope.hcl", "font-atlas")
		require.Equal(t, platformerrors.CodeNotFound, platformerrors.GetCode(err))
	})
}

func TestParseManifest_Invalid(t *testing.T) {
	t.Parallel()
	_, err := ParseManifest([]byte(`asset "x" {`), "manifest.hcl")
	require.Equal(t, platformerrors.CodeSchemaFailed, platformerrors.GetCode(err))

	_, err = ParseManifest([]byte(`asset "x" { url = "a" }`), "manifest.hcl")
	require.Equal(t, platformerrors.CodeSchemaFailed, platformerrors.GetCode(err))
}

func TestComponents_ShareOneDownload(t *testing.T) {
	t.Parallel()
	srv := newAssetServer(t, checksum(atlasBytes))
	reg := newRegistry()

	components := registry.New()
	(&Module{}).Register(components)
	def, ok := components.Lookup("assets")
	require.True(t, ok)

	handles := []*shared.Handle{
		reg.Handle("component.assets.menu"),
		reg.Handle("component.assets.hud"),
	}
	input := &Input{Manifest: srv.URL + "/manifest.hcl", Asset: "font-atlas"}
	for _, h := range handles {
		require.NoError(t, def.Start(context.Background(), h, input))
	}
	require.Equal(t, int32(1), srv.downloads.Load())

	shares := reg.ListShares()
	require.Len(t, shares, 2)
	require.Equal(t, Tag("font-atlas"), shares[0].Tag)
	require.Equal(t, http_client.DefaultTag, shares[1].Tag)
	require.Len(t, shares[0].Consumers, 2)

	for _, h := range handles {
		require.NoError(t, def.Stop(context.Background(), h, input))
	}
	require.Equal(t, 0, reg.Len())
}

func TestStart_FetchFailureIsCreationFailed(t *testing.T) {
	t.Parallel()
	srv := newAssetServer(t, checksum([]byte("tampered")))
	reg := newRegistry()
	h := reg.Handle("component.assets.menu")

	err := start(context.Background(), h, &Input{Manifest: srv.URL + "/manifest.hcl", Asset: "font-atlas"})
	require.True(t, shared.IsCreationFailed(err))
	require.ErrorContains(t, err, "checksum")

	_, ok := shared.TryGet[*Asset](h, Tag("font-atlas"))
	require.False(t, ok)
}
