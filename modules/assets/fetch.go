package assets

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	platformerrors "github.com/jmgilman/go/errors"
	"github.com/vk/sharegrid/internal/ctxlog"
)

// CodeChecksumMismatch indicates downloaded bytes do not match the checksum
// in the manifest.
const CodeChecksumMismatch platformerrors.ErrorCode = "ASSET_CHECKSUM_MISMATCH"

// maxBodySize caps manifest and asset downloads.
const maxBodySize = 64 << 20

// Asset is a verified, immutable asset. It is the value shared under
// Tag(name).
type Asset struct {
	Name   string
	Source string
	SHA256 string
	Data   []byte
}

// Tag returns the shared data tag of the asset called name.
func Tag(name string) string {
	return "asset:" + name
}

// Fetcher downloads assets over HTTP.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a fetcher that uses client for all requests.
func NewFetcher(client *http.Client) *Fetcher {
	return &Fetcher{client: client}
}

// Fetch downloads the manifest at manifestURL, then the asset called name,
// and verifies its checksum.
func (f *Fetcher) Fetch(ctx context.Context, manifestURL, name string) (*Asset, error) {
	logger := ctxlog.FromContext(ctx).With("asset", name)

	base, err := url.Parse(manifestURL)
	if err != nil {
		return nil, platformerrors.Wrap(err, platformerrors.CodeInvalidInput, "invalid manifest URL")
	}

	logger.Debug("Fetching asset manifest.", "manifest", manifestURL)
	raw, err := f.get(ctx, manifestURL)
	if err != nil {
		return nil, err
	}
	manifest, err := ParseManifest(raw, manifestURL)
	if err != nil {
		return nil, err
	}
	entry, err := manifest.Lookup(name)
	if err != nil {
		return nil, err
	}

	ref, err := url.Parse(entry.URL)
	if err != nil {
		return nil, platformerrors.Wrapf(err, platformerrors.CodeSchemaFailed, "asset %q has an invalid url", name)
	}
	source := base.ResolveReference(ref).String()

	logger.Debug("Downloading asset.", "source", source)
	data, err := f.get(ctx, source)
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256(data)
	got := hex.EncodeToString(sum[:])
	if !strings.EqualFold(got, entry.SHA256) {
		return nil, platformerrors.WithContextMap(
			platformerrors.Newf(CodeChecksumMismatch, "asset %q failed checksum verification", name),
			map[string]interface{}{"expected": entry.SHA256, "actual": got, "source": source},
		)
	}

	logger.Info("Asset verified.", "source", source, "bytes", len(data))
	return &Asset{Name: name, Source: source, SHA256: got, Data: data}, nil
}

func (f *Fetcher) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, platformerrors.Wrapf(err, platformerrors.CodeInvalidInput, "failed to create request for %s", target)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, platformerrors.Wrapf(err, platformerrors.CodeNetwork, "failed to fetch %s", target)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, platformerrors.Newf(platformerrors.CodeNotFound, "%s: %s", target, resp.Status)
	case resp.StatusCode >= 500:
		return nil, platformerrors.Newf(platformerrors.CodeUnavailable, "%s: %s", target, resp.Status)
	case resp.StatusCode != http.StatusOK:
		return nil, platformerrors.Newf(platformerrors.CodeExecutionFailed, "%s: %s", target, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, platformerrors.Wrapf(err, platformerrors.CodeNetwork, "failed to read %s", target)
	}
	if len(data) > maxBodySize {
		return nil, platformerrors.Newf(platformerrors.CodeInvalidInput, "%s exceeds %d bytes", target, maxBodySize)
	}
	return data, nil
}

func (a *Asset) String() string {
	return fmt.Sprintf("%s (%d bytes, sha256:%s)", a.Name, len(a.Data), a.SHA256)
}
