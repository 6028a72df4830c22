// Package s3 transfers files to and from pre-signed object storage URLs
// through the shared HTTP client.
package s3

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/sharegrid/internal/ctxlog"
	"github.com/vk/sharegrid/internal/registry"
	"github.com/vk/sharegrid/internal/shared"
	"github.com/vk/sharegrid/modules/http_client"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments of an s3 component.
type Input struct {
	Action string `hcl:"action"`
	Path   string `hcl:"path"`
	URL    string `hcl:"url"`
	Client string `hcl:"client,optional"`
}

func (in *Input) clientTag() string {
	if in.Client == "" {
		return http_client.DefaultTag
	}
	return in.Client
}

// Upload PUTs the file at path to a pre-signed URL.
func Upload(ctx context.Context, client *http.Client, path, url string) error {
	logger := ctxlog.FromContext(ctx).With("action", "upload")

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open source file '%s': %w", path, err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to get file stats for '%s': %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, file)
	if err != nil {
		return fmt.Errorf("failed to create S3 upload request: %w", err)
	}
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = stat.Size()

	logger.Info("Uploading file to S3.", "source", path, "size", stat.Size(), "contentType", contentType)
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute S3 upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("S3 upload failed with status: %s", resp.Status)
	}
	logger.Info("Successfully uploaded file.", "status", resp.Status)
	return nil
}

// Download GETs a pre-signed URL into the file at path.
func Download(ctx context.Context, client *http.Client, path, url string) error {
	logger := ctxlog.FromContext(ctx).With("action", "download")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create S3 download request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute S3 download request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("S3 download failed with status: %s", resp.Status)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create destination file '%s': %w", path, err)
	}
	n, err := io.Copy(file, resp.Body)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to write '%s': %w", path, err)
	}
	logger.Info("Successfully downloaded file.", "destination", path, "size", n)
	return nil
}

func start(ctx context.Context, h *shared.Handle, raw any) error {
	input := raw.(*Input)

	client, err := http_client.Acquire(h, input.clientTag(), 0)
	if err != nil {
		return err
	}

	switch strings.ToLower(input.Action) {
	case "upload":
		return Upload(ctx, client.Client, input.Path, input.URL)
	case "download":
		return Download(ctx, client.Client, input.Path, input.URL)
	default:
		return fmt.Errorf("unknown s3 action: '%s'", input.Action)
	}
}

func stop(ctx context.Context, h *shared.Handle, raw any) error {
	return h.Relinquish(raw.(*Input).clientTag())
}

// Register registers the s3 component type.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterComponent("s3", &registry.RegisteredComponent{
		NewInput: func() any { return new(Input) },
		Start:    start,
		Stop:     stop,
	})
}
