// Package assets fetches named assets listed in a remote manifest, verifies
// their SHA-256 checksums, and shares the verified bytes with every
// component that asks for the same asset.
package assets

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	platformerrors "github.com/jmgilman/go/errors"
)

// Manifest lists the assets published at a location.
//
//	asset "font-atlas" {
//	  url    = "fonts/atlas.bin"
//	  sha256 = "9f86d08..."
//	}
//
// Relative URLs resolve against the manifest's own URL.
type Manifest struct {
	Assets []*ManifestEntry `hcl:"asset,block"`
}

// ManifestEntry is one `asset` block of a manifest.
type ManifestEntry struct {
	Name   string `hcl:"name,label"`
	URL    string `hcl:"url"`
	SHA256 string `hcl:"sha256"`
}

// ParseManifest parses an HCL manifest. filename is only used in diagnostics.
func ParseManifest(data []byte, filename string) (*Manifest, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, platformerrors.Wrap(diags, platformerrors.CodeSchemaFailed, "failed to parse asset manifest")
	}
	var m Manifest
	if diags := gohcl.DecodeBody(file.Body, nil, &m); diags.HasErrors() {
		return nil, platformerrors.Wrap(diags, platformerrors.CodeSchemaFailed, "failed to decode asset manifest")
	}
	return &m, nil
}

// Lookup returns the entry named name.
func (m *Manifest) Lookup(name string) (*ManifestEntry, error) {
	for _, e := range m.Assets {
		if e.Name == name {
			return e, nil
		}
	}
	return nil, platformerrors.New(platformerrors.CodeNotFound, fmt.Sprintf("asset %q is not listed in the manifest", name))
}
