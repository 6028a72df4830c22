package hcl

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/vk/sharegrid/internal/config"
)

// fileRoot is the schema of a single configuration file. Any other top-level
// block or attribute is rejected by the decoder.
type fileRoot struct {
	Components []*componentBlock `hcl:"component,block"`
}

// componentBlock is the HCL-specific schema of a `component` block.
type componentBlock struct {
	Type string   `hcl:"type,label"`
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

// translateComponent converts the HCL-specific component schema into the agnostic model.
func (l *Loader) translateComponent(b *componentBlock) *config.Component {
	return &config.Component{
		Type: b.Type,
		Name: b.Name,
		Body: b.Body,
	}
}
