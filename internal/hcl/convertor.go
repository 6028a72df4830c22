package hcl

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/vk/sharegrid/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Converter is the HCL-specific implementation of the config.Converter interface.
type Converter struct {
	evalCtx *hcl.EvalContext
}

// NewConverter creates a converter whose expressions can reference the given
// environment as `env.NAME`.
func NewConverter(environ []string) *Converter {
	return &Converter{
		evalCtx: &hcl.EvalContext{
			Variables: map[string]cty.Value{
				"env": envObject(environ),
			},
			Functions: map[string]function.Function{
				"lower":  stdlib.LowerFunc,
				"upper":  stdlib.UpperFunc,
				"trim":   stdlib.TrimSpaceFunc,
				"format": stdlib.FormatFunc,
				"join":   stdlib.JoinFunc,
			},
		},
	}
}

// DecodeBody evaluates the body's expressions and populates target, which
// must be a non-nil pointer to a struct with `hcl` field tags.
func (c *Converter) DecodeBody(ctx context.Context, body hcl.Body, target any) error {
	logger := ctxlog.FromContext(ctx)

	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("decode target must be a non-nil pointer, got %T", target)
	}
	logger.Debug("Decoding component arguments.", "target", rv.Elem().Type().String())

	if body == nil {
		return nil
	}
	if diags := gohcl.DecodeBody(body, c.evalCtx, target); diags.HasErrors() {
		return diags
	}
	return nil
}

// envObject converts KEY=VALUE pairs into a cty object value.
func envObject(environ []string) cty.Value {
	vals := make(map[string]cty.Value, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vals[k] = cty.StringVal(v)
	}
	if len(vals) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(vals)
}
