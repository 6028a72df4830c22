package print

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/vk/sharegrid/internal/ctxlog"
	"github.com/vk/sharegrid/internal/registry"
	"github.com/vk/sharegrid/internal/shared"
)

// Module implements the registry.Module interface for this package. Output
// goes to Out, or to stdout when Out is nil.
type Module struct {
	Out io.Writer
}

// Input defines the arguments of a print component.
type Input struct {
	Message string            `hcl:"message,optional"`
	Values  map[string]string `hcl:"values,optional"`
}

func (m *Module) writer() io.Writer {
	if m.Out == nil {
		return os.Stdout
	}
	return m.Out
}

// WriteShares renders shares as an aligned table.
func WriteShares(w io.Writer, shares []shared.Share) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TAG\tTYPE\tCREATOR\tCONSUMERS")
	for _, s := range shares {
		consumers := make([]string, len(s.Consumers))
		for i, c := range s.Consumers {
			consumers[i] = string(c)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.Tag, s.Type, s.Creator, strings.Join(consumers, ","))
	}
	return tw.Flush()
}

// start renders the whole report first and writes it with a single Write, so
// it does not interleave with log lines sharing the same writer.
func (m *Module) start(ctx context.Context, h *shared.Handle, raw any) error {
	input := raw.(*Input)
	ctxlog.FromContext(ctx).Debug("Printing shares.", "caller", h.Identity())

	var b strings.Builder
	if input.Message != "" {
		fmt.Fprintln(&b, input.Message)
	}
	keys := make([]string, 0, len(input.Values))
	for k := range input.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "  %s = %q\n", k, input.Values[k])
	}
	if err := WriteShares(&b, h.ListShares()); err != nil {
		return err
	}
	_, err := m.writer().Write([]byte(b.String()))
	return err
}

// Register registers the print component type.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterComponent("print", &registry.RegisteredComponent{
		NewInput: func() any { return new(Input) },
		Start:    m.start,
	})
}
