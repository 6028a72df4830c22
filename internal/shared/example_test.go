package shared_test

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/sharegrid/internal/shared"
)

type pool struct{ size int }

func (p *pool) Dispose() error {
	fmt.Println("pool disposed")
	return nil
}

func ExampleGetOrCreate() {
	reg := shared.New(shared.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	a := reg.Handle("component.a")
	b := reg.Handle("component.b")

	p1, _ := shared.GetOrCreate(a, "pool", func() (*pool, error) { return &pool{size: 4}, nil })
	p2, _ := shared.Get[*pool](b, "pool")
	fmt.Println(p1 == p2, p2.size)

	for _, s := range reg.ListShares() {
		fmt.Println(s.Tag, s.Creator, s.Consumers)
	}

	_ = a.Relinquish("pool")
	_ = b.Relinquish("pool")
	fmt.Println(reg.Len())
	// Output:
	// true 4
	// pool component.a [component.a component.b]
	// pool disposed
	// 0
}
