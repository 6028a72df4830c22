package shared

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIdentityFromContext(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		ctx  context.Context
		want Identity
	}{
		{
			name: "no identity",
			ctx:  context.Background(),
			want: Unknown,
		},
		{
			name: "explicit identity",
			ctx:  WithIdentity(context.Background(), "component.print.report"),
			want: "component.print.report",
		},
		{
			name: "innermost identity wins",
			ctx:  WithIdentity(WithIdentity(context.Background(), "host"), "component.assets.fonts"),
			want: "component.assets.fonts",
		},
		{
			name: "blank identity",
			ctx:  WithIdentity(context.Background(), "  "),
			want: Unknown,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, IdentityFromContext(tc.ctx))
		})
	}
}

func TestRegistry_FromContextBindsResolvedIdentity(t *testing.T) {
	t.Parallel()
	reg := newTestRegistry(t)

	h := reg.FromContext(WithIdentity(context.Background(), "component.http_client.api"))
	require.Equal(t, Identity("component.http_client.api"), h.Identity())

	_, err := GetOrCreate(h, "t", buildAtlas)
	require.NoError(t, err)
	require.Equal(t, Identity("component.http_client.api"), reg.ListShares()[0].Creator)

	require.Equal(t, Unknown, reg.FromContext(context.Background()).Identity())
	require.Equal(t, Unknown, reg.Handle("").Identity())
}
