package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertShareCreated checks the log output for the creation event of tag by
// creator.
func AssertShareCreated(t *testing.T, result *HarnessResult, tag, creator string) {
	t.Helper()

	expected := fmt.Sprintf("tag=%s creator=%s", tag, creator)
	require.True(t,
		strings.Contains(result.LogOutput, `msg="Shared data created."`) && strings.Contains(result.LogOutput, expected),
		"expected creation of %q by %s in logs", tag, creator,
	)
}
