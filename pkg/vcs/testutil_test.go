// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package vcs_test

import (
	"context"
	"os"
	"testing"

	"github.com/datawire/dlib/dexec"
	"github.com/stretchr/testify/require"
)

// chdir makes dir the process working directory for the duration of the
// test.  Tests that use it cannot be parallel.
func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(orig))
	})
}

func mustRun(ctx context.Context, t *testing.T, name string, args ...string) {
	t.Helper()
	require.NoError(t, dexec.CommandContext(ctx, name, args...).Run())
}
