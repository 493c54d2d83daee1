// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package vcs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datawire/tagver/pkg/vcs"
)

func TestParseKind(t *testing.T) {
	t.Parallel()
	for _, key := range vcs.KindKeys() {
		key := key
		t.Run(key, func(t *testing.T) {
			t.Parallel()
			kind, err := vcs.ParseKind(key)
			require.NoError(t, err)
			assert.Equal(t, key, kind.String())
		})
	}
	t.Run("invalid", func(t *testing.T) {
		t.Parallel()
		_, err := vcs.ParseKind("darcs")
		assert.Error(t, err)
	})
}

func TestDetect(t *testing.T) {
	t.Parallel()
	type TestCase struct {
		MarkerDir string
		Kind      vcs.Kind
	}
	testcases := map[string]TestCase{
		"git":       {".git", vcs.KindGit},
		"mercurial": {".hg", vcs.KindMercurial},
	}
	for tcName, tcData := range testcases {
		tcData := tcData
		t.Run(tcName, func(t *testing.T) {
			t.Parallel()
			root := t.TempDir()
			require.NoError(t, os.Mkdir(filepath.Join(root, tcData.MarkerDir), 0o755))
			nested := filepath.Join(root, "a", "b")
			require.NoError(t, os.MkdirAll(nested, 0o755))

			kind, err := vcs.Detect(root)
			require.NoError(t, err)
			assert.Equal(t, tcData.Kind, kind)

			// found by walking up from a nested directory, too
			kind, err = vcs.Detect(nested)
			require.NoError(t, err)
			assert.Equal(t, tcData.Kind, kind)
		})
	}
	t.Run("none", func(t *testing.T) {
		t.Parallel()
		_, err := vcs.Detect(t.TempDir())
		assert.Error(t, err)
	})
}
