// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package vcs_test

import (
	"os"
	"os/exec"
	"testing"

	"github.com/datawire/dlib/dlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datawire/tagver/pkg/vcs"
)

// Test against a real throwaway Mercurial repository.
func TestFromMercurial(t *testing.T) {
	if _, err := exec.LookPath("hg"); err != nil {
		t.SkipNow()
	}
	ctx := dlog.NewTestContext(t, true)
	chdir(t, t.TempDir())
	hg := func(args ...string) {
		t.Helper()
		mustRun(ctx, t, "hg", args...)
	}

	hg("init")

	// Before the first commit.
	ver, err := vcs.FromMercurial(ctx, vcs.Options{})
	require.NoError(t, err)
	assert.Equal(t, "0.0.0", ver.Base)
	assert.Equal(t, "default", ver.Branch)
	assert.Equal(t, "", ver.Commit)
	require.NotNil(t, ver.Dirty)
	assert.False(t, *ver.Dirty)
	assert.Nil(t, ver.Timestamp)

	// An added-but-uncommitted file makes the checkout dirty.
	require.NoError(t, os.WriteFile("file.txt", []byte("contents\n"), 0o644))
	hg("add", "file.txt")
	ver, err = vcs.FromMercurial(ctx, vcs.Options{})
	require.NoError(t, err)
	require.NotNil(t, ver.Dirty)
	assert.True(t, *ver.Dirty)

	// With commits but no tags, the distance counts from revision 0.
	hg("commit", "-u", "tester", "-m", "one")
	ver, err = vcs.FromMercurial(ctx, vcs.Options{})
	require.NoError(t, err)
	assert.Equal(t, "0.0.0", ver.Base)
	assert.Equal(t, 1, ver.Distance)
	assert.NotEmpty(t, ver.Commit)
	assert.NotNil(t, ver.Timestamp)
	_, matched := ver.MatchedTag()
	assert.False(t, matched)

	// "hg tag" itself commits, so the tag sits one commit behind the tip.
	hg("tag", "-u", "tester", "v0.1.0")
	ver, err = vcs.FromMercurial(ctx, vcs.Options{})
	require.NoError(t, err)
	assert.Equal(t, "0.1.0", ver.Base)
	assert.Equal(t, 1, ver.Distance)
	tag, matched := ver.MatchedTag()
	assert.True(t, matched)
	assert.Equal(t, "v0.1.0", tag)
	require.NotNil(t, ver.Dirty)
	assert.False(t, *ver.Dirty)
}
