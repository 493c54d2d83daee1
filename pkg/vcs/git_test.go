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

// Test against a real throwaway Git repository.
func TestFromGit(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.SkipNow()
	}
	ctx := dlog.NewTestContext(t, true)
	chdir(t, t.TempDir())
	git := func(args ...string) {
		t.Helper()
		mustRun(ctx, t, "git", args...)
	}
	commit := func(msg string) {
		t.Helper()
		git("-c", "user.name=tester", "-c", "user.email=tester@localhost",
			"commit", "--allow-empty", "-m", msg)
	}

	git("init")
	git("checkout", "-b", "main")

	// Before the first commit, the only possible state is "everything is
	// uncommitted".
	ver, err := vcs.FromGit(ctx, vcs.Options{})
	require.NoError(t, err)
	assert.Equal(t, "0.0.0", ver.Base)
	assert.Equal(t, "main", ver.Branch)
	assert.Equal(t, "", ver.Commit)
	require.NotNil(t, ver.Dirty)
	assert.True(t, *ver.Dirty)

	// With commits but no tags, the distance is the total commit count.
	commit("one")
	ver, err = vcs.FromGit(ctx, vcs.Options{})
	require.NoError(t, err)
	assert.Equal(t, "0.0.0", ver.Base)
	assert.Equal(t, 1, ver.Distance)
	assert.NotEmpty(t, ver.Commit)
	assert.NotNil(t, ver.Timestamp)
	require.NotNil(t, ver.Dirty)
	assert.False(t, *ver.Dirty)
	_, matched := ver.MatchedTag()
	assert.False(t, matched)

	// Exactly at a matching tag.
	git("tag", "v0.1.0")
	ver, err = vcs.FromGit(ctx, vcs.Options{})
	require.NoError(t, err)
	assert.Equal(t, "0.1.0", ver.Base)
	assert.Equal(t, 0, ver.Distance)
	tag, matched := ver.MatchedTag()
	assert.True(t, matched)
	assert.Equal(t, "v0.1.0", tag)

	// Commits past the tag, plus a newer tag that the pattern ignores.
	commit("two")
	commit("three")
	git("tag", "not-a-version")
	ver, err = vcs.FromGit(ctx, vcs.Options{})
	require.NoError(t, err)
	assert.Equal(t, "0.1.0", ver.Base)
	assert.Equal(t, 2, ver.Distance)
	tag, matched = ver.MatchedTag()
	assert.True(t, matched)
	assert.Equal(t, "v0.1.0", tag)
	assert.Equal(t, []string{"not-a-version"}, ver.NewerUnmatchedTags())

	// A newer matching tag wins over both of the older ones.
	commit("four")
	git("tag", "v0.2.0rc1")
	ver, err = vcs.FromGit(ctx, vcs.Options{})
	require.NoError(t, err)
	assert.Equal(t, "0.2.0", ver.Base)
	require.NotNil(t, ver.Stage)
	assert.Equal(t, "rc", *ver.Stage)
	require.NotNil(t, ver.Revision)
	assert.Equal(t, 1, *ver.Revision)
	assert.Equal(t, 0, ver.Distance)
	assert.Empty(t, ver.NewerUnmatchedTags())

	// "git describe --dirty" misses untracked files; FromGit must not.
	require.NoError(t, os.WriteFile("untracked.txt", []byte("scratch\n"), 0o644))
	ver, err = vcs.FromGit(ctx, vcs.Options{})
	require.NoError(t, err)
	require.NotNil(t, ver.Dirty)
	assert.True(t, *ver.Dirty)
}
