// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package vcs

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/datawire/dlib/dlog"

	"github.com/datawire/tagver/pkg/tagver"
)

// gitRefInfo is one tag ref, annotated with enough information to order tags
// by recency: its offset in the simplified topological history (0 = closest
// to HEAD), and the best timestamp Git knows for it (tagger date for
// annotated tags, falling back to committer then creator date).
type gitRefInfo struct {
	ref      string
	topo     int
	bestDate time.Time
}

// FromGit derives a Version from the Git checkout containing the current
// working directory.
func FromGit(ctx context.Context, opts Options) (tagver.Version, error) {
	var info tagver.CommitInfo

	code, branch, err := run(ctx, []int{128}, "git", "symbolic-ref", "--short", "HEAD")
	if err != nil {
		return tagver.Version{}, err
	}
	if code == 0 {
		info.Branch = branch
	}

	code, commit, err := run(ctx, []int{128}, "git", "log", "-n", "1", "--format=%h")
	if err != nil {
		return tagver.Version{}, err
	}
	if code == 128 {
		// No commits yet.  The only possible state of such a checkout
		// is "everything is uncommitted".
		ver := tagver.New("0.0.0")
		ver.Dirty = boolPtr(true)
		ver.Branch = info.Branch
		return ver, nil
	}
	info.Commit = commit

	_, rawTimestamp, err := run(ctx, nil, "git",
		"-c", "log.showsignature=false", "log", "-n", "1", "--pretty=format:%cI")
	if err != nil {
		return tagver.Version{}, err
	}
	timestamp, err := time.Parse(time.RFC3339, rawTimestamp)
	if err != nil {
		return tagver.Version{}, fmt.Errorf("unparseable commit timestamp %q: %w", rawTimestamp, err)
	}
	info.Timestamp = &timestamp

	_, description, err := run(ctx, nil, "git", "describe", "--always", "--dirty")
	if err != nil {
		return tagver.Version{}, err
	}
	dirty := strings.HasSuffix(description, "-dirty")
	if !dirty {
		// "git describe --dirty" misses untracked files.
		_, status, err := run(ctx, nil, "git", "status", "--porcelain")
		if err != nil {
			return tagver.Version{}, err
		}
		dirty = status != ""
	}
	info.Dirty = &dirty

	tags, err := gitTagsByRecency(ctx)
	if err != nil {
		return tagver.Version{}, err
	}
	if len(tags) == 0 {
		_, countStr, err := run(ctx, nil, "git", "rev-list", "--count", "HEAD")
		if err != nil {
			return tagver.Version{}, err
		}
		info.Distance, err = strconv.Atoi(countStr)
		if err != nil {
			return tagver.Version{}, fmt.Errorf("unparseable commit count %q: %w", countStr, err)
		}
		return tagver.FromMatch(&tagver.MatchResult{Base: "0.0.0"}, info), nil
	}

	match, err := tagver.Match(opts.pattern(), tags, opts.LatestTag)
	if err != nil {
		return tagver.Version{}, err
	}

	_, countStr, err := run(ctx, nil, "git",
		"rev-list", "--count", fmt.Sprintf("refs/tags/%s..HEAD", match.MatchedTag))
	if err != nil {
		return tagver.Version{}, err
	}
	info.Distance, err = strconv.Atoi(countStr)
	if err != nil {
		return tagver.Version{}, fmt.Errorf("unparseable commit count %q: %w", countStr, err)
	}

	return tagver.FromMatch(match, info), nil
}

// gitTagsByRecency lists the tags merged into HEAD, most recent first:
// primarily by how close to HEAD they sit in the simplified topological
// history, with date as the tie-breaker for tags on the same commit.
func gitTagsByRecency(ctx context.Context) ([]string, error) {
	_, refLines, err := run(ctx, nil, "git",
		"for-each-ref", "refs/tags/**", "--merged", "HEAD",
		"--format", "%(refname)@{%(creatordate:iso-strict)@{%(*committerdate:iso-strict)@{%(taggerdate:iso-strict)")
	if err != nil {
		return nil, err
	}
	if refLines == "" {
		return nil, nil
	}

	topo, err := gitTagTopoOrder(ctx)
	if err != nil {
		return nil, err
	}

	var refs []gitRefInfo
	for _, line := range strings.Split(refLines, "\n") {
		fields := strings.Split(strings.TrimSpace(line), "@{")
		if len(fields) != 4 {
			continue
		}
		fullRef, creatorDate, committerDate, taggerDate := fields[0], fields[1], fields[2], fields[3]
		offset, ok := topo[fullRef]
		if !ok {
			dlog.Debugf(ctx, "ignoring tag %q: not in the topological history of HEAD", fullRef)
			continue
		}
		bestDate := time.Time{}
		for _, raw := range []string{taggerDate, committerDate, creatorDate} {
			if raw == "" {
				continue
			}
			if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
				bestDate = parsed
				break
			}
		}
		refs = append(refs, gitRefInfo{
			ref:      strings.TrimPrefix(fullRef, "refs/tags/"),
			topo:     offset,
			bestDate: bestDate,
		})
	}

	sort.SliceStable(refs, func(i, j int) bool {
		if refs[i].topo != refs[j].topo {
			return refs[i].topo < refs[j].topo
		}
		return refs[i].bestDate.After(refs[j].bestDate)
	})
	tags := make([]string, len(refs))
	for i, ref := range refs {
		tags[i] = ref.ref
	}
	return tags, nil
}

// gitTagTopoOrder maps each decorated tag ref to the offset of its commit in
// the simplified topological history of HEAD.
func gitTagTopoOrder(ctx context.Context) (map[string]int, error) {
	_, logLines, err := run(ctx, nil, "git",
		"log", "--simplify-by-decoration", "--topo-order", "--decorate=full", "HEAD",
		"--format=%H%d")
	if err != nil {
		return nil, err
	}

	topo := make(map[string]int)
	for i, line := range strings.Split(logLines, "\n") {
		line = strings.TrimSpace(line)
		open := strings.Index(line, " (")
		if open < 0 || !strings.HasSuffix(line, ")") {
			continue
		}
		decorations := line[open+2 : len(line)-1]
		for _, decoration := range strings.Split(decorations, ", ") {
			if !strings.HasPrefix(decoration, "tag: ") {
				continue
			}
			topo[strings.TrimPrefix(decoration, "tag: ")] = i
		}
	}
	return topo, nil
}
