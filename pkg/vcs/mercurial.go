// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package vcs

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/datawire/tagver/pkg/tagver"
)

// FromMercurial derives a Version from the Mercurial checkout containing the
// current working directory.
func FromMercurial(ctx context.Context, opts Options) (tagver.Version, error) {
	var info tagver.CommitInfo

	_, status, err := run(ctx, nil, "hg", "status")
	if err != nil {
		return tagver.Version{}, err
	}
	info.Dirty = boolPtr(status != "")

	_, branch, err := run(ctx, nil, "hg", "branch")
	if err != nil {
		return tagver.Version{}, err
	}
	info.Branch = branch

	_, commit, err := run(ctx, nil, "hg", "id", "--debug", "-i", "-r", ".")
	if err != nil {
		return tagver.Version{}, err
	}
	commit = strings.TrimSuffix(commit, "+")
	// An all-zero ID means there are no commits yet.
	if strings.Trim(commit, "0") == "" {
		commit = ""
	}
	info.Commit = commit

	_, rawTimestamp, err := run(ctx, nil, "hg",
		"log", "--limit", "1", "--template", "{date|rfc3339date}")
	if err != nil {
		return tagver.Version{}, err
	}
	if rawTimestamp != "" {
		timestamp, err := time.Parse(time.RFC3339, rawTimestamp)
		if err != nil {
			return tagver.Version{}, fmt.Errorf("unparseable commit timestamp %q: %w",
				rawTimestamp, err)
		}
		info.Timestamp = &timestamp
	}

	if info.Commit == "" {
		return tagver.FromMatch(&tagver.MatchResult{Base: "0.0.0"}, info), nil
	}

	_, tagLines, err := run(ctx, nil, "hg",
		"log", "-r", "sort(tag(), -rev)", "--template", `{join(tags, ':')}\n`)
	if err != nil {
		return tagver.Version{}, err
	}
	var tags []string
	for _, line := range strings.Split(tagLines, "\n") {
		for _, tag := range strings.Split(strings.TrimSpace(line), ":") {
			// "tip" is a moving label, not a release tag.
			if tag == "" || tag == "tip" {
				continue
			}
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		_, numStr, err := run(ctx, nil, "hg", "id", "--num", "--rev", "tip")
		if err != nil {
			return tagver.Version{}, err
		}
		num, err := strconv.Atoi(strings.TrimSuffix(numStr, "+"))
		if err != nil {
			return tagver.Version{}, fmt.Errorf("unparseable revision number %q: %w", numStr, err)
		}
		info.Distance = num + 1
		return tagver.FromMatch(&tagver.MatchResult{Base: "0.0.0"}, info), nil
	}

	match, err := tagver.Match(opts.pattern(), tags, opts.LatestTag)
	if err != nil {
		return tagver.Version{}, err
	}

	_, trail, err := run(ctx, nil, "hg",
		"log", "-r", fmt.Sprintf("%s::.", match.MatchedTag), "--template", ".")
	if err != nil {
		return tagver.Version{}, err
	}
	// The trail includes the tagged commit itself.
	info.Distance = len(trail) - 1
	if info.Distance < 0 {
		info.Distance = 0
	}

	return tagver.FromMatch(match, info), nil
}
