// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package tagver

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DefaultPattern is the tag grammar assumed when the caller does not supply
// one.  It matches tags such as "v1.2.3", "v1!2000.1.2", "v0.4.0rc1", and
// "v1.0.0+linux".  Tags are matched case-sensitively, after being prefixed
// with "v" if not already so prefixed.
const DefaultPattern = `^v((?P<epoch>\d+)!)?(?P<base>\d+(\.\d+)*)` +
	`([-._]?((?P<stage>[a-zA-Z]+)[-._]?(?P<revision>\d+)?))?` +
	`(\+(?P<tagged_metadata>.+))?$`

// A MatchResult is the outcome of matching a version-source pattern against
// a sequence of tag candidates.
type MatchResult struct {
	// MatchedTag is the candidate that matched.
	MatchedTag string
	// Base is the text of the required "base" capture group.
	Base string
	// Stage and Revision are the prerelease label and counter, when the
	// pattern captured them.  Revision is never set without Stage.
	Stage    *string
	Revision *int
	// NewerUnmatchedTags lists the candidates that preceded the match in
	// recency order but did not themselves match.
	NewerUnmatchedTags []string
	// TaggedMetadata is any metadata captured from the tag itself ("" if
	// none).
	TaggedMetadata string
	// Epoch is the PEP 440 epoch, when the pattern captured one.
	Epoch *int
}

// Match tests pattern against each candidate in sources (which must be in
// most-recent-first order) and extracts the version fields from the first
// match.  If latestOnly is set, only the first candidate is considered.
//
// The pattern must contain a capture group named "base" for the release
// segment; it may also contain groups named "stage", "revision",
// "tagged_metadata", and "epoch".
func Match(pattern string, sources []string, latestOnly bool) (*MatchResult, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &ConfigurationError{Pattern: pattern, Err: err}
	}
	baseIdx := re.SubexpIndex("base")
	if baseIdx < 0 {
		return nil, &ConfigurationError{Pattern: pattern}
	}

	candidates := sources
	if latestOnly && len(sources) > 1 {
		candidates = sources[:1]
	}

	var (
		groups  []string
		matched string
		newer   []string
	)
	for _, source := range candidates {
		m := re.FindStringSubmatch(source)
		if m == nil {
			newer = append(newer, source)
			continue
		}
		groups = m
		matched = source
		break
	}
	if groups == nil {
		return nil, &PatternError{Pattern: pattern, Sources: sources, LatestOnly: latestOnly}
	}

	ret := &MatchResult{
		MatchedTag:         matched,
		Base:               groups[baseIdx],
		NewerUnmatchedTags: newer,
	}
	if idx := re.SubexpIndex("tagged_metadata"); idx >= 0 {
		ret.TaggedMetadata = groups[idx]
	}
	if idx := re.SubexpIndex("stage"); idx >= 0 && groups[idx] != "" {
		stage := groups[idx]
		ret.Stage = &stage
		if idx := re.SubexpIndex("revision"); idx >= 0 && groups[idx] != "" {
			revision, err := strconv.Atoi(groups[idx])
			if err != nil {
				return nil, &FormatError{
					Msg: fmt.Sprintf("revision %q is not a valid number", groups[idx]),
				}
			}
			ret.Revision = &revision
		}
	}
	if idx := re.SubexpIndex("epoch"); idx >= 0 && groups[idx] != "" {
		epoch, err := strconv.Atoi(groups[idx])
		if err != nil {
			return nil, &FormatError{
				Msg: fmt.Sprintf("epoch %q is not a valid number", groups[idx]),
			}
		}
		ret.Epoch = &epoch
	}
	return ret, nil
}

var (
	metaDistance = regexp.MustCompile(`^d?(\d+)`)
	metaCommit   = regexp.MustCompile(`^g?([0-9a-z]+)`)
)

// decomposeTaggedMetadata splits a captured metadata suffix back into the
// conventional sub-fields that "git describe"-style strings embed in it: a
// dirty flag ("dirty" or "clean"), a distance ("d7"), and a commit
// ("gb6a9020").  Each sub-field is claimed at most once, scanning the
// dot-separated parts left to right; the unclaimed remainder is rejoined as
// the residual metadata.
func decomposeTaggedMetadata(meta string) (residual string, distance *int, commit string, dirty *bool) {
	if meta == "" {
		return "", nil, "", nil
	}
	var rest []string
	for _, part := range strings.Split(meta, ".") {
		if dirty == nil {
			if part == "dirty" {
				dirty = boolPtr(true)
				continue
			}
			if part == "clean" {
				dirty = boolPtr(false)
				continue
			}
		}
		if distance == nil {
			if m := metaDistance.FindStringSubmatch(part); m != nil {
				n, err := strconv.Atoi(m[1])
				if err == nil {
					distance = &n
					continue
				}
			}
		}
		if commit == "" {
			if m := metaCommit.FindStringSubmatch(part); m != nil {
				commit = m[1]
				continue
			}
		}
		rest = append(rest, part)
	}
	return strings.Join(rest, "."), distance, commit, dirty
}
