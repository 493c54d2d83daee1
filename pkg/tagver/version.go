// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package tagver

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"k8s.io/apimachinery/pkg/util/intstr"
)

// Optional fields are pointers; nil means "unset".  The *Or helpers below
// are the uniform value-or-default accessors used by comparison and
// rendering.

func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func strOr(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func timeOr(p *time.Time, def time.Time) time.Time {
	if p == nil {
		return def
	}
	return *p
}

// A Version is the canonical in-memory record of a derived version.
//
// The zero value is not useful; construct one with New, Parse, FromMatch, or
// a struct literal with at least Base set.  All methods are value receivers
// and never modify the receiver, so a Version may be read concurrently.
type Version struct {
	// Base is the release segment, such as "0.1.0": a non-empty
	// dot-delimited sequence of non-negative integers as text.
	Base string
	// Stage is the prerelease label ("a", "alpha", "rc", ...), nil for a
	// final release.  Revision is the numeric counter within the stage;
	// it is only meaningful when Stage is set.
	Stage    *string
	Revision *int
	// Distance is the number of commits since the matched tag.
	Distance int
	// Commit is the commit identifier ("" if unknown).
	Commit string
	// Dirty reports whether the working tree differed from the inspected
	// commit; nil if unknown.
	Dirty *bool
	// TaggedMetadata is free text carried verbatim from the tag itself,
	// as opposed to the VCS-derived metadata above ("" if none).
	TaggedMetadata string
	// Epoch is the PEP 440 epoch; nil for the implicit epoch 0.
	Epoch *int
	// Branch is the name of the current branch ("" if unknown).
	Branch string
	// Timestamp is the time of the inspected commit, normalized to UTC;
	// nil if unknown.
	Timestamp *time.Time

	matchedTag         string
	newerUnmatchedTags []string
}

// New returns a Version with only the base set, such as New("0.1.0").
func New(base string) Version {
	return Version{Base: base}
}

// CommitInfo is the VCS-collected state that accompanies a tag match when
// constructing a Version: how far past the tag the checkout is, and what
// commit it is sitting on.
type CommitInfo struct {
	Distance  int
	Commit    string
	Dirty     *bool
	Branch    string
	Timestamp *time.Time
}

// FromMatch builds a Version from Pattern-Matcher output plus VCS-supplied
// commit facts.
func FromMatch(match *MatchResult, info CommitInfo) Version {
	v := Version{
		Base:               match.Base,
		Stage:              match.Stage,
		Revision:           match.Revision,
		TaggedMetadata:     match.TaggedMetadata,
		Epoch:              match.Epoch,
		Distance:           info.Distance,
		Commit:             info.Commit,
		Dirty:              info.Dirty,
		Branch:             info.Branch,
		matchedTag:         match.MatchedTag,
		newerUnmatchedTags: match.NewerUnmatchedTags,
	}
	if info.Timestamp != nil {
		ts := info.Timestamp.UTC()
		v.Timestamp = &ts
	}
	return v
}

// MatchedTag returns the tag this Version was derived from, if it came from
// a pattern match.
func (v Version) MatchedTag() (string, bool) {
	return v.matchedTag, v.matchedTag != ""
}

// NewerUnmatchedTags returns the tags that were newer than the matched one
// but did not match the pattern, most recent first.
func (v Version) NewerUnmatchedTags() []string {
	return v.newerUnmatchedTags
}

// Parse attempts to recover a Version from a full version string such as
// "0.3.0a3+d7.gb6a9020.dirty", using the default tag grammar.  This uses
// inexact heuristics: a string the grammar cannot make sense of comes back
// as a bare Version with the whole input as its base.
func Parse(version string) Version {
	return ParsePattern(version, DefaultPattern)
}

// ParsePattern is Parse with a caller-supplied pattern (see Match for the
// capture-group contract).
func ParsePattern(version, pattern string) Version {
	prefixed := version
	if !strings.HasPrefix(version, "v") {
		prefixed = "v" + version
	}
	match, err := Match(pattern, []string{prefixed}, true)
	if err != nil {
		return New(version)
	}

	residual, distance, commit, dirty := decomposeTaggedMetadata(match.TaggedMetadata)
	return Version{
		Base:           match.Base,
		Stage:          match.Stage,
		Revision:       match.Revision,
		Distance:       intOr(distance, 0),
		Commit:         commit,
		Dirty:          dirty,
		TaggedMetadata: residual,
		Epoch:          match.Epoch,
	}
}

// Equal reports whether two Versions have equal fields.  The matched-tag
// bookkeeping from the Pattern Matcher is not part of a Version's identity.
func (v Version) Equal(other Version) bool {
	return v.Base == other.Base &&
		strOr(v.Stage, "") == strOr(other.Stage, "") &&
		(v.Stage == nil) == (other.Stage == nil) &&
		intOr(v.Revision, 0) == intOr(other.Revision, 0) &&
		(v.Revision == nil) == (other.Revision == nil) &&
		v.Distance == other.Distance &&
		v.Commit == other.Commit &&
		boolOr(v.Dirty, false) == boolOr(other.Dirty, false) &&
		(v.Dirty == nil) == (other.Dirty == nil) &&
		v.TaggedMetadata == other.TaggedMetadata &&
		intOr(v.Epoch, 0) == intOr(other.Epoch, 0) &&
		(v.Epoch == nil) == (other.Epoch == nil) &&
		v.Branch == other.Branch &&
		timesEqual(v.Timestamp, other.Timestamp)
}

func timesEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// MatchesPartial compares v to other, treating every unset field of other as
// a wildcard.  Distance is additionally a wildcard when other.Distance is 0.
// This is how ignore-lists are checked: the ignored entry only pins the
// fields it actually sets.
func (v Version) MatchesPartial(other Version) bool {
	return (other.Base == "" || v.Base == other.Base) &&
		(other.Stage == nil || strOr(v.Stage, "") == *other.Stage) &&
		(other.Revision == nil || intOr(v.Revision, -1) == *other.Revision) &&
		(other.Distance == 0 || v.Distance == other.Distance) &&
		(other.Commit == "" || v.Commit == other.Commit) &&
		(other.Dirty == nil || boolOr(v.Dirty, !*other.Dirty) == *other.Dirty) &&
		(other.TaggedMetadata == "" || v.TaggedMetadata == other.TaggedMetadata) &&
		(other.Epoch == nil || intOr(v.Epoch, -1) == *other.Epoch) &&
		(other.Branch == "" || v.Branch == other.Branch) &&
		(other.Timestamp == nil || timesEqual(v.Timestamp, other.Timestamp))
}

// cmpBase compares two release segments numerically, position by position,
// padding the shorter one with zeros.  Non-numeric positions fall back to
// text comparison.
func cmpBase(a, b string) int {
	aParts := strings.Split(a, ".")
	bParts := strings.Split(b, ".")
	for i := 0; i < len(aParts) || i < len(bParts); i++ {
		aSeg, bSeg := "0", "0"
		if i < len(aParts) {
			aSeg = aParts[i]
		}
		if i < len(bParts) {
			bSeg = bParts[i]
		}
		aN, aErr := strconv.Atoi(aSeg)
		bN, bErr := strconv.Atoi(bSeg)
		switch {
		case aErr == nil && bErr == nil:
			if aN != bN {
				return aN - bN
			}
		default:
			if aSeg != bSeg {
				if aSeg < bSeg {
					return -1
				}
				return 1
			}
		}
	}
	return 0
}

// Less reports whether every field of v is strictly less than the
// corresponding field of other (unset fields compare at their zero
// defaults).  This is deliberately not a lexicographic precedence order;
// see DESIGN.md for the rationale.  Callers that need a total order should
// compare serialized PEP 440 strings instead.
func (v Version) Less(other Version) bool {
	return cmpBase(v.Base, other.Base) < 0 &&
		strOr(v.Stage, "") < strOr(other.Stage, "") &&
		intOr(v.Revision, 0) < intOr(other.Revision, 0) &&
		v.Distance < other.Distance &&
		v.Commit < other.Commit &&
		!boolOr(v.Dirty, false) && boolOr(other.Dirty, false) &&
		v.TaggedMetadata < other.TaggedMetadata &&
		intOr(v.Epoch, 0) < intOr(other.Epoch, 0) &&
		v.Branch < other.Branch &&
		timeOr(v.Timestamp, time.Time{}).Before(timeOr(other.Timestamp, time.Time{}))
}

// String implements fmt.Stringer: the default (PEP 440) serialization, or
// the bare base if that cannot be rendered.
func (v Version) String() string {
	out, err := v.Serialize(SerializeOptions{})
	if err != nil {
		return v.Base
	}
	return out
}

// SerializeOptions controls Version.Serialize.  The zero value renders the
// default PEP 440 composition.
type SerializeOptions struct {
	// Metadata controls the metadata/local segment.  Commit metadata is
	// normally included only when the distance is nonzero; set this to
	// true to always include it, or to false to always exclude it.
	// Ignored when Format or FormatFunc is used.
	Metadata *bool
	// Dirty includes a "dirty" token in the metadata when the version is
	// dirty.  Inert when Metadata is false; ignored with Format/FormatFunc.
	Dirty bool
	// Format is a custom output template with named substitution slots:
	// {base}, {stage}, {revision}, {distance}, {commit}, {dirty} (which
	// expands to "dirty" or "clean"), {tagged_metadata}, {epoch},
	// {branch}, {branch_escaped} (which omits any non-letter/number
	// characters), and {timestamp} (YYYYmmddHHMMSS, UTC).
	Format string
	// FormatFunc is the callback alternative to Format; it receives the
	// possibly-bumped version.  It takes precedence over Format.
	FormatFunc func(Version) (string, error)
	// Style selects the built-in composition; defaults to PEP 440 when no
	// custom format is given.  When set together with a custom format,
	// the custom output is still validated against the style's grammar.
	Style *Style
	// Bump increments the last position of the base (or the revision,
	// once inside a prerelease) before rendering.  It does nothing when
	// sitting on a commit with a version tag (distance 0).
	Bump bool
	// TaggedMetadata inserts the tag's own metadata as the first part of
	// the metadata segment.  Ignored with Format/FormatFunc.
	TaggedMetadata bool
}

// Serialize renders the Version as a string.  It is side-effect-free: when
// bumping, an unmutated bumped shadow copy supplies the base and revision
// for the remainder of the rendering.
func (v Version) Serialize(opts SerializeOptions) (string, error) {
	base := v.Base
	revision := v.Revision
	if opts.Bump && v.Distance > 0 {
		bumped, err := v.Bump(-1)
		if err != nil {
			return "", err
		}
		base = bumped.Base
		revision = bumped.Revision
	}

	if opts.FormatFunc != nil || opts.Format != "" {
		var out string
		if opts.FormatFunc != nil {
			shadow := v
			shadow.Base = base
			shadow.Revision = revision
			var err error
			out, err = opts.FormatFunc(shadow)
			if err != nil {
				return "", err
			}
		} else {
			out = v.expandFormat(opts.Format, base, revision)
		}
		if opts.Style != nil {
			if err := Check(out, *opts.Style); err != nil {
				return "", err
			}
		}
		return out, nil
	}

	style := StylePep440
	if opts.Style != nil {
		style = *opts.Style
	}

	var metaParts []intstr.IntOrString
	if opts.Metadata == nil || *opts.Metadata {
		if opts.TaggedMetadata && v.TaggedMetadata != "" {
			metaParts = append(metaParts, intstr.FromString(v.TaggedMetadata))
		}
		if (boolOr(opts.Metadata, false) || v.Distance > 0) && v.Commit != "" {
			metaParts = append(metaParts, intstr.FromString(v.Commit))
		}
		if opts.Dirty && boolOr(v.Dirty, false) {
			metaParts = append(metaParts, intstr.FromString("dirty"))
		}
	}

	var preParts []intstr.IntOrString
	if v.Stage != nil {
		preParts = append(preParts, intstr.FromString(*v.Stage))
		if revision != nil {
			preParts = append(preParts, intstr.FromInt(*revision))
		}
	}
	if v.Distance > 0 {
		// "pre" when heading toward a future release (bumping);
		// "post" when trailing a past one.
		if opts.Bump {
			preParts = append(preParts, intstr.FromString("pre"))
		} else {
			preParts = append(preParts, intstr.FromString("post"))
		}
		preParts = append(preParts, intstr.FromInt(v.Distance))
	}

	switch style {
	case StyleSemVer:
		return SerializeSemVer(base, preParts, metaParts)
	case StylePvp:
		return SerializePvp(base, append(preParts, metaParts...))
	case StylePep440:
	}

	// PEP 440 has native post and dev segments; stages named "post" or
	// "dev" map onto them directly instead of rendering as prerelease
	// text, and a nonzero distance is folded in arithmetically.
	stage := strOr(v.Stage, "")
	var post, dev *int
	switch stage {
	case "post":
		stage = ""
		post = revision
	case "dev":
		stage = ""
		dev = revision
	}
	if v.Distance > 0 {
		switch {
		case opts.Bump && dev == nil:
			dev = intPtr(v.Distance)
		case opts.Bump:
			dev = intPtr(*dev + v.Distance)
		case post == nil && dev == nil:
			post = intPtr(v.Distance)
			dev = intPtr(0)
		case dev == nil:
			dev = intPtr(v.Distance)
		default:
			dev = intPtr(*dev + v.Distance)
		}
	}
	return SerializePep440(Pep440{
		Epoch:    v.Epoch,
		Base:     base,
		Stage:    stage,
		Revision: revision,
		Post:     post,
		Dev:      dev,
		Metadata: metaParts,
	})
}

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

func (v Version) expandFormat(format, base string, revision *int) string {
	dirty := "clean"
	if boolOr(v.Dirty, false) {
		dirty = "dirty"
	}
	revStr := ""
	if revision != nil {
		revStr = strconv.Itoa(*revision)
	}
	epochStr := ""
	if v.Epoch != nil {
		epochStr = strconv.Itoa(*v.Epoch)
	}
	timestamp := ""
	if v.Timestamp != nil {
		timestamp = v.Timestamp.UTC().Format("20060102150405")
	}
	return strings.NewReplacer(
		"{base}", base,
		"{stage}", strOr(v.Stage, ""),
		"{revision}", revStr,
		"{distance}", strconv.Itoa(v.Distance),
		"{commit}", v.Commit,
		"{dirty}", dirty,
		"{tagged_metadata}", v.TaggedMetadata,
		"{epoch}", epochStr,
		"{branch}", v.Branch,
		"{branch_escaped}", nonAlphanumeric.ReplaceAllString(v.Branch, ""),
		"{timestamp}", timestamp,
	).Replace(format)
}
