// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package tagver

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/util/intstr"
)

// Segments of a prerelease or metadata group are a mix of words and numbers
// ("rc" and 1, "post" and 3), so the serializers take them as
// intstr.IntOrString lists.

func writeSegments(ret *strings.Builder, segments []intstr.IntOrString, sep string) {
	for i, segment := range segments {
		if i > 0 {
			ret.WriteString(sep)
		}
		ret.WriteString(segment.String())
	}
}

// stageAliases maps the alternative prerelease spellings to the canonical
// PEP 440 ones.  Unknown labels pass through unchanged (lowercased).
//
//nolint:gochecknoglobals // Would be 'const'.
var stageAliases = map[string]string{
	"alpha":   "a",
	"beta":    "b",
	"c":       "rc",
	"pre":     "rc",
	"preview": "rc",
}

// Pep440 holds the five segments of a PEP 440 version identifier plus any
// local version label segments.
type Pep440 struct {
	// Epoch is the "N!" prefix; nil for the implicit epoch 0.
	Epoch *int
	// Base is the release segment, such as "0.1.0".
	Base string
	// Stage is the prerelease phase ("a", "b", "rc", or an alternative
	// spelling per stageAliases); "" for a final release.  Revision is
	// the counter within the phase; PEP 440 does not allow omitting it,
	// so nil renders as 0.  Revision is ignored when Stage is "".
	Stage    string
	Revision *int
	// Post and Dev are the ".postN" and ".devN" segments.
	Post *int
	Dev  *int
	// Metadata is the local version label, segment by segment.
	Metadata []intstr.IntOrString
}

// SerializePep440 renders a PEP 440 version string.  Use this instead of
// Version.Serialize for direct control over how the segments are mapped.
func SerializePep440(parts Pep440) (string, error) {
	var ret strings.Builder
	if parts.Epoch != nil {
		fmt.Fprintf(&ret, "%d!", *parts.Epoch)
	}
	ret.WriteString(parts.Base)
	if parts.Stage != "" {
		stage := strings.ToLower(parts.Stage)
		if canonical, ok := stageAliases[stage]; ok {
			stage = canonical
		}
		ret.WriteString(stage)
		fmt.Fprintf(&ret, "%d", intOr(parts.Revision, 0))
	}
	if parts.Post != nil {
		fmt.Fprintf(&ret, ".post%d", *parts.Post)
	}
	if parts.Dev != nil {
		fmt.Fprintf(&ret, ".dev%d", *parts.Dev)
	}
	if len(parts.Metadata) > 0 {
		ret.WriteString("+")
		writeSegments(&ret, parts.Metadata, ".")
	}
	return selfCheck(ret.String(), StylePep440)
}

// SerializeSemVer renders a Semantic Versioning 2.0.0 string from a version
// core, prerelease identifiers, and build metadata identifiers.
func SerializeSemVer(base string, pre, metadata []intstr.IntOrString) (string, error) {
	var ret strings.Builder
	ret.WriteString(base)
	if len(pre) > 0 {
		ret.WriteString("-")
		writeSegments(&ret, pre, ".")
	}
	if len(metadata) > 0 {
		ret.WriteString("+")
		writeSegments(&ret, metadata, ".")
	}
	return selfCheck(ret.String(), StyleSemVer)
}

// SerializePvp renders a Haskell PVP string.  PVP has no separate
// prerelease/metadata delimiter, so all extra segments are dash-joined after
// the version core.
func SerializePvp(base string, metadata []intstr.IntOrString) (string, error) {
	var ret strings.Builder
	ret.WriteString(base)
	if len(metadata) > 0 {
		ret.WriteString("-")
		writeSegments(&ret, metadata, "-")
	}
	return selfCheck(ret.String(), StylePvp)
}

// selfCheck validates a serializer's own output.  Well-formed inputs must
// never produce an invalid string, so a rejection here is reported as a
// contract failure rather than as a ValidationError.
func selfCheck(serialized string, style Style) (string, error) {
	if err := Check(serialized, style); err != nil {
		return "", &FormatError{
			Msg: fmt.Sprintf("serializer produced a malformed %s string", style),
			Err: err,
		}
	}
	return serialized, nil
}
