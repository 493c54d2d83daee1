// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package tagver

import (
	"fmt"
	"strconv"
	"strings"
)

// BumpBase increments one of the numeric positions of a version core such as
// "0.1.0", resetting every position to the right of it to 0.  A negative
// index counts from the right, so the default last-position bump is index -1.
// Do not include prerelease identifiers in base.
func BumpBase(base string, index int) (string, error) {
	parts := strings.Split(base, ".")
	segments := make([]int, len(parts))
	for i, part := range parts {
		segment, err := strconv.Atoi(part)
		if err != nil {
			return "", &FormatError{
				Msg: fmt.Sprintf("base segment %q of %q is not a valid number", part, base),
			}
		}
		segments[i] = segment
	}

	if index < 0 {
		index += len(segments)
	}
	if index < 0 || index >= len(segments) {
		return "", &FormatError{
			Msg: fmt.Sprintf("base %q has no position %d to bump", base, index),
		}
	}

	segments[index]++
	for i := index + 1; i < len(segments); i++ {
		segments[i] = 0
	}

	strs := make([]string, len(segments))
	for i, segment := range segments {
		strs[i] = strconv.Itoa(segment)
	}
	return strings.Join(strs, "."), nil
}

// Bump returns a derived Version with the version incremented; the receiver
// is never modified.  When no stage is set, the base is bumped at the given
// position (per BumpBase).  Once inside a prerelease, the revision is bumped
// instead and the base is left untouched; an absent revision defaults to 2,
// since 1 would look like an already-published first prerelease.
func (v Version) Bump(index int) (Version, error) {
	bumped := v
	if v.Stage == nil {
		base, err := BumpBase(v.Base, index)
		if err != nil {
			return Version{}, err
		}
		bumped.Base = base
		return bumped, nil
	}
	if v.Revision == nil {
		bumped.Revision = intPtr(2)
	} else {
		bumped.Revision = intPtr(*v.Revision + 1)
	}
	return bumped, nil
}
