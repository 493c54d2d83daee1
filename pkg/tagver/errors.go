// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package tagver

import (
	"fmt"
)

// A ConfigurationError indicates a version-source pattern that cannot be used
// against any input: it is either not a valid regular expression, or it lacks
// the required "base" capture group.
type ConfigurationError struct {
	Pattern string
	Err     error // non-nil when the pattern failed to compile
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("pattern %q is not a valid regular expression: %v", e.Pattern, e.Err)
	}
	return fmt.Sprintf("pattern %q did not include required capture group 'base'", e.Pattern)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// A PatternError indicates that a well-formed pattern matched none of the tag
// candidates under the requested policy.
type PatternError struct {
	Pattern    string
	Sources    []string
	LatestOnly bool
}

func (e *PatternError) Error() string {
	if e.LatestOnly && len(e.Sources) > 0 {
		return fmt.Sprintf("pattern %q did not match the latest tag %q from %q",
			e.Pattern, e.Sources[0], e.Sources)
	}
	return fmt.Sprintf("pattern %q did not match any tags from %q", e.Pattern, e.Sources)
}

// A FormatError indicates that a field that must be numeric failed to parse,
// or that a serializer produced a string its own validator rejects.  The
// latter is a contract violation in this package, not a user-input problem.
type FormatError struct {
	Msg string
	Err error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *FormatError) Unwrap() error { return e.Err }

// A ValidationError indicates that a version string does not conform to the
// grammar of the style it was checked against.
type ValidationError struct {
	Version string
	Style   Style
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("version %q does not conform to the %s style", e.Version, e.Style)
}
