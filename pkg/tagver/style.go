// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package tagver

import (
	"fmt"
	"regexp"
	"strings"
)

// Style identifies one of the supported version-string conventions.
type Style int

const (
	// StylePep440 is PEP 440, Python's version identification scheme.
	StylePep440 Style = iota
	// StyleSemVer is Semantic Versioning 2.0.0.
	StyleSemVer
	// StylePvp is the Haskell Package Versioning Policy.
	StylePvp
)

type styleInfo struct {
	// key is the machine-readable spelling, as accepted by ParseStyle.
	key string
	// name is the human-readable spelling, as used in error messages.
	name string
	// grammar accepts exactly the strings that are valid under the style,
	// modulo the SemVer leading-zero rule which a regular grammar cannot
	// express (see Check).
	grammar *regexp.Regexp
}

//nolint:gochecknoglobals // Would be 'const'.
var styles = map[Style]styleInfo{
	StylePep440: {
		key:  "pep440",
		name: "PEP 440",
		grammar: regexp.MustCompile(`^(\d+!)?\d+(\.\d+)*((a|b|rc)\d+)?` +
			`(\.post\d+)?(\.dev\d+)?` +
			`(\+([a-zA-Z0-9]|[a-zA-Z0-9]{2}|[a-zA-Z0-9][a-zA-Z0-9.]+[a-zA-Z0-9]))?$`),
	},
	StyleSemVer: {
		key:  "semver",
		name: "Semantic Versioning",
		grammar: regexp.MustCompile(`^\d+\.\d+\.\d+` +
			`(-[a-zA-Z0-9-]+(\.[a-zA-Z0-9-]+)*)?` +
			`(\+[a-zA-Z0-9-]+(\.[a-zA-Z0-9-]+)*)?$`),
	},
	StylePvp: {
		key:     "pvp",
		name:    "PVP",
		grammar: regexp.MustCompile(`^\d+(\.\d+)*(-[a-zA-Z0-9]+)*$`),
	},
}

// String implements fmt.Stringer, returning the human-readable style name.
func (s Style) String() string {
	info, ok := styles[s]
	if !ok {
		return fmt.Sprintf("Style(%d)", int(s))
	}
	return info.name
}

// Key returns the machine-readable style name: "pep440", "semver", or "pvp".
func (s Style) Key() string {
	return styles[s].key
}

// StyleKeys returns the machine-readable style names accepted by ParseStyle.
func StyleKeys() []string {
	return []string{StylePep440.Key(), StyleSemVer.Key(), StylePvp.Key()}
}

// ParseStyle converts a machine-readable style name to a Style.
func ParseStyle(key string) (Style, error) {
	for style, info := range styles {
		if info.key == key {
			return style, nil
		}
	}
	return 0, fmt.Errorf("invalid style %q (valid styles: %s)",
		key, strings.Join(StyleKeys(), ", "))
}

// semVerLeadingZero matches a numeric identifier with a forbidden leading
// zero, such as the "01" in "1.2.3-01".
var semVerLeadingZero = regexp.MustCompile(`^0[0-9]+$`)

// Check tests whether a version string conforms to a style's grammar,
// returning a *ValidationError if it does not.
func Check(version string, style Style) error {
	info, ok := styles[style]
	if !ok {
		return fmt.Errorf("invalid style: %d", int(style))
	}
	if !info.grammar.MatchString(version) {
		return &ValidationError{Version: version, Style: style}
	}
	if style == StyleSemVer {
		// The base grammar accepts numeric identifiers with leading
		// zeros, but SemVer forbids them everywhere before the build
		// metadata.
		before := strings.SplitN(version, "+", 2)[0]
		for _, part := range strings.FieldsFunc(before, func(r rune) bool {
			return r == '.' || r == '-'
		}) {
			if semVerLeadingZero.MatchString(part) {
				return &ValidationError{Version: version, Style: style}
			}
		}
	}
	return nil
}
