// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package cliutil

import (
	"strings"
)

// Wrap the string `s` to a maximum width `w`.  Pass `w` == 0 to do no wrapping.
//
// In order to have some room for slop to avoid things like a short word being on a line by itself,
// most lines are actually wrapped to `w - 5`.
func Wrap(w int, s string) string {
	return wrap(0, w, s)
}

// WrapIndent wraps the string `s` to a maximum width `w` with leading indent `i`.  The first line
// is not indented (this is assumed to be done by caller).  Pass `w` == 0 to do no wrapping.
//
// In order to have some room for slop to avoid things like a short word being on a line by itself,
// most lines are actually wrapped to `w - 5`.
func WrapIndent(i, w int, s string) string {
	return wrap(i, w, s)
}

func wrap(indent, width int, str string) string {
	if width == 0 {
		return str
	}
	limit := width - 5 - indent
	if limit < 1 {
		return str
	}
	var lines []string
	for _, paragraph := range strings.Split(str, "\n") {
		rest := paragraph
		for len(rest) > limit {
			// Break at a space, preserving any other runs of spaces (which are
			// probably sentence separators).
			cut := strings.LastIndex(rest[:limit+1], " ")
			if cut <= 0 {
				// The current word is longer than the limit; let it overflow.
				cut = strings.Index(rest, " ")
				if cut < 0 {
					break
				}
			}
			lines = append(lines, strings.TrimRight(rest[:cut], " "))
			rest = strings.TrimLeft(rest[cut:], " ")
		}
		lines = append(lines, rest)
	}
	return strings.Join(lines, "\n"+strings.Repeat(" ", indent))
}
