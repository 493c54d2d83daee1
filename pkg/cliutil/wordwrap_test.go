// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package cliutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/datawire/tagver/pkg/cliutil"
)

func TestWrap(t *testing.T) {
	t.Parallel()
	type TestCase struct {
		Width  int
		Input  string
		Output string
	}
	testcases := map[string]TestCase{
		"no-wrapping": {
			Width:  0,
			Input:  "aaa bbb ccc ddd eee fff",
			Output: "aaa bbb ccc ddd eee fff",
		},
		"short": {
			Width:  80,
			Input:  "aaa bbb",
			Output: "aaa bbb",
		},
		"wraps-with-slop": {
			Width:  15, // effective limit 10
			Input:  "aaa bbb ccc ddd",
			Output: "aaa bbb\nccc ddd",
		},
		"preserves-sentence-separators": {
			Width:  25, // effective limit 20
			Input:  "One sentence.  Another sentence.",
			Output: "One sentence.\nAnother sentence.",
		},
		"overlong-word": {
			Width:  10,
			Input:  "aaaaaaaaaaaaaaaa bbb",
			Output: "aaaaaaaaaaaaaaaa\nbbb",
		},
	}
	for tcName, tcData := range testcases {
		tcData := tcData
		t.Run(tcName, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tcData.Output, cliutil.Wrap(tcData.Width, tcData.Input))
		})
	}
}

func TestWrapIndent(t *testing.T) {
	t.Parallel()
	// 10 columns of indent, 25 columns overall, so 10 columns of content per line
	assert.Equal(t,
		"aaa bbb\n          ccc ddd",
		cliutil.WrapIndent(10, 25, "aaa bbb ccc ddd"))
}
