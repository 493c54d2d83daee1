// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package tagver

import (
	"math/rand"
	"reflect"
	"strconv"
	"strings"
	"testing/quick"
)

func randBool(rand *rand.Rand) bool {
	return rand.Intn(2) == 1
}

func randSeg(rand *rand.Rand) int {
	return rand.Intn(3000)
}

func bound(low, val, high int) int {
	if val < low {
		val = low
	}
	if val > high {
		val = high
	}
	return val
}

// generate produces only "tag-shaped" Versions: distance 0, no commit
// metadata, and canonical PEP 440 stage spellings.  Those are exactly the
// Versions whose default serialization round-trips through Parse, which is
// the property the quick tests check.
func (v Version) generate(rand *rand.Rand, size int) Version {
	segs := make([]string, 1+rand.Intn(bound(1, size, 5)))
	for i := range segs {
		segs[i] = strconv.Itoa(randSeg(rand))
	}
	v.Base = strings.Join(segs, ".")
	if randBool(rand) {
		v.Stage = strPtr([]string{"a", "b", "rc"}[rand.Intn(3)])
		if randBool(rand) {
			v.Revision = intPtr(randSeg(rand))
		}
	}
	if randBool(rand) {
		v.Epoch = intPtr(randSeg(rand))
	}
	return v
}

// Generate implements testing/quick.Generator.
func (v Version) Generate(rand *rand.Rand, size int) reflect.Value {
	return reflect.ValueOf(v.generate(rand, size))
}

//nolint:exhaustivestruct
var _ quick.Generator = Version{}
