// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package vcs derives tagver.Versions from version control checkouts by
// shelling out to the VCS command-line tools.
package vcs

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/datawire/dlib/dexec"

	"github.com/datawire/tagver/pkg/tagver"
)

// Kind identifies a version control system.
type Kind int

const (
	// KindAny means "whichever VCS the working directory turns out to be
	// a checkout of" (see Detect).
	KindAny Kind = iota
	// KindGit is Git.
	KindGit
	// KindMercurial is Mercurial.
	KindMercurial
)

type kindInfo struct {
	// key is the machine-readable spelling, as accepted by ParseKind.
	key string
	// markerDir is the control directory whose presence identifies a
	// checkout root ("" for KindAny, which has no checkouts of its own).
	markerDir string
	// from derives a Version from the current working directory.
	from func(context.Context, Options) (tagver.Version, error)
}

//nolint:gochecknoglobals // Would be 'const'.
var kinds = map[Kind]kindInfo{
	KindAny:       {key: "any"},
	KindGit:       {key: "git", markerDir: ".git", from: FromGit},
	KindMercurial: {key: "mercurial", markerDir: ".hg", from: FromMercurial},
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	info, ok := kinds[k]
	if !ok {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return info.key
}

// KindKeys returns the machine-readable VCS names accepted by ParseKind.
func KindKeys() []string {
	return []string{KindAny.String(), KindGit.String(), KindMercurial.String()}
}

// ParseKind converts a machine-readable VCS name to a Kind.
func ParseKind(key string) (Kind, error) {
	for kind, info := range kinds {
		if info.key == key {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("invalid VCS %q (valid VCSes: %s)",
		key, strings.Join(KindKeys(), ", "))
}

// Detect walks from dir (defaulting to the current working directory) up
// toward the filesystem root, looking for a control directory that
// identifies a checkout.
func Detect(dir string) (Kind, error) {
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return 0, err
		}
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return 0, err
	}
	for {
		for _, kind := range []Kind{KindGit, KindMercurial} {
			if _, err := os.Stat(filepath.Join(dir, kinds[kind].markerDir)); err == nil {
				return kind, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return 0, fmt.Errorf("%q does not appear to be inside a supported VCS checkout", dir)
		}
		dir = parent
	}
}

// Options adjusts how a Version is derived from a checkout.  The zero value
// uses the default tag pattern and considers all tags.
type Options struct {
	// Pattern overrides tagver.DefaultPattern as the tag grammar.
	Pattern string
	// LatestTag restricts matching to the single most recent tag.
	LatestTag bool
}

func (o Options) pattern() string {
	if o.Pattern == "" {
		return tagver.DefaultPattern
	}
	return o.Pattern
}

// From derives a Version from the current working directory using the given
// VCS; KindAny detects which VCS to use first.
func From(ctx context.Context, kind Kind, opts Options) (tagver.Version, error) {
	if kind == KindAny {
		var err error
		kind, err = Detect("")
		if err != nil {
			return tagver.Version{}, err
		}
	}
	info, ok := kinds[kind]
	if !ok || info.from == nil {
		return tagver.Version{}, fmt.Errorf("invalid VCS: %d", int(kind))
	}
	return info.from(ctx, opts)
}

func boolPtr(b bool) *bool { return &b }

// run executes a VCS command, returning its exit code and trimmed stdout.
// Exit codes in okCodes (implicitly including 0) are not errors; anything
// else is.
func run(ctx context.Context, okCodes []int, name string, args ...string) (int, string, error) {
	cmd := dexec.CommandContext(ctx, name, args...)
	out, err := cmd.Output()
	if err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			return 0, "", err
		}
		code := exitErr.ExitCode()
		for _, okCode := range okCodes {
			if code == okCode {
				return code, strings.TrimSpace(string(out)), nil
			}
		}
		return code, "", fmt.Errorf("%s %s: %w (stderr: %s)",
			name, strings.Join(args, " "), err, strings.TrimSpace(string(exitErr.Stderr)))
	}
	return 0, strings.TrimSpace(string(out)), nil
}
