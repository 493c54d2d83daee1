// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"sigs.k8s.io/yaml"

	"github.com/datawire/tagver/pkg/tagver"
)

// styleFlag is a pflag.Value for the --style flags, so that a bad style name
// is reported as a usage error at parse time.
type styleFlag struct {
	key string
}

var _ pflag.Value = (*styleFlag)(nil)

func (f *styleFlag) String() string { return f.key }

func (f *styleFlag) Set(val string) error {
	if _, err := tagver.ParseStyle(val); err != nil {
		return err
	}
	f.key = val
	return nil
}

func (f *styleFlag) Type() string { return "STYLE" }

// completeStyles is a cobra flag-completion function for --style flags.
func completeStyles(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return tagver.StyleKeys(), cobra.ShellCompDirectiveNoFileComp
}

// configFile is the schema of the optional ".tagver.yml" file.  Each entry
// supplies a default for the command-line flag of the same name; a flag
// given explicitly always wins.
type configFile struct {
	Pattern        string `json:"pattern,omitempty"`
	LatestTag      *bool  `json:"latest-tag,omitempty"`
	Metadata       *bool  `json:"metadata,omitempty"`
	Dirty          *bool  `json:"dirty,omitempty"`
	TaggedMetadata *bool  `json:"tagged-metadata,omitempty"`
	Format         string `json:"format,omitempty"`
	Style          string `json:"style,omitempty"`
	Bump           *bool  `json:"bump,omitempty"`
}

// loadConfigFile reads filename, returning a zero config if it does not
// exist.
func loadConfigFile(filename string) (configFile, error) {
	var cfg configFile
	content, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.UnmarshalStrict(content, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", filename, err)
	}
	return cfg, nil
}
