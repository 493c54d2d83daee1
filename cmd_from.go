// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/datawire/dlib/dlog"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/datawire/tagver/pkg/cliutil"
	"github.com/datawire/tagver/pkg/tagver"
	"github.com/datawire/tagver/pkg/vcs"
)

var argparserFrom = &cobra.Command{
	Use:   "from {git|mercurial|any}",
	Short: "Derive a version from a VCS checkout",

	Args: cliutil.OnlySubcommands,
	RunE: cliutil.RunSubcommands,
}

//nolint:gochecknoglobals // cobra flag plumbing
var fromFlags struct {
	config         string
	pattern        string
	latestTag      bool
	metadata       bool
	noMetadata     bool
	dirty          bool
	taggedMetadata bool
	format         string
	style          styleFlag
	bump           bool
	debug          bool
}

func init() {
	pf := argparserFrom.PersistentFlags()
	pf.StringVar(&fromFlags.config, "config", ".tagver.yml",
		"Read flag defaults from `FILE`, if it exists")
	pf.StringVar(&fromFlags.pattern, "pattern", tagver.DefaultPattern,
		"Match tags against regular expression `PATTERN`; it must define a 'base' capture "+
			"group, and may define 'stage', 'revision', 'tagged_metadata', and 'epoch' "+
			"groups")
	pf.BoolVar(&fromFlags.latestTag, "latest-tag", false,
		"Only consider the most recent tag, instead of scanning back for one that matches")
	pf.BoolVar(&fromFlags.metadata, "metadata", false,
		"Always include the commit in the metadata segment, even at distance 0")
	pf.BoolVar(&fromFlags.noMetadata, "no-metadata", false,
		"Never include a metadata segment")
	pf.BoolVar(&fromFlags.dirty, "dirty", false,
		"Append a token to the metadata when the working tree has uncommitted changes")
	pf.BoolVar(&fromFlags.taggedMetadata, "tagged-metadata", false,
		"Include metadata carried by the tag itself as the first metadata part")
	pf.StringVar(&fromFlags.format, "format", "",
		"Render with custom `TEMPLATE` instead of a built-in style; the available "+
			"substitution slots are {base}, {stage}, {revision}, {distance}, {commit}, "+
			"{dirty}, {tagged_metadata}, {epoch}, {branch}, {branch_escaped}, and "+
			"{timestamp}")
	pf.Var(&fromFlags.style, "style",
		"Render (or, with --format, validate) according to STYLE: pep440, semver, or "+
			"pvp (default pep440 unless --format is given)")
	pf.BoolVar(&fromFlags.bump, "bump", false,
		"Increment the last base position (or the prerelease revision) when there are "+
			"commits past the tag")
	pf.BoolVar(&fromFlags.debug, "debug", false,
		"Log tag matching and VCS commands to stderr")

	for _, sub := range []struct {
		kind  vcs.Kind
		short string
	}{
		{vcs.KindGit, "Derive a version from Git tags"},
		{vcs.KindMercurial, "Derive a version from Mercurial tags"},
		{vcs.KindAny, "Detect the VCS and derive a version from its tags"},
	} {
		argparserFrom.AddCommand(&cobra.Command{
			Use:   sub.kind.String() + " [flags]",
			Short: sub.short,
			Args:  cliutil.WrapPositionalArgs(cobra.NoArgs),
			RunE:  runFrom(sub.kind),
		})
	}

	_ = argparserFrom.RegisterFlagCompletionFunc("style", completeStyles)

	argparser.AddCommand(argparserFrom)
}

func runFrom(kind vcs.Kind) func(*cobra.Command, []string) error {
	return func(flags *cobra.Command, _ []string) error {
		ctx := flags.Context()
		if fromFlags.debug {
			logger.SetLevel(logrus.DebugLevel)
		}

		cfg, err := loadConfigFile(fromFlags.config)
		if err != nil {
			return err
		}

		pattern := fromFlags.pattern
		if !flags.Flag("pattern").Changed && cfg.Pattern != "" {
			pattern = cfg.Pattern
		}
		latestTag := fromFlags.latestTag
		if !flags.Flag("latest-tag").Changed && cfg.LatestTag != nil {
			latestTag = *cfg.LatestTag
		}

		ver, err := vcs.From(ctx, kind, vcs.Options{
			Pattern:   pattern,
			LatestTag: latestTag,
		})
		if err != nil {
			return err
		}
		if tag, ok := ver.MatchedTag(); ok {
			dlog.Debugf(ctx, "matched tag: %s", tag)
		}
		for _, tag := range ver.NewerUnmatchedTags() {
			dlog.Debugf(ctx, "ignored newer unmatched tag: %s", tag)
		}

		opts, err := serializeOptions(flags, cfg)
		if err != nil {
			return err
		}
		out, err := ver.Serialize(opts)
		if err != nil {
			return err
		}
		fmt.Fprintln(flags.OutOrStdout(), out)
		return nil
	}
}

// serializeOptions merges the command-line flags with the config-file
// defaults into tagver.SerializeOptions.
func serializeOptions(flags *cobra.Command, cfg configFile) (opts tagver.SerializeOptions, err error) {
	boolOpt := func(name string, flagVal bool, cfgVal *bool) bool {
		if !flags.Flag(name).Changed && cfgVal != nil {
			return *cfgVal
		}
		return flagVal
	}

	switch {
	case fromFlags.noMetadata:
		val := false
		opts.Metadata = &val
	case flags.Flag("metadata").Changed:
		opts.Metadata = &fromFlags.metadata
	default:
		opts.Metadata = cfg.Metadata
	}

	opts.Dirty = boolOpt("dirty", fromFlags.dirty, cfg.Dirty)
	opts.TaggedMetadata = boolOpt("tagged-metadata", fromFlags.taggedMetadata, cfg.TaggedMetadata)
	opts.Bump = boolOpt("bump", fromFlags.bump, cfg.Bump)

	opts.Format = fromFlags.format
	if !flags.Flag("format").Changed && cfg.Format != "" {
		opts.Format = cfg.Format
	}

	styleKey := fromFlags.style.key
	if !flags.Flag("style").Changed && cfg.Style != "" {
		styleKey = cfg.Style
	}
	if styleKey != "" {
		style, err := tagver.ParseStyle(styleKey)
		if err != nil {
			return tagver.SerializeOptions{}, err
		}
		opts.Style = &style
	}

	return opts, nil
}
