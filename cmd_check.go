// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/spf13/cobra"

	"github.com/datawire/tagver/pkg/cliutil"
	"github.com/datawire/tagver/pkg/tagver"
)

func init() {
	argStyle := styleFlag{key: tagver.StylePep440.Key()}
	cmd := &cobra.Command{
		Use:   "check [flags] VERSION",
		Short: "Check that an already-rendered version conforms to a style",
		Long: "Check that VERSION conforms to the grammar of the given style, exiting " +
			"nonzero if it does not.  Nothing is printed on success, so this is " +
			"suitable for use as a guard in release scripts.",
		Args: cliutil.WrapPositionalArgs(cobra.ExactArgs(1)),
		RunE: func(flags *cobra.Command, args []string) error {
			style, err := tagver.ParseStyle(argStyle.key)
			if err != nil {
				return err
			}
			return tagver.Check(args[0], style)
		},
	}
	cmd.Flags().Var(&argStyle, "style",
		"Check against STYLE: pep440, semver, or pvp")
	_ = cmd.RegisterFlagCompletionFunc("style", completeStyles)

	argparser.AddCommand(cmd)
}
