// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Command tagver derives a dynamic version number from the tags of the VCS
// checkout containing the current directory, and prints it in the requested
// convention (PEP 440, SemVer, or PVP).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/datawire/dlib/dlog"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/datawire/tagver/pkg/cliutil"
)

var argparser = &cobra.Command{
	Use:   "tagver {[flags]|SUBCOMMAND...}",
	Short: "Derive dynamic version numbers from VCS tags",

	Args: cliutil.OnlySubcommands,
	RunE: cliutil.RunSubcommands,

	SilenceErrors: true, // main() will handle this after .ExecuteContext() returns
	SilenceUsage:  true, // our FlagErrorFunc will handle it
}

// logger backs the dlog.Logger in the root context; subcommands may turn its
// level up (see the --debug flag on "tagver from").
var logger = logrus.New()

func init() {
	argparser.SetFlagErrorFunc(cliutil.FlagErrorFunc)
	argparser.SetHelpTemplate(cliutil.HelpTemplate)
}

func main() {
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)
	ctx := dlog.WithLogger(context.Background(), dlog.WrapLogrus(logger))

	if err := argparser.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(argparser.ErrOrStderr(), "%s: error: %v\n", argparser.CommandPath(), err)
		os.Exit(1)
	}
}
