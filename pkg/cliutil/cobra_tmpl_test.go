// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package cliutil_test

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"

	"github.com/datawire/tagver/pkg/cliutil"
)

//nolint:paralleltest // can't use .Parallel() with .Setenv()
func TestHelpTemplate(t *testing.T) {
	t.Setenv("COLUMNS", "80")
	noopRunE := func(_ *cobra.Command, _ []string) error {
		return nil
	}
	cmd := &cobra.Command{
		Use:   "versiontool {[flags]|SUBCOMMAND...}",
		Short: "Derive version numbers from VCS tags",
		Long: "Derive a dynamic version number from the tags of the version control " +
			"checkout containing the current directory, and print it in the " +
			"requested convention.",
		RunE: noopRunE,
	}
	cmd.Flags().Bool("dirty", false, "Append a dirty token to the metadata")
	cmd.AddCommand(&cobra.Command{
		Use:   "check [flags] VERSION",
		Args:  cobra.ExactArgs(1),
		Short: "Validate an already-rendered version string against a convention",
		RunE:  noopRunE,
	})

	expected := "" +
		// 0      1         2         3         4         5         6         7         8
		// 345678901234567890123456789012345678901234567890123456789012345678901234567890
		"Usage: versiontool {[flags]|SUBCOMMAND...}\n" +
		"Derive version numbers from VCS tags\n" +
		"\n" +
		"Derive a dynamic version number from the tags of the version control\n" +
		"checkout containing the current directory, and print it in the requested\n" +
		"convention.\n" +
		"\n" +
		"Available Commands:\n" +
		"  check         Validate an already-rendered version string against a\n" +
		"                convention\n" +
		"\n" +
		"Flags:\n" +
		"      --dirty   Append a dirty token to the metadata\n" +
		"\n" +
		"Use \"versiontool [command] --help\" for more information about a command.\n" +
		""

	cmd.SetHelpTemplate(cliutil.HelpTemplate)

	var out strings.Builder
	cmd.SetOutput(&out)
	cmd.HelpFunc()(cmd, []string{"--help"})

	assert.Equal(t, expected, out.String())
}
