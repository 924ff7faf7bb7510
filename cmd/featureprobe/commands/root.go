// SPDX-License-Identifier: AGPL-3.0-or-later

/*
featureprobe - runs an ordered table of language feature probes and reports
a pass, fail or error outcome for each of them.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd constructs the featureprobe root Cobra command.
// Invoked without a subcommand it runs every probe.
func NewRootCmd() *cobra.Command {
	version := os.Getenv("FEATUREPROBE_VERSION")
	if version == "" {
		version = "0.0.0-dev"
	}

	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:           "featureprobe",
		Short:         "featureprobe - language feature probe runner",
		Long:          "featureprobe runs its probe table in declaration order and exits non-zero if any probe failed or errored.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAll(cmd, opts)
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (yaml or toml); defaults to featureprobe.{yaml,yml,toml} in the project root")
	cmd.PersistentFlags().StringVar(&opts.stateDir, "state-dir", "", "directory to store run state (overrides config)")
	cmd.PersistentFlags().BoolVar(&opts.json, "json", false, "output results in JSON")
	cmd.PersistentFlags().StringVar(&opts.exportPath, "export", "", "also write the run's results to this file")
	cmd.PersistentFlags().StringVar(&opts.exportFormat, "format", "json", "export format: json, yaml or msgpack")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of featureprobe",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "featureprobe version %s\n", version)
		},
	})

	cmd.AddCommand(newRunCmd(opts))

	return cmd
}
