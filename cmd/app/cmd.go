// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package app builds the repoingest command tree.
package app

import (
	"context"
	"flag"
	"sync"

	"github.com/gardener/repoingest/pkg/errkind"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"k8s.io/klog/v2"
)

var vip = viper.New()

var klogFlagsOnce sync.Once

// NewCommand creates the root command and propagates the context to its
// Run callback closure.
func NewCommand(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repoingest <source>",
		Short: "Turn a git repository or a local directory into a prompt-friendly text digest",
		Args:  sourceArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			return exec(ctx, cmd, vip, args[0])
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errkind.Wrap(errkind.InvalidSource, err, "invalid arguments")
	})

	configureFlags(cmd)

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newCompletionCmd())

	klogFlagsOnce.Do(func() { klog.InitFlags(nil) })
	addGoFlags(cmd)

	return cmd
}

// sourceArg demands the single positional source argument. The wrapped
// kind routes usage mistakes to the usage exit status.
func sourceArg(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(1)(cmd, args); err != nil {
		return errkind.Wrap(errkind.InvalidSource, err, "invalid arguments")
	}
	return nil
}

// addGoFlags exposes the klog flags on the root command.
func addGoFlags(rootCmd *cobra.Command) {
	flag.CommandLine.VisitAll(func(gf *flag.Flag) {
		rootCmd.Flags().AddGoFlag(gf)
	})
}
