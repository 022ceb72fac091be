// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"github.com/spf13/cobra"
)

func configureFlags(command *cobra.Command) {
	command.Flags().StringP("output", "o", "digest.txt",
		"Digest destination path. Use - for stdout.")
	_ = vip.BindPFlag("output", command.Flags().Lookup("output"))

	command.Flags().Int64P("max-size", "s", 0,
		"Maximum size of a single file to include, in bytes.")
	_ = vip.BindPFlag("max-size", command.Flags().Lookup("max-size"))

	command.Flags().Int("max-tokens", 0,
		"Cap the content section to approximately this many tokens.")
	_ = vip.BindPFlag("max-tokens", command.Flags().Lookup("max-tokens"))

	command.Flags().StringSliceP("include-pattern", "i", nil,
		"Include only files matching the glob. Repeatable.")
	_ = vip.BindPFlag("include-pattern", command.Flags().Lookup("include-pattern"))

	command.Flags().StringSliceP("exclude-pattern", "e", nil,
		"Exclude files matching the glob, on top of the built-in ignore set. Repeatable.")
	_ = vip.BindPFlag("exclude-pattern", command.Flags().Lookup("exclude-pattern"))

	command.Flags().StringP("branch", "b", "",
		"Branch to ingest, overriding any ref in the source URL.")
	_ = vip.BindPFlag("branch", command.Flags().Lookup("branch"))

	command.Flags().String("tag", "",
		"Tag to ingest, overriding any ref in the source URL.")
	_ = vip.BindPFlag("tag", command.Flags().Lookup("tag"))

	command.Flags().String("commit", "",
		"Full 40-character commit SHA to ingest.")
	_ = vip.BindPFlag("commit", command.Flags().Lookup("commit"))

	command.Flags().Bool("include-gitignored", false,
		"Do not honor .gitignore and .gitingestignore files.")
	_ = vip.BindPFlag("include-gitignored", command.Flags().Lookup("include-gitignored"))

	command.Flags().Bool("include-submodules", false,
		"Clone git submodules into the working tree before ingesting.")
	_ = vip.BindPFlag("include-submodules", command.Flags().Lookup("include-submodules"))

	command.Flags().Bool("include-notebook-output", false,
		"Render cell outputs of Jupyter notebooks into the digest.")
	_ = vip.BindPFlag("include-notebook-output", command.Flags().Lookup("include-notebook-output"))

	command.Flags().StringP("token", "t", "",
		"GitHub personal access token authorizing access to private repositories. Falls back to GITHUB_TOKEN.")
	_ = vip.BindPFlag("token", command.Flags().Lookup("token"))

	command.Flags().String("cache-dir", "",
		"Cache directory for remote host probe responses.")
	_ = vip.BindPFlag("cache-dir", command.Flags().Lookup("cache-dir"))

	command.Flags().Bool("debug-tree", false,
		"Annotate the tree section with per-node metadata.")
	_ = vip.BindPFlag("debug-tree", command.Flags().Lookup("debug-tree"))
}
