// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"github.com/gardener/repoingest/cmd/configuration"
	"github.com/gardener/repoingest/pkg/assemble"
	"github.com/gardener/repoingest/pkg/ingest"
	"k8s.io/utils/pointer"
)

// ingestOptions merges the flag values with the at-rest configuration into
// the call options of one ingestion, returning the options and the merged
// output path. Changed flags win over the config file; the config file
// wins over flag defaults.
func ingestOptions(opts options, config *configuration.Config, changed func(string) bool) ([]ingest.Option, string) {
	if config == nil {
		config = &configuration.Config{}
	}

	output := opts.Output
	if !changed("output") && config.Output != nil {
		output = pointer.StringDeref(config.Output, output)
	}
	token := opts.Token
	if token == "" {
		token = pointer.StringDeref(config.Token, "")
	}
	maxSize := opts.MaxSize
	if !changed("max-size") {
		maxSize = pointer.Int64Deref(config.MaxFileSize, 0)
	}
	maxTokens := opts.MaxTokens
	if !changed("max-tokens") {
		maxTokens = pointer.IntDeref(config.MaxTokens, 0)
	}

	result := []ingest.Option{
		ingest.WithOutput(output),
		ingest.WithToken(token),
		ingest.WithIncludePatterns(append(config.IncludePatterns, opts.IncludePatterns...)...),
		ingest.WithExcludePatterns(append(config.ExcludePatterns, opts.ExcludePatterns...)...),
		ingest.WithIncludeGitignored(opts.IncludeGitignored),
		ingest.WithIncludeSubmodules(opts.IncludeSubmodules),
		ingest.WithNotebookOutput(opts.NotebookOutput),
	}
	if maxSize > 0 {
		result = append(result, ingest.WithMaxFileSize(maxSize))
	}
	if maxTokens > 0 {
		result = append(result, ingest.WithMaxTokens(maxTokens))
	}
	if opts.Branch != "" {
		result = append(result, ingest.WithBranch(opts.Branch))
	}
	if opts.Tag != "" {
		result = append(result, ingest.WithTag(opts.Tag))
	}
	if opts.Commit != "" {
		result = append(result, ingest.WithCommit(opts.Commit))
	}
	if opts.DebugTree {
		result = append(result, ingest.WithRenderer(assemble.DebugRenderer{}))
	}
	if cacheDir := cacheHomeDir(opts, config); cacheDir != "" {
		env := ingest.LoadEnv()
		env.CacheDir = cacheDir
		result = append(result, ingest.WithEnv(env))
	}
	return result, output
}

func cacheHomeDir(opts options, config *configuration.Config) string {
	if opts.CacheDir != "" {
		return opts.CacheDir
	}
	return pointer.StringDeref(config.CacheHome, "")
}
