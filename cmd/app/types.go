// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package app

// options mirrors the flag set; viper unmarshals it after merging the
// config file beneath the flags.
type options struct {
	Output            string   `mapstructure:"output"`
	MaxSize           int64    `mapstructure:"max-size"`
	MaxTokens         int      `mapstructure:"max-tokens"`
	IncludePatterns   []string `mapstructure:"include-pattern"`
	ExcludePatterns   []string `mapstructure:"exclude-pattern"`
	Branch            string   `mapstructure:"branch"`
	Tag               string   `mapstructure:"tag"`
	Commit            string   `mapstructure:"commit"`
	IncludeGitignored bool     `mapstructure:"include-gitignored"`
	IncludeSubmodules bool     `mapstructure:"include-submodules"`
	NotebookOutput    bool     `mapstructure:"include-notebook-output"`
	Token             string   `mapstructure:"token"`
	CacheDir          string   `mapstructure:"cache-dir"`
	DebugTree         bool     `mapstructure:"debug-tree"`
}
