// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package configuration

// Config is the at-rest configuration read from the user's config file.
// All fields are optional; flags take precedence over anything set here.
type Config struct {
	// CacheHome is the directory backing the host-probe response cache.
	CacheHome *string `yaml:"cacheHome,omitempty"`
	// Token is the personal access token used against GitHub hosts.
	Token *string `yaml:"token,omitempty"`
	// Output is the default digest location; "-" selects stdout.
	Output *string `yaml:"output,omitempty"`
	// MaxFileSize caps single files, in bytes.
	MaxFileSize *int64 `yaml:"maxFileSize,omitempty"`
	// MaxTokens caps the digest content section.
	MaxTokens *int `yaml:"maxTokens,omitempty"`
	// IncludePatterns and ExcludePatterns are glob lists applied to every run.
	IncludePatterns []string `yaml:"includePatterns,omitempty"`
	ExcludePatterns []string `yaml:"excludePatterns,omitempty"`
}
