// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package patterns

// defaultIgnorePatterns is the built-in ignore set applied to every query.
// It is part of the public contract: callers may rely on these names being
// excluded unless an include pattern overrides them. The set is kept in
// the normalized form Normalize produces: directory names carry no
// trailing separator, so they match and prune the directory at any depth.
var defaultIgnorePatterns = []string{
	// Python
	"*.pyc",
	"*.pyo",
	"*.pyd",
	"__pycache__",
	".pytest_cache",
	".coverage",
	".tox",
	".nox",
	".mypy_cache",
	".ruff_cache",
	".hypothesis",
	"poetry.lock",
	"Pipfile.lock",
	// JavaScript/Node
	"node_modules",
	"bower_components",
	"package-lock.json",
	"yarn.lock",
	".npm",
	".yarn",
	".pnpm-store",
	"bun.lock",
	"bun.lockb",
	// Java
	"*.class",
	"*.jar",
	"*.war",
	"*.ear",
	"*.nar",
	".gradle",
	".settings",
	"*.classpath",
	"gradle-app.setting",
	"*.gradle",
	// IDEs
	".project",
	// C/C++
	"*.o",
	"*.obj",
	"*.dll",
	"*.dylib",
	"*.exe",
	"*.lib",
	"*.out",
	"*.a",
	"*.pdb",
	// Swift/Xcode
	".build",
	"*.xcodeproj",
	"*.xcworkspace",
	"*.pbxuser",
	"*.mode1v3",
	"*.mode2v3",
	"*.perspectivev3",
	"*.xcuserstate",
	"xcuserdata",
	".swiftpm",
	// Ruby
	"*.gem",
	".bundle",
	"vendor/bundle",
	"Gemfile.lock",
	".ruby-version",
	".ruby-gemset",
	".rvmrc",
	// Rust
	"Cargo.lock",
	"**/*.rs.bk",
	// Go
	"pkg",
	// .NET/C#
	"obj",
	"*.suo",
	"*.user",
	"*.userosscache",
	"*.sln.docstates",
	"packages",
	"*.nupkg",
	// Version control
	".git",
	".svn",
	".hg",
	".gitignore",
	".gitattributes",
	".gitmodules",
	// Images and media
	"*.svg",
	"*.png",
	"*.jpg",
	"*.jpeg",
	"*.gif",
	"*.ico",
	"*.pdf",
	"*.mov",
	"*.mp4",
	"*.mp3",
	"*.wav",
	// Virtual environments
	"venv",
	".venv",
	"env",
	".env",
	"virtualenv",
	// IDEs and editors
	".idea",
	".vscode",
	".vs",
	"*.swp",
	"*.swo",
	"*.swn",
	"*.sublime-*",
	// Temporary and cache files
	"*.log",
	"*.bak",
	"*.tmp",
	"*.temp",
	".cache",
	".sass-cache",
	".eslintcache",
	".DS_Store",
	"Thumbs.db",
	"desktop.ini",
	// Build directories and artifacts
	"build",
	"dist",
	"target",
	"out",
	"*.egg-info",
	"*.egg",
	"*.whl",
	"*.so",
	// Generated documentation sites
	"site-packages",
	".docusaurus",
	".next",
	".nuxt",
	// Minified assets and source maps
	"*.min.js",
	"*.min.css",
	"*.map",
	// Terraform
	".terraform",
	"*.tfstate*",
	// Vendored dependencies
	"vendor",
}

// DefaultIgnorePatterns returns a copy of the built-in ignore set.
func DefaultIgnorePatterns() []string {
	out := make([]string, len(defaultIgnorePatterns))
	copy(out, defaultIgnorePatterns)
	return out
}
