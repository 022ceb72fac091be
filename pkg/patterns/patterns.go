// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package patterns normalizes include/ignore globs and decides which paths
// of a scanned tree are selected for the digest.
//
// Patterns are shell-style globs over the alphabet [A-Za-z0-9-_./+*].
// `*` never crosses a path separator; `**` matches any number of segments.
// A pattern without a separator matches entries of that name at any depth.
// Ignored directories are pruned as a whole; an include pattern rooted
// below an ignored directory re-opens it for descent.
package patterns

import (
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gardener/repoingest/pkg/errkind"
)

var allowedSyntax = regexp.MustCompile(`^[A-Za-z0-9\-_./+*]+$`)

// Normalize splits raw pattern values on commas and spaces, strips leading
// separators, expands a trailing separator to a directory match and
// validates the alphabet. Invalid input yields a PatternSyntax error.
func Normalize(values ...string) ([]string, error) {
	var out []string
	for _, value := range values {
		for _, token := range strings.FieldsFunc(value, isSeparatorRune) {
			token = strings.TrimLeft(token, "/")
			if token == "" {
				continue
			}
			if strings.HasSuffix(token, "/") {
				token += "*"
			}
			if !allowedSyntax.MatchString(token) {
				return nil, errkind.New(errkind.PatternSyntax,
					"pattern %q contains characters outside [A-Za-z0-9-_./+*]", token)
			}
			out = append(out, token)
		}
	}
	return out, nil
}

func isSeparatorRune(r rune) bool {
	return r == ',' || r == ' '
}

// pattern is one normalized glob with its compiled match variants.
type pattern struct {
	raw   string
	globs []string
}

func compile(raw string) pattern {
	globs := []string{raw}
	if !strings.Contains(raw, "/") {
		globs = append(globs, "**/"+raw)
	}
	return pattern{raw: raw, globs: globs}
}

func (p pattern) matches(rel string) bool {
	for _, g := range p.globs {
		if ok, err := doublestar.Match(g, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// prefixGlobs lists the directory globs a path must match for the pattern
// to possibly match below it. An empty result means the pattern cannot
// reach below any directory it does not match itself.
func (p pattern) prefixGlobs() []string {
	segments := strings.Split(p.raw, "/")
	var out []string
	for i := 1; i < len(segments); i++ {
		if strings.Contains(segments[i-1], "**") {
			if i == 1 {
				out = append(out, "**")
			} else {
				out = append(out, strings.Join(segments[:i-1], "/")+"/**")
			}
			break
		}
		out = append(out, strings.Join(segments[:i], "/"))
	}
	return out
}

// Matcher evaluates the include/ignore decision for POSIX-relative paths.
type Matcher struct {
	include []pattern
	ignore  []pattern
}

// NewMatcher builds a Matcher from normalized pattern lists. Ignore
// patterns that also appear verbatim among the includes are dropped, so an
// explicit include wins over the built-in ignore set.
func NewMatcher(include, ignore []string) *Matcher {
	m := &Matcher{}
	included := make(map[string]struct{}, len(include))
	for _, raw := range include {
		included[raw] = struct{}{}
		m.include = append(m.include, compile(raw))
	}
	for _, raw := range ignore {
		if _, ok := included[raw]; ok {
			continue
		}
		m.ignore = append(m.ignore, compile(raw))
	}
	return m
}

// HasIncludes reports whether the matcher operates in include mode.
func (m *Matcher) HasIncludes() bool {
	return len(m.include) > 0
}

// MatchesIgnore reports whether rel matches any effective ignore pattern.
func (m *Matcher) MatchesIgnore(rel string) bool {
	for _, p := range m.ignore {
		if p.matches(rel) {
			return true
		}
	}
	return false
}

// MatchesInclude reports whether rel matches any include pattern.
func (m *Matcher) MatchesInclude(rel string) bool {
	for _, p := range m.include {
		if p.matches(rel) {
			return true
		}
	}
	return false
}

// IncludeRootedBelow reports whether some include pattern could match a
// path underneath the given directory.
func (m *Matcher) IncludeRootedBelow(relDir string) bool {
	for _, p := range m.include {
		if !strings.Contains(p.raw, "/") {
			// unanchored names can match at any depth
			return true
		}
		for _, g := range p.prefixGlobs() {
			if ok, err := doublestar.Match(g, relDir); err == nil && ok {
				return true
			}
		}
	}
	return false
}

// SelectsFile decides whether a file at rel belongs in the digest.
// ancestorIncluded is true when a parent directory already matched an
// include pattern, which extends the include to the whole subtree.
func (m *Matcher) SelectsFile(rel string, ancestorIncluded bool) bool {
	if m.MatchesIgnore(rel) {
		return false
	}
	if !m.HasIncludes() {
		return true
	}
	return ancestorIncluded || m.MatchesInclude(rel)
}

// DescendDir decides whether the walk enters the directory at rel and
// whether the directory itself satisfies an include pattern (to be carried
// to its descendants). ancestorIncluded has the same meaning as in
// SelectsFile.
func (m *Matcher) DescendDir(rel string, ancestorIncluded bool) (descend, included bool) {
	included = ancestorIncluded || (m.HasIncludes() && m.MatchesInclude(rel))
	if m.MatchesIgnore(rel) {
		// an include rooted deeper re-opens an ignored directory
		if m.HasIncludes() && m.IncludeRootedBelow(rel) {
			return true, included
		}
		return false, included
	}
	if !m.HasIncludes() {
		return true, included
	}
	return included || m.IncludeRootedBelow(rel), included
}
