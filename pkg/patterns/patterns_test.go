// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package patterns_test

import (
	"testing"

	"github.com/gardener/repoingest/pkg/errkind"
	"github.com/gardener/repoingest/pkg/patterns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name    string
		in      []string
		want    []string
		wantErr bool
	}{
		{
			name: "comma and space separated",
			in:   []string{"*.md, src/*.py other.txt"},
			want: []string{"*.md", "src/*.py", "other.txt"},
		},
		{
			name: "leading separator stripped",
			in:   []string{"/docs/*.md"},
			want: []string{"docs/*.md"},
		},
		{
			name: "trailing separator expands to directory match",
			in:   []string{"src/"},
			want: []string{"src/*"},
		},
		{
			name: "empty tokens dropped",
			in:   []string{" , ,,"},
			want: nil,
		},
		{
			name:    "character outside the alphabet",
			in:      []string{"src/[ab].py"},
			wantErr: true,
		},
		{
			name:    "question mark rejected",
			in:      []string{"file?.txt"},
			wantErr: true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := patterns.Normalize(tc.in...)
			if tc.wantErr {
				require.Error(t, err)
				assert.Equal(t, errkind.PatternSyntax, errkind.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSelectsFile(t *testing.T) {
	testCases := []struct {
		name     string
		include  []string
		ignore   []string
		rel      string
		ancestor bool
		want     bool
	}{
		{
			name:   "no patterns selects everything",
			rel:    "src/main.go",
			ignore: nil,
			want:   true,
		},
		{
			name:   "bare ignore matches at any depth",
			ignore: []string{"*.pyc"},
			rel:    "a/b/c.pyc",
			want:   false,
		},
		{
			name:   "bare directory name does not match files below it",
			ignore: []string{"dist"},
			rel:    "dist/bundle.js",
			want:   true,
		},
		{
			name:    "include mode selects matching file",
			include: []string{"src/*.py"},
			rel:     "src/main.py",
			want:    true,
		},
		{
			name:    "include mode rejects non-matching file",
			include: []string{"src/*.py"},
			rel:     "README.md",
			want:    false,
		},
		{
			name:    "recursive include matches deep file",
			include: []string{"src/**/*.py"},
			rel:     "src/a/b/main.py",
			want:    true,
		},
		{
			name:     "ancestor include extends to subtree",
			include:  []string{"src/*"},
			rel:      "src/sub/deep.py",
			ancestor: true,
			want:     true,
		},
		{
			name:    "include does not override a matching ignore",
			include: []string{"*.log"},
			ignore:  []string{"debug.log"},
			rel:     "debug.log",
			want:    false,
		},
		{
			name:    "identical include removes the ignore twin",
			include: []string{"*.log"},
			ignore:  []string{"*.log"},
			rel:     "debug.log",
			want:    true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := patterns.NewMatcher(tc.include, tc.ignore)
			assert.Equal(t, tc.want, m.SelectsFile(tc.rel, tc.ancestor))
		})
	}
}

func TestDescendDir(t *testing.T) {
	testCases := []struct {
		name         string
		include      []string
		ignore       []string
		rel          string
		ancestor     bool
		wantDescend  bool
		wantIncluded bool
	}{
		{
			name:        "ignored directory is pruned",
			ignore:      []string{"node_modules"},
			rel:         "web/node_modules",
			wantDescend: false,
		},
		{
			name:        "include rooted below re-opens ignored directory",
			include:     []string{"dist/*.js"},
			ignore:      []string{"dist"},
			rel:         "dist",
			wantDescend: true,
		},
		{
			name:        "include mode prunes unrelated directories",
			include:     []string{"src/*.py"},
			rel:         "docs",
			wantDescend: false,
		},
		{
			name:        "include mode descends along the pattern path",
			include:     []string{"a/b/*.md"},
			rel:         "a",
			wantDescend: true,
		},
		{
			name:        "recursive include descends below its root",
			include:     []string{"src/**/*.py"},
			rel:         "src/x/y",
			wantDescend: true,
		},
		{
			name:         "directory matching include is carried to children",
			include:      []string{"src/*"},
			rel:          "src/sub",
			wantDescend:  true,
			wantIncluded: true,
		},
		{
			name:        "unanchored include descends everywhere",
			include:     []string{"*.py"},
			rel:         "any/dir",
			wantDescend: true,
		},
		{
			name:        "no patterns descends",
			rel:         "src",
			wantDescend: true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := patterns.NewMatcher(tc.include, tc.ignore)
			descend, included := m.DescendDir(tc.rel, tc.ancestor)
			assert.Equal(t, tc.wantDescend, descend, "descend")
			assert.Equal(t, tc.wantIncluded, included, "included")
		})
	}
}

func TestPatternMonotonicity(t *testing.T) {
	// adding an ignore never grows the selected set; adding an include
	// never shrinks it
	files := []string{"README.md", "src/a.py", "src/b.go", "dist/bundle.js", "a/b/c.pyc"}

	selected := func(m *patterns.Matcher) map[string]bool {
		out := map[string]bool{}
		for _, f := range files {
			out[f] = m.SelectsFile(f, false)
		}
		return out
	}

	base := selected(patterns.NewMatcher(nil, []string{"*.pyc"}))
	withMoreIgnores := selected(patterns.NewMatcher(nil, []string{"*.pyc", "*.go"}))
	for f, was := range base {
		if !was {
			assert.False(t, withMoreIgnores[f], f)
		}
	}

	narrow := selected(patterns.NewMatcher([]string{"*.py"}, nil))
	wider := selected(patterns.NewMatcher([]string{"*.py", "*.md"}, nil))
	for f, was := range narrow {
		if was {
			assert.True(t, wider[f], f)
		}
	}
}

func TestDefaultIgnorePatterns(t *testing.T) {
	defaults := patterns.DefaultIgnorePatterns()
	assert.Contains(t, defaults, ".git")
	assert.Contains(t, defaults, "node_modules")
	assert.Contains(t, defaults, "*.pyc")

	m := patterns.NewMatcher(nil, defaults)
	assert.False(t, m.SelectsFile("app.min.js", false))
	assert.False(t, m.SelectsFile("logo.png", false))
	descend, _ := m.DescendDir("sub/.git", false)
	assert.False(t, descend)
	assert.True(t, m.SelectsFile("main.go", false))

	// returned slice is a copy
	defaults[0] = "mutated"
	assert.NotEqual(t, "mutated", patterns.DefaultIgnorePatterns()[0])
}

func TestDefaultIgnoresPruneDirectories(t *testing.T) {
	m := patterns.NewMatcher(nil, patterns.DefaultIgnorePatterns())

	for _, dir := range []string{"vendor", "build", "xcuserdata", "lib/.gradle", "a/b/obj"} {
		assert.True(t, m.MatchesIgnore(dir), dir)
		descend, _ := m.DescendDir(dir, false)
		assert.False(t, descend, dir)
	}
}

func TestDefaultIgnoresAreNormalized(t *testing.T) {
	defaults := patterns.DefaultIgnorePatterns()
	normalized, err := patterns.Normalize(defaults...)
	require.NoError(t, err)
	assert.Equal(t, defaults, normalized)
}
