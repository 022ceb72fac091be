// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/gardener/repoingest/pkg/util/units"
	"k8s.io/klog/v2"
)

// Default resource budgets, overridable per call and by environment.
const (
	DefaultMaxFileSize  = 10 * units.MB
	DefaultMaxFiles     = 10_000_000
	DefaultMaxTotalSize = 10 * units.GB
	DefaultMaxDirDepth  = 100
)

// Environment variables honored by LoadEnv.
const (
	EnvMaxFileSize  = "GIT_INGEST_MAX_FILE_SIZE"
	EnvMaxFiles     = "GIT_INGEST_MAX_FILES"
	EnvMaxTotalSize = "GIT_INGEST_MAX_TOTAL_SIZE"
	EnvMaxDirDepth  = "GIT_INGEST_MAX_DIR_DEPTH"
	EnvTmpRoot      = "GIT_INGEST_TMP_ROOT"
)

// Env carries the process-wide settings of the pipeline. It is passed
// explicitly; nothing in the pipeline reads it from globals.
type Env struct {
	// TmpRoot hosts the per-job scratch directories.
	TmpRoot string
	// CacheDir backs the disk-cached probe transport.
	CacheDir string

	MaxFileSize  int64
	MaxFiles     int
	MaxTotalSize int64
	MaxDirDepth  int
}

// LoadEnv builds the default environment, applying GIT_INGEST_* overrides.
// Unparsable values are warned about and ignored.
func LoadEnv() Env {
	env := Env{
		TmpRoot:      filepath.Join(os.TempDir(), "gitingest"),
		MaxFileSize:  DefaultMaxFileSize,
		MaxFiles:     DefaultMaxFiles,
		MaxTotalSize: DefaultMaxTotalSize,
		MaxDirDepth:  DefaultMaxDirDepth,
	}
	if home, err := os.UserHomeDir(); err == nil {
		env.CacheDir = filepath.Join(home, ".repoingest", "cache")
	}
	if v := os.Getenv(EnvTmpRoot); v != "" {
		env.TmpRoot = v
	}
	envInt64(EnvMaxFileSize, &env.MaxFileSize)
	envInt64(EnvMaxTotalSize, &env.MaxTotalSize)
	envInt(EnvMaxFiles, &env.MaxFiles)
	envInt(EnvMaxDirDepth, &env.MaxDirDepth)
	return env
}

func envInt64(name string, target *int64) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	parsed, err := strconv.ParseInt(v, 10, 64)
	if err != nil || parsed <= 0 {
		klog.Warningf("ignoring %s=%q: not a positive integer", name, v)
		return
	}
	*target = parsed
}

func envInt(name string, target *int) {
	var v int64 = int64(*target)
	envInt64(name, &v)
	*target = int(v)
}
