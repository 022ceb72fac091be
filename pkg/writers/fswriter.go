// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package writers

import (
	"fmt"
	"os"
	"path/filepath"
)

// FSWriter writes digest blobs to the file system under Root.
type FSWriter struct {
	Root string
}

// Write implements Writer. Parent directories are created as needed; the
// file is written whole in UTF-8.
func (f *FSWriter) Write(name, path string, blob []byte) error {
	dir := filepath.Join(f.Root, path)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("cannot create %s: %w", dir, err)
	}
	filePath := filepath.Join(dir, name)
	if err := os.WriteFile(filePath, blob, 0o644); err != nil {
		return fmt.Errorf("error writing %s: %w", filePath, err)
	}
	return nil
}
