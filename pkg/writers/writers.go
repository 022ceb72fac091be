// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package writers persists rendered digests.
package writers

// Writer saves a digest blob under a name relative to the writer's root.
type Writer interface {
	Write(name, path string, blob []byte) error
}
