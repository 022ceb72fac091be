// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package reader turns file nodes into UTF-8 digest bodies. Every file
// yields exactly one of: its decoded text, a binary or empty placeholder,
// a rendered notebook, or a per-file read error line. Read failures never
// abort the surrounding job.
package reader

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gardener/repoingest/pkg/fstree"
	"github.com/gardener/repoingest/pkg/jobs"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"k8s.io/klog/v2"
)

const (
	// BinaryPlaceholder stands in for content that does not decode as text.
	BinaryPlaceholder = "[Binary file]"
	// EmptyPlaceholder stands in for zero-length files.
	EmptyPlaceholder = "[Empty file]"

	probeSize = 1024
)

// Reader reads the bodies of file nodes with a bounded worker pool.
type Reader struct {
	// IncludeNotebookOutput appends textual cell outputs when rendering
	// .ipynb files.
	IncludeNotebookOutput bool
	// MaxWorkers caps the read pool; non-positive selects the jobs default.
	MaxWorkers int
}

// Contents reads every file node and returns its digest body. The result
// preserves no ordering of its own; callers index it by node.
func (r *Reader) Contents(ctx context.Context, files []*fstree.Node) (map[*fstree.Node]string, error) {
	out := make(map[*fstree.Node]string, len(files))
	slots := make([]string, len(files))
	tasks := make([]interface{}, len(files))
	for i := range files {
		tasks[i] = i
	}
	job := &jobs.Job{
		MaxWorkers: r.MaxWorkers,
		Worker: jobs.WorkerFunc(func(ctx context.Context, task interface{}) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			i := task.(int)
			slots[i] = r.ReadFile(files[i])
			return nil
		}),
		FailFast: true,
	}
	if err := job.Dispatch(ctx, tasks); err != nil {
		return nil, err
	}
	for i, node := range files {
		out[node] = slots[i]
	}
	return out, nil
}

// ReadFile returns the digest body for one file.
func (r *Reader) ReadFile(node *fstree.Node) string {
	if node.Size == 0 {
		return EmptyPlaceholder
	}
	f, err := os.Open(node.AbsPath)
	if err != nil {
		return readError(err)
	}
	defer f.Close()

	probe := make([]byte, probeSize)
	n, err := io.ReadFull(f, probe)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return readError(err)
	}
	probe = probe[:n]

	dec := classify(probe)
	if dec == nil {
		return BinaryPlaceholder
	}
	if _, seekErr := f.Seek(0, io.SeekStart); seekErr != nil {
		return readError(seekErr)
	}
	raw, err := io.ReadAll(f)
	if err != nil {
		return readError(err)
	}
	text, err := dec.decode(raw)
	if err != nil {
		return readError(err)
	}
	if strings.EqualFold(filepath.Ext(node.Name), ".ipynb") {
		rendered, nbErr := renderNotebook([]byte(text), r.IncludeNotebookOutput)
		if nbErr != nil {
			klog.V(6).Infof("notebook %s: %v", node.RelPath, nbErr)
			return readError(nbErr)
		}
		return rendered
	}
	return text
}

func readError(err error) string {
	return "Error reading file: " + err.Error()
}

// decoder decodes a full file body with the encoding the probe selected.
type decoder struct {
	enc *encoding.Decoder
}

func (d *decoder) decode(raw []byte) (string, error) {
	if d.enc == nil {
		return string(raw), nil
	}
	out, err := d.enc.Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// classify inspects the probe chunk and picks the encoding for the full
// read: UTF-8 first, then UTF-16 by BOM, then CP-1252 and Latin-1. A nil
// result marks binary content.
func classify(probe []byte) *decoder {
	if len(probe) == 0 {
		return &decoder{}
	}
	if bytes.IndexByte(probe, 0x00) >= 0 {
		if hasUTF16BOM(probe) {
			return &decoder{enc: unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()}
		}
		return nil
	}
	if utf8.Valid(trimPartialRune(probe)) {
		return &decoder{}
	}
	if cp1252Decodes(probe) {
		return &decoder{enc: charmap.Windows1252.NewDecoder()}
	}
	return &decoder{enc: charmap.ISO8859_1.NewDecoder()}
}

func hasUTF16BOM(b []byte) bool {
	return len(b) >= 2 && ((b[0] == 0xFF && b[1] == 0xFE) || (b[0] == 0xFE && b[1] == 0xFF))
}

// trimPartialRune drops a multi-byte sequence cut off by the probe
// boundary so it does not count against UTF-8 validity.
func trimPartialRune(b []byte) []byte {
	if len(b) < probeSize {
		return b
	}
	end := len(b)
	for i := 0; i < utf8.UTFMax && end > 0; i++ {
		if r, _ := utf8.DecodeLastRune(b[:end]); r != utf8.RuneError {
			return b[:end]
		}
		end--
	}
	return b[:end]
}

// cp1252Decodes reports whether the probe maps onto CP-1252 without
// replacement characters; bytes undefined in that code page fall through
// to Latin-1.
func cp1252Decodes(probe []byte) bool {
	out, err := charmap.Windows1252.NewDecoder().Bytes(probe)
	if err != nil {
		return false
	}
	return !bytes.ContainsRune(out, utf8.RuneError)
}
