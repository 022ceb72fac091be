// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package reader

import (
	"encoding/json"
	"fmt"
	"strings"
)

// notebook is the subset of the Jupyter format the renderer consumes.
// Legacy (v3) notebooks keep their cells under worksheets.
type notebook struct {
	Cells      []notebookCell `json:"cells"`
	Worksheets []struct {
		Cells []notebookCell `json:"cells"`
	} `json:"worksheets"`
}

type notebookCell struct {
	CellType string           `json:"cell_type"`
	Source   sourceLines      `json:"source"`
	Input    sourceLines      `json:"input"` // v3 code cells
	Outputs  []notebookOutput `json:"outputs"`
}

type notebookOutput struct {
	OutputType string                 `json:"output_type"`
	Text       sourceLines            `json:"text"`
	Data       map[string]sourceLines `json:"data"`
}

// sourceLines accepts both the string and the string-list encodings the
// format allows.
type sourceLines []string

func (s *sourceLines) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*s = []string{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*s = many
	return nil
}

func (s sourceLines) join() string {
	return strings.Join(s, "")
}

// renderNotebook turns an .ipynb document into fenced blocks, one per
// non-empty cell, tagged by cell type. Textual outputs of code cells are
// appended as comment lines when includeOutput is set.
func renderNotebook(raw []byte, includeOutput bool) (string, error) {
	var nb notebook
	if err := json.Unmarshal(raw, &nb); err != nil {
		return "", fmt.Errorf("invalid notebook: %w", err)
	}
	cells := nb.Cells
	for _, ws := range nb.Worksheets {
		cells = append(cells, ws.Cells...)
	}
	var b strings.Builder
	for _, cell := range cells {
		switch cell.CellType {
		case "code", "markdown", "raw", "heading":
		default:
			return "", fmt.Errorf("unknown cell type: %s", cell.CellType)
		}
		source := cell.Source.join()
		if source == "" {
			source = cell.Input.join()
		}
		if strings.TrimSpace(source) == "" {
			continue
		}
		b.WriteString("```" + cell.CellType + "\n")
		b.WriteString(strings.TrimRight(source, "\n"))
		b.WriteString("\n")
		if includeOutput && cell.CellType == "code" {
			writeOutputs(&b, cell.Outputs)
		}
		b.WriteString("```\n\n")
	}
	return strings.TrimRight(b.String(), "\n") + "\n", nil
}

func writeOutputs(b *strings.Builder, outputs []notebookOutput) {
	var lines []string
	for _, out := range outputs {
		var text string
		switch out.OutputType {
		case "stream":
			text = out.Text.join()
		case "execute_result", "display_data":
			text = out.Data["text/plain"].join()
		}
		if text == "" {
			continue
		}
		lines = append(lines, strings.Split(strings.TrimRight(text, "\n"), "\n")...)
	}
	if len(lines) == 0 {
		return
	}
	b.WriteString("# Output:\n")
	for _, line := range lines {
		b.WriteString("#   " + line + "\n")
	}
}
