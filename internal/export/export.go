// Package export copies the displayed report to the clipboard or writes it
// to disk as pretty-printed JSON.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
)

// Clipboard places text on the system clipboard. Permission failures are
// surfaced, not swallowed — the caller shows them inline.
func Clipboard(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard copy failed: %w", err)
	}
	return nil
}

// FileName derives the download name from the patient identifier, falling
// back to the literal "patient" when it is absent.
func FileName(patientID string) string {
	id := sanitize(patientID)
	if id == "" {
		id = "patient"
	}
	return id + "_pgx_report.json"
}

// WriteReport writes the report JSON into dir and returns the full path.
func WriteReport(dir, patientID, rawJSON string) (string, error) {
	path := filepath.Join(dir, FileName(patientID))
	if err := os.WriteFile(path, []byte(rawJSON), 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}

// sanitize keeps the identifier filesystem-safe.
func sanitize(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		case r == ' ':
			return '_'
		}
		return -1
	}, s)
}
