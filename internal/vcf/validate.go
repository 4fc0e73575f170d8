// Package vcf gates candidate uploads before any network call. It performs
// shallow header sniffing only — full VCF parsing belongs to the backend.
package vcf

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	// MaxFileSize is the upload limit: 5 MiB.
	MaxFileSize = 5 * 1024 * 1024

	// sniffLimit caps how much of the file is read for header checks.
	sniffLimit = 12000

	// maxHeaderLines caps how many lines of the sample are inspected.
	maxHeaderLines = 120

	// minVariantFields is the minimum tab-separated column count for a
	// data row to count as a variant record.
	minVariantFields = 8
)

var (
	ErrNotVCF         = errors.New("invalid file type: only .vcf files are accepted")
	ErrTooLarge       = fmt.Errorf("file too large: the upload limit is %s", humanSize(MaxFileSize))
	ErrEmpty          = errors.New("file is empty or unreadable")
	ErrMissingHeaders = errors.New("missing required VCF headers (##fileformat and #CHROM)")
	ErrNoVariantRows  = errors.New("VCF structure incomplete: no variant rows found")
	ErrUnreadable     = errors.New("unable to read file")
)

// Check inspects a candidate upload and returns nil when it is acceptable.
// Checks run in a fixed order and short-circuit on the first failure:
// extension, size, readability, header lines, then at least one data row.
// The reader is consumed up to the sniff limit only.
func Check(name string, size int64, r io.Reader) error {
	if !strings.EqualFold(filepath.Ext(name), ".vcf") {
		return ErrNotVCF
	}
	if size > MaxFileSize {
		return ErrTooLarge
	}

	sample, err := io.ReadAll(io.LimitReader(r, sniffLimit))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if len(strings.TrimSpace(string(sample))) == 0 {
		return ErrEmpty
	}

	lines := splitLines(string(sample))
	if len(lines) > maxHeaderLines {
		lines = lines[:maxHeaderLines]
	}

	var hasFileformat, hasChromHeader, hasVariantRow bool
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "##fileformat=VCF"):
			hasFileformat = true
		case strings.HasPrefix(line, "#CHROM"):
			hasChromHeader = true
		case line != "" && !strings.HasPrefix(line, "#"):
			if len(strings.Split(line, "\t")) >= minVariantFields {
				hasVariantRow = true
			}
		}
	}

	if !hasFileformat || !hasChromHeader {
		return ErrMissingHeaders
	}
	if !hasVariantRow {
		return ErrNoVariantRows
	}
	return nil
}

// CheckFile runs Check against a file on disk and reports its size.
func CheckFile(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	f, err := os.Open(path)
	if err != nil {
		return info.Size(), fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()
	return info.Size(), Check(filepath.Base(path), info.Size(), f)
}

// splitLines handles both \n and \r\n line endings.
func splitLines(s string) []string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

func humanSize(n int64) string {
	return fmt.Sprintf("%d MB", n/(1024*1024))
}
