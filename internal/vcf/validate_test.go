package vcf

import (
	"errors"
	"io"
	"strings"
	"testing"
)

const validSample = "##fileformat=VCFv4.2\n" +
	"##source=test\n" +
	"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n" +
	"22\t42522613\trs3892097\tG\tA\t100\tPASS\tGENE=CYP2D6\n"

func check(t *testing.T, name, content string) error {
	t.Helper()
	return Check(name, int64(len(content)), strings.NewReader(content))
}

func TestRejectsNonVCFExtensionRegardlessOfContent(t *testing.T) {
	for _, name := range []string{"variants.txt", "variants.vcf.gz", "variants", "report.pdf"} {
		if err := check(t, name, validSample); !errors.Is(err, ErrNotVCF) {
			t.Errorf("Check(%q) = %v, want ErrNotVCF", name, err)
		}
	}
}

func TestAcceptsCaseInsensitiveExtension(t *testing.T) {
	for _, name := range []string{"variants.vcf", "VARIANTS.VCF", "variants.Vcf"} {
		if err := check(t, name, validSample); err != nil {
			t.Errorf("Check(%q) = %v, want nil", name, err)
		}
	}
}

func TestRejectsOversizedFileBeforeReading(t *testing.T) {
	// One byte past the limit is rejected even with valid content; the
	// reader must not be consulted at all.
	err := Check("big.vcf", MaxFileSize+1, failingReader{})
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("Check oversized = %v, want ErrTooLarge", err)
	}
	if !strings.Contains(err.Error(), "5 MB") {
		t.Errorf("size error should name the limit, got %q", err)
	}
	if err := Check("big.vcf", MaxFileSize, strings.NewReader(validSample)); err != nil {
		t.Errorf("file exactly at the limit should pass the size gate, got %v", err)
	}
}

func TestRejectsEmptyFile(t *testing.T) {
	for _, content := range []string{"", "   \n\t\n"} {
		if err := check(t, "empty.vcf", content); !errors.Is(err, ErrEmpty) {
			t.Errorf("Check(%q) = %v, want ErrEmpty", content, err)
		}
	}
}

func TestRejectsMissingHeaders(t *testing.T) {
	noFileformat := strings.Replace(validSample, "##fileformat=VCFv4.2\n", "", 1)
	noChrom := strings.Replace(validSample, "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n", "", 1)
	for _, content := range []string{noFileformat, noChrom} {
		if err := check(t, "v.vcf", content); !errors.Is(err, ErrMissingHeaders) {
			t.Errorf("Check = %v, want ErrMissingHeaders", err)
		}
	}
}

func TestRejectsHeaderOnlyFile(t *testing.T) {
	headerOnly := "##fileformat=VCFv4.2\n#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n"
	if err := check(t, "v.vcf", headerOnly); !errors.Is(err, ErrNoVariantRows) {
		t.Errorf("Check = %v, want ErrNoVariantRows", err)
	}
	// A data row with too few columns does not count.
	short := headerOnly + "22\t42522613\trs3892097\n"
	if err := check(t, "v.vcf", short); !errors.Is(err, ErrNoVariantRows) {
		t.Errorf("Check = %v, want ErrNoVariantRows for short row", err)
	}
}

func TestAcceptsCRLFLineEndings(t *testing.T) {
	crlf := strings.ReplaceAll(validSample, "\n", "\r\n")
	if err := check(t, "v.vcf", crlf); err != nil {
		t.Errorf("Check CRLF sample = %v, want nil", err)
	}
}

func TestReadFailureIsReported(t *testing.T) {
	err := Check("v.vcf", 100, failingReader{})
	if !errors.Is(err, ErrUnreadable) {
		t.Errorf("Check = %v, want ErrUnreadable", err)
	}
}

func TestHeadersBeyondSniffWindowAreNotSeen(t *testing.T) {
	// Headers buried past the 12,000-character sample must not rescue the file.
	padding := strings.Repeat("##pad\n", sniffLimit/6)
	content := padding + validSample
	if err := check(t, "v.vcf", content); err == nil {
		t.Error("expected rejection when required headers sit beyond the sniff window")
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }
