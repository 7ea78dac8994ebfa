package extract

import (
	"strings"
	"testing"
)

func TestText_EmptyData(t *testing.T) {
	if _, err := Text(nil); err == nil {
		t.Fatal("expected error for empty data")
	}
}

func TestText_NotAPDF(t *testing.T) {
	_, err := Text([]byte("this is plain text, not a pdf document at all"))
	if err == nil {
		t.Fatal("expected error for non-pdf bytes")
	}
	if !strings.Contains(err.Error(), "open pdf") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestText_TruncatedPDF(t *testing.T) {
	// A bare header with no xref table must fail to open, not succeed
	// with empty text.
	if _, err := Text([]byte("%PDF-1.4\n")); err == nil {
		t.Fatal("expected error for truncated pdf")
	}
}
