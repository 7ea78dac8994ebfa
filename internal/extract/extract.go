// Package extract pulls plain text out of uploaded resumes.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

const minTextLength = 10

// ErrNoText means the PDF parsed but yielded no usable text, e.g. a
// scanned document with no text layer.
var ErrNoText = errors.New("no readable text in PDF")

// Text extracts plain text from an in-memory PDF.
// Library used: github.com/ledongthuc/pdf.
func Text(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty pdf data")
	}

	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}

	text := buf.String()
	if len(strings.TrimSpace(text)) < minTextLength {
		return "", ErrNoText
	}
	return text, nil
}
