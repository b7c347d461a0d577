package ai

import (
	"bytes"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractText pulls plain text out of an uploaded PDF. Extraction failures
// (corrupt file, unsupported encoding) are soft: the caller gets an empty
// string and extracted=false, never an error. Callers must treat missing text
// as a precondition failure for generation.
func ExtractText(r io.ReaderAt, size int64) (text string, extracted bool) {
	// The pdf package panics on some malformed files.
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			extracted = false
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", false
	}
	return readPlainText(reader)
}

// ExtractFile is ExtractText over a file on disk.
func ExtractFile(path string) (text string, extracted bool) {
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			extracted = false
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()

	return readPlainText(reader)
}

func readPlainText(reader *pdf.Reader) (string, bool) {
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", false
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", false
	}

	text := strings.TrimSpace(buf.String())
	return text, text != ""
}
