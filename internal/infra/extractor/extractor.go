package extractor

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	pdf "github.com/ledongthuc/pdf"
)

// Extractor turns uploaded bytes into plain text. It never fails: problems
// come back as placeholder text naming the file.
type Extractor struct{}

func New() *Extractor { return &Extractor{} }

// Extract picks a parser by the declared media type.
func (e *Extractor) Extract(filename, mimeType string, data []byte) string {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	var (
		text string
		err  error
	)
	switch {
	case mt == "application/pdf":
		text, err = extractPDF(data)
	case strings.Contains(mt, "word"):
		text, err = extractDOCX(data)
	case strings.Contains(mt, "spreadsheet") || strings.Contains(mt, "excel"):
		text, err = extractXLSX(data)
	case mt == "text/plain" || mt == "text/markdown" || mt == "text/csv":
		text = decodeText(data)
	default:
		return unsupported(filename)
	}
	if err != nil {
		return failed(filename, err)
	}
	return text
}

func unsupported(filename string) string {
	return fmt.Sprintf("File: %s\nContent extraction not supported for this file type in demo mode.", filename)
}

func failed(filename string, err error) string {
	return fmt.Sprintf("File: %s\nError extracting content: %s", filename, err.Error())
}

// decodeText reads bytes as UTF-8, replacing invalid sequences.
func decodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	return strings.ToValidUTF8(string(data), "�")
}

func extractPDF(data []byte) (text string, err error) {
	// the pdf reader panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parse: %v", r)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf reader: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("pdf plaintext: %w", err)
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("pdf read: %w", err)
	}
	return string(b), nil
}

// extractDOCX gathers <w:t> runs from word/document.xml, one paragraph per line.
func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("docx container: %w", err)
	}
	var part *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			part = f
			break
		}
	}
	if part == nil {
		return "", fmt.Errorf("docx container has no word/document.xml")
	}
	rc, err := part.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	dec := xml.NewDecoder(rc)
	var out strings.Builder
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("docx xml: %w", err)
		}
		switch se := tok.(type) {
		case xml.StartElement:
			switch se.Name.Local {
			case "t":
				var v string
				if err := dec.DecodeElement(&v, &se); err != nil {
					return "", fmt.Errorf("docx text run: %w", err)
				}
				out.WriteString(v)
			case "tab":
				out.WriteString("\t")
			case "br":
				out.WriteString("\n")
			}
		case xml.EndElement:
			if se.Name.Local == "p" {
				out.WriteString("\n")
			}
		}
	}
	return strings.TrimRight(out.String(), "\n"), nil
}
