// Package pdftext reads local PDF files: page counts and plain text.
package pdftext

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// PageSeparator joins the text of consecutive pages.
const PageSeparator = "\n\n"

// PageCount returns the number of pages in the PDF at path.
func PageCount(path string) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			n, err = 0, fmt.Errorf("failed to get page count for %s: %v", path, r)
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open PDF %s: %w", path, err)
	}
	defer f.Close()

	n, err = api.PageCount(f, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to get page count for %s: %w", path, err)
	}
	return n, nil
}

// Extract returns the trimmed plain text of every page, in order, joined by
// PageSeparator. Pages without a content stream contribute an empty string.
func Extract(path string) (text string, err error) {
	// the reader panics on malformed object graphs
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("error extracting text from PDF: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("PDF file not found: %s", path)
		}
		return "", fmt.Errorf("failed to open PDF %s: %w", path, err)
	}
	defer f.Close()

	total := r.NumPage()
	pages := make([]string, 0, total)
	fonts := make(map[string]*pdf.Font)
	for i := 1; i <= total; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		// cache fonts across pages so charmaps are parsed once
		for _, name := range p.Fonts() {
			if _, ok := fonts[name]; !ok {
				font := p.Font(name)
				fonts[name] = &font
			}
		}
		pageText, err := p.GetPlainText(fonts)
		if err != nil {
			return "", fmt.Errorf("error extracting text from page %d: %w", i, err)
		}
		// each text object starts with a newline
		pages = append(pages, strings.TrimSpace(pageText))
	}

	return strings.Join(pages, PageSeparator), nil
}

// Extractor adapts Extract to an interface so callers can substitute it.
type Extractor struct{}

// Extract implements text extraction for a PDF path.
func (Extractor) Extract(path string) (string, error) {
	return Extract(path)
}
