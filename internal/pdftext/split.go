// Package pdftext splits PDF attachments into single-page documents so each
// page can be rendered and extracted on its own.
package pdftext

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// PageCount returns the number of pages in a PDF held in memory.
func PageCount(pdf []byte) (int, error) {
	count, err := api.PageCount(bytes.NewReader(pdf), nil)
	if err != nil {
		return 0, fmt.Errorf("pdftext.PageCount: %w", err)
	}
	return count, nil
}

// ExtractPage returns a new single-page PDF containing only the given
// 1-indexed page.
func ExtractPage(pdf []byte, page int) ([]byte, error) {
	if page < 1 {
		return nil, fmt.Errorf("pdftext.ExtractPage: invalid page %d", page)
	}
	var buf bytes.Buffer
	err := api.Trim(bytes.NewReader(pdf), &buf, []string{strconv.Itoa(page)}, nil)
	if err != nil {
		return nil, fmt.Errorf("pdftext.ExtractPage page %d: %w", page, err)
	}
	return buf.Bytes(), nil
}

// SplitPages splits a PDF into one single-page PDF per page, in order.
func SplitPages(pdf []byte) ([][]byte, error) {
	count, err := PageCount(pdf)
	if err != nil {
		return nil, err
	}
	if count == 1 {
		return [][]byte{pdf}, nil
	}

	pages := make([][]byte, 0, count)
	for i := 1; i <= count; i++ {
		page, err := ExtractPage(pdf, i)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, nil
}
