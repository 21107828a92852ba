package port

import "context"

// DocumentPageText is one page's worth of markdown-rendered text.
type DocumentPageText struct {
	PageNumber int
	Text       string
}

// PageConverter turns a PDF into per-page markdown text. The rendering itself
// is delegated to an external converter service; this module never parses
// binary document formats beyond splitting pages.
type PageConverter interface {
	Convert(ctx context.Context, pdfBytes []byte) ([]DocumentPageText, error)
}
