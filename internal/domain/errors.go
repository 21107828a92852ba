package domain

import "errors"

var (
	ErrNotFound             = errors.New("resource not found")
	ErrJobNotFound          = errors.New("job not found")
	ErrDocumentNotFound     = errors.New("document not found")
	ErrDuplicateDocument    = errors.New("document already processed")
	ErrInvalidCursor        = errors.New("invalid pagination cursor")
	ErrInvalidContainerData = errors.New("container data is not valid JSON")
	ErrMailFetchFailed      = errors.New("failed to fetch emails")
)
