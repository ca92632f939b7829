package locdb

import (
	"errors"
	"fmt"
)

var (
	ErrBadMagic           = errors.New("bad magic")
	ErrInvalidRecordCount = errors.New("invalid record count")
	ErrTruncated          = errors.New("truncated file")
	ErrInvalidTextBlock   = errors.New("invalid text block length")
	ErrTemplateTooShort   = errors.New("template shorter than fixed prefix")
	ErrEmbeddedNull       = errors.New("text contains a null byte")
)

// FormatError reports a structural problem with a localization file.
type FormatError struct {
	Op     string
	Offset int64
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("locdb: %s at offset %d: %v", e.Op, e.Offset, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

func formatErr(op string, offset int, err error) error {
	return &FormatError{Op: op, Offset: int64(offset), Err: err}
}
