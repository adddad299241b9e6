package converter

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrNoSheets indicates the workbook has no sheets to pick from.
	ErrNoSheets = errors.New("workbook has no sheets")

	// ErrMissingColumns indicates required canonical fields could not be
	// resolved from the sheet's headers.
	ErrMissingColumns = errors.New("missing expected columns")

	// ErrUnsupportedFile indicates the input extension has no reader.
	ErrUnsupportedFile = errors.New("unsupported file type")
)

// ErrSheetNotExist is excelize's missing-sheet error. The CSV reader returns
// it too, so callers can match a bad --sheet the same way for both formats.
type ErrSheetNotExist = excelize.ErrSheetNotExist

// MissingColumnsError lists the fields that failed to resolve along with
// every header label found, verbatim and in sheet order.
type MissingColumnsError struct {
	Missing []string
	Found   []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing expected columns in sheet: %q; found columns: %q", e.Missing, e.Found)
}

func (e *MissingColumnsError) Is(target error) bool {
	return target == ErrMissingColumns
}

// CellError reports a cell that strict mode could not accept.
type CellError struct {
	Row    int // 1-based sheet row
	Column string
	Value  string
	Err    error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("row %d, column %q: invalid value %q: %v", e.Row, e.Column, e.Value, e.Err)
}

func (e *CellError) Unwrap() error {
	return e.Err
}
