package converter

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Workbook is a read-only, ordered collection of sheets.
type Workbook interface {
	SheetNames() []string
	Rows(sheet string) ([][]string, error)
	Close() error
}

// OpenWorkbook opens an .xlsx/.xlsm workbook, or a .csv file as a workbook
// with a single sheet named after the file.
func OpenWorkbook(filePath string) (Workbook, error) {
	ext := strings.ToLower(filepath.Ext(filePath))

	switch ext {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return openXLSX(filePath)
	case ".csv":
		return openCSV(filePath)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFile, ext)
	}
}

// ReadSheetNames returns the sheet names of the workbook at filePath.
func ReadSheetNames(filePath string) ([]string, error) {
	wb, err := OpenWorkbook(filePath)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	return wb.SheetNames(), nil
}

type xlsxWorkbook struct {
	f *excelize.File
}

func openXLSX(filePath string) (*xlsxWorkbook, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, err
	}
	return &xlsxWorkbook{f: f}, nil
}

func (w *xlsxWorkbook) SheetNames() []string {
	return w.f.GetSheetList()
}

// Rows reads raw cell values so that ranks stored with a number format
// (e.g. "5.00") still parse as the underlying number.
func (w *xlsxWorkbook) Rows(sheet string) ([][]string, error) {
	return w.f.GetRows(sheet, excelize.Options{RawCellValue: true})
}

func (w *xlsxWorkbook) Close() error {
	return w.f.Close()
}

type csvWorkbook struct {
	name    string
	records [][]string
}

func openCSV(filePath string) (*csvWorkbook, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")
	}

	base := filepath.Base(filePath)
	return &csvWorkbook{
		name:    strings.TrimSuffix(base, filepath.Ext(base)),
		records: records,
	}, nil
}

func (w *csvWorkbook) SheetNames() []string {
	return []string{w.name}
}

func (w *csvWorkbook) Rows(sheet string) ([][]string, error) {
	if sheet != w.name {
		return nil, ErrSheetNotExist{SheetName: sheet}
	}
	return w.records, nil
}

func (w *csvWorkbook) Close() error {
	return nil
}

// PickSheet returns the first preferred name present in sheets, falling back
// to the first sheet.
func PickSheet(sheets, preferred []string) (string, error) {
	if len(sheets) == 0 {
		return "", ErrNoSheets
	}

	for _, name := range preferred {
		if slices.Contains(sheets, name) {
			return name, nil
		}
	}

	return sheets[0], nil
}
