package converter

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/xuri/excelize/v2"
)

type sheetFixture struct {
	name string
	rows [][]any
}

// writeWorkbook saves the sheets, in order, to an .xlsx file under t.TempDir().
func writeWorkbook(t *testing.T, sheets ...sheetFixture) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.name); err != nil {
				t.Fatal(err)
			}
		} else if _, err := f.NewSheet(sheet.name); err != nil {
			t.Fatal(err)
		}

		for r, row := range sheet.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.SetSheetRow(sheet.name, cell, &row); err != nil {
				t.Fatal(err)
			}
		}
	}

	path := filepath.Join(t.TempDir(), "rankings.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save test workbook: %v", err)
	}
	return path
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPickSheet(t *testing.T) {
	tests := []struct {
		name      string
		sheets    []string
		preferred []string
		expected  string
	}{
		{"First preference present", []string{"Data", "Sheet1"}, DefaultPreferredSheets, "Sheet1"},
		{"Second preference present", []string{"Data", "Sheet 1 - REDRAFT-rankings"}, DefaultPreferredSheets, "Sheet 1 - REDRAFT-rankings"},
		{"Preference order wins over sheet order", []string{"Sheet 1 - REDRAFT-rankings", "Sheet1"}, DefaultPreferredSheets, "Sheet1"},
		{"Falls back to first sheet", []string{"Rankings", "Notes"}, DefaultPreferredSheets, "Rankings"},
		{"Match is exact", []string{"Other", "sheet1"}, DefaultPreferredSheets, "Other"},
		{"No preferences", []string{"Only"}, nil, "Only"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PickSheet(tt.sheets, tt.preferred)
			if err != nil {
				t.Fatalf("PickSheet() error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("PickSheet(%v) = %q; want %q", tt.sheets, got, tt.expected)
			}
		})
	}
}

func TestPickSheet_NoSheets(t *testing.T) {
	_, err := PickSheet(nil, DefaultPreferredSheets)
	if !errors.Is(err, ErrNoSheets) {
		t.Errorf("PickSheet(nil) error = %v; want ErrNoSheets", err)
	}
}

func TestOpenWorkbook_XLSX(t *testing.T) {
	path := writeWorkbook(t,
		sheetFixture{name: "Notes", rows: [][]any{{"hello"}}},
		sheetFixture{name: "Sheet1", rows: [][]any{{"Name", "Expert Rank"}, {"Bo", 1.5}}},
	)

	wb, err := OpenWorkbook(path)
	if err != nil {
		t.Fatalf("OpenWorkbook failed: %v", err)
	}
	defer wb.Close()

	if got := wb.SheetNames(); !slices.Equal(got, []string{"Notes", "Sheet1"}) {
		t.Errorf("SheetNames() = %v; want [Notes Sheet1]", got)
	}

	rows, err := wb.Rows("Sheet1")
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}
	if len(rows) != 2 || rows[1][0] != "Bo" || rows[1][1] != "1.5" {
		t.Errorf("Rows() = %v", rows)
	}

	_, err = wb.Rows("Missing")
	var sheetErr ErrSheetNotExist
	if !errors.As(err, &sheetErr) {
		t.Errorf("Rows(Missing) error = %v; want ErrSheetNotExist", err)
	}
}

func TestOpenWorkbook_CSV(t *testing.T) {
	path := writeFile(t, "REDRAFT-rankings.csv", "\ufeffName,Position\nBo,rb\nCee,wr,extra\n")

	wb, err := OpenWorkbook(path)
	if err != nil {
		t.Fatalf("OpenWorkbook failed: %v", err)
	}
	defer wb.Close()

	if got := wb.SheetNames(); !slices.Equal(got, []string{"REDRAFT-rankings"}) {
		t.Errorf("SheetNames() = %v; want [REDRAFT-rankings]", got)
	}

	rows, err := wb.Rows("REDRAFT-rankings")
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}
	if rows[0][0] != "Name" {
		t.Errorf("Expected BOM to be stripped, got %q", rows[0][0])
	}
	if len(rows[2]) != 3 {
		t.Errorf("Expected ragged row to keep 3 fields, got %d", len(rows[2]))
	}

	_, err = wb.Rows("Sheet1")
	var sheetErr ErrSheetNotExist
	if !errors.As(err, &sheetErr) || sheetErr.SheetName != "Sheet1" {
		t.Errorf("Rows(Sheet1) error = %v; want ErrSheetNotExist", err)
	}
}

func TestOpenWorkbook_Unsupported(t *testing.T) {
	path := writeFile(t, "rankings.ods", "")

	_, err := OpenWorkbook(path)
	if !errors.Is(err, ErrUnsupportedFile) {
		t.Errorf("OpenWorkbook(.ods) error = %v; want ErrUnsupportedFile", err)
	}
}

func TestReadSheetNames(t *testing.T) {
	path := writeWorkbook(t,
		sheetFixture{name: "Sheet 1 - REDRAFT-rankings", rows: [][]any{{"Name"}}},
		sheetFixture{name: "Extra", rows: [][]any{{"x"}}},
	)

	names, err := ReadSheetNames(path)
	if err != nil {
		t.Fatalf("ReadSheetNames failed: %v", err)
	}
	if !slices.Equal(names, []string{"Sheet 1 - REDRAFT-rankings", "Extra"}) {
		t.Errorf("ReadSheetNames() = %v", names)
	}
}
