package converter

import (
	"slices"
	"testing"

	"github.com/nconklindev/rankconv/internal/types"
)

func TestLoadTable(t *testing.T) {
	path := writeWorkbook(t, sheetFixture{name: "Sheet1", rows: [][]any{
		{},
		{"Name", "", "Position"},
		{"Bo", "KC", "rb", "stray"},
		{"", "", ""},
		{"Cee", "", "wr"},
		{"", "", ""},
	}})

	wb, err := OpenWorkbook(path)
	if err != nil {
		t.Fatal(err)
	}
	defer wb.Close()

	data, err := LoadTable(wb, "Sheet1")
	if err != nil {
		t.Fatalf("LoadTable failed: %v", err)
	}

	expectedHeaders := []string{"Name", "Unnamed: 1", "Position", "Unnamed: 3"}
	if !slices.Equal(data.Headers, expectedHeaders) {
		t.Errorf("Headers = %q; want %q", data.Headers, expectedHeaders)
	}
	if len(data.Rows) != 2 {
		t.Errorf("Expected 2 data rows after skipping blank rows, got %d", len(data.Rows))
	}
	if !slices.Equal(data.Lines, []int{3, 5}) {
		t.Errorf("Lines = %v; want [3 5]", data.Lines)
	}
	if data.Cell(1, 0) != "Cee" || data.Cell(1, 3) != "" {
		t.Errorf("Unexpected cells in row 1: %q", data.Rows[1])
	}
}

func TestLoadTable_EmptySheet(t *testing.T) {
	path := writeWorkbook(t, sheetFixture{name: "Sheet1"})

	wb, err := OpenWorkbook(path)
	if err != nil {
		t.Fatal(err)
	}
	defer wb.Close()

	data, err := LoadTable(wb, "Sheet1")
	if err != nil {
		t.Fatalf("LoadTable failed: %v", err)
	}
	if len(data.Headers) != 0 || len(data.Rows) != 0 {
		t.Errorf("Expected empty table, got %+v", data)
	}
}

func TestRepairHeader(t *testing.T) {
	tests := []struct {
		name            string
		data            *types.FileData
		expectRepaired  bool
		expectedHeaders []string
		expectedRows    int
	}{
		{
			name: "Promotes shifted header row",
			data: &types.FileData{
				Headers: []string{"2025 Redraft Rankings", "Unnamed: 1", "Unnamed: 2"},
				Rows: [][]string{
					{"Name", "Team", "Position"},
					{"Bo", "KC", "RB"},
				},
			},
			expectRepaired:  true,
			expectedHeaders: []string{"Name", "Team", "Position"},
			expectedRows:    1,
		},
		{
			name: "Matches name case-insensitively with padding",
			data: &types.FileData{
				Headers: []string{"Banner"},
				Rows: [][]string{
					{"  NAME ", "POS"},
					{"Bo", "RB"},
					{"Cee", "WR"},
				},
			},
			expectRepaired:  true,
			expectedHeaders: []string{"  NAME ", "POS"},
			expectedRows:    2,
		},
		{
			name: "Leaves real Name header alone",
			data: &types.FileData{
				Headers: []string{"Name", "Position"},
				Rows: [][]string{
					{"name", "RB"},
				},
			},
			expectRepaired:  false,
			expectedHeaders: []string{"Name", "Position"},
			expectedRows:    1,
		},
		{
			name: "First cell is a player",
			data: &types.FileData{
				Headers: []string{"Player", "Pos"},
				Rows: [][]string{
					{"Bo", "RB"},
				},
			},
			expectRepaired:  false,
			expectedHeaders: []string{"Player", "Pos"},
			expectedRows:    1,
		},
		{
			name: "No data rows",
			data: &types.FileData{
				Headers: []string{"Banner"},
			},
			expectRepaired:  false,
			expectedHeaders: []string{"Banner"},
			expectedRows:    0,
		},
		{
			name: "Blank promoted cells get placeholders",
			data: &types.FileData{
				Headers: []string{"Banner", "Unnamed: 1", "Unnamed: 2"},
				Rows: [][]string{
					{"Name", "", "Position"},
					{"Bo", "x", "RB"},
				},
			},
			expectRepaired:  true,
			expectedHeaders: []string{"Name", "Unnamed: 1", "Position"},
			expectedRows:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(tt.data.Rows)
			got := RepairHeader(tt.data)
			if got != tt.expectRepaired {
				t.Errorf("RepairHeader() = %v; want %v", got, tt.expectRepaired)
			}
			if !slices.Equal(tt.data.Headers, tt.expectedHeaders) {
				t.Errorf("Headers = %q; want %q", tt.data.Headers, tt.expectedHeaders)
			}
			if len(tt.data.Rows) != tt.expectedRows {
				t.Errorf("Rows = %d; want %d", len(tt.data.Rows), tt.expectedRows)
			}
			if got && before-len(tt.data.Rows) != 1 {
				t.Errorf("Repair removed %d rows; want exactly 1", before-len(tt.data.Rows))
			}
		})
	}
}

func TestRepairHeader_KeepsLineNumbers(t *testing.T) {
	data := &types.FileData{
		Headers: []string{"Banner"},
		Rows:    [][]string{{"Name", "Pos"}, {"Bo", "RB"}},
		Lines:   []int{3, 4},
	}

	if !RepairHeader(data) {
		t.Fatal("Expected repair to apply")
	}
	if data.Line(0) != 4 {
		t.Errorf("Line(0) = %d; want 4", data.Line(0))
	}
}

func TestRepairHeader_RunsOnce(t *testing.T) {
	data := &types.FileData{
		Headers: []string{"Banner"},
		Rows: [][]string{
			{"Name"},
			{"name"},
			{"Bo"},
		},
	}

	if !RepairHeader(data) {
		t.Fatal("Expected first repair to apply")
	}
	// Headers now contain a literal "Name", so a second pass is a no-op.
	if RepairHeader(data) {
		t.Error("Expected second repair to be a no-op")
	}
	if len(data.Rows) != 2 {
		t.Errorf("Expected 2 rows, got %d", len(data.Rows))
	}
}
