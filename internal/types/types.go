package types

type ConversionResult struct {
	InputFile      string
	OutputFile     string
	SheetName      string
	Mode           string
	ColumnsFound   map[string]string
	HeaderRepaired bool
	RowsRead       int
	RowsDropped    int
	PlayersWritten int
}

// FileData is one sheet read as a header row plus data rows. Data rows may be
// shorter than Headers; missing cells read as "".
type FileData struct {
	Headers []string
	Rows    [][]string
	// Lines holds the 1-based sheet row of each entry in Rows. It may be nil
	// for tables built in memory.
	Lines []int
}

// Line returns the sheet row that data row i was read from. Without Lines it
// assumes the header sits on row 1 and no rows were skipped.
func (d *FileData) Line(i int) int {
	if i >= 0 && i < len(d.Lines) {
		return d.Lines[i]
	}
	return i + 2
}

// Cell returns the value at row i, column col, or "" when the row is short.
func (d *FileData) Cell(i, col int) string {
	if col < 0 || i < 0 || i >= len(d.Rows) || col >= len(d.Rows[i]) {
		return ""
	}
	return d.Rows[i][col]
}

// RankedRow is a sheet row mapped onto the canonical schema.
type RankedRow struct {
	Name       string
	Team       string
	Position   string
	ExpertRank *float64
}

// Player is one record of players.json.
type Player struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Team string   `json:"team"`
	Pos  string   `json:"pos"`
	ADP  *float64 `json:"adp"`
}
