package converter

import (
	"cmp"
	"errors"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/nconklindev/rankconv/internal/types"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Canonical fields, in the folded form headers are matched against.
const (
	FieldName       = "name"
	FieldTeam       = "team"
	FieldPosition   = "position"
	FieldExpertRank = "expert rank"
)

// Literal headers read in strict mode.
const (
	StrictName = "Name"
	StrictTeam = "Team"
	StrictPos  = "Pos"
	StrictADP  = "Master ADP"
)

// DefaultTeam is used when no team column exists or a team cell is blank.
const DefaultTeam = "NA"

var errNotNumeric = errors.New("not a number")

// Normalized is the typed result of mapping a sheet onto the canonical schema.
type Normalized struct {
	Rows []types.RankedRow
	// Columns maps each resolved canonical field to its source header.
	Columns map[string]string
	// Dropped counts rows removed for having a blank name.
	Dropped int
}

func foldKey(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

func upper(s string) string {
	return strings.TrimSpace(cases.Upper(language.Und).String(s))
}

// resolveColumns maps every canonical field to a column index, or -1 when no
// header folds to it. When two headers fold to the same key the later one
// wins.
func resolveColumns(headers []string, fields ...string) map[string]int {
	lookup := make(map[string]int, len(headers))
	for i, h := range headers {
		lookup[foldKey(h)] = i
	}

	resolved := make(map[string]int, len(fields))
	for _, field := range fields {
		idx, ok := lookup[field]
		if !ok {
			idx = -1
		}
		resolved[field] = idx
	}
	return resolved
}

// Normalize maps a sheet with loosely named headers onto the canonical
// schema. name and position are required; team defaults to "NA" and an
// unparseable rank becomes missing rather than failing the run.
func Normalize(data *types.FileData) (*Normalized, error) {
	cols := resolveColumns(data.Headers, FieldName, FieldTeam, FieldPosition, FieldExpertRank)

	var missing []string
	for _, field := range []string{FieldName, FieldPosition} {
		if cols[field] < 0 {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Missing: missing, Found: slices.Clone(data.Headers)}
	}

	out := &Normalized{Columns: make(map[string]string)}
	for field, idx := range cols {
		if idx >= 0 {
			out.Columns[field] = data.Headers[idx]
		}
	}

	for i := range data.Rows {
		name := strings.TrimSpace(data.Cell(i, cols[FieldName]))
		if name == "" {
			out.Dropped++
			continue
		}

		team := DefaultTeam
		if cols[FieldTeam] >= 0 {
			team = upper(data.Cell(i, cols[FieldTeam]))
		}

		var rank *float64
		if cols[FieldExpertRank] >= 0 {
			rank, _ = parseRank(data.Cell(i, cols[FieldExpertRank]))
		}

		out.Rows = append(out.Rows, types.RankedRow{
			Name:       name,
			Team:       team,
			Position:   upper(data.Cell(i, cols[FieldPosition])),
			ExpertRank: rank,
		})
	}

	SortByRank(out.Rows)
	return out, nil
}

// NormalizeStrict reads a sheet laid out with the exact headers Name, Pos and
// Master ADP (plus an optional Team). Header labels are matched exactly and a
// non-numeric Master ADP cell fails the run.
func NormalizeStrict(data *types.FileData) (*Normalized, error) {
	cols := make(map[string]int)
	var missing []string
	for _, label := range []string{StrictName, StrictTeam, StrictPos, StrictADP} {
		idx := slices.Index(data.Headers, label)
		if idx < 0 && label != StrictTeam {
			missing = append(missing, label)
		}
		cols[label] = idx
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Missing: missing, Found: slices.Clone(data.Headers)}
	}

	out := &Normalized{Columns: map[string]string{
		FieldName:       StrictName,
		FieldPosition:   StrictPos,
		FieldExpertRank: StrictADP,
	}}
	if cols[StrictTeam] >= 0 {
		out.Columns[FieldTeam] = StrictTeam
	}

	for i := range data.Rows {
		name := strings.TrimSpace(data.Cell(i, cols[StrictName]))
		if name == "" {
			out.Dropped++
			continue
		}

		raw := data.Cell(i, cols[StrictADP])
		adp, err := parseRank(raw)
		if err != nil {
			return nil, &CellError{Row: data.Line(i), Column: StrictADP, Value: raw, Err: err}
		}

		team := DefaultTeam
		if cols[StrictTeam] >= 0 {
			if t := strings.TrimSpace(data.Cell(i, cols[StrictTeam])); t != "" {
				team = t
			}
		}

		out.Rows = append(out.Rows, types.RankedRow{
			Name:       name,
			Team:       team,
			Position:   strings.TrimSpace(data.Cell(i, cols[StrictPos])),
			ExpertRank: adp,
		})
	}

	SortByRank(out.Rows)
	return out, nil
}

// parseRank returns nil for a blank cell. A cell that is not a finite number
// also yields nil, along with errNotNumeric.
func parseRank(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	if !isDecimal(s) {
		return nil, errNotNumeric
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, errNotNumeric
	}
	return &v, nil
}

// isDecimal rejects number syntax strconv accepts but a spreadsheet does
// not: digit separators and 0x, 0b or 0o prefixes.
func isDecimal(s string) bool {
	if strings.Contains(s, "_") {
		return false
	}
	digits := strings.TrimLeft(s, "+-")
	if len(digits) > 1 && digits[0] == '0' {
		switch digits[1] {
		case 'x', 'X', 'b', 'B', 'o', 'O':
			return false
		}
	}
	return true
}

// SortByRank stable-sorts rows by ascending ExpertRank with missing ranks
// last.
func SortByRank(rows []types.RankedRow) {
	slices.SortStableFunc(rows, func(a, b types.RankedRow) int {
		switch {
		case a.ExpertRank == nil && b.ExpertRank == nil:
			return 0
		case a.ExpertRank == nil:
			return 1
		case b.ExpertRank == nil:
			return -1
		}
		return cmp.Compare(*a.ExpertRank, *b.ExpertRank)
	})
}
