package converter

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/nconklindev/rankconv/internal/types"
)

// Mode selects how a sheet's columns are matched.
type Mode string

const (
	// ModeLenient folds header case and whitespace, repairs a shifted header
	// row and tolerates unparseable ranks.
	ModeLenient Mode = "lenient"
	// ModeStrict requires the literal Name, Pos and Master ADP headers.
	ModeStrict Mode = "strict"
)

// ParseMode accepts "lenient" or "strict".
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeLenient, ModeStrict:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("invalid mode: %s (must be lenient or strict)", s)
	}
}

// DefaultPreferredSheets are tried in order before falling back to the
// workbook's first sheet.
var DefaultPreferredSheets = []string{"Sheet1", "Sheet 1 - REDRAFT-rankings"}

type Options struct {
	InputFile  string
	OutputFile string
	// Sheet, when set, is used instead of PreferredSheets and must exist.
	Sheet           string
	PreferredSheets []string
	Mode            Mode
	IDPrefix        string
}

// Convert reads the ranking sheet from opts.InputFile and writes players.json
// to opts.OutputFile. Progress in [0,1] is sent on progressChan without
// blocking when it is non-nil.
func Convert(opts Options, progressChan chan<- float64) (*types.ConversionResult, error) {
	const stages = 5.0
	reportProgress := func(done int) {
		if progressChan != nil {
			select {
			case progressChan <- float64(done) / stages:
			default:
			}
		}
	}

	mode := ModeLenient
	if opts.Mode != "" {
		var err error
		if mode, err = ParseMode(string(opts.Mode)); err != nil {
			return nil, err
		}
	}
	idPrefix := opts.IDPrefix
	if idPrefix == "" {
		idPrefix = DefaultIDPrefix
	}

	wb, err := OpenWorkbook(opts.InputFile)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer wb.Close()

	sheetName, err := selectSheet(wb.SheetNames(), opts)
	if err != nil {
		return nil, err
	}
	slog.Debug("sheet selected", "file", opts.InputFile, "sheet", sheetName)
	reportProgress(1)

	data, err := LoadTable(wb, sheetName)
	if err != nil {
		return nil, fmt.Errorf("load sheet %q: %w", sheetName, err)
	}

	repaired := false
	if mode == ModeLenient {
		repaired = RepairHeader(data)
		if repaired {
			slog.Debug("header row repaired", "sheet", sheetName, "headers", data.Headers)
		}
	}
	reportProgress(2)
	rowsRead := len(data.Rows)

	var norm *Normalized
	if mode == ModeStrict {
		norm, err = NormalizeStrict(data)
	} else {
		norm, err = Normalize(data)
	}
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheetName, err)
	}
	slog.Debug("columns resolved", "sheet", sheetName, "columns", norm.Columns, "dropped", norm.Dropped)
	reportProgress(3)

	players := ToPlayers(norm.Rows, idPrefix)
	reportProgress(4)

	if err := WritePlayers(opts.OutputFile, players); err != nil {
		return nil, fmt.Errorf("write players: %w", err)
	}
	reportProgress(5)

	return &types.ConversionResult{
		InputFile:      opts.InputFile,
		OutputFile:     opts.OutputFile,
		SheetName:      sheetName,
		Mode:           string(mode),
		ColumnsFound:   norm.Columns,
		HeaderRepaired: repaired,
		RowsRead:       rowsRead,
		RowsDropped:    norm.Dropped,
		PlayersWritten: len(players),
	}, nil
}

func selectSheet(sheets []string, opts Options) (string, error) {
	if opts.Sheet == "" {
		return PickSheet(sheets, opts.PreferredSheets)
	}
	if !slices.Contains(sheets, opts.Sheet) {
		return "", ErrSheetNotExist{SheetName: opts.Sheet}
	}
	return opts.Sheet, nil
}
