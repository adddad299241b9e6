package converter

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nconklindev/rankconv/internal/types"
)

// DefaultIDPrefix is prepended to the 1-based output position to form ids.
const DefaultIDPrefix = "p"

// ToPlayers numbers rows in their final order. The result is never nil so
// that an empty sheet still encodes as [].
func ToPlayers(rows []types.RankedRow, idPrefix string) []types.Player {
	players := make([]types.Player, 0, len(rows))
	for i, row := range rows {
		team := strings.TrimSpace(row.Team)
		if team == "" {
			team = DefaultTeam
		}
		players = append(players, types.Player{
			ID:   idPrefix + strconv.Itoa(i+1),
			Name: strings.TrimSpace(row.Name),
			Team: team,
			Pos:  strings.TrimSpace(row.Position),
			ADP:  row.ExpertRank,
		})
	}
	return players
}

// EncodePlayers writes players as an indented JSON array. Non-ASCII text and
// characters such as & or < are written as-is.
func EncodePlayers(w io.Writer, players []types.Player) error {
	if players == nil {
		players = []types.Player{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(players)
}

// WritePlayers encodes players to outputFile, creating its directory first.
// The file is only created once encoding has succeeded.
func WritePlayers(outputFile string, players []types.Player) error {
	var buf bytes.Buffer
	if err := EncodePlayers(&buf, players); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
		return err
	}

	return os.WriteFile(outputFile, buf.Bytes(), 0644)
}
