// Package schema defines the destination tables for the sports statistics
// pipeline and maps CSV headers onto their columns.
//
// Column types are logical ("int", "float", "varchar(n)"); each storage
// backend maps them to its own SQL types before rendering DDL.
package schema

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"sportetl/internal/ddl"
)

// Column names shared by both tables.
const (
	ColID          = "id"
	ColPlayerName  = "player_name"
	ColSport       = "sport"
	ColTeam        = "team"
	ColGamesPlayed = "games_played"
	ColGoals       = "goals"
	ColAssists     = "assists"
	ColMatchesWon  = "matches_won"
	ColPoints      = "points"
)

// Players returns the per-player table: an auto-increment id, three required
// text columns and five nullable integer statistics.
func Players(fqn string) ddl.TableDef {
	return ddl.TableDef{
		FQN: fqn,
		Columns: []ddl.ColumnDef{
			{Name: ColID, SQLType: "int", PrimaryKey: true, AutoIncrement: true},
			{Name: ColPlayerName, SQLType: "varchar(100)"},
			{Name: ColSport, SQLType: "varchar(50)"},
			{Name: ColTeam, SQLType: "varchar(50)"},
			{Name: ColGamesPlayed, SQLType: "int", Nullable: true},
			{Name: ColGoals, SQLType: "int", Nullable: true},
			{Name: ColAssists, SQLType: "int", Nullable: true},
			{Name: ColMatchesWon, SQLType: "int", Nullable: true},
			{Name: ColPoints, SQLType: "int", Nullable: true},
		},
	}
}

// SportSummary returns the per-sport aggregate table. Goals and assists are
// sums of imputed means and may be fractional.
func SportSummary(fqn string) ddl.TableDef {
	return ddl.TableDef{
		FQN: fqn,
		Columns: []ddl.ColumnDef{
			{Name: ColSport, SQLType: "varchar(50)", PrimaryKey: true},
			{Name: ColGamesPlayed, SQLType: "int", Nullable: true},
			{Name: ColGoals, SQLType: "float", Nullable: true},
			{Name: ColAssists, SQLType: "float", Nullable: true},
		},
	}
}

// NormalizeName turns a CSV header into a column name: lower-case ASCII
// snake_case with accents removed. Separators (space, '-', '.', '_') collapse
// into one underscore and other characters are dropped. An empty result
// becomes "col".
//
//	"Games Played" -> "games_played"
//	" Équipe "     -> "equipe"
func NormalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	// Decompose, remove nonspacing marks, recompose.
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	ascii, _, _ := transform.String(t, s)

	var b strings.Builder
	prevUnderscore := false
	for _, r := range ascii {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevUnderscore = false
		case r == '_' || r == ' ' || r == '-' || r == '.':
			if !prevUnderscore {
				b.WriteRune('_')
				prevUnderscore = true
			}
		}
	}
	name := strings.Trim(b.String(), "_")
	if name == "" {
		return "col"
	}
	return name
}

// Projection maps source headers onto the insertable columns of a table.
type Projection struct {
	// Columns are the destination columns, in table order.
	Columns []string

	// Source holds, per destination column, the index of the source header
	// feeding it, or -1 when no header matched.
	Source []int

	// Skipped lists source headers with no destination column.
	Skipped []string

	// Types holds the logical type of each destination column.
	Types []string
}

// Project matches headers to t's insertable columns by NormalizeName. When
// two headers normalize to the same name the first one wins and the other is
// skipped.
func Project(headers []string, t ddl.TableDef) Projection {
	cols := t.InsertColumns()
	p := Projection{
		Columns: cols,
		Source:  make([]int, len(cols)),
		Types:   make([]string, len(cols)),
	}
	pos := make(map[string]int, len(cols))
	for i, c := range cols {
		pos[c] = i
		p.Source[i] = -1
		def, _ := t.Column(c)
		p.Types[i] = def.SQLType
	}
	for hi, h := range headers {
		i, ok := pos[NormalizeName(h)]
		if !ok || p.Source[i] >= 0 {
			p.Skipped = append(p.Skipped, h)
			continue
		}
		p.Source[i] = hi
	}
	return p
}

// Missing returns destination columns that no header feeds.
func (p Projection) Missing() []string {
	var out []string
	for i, s := range p.Source {
		if s < 0 {
			out = append(out, p.Columns[i])
		}
	}
	return out
}
