// Package dataset reads raw medal records from tabular sources.
//
// Columns are matched by header name, case-insensitively, with a few
// spellings accepted per field. Missing optional columns are tolerated.
// Values that cannot be coerced are kept in a shape the aggregator drops
// and counts: an unparseable period becomes year 0, and an unparseable or
// absent medal value becomes a -1 count.
package dataset

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/okian/medalcast/internal/domain/model"
)

// Source kinds.
const (
	KindCSV    = "csv"
	KindSQLite = "sqlite"
)

// Source loads every medal record in one pass.
type Source interface {
	Load(ctx context.Context) ([]model.MedalRecord, error)
	// Describe names the source for logs and stats.
	Describe() string
}

// Open returns the Source for kind.
func Open(kind, path, table string) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", KindCSV:
		return NewCSV(path), nil
	case KindSQLite:
		return NewSQLite(path, table)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, kind)
	}
}

type field int

const (
	fieldCountry field = iota
	fieldCode
	fieldNOC
	fieldAthlete
	fieldSport
	fieldEvent
	fieldParticipantType
	fieldSeason
	fieldYear
	fieldSlug
	fieldGold
	fieldSilver
	fieldBronze
	fieldMedal
	fieldAwardCount
	fieldCount
)

// columnNames lists accepted header spellings per field.
var columnNames = map[string]field{ //nolint:gochecknoglobals // static table
	"country":               fieldCountry,
	"country_name":          fieldCountry,
	"team":                  fieldCountry,
	"country_code":          fieldCode,
	"country_3_letter_code": fieldCode,
	"iso":                   fieldCode,
	"noc":                   fieldNOC,
	"athlete":               fieldAthlete,
	"athlete_full_name":     fieldAthlete,
	"name":                  fieldAthlete,
	"sport":                 fieldSport,
	"discipline_title":      fieldSport,
	"event":                 fieldEvent,
	"event_title":           fieldEvent,
	"participant_type":      fieldParticipantType,
	"season":                fieldSeason,
	"game_season":           fieldSeason,
	"year":                  fieldYear,
	"games_slug":            fieldSlug,
	"slug_game":             fieldSlug,
	"gold":                  fieldGold,
	"silver":                fieldSilver,
	"bronze":                fieldBronze,
	"medal":                 fieldMedal,
	"medal_type":            fieldMedal,
	"award_count":           fieldAwardCount,
}

var yearPattern = regexp.MustCompile(`\d{4}`)

// decoder maps a header row onto record fields.
type decoder struct {
	index [fieldCount]int
}

func newDecoder(header []string) *decoder {
	d := &decoder{}
	for i := range d.index {
		d.index[i] = -1
	}
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if f, ok := columnNames[name]; ok && d.index[f] < 0 {
			d.index[f] = i
		}
	}
	return d
}

func (d *decoder) has(f field) bool { return d.index[f] >= 0 }

func (d *decoder) get(row []string, f field) string {
	i := d.index[f]
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (d *decoder) decode(row []string) model.MedalRecord {
	r := model.MedalRecord{
		Country:         d.get(row, fieldCountry),
		CountryCode:     d.get(row, fieldCode),
		NOC:             d.get(row, fieldNOC),
		Athlete:         d.get(row, fieldAthlete),
		Sport:           d.get(row, fieldSport),
		Event:           d.get(row, fieldEvent),
		ParticipantType: d.get(row, fieldParticipantType),
		Season:          d.get(row, fieldSeason),
		Year:            parseYear(d.get(row, fieldYear), d.get(row, fieldSlug)),
	}

	if d.has(fieldGold) || d.has(fieldSilver) || d.has(fieldBronze) {
		gold, silver, bronze := d.get(row, fieldGold), d.get(row, fieldSilver), d.get(row, fieldBronze)
		if gold == "" && silver == "" && bronze == "" {
			r.Gold = absent
			return r
		}
		r.Gold = parseCount(gold)
		r.Silver = parseCount(silver)
		r.Bronze = parseCount(bronze)
		return r
	}

	n := 1
	if d.has(fieldAwardCount) {
		if raw := d.get(row, fieldAwardCount); raw != "" {
			n = parseCount(raw)
		}
	}
	switch strings.ToUpper(d.get(row, fieldMedal)) {
	case "GOLD", "G":
		r.Gold = n
	case "SILVER", "S":
		r.Silver = n
	case "BRONZE", "B":
		r.Bronze = n
	default:
		// empty, "nan" or unrecognized
		r.Gold = absent
	}
	return r
}

// parseYear reads the year column, falling back to the first four-digit run
// in the games slug ("tokyo-2020"). Unparseable values yield 0.
func parseYear(year, slug string) int {
	if year != "" {
		if y, ok := parseInt(year); ok && y > 0 {
			return y
		}
	}
	if m := yearPattern.FindString(slug); m != "" {
		y, _ := strconv.Atoi(m)
		return y
	}
	return 0
}

// absent marks a row that carries no medal value at all.
const absent = -1

// parseCount reads a medal indicator or award count. Empty is zero and
// anything unparseable is -1.
func parseCount(s string) int {
	if s == "" {
		return 0
	}
	switch strings.ToLower(s) {
	case "true", "yes":
		return 1
	case "false", "no":
		return 0
	}
	n, ok := parseInt(s)
	if !ok {
		return -1
	}
	return n
}

// parseInt accepts integers and integral floats ("2020.0").
func parseInt(s string) (int, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}
