// Package history rolls raw medal records up into per-entity period series.
//
// An Index is built once per dataset load and then shared read-only by every
// request, so per-request loops (top-N in particular) never re-aggregate.
package history

import (
	"sort"
	"strings"

	"github.com/okian/medalcast/internal/domain/identity"
	"github.com/okian/medalcast/internal/domain/model"
)

// Stats summarizes one aggregation pass.
type Stats struct {
	Records       int `json:"records"`
	Aggregated    int `json:"aggregated"`
	DroppedPeriod int `json:"dropped_period"`
	DroppedEntity int `json:"dropped_entity"`
	DroppedMedals int `json:"dropped_medals"`
	Countries     int `json:"countries"`
	Athletes      int `json:"athletes"`
	Sports        int `json:"sports"`
	FirstYear     int `json:"first_year"`
	LastYear      int `json:"last_year"`
}

// Dropped is the number of records excluded from aggregation.
func (s Stats) Dropped() int { return s.DroppedPeriod + s.DroppedEntity + s.DroppedMedals }

// CountrySeries is the history of one canonical country.
type CountrySeries struct {
	Country string             `json:"country"`
	Series  model.PeriodSeries `json:"series"`
}

// SportSeries is the number of medals awarded per period in one sport.
type SportSeries struct {
	Sport  string
	Series model.PeriodSeries
}

// AthleteHistory groups an athlete's medals by (athlete, country, sport).
type AthleteHistory struct {
	Athlete string
	Country string
	Sport   string
	Medals  model.Medals
	Series  model.PeriodSeries
}

// Total is the derived gold+silver+bronze column.
func (a AthleteHistory) Total() int { return a.Medals.Total() }

// LastYear is the most recent period the athlete medalled or competed in.
func (a AthleteHistory) LastYear() int {
	if len(a.Series) == 0 {
		return 0
	}
	return a.Series[len(a.Series)-1].Year
}

// Index holds every aggregate the forecast engine reads.
type Index struct {
	countries   map[string]int // identity.Key -> position in countryList
	countryList []CountrySeries
	athletes    []AthleteHistory
	sports      []SportSeries
	stats       Stats
}

// Build normalizes and aggregates records. Rows with a missing period, a
// discarded country or negative medal counts are dropped and counted; they
// never fail the batch.
func Build(records []model.MedalRecord, n *identity.Normalizer) *Index {
	if n == nil {
		n = identity.New()
	}

	countries := newGrouper()
	sports := newGrouper()
	athletes := newGrouper()
	athleteMeta := map[string]AthleteHistory{}

	stats := Stats{Records: len(records)}
	for _, r := range records {
		if r.Year <= 0 {
			stats.DroppedPeriod++
			continue
		}
		if r.Gold < 0 || r.Silver < 0 || r.Bronze < 0 {
			stats.DroppedMedals++
			continue
		}
		country, ok := n.ResolveRecord(r.Country, r.NOC, r.CountryCode)
		if !ok {
			stats.DroppedEntity++
			continue
		}
		stats.Aggregated++
		if stats.FirstYear == 0 || r.Year < stats.FirstYear {
			stats.FirstYear = r.Year
		}
		if r.Year > stats.LastYear {
			stats.LastYear = r.Year
		}

		countries.add(identity.Key(country), country, r.Year, r.Medals)

		sport := collapse(r.Sport)
		if sport != "" {
			sports.add(strings.ToLower(sport), sport, r.Year, r.Medals)
		}

		if r.IsAthlete() {
			athlete := collapse(r.Athlete)
			k := strings.ToLower(athlete) + "\x00" + identity.Key(country) + "\x00" + strings.ToLower(sport)
			athletes.add(k, athlete, r.Year, r.Medals)
			if _, seen := athleteMeta[k]; !seen {
				athleteMeta[k] = AthleteHistory{Athlete: athlete, Country: country, Sport: sport}
			}
		}
	}

	ix := &Index{countries: make(map[string]int, len(countries.groups))}
	for _, g := range countries.sorted() {
		ix.countries[g.key] = len(ix.countryList)
		ix.countryList = append(ix.countryList, CountrySeries{Country: g.label, Series: g.series()})
	}
	for _, g := range sports.sorted() {
		ix.sports = append(ix.sports, SportSeries{Sport: g.label, Series: g.series()})
	}
	for _, g := range athletes.sorted() {
		a := athleteMeta[g.key]
		a.Series = g.series()
		a.Medals = a.Series.Sum()
		ix.athletes = append(ix.athletes, a)
	}

	stats.Countries = len(ix.countryList)
	stats.Athletes = len(ix.athletes)
	stats.Sports = len(ix.sports)
	ix.stats = stats
	return ix
}

// Country returns the history of a canonical country. Unknown countries
// report ok=false with an empty series.
func (ix *Index) Country(label string) (CountrySeries, bool) {
	if ix == nil {
		return CountrySeries{Country: label}, false
	}
	i, ok := ix.countries[identity.Key(label)]
	if !ok {
		return CountrySeries{Country: label}, false
	}
	return ix.countryList[i], true
}

// Countries lists every country ordered by label.
func (ix *Index) Countries() []CountrySeries { return ix.countryList }

// Athletes lists every athlete group ordered by (athlete, country, sport).
func (ix *Index) Athletes() []AthleteHistory { return ix.athletes }

// Sports lists every sport ordered by name.
func (ix *Index) Sports() []SportSeries { return ix.sports }

// Stats returns the aggregation summary.
func (ix *Index) Stats() Stats { return ix.stats }

func collapse(s string) string { return strings.Join(strings.Fields(s), " ") }

// grouper accumulates medals by (key, year).
type grouper struct {
	groups map[string]*group
}

type group struct {
	key    string
	label  string
	byYear map[int]model.Medals
}

func newGrouper() *grouper { return &grouper{groups: map[string]*group{}} }

func (g *grouper) add(key, label string, year int, m model.Medals) {
	grp, ok := g.groups[key]
	if !ok {
		grp = &group{key: key, label: label, byYear: map[int]model.Medals{}}
		g.groups[key] = grp
	}
	grp.byYear[year] = grp.byYear[year].Add(m)
}

// sorted returns groups ordered by key, which is the lowercased label.
func (g *grouper) sorted() []*group {
	out := make([]*group, 0, len(g.groups))
	for _, grp := range g.groups {
		out = append(out, grp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].key < out[j].key })
	return out
}

// series emits the group ordered ascending by year.
func (grp *group) series() model.PeriodSeries {
	out := make(model.PeriodSeries, 0, len(grp.byYear))
	for year, m := range grp.byYear {
		out = append(out, model.Point{Year: year, Medals: m})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}
