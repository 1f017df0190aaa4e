package history_test

import (
	"testing"

	"github.com/okian/medalcast/internal/domain/history"
	"github.com/okian/medalcast/internal/domain/identity"
	"github.com/okian/medalcast/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func medal(country, athlete, sport string, year, g, s, b int) model.MedalRecord {
	return model.MedalRecord{
		Country:         country,
		Athlete:         athlete,
		Sport:           sport,
		ParticipantType: "Athlete",
		Year:            year,
		Medals:          model.Medals{Gold: g, Silver: s, Bronze: b},
	}
}

func TestBuild(t *testing.T) {
	Convey("Given records spanning renamed states and bad rows", t, func() {
		records := []model.MedalRecord{
			medal("Soviet Union", "Latynina", "Gymnastics", 1964, 1, 0, 0),
			medal("Russia", "Popov", "Swimming", 1996, 1, 0, 0),
			medal("Russian Federation", "Popov", "Swimming", 1996, 1, 0, 0),
			medal("ROC", "Someone", "Fencing", 2020, 0, 1, 0),
			medal("France", "Riner", "Judo", 2012, 1, 0, 0),
			medal("France", "Riner", "Judo", 2008, 0, 0, 1),
			medal("France", "Riner", "Judo", 2016, 1, 0, 0),
			medal("France", "", "Judo", 0, 1, 0, 0),          // no period
			medal("unknown", "Ghost", "Judo", 2016, 1, 0, 0), // placeholder country
			medal("France", "Neg", "Judo", 2016, -1, 0, 0),   // malformed medals
			{Country: "France", Sport: "Football", ParticipantType: "GameTeam", Athlete: "France", Year: 2016, Medals: model.Medals{Silver: 1}},
		}
		ix := history.Build(records, identity.New())

		Convey("Then aliases aggregate under one country", func() {
			russia, ok := ix.Country("Russia")
			So(ok, ShouldBeTrue)
			So(russia.Series, ShouldResemble, model.PeriodSeries{
				{Year: 1964, Medals: model.Medals{Gold: 1}},
				{Year: 1996, Medals: model.Medals{Gold: 2}},
				{Year: 2020, Medals: model.Medals{Silver: 1}},
			})
		})

		Convey("Then series are ascending with unique periods", func() {
			for _, c := range ix.Countries() {
				for i := 1; i < len(c.Series); i++ {
					So(c.Series[i].Year, ShouldBeGreaterThan, c.Series[i-1].Year)
				}
			}
			france, ok := ix.Country("france")
			So(ok, ShouldBeTrue)
			So(france.Series.Sum(), ShouldResemble, model.Medals{Gold: 2, Silver: 1, Bronze: 1})
		})

		Convey("Then bad rows are dropped and counted", func() {
			stats := ix.Stats()
			So(stats.Records, ShouldEqual, len(records))
			So(stats.DroppedPeriod, ShouldEqual, 1)
			So(stats.DroppedEntity, ShouldEqual, 1)
			So(stats.DroppedMedals, ShouldEqual, 1)
			So(stats.Dropped(), ShouldEqual, 3)
			So(stats.Aggregated, ShouldEqual, len(records)-3)
			So(stats.FirstYear, ShouldEqual, 1964)
			So(stats.LastYear, ShouldEqual, 2020)
		})

		Convey("Then athletes group by athlete, country and sport", func() {
			var riner, popov history.AthleteHistory
			for _, a := range ix.Athletes() {
				switch a.Athlete {
				case "Riner":
					riner = a
				case "Popov":
					popov = a
				}
				So(a.Athlete, ShouldNotEqual, "France")
			}
			So(riner.Country, ShouldEqual, "France")
			So(riner.Total(), ShouldEqual, 3)
			So(riner.LastYear(), ShouldEqual, 2016)
			So(len(riner.Series), ShouldEqual, 3)
			So(popov.Country, ShouldEqual, "Russia")
			So(popov.Total(), ShouldEqual, 2)
		})

		Convey("Then sports aggregate by period", func() {
			var judo history.SportSeries
			for _, s := range ix.Sports() {
				if s.Sport == "Judo" {
					judo = s
				}
			}
			So(judo.Series.Sum().Total(), ShouldEqual, 3)
		})

		Convey("Then unknown countries report an empty series", func() {
			c, ok := ix.Country("Atlantis")
			So(ok, ShouldBeFalse)
			So(c.Series, ShouldBeEmpty)
		})
	})

	Convey("Given no records", t, func() {
		ix := history.Build(nil, nil)

		Convey("Then the index is empty but usable", func() {
			So(ix.Countries(), ShouldBeEmpty)
			So(ix.Athletes(), ShouldBeEmpty)
			So(ix.Stats().Records, ShouldEqual, 0)
		})
	})
}
