package model_test

import (
	"testing"

	"github.com/okian/medalcast/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestPeriodSeries(t *testing.T) {
	convey.Convey("Given a three period series", t, func() {
		s := model.PeriodSeries{
			{Year: 2016, Medals: model.Medals{Gold: 5, Silver: 3, Bronze: 2}},
			{Year: 2020, Medals: model.Medals{Gold: 6, Silver: 2, Bronze: 2}},
			{Year: 2024, Medals: model.Medals{Gold: 1, Silver: 1, Bronze: 1}},
		}

		convey.Convey("Then Before cuts at the requested year", func() {
			convey.So(len(s.Before(2024)), convey.ShouldEqual, 2)
			convey.So(len(s.Before(2016)), convey.ShouldEqual, 0)
			convey.So(len(s.Before(2032)), convey.ShouldEqual, 3)
		})

		convey.Convey("Then Sum and Total agree", func() {
			sum := s.Sum()
			convey.So(sum, convey.ShouldResemble, model.Medals{Gold: 12, Silver: 6, Bronze: 5})
			convey.So(sum.Total(), convey.ShouldEqual, 23)
		})

		convey.Convey("Then columns follow period order", func() {
			convey.So(s.Column(model.Gold), convey.ShouldResemble, []float64{5, 6, 1})
			convey.So(s.Column(model.Total), convey.ShouldResemble, []float64{10, 10, 3})
			convey.So(s.Years(), convey.ShouldResemble, []float64{2016, 2020, 2024})
		})
	})
}

func TestForecast(t *testing.T) {
	convey.Convey("Given a split", t, func() {
		f := model.NewForecast("France", 2028, model.Medals{Gold: 4, Silver: 5, Bronze: 6}, model.SourceSmoothing, "ma")

		convey.Convey("Then the total is derived", func() {
			convey.So(f.Total, convey.ShouldEqual, 15)
			convey.So(f.Gold+f.Silver+f.Bronze, convey.ShouldEqual, f.Total)
		})
	})
}

func TestMedalRecord_IsAthlete(t *testing.T) {
	convey.Convey("Given medal records", t, func() {
		convey.So(model.MedalRecord{Athlete: "A", ParticipantType: "Athlete"}.IsAthlete(), convey.ShouldBeTrue)
		convey.So(model.MedalRecord{Athlete: "A"}.IsAthlete(), convey.ShouldBeTrue)
		convey.So(model.MedalRecord{Athlete: "Relay", ParticipantType: "GameTeam"}.IsAthlete(), convey.ShouldBeFalse)
		convey.So(model.MedalRecord{ParticipantType: "Athlete"}.IsAthlete(), convey.ShouldBeFalse)
	})
}
