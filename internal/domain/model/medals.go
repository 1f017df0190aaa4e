// Package model contains the domain types shared by the forecast engine,
// the dataset adapters and the HTTP layer.
package model

// Medals is a gold/silver/bronze triple. Total is always derived.
type Medals struct {
	Gold   int `json:"gold"`
	Silver int `json:"silver"`
	Bronze int `json:"bronze"`
}

// Total returns gold+silver+bronze.
func (m Medals) Total() int { return m.Gold + m.Silver + m.Bronze }

// Add returns the element-wise sum.
func (m Medals) Add(o Medals) Medals {
	return Medals{Gold: m.Gold + o.Gold, Silver: m.Silver + o.Silver, Bronze: m.Bronze + o.Bronze}
}

// MedalRecord is one row of raw history. Gold, Silver and Bronze are
// indicator columns (0/1) or award counts. Records are never mutated.
type MedalRecord struct {
	Country         string
	CountryCode     string
	NOC             string
	Athlete         string
	Sport           string
	Event           string
	ParticipantType string
	Season          string
	Year            int

	Medals
}

// IsAthlete reports whether the record belongs to an individual athlete.
// Rows without a participant type count when an athlete name is present.
func (r MedalRecord) IsAthlete() bool {
	switch r.ParticipantType {
	case "":
		return r.Athlete != ""
	case "Athlete", "athlete", "ATHLETE":
		return r.Athlete != ""
	default:
		return false
	}
}
