package identity

// builtinAliases maps raw country labels (matched case-insensitively) to the
// canonical label. Dissolved or renamed states fold into their successor so
// long histories aggregate under one key.
var builtinAliases = map[string]string{ //nolint:gochecknoglobals // static lookup table
	// United States
	"USA":                      "United States",
	"US":                       "United States",
	"U.S.A.":                   "United States",
	"United States of America": "United States",

	// China
	"People's Republic of China": "China",
	"PR China":                   "China",

	// Great Britain
	"United Kingdom": "Great Britain",
	"UK":             "Great Britain",
	"Britain":        "Great Britain",
	"Team GB":        "Great Britain",

	"United Kingdom of Great Britain and Northern Ireland": "Great Britain",

	// Russia and its predecessors
	"Russian Federation":           "Russia",
	"ROC":                          "Russia",
	"Russian Olympic Committee":    "Russia",
	"Olympic Athletes from Russia": "Russia",
	"Soviet Union":                 "Russia",
	"USSR":                         "Russia",
	"Unified Team":                 "Russia",

	// Germany
	"West Germany":                         "Germany",
	"Federal Republic of Germany":          "Germany",
	"German Democratic Republic (Germany)": "East Germany",
	"German Democratic Republic":           "East Germany",
	"GDR":                                  "East Germany",

	// Balkans and central Europe
	"Yugoslavia":                       "Serbia",
	"Serbia and Montenegro":            "Serbia",
	"Independent Olympic Participants": "Serbia",
	"Czechoslovakia":                   "Czech Republic",
	"Czechia":                          "Czech Republic",
	"Bohemia":                          "Czech Republic",

	// Asia and Pacific
	"Republic of Korea":                     "South Korea",
	"Korea":                                 "South Korea",
	"Korea, South":                          "South Korea",
	"Democratic People's Republic of Korea": "North Korea",
	"Korea, North":                          "North Korea",
	"Chinese Taipei":                        "Taiwan",
	"Hong Kong, China":                      "Hong Kong",
	"Islamic Republic of Iran":              "Iran",
	"Australasia":                           "Australia",

	// Others
	"Netherlands Antilles":             "Netherlands",
	"Holland":                          "Netherlands",
	"Rhodesia":                         "Zimbabwe",
	"Ceylon":                           "Sri Lanka",
	"Burma":                            "Myanmar",
	"Zaire":                            "DR Congo",
	"Democratic Republic of the Congo": "DR Congo",
	"Côte d'Ivoire":                    "Ivory Coast",
	"Cote d'Ivoire":                    "Ivory Coast",
	"United Arab Republic":             "Egypt",
	"Bohemia and Moravia":              "Czech Republic",
	"Saar":                             "Germany",
	"Türkiye":                          "Turkey",
}

// builtinCodes maps NOC and ISO codes to canonical labels. Used when a record
// carries a code but no usable country label.
var builtinCodes = map[string]string{ //nolint:gochecknoglobals // static lookup table
	"USA": "United States",
	"CHN": "China",
	"GBR": "Great Britain",
	"FRA": "France",
	"GER": "Germany",
	"FRG": "Germany",
	"GDR": "East Germany",
	"URS": "Russia",
	"EUN": "Russia",
	"RUS": "Russia",
	"ROC": "Russia",
	"OAR": "Russia",
	"JPN": "Japan",
	"ITA": "Italy",
	"ESP": "Spain",
	"AUS": "Australia",
	"CAN": "Canada",
	"NED": "Netherlands",
	"KOR": "South Korea",
	"PRK": "North Korea",
	"NOR": "Norway",
	"SWE": "Sweden",
	"BRA": "Brazil",
	"IND": "India",
	"RSA": "South Africa",
	"HUN": "Hungary",
	"POL": "Poland",
	"CUB": "Cuba",
	"KEN": "Kenya",
	"JAM": "Jamaica",
	"NZL": "New Zealand",
	"SUI": "Switzerland",
	"TPE": "Taiwan",
	"IRI": "Iran",
	"YUG": "Serbia",
	"SCG": "Serbia",
	"SRB": "Serbia",
	"TCH": "Czech Republic",
	"CZE": "Czech Republic",
	"UKR": "Ukraine",
	"ROU": "Romania",
	"BUL": "Bulgaria",
	"TUR": "Turkey",
	"GRE": "Greece",
	"FIN": "Finland",
	"DEN": "Denmark",
	"BEL": "Belgium",
	"AUT": "Austria",
	"ETH": "Ethiopia",
	"MEX": "Mexico",
	"ARG": "Argentina",
}

// discardLabels are placeholders that cannot be attributed to a country.
var discardLabels = []string{ //nolint:gochecknoglobals // static lookup table
	"",
	"nan",
	"none",
	"null",
	"unknown",
	"n/a",
	"na",
	"-",
	"mixed team",
	"independent olympic athletes",
	"refugee olympic team",
}
