package dashboard

// FallbackFlag is shown for nationalities without a known country.
const FallbackFlag = "🏁"

// regional indicator A minus ASCII 'A'
const regionalIndicatorOffset = 127397

var nationalityCodes = map[string]string{
	"American":      "US",
	"Argentine":     "AR",
	"Australian":    "AU",
	"Austrian":      "AT",
	"Belgian":       "BE",
	"Brazilian":     "BR",
	"British":       "GB",
	"Canadian":      "CA",
	"Chinese":       "CN",
	"Colombian":     "CO",
	"Czech":         "CZ",
	"Danish":        "DK",
	"Dutch":         "NL",
	"Finnish":       "FI",
	"French":        "FR",
	"German":        "DE",
	"Hungarian":     "HU",
	"Indian":        "IN",
	"Irish":         "IE",
	"Italian":       "IT",
	"Japanese":      "JP",
	"Malaysian":     "MY",
	"Mexican":       "MX",
	"Monegasque":    "MC",
	"New Zealander": "NZ",
	"Polish":        "PL",
	"Portuguese":    "PT",
	"Russian":       "RU",
	"Spanish":       "ES",
	"Swedish":       "SE",
	"Swiss":         "CH",
	"Thai":          "TH",
	"Venezuelan":    "VE",
}

// CountryCode maps a demonym such as "Dutch" to its ISO 3166-1 alpha-2 code.
func CountryCode(nationality string) (string, bool) {
	code, ok := nationalityCodes[nationality]
	return code, ok
}

// CountryFlag renders the flag emoji for a nationality.
func CountryFlag(nationality string) string {
	code, ok := CountryCode(nationality)
	if !ok {
		return FallbackFlag
	}
	flag := make([]rune, 0, len(code))
	for _, c := range code {
		flag = append(flag, regionalIndicatorOffset+c)
	}
	return string(flag)
}
