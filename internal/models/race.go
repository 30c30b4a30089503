package models

// Location is the geographic position of a circuit
type Location struct {
	Lat      string `json:"lat,omitempty"`
	Long     string `json:"long,omitempty"`
	Locality string `json:"locality,omitempty"`
	Country  string `json:"country,omitempty"`
}

// Circuit describes the venue of a race
type Circuit struct {
	CircuitID   string   `json:"circuitId"`
	URL         string   `json:"url,omitempty"`
	CircuitName string   `json:"circuitName"`
	Location    Location `json:"Location"`
}

// RaceSession is a dated session within a race weekend
type RaceSession struct {
	Date string `json:"date"`
	Time string `json:"time,omitempty"`
}

// Race is a calendar entry for one championship round
type Race struct {
	Season           string       `json:"season"`
	Round            string       `json:"round"`
	URL              string       `json:"url,omitempty"`
	RaceName         string       `json:"raceName"`
	Circuit          Circuit      `json:"Circuit"`
	Date             string       `json:"date"`
	Time             string       `json:"time,omitempty"`
	FirstPractice    *RaceSession `json:"FirstPractice,omitempty"`
	SecondPractice   *RaceSession `json:"SecondPractice,omitempty"`
	ThirdPractice    *RaceSession `json:"ThirdPractice,omitempty"`
	Qualifying       *RaceSession `json:"Qualifying,omitempty"`
	SprintQualifying *RaceSession `json:"SprintQualifying,omitempty"`
	Sprint           *RaceSession `json:"Sprint,omitempty"`
}

// HasSprint reports whether the weekend includes a sprint race
func (r Race) HasSprint() bool {
	return r.Sprint != nil
}

// RoundNumber parses Round
func (r Race) RoundNumber() (int, bool) {
	return ParseRound(r.Round)
}

// ParseRound reads the leading decimal digits of s, ignoring surrounding
// whitespace. It returns false when s has no leading digits.
func ParseRound(s string) (int, bool) {
	n, digits := 0, 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if digits == 0 && (c == ' ' || c == '\t') {
			continue
		}
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int(c-'0')
		digits++
	}
	return n, digits > 0
}
