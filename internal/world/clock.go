package world

import "fmt"

// TimeOfDay is one quarter of an in-game day.
type TimeOfDay int

const (
	Morning TimeOfDay = iota
	Afternoon
	Evening
	Night
)

var timeOfDayNames = [...]string{"Morning", "Afternoon", "Evening", "Night"}

func (t TimeOfDay) String() string {
	if t < 0 || int(t) >= len(timeOfDayNames) {
		return "Unknown"
	}
	return timeOfDayNames[t]
}

// Next returns the following quarter, wrapping Night to Morning.
func (t TimeOfDay) Next() TimeOfDay { return (t + 1) % TimeOfDay(len(timeOfDayNames)) }

func (t TimeOfDay) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *TimeOfDay) UnmarshalText(b []byte) error {
	v, err := lookup(timeOfDayNames[:], string(b), "time of day")
	*t = TimeOfDay(v)
	return err
}

// Season is one of four 28-day seasons.
type Season int

const (
	Spring Season = iota
	Summer
	Fall
	Winter
)

var seasonNames = [...]string{"Spring", "Summer", "Fall", "Winter"}

func (s Season) String() string {
	if s < 0 || int(s) >= len(seasonNames) {
		return "Unknown"
	}
	return seasonNames[s]
}

func (s Season) Next() Season { return (s + 1) % Season(len(seasonNames)) }

func (s Season) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Season) UnmarshalText(b []byte) error {
	v, err := lookup(seasonNames[:], string(b), "season")
	*s = Season(v)
	return err
}

// Weather is the current global weather.
type Weather int

const (
	Sunny Weather = iota
	Rainy
	Cloudy
	Stormy
	Drought
)

var weatherNames = [...]string{"Sunny", "Rainy", "Cloudy", "Stormy", "Drought"}

func (w Weather) String() string {
	if w < 0 || int(w) >= len(weatherNames) {
		return "Unknown"
	}
	return weatherNames[w]
}

func (w Weather) MarshalText() ([]byte, error) { return []byte(w.String()), nil }

func (w *Weather) UnmarshalText(b []byte) error {
	v, err := lookup(weatherNames[:], string(b), "weather")
	*w = Weather(v)
	return err
}

func lookup(names []string, s, what string) (int, error) {
	for i, n := range names {
		if n == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", what, s)
}

// DaysPerSeason is the season length in days.
const DaysPerSeason = 28

// Clock is the in-game calendar.
type Clock struct {
	Day       int       `json:"day"`
	TimeOfDay TimeOfDay `json:"time_of_day"`
	Season    Season    `json:"season"`
	Year      int       `json:"year"`
}

// Advance moves the clock forward one quarter. It reports whether a new day
// started.
func (c *Clock) Advance() (newDay bool) {
	c.TimeOfDay = c.TimeOfDay.Next()
	if c.TimeOfDay != Morning {
		return false
	}
	c.Day++
	if c.Day%DaysPerSeason == 0 {
		c.Season = c.Season.Next()
		if c.Season == Spring {
			c.Year++
		}
	}
	return true
}

// DayOfSeason returns the 1-based day within the current season.
func (c Clock) DayOfSeason() int { return ((c.Day-1)%DaysPerSeason+DaysPerSeason)%DaysPerSeason + 1 }

func (c Clock) String() string {
	return fmt.Sprintf("Year %d, %s, Day %d, %s", c.Year, c.Season, c.DayOfSeason(), c.TimeOfDay)
}
