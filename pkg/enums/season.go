package enums

import "fmt"

// Season identifies the fashion calendar slot a collection ships in.
type Season string

const (
	SeasonSpringSummer Season = "primavera-estate"
	SeasonFallWinter   Season = "autunno-inverno"
	SeasonCruise       Season = "cruise"
	SeasonPreFall      Season = "pre-fall"
)

var validSeasons = []Season{
	SeasonSpringSummer,
	SeasonFallWinter,
	SeasonCruise,
	SeasonPreFall,
}

// IsValid reports whether the value is a known Season.
func (s Season) IsValid() bool {
	for _, candidate := range validSeasons {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSeason converts the raw string to Season.
func ParseSeason(value string) (Season, error) {
	for _, candidate := range validSeasons {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid season %q", value)
}
