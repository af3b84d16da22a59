package types

import (
	"encoding/json"
	"strconv"
	"strings"
)

const SecondsPerDay int64 = 86400

// StakingDuration is the lock term a depositor picks at stake time.
type StakingDuration uint8

const (
	DurationSixty StakingDuration = iota
	DurationNinety
	DurationOneEighty
	DurationThreeSixtyFive
)

var durationNames = map[StakingDuration]string{
	DurationSixty:          "sixty",
	DurationNinety:         "ninety",
	DurationOneEighty:      "oneEighty",
	DurationThreeSixtyFive: "threeSixtyFive",
}

// Days returns the term length; ok is false for values outside the four
// recognized choices.
func (d StakingDuration) Days() (days int64, ok bool) {
	switch d {
	case DurationSixty:
		return 60, true
	case DurationNinety:
		return 90, true
	case DurationOneEighty:
		return 180, true
	case DurationThreeSixtyFive:
		return 365, true
	}
	return 0, false
}

// Seconds returns the term length in seconds.
func (d StakingDuration) Seconds() (int64, error) {
	days, ok := d.Days()
	if !ok {
		return 0, ErrInvalidDuration
	}
	return days * SecondsPerDay, nil
}

func (d StakingDuration) String() string {
	if name, ok := durationNames[d]; ok {
		return name
	}
	return "unknown(" + strconv.Itoa(int(d)) + ")"
}

// DurationFromDays maps a day count to a term.
func DurationFromDays(days int64) (StakingDuration, error) {
	switch days {
	case 60:
		return DurationSixty, nil
	case 90:
		return DurationNinety, nil
	case 180:
		return DurationOneEighty, nil
	case 365:
		return DurationThreeSixtyFive, nil
	}
	return 0, ErrInvalidDuration
}

// ParseDuration accepts either the day count ("90") or the variant name
// ("ninety", case-insensitive).
func ParseDuration(s string) (StakingDuration, error) {
	s = strings.TrimSpace(s)
	if days, err := strconv.ParseInt(s, 10, 64); err == nil {
		return DurationFromDays(days)
	}
	for d, name := range durationNames {
		if strings.EqualFold(name, s) {
			return d, nil
		}
	}
	return 0, ErrInvalidDuration
}

// UnmarshalJSON accepts a number of days or a variant name.
func (d *StakingDuration) UnmarshalJSON(b []byte) error {
	var days int64
	if err := json.Unmarshal(b, &days); err == nil {
		parsed, err := DurationFromDays(days)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	}
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return ErrInvalidDuration
	}
	parsed, err := ParseDuration(name)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d StakingDuration) MarshalJSON() ([]byte, error) {
	days, ok := d.Days()
	if !ok {
		return nil, ErrInvalidDuration
	}
	return json.Marshal(days)
}
