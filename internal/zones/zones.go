package zones

import (
	"errors"
	"fmt"
	"math"

	"github.com/tripeak/tripeak/internal/units"
)

// ErrInvalidThreshold marks caller errors (non-positive LTHR/FTP/pace/CSS).
// Distinct from "not enough data", which is reported as a nil result.
var ErrInvalidThreshold = errors.New("threshold must be greater than zero")

// Zone is one training-intensity band. Bounds are [Min, Max) in the
// metric's native unit; the top zone of a family is open-ended in
// time-in-zone bucketing.
type Zone struct {
	Zone        int     `json:"zone"`
	Name        string  `json:"name"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Description string  `json:"description"`
}

var (
	hrZoneNames = []string{
		"Recovery", "Aerobic", "Tempo", "SubThreshold",
		"SuperThreshold", "VO2max", "Anaerobic",
	}
	hrZoneDescriptions = []string{
		"Very easy, active recovery",
		"Comfortable, conversational endurance work",
		"Moderate, sustained 'comfortably hard' effort",
		"Just below lactate threshold",
		"At and slightly above lactate threshold",
		"Hard intervals, 3-8 min efforts",
		"Max efforts, sprints",
	}
	// boundaries as fractions of LTHR; top zone capped at 120%
	hrBreakpoints = []float64{0.81, 0.89, 0.93, 0.99, 1.02, 1.06}

	powerZoneNames = []string{
		"Active Recovery", "Endurance", "Tempo", "Threshold",
		"VO2max", "Anaerobic Capacity", "Neuromuscular",
	}
	powerZoneDescriptions = []string{
		"Easy spinning, recovery rides",
		"All-day aerobic riding",
		"Sustained 'sweet spot' style work",
		"At functional threshold power",
		"3-8 min hard intervals",
		"30s-3min very hard efforts",
		"Short maximal sprints",
	}
	// Coggan-style boundaries as fractions of FTP; top capped at 200%
	powerBreakpoints = []float64{0.55, 0.75, 0.90, 1.05, 1.20, 1.50}

	paceZoneNames = []string{
		"Recovery", "Endurance", "Tempo", "Threshold", "VO2max", "Speed",
	}
	// fractions of threshold speed; faster-than-threshold means a higher
	// speed and a HIGHER zone ordinal, regardless of how pace strings read
	paceBreakpoints = []float64{0.65, 0.75, 0.85, 0.92, 1.00, 1.10, 1.30}

	swimZoneNames = []string{
		"Recovery", "Endurance", "Threshold", "Race Pace", "Sprint",
	}
	// fractions of CSS
	swimBreakpoints = []float64{0.75, 0.85, 0.93, 1.00, 1.05, 1.20}
)

// CalculateHRZones maps an LTHR (bpm) onto the fixed 7-zone model.
// Bounds are rounded to whole bpm; zone 7 is capped at 120% LTHR.
func CalculateHRZones(lthr float64) ([]Zone, error) {
	if lthr <= 0 {
		return nil, fmt.Errorf("%w: lthr %.1f", ErrInvalidThreshold, lthr)
	}

	bounds := make([]float64, 0, len(hrBreakpoints)+2)
	bounds = append(bounds, 0)
	for _, bp := range hrBreakpoints {
		bounds = append(bounds, math.Round(lthr*bp))
	}
	bounds = append(bounds, math.Round(lthr*1.20))

	zones := make([]Zone, len(hrZoneNames))
	for i := range hrZoneNames {
		zones[i] = Zone{
			Zone:        i + 1,
			Name:        hrZoneNames[i],
			Min:         bounds[i],
			Max:         bounds[i+1],
			Description: hrZoneDescriptions[i],
		}
	}
	return zones, nil
}

// CalculatePowerZones maps an FTP (watts) onto the 7-zone Coggan model.
// Bounds are rounded to whole watts; zone 7 is capped at 200% FTP.
func CalculatePowerZones(ftp float64) ([]Zone, error) {
	if ftp <= 0 {
		return nil, fmt.Errorf("%w: ftp %.1f", ErrInvalidThreshold, ftp)
	}

	bounds := make([]float64, 0, len(powerBreakpoints)+2)
	bounds = append(bounds, 0)
	for _, bp := range powerBreakpoints {
		bounds = append(bounds, math.Round(ftp*bp))
	}
	bounds = append(bounds, math.Round(ftp*2.00))

	zones := make([]Zone, len(powerZoneNames))
	for i := range powerZoneNames {
		zones[i] = Zone{
			Zone:        i + 1,
			Name:        powerZoneNames[i],
			Min:         bounds[i],
			Max:         bounds[i+1],
			Description: powerZoneDescriptions[i],
		}
	}
	return zones, nil
}

// CalculatePaceZones maps a running threshold speed (m/s) onto the
// 6-zone model. Bounds stay in m/s; each description carries the
// human-readable min/km pace of the zone ceiling.
func CalculatePaceZones(thresholdPace float64) ([]Zone, error) {
	if thresholdPace <= 0 {
		return nil, fmt.Errorf("%w: threshold pace %.3f", ErrInvalidThreshold, thresholdPace)
	}

	zones := make([]Zone, len(paceZoneNames))
	for i := range paceZoneNames {
		minSpeed := units.Round3(thresholdPace * paceBreakpoints[i])
		maxSpeed := units.Round3(thresholdPace * paceBreakpoints[i+1])
		zones[i] = Zone{
			Zone: i + 1,
			Name: paceZoneNames[i],
			Min:  minSpeed,
			Max:  maxSpeed,
			Description: fmt.Sprintf(
				"%s - %s min/km",
				units.PaceMinPerKm(maxSpeed), units.PaceMinPerKm(minSpeed),
			),
		}
	}
	return zones, nil
}

// CalculateSwimZones maps a CSS speed (m/s) onto the 5-zone swim model.
// Descriptions carry pace per 100m; note the faster zone has the LOWER
// pace string even though its ordinal and speed bounds are higher.
func CalculateSwimZones(css float64) ([]Zone, error) {
	if css <= 0 {
		return nil, fmt.Errorf("%w: css %.3f", ErrInvalidThreshold, css)
	}

	zones := make([]Zone, len(swimZoneNames))
	for i := range swimZoneNames {
		minSpeed := units.Round3(css * swimBreakpoints[i])
		maxSpeed := units.Round3(css * swimBreakpoints[i+1])
		zones[i] = Zone{
			Zone: i + 1,
			Name: swimZoneNames[i],
			Min:  minSpeed,
			Max:  maxSpeed,
			Description: fmt.Sprintf(
				"%s - %s /100m",
				units.PacePer100m(maxSpeed), units.PacePer100m(minSpeed),
			),
		}
	}
	return zones, nil
}
