package css

import (
	"errors"
	"fmt"

	"github.com/tripeak/tripeak/internal/units"
	"github.com/tripeak/tripeak/internal/zones"
)

// ErrInvalidInput marks a malformed time-trial pair or threshold, a
// caller error as opposed to "not enough data".
var ErrInvalidInput = errors.New("invalid input")

// Result is the full two-trial critical swim speed model output.
type Result struct {
	CSS             float64          `json:"css"`
	PacePer100Sec   float64          `json:"pacePer100Sec"`
	PacePer100      string           `json:"pacePer100"`
	Predicted750    RacePrediction   `json:"predicted750"`
	Predicted1500   RacePrediction   `json:"predicted1500"`
	TrainingPaces   []TrainingPace   `json:"trainingPaces"`
	RacePredictions []RacePrediction `json:"racePredictions"`
	Zones           []PaceZone       `json:"zones"`
}

type RacePrediction struct {
	DistanceM int     `json:"distanceM"`
	TimeSec   float64 `json:"timeSec"`
	Time      string  `json:"time"`
}

type TrainingPace struct {
	Name       string  `json:"name"`
	Percent    float64 `json:"percent"`
	Speed      float64 `json:"speed"`
	PacePer100 string  `json:"pacePer100"`
}

// PaceZone mirrors a swim zone with its bounds expressed as pace per
// 100m. Ordinals ascend with speed, so the faster bound is the lower
// pace value.
type PaceZone struct {
	Zone        int     `json:"zone"`
	Name        string  `json:"name"`
	MinSpeed    float64 `json:"minSpeed"`
	MaxSpeed    float64 `json:"maxSpeed"`
	FastPaceSec float64 `json:"fastPaceSec"`
	SlowPaceSec float64 `json:"slowPaceSec"`
	FastPace    string  `json:"fastPace"`
	SlowPace    string  `json:"slowPace"`
}

// Race-time corrections on CSS speed. Short races are swum faster than
// CSS, long open-water races slower; empirical constants, not derived
// from the two-point model.
var raceCorrections = []struct {
	distanceM  int
	correction float64
}{
	{400, 0.03},
	{750, 0},
	{1500, -0.02},
	{1900, -0.03},
	{3800, -0.05},
}

var trainingPaceDefs = []struct {
	name    string
	percent float64
}{
	{"recovery", 0.80},
	{"endurance", 0.88},
	{"tempo", 0.95},
	{"threshold", 1.00},
	{"interval", 1.05},
	{"sprint", 1.15},
}

// Calculate fits the two-point critical speed model: CSS is the slope
// of the distance-time line through the 200m and 400m trials. The
// 750m/1500m point estimates inflate the linear prediction for pacing
// losses at distance.
func Calculate(t400s, t200s float64) (*Result, error) {
	if t400s <= 0 || t200s <= 0 {
		return nil, fmt.Errorf("%w: trial times must be positive", ErrInvalidInput)
	}
	if t400s <= t200s {
		return nil, fmt.Errorf("%w: 400m time must exceed 200m time", ErrInvalidInput)
	}

	css := (400 - 200) / (t400s - t200s)
	pace100 := 100 / css

	return &Result{
		CSS:             units.Round3(css),
		PacePer100Sec:   units.Round1(pace100),
		PacePer100:      units.FormatPace(pace100),
		Predicted750:    prediction(750, 750/css*1.02),
		Predicted1500:   prediction(1500, 1500/css*1.03),
		TrainingPaces:   TrainingPaces(css),
		RacePredictions: PredictRaceTimes(css),
		Zones:           SwimZones(pace100),
	}, nil
}

func prediction(distanceM int, timeSec float64) RacePrediction {
	return RacePrediction{
		DistanceM: distanceM,
		TimeSec:   units.Round1(timeSec),
		Time:      units.FormatRaceTime(timeSec),
	}
}

// TrainingPaces expands CSS into the six named training efforts.
func TrainingPaces(css float64) []TrainingPace {
	paces := make([]TrainingPace, 0, len(trainingPaceDefs))
	for _, def := range trainingPaceDefs {
		speed := css * def.percent
		paces = append(paces, TrainingPace{
			Name:       def.name,
			Percent:    def.percent * 100,
			Speed:      units.Round3(speed),
			PacePer100: units.FormatPace(100 / speed),
		})
	}
	return paces
}

// PredictRaceTimes applies the per-distance corrections to CSS speed.
func PredictRaceTimes(css float64) []RacePrediction {
	predictions := make([]RacePrediction, 0, len(raceCorrections))
	for _, rc := range raceCorrections {
		speed := css * (1 + rc.correction)
		predictions = append(predictions, prediction(rc.distanceM, float64(rc.distanceM)/speed))
	}
	return predictions
}

// SwimZones builds the swim zone table from a CSS pace per 100m,
// attaching both pace bounds to each speed band. The open-ended bounds
// (zone 1 floor, top zone ceiling) have no finite pace and render "-".
func SwimZones(cssPace100s float64) []PaceZone {
	if cssPace100s <= 0 {
		return nil
	}

	speedZones, err := zones.CalculateSwimZones(100 / cssPace100s)
	if err != nil {
		return nil
	}

	paceZones := make([]PaceZone, 0, len(speedZones))
	for _, z := range speedZones {
		pz := PaceZone{
			Zone:     z.Zone,
			Name:     z.Name,
			MinSpeed: z.Min,
			MaxSpeed: z.Max,
			FastPace: "-",
			SlowPace: "-",
		}
		if z.Max > 0 {
			pz.FastPaceSec = units.Round1(100 / z.Max)
			pz.FastPace = units.FormatPace(100 / z.Max)
		}
		if z.Min > 0 {
			pz.SlowPaceSec = units.Round1(100 / z.Min)
			pz.SlowPace = units.FormatPace(100 / z.Min)
		}
		paceZones = append(paceZones, pz)
	}
	return paceZones
}
