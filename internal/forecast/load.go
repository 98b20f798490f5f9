package forecast

import (
	"math"

	"github.com/tripeak/tripeak/internal/activity"
)

// Banister TRIMP constants. The 0.64 scale and the 1.92 exponent are
// the male-calibrated empirical values; heart rate reserve bounds
// default to common adult endurance values when no profile data exists.
const (
	defaultRestHR = 60.0
	defaultMaxHR  = 190.0

	trimpScale    = 0.64
	trimpExponent = 1.92

	// recording gaps longer than this contribute no load
	maxSampleGapMinutes = 10.0
)

// LoadCalculator turns heart rate data into TRIMP training load.
type LoadCalculator struct {
	RestHR float64
	MaxHR  float64
}

func NewLoadCalculator() *LoadCalculator {
	return &LoadCalculator{
		RestHR: defaultRestHR,
		MaxHR:  defaultMaxHR,
	}
}

// TRIMPFromSamples integrates Banister TRIMP over the recorded HR
// stream: Δt_min · hrr · 0.64 · e^(1.92·hrr) per sample, with hrr
// clamped to [0,1]. Samples without HR and gaps over ten minutes are
// dropped. Returns 0 when no usable pair of samples exists.
func (lc *LoadCalculator) TRIMPFromSamples(samples []activity.Sample) float64 {
	hrRange := lc.MaxHR - lc.RestHR
	if hrRange <= 0 {
		return 0
	}

	var total float64
	var hasLast bool
	var last activity.Sample
	for _, s := range samples {
		if s.HeartRate == nil || *s.HeartRate <= 0 {
			continue
		}
		if !hasLast {
			last, hasLast = s, true
			continue
		}

		deltaMinutes := s.Timestamp.Sub(last.Timestamp).Minutes()
		last = s
		if deltaMinutes <= 0 || deltaMinutes > maxSampleGapMinutes {
			continue
		}

		hrr := lc.reserveRatio(*s.HeartRate)
		total += deltaMinutes * hrr * trimpScale * math.Exp(trimpExponent*hrr)
	}
	return total
}

// TRIMPFromSummary approximates TRIMP from the activity aggregates,
// for activities ingested without a sample stream.
func (lc *LoadCalculator) TRIMPFromSummary(movingTimeSec float64, avgHR float64) float64 {
	if lc.MaxHR-lc.RestHR <= 0 || movingTimeSec <= 0 || avgHR <= 0 {
		return 0
	}
	hrr := lc.reserveRatio(avgHR)
	return movingTimeSec / 60 * hrr * trimpScale * math.Exp(trimpExponent*hrr)
}

func (lc *LoadCalculator) reserveRatio(hr float64) float64 {
	hrr := (hr - lc.RestHR) / (lc.MaxHR - lc.RestHR)
	if hrr < 0 {
		return 0
	}
	if hrr > 1 {
		return 1
	}
	return hrr
}
