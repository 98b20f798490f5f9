package zones

import (
	"github.com/tripeak/tripeak/internal/activity"
	"github.com/tripeak/tripeak/internal/units"
)

// Metric selects which sample signal gets bucketed.
type Metric string

const (
	MetricHeartRate Metric = "heartRate"
	MetricPower     Metric = "power"
	MetricSpeed     Metric = "speed"
)

type TimeInZone struct {
	Zone    int     `json:"zone"`
	Name    string  `json:"name"`
	Seconds int     `json:"seconds"`
	Percent float64 `json:"percent"`
}

// TimeInZones buckets samples into the given zone list. A sample counts
// for the zone where value ∈ [min, max); the top zone is open-ended.
// Samples with a missing or non-positive value are excluded from both the
// numerator and the total. Each valid sample counts as one second,
// assuming uniform 1 Hz sampling; with irregular sample intervals this
// misweights zones, a long-standing approximation kept on purpose.
func TimeInZones(samples []activity.Sample, zoneList []Zone, metric Metric) []TimeInZone {
	result := make([]TimeInZone, len(zoneList))
	for i, z := range zoneList {
		result[i] = TimeInZone{Zone: z.Zone, Name: z.Name}
	}
	if len(zoneList) == 0 {
		return result
	}

	total := 0
	for _, s := range samples {
		value := sampleValue(s, metric)
		if value == nil || *value <= 0 {
			continue
		}
		total++
		for i, z := range zoneList {
			lastZone := i == len(zoneList)-1
			if (*value >= z.Min && *value < z.Max) || (lastZone && *value >= z.Max) {
				result[i].Seconds++
				break
			}
		}
	}

	if total == 0 {
		return result
	}

	for i := range result {
		result[i].Percent = units.Round1(float64(result[i].Seconds) / float64(total) * 100)
	}
	return result
}

func sampleValue(s activity.Sample, metric Metric) *float64 {
	switch metric {
	case MetricHeartRate:
		return s.HeartRate
	case MetricPower:
		return s.Power
	case MetricSpeed:
		return s.Speed
	default:
		return nil
	}
}
