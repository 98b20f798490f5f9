package zones

import (
	"context"
	"math"
	"time"

	"github.com/tripeak/tripeak/internal/activity"
	"github.com/tripeak/tripeak/internal/telemetry/tracing"
	"github.com/tripeak/tripeak/internal/units"

	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=detector.go -destination=detector_mocks_test.go -package=zones_test

type activityLister interface {
	List(ctx context.Context, params activity.ListParams) ([]activity.Activity, error)
}

// Detection is a best-effort threshold estimate scanned out of recent
// history. It is never written to the profile without user confirmation.
type Detection struct {
	Sport      activity.SportType `json:"sport"`
	Threshold  float64            `json:"threshold"`
	Unit       string             `json:"unit"`
	SampleSize int                `json:"sampleSize"`
	Confidence float64            `json:"confidence"`
}

const minDetectionMovingTimeSec = 1200

type Detector struct {
	repo activityLister
}

func NewDetector(repo activityLister) *Detector {
	return &Detector{
		repo: repo,
	}
}

// DetectThreshold scans the lookback window for threshold-quality efforts.
// Heuristic estimator, not a guaranteed-optimal fit: it takes the best
// qualifying effort per sport and applies a fixed correction. Returns nil
// when no qualifying activity exists.
func (d *Detector) DetectThreshold(
	ctx context.Context,
	userID int,
	sport activity.SportType,
	lookbackDays int,
) (_ *Detection, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "zones.detectThreshold")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user_id", userID))
	span.SetAttributes(attribute.String("sport", string(sport)))
	span.SetAttributes(attribute.Int("lookback_days", lookbackDays))

	from := time.Now().AddDate(0, 0, -lookbackDays)
	activities, err := d.repo.List(ctx, activity.ListParams{
		UserID:           userID,
		Sport:            sport,
		From:             &from,
		MinMovingTimeSec: minDetectionMovingTimeSec,
	})
	if err != nil {
		return nil, err
	}

	switch sport {
	case activity.SportBike:
		return detectFTP(activities), nil
	case activity.SportRun:
		return detectRunPace(activities), nil
	case activity.SportSwim:
		return detectSwimPace(activities), nil
	default:
		return nil, nil
	}
}

// detectFTP takes the best 20-minute peak power on record, falling back
// to the best normalized power when no peak-power field was ingested.
// Estimated FTP is 95% of that value.
func detectFTP(activities []activity.Activity) *Detection {
	var best float64
	count := 0
	for _, a := range activities {
		if a.PeakPower20Min != nil && *a.PeakPower20Min > 0 {
			count++
			if *a.PeakPower20Min > best {
				best = *a.PeakPower20Min
			}
		}
	}
	if best == 0 {
		for _, a := range activities {
			if a.NormalizedPower != nil && *a.NormalizedPower > 0 {
				count++
				if *a.NormalizedPower > best {
					best = *a.NormalizedPower
				}
			}
		}
	}
	if best == 0 {
		return nil
	}

	return &Detection{
		Sport:      activity.SportBike,
		Threshold:  math.Round(best * 0.95),
		Unit:       "watts",
		SampleSize: count,
		Confidence: detectionConfidence(count),
	}
}

// detectRunPace keeps tempo / time-trial workouts plus 30-60 minute
// efforts, and takes the best average speed among them.
func detectRunPace(activities []activity.Activity) *Detection {
	var best float64
	count := 0
	for _, a := range activities {
		qualifies := a.Workout == activity.WorkoutTempo ||
			a.Workout == activity.WorkoutTimeTrial ||
			(a.MovingTimeSec >= 1800 && a.MovingTimeSec <= 3600)
		if !qualifies || a.AvgSpeed == nil || *a.AvgSpeed <= 0 {
			continue
		}
		count++
		if *a.AvgSpeed > best {
			best = *a.AvgSpeed
		}
	}
	if best == 0 {
		return nil
	}

	return &Detection{
		Sport:      activity.SportRun,
		Threshold:  units.Round3(best),
		Unit:       "m/s",
		SampleSize: count,
		Confidence: detectionConfidence(count),
	}
}

// detectSwimPace keeps pool efforts of 400-1500m, the distance band where
// average speed approximates CSS, and takes the best one.
func detectSwimPace(activities []activity.Activity) *Detection {
	var best float64
	count := 0
	for _, a := range activities {
		if a.DistanceM == nil || *a.DistanceM < 400 || *a.DistanceM > 1500 {
			continue
		}
		if a.AvgSpeed == nil || *a.AvgSpeed <= 0 {
			continue
		}
		count++
		if *a.AvgSpeed > best {
			best = *a.AvgSpeed
		}
	}
	if best == 0 {
		return nil
	}

	return &Detection{
		Sport:      activity.SportSwim,
		Threshold:  units.Round3(best),
		Unit:       "m/s",
		SampleSize: count,
		Confidence: detectionConfidence(count),
	}
}

// detectionConfidence steps up with the number of qualifying efforts.
func detectionConfidence(sampleSize int) float64 {
	switch {
	case sampleSize >= 5:
		return 0.9
	case sampleSize >= 3:
		return 0.7
	default:
		return 0.5
	}
}
