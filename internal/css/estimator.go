package css

import (
	"context"
	"sort"
	"time"

	"github.com/tripeak/tripeak/internal/activity"
	"github.com/tripeak/tripeak/internal/telemetry/tracing"
	"github.com/tripeak/tripeak/internal/units"

	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=estimator.go -destination=estimator_mocks_test.go -package=css_test

type activityLister interface {
	List(ctx context.Context, params activity.ListParams) ([]activity.Activity, error)
}

// Estimate is a confidence-scored CSS guess from unstructured swim
// history, as opposed to the deterministic two-trial Result.
type Estimate struct {
	CSS        float64 `json:"css"`
	PacePer100 string  `json:"pacePer100"`
	SampleSize int     `json:"sampleSize"`
	Confidence float64 `json:"confidence"`
	Refined    bool    `json:"refined"`
}

const (
	estimateLookbackDays = 90
	estimateMaxSwims     = 10
	estimateMinDistanceM = 400
	estimateMaxDistanceM = 1500
	// average pace over a full swim runs a bit slower than CSS
	cssToBestPaceRatio = 0.93
)

type Estimator struct {
	repo activityLister
}

func NewEstimator(repo activityLister) *Estimator {
	return &Estimator{
		repo: repo,
	}
}

// EstimateFromHistory guesses CSS from the fastest recent swims in the
// 400-1500m band. With three or more the top three are averaged for a
// refined estimate; with fewer the single best is used. Returns nil
// when no qualifying swim exists.
func (e *Estimator) EstimateFromHistory(ctx context.Context, userID int) (_ *Estimate, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "css.estimateFromHistory")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user_id", userID))

	from := time.Now().AddDate(0, 0, -estimateLookbackDays)
	minDist, maxDist := float64(estimateMinDistanceM), float64(estimateMaxDistanceM)
	activities, err := e.repo.List(ctx, activity.ListParams{
		UserID:       userID,
		Sport:        activity.SportSwim,
		From:         &from,
		MinDistanceM: &minDist,
		MaxDistanceM: &maxDist,
	})
	if err != nil {
		return nil, err
	}

	speeds := make([]float64, 0, len(activities))
	for _, a := range activities {
		if a.AvgSpeed != nil && *a.AvgSpeed > 0 {
			speeds = append(speeds, *a.AvgSpeed)
		}
	}
	if len(speeds) == 0 {
		return nil, nil
	}

	sort.Sort(sort.Reverse(sort.Float64Slice(speeds)))
	if len(speeds) > estimateMaxSwims {
		speeds = speeds[:estimateMaxSwims]
	}

	refined := len(speeds) >= 3
	basis := speeds[0]
	if refined {
		basis = (speeds[0] + speeds[1] + speeds[2]) / 3
	}
	css := basis * cssToBestPaceRatio

	return &Estimate{
		CSS:        units.Round3(css),
		PacePer100: units.FormatPace(100 / css),
		SampleSize: len(speeds),
		Confidence: estimateConfidence(len(speeds)),
		Refined:    refined,
	}, nil
}

func estimateConfidence(sampleSize int) float64 {
	switch {
	case sampleSize >= 5:
		return 0.7
	case sampleSize >= 3:
		return 0.6
	default:
		return 0.5
	}
}
