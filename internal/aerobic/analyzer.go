package aerobic

import (
	"context"
	"time"

	"github.com/tripeak/tripeak/internal/activity"
	"github.com/tripeak/tripeak/internal/telemetry/tracing"
	"github.com/tripeak/tripeak/internal/units"

	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=analyzer.go -destination=analyzer_mocks_test.go -package=aerobic_test

type activityRepo interface {
	List(ctx context.Context, params activity.ListParams) ([]activity.Activity, error)
	ListSamples(ctx context.Context, activityID int) ([]activity.Sample, error)
}

// Signal names the sample stream a decoupling computation divided by HR.
type Signal string

const (
	SignalPower Signal = "power"
	SignalSpeed Signal = "speed"
)

// DecouplingResult is computed fresh per request. Only the scalar
// percentage is ever cached back onto the activity row.
type DecouplingResult struct {
	FirstHalfEF  float64 `json:"firstHalfEf"`
	SecondHalfEF float64 `json:"secondHalfEf"`
	Decoupling   float64 `json:"decoupling"`
	Rating       string  `json:"rating"`
	Signal       Signal  `json:"signal"`
}

type TrendPoint struct {
	ActivityID int       `json:"activityId"`
	Date       time.Time `json:"date"`
	EF         float64   `json:"ef"`
}

type TrendData struct {
	Points         []TrendPoint `json:"points"`
	AverageEF      float64      `json:"averageEf"`
	BestEF         *TrendPoint  `json:"bestEf"`
	TrendDirection string       `json:"trendDirection"`
	TrendPercent   float64      `json:"trendPercent"`
}

const (
	minDecouplingSamples        = 20
	minDecouplingSamplesPerHalf = 10
	minTrendMovingTimeSec       = 1800
	minTrendPointsForDirection  = 6
	trendBandPercent            = 3.0
)

// CalculateEfficiencyFactor relates aerobic output to heart cost. For
// BIKE the output is normalized power (watts); for RUN it is average
// speed in m/s, scaled to m/min. Returns 0 when avgHR is non-positive
// or the sport has no EF definition; callers must treat 0 as undefined.
func CalculateEfficiencyFactor(output, avgHR float64, sport activity.SportType) float64 {
	if avgHR <= 0 {
		return 0
	}
	switch sport {
	case activity.SportBike:
		return units.Round3(output / avgHR)
	case activity.SportRun:
		return units.Round3(output * 60 / avgHR)
	default:
		return 0
	}
}

// ActivityEF computes EF from an activity's summary fields, or 0 when
// the needed aggregates are missing.
func ActivityEF(a *activity.Activity) float64 {
	if a.AvgHeartRate == nil {
		return 0
	}
	switch a.Sport {
	case activity.SportBike:
		if a.NormalizedPower == nil {
			return 0
		}
		return CalculateEfficiencyFactor(*a.NormalizedPower, *a.AvgHeartRate, a.Sport)
	case activity.SportRun:
		if a.AvgSpeed == nil {
			return 0
		}
		return CalculateEfficiencyFactor(*a.AvgSpeed, *a.AvgHeartRate, a.Sport)
	default:
		return 0
	}
}

type Analyzer struct {
	repo activityRepo
}

func NewAnalyzer(repo activityRepo) *Analyzer {
	return &Analyzer{
		repo: repo,
	}
}

// CalculateDecoupling measures EF drift between the two halves of an
// activity. Needs at least 20 samples, and 10 valid ones per half; the
// first half takes the extra sample on odd counts. When the power
// signal cannot produce both halves it falls back to speed for both,
// never mixing signals across halves. Returns nil on insufficient data.
func (an *Analyzer) CalculateDecoupling(
	ctx context.Context,
	activityID int,
	usePower bool,
) (_ *DecouplingResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "aerobic.calculateDecoupling")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("activity_id", activityID))

	samples, err := an.repo.ListSamples(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if len(samples) < minDecouplingSamples {
		return nil, nil
	}

	mid := (len(samples) + 1) / 2
	firstHalf, secondHalf := samples[:mid], samples[mid:]

	signal := SignalSpeed
	if usePower {
		signal = SignalPower
	}

	firstEF, firstOK := halfEF(firstHalf, signal)
	secondEF, secondOK := halfEF(secondHalf, signal)
	if usePower && (!firstOK || !secondOK) {
		signal = SignalSpeed
		firstEF, firstOK = halfEF(firstHalf, signal)
		secondEF, secondOK = halfEF(secondHalf, signal)
	}
	if !firstOK || !secondOK {
		return nil, nil
	}

	decoupling := units.Round2((firstEF - secondEF) / firstEF * 100)
	return &DecouplingResult{
		FirstHalfEF:  units.Round3(firstEF),
		SecondHalfEF: units.Round3(secondEF),
		Decoupling:   decoupling,
		Rating:       decouplingRating(decoupling),
		Signal:       signal,
	}, nil
}

// halfEF averages the chosen signal over HR for samples carrying both.
// For speed the EF is scaled to m/min, matching CalculateEfficiencyFactor;
// the scale cancels out of the decoupling ratio either way.
func halfEF(samples []activity.Sample, signal Signal) (float64, bool) {
	var signalSum, hrSum float64
	valid := 0
	for _, s := range samples {
		if s.HeartRate == nil || *s.HeartRate <= 0 {
			continue
		}
		value := s.Power
		if signal == SignalSpeed {
			value = s.Speed
		}
		if value == nil || *value <= 0 {
			continue
		}
		signalSum += *value
		hrSum += *s.HeartRate
		valid++
	}
	if valid < minDecouplingSamplesPerHalf || hrSum <= 0 {
		return 0, false
	}

	ef := (signalSum / float64(valid)) / (hrSum / float64(valid))
	if signal == SignalSpeed {
		ef *= 60
	}
	return ef, true
}

func decouplingRating(decoupling float64) string {
	switch {
	case decoupling < 5:
		return "excellent"
	case decoupling < 7.5:
		return "good"
	case decoupling < 10:
		return "needs_work"
	default:
		return "deficient"
	}
}

// EFTrend aggregates per-activity EF over the window into a trend. A
// qualifying activity matches the sport, has an average HR, and moved
// for at least 30 minutes. Stored EF values are reused when present.
// With no qualifying points the zeroed stable default is returned, not
// an error.
func (an *Analyzer) EFTrend(
	ctx context.Context,
	userID int,
	sport activity.SportType,
	days int,
) (_ *TrendData, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "aerobic.efTrend")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user_id", userID))
	span.SetAttributes(attribute.String("sport", string(sport)))
	span.SetAttributes(attribute.Int("days", days))

	from := time.Now().AddDate(0, 0, -days)
	activities, err := an.repo.List(ctx, activity.ListParams{
		UserID:           userID,
		Sport:            sport,
		From:             &from,
		MinMovingTimeSec: minTrendMovingTimeSec,
		RequireAvgHR:     true,
	})
	if err != nil {
		return nil, err
	}

	points := make([]TrendPoint, 0, len(activities))
	for i := range activities {
		a := &activities[i]
		ef := 0.0
		if a.EfficiencyFactor != nil {
			ef = *a.EfficiencyFactor
		} else {
			ef = ActivityEF(a)
		}
		if ef <= 0 {
			continue
		}
		points = append(points, TrendPoint{
			ActivityID: a.ID,
			Date:       a.StartedAt,
			EF:         ef,
		})
	}

	trend := &TrendData{
		Points:         points,
		TrendDirection: "stable",
	}
	if len(points) == 0 {
		return trend, nil
	}

	var sum float64
	best := 0
	for i, p := range points {
		sum += p.EF
		// first occurrence wins ties, so earliest date is the best point
		if p.EF > points[best].EF {
			best = i
		}
	}
	trend.AverageEF = units.Round3(sum / float64(len(points)))
	trend.BestEF = &points[best]

	if len(points) >= minTrendPointsForDirection {
		third := len(points) / 3
		firstMean := meanEF(points[:third])
		lastMean := meanEF(points[len(points)-third:])
		trend.TrendPercent = units.Round1((lastMean - firstMean) / firstMean * 100)
		switch {
		case trend.TrendPercent > trendBandPercent:
			trend.TrendDirection = "improving"
		case trend.TrendPercent < -trendBandPercent:
			trend.TrendDirection = "declining"
		}
	}
	return trend, nil
}

func meanEF(points []TrendPoint) float64 {
	var sum float64
	for _, p := range points {
		sum += p.EF
	}
	return sum / float64(len(points))
}
