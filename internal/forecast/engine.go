package forecast

import (
	"context"
	"time"

	"github.com/tripeak/tripeak/internal/activity"
	"github.com/tripeak/tripeak/internal/telemetry/tracing"
	"github.com/tripeak/tripeak/internal/units"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=engine.go -destination=engine_mocks_test.go -package=forecast_test

type activityRepo interface {
	List(ctx context.Context, params activity.ListParams) ([]activity.Activity, error)
	ListSamples(ctx context.Context, activityID int) ([]activity.Sample, error)
}

// EMA decay constants of the classic performance-management model:
// fitness is a 42-day time constant, fatigue a 7-day one.
const (
	ctlDecay = 2.0 / (42.0 + 1.0)
	atlDecay = 2.0 / (7.0 + 1.0)
)

type FitnessPoint struct {
	Date time.Time `json:"date"`
	Load float64   `json:"load"`
	CTL  float64   `json:"ctl"`
	ATL  float64   `json:"atl"`
	TSB  float64   `json:"tsb"`
}

type Fitness struct {
	CTL    float64        `json:"ctl"`
	ATL    float64        `json:"atl"`
	TSB    float64        `json:"tsb"`
	Form   string         `json:"form"`
	Series []FitnessPoint `json:"series"`
}

type Engine struct {
	repo activityRepo
	load *LoadCalculator
}

func NewEngine(repo activityRepo, load *LoadCalculator) *Engine {
	return &Engine{
		repo: repo,
		load: load,
	}
}

// CurrentFitness propagates CTL/ATL/TSB from the first activity day of
// the window through today, zero-filling days without training. The
// EMAs are seeded at 0, so early values underestimate an athlete with
// history before the window. Returns nil when the window has no
// activities with heart rate data.
func (e *Engine) CurrentFitness(ctx context.Context, userID int, days int) (_ *Fitness, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "forecast.currentFitness")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user_id", userID))
	span.SetAttributes(attribute.Int("days", days))

	from := time.Now().AddDate(0, 0, -days)
	activities, err := e.repo.List(ctx, activity.ListParams{
		UserID:       userID,
		From:         &from,
		RequireAvgHR: true,
	})
	if err != nil {
		return nil, err
	}

	loadByDay := make(map[string]float64)
	var firstDay time.Time
	for i := range activities {
		trimp := e.activityTRIMP(ctx, &activities[i])
		if trimp <= 0 {
			continue
		}
		day := activities[i].StartedAt.Truncate(24 * time.Hour)
		if firstDay.IsZero() || day.Before(firstDay) {
			firstDay = day
		}
		loadByDay[day.Format("2006-01-02")] += trimp
	}
	if len(loadByDay) == 0 {
		return nil, nil
	}

	var series []FitnessPoint
	var ctl, atl float64
	today := time.Now().Truncate(24 * time.Hour)
	for d := firstDay; !d.After(today); d = d.AddDate(0, 0, 1) {
		load := loadByDay[d.Format("2006-01-02")]
		ctl += ctlDecay * (load - ctl)
		atl += atlDecay * (load - atl)
		series = append(series, FitnessPoint{
			Date: d,
			Load: units.Round1(load),
			CTL:  units.Round1(ctl),
			ATL:  units.Round1(atl),
			TSB:  units.Round1(ctl - atl),
		})
	}

	current := series[len(series)-1]
	return &Fitness{
		CTL:    current.CTL,
		ATL:    current.ATL,
		TSB:    current.TSB,
		Form:   FormDescription(current.TSB),
		Series: series,
	}, nil
}

// activityTRIMP prefers the recorded HR stream and falls back to the
// summary aggregates. Sample-store failures degrade to the fallback.
func (e *Engine) activityTRIMP(ctx context.Context, a *activity.Activity) float64 {
	samples, err := e.repo.ListSamples(ctx, a.ID)
	if err != nil {
		log.Warnf("training load, list samples for activity %d: %s", a.ID, err)
		samples = nil
	}
	if len(samples) > 0 {
		if trimp := e.load.TRIMPFromSamples(samples); trimp > 0 {
			return trimp
		}
	}
	if a.AvgHeartRate == nil {
		return 0
	}
	return e.load.TRIMPFromSummary(float64(a.MovingTimeSec), *a.AvgHeartRate)
}

// Project rolls the model forward from a known CTL/ATL over planned
// daily loads. Pure function of its inputs; day one is tomorrow
// relative to startDate.
func Project(ctl, atl float64, plannedLoads []float64, startDate time.Time) []FitnessPoint {
	series := make([]FitnessPoint, 0, len(plannedLoads))
	day := startDate.Truncate(24 * time.Hour)
	for _, load := range plannedLoads {
		if load < 0 {
			load = 0
		}
		day = day.AddDate(0, 0, 1)
		ctl += ctlDecay * (load - ctl)
		atl += atlDecay * (load - atl)
		series = append(series, FitnessPoint{
			Date: day,
			Load: units.Round1(load),
			CTL:  units.Round1(ctl),
			ATL:  units.Round1(atl),
			TSB:  units.Round1(ctl - atl),
		})
	}
	return series
}

// FormDescription maps TSB onto the usual coaching vocabulary.
func FormDescription(tsb float64) string {
	switch {
	case tsb > 25:
		return "Very fresh (possibly detrained)"
	case tsb > 10:
		return "Fresh and ready to race"
	case tsb > 0:
		return "Neutral - good for training"
	case tsb > -10:
		return "Slightly fatigued"
	case tsb > -25:
		return "Tired but building fitness"
	default:
		return "Very fatigued - rest needed"
	}
}
