package aerobic

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tripeak/tripeak/internal/activity"
	"github.com/tripeak/tripeak/internal/telemetry/metrics"
	"github.com/tripeak/tripeak/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=service.go -destination=service_mocks_test.go -package=aerobic_test

type activityStore interface {
	Get(ctx context.Context, id int) (*activity.Activity, error)
	UpdateDerived(ctx context.Context, id int, patch activity.DerivedPatch) error
}

// trendCacheTTL keeps trend responses warm without letting a stale
// trend outlive the day's new activities for long.
const trendCacheTTL = 10 * time.Minute

type Service struct {
	analyzer       *Analyzer
	activities     activityStore
	rdb            *redis.Client
	metricsManager *metrics.Manager
}

func NewService(
	analyzer *Analyzer,
	activities activityStore,
	rdb *redis.Client,
	metricsManager *metrics.Manager,
) *Service {
	return &Service{
		analyzer:       analyzer,
		activities:     activities,
		rdb:            rdb,
		metricsManager: metricsManager,
	}
}

// EFForActivity computes the activity's EF from summary fields. With
// store set, a positive result is cached back onto the activity row.
func (s *Service) EFForActivity(ctx context.Context, activityID int, store bool) (float64, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "aerobic.efForActivity")
	defer span.End()
	span.SetAttributes(attribute.Int("activity_id", activityID))

	a, err := s.activities.Get(ctx, activityID)
	if err != nil {
		return 0, err
	}

	ef := ActivityEF(a)
	if store && ef > 0 {
		s.storeDerived(ctx, activityID, activity.DerivedPatch{EfficiencyFactor: &ef})
	}
	return ef, nil
}

// DecouplingForActivity computes decoupling, optionally caching the
// scalar percentage onto the activity row. A nil result is never stored.
func (s *Service) DecouplingForActivity(
	ctx context.Context,
	activityID int,
	usePower bool,
	store bool,
) (*DecouplingResult, error) {
	result, err := s.analyzer.CalculateDecoupling(ctx, activityID, usePower)
	if err != nil {
		return nil, err
	}
	if store && result != nil {
		s.storeDerived(ctx, activityID, activity.DerivedPatch{Decoupling: &result.Decoupling})
	}
	return result, nil
}

// storeDerived is a caching write, best-effort on the read path: a
// failed store is logged and the computed result still returned.
func (s *Service) storeDerived(ctx context.Context, activityID int, patch activity.DerivedPatch) {
	if err := s.activities.UpdateDerived(ctx, activityID, patch); err != nil {
		log.Warnf("store derived metrics for activity %d: %s", activityID, err)
		return
	}
	if s.metricsManager != nil {
		s.metricsManager.CounterDerivedStores.Inc()
	}
}

// Trend serves the EF trend through a best-effort redis cache: a cache
// failure only costs a recomputation, never the result.
func (s *Service) Trend(
	ctx context.Context,
	userID int,
	sport activity.SportType,
	days int,
) (*TrendData, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "aerobic.trend")
	defer span.End()

	key := fmt.Sprintf("eftrend::%d::%s::%d", userID, sport, days)
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, key).Bytes()
		if err == nil {
			var trend TrendData
			if err := json.Unmarshal(cached, &trend); err == nil {
				if s.metricsManager != nil {
					s.metricsManager.CounterCacheHits.Inc()
				}
				return &trend, nil
			}
			log.Warnf("unmarshal cached ef trend [%s]: %s", key, err)
		} else if err != redis.Nil {
			log.Warnf("get cached ef trend [%s]: %s", key, err)
		}
		if s.metricsManager != nil {
			s.metricsManager.CounterCacheMisses.Inc()
		}
	}

	trend, err := s.analyzer.EFTrend(ctx, userID, sport, days)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if trendBytes, err := json.Marshal(trend); err == nil {
			if err := s.rdb.Set(ctx, key, trendBytes, trendCacheTTL).Err(); err != nil {
				log.Warnf("cache ef trend [%s]: %s", key, err)
			}
		}
	}
	return trend, nil
}
