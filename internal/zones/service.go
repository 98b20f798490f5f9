package zones

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tripeak/tripeak/internal/profile"
	"github.com/tripeak/tripeak/internal/telemetry/metrics"
	"github.com/tripeak/tripeak/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=service.go -destination=service_mocks_test.go -package=zones_test

type profileGetter interface {
	Get(ctx context.Context, userID int) (*profile.Profile, error)
}

// UserZones bundles all four zone families. A family is null when the
// profile has no threshold for it.
type UserZones struct {
	HR    []Zone `json:"hr"`
	Power []Zone `json:"power"`
	Pace  []Zone `json:"pace"`
	Swim  []Zone `json:"swim"`
}

const zoneCacheSizeBytes = 512 * 1024

type Service struct {
	profiles profileGetter
	// zone tables are pure functions of a single threshold, so they are
	// cached in-process keyed by family + threshold value
	zoneCache      *freecache.Cache
	metricsManager *metrics.Manager
}

func NewService(profiles profileGetter, metricsManager *metrics.Manager) *Service {
	return &Service{
		profiles:       profiles,
		zoneCache:      freecache.NewCache(zoneCacheSizeBytes),
		metricsManager: metricsManager,
	}
}

// UserZones returns every computable zone family for the user. Fails
// soft: a profile load error yields all-null zones, never an error.
func (s *Service) UserZones(ctx context.Context, userID int) UserZones {
	ctx, span := tracing.GlobalTracer.Start(ctx, "zones.userZones")
	defer span.End()
	span.SetAttributes(attribute.Int("user_id", userID))

	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		log.Warnf("user zones, load profile for user %d: %s", userID, err)
		return UserZones{}
	}

	var uz UserZones
	if p.LTHR != nil {
		uz.HR = s.cachedZones("hr", *p.LTHR, CalculateHRZones)
	}
	if p.FTP != nil {
		uz.Power = s.cachedZones("power", *p.FTP, CalculatePowerZones)
	}
	if p.ThresholdPace != nil {
		uz.Pace = s.cachedZones("pace", *p.ThresholdPace, CalculatePaceZones)
	}
	if p.CSS != nil {
		uz.Swim = s.cachedZones("swim", *p.CSS, CalculateSwimZones)
	}
	return uz
}

func (s *Service) cachedZones(
	family string,
	threshold float64,
	calculate func(float64) ([]Zone, error),
) []Zone {
	key := []byte(fmt.Sprintf("zones::%s::%.3f", family, threshold))

	if cached, err := s.zoneCache.Get(key); err == nil {
		var zoneList []Zone
		if err := json.Unmarshal(cached, &zoneList); err == nil {
			if s.metricsManager != nil {
				s.metricsManager.CounterCacheHits.Inc()
			}
			return zoneList
		}
		log.Warnf("unmarshal cached %s zones: %s", family, err)
	}
	if s.metricsManager != nil {
		s.metricsManager.CounterCacheMisses.Inc()
	}

	zoneList, err := calculate(threshold)
	if err != nil {
		// stored thresholds are validated on write, treat as absent
		log.Warnf("compute %s zones for stored threshold %.3f: %s", family, threshold, err)
		return nil
	}
	if s.metricsManager != nil {
		s.metricsManager.CounterZoneComputations.WithLabelValues(family).Inc()
	}

	if zonesBytes, err := json.Marshal(zoneList); err == nil {
		if err := s.zoneCache.Set(key, zonesBytes, 0); err != nil {
			log.Tracef("cache %s zones: %s", family, err)
		}
	}
	return zoneList
}
