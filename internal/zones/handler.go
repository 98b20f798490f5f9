package zones

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/tripeak/tripeak/internal/activity"
	"github.com/tripeak/tripeak/internal/telemetry/tracing"
	"github.com/tripeak/tripeak/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=handler.go -destination=handler_mocks_test.go -package=zones_test

type activityStore interface {
	Get(ctx context.Context, id int) (*activity.Activity, error)
	ListSamples(ctx context.Context, activityID int) ([]activity.Sample, error)
}

const defaultLookbackDays = 90

type Handler struct {
	service    *Service
	detector   *Detector
	activities activityStore
}

func NewHandler(service *Service, detector *Detector, activities activityStore) *Handler {
	return &Handler{
		service:    service,
		detector:   detector,
		activities: activities,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/zones/user/{userId}", handler.HandleUserZones).
		Methods("GET", "OPTIONS").Name("user-zones")
	router.HandleFunc("/zones/hr/{lthr}", handler.HandleHRZones).
		Methods("GET", "OPTIONS").Name("hr-zones")
	router.HandleFunc("/zones/power/{ftp}", handler.HandlePowerZones).
		Methods("GET", "OPTIONS").Name("power-zones")
	router.HandleFunc("/zones/pace/{pace}", handler.HandlePaceZones).
		Methods("GET", "OPTIONS").Name("pace-zones")
	router.HandleFunc("/zones/swim/{css}", handler.HandleSwimZones).
		Methods("GET", "OPTIONS").Name("swim-zones")
	router.HandleFunc("/zones/detect/{userId}/{sport}", handler.HandleDetectThreshold).
		Methods("GET", "OPTIONS").Name("detect-threshold")
	router.HandleFunc("/activities/{id}/timeinzones", handler.HandleTimeInZones).
		Methods("GET", "OPTIONS").Name("time-in-zones")
}

func (handler *Handler) HandleUserZones(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.zones.user")
	defer span.End()

	userID, err := strconv.Atoi(mux.Vars(r)["userId"])
	if err != nil {
		http.Error(w, "error, user id NaN", http.StatusBadRequest)
		return
	}

	pkg.WriteDataResponse(w, handler.service.UserZones(ctx, userID))
}

func (handler *Handler) HandleHRZones(w http.ResponseWriter, r *http.Request) {
	handler.handleThresholdZones(w, r, "lthr", CalculateHRZones)
}

func (handler *Handler) HandlePowerZones(w http.ResponseWriter, r *http.Request) {
	handler.handleThresholdZones(w, r, "ftp", CalculatePowerZones)
}

func (handler *Handler) HandlePaceZones(w http.ResponseWriter, r *http.Request) {
	handler.handleThresholdZones(w, r, "pace", CalculatePaceZones)
}

func (handler *Handler) HandleSwimZones(w http.ResponseWriter, r *http.Request) {
	handler.handleThresholdZones(w, r, "css", CalculateSwimZones)
}

func (handler *Handler) handleThresholdZones(
	w http.ResponseWriter,
	r *http.Request,
	pathVar string,
	calculate func(float64) ([]Zone, error),
) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.zones."+pathVar)
	defer span.End()

	threshold, err := strconv.ParseFloat(mux.Vars(r)[pathVar], 64)
	if err != nil {
		http.Error(w, "error, threshold NaN", http.StatusBadRequest)
		return
	}

	zoneList, err := calculate(threshold)
	if err != nil {
		if errors.Is(err, ErrInvalidThreshold) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Errorf("calculate %s zones: %s", pathVar, err)
		http.Error(w, "failed to calculate zones", http.StatusInternalServerError)
		return
	}

	pkg.WriteDataResponse(w, zoneList)
}

func (handler *Handler) HandleDetectThreshold(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.zones.detect")
	defer span.End()

	vars := mux.Vars(r)
	userID, err := strconv.Atoi(vars["userId"])
	if err != nil {
		http.Error(w, "error, user id NaN", http.StatusBadRequest)
		return
	}
	sport := activity.SportType(vars["sport"])

	lookbackDays := defaultLookbackDays
	if lookbackParam := r.URL.Query().Get("lookbackDays"); lookbackParam != "" {
		lookbackDays, err = strconv.Atoi(lookbackParam)
		if err != nil || lookbackDays <= 0 {
			http.Error(w, "error, invalid lookbackDays", http.StatusBadRequest)
			return
		}
	}

	detection, err := handler.detector.DetectThreshold(ctx, userID, sport, lookbackDays)
	if err != nil {
		log.Errorf("detect threshold for user %d, sport %s: %s", userID, sport, err)
		http.Error(w, "threshold detection failed", http.StatusInternalServerError)
		return
	}
	if detection == nil {
		pkg.WriteNoDataResponse(w, "no qualifying activities in the lookback window")
		return
	}

	pkg.WriteDataResponse(w, detection)
}

func (handler *Handler) HandleTimeInZones(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.zones.timeInZones")
	defer span.End()

	activityID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, activity id NaN", http.StatusBadRequest)
		return
	}

	metric := Metric(r.URL.Query().Get("metric"))
	switch metric {
	case MetricHeartRate, MetricPower, MetricSpeed:
	default:
		http.Error(w, "error, metric must be heartRate, power or speed", http.StatusBadRequest)
		return
	}

	a, err := handler.activities.Get(ctx, activityID)
	if err != nil {
		if errors.Is(err, activity.ErrActivityNotFound) {
			http.Error(w, "activity not found", http.StatusNotFound)
			return
		}
		log.Errorf("time in zones, get activity %d: %s", activityID, err)
		http.Error(w, "failed to load activity", http.StatusInternalServerError)
		return
	}

	zoneList := handler.zonesForMetric(ctx, a, metric)
	if zoneList == nil {
		pkg.WriteNoDataResponse(w, "no threshold set for this metric")
		return
	}

	samples, err := handler.activities.ListSamples(ctx, activityID)
	if err != nil {
		log.Warnf("time in zones, list samples for activity %d: %s", activityID, err)
		samples = nil
	}
	if len(samples) == 0 {
		pkg.WriteNoDataResponse(w, "no samples recorded for this activity")
		return
	}

	pkg.WriteDataResponse(w, TimeInZones(samples, zoneList, metric))
}

func (handler *Handler) zonesForMetric(
	ctx context.Context,
	a *activity.Activity,
	metric Metric,
) []Zone {
	userZones := handler.service.UserZones(ctx, a.UserID)
	switch metric {
	case MetricHeartRate:
		return userZones.HR
	case MetricPower:
		return userZones.Power
	case MetricSpeed:
		if a.Sport == activity.SportSwim {
			return userZones.Swim
		}
		return userZones.Pace
	default:
		return nil
	}
}
