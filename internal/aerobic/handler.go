package aerobic

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/tripeak/tripeak/internal/activity"
	"github.com/tripeak/tripeak/internal/telemetry/tracing"
	"github.com/tripeak/tripeak/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const defaultTrendDays = 90

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/activities/{id}/ef", handler.HandleEF).
		Methods("GET", "OPTIONS").Name("activity-ef")
	router.HandleFunc("/activities/{id}/decoupling", handler.HandleDecoupling).
		Methods("GET", "OPTIONS").Name("activity-decoupling")
	router.HandleFunc("/aerobic/trend/{userId}/{sport}", handler.HandleTrend).
		Methods("GET", "OPTIONS").Name("ef-trend")
}

func (handler *Handler) HandleEF(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.aerobic.ef")
	defer span.End()

	activityID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, activity id NaN", http.StatusBadRequest)
		return
	}

	ef, err := handler.service.EFForActivity(ctx, activityID, storeRequested(r))
	if err != nil {
		if errors.Is(err, activity.ErrActivityNotFound) {
			http.Error(w, "activity not found", http.StatusNotFound)
			return
		}
		log.Errorf("efficiency factor for activity %d: %s", activityID, err)
		http.Error(w, "failed to compute efficiency factor", http.StatusInternalServerError)
		return
	}
	if ef == 0 {
		pkg.WriteNoDataResponse(w, "efficiency factor undefined for this activity")
		return
	}

	pkg.WriteDataResponse(w, map[string]float64{"efficiencyFactor": ef})
}

func (handler *Handler) HandleDecoupling(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.aerobic.decoupling")
	defer span.End()

	activityID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, activity id NaN", http.StatusBadRequest)
		return
	}
	usePower := r.URL.Query().Get("signal") != string(SignalSpeed)

	result, err := handler.service.DecouplingForActivity(ctx, activityID, usePower, storeRequested(r))
	if err != nil {
		log.Errorf("decoupling for activity %d: %s", activityID, err)
		http.Error(w, "failed to compute decoupling", http.StatusInternalServerError)
		return
	}
	if result == nil {
		pkg.WriteNoDataResponse(w, "not enough samples for decoupling analysis")
		return
	}

	pkg.WriteDataResponse(w, result)
}

func (handler *Handler) HandleTrend(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.aerobic.trend")
	defer span.End()

	vars := mux.Vars(r)
	userID, err := strconv.Atoi(vars["userId"])
	if err != nil {
		http.Error(w, "error, user id NaN", http.StatusBadRequest)
		return
	}
	sport := activity.SportType(vars["sport"])

	days := defaultTrendDays
	if daysParam := r.URL.Query().Get("days"); daysParam != "" {
		days, err = strconv.Atoi(daysParam)
		if err != nil || days <= 0 {
			http.Error(w, "error, invalid days", http.StatusBadRequest)
			return
		}
	}

	trend, err := handler.service.Trend(ctx, userID, sport, days)
	if err != nil {
		// trend is an aggregate over history, degrade instead of failing
		log.Warnf("ef trend for user %d, sport %s: %s", userID, sport, err)
		trend = &TrendData{Points: []TrendPoint{}, TrendDirection: "stable"}
	}

	pkg.WriteDataResponse(w, trend)
}

func storeRequested(r *http.Request) bool {
	store, err := strconv.ParseBool(r.URL.Query().Get("store"))
	return err == nil && store
}
