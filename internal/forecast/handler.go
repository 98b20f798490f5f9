package forecast

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/tripeak/tripeak/internal/telemetry/tracing"
	"github.com/tripeak/tripeak/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const (
	defaultFitnessDays = 90
	maxProjectionDays  = 365
)

type Handler struct {
	engine *Engine
}

func NewHandler(engine *Engine) *Handler {
	return &Handler{
		engine: engine,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/forecast/fitness/{userId}", handler.HandleFitness).
		Methods("GET", "OPTIONS").Name("fitness")
	router.HandleFunc("/forecast/project/{userId}", handler.HandleProject).
		Methods("POST", "OPTIONS").Name("fitness-projection")
}

func (handler *Handler) HandleFitness(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.forecast.fitness")
	defer span.End()

	userID, err := strconv.Atoi(mux.Vars(r)["userId"])
	if err != nil {
		http.Error(w, "error, user id NaN", http.StatusBadRequest)
		return
	}

	days := defaultFitnessDays
	if daysParam := r.URL.Query().Get("days"); daysParam != "" {
		days, err = strconv.Atoi(daysParam)
		if err != nil || days <= 0 {
			http.Error(w, "error, invalid days", http.StatusBadRequest)
			return
		}
	}

	fitness, err := handler.engine.CurrentFitness(ctx, userID, days)
	if err != nil {
		log.Errorf("fitness for user %d: %s", userID, err)
		http.Error(w, "failed to compute fitness", http.StatusInternalServerError)
		return
	}
	if fitness == nil {
		pkg.WriteNoDataResponse(w, "no training load recorded in this window")
		return
	}

	pkg.WriteDataResponse(w, fitness)
}

func (handler *Handler) HandleProject(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.forecast.project")
	defer span.End()

	userID, err := strconv.Atoi(mux.Vars(r)["userId"])
	if err != nil {
		http.Error(w, "error, user id NaN", http.StatusBadRequest)
		return
	}

	var body struct {
		PlannedLoads []float64 `json:"plannedLoads"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "error, invalid request body", http.StatusBadRequest)
		return
	}
	if len(body.PlannedLoads) == 0 || len(body.PlannedLoads) > maxProjectionDays {
		http.Error(w, "error, plannedLoads must hold 1 to 365 days", http.StatusBadRequest)
		return
	}

	// projections continue from today's model state; with no training
	// history the athlete starts from a zero baseline
	var ctl, atl float64
	fitness, err := handler.engine.CurrentFitness(ctx, userID, defaultFitnessDays)
	if err != nil {
		log.Errorf("fitness baseline for user %d: %s", userID, err)
		http.Error(w, "failed to compute fitness baseline", http.StatusInternalServerError)
		return
	}
	if fitness != nil {
		ctl, atl = fitness.CTL, fitness.ATL
	}

	pkg.WriteDataResponse(w, Project(ctl, atl, body.PlannedLoads, time.Now()))
}
