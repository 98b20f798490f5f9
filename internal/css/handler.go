package css

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/tripeak/tripeak/internal/telemetry/tracing"
	"github.com/tripeak/tripeak/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service   *Service
	estimator *Estimator
}

func NewHandler(service *Service, estimator *Estimator) *Handler {
	return &Handler{
		service:   service,
		estimator: estimator,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/css/calculate", handler.HandleCalculate).
		Methods("POST", "OPTIONS").Name("css-calculate")
	router.HandleFunc("/css/estimate/{userId}", handler.HandleEstimate).
		Methods("GET", "OPTIONS").Name("css-estimate")
	router.HandleFunc("/css/user/{userId}", handler.HandleUpdateUserCSS).
		Methods("PUT", "OPTIONS").Name("css-update")
}

func (handler *Handler) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.css.calculate")
	defer span.End()

	var trials struct {
		T400s float64 `json:"t400s"`
		T200s float64 `json:"t200s"`
	}
	if err := json.NewDecoder(r.Body).Decode(&trials); err != nil {
		http.Error(w, "error, invalid request body", http.StatusBadRequest)
		return
	}

	result, err := Calculate(trials.T400s, trials.T200s)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Errorf("calculate css: %s", err)
		http.Error(w, "failed to calculate css", http.StatusInternalServerError)
		return
	}

	pkg.WriteDataResponse(w, result)
}

func (handler *Handler) HandleEstimate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.css.estimate")
	defer span.End()

	userID, err := strconv.Atoi(mux.Vars(r)["userId"])
	if err != nil {
		http.Error(w, "error, user id NaN", http.StatusBadRequest)
		return
	}

	estimate, err := handler.estimator.EstimateFromHistory(ctx, userID)
	if err != nil {
		log.Errorf("estimate css for user %d: %s", userID, err)
		http.Error(w, "css estimation failed", http.StatusInternalServerError)
		return
	}
	if estimate == nil {
		pkg.WriteNoDataResponse(w, "no qualifying swims in the last 90 days")
		return
	}

	pkg.WriteDataResponse(w, estimate)
}

func (handler *Handler) HandleUpdateUserCSS(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.css.update")
	defer span.End()

	userID, err := strconv.Atoi(mux.Vars(r)["userId"])
	if err != nil {
		http.Error(w, "error, user id NaN", http.StatusBadRequest)
		return
	}

	var body struct {
		CSS float64 `json:"css"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "error, invalid request body", http.StatusBadRequest)
		return
	}

	if err := handler.service.UpdateUserCSS(ctx, userID, body.CSS); err != nil {
		if errors.Is(err, ErrInvalidInput) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Errorf("update css for user %d: %s", userID, err)
		http.Error(w, "failed to update css", http.StatusInternalServerError)
		return
	}

	pkg.WriteDataResponse(w, map[string]float64{"css": body.CSS})
}
