package api

import (
	"net/http"
	"strconv"

	"github.com/clinicdesk/clinic-scheduling/internal/recommend"
	"github.com/clinicdesk/clinic-scheduling/internal/scheduling"
)

func recommendationsHandler(rec *recommend.Recommender) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		maxFee := 0.0
		if raw := q.Get("max_fee"); raw != "" {
			parsed, err := strconv.ParseFloat(raw, 64)
			if err != nil || parsed < 0 {
				writeError(w, http.StatusBadRequest, "invalid_max_fee", "max_fee must be a non-negative number")
				return
			}
			maxFee = parsed
		}

		providers, err := rec.Recommend(r.Context(), recommend.Request{
			Specialty: q.Get("specialty"),
			Symptoms:  q.Get("symptoms"),
			MaxFee:    maxFee,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		resp := make([]ProviderResponse, len(providers))
		for i, p := range providers {
			resp[i] = newProviderResponse(p)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func adminStatsHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Stats(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}

		byStatus := make(map[string]int64, len(stats.AppointmentsByStatus))
		for status, n := range stats.AppointmentsByStatus {
			byStatus[string(status)] = n
		}

		writeJSON(w, http.StatusOK, StatsResponse{
			ActiveProviders:      stats.ActiveProviders,
			AppointmentsByStatus: byStatus,
		})
	}
}
