package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-scheduling/internal/interval"
	"github.com/clinicdesk/clinic-scheduling/internal/scheduling"
)

// providerIDParam parses the provider from the URL and enforces that a
// non-admin provider can only touch their own schedule. Mismatches read as
// not-found so callers cannot probe other providers' windows.
func providerIDParam(w http.ResponseWriter, r *http.Request, requireOwnership bool) (uuid.UUID, bool) {
	providerID, err := uuid.Parse(chi.URLParam(r, "providerID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_provider_id", "providerID must be a valid UUID")
		return uuid.Nil, false
	}

	if requireOwnership {
		actor, _ := ActorFrom(r.Context())
		if !actor.IsAdmin() && actor.ID != providerID {
			writeError(w, http.StatusNotFound, "not_found", scheduling.ErrProviderNotFound.Error())
			return uuid.Nil, false
		}
	}

	return providerID, true
}

func addWindowHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		providerID, ok := providerIDParam(w, r, true)
		if !ok {
			return
		}

		var req WindowRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		window, err := svc.AddWindow(r.Context(), providerID, req.Day, req.Start, req.End)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, newWindowResponse(*window))
	}
}

func updateWindowHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		providerID, ok := providerIDParam(w, r, true)
		if !ok {
			return
		}

		windowID, err := uuid.Parse(chi.URLParam(r, "windowID"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_window_id", "windowID must be a valid UUID")
			return
		}

		var req WindowRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		window, err := svc.UpdateWindow(r.Context(), providerID, windowID, req.Day, req.Start, req.End)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, newWindowResponse(*window))
	}
}

func deleteWindowHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		providerID, ok := providerIDParam(w, r, true)
		if !ok {
			return
		}

		windowID, err := uuid.Parse(chi.URLParam(r, "windowID"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_window_id", "windowID must be a valid UUID")
			return
		}

		if err := svc.DeleteWindow(r.Context(), providerID, windowID); err != nil {
			writeServiceError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func listWindowsHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		providerID, ok := providerIDParam(w, r, false)
		if !ok {
			return
		}

		var day *int
		if raw := r.URL.Query().Get("day"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_day", "day must be an integer 1-7")
				return
			}
			day = &n
		}

		windows, err := svc.Windows(r.Context(), providerID, day)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		resp := make([]WindowResponse, len(windows))
		for i, win := range windows {
			resp[i] = newWindowResponse(win)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func listSlotsHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		providerID, ok := providerIDParam(w, r, false)
		if !ok {
			return
		}

		date, err := time.Parse("2006-01-02", r.URL.Query().Get("date"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}

		granule := 0
		if raw := r.URL.Query().Get("granule"); raw != "" {
			granule, err = strconv.Atoi(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_granule", "granule must be an integer number of minutes")
				return
			}
		}

		slots, err := svc.BookableSlots(r.Context(), providerID, date, granule)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		resp := make([]SlotResponse, len(slots))
		for i, s := range slots {
			resp[i] = SlotResponse{Start: s.Start, End: s.End}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func slotFreeHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		providerID, ok := providerIDParam(w, r, false)
		if !ok {
			return
		}

		date, err := time.Parse("2006-01-02", r.URL.Query().Get("date"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}

		t, err := interval.ParseTimeOfDay(r.URL.Query().Get("time"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_time", "time must be HH:MM")
			return
		}

		free, err := svc.IsSlotFree(r.Context(), providerID, date, t)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]bool{"free": free})
	}
}
