package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"zanonyme_go/internal/domain"
	"zanonyme_go/internal/service"
)

func handleAdminListUsers(accountSvc *service.AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accounts, err := accountSvc.List(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, accounts)
	}
}

type roleRequest struct {
	Role domain.Role `json:"role"`
}

func handleAdminSetRole(accountSvc *service.AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req roleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		if err := accountSvc.SetRole(r.Context(), chi.URLParam(r, "accountID"), req.Role); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type accountStatusRequest struct {
	Status domain.AccountStatus `json:"status"`
}

func handleAdminSetStatus(accountSvc *service.AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req accountStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		if err := accountSvc.SetStatus(r.Context(), chi.URLParam(r, "accountID"), req.Status); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleAdminListReports(moderationSvc *service.ModerationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := domain.ReportStatus(r.URL.Query().Get("status"))
		reports, err := moderationSvc.ListReports(r.Context(), status)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, reports)
	}
}

type resolveRequest struct {
	Action service.ResolveAction `json:"action"`
}

func handleAdminResolveReport(moderationSvc *service.ModerationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resolveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		if req.Action == "" {
			req.Action = service.ResolveNone
		}
		if err := moderationSvc.ResolveReport(r.Context(), chi.URLParam(r, "reportID"), req.Action); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleAdminStats(moderationSvc *service.ModerationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := moderationSvc.Stats(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}
