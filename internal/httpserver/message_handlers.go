package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"zanonyme_go/internal/domain"
	"zanonyme_go/internal/service"
)

func handleListMessages(moderationSvc *service.ModerationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account := CurrentAccount(r)
		status := domain.MessageStatus(r.URL.Query().Get("status"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		messages, err := moderationSvc.ListInbox(r.Context(), account, status, limit, offset)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, messages)
	}
}

func handleGetMessage(moderationSvc *service.ModerationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account := CurrentAccount(r)
		message, err := moderationSvc.GetMessage(r.Context(), account, chi.URLParam(r, "messageID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, message)
	}
}

type statusRequest struct {
	Status domain.MessageStatus `json:"status"`
}

func handleSetMessageStatus(moderationSvc *service.ModerationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account := CurrentAccount(r)
		var req statusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		message, err := moderationSvc.SetMessageStatus(r.Context(), account, chi.URLParam(r, "messageID"), req.Status)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, message)
	}
}

type bulkStatusRequest struct {
	IDs    []string             `json:"ids"`
	Status domain.MessageStatus `json:"status"`
}

func handleBulkSetStatus(moderationSvc *service.ModerationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account := CurrentAccount(r)
		var req bulkStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		if err := moderationSvc.BulkSetStatus(r.Context(), account, req.IDs, req.Status); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

func handleBulkDelete(moderationSvc *service.ModerationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account := CurrentAccount(r)
		var req bulkDeleteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		if err := moderationSvc.BulkDelete(r.Context(), account, req.IDs); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleDeleteMessage(moderationSvc *service.ModerationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account := CurrentAccount(r)
		if err := moderationSvc.DeleteMessage(r.Context(), account, chi.URLParam(r, "messageID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type reportRequest struct {
	Reason string `json:"reason"`
	Note   string `json:"note"`
}

func handleReportMessage(moderationSvc *service.ModerationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account := CurrentAccount(r)
		var req reportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		report, err := moderationSvc.Report(r.Context(), account, chi.URLParam(r, "messageID"), req.Reason, req.Note)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, report)
	}
}
