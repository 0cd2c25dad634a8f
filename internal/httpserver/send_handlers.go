package httpserver

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"zanonyme_go/internal/domain"
	"zanonyme_go/internal/security"
	"zanonyme_go/internal/service"
	"zanonyme_go/internal/validate"
)

type sendMessageRequest struct {
	RecipientUID string `json:"recipientUid"`
	LinkID       string `json:"linkId"`
	Content      string `json:"content"`
	LinkName     string `json:"linkName"`
}

// handleSendMessage is the public anonymous ingestion endpoint. It speaks
// its own permissive CORS dialect (any origin may host a send form) and is
// registered for all methods so it can answer preflight and reject the rest
// itself.
func handleSendMessage(submissions *service.SubmissionService, fingerprints *security.Fingerprinter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if r.Method != http.MethodPost {
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
			return
		}

		var req sendMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing fields"})
			return
		}
		if req.RecipientUID == "" || req.LinkID == "" || req.Content == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing fields"})
			return
		}

		msg, err := submissions.Submit(r.Context(), service.SubmitInput{
			RecipientID:  req.RecipientUID,
			LinkID:       req.LinkID,
			Content:      req.Content,
			Fingerprint:  fingerprints.FromAddr(clientAddr(r)),
			LinkNameHint: req.LinkName,
		})
		if err != nil {
			switch {
			case errors.Is(err, validate.ErrEmpty), errors.Is(err, validate.ErrTooLong):
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid content length"})
			case errors.Is(err, validate.ErrHTML):
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "HTML not allowed"})
			case errors.Is(err, domain.ErrRateLimited):
				writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "Rate limit exceeded"})
			case errors.Is(err, domain.ErrRecipientSuspended), errors.Is(err, domain.ErrNotFound):
				// generic rejection: suspension state is not leaked to
				// anonymous senders
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Unable to send message"})
			default:
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
			}
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"success": true, "messageId": msg.ID})
	}
}

// clientAddr extracts the sender's network address: forwarded header first,
// then the connection address, else empty (the fingerprinter maps empty to
// its unknown sentinel). The ephemeral port is stripped so reconnecting
// does not mint a fresh fingerprint.
func clientAddr(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
