package httpserver

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"zanonyme_go/internal/service"
)

type linkCreateRequest struct {
	Name        string     `json:"name"`
	ExpiresAt   *time.Time `json:"expires_at"`
	MaxMessages *int       `json:"max_messages"`
}

// parseLinkUpdate builds the partial update from the raw body: absent keys
// leave the field untouched, an explicit null clears expiry or the cap.
func parseLinkUpdate(body io.Reader) (service.LinkUpdateInput, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return service.LinkUpdateInput{}, err
	}

	var in service.LinkUpdateInput
	if v, ok := raw["name"]; ok {
		var name string
		if err := json.Unmarshal(v, &name); err != nil {
			return service.LinkUpdateInput{}, err
		}
		in.Name = &name
	}
	if v, ok := raw["is_active"]; ok {
		var active bool
		if err := json.Unmarshal(v, &active); err != nil {
			return service.LinkUpdateInput{}, err
		}
		in.IsActive = &active
	}
	if v, ok := raw["expires_at"]; ok {
		in.SetExpiresAt = true
		if string(v) != "null" {
			var at time.Time
			if err := json.Unmarshal(v, &at); err != nil {
				return service.LinkUpdateInput{}, err
			}
			in.ExpiresAt = &at
		}
	}
	if v, ok := raw["max_messages"]; ok {
		in.SetMaxMessages = true
		if string(v) != "null" {
			var max int
			if err := json.Unmarshal(v, &max); err != nil {
				return service.LinkUpdateInput{}, err
			}
			in.MaxMessages = &max
		}
	}
	return in, nil
}

func handleListLinks(linkSvc *service.LinkService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account := CurrentAccount(r)
		links, err := linkSvc.ListForOwner(r.Context(), account.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, links)
	}
}

func handleCreateLink(linkSvc *service.LinkService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account := CurrentAccount(r)
		var req linkCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		link, err := linkSvc.Create(r.Context(), account, service.LinkCreateInput{
			Name:        req.Name,
			ExpiresAt:   req.ExpiresAt,
			MaxMessages: req.MaxMessages,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, link)
	}
}

func handleUpdateLink(linkSvc *service.LinkService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account := CurrentAccount(r)
		in, err := parseLinkUpdate(r.Body)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		link, err := linkSvc.Update(r.Context(), account, chi.URLParam(r, "linkID"), in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, link)
	}
}

func handleRotateLink(linkSvc *service.LinkService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account := CurrentAccount(r)
		token, err := linkSvc.RotateToken(r.Context(), account, chi.URLParam(r, "linkID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"token": token})
	}
}

func handleDeleteLink(linkSvc *service.LinkService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account := CurrentAccount(r)
		if err := linkSvc.Delete(r.Context(), account, chi.URLParam(r, "linkID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
