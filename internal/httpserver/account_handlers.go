package httpserver

import (
	"encoding/json"
	"net/http"

	"zanonyme_go/internal/domain"
	"zanonyme_go/internal/service"
)

// handleSession provisions (or refreshes) the account for the verified
// identity. The dashboard calls this once after sign-in.
func handleSession(accountSvc *service.AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := CurrentClaims(r)
		if claims == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		account, err := accountSvc.EnsureAccount(r.Context(), claims)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, account)
	}
}

func handleMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, CurrentAccount(r))
	}
}

type settingsRequest struct {
	DisplayName        string `json:"display_name"`
	AvatarURL          string `json:"avatar_url"`
	EmailNotifications bool   `json:"email_notifications"`
	ShowOnlineStatus   bool   `json:"show_online_status"`
	AllowPublicProfile bool   `json:"allow_public_profile"`
}

func handleUpdateSettings(accountSvc *service.AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account := CurrentAccount(r)
		var req settingsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		err := accountSvc.UpdateSettings(r.Context(), account, service.SettingsInput{
			DisplayName: req.DisplayName,
			AvatarURL:   req.AvatarURL,
			Settings: domain.AccountSettings{
				EmailNotifications: req.EmailNotifications,
				ShowOnlineStatus:   req.ShowOnlineStatus,
				AllowPublicProfile: req.AllowPublicProfile,
			},
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, account)
	}
}

type usernameRequest struct {
	Username string `json:"username"`
}

func handleClaimUsername(directorySvc *service.DirectoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account := CurrentAccount(r)
		var req usernameRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		if err := directorySvc.Claim(r.Context(), account, req.Username); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, account)
	}
}

type pushTokenRequest struct {
	Token string `json:"token"`
}

func handleAddPushToken(accountSvc *service.AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account := CurrentAccount(r)
		var req pushTokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		if err := accountSvc.AddPushToken(r.Context(), account, req.Token); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleRemovePushToken(accountSvc *service.AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account := CurrentAccount(r)
		var req pushTokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		if err := accountSvc.RemovePushToken(r.Context(), account, req.Token); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
