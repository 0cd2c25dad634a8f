package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"zanonyme_go/internal/service"
)

// Public endpoints carry no auth. They expose only the denormalized
// mirrors (username directory entries, link snapshots), never account
// records.

func handlePublicProfile(directorySvc *service.DirectoryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entry, err := directorySvc.PublicProfile(r.Context(), chi.URLParam(r, "username"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, entry)
	}
}

func handlePublicLink(linkSvc *service.LinkService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		link, err := linkSvc.PublicByToken(r.Context(), chi.URLParam(r, "token"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, link)
	}
}

func handleShortCode(linkSvc *service.LinkService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := linkSvc.ResolveShortCode(r.Context(), chi.URLParam(r, "code"))
		if err != nil {
			writeError(w, err)
			return
		}
		http.Redirect(w, r, "/l/"+token, http.StatusFound)
	}
}
