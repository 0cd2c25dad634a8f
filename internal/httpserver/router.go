package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"zanonyme_go/internal/config"
	"zanonyme_go/internal/domain"
	"zanonyme_go/internal/notify"
	"zanonyme_go/internal/security"
	"zanonyme_go/internal/service"
)

// Repositories bundles the store-backed repositories the router needs.
// Both store implementations satisfy it.
type Repositories struct {
	Accounts  domain.AccountRepository
	Directory domain.DirectoryRepository
	Links     domain.LinkRepository
	Messages  domain.MessageRepository
	Reports   domain.ReportRepository
}

// NewRouter constructs the main HTTP router and wires routes, services, and middleware.
func NewRouter(cfg *config.Config, repos Repositories, hub *notify.Hub, push notify.PushSender, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	verifier := security.NewTokenVerifier(cfg.JWTSecret)
	fingerprints := security.NewFingerprinter(cfg.FingerprintSalt)

	directorySvc := service.NewDirectoryService(repos.Directory)
	accountSvc := service.NewAccountService(repos.Accounts, directorySvc, cfg.IsAdminEmail)
	linkSvc := service.NewLinkService(repos.Links)
	moderationSvc := service.NewModerationService(repos.Accounts, repos.Messages, repos.Reports, repos.Links)
	limiter := service.NewRateLimiter(repos.Messages, cfg.RateLimitMax, cfg.RateLimitWindow)
	notifier := notify.NewNotifier(hub, push, repos.Accounts, log)
	submissionSvc := service.NewSubmissionService(repos.Accounts, repos.Links, repos.Messages, limiter, notifier, log)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"message":"Z-Anonyme API","version":"1.0.0"}`))
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Anonymous ingestion. The handler negotiates its own CORS because the
	// page hosting the send form is not part of the dashboard origin list.
	r.HandleFunc("/sendMessage", handleSendMessage(submissionSvc, fingerprints))

	// Public mirrors, no auth.
	r.Get("/u/{username}", handlePublicProfile(directorySvc))
	r.Get("/l/{token}", handlePublicLink(linkSvc))
	r.Get("/s/{code}", handleShortCode(linkSvc))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Link"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
		r.Use(IdentityMiddleware(verifier))

		// Session provisioning only needs a verified identity, not an
		// existing account record.
		r.Post("/auth/session", handleSession(accountSvc))

		// Routes that require a provisioned account.
		r.Group(func(r chi.Router) {
			r.Use(AccountMiddleware(repos.Accounts))

			r.Get("/me", handleMe())
			r.Put("/me/settings", handleUpdateSettings(accountSvc))
			r.Put("/me/username", handleClaimUsername(directorySvc))
			r.Post("/me/push-tokens", handleAddPushToken(accountSvc))
			r.Delete("/me/push-tokens", handleRemovePushToken(accountSvc))

			r.Route("/links", func(r chi.Router) {
				r.Get("/", handleListLinks(linkSvc))
				r.Post("/", handleCreateLink(linkSvc))
				r.Patch("/{linkID}", handleUpdateLink(linkSvc))
				r.Post("/{linkID}/rotate", handleRotateLink(linkSvc))
				r.Delete("/{linkID}", handleDeleteLink(linkSvc))
			})

			r.Route("/messages", func(r chi.Router) {
				r.Get("/", handleListMessages(moderationSvc))
				r.Post("/bulk/status", handleBulkSetStatus(moderationSvc))
				r.Post("/bulk/delete", handleBulkDelete(moderationSvc))
				r.Get("/{messageID}", handleGetMessage(moderationSvc))
				r.Patch("/{messageID}/status", handleSetMessageStatus(moderationSvc))
				r.Delete("/{messageID}", handleDeleteMessage(moderationSvc))
				r.Post("/{messageID}/report", handleReportMessage(moderationSvc))
			})

			// Admin routes
			r.Route("/admin", func(r chi.Router) {
				r.Use(AdminOnly)

				r.Get("/users", handleAdminListUsers(accountSvc))
				r.Patch("/users/{accountID}/role", handleAdminSetRole(accountSvc))
				r.Patch("/users/{accountID}/status", handleAdminSetStatus(accountSvc))
				r.Get("/reports", handleAdminListReports(moderationSvc))
				r.Post("/reports/{reportID}/resolve", handleAdminResolveReport(moderationSvc))
				r.Get("/stats", handleAdminStats(moderationSvc))
			})
		})
	})

	// WebSocket endpoint
	r.Get("/ws", handleWS(hub, verifier, repos.Accounts, cfg.CORSOrigins, log))

	return r
}

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			log.Info().
				Str("method", r.Method).
				Str("uri", r.RequestURI).
				Int("status", rec.status).
				Dur("latency", time.Since(start)).
				Str("ip", r.RemoteAddr).
				Msg("request")
		})
	}
}

// writeJSON is a small helper to send JSON responses.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			// headers already sent; nothing useful left to do
			return
		}
	}
}
