package httpserver

import (
	"context"
	"net/http"
	"strings"

	"zanonyme_go/internal/domain"
	"zanonyme_go/internal/security"
)

type contextKey string

const accountContextKey contextKey = "currentAccount"

const claimsContextKey contextKey = "identityClaims"

// WithAccount returns a new context carrying the current account.
func WithAccount(ctx context.Context, a *domain.Account) context.Context {
	return context.WithValue(ctx, accountContextKey, a)
}

// CurrentAccount extracts the current account from context, if any.
func CurrentAccount(r *http.Request) *domain.Account {
	if v := r.Context().Value(accountContextKey); v != nil {
		if a, ok := v.(*domain.Account); ok {
			return a
		}
	}
	return nil
}

// CurrentClaims extracts the verified identity claims from context, if any.
func CurrentClaims(r *http.Request) *security.IdentityClaims {
	if v := r.Context().Value(claimsContextKey); v != nil {
		if c, ok := v.(*security.IdentityClaims); ok {
			return c
		}
	}
	return nil
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return ""
	}
	return strings.TrimSpace(authHeader[len("Bearer "):])
}

// IdentityMiddleware verifies the bearer token from the external identity
// provider and attaches the claims to the context. It does not require an
// account to exist yet; session provisioning runs behind it.
func IdentityMiddleware(verifier *security.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing or invalid Authorization header"})
				return
			}
			claims, err := verifier.Verify(token)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
				return
			}
			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AccountMiddleware loads the account for the verified identity and attaches
// it to the context. Suspended accounts keep dashboard access; only inbound
// submissions to them are refused.
func AccountMiddleware(accounts domain.AccountRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := CurrentClaims(r)
			if claims == nil {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
				return
			}
			account, err := accounts.GetByID(r.Context(), claims.Subject)
			if err != nil {
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
				return
			}
			if account == nil {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "account not provisioned"})
				return
			}
			next.ServeHTTP(w, r.WithContext(WithAccount(r.Context(), account)))
		})
	}
}

// AdminOnly rejects requests from non-admin accounts.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account := CurrentAccount(r)
		if account == nil || account.Role != domain.RoleAdmin {
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
