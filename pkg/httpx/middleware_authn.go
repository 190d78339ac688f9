package httpx

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/keygate/pkg/slogx"
)

// IdentityHeader carries the identity the upstream gateway authenticated.
const IdentityHeader = "X-Identity-ID"

// RequireSecret admits requests presenting the shared API secret as a bearer
// token. An empty secret rejects everything.
func RequireSecret(secret string) Middleware {
	want := []byte(secret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "missing bearer token")
				return
			}
			got := []byte(strings.TrimSpace(strings.TrimPrefix(authz, "Bearer ")))

			if len(want) == 0 || subtle.ConstantTimeCompare(got, want) != 1 {
				slogx.FromContext(r.Context()).Warn("api secret rejected", "path", r.URL.Path)
				writeBearerError(w, "invalid api secret")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireIdentity injects the gateway-asserted identity into the context and
// annotates the request logger with it. Use after RequireSecret.
func RequireIdentity() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(IdentityHeader))
			if id == "" {
				WriteJSON(w, http.StatusUnauthorized, map[string]string{
					"error":             "identity_required",
					"error_description": IdentityHeader + " header is required",
				})
				return
			}

			ctx := WithIdentityID(r.Context(), id)
			ctx = slogx.With(ctx, "identity_id", id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteJSON(w, http.StatusUnauthorized, map[string]string{
		"error":             "unauthorized",
		"error_description": desc,
	})
}
