package middleware

import (
	"context"
	"net/http"
	"strings"

	"finca-digital/internal/ports/auth"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// AccessKeyHeader es el header con la clave secreta de la finca.
const AccessKeyHeader = "X-Access-Key"

// AuthContext:
// - Toma la clave de X-Access-Key o del query param "clave" (links del dashboard).
// - Si verifier valida la clave => setea claims de la finca.
// - Si no hay claims, el request sigue igual; los handlers deciden 401.
func AuthContext(verifier auth.AuthVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil {
				next.ServeHTTP(w, r)
				return
			}

			key := accessKey(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verifier.Verify(r.Context(), key)
			if err != nil {
				// No cortamos aquí; el handler decide.
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireFarm corta con 401 si no hay claims de finca.
func RequireFarm(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, ok := GetClaims(r.Context())
		if !ok || strings.TrimSpace(c.FarmID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func WithClaims(ctx context.Context, c auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

func GetClaims(ctx context.Context) (auth.Claims, bool) {
	v := ctx.Value(claimsKey)
	if v == nil {
		return auth.Claims{}, false
	}
	c, ok := v.(auth.Claims)
	return c, ok
}

func accessKey(r *http.Request) string {
	if v := strings.TrimSpace(r.Header.Get(AccessKeyHeader)); v != "" {
		return v
	}
	return strings.TrimSpace(r.URL.Query().Get("clave"))
}
