package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type contextKey string

const (
	actorKey        contextKey = "actor"
	capabilitiesKey contextKey = "capabilities"
)

// Capabilities gating the deposit lifecycle. Tokens are issued by the
// upstream identity provider; this layer only validates them.
const (
	CapDepositUpdate = "dat:update"
	CapDepositDelete = "dat:delete"
)

type capabilityClaims struct {
	Capabilities []string `json:"capabilities"`
	jwt.RegisteredClaims
}

// CapabilityAuthMiddleware validates HMAC Bearer tokens and injects the
// actor and capability set into context.
func CapabilityAuthMiddleware(secret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("auth: missing token",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)
				writeError(w, http.StatusUnauthorized, "missing authorization token")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				logger.Warn("auth: invalid token format",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)
				writeError(w, http.StatusUnauthorized, "invalid token format")
				return
			}

			claims := &capabilityClaims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				logger.Warn("auth: invalid or expired token",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
					zap.Error(err),
				)
				writeError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), actorKey, claims.Subject)
			ctx = context.WithValue(ctx, capabilitiesKey, claims.Capabilities)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireCapability rejects requests whose token does not carry the
// capability.
func RequireCapability(capability string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !hasCapability(r.Context(), capability) {
				writeError(w, http.StatusForbidden, "forbidden: missing capability "+capability)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ActorFromContext extracts the authenticated actor from context.
func ActorFromContext(ctx context.Context) string {
	v, _ := ctx.Value(actorKey).(string)
	return v
}

func hasCapability(ctx context.Context, capability string) bool {
	caps, _ := ctx.Value(capabilitiesKey).([]string)
	for _, c := range caps {
		if c == capability {
			return true
		}
	}
	return false
}
