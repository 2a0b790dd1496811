package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fitflix/backend/internal/apperr"
	"github.com/fitflix/backend/internal/logging"
	"github.com/fitflix/backend/internal/models"
)

type identityKey struct{}

// Authenticator resolves an Authorization header into the calling identity.
type Authenticator interface {
	Authenticate(ctx context.Context, authorization string) (models.Identity, error)
}

// RequireIdentity rejects requests without a valid bearer token and stores the
// caller's identity on the request context.
func RequireIdentity(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			identity, err := auth.Authenticate(ctx, r.Header.Get("Authorization"))
			if err != nil {
				writeError(ctx, w, err)
				return
			}

			ctx = WithIdentity(ctx, identity)
			ctx = logging.WithLogger(ctx, logging.FromContext(ctx).With("userId", identity.ID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithIdentity stores identity on ctx.
func WithIdentity(ctx context.Context, identity models.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFromContext returns the identity stored by RequireIdentity.
func IdentityFromContext(ctx context.Context) (models.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(models.Identity)
	return identity, ok
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	appErr := apperr.As(err)
	logger := logging.FromContext(ctx)
	if appErr.Kind == apperr.KindInternal {
		logger.Error("authentication failed", "error", err)
	} else {
		logger.Warn("request rejected", "kind", appErr.Kind.String(), "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.HTTPStatus())
	if err := json.NewEncoder(w).Encode(map[string]string{"message": appErr.Message}); err != nil {
		logger.Error("encode response body", "status", appErr.HTTPStatus(), "error", err)
	}
}
