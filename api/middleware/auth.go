package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/taskercompanyofficial/taskercompany-api/api/responses"
	pkgAuth "github.com/taskercompanyofficial/taskercompany-api/pkg/auth"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/config"
	pkgerrors "github.com/taskercompanyofficial/taskercompany-api/pkg/errors"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the claims.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			if claims.StaffID == 0 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing staff id"))
				return
			}

			ctx := context.WithValue(r.Context(), ctxStaffID, claims.StaffID)
			ctx = context.WithValue(ctx, ctxRole, string(claims.Role))
			if claims.BranchID != nil {
				ctx = context.WithValue(ctx, ctxBranchID, *claims.BranchID)
			}

			if logg != nil {
				fields := map[string]any{
					"staff_id":   claims.StaffID,
					"actor_role": string(claims.Role),
				}
				if claims.BranchID != nil {
					fields["branch_id"] = *claims.BranchID
				}
				ctx = logg.WithFields(ctx, fields)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
