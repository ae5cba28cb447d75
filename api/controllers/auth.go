package controllers

import (
	"net/http"

	"github.com/taskercompanyofficial/taskercompany-api/api/responses"
	"github.com/taskercompanyofficial/taskercompany-api/api/validators"
	"github.com/taskercompanyofficial/taskercompany-api/internal/staff"
	pkgerrors "github.com/taskercompanyofficial/taskercompany-api/pkg/errors"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/logger"
)

// AuthLogin exchanges staff credentials for an access token. Mobile
// clients log in by phone number, the CRM by email.
func AuthLogin(svc staff.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "staff service unavailable"))
			return
		}

		var input staff.LoginInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
