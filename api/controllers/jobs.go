package controllers

import (
	"net/http"

	"github.com/taskercompanyofficial/taskercompany-api/api/middleware"
	"github.com/taskercompanyofficial/taskercompany-api/api/responses"
	"github.com/taskercompanyofficial/taskercompany-api/api/validators"
	"github.com/taskercompanyofficial/taskercompany-api/internal/jobs"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/enums"
	pkgerrors "github.com/taskercompanyofficial/taskercompany-api/pkg/errors"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/listing"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/logger"
)

// JobList returns work orders. Technicians see only their own queue;
// branch-scoped roles see their branch.
func JobList(svc jobs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query, page, err := listing.ParseRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := jobs.ListParams{
			Query: query,
			Page:  page,
		}
		if middleware.RoleFromContext(r.Context()) == string(enums.StaffRoleTechnician) {
			params.TechnicianID = middleware.StaffIDFromContext(r.Context())
		} else {
			params.BranchID = scopedBranchID(r)
		}

		result, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// JobCounts returns the authenticated technician's open/pending/closed tallies.
func JobCounts(svc jobs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counts, err := svc.Counts(r.Context(), middleware.StaffIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, counts)
	}
}

type jobStatusRequest struct {
	Status          string  `json:"status" validate:"required"`
	Remarks         *string `json:"remarks"`
	CustomerRemarks *string `json:"customer_remarks"`
	Rating          *int    `json:"rating" validate:"omitempty,min=1,max=5"`
}

func JobUpdateStatus(svc jobs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input jobStatusRequest
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status := enums.JobStatus(input.Status)
		if !status.IsValid() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid job status").
				WithDetails(map[string]any{"status": input.Status}))
			return
		}

		err = svc.UpdateStatus(r.Context(), jobs.StatusUpdateInput{
			JobID:           id,
			Status:          status,
			Remarks:         input.Remarks,
			CustomerRemarks: input.CustomerRemarks,
			Rating:          input.Rating,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"message": "job status updated"})
	}
}
