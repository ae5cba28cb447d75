package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/taskercompanyofficial/taskercompany-api/api/responses"
	"github.com/taskercompanyofficial/taskercompany-api/api/validators"
	"github.com/taskercompanyofficial/taskercompany-api/internal/catalog"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/logger"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/pagination"
)

// The five catalog entities share one CRUD shape, so the handlers are
// generic over the service method they wrap.

func catalogListParams(r *http.Request) (catalog.ListParams, error) {
	page, err := pageParams(r)
	if err != nil {
		return catalog.ListParams{}, err
	}
	parentID, err := queryUint(r, "parent_id")
	if err != nil {
		return catalog.ListParams{}, err
	}
	return catalog.ListParams{
		Search:   validators.SanitizeString(r.URL.Query().Get("search"), 255),
		Status:   strings.TrimSpace(r.URL.Query().Get("status")),
		ParentID: parentID,
		Page:     page,
	}, nil
}

// CatalogList serves a paginated entity listing.
func CatalogList[T any](list func(context.Context, catalog.ListParams) (*pagination.Page[T], error), logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := catalogListParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := list(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// CatalogCreate decodes the entity input and persists a new row.
func CatalogCreate[I any, T any](create func(context.Context, I) (*T, error), logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input I
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, row)
	}
}

// CatalogUpdate applies a full-row update to the entity at {id}.
func CatalogUpdate[I any, T any](update func(context.Context, uint, I) (*T, error), logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input I
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}

// CatalogDelete removes the entity at {id}.
func CatalogDelete(del func(context.Context, uint) error, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := del(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"message": "record deleted"})
	}
}
