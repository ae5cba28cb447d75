package listing

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/taskercompanyofficial/taskercompany-api/pkg/errors"
	"github.com/taskercompanyofficial/taskercompany-api/pkg/pagination"
)

// ParseRequest extracts a listing query and pagination params from request query strings.
//
// Recognized parameters:
//
//	q            free-text search term
//	status       dot-separated status values ("open.assigned-to-technician")
//	filters      JSON array of {column, operator, values} conditions
//	filter_logic "and" (default) or "or"
//	sort         comma-separated "column" or "column:desc" entries
//	page         1-based page number
//	per_page     page size
func ParseRequest(r *http.Request) (Query, pagination.Params, error) {
	values := r.URL.Query()

	query := Query{
		Search: strings.TrimSpace(values.Get("q")),
		Logic:  LogicAnd,
	}

	if raw := strings.TrimSpace(values.Get("status")); raw != "" {
		for _, status := range strings.Split(raw, ".") {
			if status = strings.TrimSpace(status); status != "" {
				query.Statuses = append(query.Statuses, status)
			}
		}
	}

	switch strings.ToLower(strings.TrimSpace(values.Get("filter_logic"))) {
	case "", string(LogicAnd):
	case string(LogicOr):
		query.Logic = LogicOr
	default:
		return Query{}, pagination.Params{}, pkgerrors.New(pkgerrors.CodeValidation, "filter_logic must be 'and' or 'or'")
	}

	if raw := strings.TrimSpace(values.Get("filters")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &query.Conditions); err != nil {
			return Query{}, pagination.Params{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "filters must be a JSON condition array")
		}
		for _, cond := range query.Conditions {
			if !validOperator(cond.Op) {
				return Query{}, pagination.Params{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown filter operator").
					WithDetails(map[string]any{"operator": string(cond.Op)})
			}
		}
	}

	if raw := strings.TrimSpace(values.Get("sort")); raw != "" {
		for _, entry := range strings.Split(raw, ",") {
			entry = strings.TrimSpace(entry)
			if entry == "" {
				continue
			}
			column, direction, _ := strings.Cut(entry, ":")
			sort := Sort{Column: strings.TrimSpace(column)}
			switch strings.ToLower(strings.TrimSpace(direction)) {
			case "", "asc":
			case "desc":
				sort.Desc = true
			default:
				return Query{}, pagination.Params{}, pkgerrors.New(pkgerrors.CodeValidation, "sort direction must be 'asc' or 'desc'").
					WithDetails(map[string]any{"sort": entry})
			}
			query.Sorts = append(query.Sorts, sort)
		}
	}

	page, err := parsePageParam(values.Get("page"))
	if err != nil {
		return Query{}, pagination.Params{}, err
	}
	perPage, err := parsePageParam(values.Get("per_page"))
	if err != nil {
		return Query{}, pagination.Params{}, err
	}

	return query, pagination.Params{Page: page, PerPage: perPage}.Normalize(), nil
}

func validOperator(op Operator) bool {
	switch op {
	case OpEq, OpLike, OpNotLike, OpIn, OpNotIn, OpBetween, OpNull:
		return true
	}
	return false
}

func parsePageParam(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "pagination parameter must be numeric")
	}
	return value, nil
}
