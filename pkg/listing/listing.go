package listing

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	pkgerrors "github.com/taskercompanyofficial/taskercompany-api/pkg/errors"
)

// Operator enumerates the filter comparisons a caller may request.
type Operator string

const (
	OpEq      Operator = "eq"
	OpLike    Operator = "like"
	OpNotLike Operator = "not-like"
	OpIn      Operator = "in"
	OpNotIn   Operator = "not-in"
	OpBetween Operator = "between"
	OpNull    Operator = "null"
)

// Logic controls how multiple conditions are combined.
type Logic string

const (
	LogicAnd Logic = "and"
	LogicOr  Logic = "or"
)

// Condition is one filter leaf: a column, an operator and its operands.
type Condition struct {
	Column string   `json:"column"`
	Op     Operator `json:"operator"`
	Values []string `json:"values"`
}

// Sort orders results by a single column.
type Sort struct {
	Column string
	Desc   bool
}

// Query is the parsed listing request applied against an allow-list of columns.
type Query struct {
	Search     string
	Statuses   []string
	Logic      Logic
	Conditions []Condition
	Sorts      []Sort
}

// AllowList maps client-facing field names to the database columns they may touch.
type AllowList map[string]string

// Apply interprets the query against scope using only allow-listed columns.
// searchColumns is the fixed set of columns the free-text search scans.
func (q Query) Apply(scope *gorm.DB, allowed AllowList, searchColumns []string) (*gorm.DB, error) {
	if search := strings.TrimSpace(q.Search); search != "" && len(searchColumns) > 0 {
		clauses := make([]string, 0, len(searchColumns))
		args := make([]any, 0, len(searchColumns))
		for _, col := range searchColumns {
			clauses = append(clauses, fmt.Sprintf("%s LIKE ?", col))
			args = append(args, "%"+search+"%")
		}
		scope = scope.Where(strings.Join(clauses, " OR "), args...)
	}

	if len(q.Conditions) > 0 {
		clauses := make([]string, 0, len(q.Conditions))
		args := make([]any, 0, len(q.Conditions))
		for _, cond := range q.Conditions {
			clause, condArgs, err := cond.build(allowed)
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, clause)
			args = append(args, condArgs...)
		}
		joiner := " AND "
		if q.Logic == LogicOr {
			joiner = " OR "
		}
		scope = scope.Where(strings.Join(clauses, joiner), args...)
	}

	for _, sort := range q.Sorts {
		column, ok := allowed[sort.Column]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "sort column not allowed").
				WithDetails(map[string]any{"column": sort.Column})
		}
		direction := "ASC"
		if sort.Desc {
			direction = "DESC"
		}
		scope = scope.Order(fmt.Sprintf("%s %s", column, direction))
	}

	return scope, nil
}

func (c Condition) build(allowed AllowList) (string, []any, error) {
	column, ok := allowed[c.Column]
	if !ok {
		return "", nil, pkgerrors.New(pkgerrors.CodeValidation, "filter column not allowed").
			WithDetails(map[string]any{"column": c.Column})
	}

	switch c.Op {
	case OpEq:
		if len(c.Values) != 1 {
			return "", nil, operandCountError(c, 1)
		}
		return fmt.Sprintf("%s = ?", column), []any{c.Values[0]}, nil

	case OpLike:
		if len(c.Values) != 1 {
			return "", nil, operandCountError(c, 1)
		}
		return fmt.Sprintf("%s LIKE ?", column), []any{"%" + c.Values[0] + "%"}, nil

	case OpNotLike:
		if len(c.Values) != 1 {
			return "", nil, operandCountError(c, 1)
		}
		return fmt.Sprintf("%s NOT LIKE ?", column), []any{"%" + c.Values[0] + "%"}, nil

	case OpIn:
		if len(c.Values) == 0 {
			return "", nil, operandCountError(c, 1)
		}
		return fmt.Sprintf("%s IN ?", column), []any{c.Values}, nil

	case OpNotIn:
		if len(c.Values) == 0 {
			return "", nil, operandCountError(c, 1)
		}
		return fmt.Sprintf("%s NOT IN ?", column), []any{c.Values}, nil

	case OpBetween:
		if len(c.Values) != 2 {
			return "", nil, operandCountError(c, 2)
		}
		return fmt.Sprintf("%s BETWEEN ? AND ?", column), []any{c.Values[0], c.Values[1]}, nil

	case OpNull:
		return fmt.Sprintf("%s IS NULL", column), nil, nil

	default:
		return "", nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown filter operator").
			WithDetails(map[string]any{"operator": string(c.Op)})
	}
}

func operandCountError(c Condition, want int) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "wrong operand count for filter operator").
		WithDetails(map[string]any{"column": c.Column, "operator": string(c.Op), "expected": want})
}
