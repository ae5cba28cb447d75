package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestIsUniqueViolationPgx(t *testing.T) {
	err := fmt.Errorf("create complaint: %w", &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "idx_complaints_complain_num",
	})

	if !IsUniqueViolation(err, "") {
		t.Fatal("expected unique violation without constraint filter")
	}
	if !IsUniqueViolation(err, "idx_complaints_complain_num") {
		t.Fatal("expected unique violation for matching constraint")
	}
	if IsUniqueViolation(err, "idx_staff_username") {
		t.Fatal("different constraint must not match")
	}
}

func TestIsUniqueViolationPq(t *testing.T) {
	err := &pq.Error{Code: "23505", Constraint: "idx_staff_username"}
	if !IsUniqueViolation(err, "idx_staff_username") {
		t.Fatal("expected pq unique violation to match")
	}
	if IsUniqueViolation(&pq.Error{Code: "23503"}, "") {
		t.Fatal("foreign key violation must not match")
	}
}

func TestIsUniqueViolationMessageFallback(t *testing.T) {
	err := errors.New(`ERROR: duplicate key value violates unique constraint "idx_complaints_complain_num" (SQLSTATE 23505)`)
	if !IsUniqueViolation(err, "idx_complaints_complain_num") {
		t.Fatal("expected message fallback to match")
	}
	if IsUniqueViolation(errors.New("connection refused"), "") {
		t.Fatal("unrelated error must not match")
	}
	if IsUniqueViolation(nil, "") {
		t.Fatal("nil error must not match")
	}
}
