package services_test

import (
	"errors"
	"strings"
	"testing"

	"motk/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrBacking, "shot", "update", "write rejected", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrBacking) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"shot", "update", "write rejected"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "task", "read", "snapshot failed", errors.New("io"))
	if !errors.Is(err, services.ErrBacking) {
		t.Fatalf("expected nil marker to default to backing, got %v", err)
	}
}

func TestClassifyMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		expect services.Failure
	}{
		{"nil", nil, services.FailureNone},
		{"validation", services.Wrap(services.ErrValidation, "user", "create", "missing email", nil), services.FailureValidation},
		{"not_found", services.Wrap(services.ErrNotFound, "shot", "read", "no row", nil), services.FailureNotFound},
		{"conflict", services.Wrap(services.ErrConflict, "shot", "update", "cell changed", nil), services.FailureConflict},
		{"constraint", services.Wrap(services.ErrConstraint, "user", "delete", "dependents exist", nil), services.FailureConstraint},
		{"backing", services.Wrap(services.ErrBacking, "asset", "query", "quota", errors.New("429")), services.FailureBacking},
		{"unmarked", errors.New("plain"), services.FailureBacking},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := services.Classify(tc.err); got != tc.expect {
				t.Fatalf("Classify(%v) = %q, want %q", tc.err, got, tc.expect)
			}
		})
	}
}
