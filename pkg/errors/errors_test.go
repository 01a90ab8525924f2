package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	cases := []struct {
		code   Code
		status int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeNotFound, http.StatusNotFound},
		{CodeForbidden, http.StatusForbidden},
		{CodeStateConflict, http.StatusBadRequest},
		{CodeInsufficientStock, http.StatusConflict},
		{CodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := MetadataFor(tc.code).HTTPStatus; got != tc.status {
			t.Fatalf("code %s: expected status %d got %d", tc.code, tc.status, got)
		}
	}
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	meta := MetadataFor(Code("SOMETHING_ELSE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal fallback, got %d", meta.HTTPStatus)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("driver exploded")
	err := Wrap(CodeDependency, cause, "saving order")

	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be matchable with errors.Is")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("unexpected code %s", err.Code())
	}
}

func TestAsFindsTypedErrorInChain(t *testing.T) {
	inner := New(CodeInsufficientStock, "only 2 left")
	outer := fmt.Errorf("recording movement: %w", inner)

	typed := As(outer)
	if typed == nil {
		t.Fatal("expected typed error in chain")
	}
	if typed.Code() != CodeInsufficientStock {
		t.Fatalf("unexpected code %s", typed.Code())
	}
}

func TestDumpCollectsChain(t *testing.T) {
	err := Wrap(CodeInternal, errors.New("boom"), "outer")
	dump := Dump(err)
	if dump.Code != CodeInternal {
		t.Fatalf("unexpected code %s", dump.Code)
	}
	if len(dump.Chain) < 2 {
		t.Fatalf("expected chain of at least 2, got %d", len(dump.Chain))
	}
}
