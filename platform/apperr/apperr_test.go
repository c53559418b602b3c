package apperr

import (
	"errors"
	"net/http"
	"testing"
)

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindNotFound, http.StatusNotFound},
		{KindValidation, http.StatusBadRequest},
		{KindBadRequest, http.StatusBadRequest},
		{KindConflict, http.StatusConflict},
		{KindPreconditionFailed, http.StatusPreconditionFailed},
		{KindForbidden, http.StatusForbidden},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindInternal, http.StatusInternalServerError},
		{KindUnknown, http.StatusBadRequest},
	}

	for _, tc := range tests {
		got := New(tc.kind, "x").HTTPStatus()
		if got != tc.want {
			t.Errorf("kind %d: HTTPStatus() = %d, want %d", tc.kind, got, tc.want)
		}
	}
}

func TestPreconditionFailedCarriesDetails(t *testing.T) {
	err := PreconditionFailed("fresh lead is not closed").WithDetails(map[string]string{
		"clientLeadStatus": "Meeting",
	})

	if err.HTTPStatus() != http.StatusPreconditionFailed {
		t.Fatalf("expected 412, got %d", err.HTTPStatus())
	}

	details, ok := err.Details.(map[string]string)
	if !ok {
		t.Fatalf("expected map details, got %T", err.Details)
	}
	if details["clientLeadStatus"] != "Meeting" {
		t.Errorf("expected actual status in details, got %q", details["clientLeadStatus"])
	}
}

func TestUnwrap(t *testing.T) {
	inner := errors.New("connection reset")
	err := Wrap(KindInternal, "store failure", inner)

	if !errors.Is(err, inner) {
		t.Error("expected errors.Is to find the wrapped error")
	}
}

func TestGetKind(t *testing.T) {
	if GetKind(Conflict("dup")) != KindConflict {
		t.Error("expected KindConflict")
	}
	if GetKind(errors.New("plain")) != KindUnknown {
		t.Error("expected KindUnknown for non-typed error")
	}
	if !Is(NotFound("missing"), KindNotFound) {
		t.Error("expected Is to match KindNotFound")
	}
}
