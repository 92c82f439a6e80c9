package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	err := WithMetadata(CodeNumericIntegrity, "kpi row 3 xp_per_hr is NaN", map[string]string{"field": "xp_per_hr"})
	if !stderrors.Is(err, New(CodeNumericIntegrity, "")) {
		t.Fatal("expected errors.Is to match by code")
	}
	if stderrors.Is(err, New(CodeSnapshotInvalid, "")) {
		t.Fatal("expected different code not to match")
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := stderrors.New("unexpected EOF")
	err := Wrap(CodeSnapshotInvalid, "decode snapshot", cause)

	if !stderrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable")
	}
	if got := err.Error(); got != "decode snapshot: unexpected EOF" {
		t.Fatalf("message = %q", got)
	}
}

func TestGetCode(t *testing.T) {
	wrapped := fmt.Errorf("load: %w", New(CodeCatalogInvalid, "empty catalog"))
	if got := GetCode(wrapped); got != CodeCatalogInvalid {
		t.Fatalf("code = %v, want %v", got, CodeCatalogInvalid)
	}
	if got := GetCode(stderrors.New("plain")); got != CodeUnknown {
		t.Fatalf("code = %v, want %v", got, CodeUnknown)
	}
}
