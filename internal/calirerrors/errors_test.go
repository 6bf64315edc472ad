package calirerrors

import (
	"fmt"
	"strings"
	"testing"
)

func TestErrorRendersKindMessageLocation(t *testing.T) {
	e := NewSyntax(Location{File: "a.cal", Line: 3, Column: 5}, "unexpected token %q", "}")
	got := e.Error()
	if !strings.Contains(got, "SyntaxError") || !strings.Contains(got, "a.cal:3:5") {
		t.Fatalf("unexpected rendering: %q", got)
	}
}

func TestErrorWithoutLocationOmitsAt(t *testing.T) {
	e := NewRuntime("stack overflow")
	if strings.Contains(e.Error(), "(at ") {
		t.Fatalf("expected no location clause: %q", e.Error())
	}
}

func TestInternalfCarriesStack(t *testing.T) {
	e := Internalf("invariant broken: %s", "def-use")
	out := fmt.Sprintf("%+v", e)
	if !strings.Contains(out, "invariant broken") {
		t.Fatalf("expected message in %%+v output, got %q", out)
	}
	if len(out) <= len(e.Error()) {
		t.Fatal("expected verbose formatting to add stack information beyond the one-line message")
	}
}
