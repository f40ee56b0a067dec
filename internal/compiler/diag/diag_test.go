package diag

import (
	"testing"

	"github.com/btouchard/shaderx/internal/compiler/token"
)

func TestCollectorHasErrors(t *testing.T) {
	c := &Collector{}
	if c.HasErrors() {
		t.Fatal("empty collector should report no errors")
	}
	Warnf(c, PhaseSemantic, token.Position{}, "unused variable %q", "x")
	if c.HasErrors() {
		t.Fatal("warnings must not count as errors")
	}
	Errorf(c, PhaseSyntax, token.Position{}, "unexpected token %q", "}")
	if !c.HasErrors() {
		t.Fatal("expected HasErrors after an Error-severity report")
	}
	if len(c.Errors()) != 1 {
		t.Fatalf("expected exactly 1 error, got %d", len(c.Errors()))
	}
}

func TestSinkNilLogIsSafe(t *testing.T) {
	Errorf(nil, PhaseLex, token.Position{}, "boom")
}
