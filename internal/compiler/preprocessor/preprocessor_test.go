package preprocessor

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/btouchard/shaderx/internal/compiler/diag"
)

var errNotFound = errors.New("not found")

func tokenLiterals(r *Result) []string {
	var out []string
	for _, t := range r.Tokens {
		out = append(out, t.Literal)
	}
	return out
}

func literalsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Property 1: preprocessing a stream twice (feeding the
// first pass's token stream back in as raw source) is idempotent -
// nothing left in the second pass still needs expanding.
func TestIdempotence(t *testing.T) {
	src := `
#define WIDTH 800
#define AREA(w, h) ((w) * (h))
int x = AREA(WIDTH, 600);
`
	first := Run("a.hlsl", src, Options{})
	if first.Failed {
		t.Fatalf("unexpected failure: %v", first)
	}
	second := Run("a.hlsl", renderTokens(first.Tokens), Options{})
	if second.Failed {
		t.Fatalf("unexpected failure on second pass: %v", second)
	}
	if !literalsEqual(tokenLiterals(first), tokenLiterals(second)) {
		t.Fatalf("not idempotent:\n first=%v\nsecond=%v", tokenLiterals(first), tokenLiterals(second))
	}
}

// Property 2: a macro that references its own name in its body (#define
// A A) must not recurse forever; A expands to the bare identifier A.
func TestSelfRecursiveMacroTerminates(t *testing.T) {
	src := "#define A A\nint x = A;\n"
	done := make(chan *Result, 1)
	go func() { done <- Run("a.hlsl", src, Options{}) }()
	select {
	case r := <-done:
		if r.Failed {
			t.Fatalf("unexpected failure: %v", r)
		}
		lits := tokenLiterals(r)
		found := false
		for _, l := range lits {
			if l == "A" {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected self-referential macro A to survive expansion as A, got %v", lits)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("self-recursive macro expansion did not terminate")
	}
}

// Property 3: identifiers inside a skipped (nested) conditional branch
// must never raise an "undefined" error, even when the outer branch's
// own condition is false.
func TestSkippedConditionalsDoNotError(t *testing.T) {
	src := `
#if 0
  #if SOME_UNDEFINED_SYMBOL > 3
    broken syntax here !!! ###
  #endif
#endif
int x = 1;
`
	c := &diag.Collector{}
	r := Run("a.hlsl", src, Options{Log: c})
	if r.Failed || c.HasErrors() {
		t.Fatalf("skipped conditional region must not produce errors, got: %v", c.Reports)
	}
}

// Property 4: #pragma once prevents a second #include of the same
// canonical file from contributing its contents again.
func TestPragmaOnceDeduplicatesIncludes(t *testing.T) {
	files := map[string]string{
		"common.hlsl": "#pragma once\nfloat shared_value = 1.0;\n",
	}
	handler := FileIncludeHandler{Read: func(path string) (string, error) {
		if c, ok := files[path]; ok {
			return c, nil
		}
		return "", errNotFound
	}}
	src := `
#include "common.hlsl"
#include "common.hlsl"
int x = 1;
`
	r := Run("a.hlsl", src, Options{IncludeHandler: handler})
	if r.Failed {
		t.Fatalf("unexpected failure: %v", r)
	}
	count := strings.Count(renderTokens(r.Tokens), "shared_value")
	if count != 1 {
		t.Fatalf("expected #pragma once to dedup the include, shared_value appeared %d times", count)
	}
}

// SQR(1+2) expands to ((1+2)*(1+2)) - the
// body's parentheses survive and the argument is substituted raw, not
// pre-expanded or pre-evaluated.
func TestFunctionLikeMacroPreservesParentheses(t *testing.T) {
	src := "#define SQR(x) ((x)*(x))\nint y = SQR(1+2);\n"
	r := Run("a.hlsl", src, Options{})
	if r.Failed {
		t.Fatalf("unexpected failure: %v", r)
	}
	got := strings.ReplaceAll(renderTokens(r.Tokens), " ", "")
	if !strings.Contains(got, "((1+2)*(1+2))") {
		t.Fatalf("expected ((1+2)*(1+2)), got %s", got)
	}
}

func TestFunctionLikeMacroWithVarargs(t *testing.T) {
	src := `
#define LOG(fmt, ...) trace(fmt, __VA_ARGS__)
LOG("x=%d,y=%d", x, y);
`
	r := Run("a.hlsl", src, Options{})
	if r.Failed {
		t.Fatalf("unexpected failure: %v", r)
	}
	text := renderTokens(r.Tokens)
	if !strings.Contains(text, "trace") || !strings.Contains(text, "x") || !strings.Contains(text, "y") {
		t.Fatalf("variadic macro expansion looks wrong: %s", text)
	}
}
