package resolver_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdecook/golox/internal/diagnostics"
	"github.com/sdecook/golox/internal/lexer"
	"github.com/sdecook/golox/internal/parser"
	"github.com/sdecook/golox/internal/resolver"
)

func resolveSource(t *testing.T, src string) ([]string, *diagnostics.Bag) {
	t.Helper()
	var out, errBuf bytes.Buffer
	diags := diagnostics.New(&out, &errBuf)
	toks := lexer.New(src, diags).ScanTokens()
	stmts := parser.New(toks, diags).Parse()
	require.False(t, diags.HadError, "unexpected parse error: %s", errBuf.String())

	resolver.New(diags).Resolve(stmts)
	return nil, diags
}

func TestResolve_SelfInheritanceIsAnError(t *testing.T) {
	_, diags := resolveSource(t, "class A < A {}")
	assert.True(t, diags.HadError)
}

func TestResolve_ReturnFromTopLevelIsAnError(t *testing.T) {
	_, diags := resolveSource(t, "return 1;")
	assert.True(t, diags.HadError)
}

func TestResolve_ReturnValueFromInitializerIsAnError(t *testing.T) {
	_, diags := resolveSource(t, "class C { init() { return 1; } }")
	assert.True(t, diags.HadError)
}

func TestResolve_BareReturnFromInitializerIsAllowed(t *testing.T) {
	_, diags := resolveSource(t, "class C { init() { return; } }")
	assert.False(t, diags.HadError)
}

func TestResolve_ThisOutsideClassIsAnError(t *testing.T) {
	_, diags := resolveSource(t, "print this;")
	assert.True(t, diags.HadError)
}

func TestResolve_SuperOutsideClassIsAnError(t *testing.T) {
	_, diags := resolveSource(t, "fun f() { print super.x; }")
	assert.True(t, diags.HadError)
}

func TestResolve_SuperWithoutSuperclassIsAnError(t *testing.T) {
	_, diags := resolveSource(t, "class A { f() { super.f(); } }")
	assert.True(t, diags.HadError)
}

func TestResolve_UseBeforeDefinitionInOwnInitializerIsAnError(t *testing.T) {
	_, diags := resolveSource(t, "var a = 1; { var a = a; }")
	assert.True(t, diags.HadError)
}

func TestResolve_RedeclarationInSameScopeIsAnError(t *testing.T) {
	_, diags := resolveSource(t, "{ var a = 1; var a = 2; }")
	assert.True(t, diags.HadError)
}

func TestResolve_ValidProgramHasNoErrors(t *testing.T) {
	_, diags := resolveSource(t, `
		class A {
			greet() { print "A"; }
		}
		class B < A {
			greet() { super.greet(); print "B"; }
		}
		B().greet();
	`)
	assert.False(t, diags.HadError)
}

func TestResolve_Determinism(t *testing.T) {
	var out, errBuf bytes.Buffer
	diags := diagnostics.New(&out, &errBuf)
	toks := lexer.New(`
		fun makeCounter() {
			var i = 0;
			fun count() { i = i + 1; print i; }
			return count;
		}
	`, diags).ScanTokens()
	stmts := parser.New(toks, diags).Parse()
	require.False(t, diags.HadError)

	first := resolver.New(diags).Resolve(stmts)
	second := resolver.New(diags).Resolve(stmts)

	assert.Equal(t, first, second)
}
