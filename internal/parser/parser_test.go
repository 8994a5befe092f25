package parser_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdecook/golox/internal/diagnostics"
	"github.com/sdecook/golox/internal/lexer"
	"github.com/sdecook/golox/internal/parser"
)

func parse(t *testing.T, src string) (string, *diagnostics.Bag) {
	t.Helper()
	var out, errBuf bytes.Buffer
	diags := diagnostics.New(&out, &errBuf)
	toks := lexer.New(src, diags).ScanTokens()
	stmts := parser.New(toks, diags).Parse()

	sb := ""
	for i, s := range stmts {
		if i > 0 {
			sb += "\n"
		}
		sb += s.String()
	}
	return sb, diags
}

func TestParse_Precedence(t *testing.T) {
	out, diags := parse(t, "1 + 2 * 3;")
	require.False(t, diags.HadError)
	assert.Equal(t, "(+ 1 (* 2 3));", out)
}

func TestParse_ForDesugarsToWhile(t *testing.T) {
	out, diags := parse(t, "for (var i = 0; i < 3; i = i + 1) print i;")
	require.False(t, diags.HadError)
	assert.Contains(t, out, "while (")
	assert.Contains(t, out, "var i = 0;")
}

func TestParse_ClassWithSuperclassAndMethods(t *testing.T) {
	out, diags := parse(t, "class B < A {\n  greet() { print \"B\"; }\n}")
	require.False(t, diags.HadError)
	assert.Contains(t, out, "class B < A {")
	assert.Contains(t, out, "fun greet()")
}

func TestParse_InvalidAssignmentTargetReportsButDoesNotAbort(t *testing.T) {
	out, diags := parse(t, "1 + 2 = 3; print \"still parsed\";")
	assert.True(t, diags.HadError)
	assert.Contains(t, out, "still parsed")
}

func TestParse_SynchronizesPastMissingSemicolon(t *testing.T) {
	_, diags := parse(t, "var x = 1\nvar y = 2;")
	assert.True(t, diags.HadError)
}

func TestParse_ArgumentLimitReportsButContinuesParsing(t *testing.T) {
	src := "f("
	for i := 0; i < 256; i++ {
		if i > 0 {
			src += ", "
		}
		src += "1"
	}
	src += ");"

	_, diags := parse(t, src)
	assert.True(t, diags.HadError)
}

func TestParse_GetAndSetExpressions(t *testing.T) {
	out, diags := parse(t, "a.b.c = 1;")
	require.False(t, diags.HadError)
	assert.Equal(t, "a.b.c = 1;", out)
}
