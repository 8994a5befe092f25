package repl_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sdecook/golox/internal/repl"
)

func TestRunSource_PrintStatement(t *testing.T) {
	var out, errBuf bytes.Buffer
	diags := repl.RunSource(&out, &errBuf, strings.NewReader(""), `print 1 + 1;`)
	assert.False(t, diags.HadError)
	assert.False(t, diags.HadRuntimeError)
	assert.Equal(t, "2\n", out.String())
}

func TestRunSource_BareExpressionEchoesValue(t *testing.T) {
	var out, errBuf bytes.Buffer
	diags := repl.RunSource(&out, &errBuf, strings.NewReader(""), `1 + 2`)
	assert.False(t, diags.HadError)
	assert.False(t, diags.HadRuntimeError)
	assert.Equal(t, "3\n", out.String())
}

func TestRunSource_RuntimeErrorSetsFlag(t *testing.T) {
	var out, errBuf bytes.Buffer
	diags := repl.RunSource(&out, &errBuf, strings.NewReader(""), `print 1 + nil;`)
	assert.True(t, diags.HadRuntimeError)
	assert.Contains(t, errBuf.String(), "Operands must be")
}

func TestRunSource_InputBuiltinReadsFromStdin(t *testing.T) {
	var out, errBuf bytes.Buffer
	diags := repl.RunSource(&out, &errBuf, strings.NewReader("Ada\n"), `print input("name: ");`)
	assert.False(t, diags.HadRuntimeError)
	assert.Equal(t, "name: Ada\n", out.String())
}
