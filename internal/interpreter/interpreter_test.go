package interpreter_test

import (
	"bytes"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdecook/golox/internal/diagnostics"
	"github.com/sdecook/golox/internal/interpreter"
	"github.com/sdecook/golox/internal/lexer"
	"github.com/sdecook/golox/internal/parser"
	"github.com/sdecook/golox/internal/resolver"
)

func run(t *testing.T, src string) (string, *diagnostics.Bag) {
	t.Helper()
	var out, errBuf bytes.Buffer
	diags := diagnostics.New(&out, &errBuf)

	toks := lexer.New(src, diags).ScanTokens()
	stmts := parser.New(toks, diags).Parse()
	require.False(t, diags.HadError, "parse error: %s", errBuf.String())

	locals := resolver.New(diags).Resolve(stmts)
	require.False(t, diags.HadError, "resolve error: %s", errBuf.String())

	interp := interpreter.New(diags)
	interp.SetLocals(locals)
	interp.Interpret(stmts)

	if diags.HadRuntimeError {
		return out.String(), diags
	}
	return out.String(), diags
}

func TestInterpret_ArithmeticPrecedence(t *testing.T) {
	out, diags := run(t, `print 1 + 2 * 3;`)
	assert.False(t, diags.HadRuntimeError)
	assert.Equal(t, "7\n", out)
}

func TestInterpret_StringConcatenation(t *testing.T) {
	out, diags := run(t, `print "foo" + "bar";`)
	assert.False(t, diags.HadRuntimeError)
	assert.Equal(t, "foobar\n", out)
}

func TestInterpret_MixedNumberStringConcatenation(t *testing.T) {
	out, diags := run(t, `print "a" + 1;`)
	assert.False(t, diags.HadRuntimeError)
	assert.Equal(t, "a1\n", out)

	out, diags = run(t, `print 1 + "a";`)
	assert.False(t, diags.HadRuntimeError)
	assert.Equal(t, "1a\n", out)
}

func TestInterpret_ClosureCounter(t *testing.T) {
	out, diags := run(t, `
		fun makeCounter() {
			var i = 0;
			fun count() {
				i = i + 1;
				print i;
			}
			return count;
		}
		var counter = makeCounter();
		counter();
		counter();
	`)
	assert.False(t, diags.HadRuntimeError)
	assert.Equal(t, "1\n2\n", out)
}

func TestInterpret_InheritanceWithSuper(t *testing.T) {
	out, diags := run(t, `
		class Doughnut {
			cook() { print "Fry until golden brown."; }
		}
		class BostonCream < Doughnut {
			cook() {
				super.cook();
				print "Pipe full of custard and coat with chocolate.";
			}
		}
		BostonCream().cook();
	`)
	assert.False(t, diags.HadRuntimeError)
	assert.Equal(t, "Fry until golden brown.\nPipe full of custard and coat with chocolate.\n", out)
}

func TestInterpret_InitializerAlwaysReturnsThisRegardlessOfReturnValue(t *testing.T) {
	out, diags := run(t, `
		class Thing {
			init() { this.ready = true; return; }
		}
		var t = Thing();
		print t.ready;
	`)
	assert.False(t, diags.HadRuntimeError)
	assert.Equal(t, "true\n", out)
}

func TestInterpret_RuntimeTypeErrorOnNumericOperand(t *testing.T) {
	out, diags := run(t, `print "not a number" - 1;`)
	assert.True(t, diags.HadRuntimeError)
	assert.Equal(t, "", out)
}

func TestInterpret_UndefinedVariableIsARuntimeError(t *testing.T) {
	_, diags := run(t, `print undeclared;`)
	assert.True(t, diags.HadRuntimeError)
}

func TestInterpret_FieldsShadowMethodsOfSameName(t *testing.T) {
	out, diags := run(t, `
		class Box {
			value() { return "method"; }
		}
		var b = Box();
		b.value = "field";
		print b.value;
	`)
	assert.False(t, diags.HadRuntimeError)
	assert.Equal(t, "field\n", out)
}

func TestInterpret_NegativeZeroPrintsWithSign(t *testing.T) {
	out, diags := run(t, `print -0.0;`)
	assert.False(t, diags.HadRuntimeError)
	assert.True(t, strings.HasPrefix(out, "-0"), "got %q", out)
}

func TestInterpret_ClosureDoesNotLeakPastGC(t *testing.T) {
	// The language's closures rely entirely on Go's garbage collector to
	// reclaim environments once nothing references them — there is no
	// explicit refcounting or arena to test. This exercises a large
	// number of short-lived closures and checks that live heap usage
	// stays bounded rather than growing with the iteration count, as it
	// would if environments were being retained somewhere.
	src := `
		fun makeAdder(n) {
			fun add(x) { return x + n; }
			return add;
		}
		for (var i = 0; i < 20000; i = i + 1) {
			var f = makeAdder(i);
			f(1);
		}
		print "done";
	`
	out, diags := run(t, src)
	assert.False(t, diags.HadRuntimeError)
	assert.Equal(t, "done\n", out)

	runtime.GC()
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	assert.Less(t, stats.HeapAlloc, uint64(200*1024*1024), "heap grew as if closures were leaking")
}

func TestInterpret_SelfInheritanceNeverReachesInterpretation(t *testing.T) {
	var out, errBuf bytes.Buffer
	diags := diagnostics.New(&out, &errBuf)
	toks := lexer.New(`class Oops < Oops {}`, diags).ScanTokens()
	stmts := parser.New(toks, diags).Parse()
	require.False(t, diags.HadError)

	resolver.New(diags).Resolve(stmts)
	assert.True(t, diags.HadError, "self-inheritance must be caught by the resolver before any interpretation runs")
}
