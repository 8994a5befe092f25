package interpreter

import (
	"fmt"
	"time"
)

// registerBuiltins installs the language's small set of native functions
// into the interpreter's global environment. clock and input are the only
// two named in the spec; both are grounded on the Python reference
// implementation's registration of the same pair in its own global
// environment.
func registerBuiltins(interp *Interpreter) {
	interp.globals.Define("clock", NewBuiltin("clock", 0, func(interp *Interpreter, args []Value) (Value, error) {
		return Number(float64(time.Now().UnixNano()) / 1e9), nil
	}))

	interp.globals.Define("input", NewBuiltin("input", 1, func(interp *Interpreter, args []Value) (Value, error) {
		// Any value is accepted and stringified, matching
		// original_source/LoxInput.py's unconditional str(arguments[0]).
		fmt.Fprint(interp.diags.Stdout, args[0].String())

		if interp.stdin.Scan() {
			return String(interp.stdin.Text()), nil
		}
		return Nil{}, nil
	}))
}
