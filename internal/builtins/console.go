// Package builtins holds registration-surface hooks an embedder wires in
// through Realm.RegisterGlobalProperty/RegisterGlobalClass. The full
// standard library is out of scope; this package exists to demonstrate
// the hook surface with one genuinely useful built-in.
package builtins

import (
	"fmt"
	"io"
	"strings"

	"github.com/ecmago/ecma/internal/errors"
	"github.com/ecmago/ecma/internal/object"
	"github.com/ecmago/ecma/internal/realm"
	"github.com/ecmago/ecma/internal/value"
)

// RegisterConsole installs a `console` global whose log/info/warn/error
// methods all format their arguments the way Node's console.log does for
// primitives (space-separated DebugString) and write to w, closing over
// an io.Writer the way the teacher's builtinPrint/builtinPrintLn close
// over an output writer rather than hard-coding os.Stdout.
func RegisterConsole(r *realm.Realm, w io.Writer) {
	consoleObj := object.New(r.Intr.ObjectProto)
	consoleObj.SetClassName("console")

	logFn := func(this value.Value, args []value.Value, _ *object.Object) (value.Value, *errors.JsError) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = consoleFormat(a)
		}
		fmt.Fprintln(w, strings.Join(parts, " "))
		return value.Undefined(), nil
	}

	for _, name := range []string{"log", "info", "warn", "error", "debug"} {
		fn := object.NewNativeFunction(r.Intr.FunctionProto, name, 0, false, logFn)
		consoleObj.DefineDataProperty(object.StringKey(r.Interner.InternGo(name)), value.ObjectValue(fn), true, false, true)
	}

	r.RegisterGlobalProperty("console", value.ObjectValue(consoleObj), true, false, true)
}

// consoleFormat renders one logged value: strings print bare (no quotes,
// matching console.log's top-level-argument behavior), everything else
// uses its DebugString.
func consoleFormat(v value.Value) string {
	if v.IsString() {
		return v.AsString().GoString()
	}
	return v.DebugString()
}
