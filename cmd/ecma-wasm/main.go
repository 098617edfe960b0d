//go:build js && wasm

// Package main is the WebAssembly entry point for the engine. It exports
// a small Eval/EvalModule API to JavaScript and keeps the Go runtime
// alive for the lifetime of the page, the same shape as the teacher's
// own cmd/dwscript-wasm/main.go.
//
// Build with:
//
//	GOOS=js GOARCH=wasm go build -o ecma.wasm ./cmd/ecma-wasm
//
// Usage from JavaScript:
//
//	<script src="wasm_exec.js"></script>
//	<script>
//	  const go = new Go();
//	  WebAssembly.instantiateStreaming(fetch("ecma.wasm"), go.importObject)
//	    .then((result) => {
//	      go.run(result.instance);
//	      // window.Ecma.eval("1 + 1") is now available
//	    });
//	</script>
package main

import (
	"syscall/js"

	"github.com/ecmago/ecma/internal/builtins"
	"github.com/ecmago/ecma/pkg/ecma"
)

func main() {
	done := make(chan struct{})

	registerAPI()
	js.Global().Get("console").Call("log", "ecma WASM module initialized")

	<-done
}

// registerAPI builds one Context per page load and exposes it under
// window.Ecma. Every script the page evaluates shares that Context, so
// globals and module state persist across calls the way a REPL would
// expect.
func registerAPI() {
	ctx := ecma.New()
	builtins.RegisterConsole(ctx.Realm(), consoleWriter{})

	api := js.Global().Get("Object").New()
	api.Set("eval", js.FuncOf(makeEvalFunc(ctx, false)))
	api.Set("evalModule", js.FuncOf(makeEvalFunc(ctx, true)))
	js.Global().Set("Ecma", api)
}

// makeEvalFunc returns a js.Func body evaluating args[0] as either a
// Script or a Module, returning {value, error} to JavaScript: exactly
// one of the two fields is set, mirroring the Result<Value, JsError>
// shape Eval/EvalModule return in Go.
func makeEvalFunc(ctx *ecma.Context, asModule bool) func(this js.Value, args []js.Value) any {
	return func(this js.Value, args []js.Value) any {
		if len(args) < 1 {
			return resultObject("", "eval requires one string argument")
		}
		source := args[0].String()

		var v ecma.Value
		var jsErr *ecma.Error
		if asModule {
			v, jsErr = ctx.EvalModule(source)
		} else {
			v, jsErr = ctx.Eval(source)
		}
		if jsErr != nil {
			return resultObject("", jsErr.Error())
		}
		ctx.RunJobs()
		return resultObject(v.DebugString(), "")
	}
}

func resultObject(value, errMsg string) js.Value {
	obj := js.Global().Get("Object").New()
	if errMsg != "" {
		obj.Set("error", errMsg)
		return obj
	}
	obj.Set("value", value)
	return obj
}

// consoleWriter adapts console.log/info/warn/error calls to the
// JavaScript console object's own log, so output from scripts running
// inside the WASM module shows up in the browser devtools console
// instead of being swallowed.
type consoleWriter struct{}

func (consoleWriter) Write(p []byte) (int, error) {
	js.Global().Get("console").Call("log", string(p))
	return len(p), nil
}
