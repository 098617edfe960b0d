// Package debugdump serializes parsed programs and compiled bytecode to
// JSON for `ecma ast --json` / `ecma disasm --json` and for golden-fixture
// comparison in tests. Dumps are built incrementally with
// github.com/tidwall/sjson rather than encoding/json, matching the
// teacher's own indirect pull of the tidwall/gjson+tidwall/sjson pair —
// promoted here to direct, deliberate use instead of staying dead weight
// in go.sum. Fixtures are read back with github.com/tidwall/gjson.
package debugdump

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/ecmago/ecma/internal/ast"
	"github.com/ecmago/ecma/internal/bytecode"
)

// Program renders prog as JSON: one object per top-level statement giving
// its concrete node type, source span, and re-printed source text. This is
// a shallow dump deliberately — deep per-node-type field reflection would
// double as a second AST schema to keep in sync with internal/ast, and the
// re-printed text already lets a fixture diff catch any structural change.
func Program(prog *ast.Program) ([]byte, error) {
	data := []byte("{}")
	var err error
	if data, err = sjson.SetBytes(data, "sourceType", sourceType(prog)); err != nil {
		return nil, err
	}
	if data, err = sjson.SetBytes(data, "strict", prog.HasUseStrict); err != nil {
		return nil, err
	}
	for i, stmt := range prog.Body {
		data, err = appendNode(data, fmt.Sprintf("body.%d", i), stmt)
		if err != nil {
			return nil, err
		}
	}
	return data, nil
}

func sourceType(prog *ast.Program) string {
	if prog.IsModule {
		return "module"
	}
	return "script"
}

func appendNode(data []byte, path string, n ast.Node) ([]byte, error) {
	var err error
	if data, err = sjson.SetBytes(data, path+".type", fmt.Sprintf("%T", n)); err != nil {
		return nil, err
	}
	span := n.Pos()
	if data, err = sjson.SetBytes(data, path+".line", span.StartLine); err != nil {
		return nil, err
	}
	if data, err = sjson.SetBytes(data, path+".col", span.StartCol); err != nil {
		return nil, err
	}
	return sjson.SetBytes(data, path+".source", n.String())
}

// CodeBlock renders cb's disassembly as JSON: name, register/param
// counts, the constant/name/private-name pools, and the instruction
// stream (mnemonic plus raw A/B/C operands — the same information
// bytecode.Disassembler prints as text, structured for diffing).
// InnerFunctions nest under "inner".
func CodeBlock(cb *bytecode.CodeBlock) ([]byte, error) {
	data := []byte("{}")
	var err error
	fields := map[string]any{
		"name":          blockName(cb),
		"registers":     cb.RegistersNeeded,
		"params":        len(cb.Params),
		"strict":        cb.Strict,
		"isGenerator":   cb.IsGenerator,
		"isAsync":       cb.IsAsync,
		"constructable": cb.Constructable,
	}
	for k, v := range fields {
		if data, err = sjson.SetBytes(data, k, v); err != nil {
			return nil, err
		}
	}
	for i, c := range cb.Constants {
		if data, err = sjson.SetBytes(data, fmt.Sprintf("constants.%d", i), c.DebugString()); err != nil {
			return nil, err
		}
	}
	for i, n := range cb.Names {
		if data, err = sjson.SetBytes(data, fmt.Sprintf("names.%d", i), n); err != nil {
			return nil, err
		}
	}
	for i, n := range cb.PrivateNames {
		if data, err = sjson.SetBytes(data, fmt.Sprintf("privateNames.%d", i), n); err != nil {
			return nil, err
		}
	}
	for ip, inst := range cb.Instructions {
		base := fmt.Sprintf("instructions.%d", ip)
		if data, err = sjson.SetBytes(data, base+".op", inst.Op.String()); err != nil {
			return nil, err
		}
		if data, err = sjson.SetBytes(data, base+".a", inst.A); err != nil {
			return nil, err
		}
		if data, err = sjson.SetBytes(data, base+".b", inst.B); err != nil {
			return nil, err
		}
		if data, err = sjson.SetBytes(data, base+".c", inst.C); err != nil {
			return nil, err
		}
		if ip < len(cb.SourceLines) {
			if data, err = sjson.SetBytes(data, base+".line", cb.SourceLines[ip]); err != nil {
				return nil, err
			}
		}
	}
	for i, inner := range cb.InnerFunctions {
		innerJSON, err := CodeBlock(inner)
		if err != nil {
			return nil, err
		}
		if data, err = sjson.SetRawBytes(data, fmt.Sprintf("inner.%d", i), innerJSON); err != nil {
			return nil, err
		}
	}
	return data, nil
}

func blockName(cb *bytecode.CodeBlock) string {
	if cb.Name == "" {
		return "<anonymous>"
	}
	return cb.Name
}

// Field reads one dotted path out of a previously-built dump, for test
// assertions and fixture comparison — a thin gjson.GetBytes wrapper so
// callers don't need their own tidwall/gjson import just to poke at a
// dump's structure.
func Field(data []byte, path string) gjson.Result {
	return gjson.GetBytes(data, path)
}
