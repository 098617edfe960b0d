package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ecmago/ecma/internal/bytecode"
	"github.com/ecmago/ecma/internal/debugdump"
)

var (
	disasmJSON   bool
	disasmModule bool
)

var disasmCmd = &cobra.Command{
	Use:   "disasm [file]",
	Short: "Compile a script and print its bytecode disassembly",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDisasm,
}

func init() {
	rootCmd.AddCommand(disasmCmd)
	disasmCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "compile inline code instead of reading from file")
	disasmCmd.Flags().BoolVar(&disasmJSON, "json", false, "print the disassembly as JSON instead of text")
	disasmCmd.Flags().BoolVar(&disasmModule, "module", false, "compile as a Module goal instead of a Script")
}

func runDisasm(_ *cobra.Command, args []string) error {
	source, filename, _, err := readSource(evalExpr, args)
	if err != nil {
		return err
	}

	var cb *bytecode.CodeBlock
	if disasmModule {
		prog, perr := parseSource(source, filename, true)
		if perr != nil {
			return perr
		}
		info, errs := bytecode.CompileModule(prog, source)
		if len(errs) > 0 {
			return fmt.Errorf("compiling %s: %s", filename, errs[0].Error())
		}
		cb = info.Code
	} else {
		prog, perr := parseSource(source, filename, false)
		if perr != nil {
			return perr
		}
		block, errs := bytecode.CompileScript(prog, false, source)
		if len(errs) > 0 {
			return fmt.Errorf("compiling %s: %s", filename, errs[0].Error())
		}
		cb = block
	}

	if disasmJSON {
		data, err := debugdump.CodeBlock(cb)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}
	bytecode.NewDisassembler(cb, os.Stdout).Disassemble()
	return nil
}
