package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ecmago/ecma/internal/ast"
	"github.com/ecmago/ecma/internal/debugdump"
	"github.com/ecmago/ecma/internal/parser"
)

var (
	astJSON   bool
	astModule bool
)

var astCmd = &cobra.Command{
	Use:   "ast [file]",
	Short: "Parse a script and print its AST",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAST,
}

func init() {
	rootCmd.AddCommand(astCmd)
	astCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "parse inline code instead of reading from file")
	astCmd.Flags().BoolVar(&astJSON, "json", false, "print the AST as JSON instead of its re-printed source form")
	astCmd.Flags().BoolVar(&astModule, "module", false, "parse as a Module goal instead of a Script")
}

func runAST(_ *cobra.Command, args []string) error {
	source, filename, _, err := readSource(evalExpr, args)
	if err != nil {
		return err
	}
	prog, perr := parseSource(source, filename, astModule)
	if perr != nil {
		return perr
	}
	if astJSON {
		return printASTJSON(prog)
	}
	fmt.Println(prog.String())
	return nil
}

func parseSource(source, filename string, asModule bool) (*ast.Program, error) {
	p := parser.New(source)
	var prog *ast.Program
	if asModule {
		prog = p.ParseModule()
	} else {
		prog = p.ParseProgram()
	}
	if errs := p.Errors(); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e.Format(true))
		}
		return nil, fmt.Errorf("parsing %s failed with %d error(s)", filename, len(errs))
	}
	return prog, nil
}

func printASTJSON(prog *ast.Program) error {
	data, err := debugdump.Program(prog)
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func printAST(source string, asModule bool) error {
	prog, err := parseSource(source, "<eval>", asModule)
	if err != nil {
		return err
	}
	fmt.Println("AST:")
	fmt.Println(prog.String())
	fmt.Println()
	return nil
}
