package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ecmago/ecma/internal/builtins"
	"github.com/ecmago/ecma/internal/config"
	"github.com/ecmago/ecma/pkg/ecma"
)

var (
	evalExpr    string
	asModule    bool
	dumpAST     bool
	interruptMs int
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a script file or an inline expression",
	Long: `Execute a program from a file or an inline expression.

Examples:
  # Run a script file
  ecma run script.js

  # Evaluate inline code
  ecma run -e "console.log('hello')"

  # Run a file as a Module, resolving imports relative to its directory
  ecma run --module app.mjs`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
	runCmd.Flags().BoolVar(&asModule, "module", false, "run as a Module goal instead of a Script")
	runCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "print the parsed AST before running")
	runCmd.Flags().IntVar(&interruptMs, "interrupt-after", 0, "abort execution after N milliseconds (overrides .ecmarc; 0 = use the .ecmarc deadline, if any)")
}

func runScript(_ *cobra.Command, args []string) error {
	source, _, dir, err := readSource(evalExpr, args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(dir)
	if err != nil {
		return fmt.Errorf("loading .ecmarc: %w", err)
	}
	if cfg.StrictByDefault {
		source = "'use strict';\n" + source
	}

	if dumpAST {
		if err := printAST(source, asModule); err != nil {
			return err
		}
	}

	ctx := ecma.New()
	builtins.RegisterConsole(ctx.Realm(), os.Stdout)

	deadline := time.Duration(interruptMs) * time.Millisecond
	if deadline == 0 {
		deadline = cfg.InterruptTimeout
	}
	if deadline > 0 {
		timer := time.AfterFunc(deadline, ctx.Interrupt)
		defer timer.Stop()
	}

	if asModule {
		ctx.SetModuleLoader(newFileModuleLoader(dir))
		_, jsErr := ctx.EvalModule(source)
		if jsErr != nil {
			return fmt.Errorf("%s", jsErr.Error())
		}
	} else {
		_, jsErr := ctx.Eval(source)
		if jsErr != nil {
			return fmt.Errorf("%s", jsErr.Error())
		}
	}
	ctx.RunJobs()
	return nil
}

// readSource resolves the script's source text, an on-disk path for
// error messages, and the directory imports/config-loading should be
// relative to.
func readSource(evalExpr string, args []string) (source, filename, dir string, err error) {
	if evalExpr != "" {
		wd, werr := os.Getwd()
		if werr != nil {
			return "", "", "", werr
		}
		return evalExpr, "<eval>", wd, nil
	}
	if len(args) != 1 {
		return "", "", "", fmt.Errorf("either provide a file path or use -e for inline code")
	}
	content, rerr := os.ReadFile(args[0])
	if rerr != nil {
		return "", "", "", fmt.Errorf("reading %s: %w", args[0], rerr)
	}
	return string(content), args[0], filepath.Dir(args[0]), nil
}
