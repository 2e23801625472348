package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weave-lang/weave/internal/eval"
	"github.com/weave-lang/weave/internal/value"
)

var evalNumeric bool

var evalCmd = &cobra.Command{
	Use:   "eval <expr>",
	Short: "Evaluate a single expression",
	Long: `Evaluate a single arithmetic or boolean expression and print the
result, without compiling a script.

By default boolean-shaped expressions (containing a comparison or
logical operator) print as true/false; pass --numeric to always print
the raw numeric result instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)

	evalCmd.Flags().BoolVar(&evalNumeric, "numeric", false, "always print the raw numeric result")
}

func runEval(_ *cobra.Command, args []string) error {
	expr := args[0]
	reg := value.NewRegistry()

	if !evalNumeric && eval.IsBooleanExpression(expr) {
		result, err := eval.Evaluate(expr, reg)
		if err != nil {
			return fmt.Errorf("eval failed: %w", err)
		}
		fmt.Println(result)
		return nil
	}

	n, err := eval.EvaluateNumeric(expr, reg)
	if err != nil {
		return fmt.Errorf("eval failed: %w", err)
	}
	fmt.Println(n)
	return nil
}
