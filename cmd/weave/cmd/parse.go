package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weave-lang/weave/internal/lexer"
	"github.com/weave-lang/weave/internal/scriptparser"
)

var parseEvalExpr string

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a Weave script and display its node list",
	Long: `Parse Weave source and display the ordered node sequence the
lowerer consumes: labels, gotos, if/else, do/while, assignments, and
command-call statements, in source order.

If no file is provided, use -e to parse a single expression-free script
from the command line.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseEvalExpr, "eval", "e", "", "parse inline code instead of reading from file")
}

func runParse(cmd *cobra.Command, args []string) error {
	input, _, err := resolveInput(parseEvalExpr, args)
	if err != nil {
		return err
	}

	nodes, err := scriptparser.Parse(lexer.Lex(input))
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	for i, n := range nodes {
		fmt.Printf("%3d  line %-4d %-16s %s\n", i, n.Line, n.Category, n.Statement)
	}
	return nil
}
