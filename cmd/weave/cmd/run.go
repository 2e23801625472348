package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/weave-lang/weave/internal/engine"
)

var runEvalExpr string

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a Weave script",
	Long: `Lex, parse, lower, and execute a Weave script to completion.

Examples:
  # Run a script file
  weave run script.weave

  # Evaluate an inline script
  weave run -e "setValue(x,1,Wint); Print(done);"

  # Start an interactive session, reading commands from stdin
  weave run`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runEvalExpr, "eval", "e", "", "run inline code instead of reading from file")
}

func runScript(_ *cobra.Command, args []string) error {
	if runEvalExpr == "" && len(args) == 0 {
		return repl()
	}

	input, filename, err := resolveInput(runEvalExpr, args)
	if err != nil {
		return err
	}

	eng := engine.New(engine.WithOutput(os.Stdout))
	script, err := eng.Compile(input)
	if err != nil {
		return fmt.Errorf("failed to compile %s: %w", filename, err)
	}

	in := bufio.NewScanner(os.Stdin)
	feedbackReply := ""
	for !script.Finished() {
		result := script.Step(feedbackReply)
		feedbackReply = ""
		if !result.Success && result.Message != "" {
			fmt.Fprintln(os.Stderr, result.Message)
		}
		if result.RequiresConfirmation && result.Feedback != nil {
			fmt.Printf("%s [%v]: ", result.Feedback.Prompt, result.Feedback.Options)
			if !in.Scan() {
				return fmt.Errorf("script paused awaiting confirmation, no input available")
			}
			feedbackReply = in.Text()
		}
	}
	return nil
}

// repl reads commands from stdin and feeds each line to a fresh engine's
// command runtime via ProcessInput, giving a line-at-a-time session for
// exercising commands and extensions directly.
func repl() error {
	eng := engine.New(engine.WithOutput(os.Stdout))
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		result := eng.Runtime().ProcessInput(line)
		fmt.Println(result.Message)
	}
	return scanner.Err()
}
