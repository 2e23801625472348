package cmd

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// captureStdout redirects os.Stdout for the duration of fn and returns
// everything written to it. The CLI commands print straight to
// os.Stdout (as the teacher's own dwscript commands do), so this is the
// only way to observe their output without spawning a subprocess.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	require.NoError(t, w.Close())
	os.Stdout = old

	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

func TestVersionCommand_PrintsVersion(t *testing.T) {
	out := captureStdout(t, func() {
		rootCmd.SetArgs([]string{"version"})
		require.NoError(t, rootCmd.Execute())
	})
	require.Contains(t, out, "weave version")
}

func TestEvalCommand_NumericExpression(t *testing.T) {
	out := captureStdout(t, func() {
		rootCmd.SetArgs([]string{"eval", "2+3*4"})
		require.NoError(t, rootCmd.Execute())
	})
	require.Contains(t, out, "14")
}

func TestEvalCommand_BooleanExpression(t *testing.T) {
	out := captureStdout(t, func() {
		rootCmd.SetArgs([]string{"eval", "1<2"})
		require.NoError(t, rootCmd.Execute())
	})
	require.Contains(t, out, "true")
}

func TestLexCommand_InlineExpression(t *testing.T) {
	out := captureStdout(t, func() {
		rootCmd.SetArgs([]string{"lex", "-e", "x = 1;"})
		require.NoError(t, rootCmd.Execute())
	})
	require.Contains(t, out, `"x"`)
	require.Contains(t, out, "EOF")
}

func TestParseCommand_InlineScript(t *testing.T) {
	out := captureStdout(t, func() {
		rootCmd.SetArgs([]string{"parse", "-e", "label start; goto start;"})
		require.NoError(t, rootCmd.Execute())
	})
	require.Contains(t, out, "Label")
	require.Contains(t, out, "Goto")
}

func TestRunCommand_InlineScript(t *testing.T) {
	out := captureStdout(t, func() {
		rootCmd.SetArgs([]string{"run", "-e", "Print(hello);"})
		require.NoError(t, rootCmd.Execute())
	})
	require.Contains(t, out, "hello")
}
