package cmdsyntax

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_NamespacedWithArgsAndExtension(t *testing.T) {
	inv, err := Parse(`fs:readFile("a.txt", 'utf8').tryrun(quiet)`)
	require.NoError(t, err)
	require.Equal(t, "fs", inv.Namespace)
	require.Equal(t, "readFile", inv.Name)
	require.Equal(t, []string{"a.txt", "utf8"}, inv.Args)
	require.True(t, inv.HasExtension)
	require.Equal(t, "tryrun", inv.Extension)
	require.Equal(t, []string{"quiet"}, inv.ExtensionArgs)
}

func TestParse_ZeroArgFormWithoutParens(t *testing.T) {
	inv, err := Parse("memory")
	require.NoError(t, err)
	require.Equal(t, "memory", inv.Name)
	require.Nil(t, inv.Args)
	require.False(t, inv.HasExtension)
}

func TestParse_NestedParensInArgsCountTowardDepth(t *testing.T) {
	inv, err := Parse("Evaluate(1+(2*3), x)")
	require.NoError(t, err)
	require.Equal(t, []string{"1+(2*3)", "x"}, inv.Args)
}

func TestParse_EmptyInputIsError(t *testing.T) {
	_, err := Parse("")
	require.Error(t, err)
}

func TestParse_MismatchedParensIsError(t *testing.T) {
	_, err := Parse("getValue(x")
	require.Error(t, err)
}

func TestParse_SecondTopLevelDotIsError(t *testing.T) {
	_, err := Parse("cmd(args).ext1().ext2()")
	require.Error(t, err)
}

func TestParse_CommaInsideQuotesIsNotASeparator(t *testing.T) {
	inv, err := Parse(`setValue(key, "a, b", Wstring)`)
	require.NoError(t, err)
	require.Equal(t, []string{"key", "a, b", "Wstring"}, inv.Args)
}
