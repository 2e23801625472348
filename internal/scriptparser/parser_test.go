package scriptparser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/weave-lang/weave/internal/ast"
	"github.com/weave-lang/weave/internal/lexer"
)

func mustParse(t *testing.T, src string) []ast.Node {
	t.Helper()
	nodes, err := Parse(lexer.Lex(src))
	require.NoError(t, err)
	return nodes
}

func categories(nodes []ast.Node) []ast.Category {
	out := make([]ast.Category, len(nodes))
	for i, n := range nodes {
		out[i] = n.Category
	}
	return out
}

func TestParse_IfElse(t *testing.T) {
	nodes := mustParse(t, `if(false){ setValue(x,1,Wint); } else { setValue(x,2,Wint); }`)
	require.Equal(t, []ast.Category{
		ast.IfCondition, ast.Command, ast.ElseOpen, ast.Command, ast.BlockClose,
	}, categories(nodes))
	require.Equal(t, "false", nodes[0].Statement)
}

func TestParse_NestedIf(t *testing.T) {
	nodes := mustParse(t, `if(true){ if(false){ setValue(x,2,Wint);} else { setValue(x,3,Wint);} }`)
	require.Equal(t, []ast.Category{
		ast.IfCondition, ast.IfCondition, ast.Command, ast.ElseOpen, ast.Command, ast.BlockClose, ast.BlockClose,
	}, categories(nodes))
}

func TestParse_DoWhile(t *testing.T) {
	nodes := mustParse(t, `do { setValue(counter, counter+1, Wint); } while(counter < 3);`)
	require.Equal(t, []ast.Category{
		ast.DoOpen, ast.Command, ast.DoEnd, ast.WhileCondition,
	}, categories(nodes))
	require.Equal(t, "counter<3", nodes[3].Statement)
}

func TestParse_LabelGoto(t *testing.T) {
	nodes := mustParse(t, `label start; setValue(counter,1,Wint); goto start;`)
	require.Equal(t, []ast.Category{ast.Label, ast.Command, ast.Goto}, categories(nodes))
	require.Equal(t, "start", nodes[0].Statement)
	require.Equal(t, "start", nodes[2].Statement)
}

func TestParse_Assignment(t *testing.T) {
	nodes := mustParse(t, `x = 2+3;`)
	require.Equal(t, []ast.Category{ast.Assignment}, categories(nodes))
	require.Equal(t, "x=2+3", nodes[0].Statement)
}

func TestParse_AssignmentFromCommandCall(t *testing.T) {
	nodes := mustParse(t, `x = getValue(score);`)
	require.Equal(t, []ast.Category{ast.Assignment}, categories(nodes))
	require.Equal(t, "x=getValue(score)", nodes[0].Statement)
}

func TestParse_ConditionWhitespaceStripped(t *testing.T) {
	nodes := mustParse(t, `if ( x > 0 ) { Print("hi"); }`)
	require.Equal(t, "x>0", nodes[0].Statement)
}

func TestParse_MissingSemicolonIsError(t *testing.T) {
	_, err := Parse(lexer.Lex(`x = 1`))
	require.Error(t, err)
}
