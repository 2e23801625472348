// Package eval implements the expression evaluator: registry variable
// substitution, tokenization, conversion to reverse Polish notation,
// and evaluation over a stack of float64s.
package eval

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/weave-lang/weave/internal/lexer"
	"github.com/weave-lang/weave/internal/token"
	"github.com/weave-lang/weave/internal/value"
)

type opInfo struct {
	precedence int
	rightAssoc bool
	arity      int
}

var operators = map[token.Kind]opInfo{
	token.BANG:  {precedence: 5, rightAssoc: true, arity: 1},
	token.STAR:  {precedence: 4, arity: 2},
	token.SLASH: {precedence: 4, arity: 2},
	token.PLUS:  {precedence: 3, arity: 2},
	token.MINUS: {precedence: 3, arity: 2},
	token.GT:    {precedence: 2, arity: 2},
	token.LT:    {precedence: 2, arity: 2},
	token.GE:    {precedence: 2, arity: 2},
	token.LE:    {precedence: 2, arity: 2},
	token.EQ:    {precedence: 2, arity: 2},
	token.NEQ:   {precedence: 2, arity: 2},
	token.AND:   {precedence: 1, arity: 2},
	token.OR:    {precedence: 0, arity: 2},
}

// IsBooleanExpression reports whether text contains any comparison or
// logical operator (including the word "not"), used by commands that
// must choose between Evaluate and EvaluateNumeric.
func IsBooleanExpression(text string) bool {
	for _, tok := range lexer.Lex(text) {
		if token.IsComparison(tok.Kind) || token.IsLogical(tok.Kind) {
			return true
		}
	}
	return false
}

// Evaluate resolves variables in expr against reg and returns its
// boolean result: a non-zero numeric result is true. A bare variable
// reference is coerced through Value.Truthy rather than through its
// numeric value, so a non-empty string variable reads as true.
func Evaluate(expr string, reg *value.Registry) (bool, error) {
	trimmed := strings.TrimSpace(expr)
	if reg != nil && isBareIdentifier(trimmed) {
		if v, _, ok := reg.GetTyped(trimmed); ok {
			return v.Truthy(), nil
		}
	}

	n, err := evaluateNumericOrLiteral(expr, reg)
	if err != nil {
		return false, err
	}
	return n != 0, nil
}

// EvaluateNumeric resolves variables in expr against reg and returns the
// raw numeric result without boolean coercion. A bare variable reference
// returns its actual numeric value (not collapsed to 0/1 by truthiness),
// so EvaluateNumeric("x") with x=10 returns 10, not 1.
func EvaluateNumeric(expr string, reg *value.Registry) (float64, error) {
	trimmed := strings.TrimSpace(expr)
	if reg != nil && isBareIdentifier(trimmed) {
		if v, _, ok := reg.GetTyped(trimmed); ok {
			n, ok := v.Numeric()
			if !ok {
				return 0, fmt.Errorf("eval: variable %q is not numeric", trimmed)
			}
			return n, nil
		}
	}
	return evaluateNumericOrLiteral(expr, reg)
}

func evaluateNumericOrLiteral(expr string, reg *value.Registry) (float64, error) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return 0, fmt.Errorf("eval: empty expression")
	}

	switch strings.ToLower(trimmed) {
	case "true":
		return 1, nil
	case "false":
		return 0, nil
	}

	substituted := expr
	if reg != nil {
		substituted = reg.ReplaceVariables(expr)
	}

	toks := stripEOF(lexer.Lex(substituted))
	if len(toks) == 0 {
		return 0, fmt.Errorf("eval: empty expression")
	}

	rpn, err := toRPN(toks)
	if err != nil {
		return 0, err
	}
	return evalRPN(rpn)
}

func isBareIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		isAlpha := c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		isDigit := c >= '0' && c <= '9'
		if i == 0 && !isAlpha {
			return false
		}
		if i > 0 && !isAlpha && !isDigit {
			return false
		}
	}
	return true
}

func stripEOF(toks []token.Token) []token.Token {
	if len(toks) > 0 && toks[len(toks)-1].Kind == token.EOF {
		return toks[:len(toks)-1]
	}
	return toks
}

// toRPN converts an infix token list into reverse Polish notation using
// the shunting-yard algorithm and the operators' precedence table.
func toRPN(toks []token.Token) ([]token.Token, error) {
	var output []token.Token
	var ops []token.Token

	for _, t := range toks {
		switch {
		case t.Kind == token.INT || t.Kind == token.FLOAT || t.Kind == token.IDENT:
			output = append(output, t)

		case t.Kind == token.LPAREN:
			ops = append(ops, t)

		case t.Kind == token.RPAREN:
			found := false
			for len(ops) > 0 {
				top := ops[len(ops)-1]
				ops = ops[:len(ops)-1]
				if top.Kind == token.LPAREN {
					found = true
					break
				}
				output = append(output, top)
			}
			if !found {
				return nil, fmt.Errorf("eval: unmatched ')'")
			}

		default:
			info, ok := operators[t.Kind]
			if !ok {
				return nil, fmt.Errorf("eval: unknown operator %q", t.Lexeme)
			}
			for len(ops) > 0 {
				top := ops[len(ops)-1]
				if top.Kind == token.LPAREN {
					break
				}
				topInfo, ok := operators[top.Kind]
				if !ok {
					break
				}
				if (info.rightAssoc && topInfo.precedence > info.precedence) ||
					(!info.rightAssoc && topInfo.precedence >= info.precedence) {
					output = append(output, top)
					ops = ops[:len(ops)-1]
					continue
				}
				break
			}
			ops = append(ops, t)
		}
	}

	for len(ops) > 0 {
		top := ops[len(ops)-1]
		ops = ops[:len(ops)-1]
		if top.Kind == token.LPAREN {
			return nil, fmt.Errorf("eval: unmatched '('")
		}
		output = append(output, top)
	}

	return output, nil
}

func evalRPN(rpn []token.Token) (float64, error) {
	var stack []float64

	pop := func() (float64, error) {
		if len(stack) == 0 {
			return 0, fmt.Errorf("eval: malformed expression")
		}
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return v, nil
	}

	for _, t := range rpn {
		switch t.Kind {
		case token.INT:
			n, err := strconv.ParseInt(t.Lexeme, 10, 64)
			if err != nil {
				return 0, fmt.Errorf("eval: invalid integer literal %q", t.Lexeme)
			}
			stack = append(stack, float64(n))

		case token.FLOAT:
			n, err := strconv.ParseFloat(t.Lexeme, 64)
			if err != nil {
				return 0, fmt.Errorf("eval: invalid numeric literal %q", t.Lexeme)
			}
			stack = append(stack, n)

		case token.IDENT:
			switch strings.ToLower(t.Lexeme) {
			case "true":
				stack = append(stack, 1)
			case "false":
				stack = append(stack, 0)
			default:
				return 0, fmt.Errorf("eval: unknown identifier %q in numeric context", t.Lexeme)
			}

		default:
			info, ok := operators[t.Kind]
			if !ok {
				return 0, fmt.Errorf("eval: unknown operator %q", t.Lexeme)
			}
			if info.arity == 1 {
				a, err := pop()
				if err != nil {
					return 0, err
				}
				stack = append(stack, applyUnary(t.Kind, a))
				continue
			}
			b, err := pop()
			if err != nil {
				return 0, err
			}
			a, err := pop()
			if err != nil {
				return 0, err
			}
			stack = append(stack, applyBinary(t.Kind, a, b))
		}
	}

	if len(stack) != 1 {
		return 0, fmt.Errorf("eval: malformed expression")
	}
	return stack[0], nil
}

func applyUnary(k token.Kind, a float64) float64 {
	if k == token.BANG {
		if a == 0 {
			return 1
		}
		return 0
	}
	return a
}

func boolF(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func applyBinary(k token.Kind, a, b float64) float64 {
	switch k {
	case token.PLUS:
		return a + b
	case token.MINUS:
		return a - b
	case token.STAR:
		return a * b
	case token.SLASH:
		return a / b
	case token.GT:
		return boolF(a > b)
	case token.LT:
		return boolF(a < b)
	case token.GE:
		return boolF(a >= b)
	case token.LE:
		return boolF(a <= b)
	case token.EQ:
		return boolF(a == b)
	case token.NEQ:
		return boolF(a != b)
	case token.AND:
		return boolF(a != 0 && b != 0)
	case token.OR:
		return boolF(a != 0 || b != 0)
	default:
		return 0
	}
}
