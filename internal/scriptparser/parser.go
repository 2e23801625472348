// Package scriptparser consumes a Weave token stream and emits the
// ordered node sequence: labels, gotos, if/else, do/while, assignments,
// and command calls, in source order.
package scriptparser

import (
	"fmt"
	"strings"

	"github.com/weave-lang/weave/internal/ast"
	"github.com/weave-lang/weave/internal/token"
)

// Parser turns a flat token slice into an ordered []ast.Node.
type Parser struct {
	toks []token.Token
	pos  int
}

// New creates a Parser over toks (typically the output of lexer.Lex).
func New(toks []token.Token) *Parser {
	return &Parser{toks: toks}
}

// Parse parses the entire token stream into an ordered node list, or the
// first syntax error encountered.
func Parse(toks []token.Token) ([]ast.Node, error) {
	p := New(toks)
	var nodes []ast.Node
	for !p.atEOF() {
		stmtNodes, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, stmtNodes...)
	}
	return nodes, nil
}

func (p *Parser) cur() token.Token  { return p.toks[p.pos] }
func (p *Parser) atEOF() bool       { return p.cur().Kind == token.EOF }
func (p *Parser) advance() token.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) expect(k token.Kind) (token.Token, error) {
	if p.cur().Kind != k {
		return token.Token{}, fmt.Errorf("scriptparser: line %d: expected %s, got %s %q",
			p.cur().Line, k, p.cur().Kind, p.cur().Lexeme)
	}
	return p.advance(), nil
}

func (p *Parser) parseStatement() ([]ast.Node, error) {
	switch p.cur().Kind {
	case token.LABEL:
		return p.parseLabel()
	case token.GOTO:
		return p.parseGoto()
	case token.IF:
		return p.parseIf()
	case token.DO:
		return p.parseDo()
	case token.IDENT:
		return p.parseIdentStatement()
	default:
		return nil, fmt.Errorf("scriptparser: line %d: unexpected token %s %q",
			p.cur().Line, p.cur().Kind, p.cur().Lexeme)
	}
}

func (p *Parser) parseLabel() ([]ast.Node, error) {
	line := p.cur().Line
	p.advance() // label
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, missingSemi(line)
	}
	return []ast.Node{{Category: ast.Label, Statement: name.Lexeme, Line: line}}, nil
}

func (p *Parser) parseGoto() ([]ast.Node, error) {
	line := p.cur().Line
	p.advance() // goto
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, missingSemi(line)
	}
	return []ast.Node{{Category: ast.Goto, Statement: name.Lexeme, Line: line}}, nil
}

func (p *Parser) parseIdentStatement() ([]ast.Node, error) {
	line := p.cur().Line
	name := p.advance()

	switch p.cur().Kind {
	case token.ASSIGN:
		p.advance()
		rhs, err := p.collectUntilSemi()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.SEMI); err != nil {
			return nil, missingSemi(line)
		}
		stmt := name.Lexeme + "=" + render(rhs)
		return []ast.Node{{Category: ast.Assignment, Statement: stmt, Line: line}}, nil

	case token.LPAREN:
		callToks, err := p.collectBalancedCall()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.SEMI); err != nil {
			return nil, missingSemi(line)
		}
		stmt := name.Lexeme + render(callToks)
		return []ast.Node{{Category: ast.Command, Statement: stmt, Line: line}}, nil

	default:
		return nil, fmt.Errorf("scriptparser: line %d: expected '=' or '(' after %q, got %s",
			line, name.Lexeme, p.cur().Kind)
	}
}

// collectBalancedCall consumes a leading '(' through its matching ')'
// (inclusive) and returns the consumed tokens.
func (p *Parser) collectBalancedCall() ([]token.Token, error) {
	if p.cur().Kind != token.LPAREN {
		return nil, fmt.Errorf("scriptparser: line %d: expected '('", p.cur().Line)
	}
	depth := 0
	var out []token.Token
	for {
		if p.atEOF() {
			return nil, fmt.Errorf("scriptparser: unmatched '(' starting near line %d", p.cur().Line)
		}
		t := p.advance()
		out = append(out, t)
		if t.Kind == token.LPAREN {
			depth++
		} else if t.Kind == token.RPAREN {
			depth--
			if depth == 0 {
				return out, nil
			}
		}
	}
}

// collectUntilSemi consumes tokens up to (not including) a top-level
// SEMI, honouring nested parentheses so a RHS call's own ';'-free
// argument list doesn't confuse the scan.
func (p *Parser) collectUntilSemi() ([]token.Token, error) {
	depth := 0
	var out []token.Token
	for {
		if p.atEOF() {
			return nil, fmt.Errorf("scriptparser: unterminated statement (missing ';')")
		}
		if p.cur().Kind == token.SEMI && depth == 0 {
			return out, nil
		}
		t := p.advance()
		if t.Kind == token.LPAREN {
			depth++
		} else if t.Kind == token.RPAREN {
			depth--
		}
		out = append(out, t)
	}
}

// collectParenExpr consumes a leading '(' , the balanced expression
// inside it, and the matching ')', returning only the inner tokens.
func (p *Parser) collectParenExpr() ([]token.Token, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	depth := 0
	var out []token.Token
	for {
		if p.atEOF() {
			return nil, fmt.Errorf("scriptparser: unmatched '(' near line %d", p.cur().Line)
		}
		if p.cur().Kind == token.RPAREN && depth == 0 {
			p.advance()
			return out, nil
		}
		t := p.advance()
		if t.Kind == token.LPAREN {
			depth++
		} else if t.Kind == token.RPAREN {
			depth--
		}
		out = append(out, t)
	}
}

func (p *Parser) parseIf() ([]ast.Node, error) {
	line := p.cur().Line
	p.advance() // if
	condToks, err := p.collectParenExpr()
	if err != nil {
		return nil, err
	}
	nodes := []ast.Node{{Category: ast.IfCondition, Statement: render(condToks), Line: line}}

	bodyNodes, err := p.parseBracedBlock()
	if err != nil {
		return nil, err
	}
	nodes = append(nodes, bodyNodes...)

	if p.cur().Kind == token.ELSE {
		elseLine := p.cur().Line
		p.advance()
		nodes = append(nodes, ast.Node{Category: ast.ElseOpen, Line: elseLine})
		elseNodes, err := p.parseBracedBlock()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, elseNodes...)
	}

	nodes = append(nodes, ast.Node{Category: ast.BlockClose, Line: line})
	return nodes, nil
}

func (p *Parser) parseDo() ([]ast.Node, error) {
	line := p.cur().Line
	p.advance() // do
	nodes := []ast.Node{{Category: ast.DoOpen, Line: line}}

	bodyNodes, err := p.parseBracedBlock()
	if err != nil {
		return nil, err
	}
	nodes = append(nodes, bodyNodes...)

	nodes = append(nodes, ast.Node{Category: ast.DoEnd, Line: line})

	if _, err := p.expect(token.WHILE); err != nil {
		return nil, err
	}
	condToks, err := p.collectParenExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, missingSemi(line)
	}
	nodes = append(nodes, ast.Node{Category: ast.WhileCondition, Statement: render(condToks), Line: line})
	return nodes, nil
}

func (p *Parser) parseBracedBlock() ([]ast.Node, error) {
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	var nodes []ast.Node
	for p.cur().Kind != token.RBRACE {
		if p.atEOF() {
			return nil, fmt.Errorf("scriptparser: unterminated block (missing '}')")
		}
		stmtNodes, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, stmtNodes...)
	}
	p.advance() // }
	return nodes, nil
}

func missingSemi(line int) error {
	return fmt.Errorf("scriptparser: line %d: statement must end with ';'", line)
}

// render reconstructs source-ish text from a token slice with all
// whitespace stripped (e.g. "x > 0" -> "x>0"), restoring quotes around
// STRING lexemes and a comma separator (no trailing space) between
// arguments so the result re-parses identically via cmdsyntax/eval.
func render(toks []token.Token) string {
	var sb strings.Builder
	for _, t := range toks {
		switch t.Kind {
		case token.STRING:
			sb.WriteByte('"')
			sb.WriteString(t.Lexeme)
			sb.WriteByte('"')
		default:
			sb.WriteString(t.Lexeme)
		}
	}
	return sb.String()
}
