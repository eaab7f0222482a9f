package parser

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	gfn "github.com/panyam/goutils/fn"

	"github.com/panyam/minsc/ast"
)

// ErrIncomplete marks input that ended in the middle of a construct. A REPL
// matches it with IsIncomplete and prompts for a continuation line instead
// of reporting a failure.
var ErrIncomplete = errors.New("incomplete input")

// Error is a parse failure with its source position.
type Error struct {
	Line       int
	Col        int
	Near       string
	Msg        string
	Incomplete bool
}

func (e *Error) Error() string {
	if e.Near != "" {
		return fmt.Sprintf("parse error at line %d, col %d near '%s': %s", e.Line, e.Col, e.Near, e.Msg)
	}
	return fmt.Sprintf("parse error at line %d, col %d: %s", e.Line, e.Col, e.Msg)
}

// Is lets errors.Is(err, ErrIncomplete) see through the position info.
func (e *Error) Is(target error) bool {
	return target == ErrIncomplete && e.Incomplete
}

// IsIncomplete reports whether err means the input ran out mid construct.
func IsIncomplete(err error) bool {
	return errors.Is(err, ErrIncomplete)
}

// Parser is a hand written LL parser over the lexer's token stream. Two
// tokens of lookahead distinguish `name = ...` statements from a trailing
// expression starting with the same identifier.
type Parser struct {
	lexer  *Lexer
	peeked []Token
}

// NewParser wraps a lexer.
func NewParser(lexer *Lexer) *Parser {
	return &Parser{lexer: lexer}
}

func (p *Parser) peekN(n int) Token {
	for len(p.peeked) <= n {
		p.peeked = append(p.peeked, p.lexer.Lex())
	}
	return p.peeked[n]
}

// PeekToken returns the next token without consuming it.
func (p *Parser) PeekToken() Token {
	return p.peekN(0)
}

// Advance consumes and returns the next token.
func (p *Parser) Advance() Token {
	tok := p.peekN(0)
	p.peeked = p.peeked[1:]
	return tok
}

// Expect checks that the next token is one of the given kinds without
// consuming it.
func (p *Parser) Expect(kinds ...int) (Token, error) {
	tok := p.PeekToken()
	for _, kind := range kinds {
		if tok.Kind == kind {
			return tok, nil
		}
	}
	expected := gfn.Map(kinds, func(k int) string { return TokenString(k) })
	if len(expected) == 1 {
		return tok, p.errorf(tok, "expected %s, found %s", expected[0], TokenString(tok.Kind))
	}
	return tok, p.errorf(tok, "expected one of [%s], found %s", strings.Join(expected, ", "), TokenString(tok.Kind))
}

// AdvanceIf expects one of the given kinds and consumes the token if found.
func (p *Parser) AdvanceIf(kinds ...int) (Token, error) {
	if _, err := p.Expect(kinds...); err != nil {
		return Token{}, err
	}
	return p.Advance(), nil
}

// errorf builds a positioned parse error. Errors at end of input count as
// incomplete so multi line entry works.
func (p *Parser) errorf(tok Token, format string, args ...any) error {
	return &Error{
		Line:       tok.Line,
		Col:        tok.Col,
		Near:       tok.Text,
		Msg:        fmt.Sprintf(format, args...),
		Incomplete: tok.Kind == eof,
	}
}

// --- Grammar ---

// ParseProgram parses a whole source unit: statements followed by an
// optional trailing expression. The result is a Block whose Return is nil
// when the program is statements only.
func (p *Parser) ParseProgram() (*ast.Block, error) {
	block := &ast.Block{}
	for {
		tok := p.PeekToken()
		switch {
		case tok.Kind == eof:
			if err := p.lexer.Err(); err != nil {
				return nil, err
			}
			block.StopPos = tok.Pos
			return block, nil
		case tok.Kind == SEMICOLON:
			p.Advance()
		case p.atStmt():
			stmt, err := p.parseStmt()
			if err != nil {
				return nil, err
			}
			block.Stmts = append(block.Stmts, stmt)
		default:
			expr, err := p.ParseExpr()
			if err != nil {
				return nil, err
			}
			block.Return = expr
			for p.PeekToken().Kind == SEMICOLON {
				p.Advance()
			}
			if _, err := p.Expect(eof); err != nil {
				return nil, err
			}
			if err := p.lexer.Err(); err != nil {
				return nil, err
			}
			block.StopPos = expr.End()
			return block, nil
		}
	}
}

// atStmt reports whether the next tokens start a statement.
func (p *Parser) atStmt() bool {
	tok := p.PeekToken()
	return tok.Kind == FN || (tok.Kind == IDENT && p.peekN(1).Kind == ASSIGN)
}

func (p *Parser) parseStmt() (ast.Stmt, error) {
	if p.PeekToken().Kind == FN {
		return p.parseFnDef()
	}
	return p.parseAssign()
}

// parseAssign parses `name = expr;`.
func (p *Parser) parseAssign() (*ast.Assign, error) {
	nameTok, err := p.AdvanceIf(IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.AdvanceIf(ASSIGN); err != nil {
		return nil, err
	}
	value, err := p.ParseExpr()
	if err != nil {
		return nil, err
	}
	semiTok, err := p.AdvanceIf(SEMICOLON)
	if err != nil {
		return nil, err
	}
	return &ast.Assign{
		StmtBase: stmtBase(nameTok.Pos, semiTok.End),
		Name:     ast.Ident(nameTok.Text),
		Value:    value,
	}, nil
}

// parseFnDef parses `fn name(p1, p2, ...) = expr;`.
func (p *Parser) parseFnDef() (*ast.FnDef, error) {
	fnTok := p.Advance()
	nameTok, err := p.AdvanceIf(IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.AdvanceIf(LPAREN); err != nil {
		return nil, err
	}
	var params []ast.Ident
	if p.PeekToken().Kind != RPAREN {
		for {
			paramTok, err := p.AdvanceIf(IDENT)
			if err != nil {
				return nil, err
			}
			params = append(params, ast.Ident(paramTok.Text))
			if p.PeekToken().Kind != COMMA {
				break
			}
			p.Advance()
		}
	}
	if _, err := p.AdvanceIf(RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.AdvanceIf(ASSIGN); err != nil {
		return nil, err
	}
	body, err := p.ParseExpr()
	if err != nil {
		return nil, err
	}
	semiTok, err := p.AdvanceIf(SEMICOLON)
	if err != nil {
		return nil, err
	}
	return &ast.FnDef{
		StmtBase: stmtBase(fnTok.Pos, semiTok.End),
		Name:     ast.Ident(nameTok.Text),
		Params:   params,
		Body:     body,
	}, nil
}

// ParseExpr parses one expression. Precedence from loosest to tightest:
// ||, &&, then calls / blocks / parens / bare identifiers.
func (p *Parser) ParseExpr() (ast.Expr, error) {
	return p.parseOr()
}

func (p *Parser) parseOr() (ast.Expr, error) {
	first, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	if p.PeekToken().Kind != OR {
		return first, nil
	}
	exprs := []ast.Expr{first}
	for p.PeekToken().Kind == OR {
		p.Advance()
		next, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, next)
	}
	return &ast.Or{ExprBase: exprBaseSpan(exprs), Exprs: exprs}, nil
}

func (p *Parser) parseAnd() (ast.Expr, error) {
	first, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if p.PeekToken().Kind != AND {
		return first, nil
	}
	exprs := []ast.Expr{first}
	for p.PeekToken().Kind == AND {
		p.Advance()
		next, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, next)
	}
	return &ast.And{ExprBase: exprBaseSpan(exprs), Exprs: exprs}, nil
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	tok := p.PeekToken()
	switch tok.Kind {
	case IDENT:
		if p.peekN(1).Kind == LPAREN {
			return p.parseFnCall()
		}
		p.Advance()
		return &ast.ValueExpr{
			ExprBase: exprBase(tok.Pos, tok.End),
			Ident:    ast.Ident(tok.Text),
		}, nil
	case LBRACE:
		return p.parseBlock()
	case LPAREN:
		p.Advance()
		inner, err := p.ParseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.AdvanceIf(RPAREN); err != nil {
			return nil, err
		}
		return inner, nil
	default:
		return nil, p.errorf(tok, "expected an expression, found %s", TokenString(tok.Kind))
	}
}

// parseFnCall parses `name(arg1, arg2, ...)`.
func (p *Parser) parseFnCall() (*ast.FnCall, error) {
	nameTok := p.Advance()
	p.Advance() // LPAREN, guaranteed by the caller's lookahead
	var args []ast.Expr
	if p.PeekToken().Kind != RPAREN {
		for {
			arg, err := p.ParseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.PeekToken().Kind != COMMA {
				break
			}
			p.Advance()
		}
	}
	rparenTok, err := p.AdvanceIf(RPAREN)
	if err != nil {
		return nil, err
	}
	return &ast.FnCall{
		ExprBase: exprBase(nameTok.Pos, rparenTok.End),
		Name:     ast.Ident(nameTok.Text),
		Args:     args,
	}, nil
}

// parseBlock parses `{ stmt; ...; expr }`. The trailing expression is
// required inside braces.
func (p *Parser) parseBlock() (*ast.Block, error) {
	lbraceTok := p.Advance()
	block := &ast.Block{}
	for {
		tok := p.PeekToken()
		switch {
		case tok.Kind == SEMICOLON:
			p.Advance()
		case tok.Kind == eof:
			return nil, p.errorf(tok, "unterminated block")
		case tok.Kind == RBRACE:
			return nil, p.errorf(tok, "block must end with an expression")
		case p.atStmt():
			stmt, err := p.parseStmt()
			if err != nil {
				return nil, err
			}
			block.Stmts = append(block.Stmts, stmt)
		default:
			expr, err := p.ParseExpr()
			if err != nil {
				return nil, err
			}
			block.Return = expr
			rbraceTok, err := p.AdvanceIf(RBRACE)
			if err != nil {
				return nil, err
			}
			block.ExprBase = exprBase(lbraceTok.Pos, rbraceTok.End)
			return block, nil
		}
	}
}

// --- Node info helpers ---

func exprBase(start, stop int) ast.ExprBase {
	return ast.ExprBase{NodeInfo: ast.NewNodeInfo(start, stop)}
}

func stmtBase(start, stop int) ast.StmtBase {
	return ast.StmtBase{NodeInfo: ast.NewNodeInfo(start, stop)}
}

func exprBaseSpan(exprs []ast.Expr) ast.ExprBase {
	return exprBase(exprs[0].Pos(), exprs[len(exprs)-1].End())
}

// --- Entry points ---

// Parse parses a complete program from r.
func Parse(r io.Reader) (*ast.Block, error) {
	return NewParser(NewLexer(r)).ParseProgram()
}

// ParseString parses a complete program from source text.
func ParseString(src string) (*ast.Block, error) {
	return Parse(strings.NewReader(src))
}

// ParseFile parses the program in the file at path.
func ParseFile(path string) (*ast.Block, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// ParseExprString parses a single expression, rejecting trailing input.
func ParseExprString(src string) (ast.Expr, error) {
	p := NewParser(NewLexer(strings.NewReader(src)))
	expr, err := p.ParseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.Expect(eof); err != nil {
		return nil, err
	}
	if err := p.lexer.Err(); err != nil {
		return nil, err
	}
	return expr, nil
}
