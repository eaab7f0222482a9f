package parser

import "fmt"

// Ensure EOF is defined
const eof = 0

// Token kinds produced by the lexer.
const (
	IDENT = iota + 1
	FN
	ASSIGN
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	COMMA
	SEMICOLON
	OR
	AND
	ILLEGAL
)

// Token is one lexed token together with its source span.
type Token struct {
	Kind int
	Text string
	Pos  int // starting byte offset
	End  int // ending byte offset (exclusive)
	Line int // 1 based line of the first rune
	Col  int // 1 based column of the first rune
}

// TokenString returns a printable name for a token kind.
func TokenString(tok int) string {
	switch tok {
	case eof:
		return "<eof>"
	case IDENT:
		return "IDENT"
	case FN:
		return "'fn'"
	case ASSIGN:
		return "'='"
	case LPAREN:
		return "'('"
	case RPAREN:
		return "')'"
	case LBRACE:
		return "'{'"
	case RBRACE:
		return "'}'"
	case COMMA:
		return "','"
	case SEMICOLON:
		return "';'"
	case OR:
		return "'||'"
	case AND:
		return "'&&'"
	case ILLEGAL:
		return "<illegal>"
	}
	return fmt.Sprintf("<tok:%d>", tok)
}
