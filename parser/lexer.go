package parser

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode"
)

// Lexer turns policy source into tokens, tracking line and column for error
// reporting. Identifiers are opaque: number-like and '$' prefixed tokens lex
// as IDENT like everything else.
type Lexer struct {
	lookaheadRunes  []rune
	lookaheadWidths []int
	reader          *bufio.Reader
	buf             bytes.Buffer // Temporary buffer for scanned text
	pos             int          // Current byte offset from the beginning of the input
	lastError       error

	// Position tracking for the current token
	tokenStartPos  int
	tokenStartLine int
	tokenStartCol  int
	tokenText      string

	// Current line and column (rune based) in the input
	line int
	col  int
}

// NewLexer creates a new lexer instance
func NewLexer(r io.Reader) *Lexer {
	return &Lexer{
		reader: bufio.NewReader(r),
		line:   1,
		col:    1,
	}
}

// Err returns the error the lexer ran into, if any. An unterminated block
// comment reports as incomplete input so the REPL can keep reading.
func (l *Lexer) Err() error {
	return l.lastError
}

// Text returns the raw text of the most recently lexed token.
func (l *Lexer) Text() string {
	return l.tokenText
}

// --- Rune reading helpers (with line/col tracking) ---

func (l *Lexer) read() (r rune, width int) {
	if l.peek() == eofRune {
		return eofRune, 0
	}
	r, width = l.lookaheadRunes[0], l.lookaheadWidths[0]
	l.lookaheadRunes, l.lookaheadWidths = l.lookaheadRunes[1:], l.lookaheadWidths[1:]
	l.updatePosition(r, width)
	return r, width
}

func (l *Lexer) updatePosition(r rune, width int) {
	l.pos += width
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

const eofRune = rune(0)

func (l *Lexer) peek() rune {
	if len(l.lookaheadRunes) == 0 {
		r, width, err := l.reader.ReadRune()
		if err != nil {
			return eofRune
		}
		l.lookaheadRunes = []rune{r}
		l.lookaheadWidths = []int{width}
	}
	return l.lookaheadRunes[0]
}

func (l *Lexer) ensureLookAhead(numchars int) int {
	for len(l.lookaheadRunes) < numchars {
		r, width, err := l.reader.ReadRune()
		if err != nil {
			break
		}
		l.lookaheadRunes = append(l.lookaheadRunes, r)
		l.lookaheadWidths = append(l.lookaheadWidths, width)
	}
	return len(l.lookaheadRunes)
}

func (l *Lexer) hasPrefix(prefix string, consume bool) bool {
	nchars := len(prefix)
	if l.ensureLookAhead(nchars) < nchars {
		return false
	}
	for i := 0; i < nchars; i++ {
		if l.lookaheadRunes[i] != rune(prefix[i]) {
			return false
		}
	}
	if consume {
		for i := 0; i < nchars; i++ {
			l.updatePosition(l.lookaheadRunes[i], l.lookaheadWidths[i])
		}
		l.lookaheadRunes = l.lookaheadRunes[nchars:]
		l.lookaheadWidths = l.lookaheadWidths[nchars:]
	}
	return true
}

func (l *Lexer) readTill(stop rune, skip bool) (foundeof bool) {
	for {
		r := l.peek()
		if r == eofRune {
			return true
		}
		if r == stop {
			if skip {
				l.read()
			}
			return false
		}
		l.read()
	}
}

// --- Scanning ---

// skipWhitespace consumes spaces and comments. Returns true at end of input.
func (l *Lexer) skipWhitespace() bool {
	for {
		r := l.peek()
		if r == eofRune {
			return true
		}
		if unicode.IsSpace(r) {
			l.read()
		} else if l.hasPrefix("//", true) {
			l.readTill('\n', true)
		} else if l.hasPrefix("/*", true) {
			if l.skipBlockComment() {
				return true
			}
		} else {
			return false
		}
	}
}

func (l *Lexer) skipBlockComment() (foundeof bool) {
	sawStar := false
	for {
		r, _ := l.read()
		if r == eofRune {
			l.lastError = fmt.Errorf("%w: unterminated block comment", ErrIncomplete)
			return true
		}
		if sawStar && r == '/' {
			return false
		}
		sawStar = r == '*'
	}
}

func isIdentRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '$'
}

func (l *Lexer) scanIdentifier() string {
	l.buf.Reset()
	for r := l.peek(); r != eofRune && isIdentRune(r); r = l.peek() {
		l.read()
		l.buf.WriteRune(r)
	}
	return l.buf.String()
}

// Lex scans and returns the next token.
func (l *Lexer) Lex() Token {
	foundEOF := l.skipWhitespace()

	l.tokenStartPos = l.pos
	l.tokenStartLine = l.line
	l.tokenStartCol = l.col
	l.tokenText = ""

	if foundEOF {
		return l.token(eof, "")
	}

	r := l.peek()
	if isIdentRune(r) {
		text := l.scanIdentifier()
		if text == "fn" {
			return l.token(FN, text)
		}
		return l.token(IDENT, text)
	}

	switch r {
	case '=':
		l.read()
		return l.token(ASSIGN, "=")
	case '(':
		l.read()
		return l.token(LPAREN, "(")
	case ')':
		l.read()
		return l.token(RPAREN, ")")
	case '{':
		l.read()
		return l.token(LBRACE, "{")
	case '}':
		l.read()
		return l.token(RBRACE, "}")
	case ',':
		l.read()
		return l.token(COMMA, ",")
	case ';':
		l.read()
		return l.token(SEMICOLON, ";")
	case '|':
		l.read()
		if l.peek() == '|' {
			l.read()
			return l.token(OR, "||")
		}
		return l.token(ILLEGAL, "|")
	case '&':
		l.read()
		if l.peek() == '&' {
			l.read()
			return l.token(AND, "&&")
		}
		return l.token(ILLEGAL, "&")
	default:
		l.read()
		return l.token(ILLEGAL, string(r))
	}
}

func (l *Lexer) token(kind int, text string) Token {
	l.tokenText = text
	return Token{
		Kind: kind,
		Text: text,
		Pos:  l.tokenStartPos,
		End:  l.pos,
		Line: l.tokenStartLine,
		Col:  l.tokenStartCol,
	}
}
