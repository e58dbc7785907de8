// scanner.go: lexical scanning of Lox source text.
//
// The scanner turns a source string into a flat token list (EOF included).
// Two-character operators are matched greedily ("!=" before "!"), line
// comments ("//" to end of line) and whitespace are discarded, and numeric
// literals are validated eagerly: a numeral with a trailing decimal point, or
// with two decimal points, is a scan error rather than a parse error.
//
// The first lexical error fails the whole scan. Callers that want to keep
// going after a bad line (a REPL, say) re-scan the next input on its own.
package rlox

import (
	"fmt"
	"strconv"
	"strings"
)

// ScanError reports a lexical error at a 1-based line and 0-based column.
type ScanError struct {
	Line int
	Col  int
	Text string // offending source text, may be empty
	Msg  string
}

func (e *ScanError) Error() string {
	if e.Text != "" {
		return fmt.Sprintf("SCAN ERROR at %d:%d: %s: %q", e.Line, e.Col+1, e.Msg, e.Text)
	}
	return fmt.Sprintf("SCAN ERROR at %d:%d: %s", e.Line, e.Col+1, e.Msg)
}

// Scanner scans a Lox source string into tokens.
type Scanner struct {
	src    string
	start  int // start index of current token
	cur    int // current index
	line   int // 1-based
	col    int // 0-based column within line
	tokens []Token

	// precise token start position
	tokStartLine int
	tokStartCol  int
}

// NewScanner creates a new scanner for the given source.
func NewScanner(src string) *Scanner {
	return &Scanner{src: src, line: 1}
}

func (s *Scanner) isAtEnd() bool { return s.cur >= len(s.src) }

func (s *Scanner) peek() (byte, bool) {
	if s.isAtEnd() {
		return 0, false
	}
	return s.src[s.cur], true
}

func (s *Scanner) advance() (byte, bool) {
	if s.isAtEnd() {
		return 0, false
	}
	ch := s.src[s.cur]
	s.cur++
	if ch == '\n' {
		s.line++
		s.col = 0
	} else {
		s.col++
	}
	return ch, true
}

// matchNext consumes the next byte only when it equals want.
func (s *Scanner) matchNext(want byte) bool {
	if b, ok := s.peek(); ok && b == want {
		s.advance()
		return true
	}
	return false
}

func (s *Scanner) addToken(tt TokenType, lit interface{}) Token {
	tok := Token{
		Type:    tt,
		Lexeme:  s.src[s.start:s.cur],
		Literal: lit,
		Line:    s.tokStartLine,
		Col:     s.tokStartCol,
	}
	s.tokens = append(s.tokens, tok)
	s.start = s.cur
	return tok
}

func (s *Scanner) err(msg, text string) error {
	return &ScanError{Line: s.tokStartLine, Col: s.tokStartCol, Text: text, Msg: msg}
}

// helpers

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' }
func isAlphaNum(b byte) bool {
	return isAlpha(b) || isDigit(b)
}

func (s *Scanner) skipWhitespace() {
	for !s.isAtEnd() {
		ch, _ := s.peek()
		switch ch {
		case ' ', '\r', '\n', '\t':
			s.advance()
			s.start = s.cur
		default:
			return
		}
	}
}

// ignoreUntilNewline eats until '\n' or EOF. Used for "//" comments.
func (s *Scanner) ignoreUntilNewline() {
	for {
		b, ok := s.peek()
		if !ok || b == '\n' {
			return
		}
		s.advance()
	}
}

// ----- scanners -----

// scanString parses a double-quoted string literal. Lox strings have no
// escape sequences and may span multiple lines. An unterminated string is
// fatal to the scan and is reported at the opening quote.
func (s *Scanner) scanString() (string, error) {
	for {
		ch, ok := s.advance()
		if !ok {
			return "", s.err("unterminated string", "")
		}
		if ch == '"' {
			return strings.Trim(s.src[s.start:s.cur], `"`), nil
		}
	}
}

// scanIdentifier parses [A-Za-z_][A-Za-z0-9_]*; the first char is consumed.
func (s *Scanner) scanIdentifier() string {
	for {
		b, ok := s.peek()
		if !ok || !isAlphaNum(b) {
			break
		}
		s.advance()
	}
	return s.src[s.start:s.cur]
}

// scanNumber parses digit+ ('.' digit+)?. The leading digit is consumed.
// Two decimal points, or a number that ends in a decimal point, are errors.
func (s *Scanner) scanNumber() (float64, error) {
	sawDot := false
	for {
		b, ok := s.peek()
		if !ok {
			break
		}
		if isDigit(b) {
			s.advance()
			continue
		}
		if b == '.' {
			if sawDot {
				s.advance()
				return 0, s.err("number contains two or more decimal points", s.src[s.start:s.cur])
			}
			sawDot = true
			s.advance()
			continue
		}
		break
	}

	lex := s.src[s.start:s.cur]
	if strings.HasSuffix(lex, ".") {
		return 0, s.err("no digits after decimal point", lex)
	}
	v, convErr := strconv.ParseFloat(lex, 64)
	if convErr != nil {
		return 0, s.err("invalid number literal", lex)
	}
	return v, nil
}

// ----- main scanner -----

func (s *Scanner) scanToken() (Token, error) {
	for {
		s.skipWhitespace()
		s.tokStartLine = s.line
		s.tokStartCol = s.col
		s.start = s.cur

		if s.isAtEnd() {
			return s.addToken(EOF, nil), nil
		}

		ch, _ := s.advance()

		switch ch {
		case '(':
			return s.addToken(LROUND, nil), nil
		case ')':
			return s.addToken(RROUND, nil), nil
		case '{':
			return s.addToken(LCURLY, nil), nil
		case '}':
			return s.addToken(RCURLY, nil), nil
		case ',':
			return s.addToken(COMMA, nil), nil
		case '.':
			return s.addToken(PERIOD, nil), nil
		case ';':
			return s.addToken(SEMICOLON, nil), nil
		case '+':
			return s.addToken(PLUS, nil), nil
		case '-':
			return s.addToken(MINUS, nil), nil
		case '*':
			return s.addToken(MULT, nil), nil
		case '/':
			if s.matchNext('/') {
				s.ignoreUntilNewline()
				s.start = s.cur
				continue
			}
			return s.addToken(DIV, nil), nil
		case '!':
			if s.matchNext('=') {
				return s.addToken(NEQ, nil), nil
			}
			return s.addToken(BANG, nil), nil
		case '=':
			if s.matchNext('=') {
				return s.addToken(EQ, nil), nil
			}
			return s.addToken(ASSIGN, nil), nil
		case '<':
			if s.matchNext('=') {
				return s.addToken(LESS_EQ, nil), nil
			}
			return s.addToken(LESS, nil), nil
		case '>':
			if s.matchNext('=') {
				return s.addToken(GREATER_EQ, nil), nil
			}
			return s.addToken(GREATER, nil), nil
		case '"':
			text, err := s.scanString()
			if err != nil {
				return Token{}, err
			}
			return s.addToken(STRING, text), nil
		}

		if isDigit(ch) {
			v, err := s.scanNumber()
			if err != nil {
				return Token{}, err
			}
			return s.addToken(NUMBER, v), nil
		}

		if isAlpha(ch) {
			lex := s.scanIdentifier()
			if tt, ok := keywords[lex]; ok {
				return s.addToken(tt, nil), nil
			}
			return s.addToken(ID, lex), nil
		}

		return Token{}, s.err("unsupported character", string(ch))
	}
}

// Scan tokenizes the entire source and returns tokens (EOF included).
func (s *Scanner) Scan() ([]Token, error) {
	for {
		tok, err := s.scanToken()
		if err != nil {
			return nil, err
		}
		if tok.Type == EOF {
			return s.tokens, nil
		}
	}
}
