package rlox

import "fmt"

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota

	// Punctuation
	LROUND    // "("
	RROUND    // ")"
	LCURLY    // "{"
	RCURLY    // "}"
	COMMA     // ","
	PERIOD    // "."
	SEMICOLON // ";"

	// Operators
	PLUS
	MINUS
	MULT
	DIV
	BANG       // "!"
	NEQ        // "!="
	ASSIGN     // "="
	EQ         // "=="
	LESS       // "<"
	LESS_EQ    // "<="
	GREATER    // ">"
	GREATER_EQ // ">="

	// Literals & identifiers
	ID
	STRING
	NUMBER

	// Keywords
	AND
	CLASS
	ELSE
	FALSE
	FUN
	FOR
	IF
	NIL
	OR
	PRINT
	RETURN
	SUPER
	THIS
	TRUE
	VAR
	WHILE
)

var tokenNames = map[TokenType]string{
	EOF:        "EOF",
	LROUND:     "(",
	RROUND:     ")",
	LCURLY:     "{",
	RCURLY:     "}",
	COMMA:      ",",
	PERIOD:     ".",
	SEMICOLON:  ";",
	PLUS:       "+",
	MINUS:      "-",
	MULT:       "*",
	DIV:        "/",
	BANG:       "!",
	NEQ:        "!=",
	ASSIGN:     "=",
	EQ:         "==",
	LESS:       "<",
	LESS_EQ:    "<=",
	GREATER:    ">",
	GREATER_EQ: ">=",
	ID:         "identifier",
	STRING:     "string",
	NUMBER:     "number",
	AND:        "and",
	CLASS:      "class",
	ELSE:       "else",
	FALSE:      "false",
	FUN:        "fun",
	FOR:        "for",
	IF:         "if",
	NIL:        "nil",
	OR:         "or",
	PRINT:      "print",
	RETURN:     "return",
	SUPER:      "super",
	THIS:       "this",
	TRUE:       "true",
	VAR:        "var",
	WHILE:      "while",
}

func (tt TokenType) String() string {
	if s, ok := tokenNames[tt]; ok {
		return s
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// Token is a lexical token with optional literal value. Tokens are immutable
// once produced; the scanner emits one per lexeme plus a trailing EOF.
type Token struct {
	Type    TokenType
	Lexeme  string      // raw text slice
	Literal interface{} // parsed value: float64 for NUMBER, string for STRING/ID
	Line    int         // 1-based
	Col     int         // 0-based column within line
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q at %d:%d", t.Type, t.Lexeme, t.Line, t.Col+1)
}

// keywords map: identifiers that the scanner reclassifies.
var keywords = map[string]TokenType{
	"and":    AND,
	"class":  CLASS,
	"else":   ELSE,
	"false":  FALSE,
	"fun":    FUN,
	"for":    FOR,
	"if":     IF,
	"nil":    NIL,
	"or":     OR,
	"print":  PRINT,
	"return": RETURN,
	"super":  SUPER,
	"this":   THIS,
	"true":   TRUE,
	"var":    VAR,
	"while":  WHILE,
}
