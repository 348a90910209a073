package lib

import "fmt"

type TokenKind int

const (
	KindKeyword TokenKind = iota
	KindIdentifier
	KindNumber
	KindStringLiteral
	KindOperator
	KindDelimiter
)

var kindNames = map[TokenKind]string{
	KindKeyword:       "KEYWORD",
	KindIdentifier:    "IDENTIFIER",
	KindNumber:        "NUMBER",
	KindStringLiteral: "STRING_LITERAL",
	KindOperator:      "OPERATOR",
	KindDelimiter:     "DELIMITER",
}

func (k TokenKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseTokenKind is the inverse of TokenKind.String.
func ParseTokenKind(s string) (TokenKind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown token kind %q", s)
}

// Token is a classified lexeme. Line is the line the token starts on.
type Token struct {
	Kind   TokenKind
	Lexeme string
	Line   int
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q", t.Kind, t.Lexeme)
}

// C89 keywords.
var keywords = map[string]struct{}{
	"auto": {}, "break": {}, "case": {}, "char": {}, "const": {},
	"continue": {}, "default": {}, "do": {}, "double": {}, "else": {},
	"enum": {}, "extern": {}, "float": {}, "for": {}, "goto": {}, "if": {},
	"int": {}, "long": {}, "register": {}, "return": {}, "short": {},
	"signed": {}, "sizeof": {}, "static": {}, "struct": {}, "switch": {},
	"typedef": {}, "union": {}, "unsigned": {}, "void": {},
	"volatile": {}, "while": {},
}

func IsKeyword(s string) bool {
	_, ok := keywords[s]
	return ok
}

func isOperatorChar(ch byte) bool {
	switch ch {
	case '=', '<', '>', '!', '+', '-', '|', '&':
		return true
	}
	return false
}

func isDelimiterChar(ch byte) bool {
	switch ch {
	case '^', '%', '#', '*', '?', '~', ',', ';', ':', '[', ']', '(', ')', '{', '}', '.':
		return true
	}
	return false
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentStart(ch byte) bool {
	return isLetter(ch) || ch == '_'
}

func isIdentChar(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
