package lib

// Lex runs a fresh lexer over src and hands every token to emit.
func Lex(src string, emit func(Token), opts ...LexerOption) {
	l := NewLexer(src, opts...)
	for {
		tok, ok := l.Next()
		if !ok {
			return
		}
		emit(tok)
	}
}

// Tokenize collects all tokens of src into a slice.
func Tokenize(src string, opts ...LexerOption) []Token {
	tokens := []Token{}
	Lex(src, func(t Token) {
		tokens = append(tokens, t)
	}, opts...)
	return tokens
}

type LexerOption func(*Lexer)

// WithDiagnostics registers a callback for the places where the lexer falls
// back to lenient behaviour. It never changes the tokens produced.
func WithDiagnostics(report func(Diagnostic)) LexerOption {
	return func(l *Lexer) {
		l.report = report
	}
}

// Lexer scans C-like source one token at a time. A Lexer must not be shared
// between goroutines; create one per buffer.
type Lexer struct {
	src    string
	length int
	cursor int
	line   int
	report func(Diagnostic)
}

func NewLexer(src string, opts ...LexerOption) *Lexer {
	l := &Lexer{
		src:    src,
		length: len(src),
		cursor: 0,
		line:   1,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Cursor is the byte offset of the next character to be read.
func (l *Lexer) Cursor() int {
	return l.cursor
}

// Line is the current line number, starting at 1.
func (l *Lexer) Line() int {
	return l.line
}

func (l *Lexer) peek(offset int) (byte, bool) {
	i := l.cursor + offset
	if i >= l.length {
		return 0, false
	}
	return l.src[i], true
}

func (l *Lexer) peekIs(ch byte) bool {
	next, ok := l.peek(0)
	return ok && next == ch
}

// advance consumes one byte. Every newline in the buffer passes through here
// exactly once, so the line counter cannot drift.
func (l *Lexer) advance() (byte, bool) {
	ch, ok := l.peek(0)
	if !ok {
		return 0, false
	}
	l.cursor++
	if ch == '\n' {
		l.line++
	}
	return ch, true
}

func (l *Lexer) diagnose(kind DiagnosticKind, line int, msg string) {
	if l.report != nil {
		l.report(Diagnostic{Kind: kind, Line: line, Message: msg})
	}
}

// Next produces the next token. The second result is false once the input is
// exhausted.
func (l *Lexer) Next() (Token, bool) {
	for {
		start := l.cursor
		line := l.line
		ch, ok := l.advance()
		if !ok {
			return Token{}, false
		}

		switch {
		case ch == '\n':
			// counted by advance
		case ch == '/' && l.peekIs('/'):
			l.skipLineComment()
		case ch == '/' && l.peekIs('*'):
			l.skipBlockComment(line)
		case isIdentStart(ch):
			return l.scanIdentifier(start, line), true
		case isDigit(ch) || (ch == '-' && l.nextIsDigit()):
			return l.scanNumber(start, line), true
		case ch == '\'' || ch == '"':
			return l.scanString(ch, start, line), true
		case isOperatorChar(ch):
			return l.scanOperator(start, line), true
		case isDelimiterChar(ch):
			return l.token(KindDelimiter, start, line), true
		default:
			// whitespace and stray characters
		}
	}
}

func (l *Lexer) token(kind TokenKind, start int, line int) Token {
	return Token{Kind: kind, Lexeme: l.src[start:l.cursor], Line: line}
}

func (l *Lexer) nextIsDigit() bool {
	next, ok := l.peek(0)
	return ok && isDigit(next)
}

func (l *Lexer) skipLineComment() {
	for {
		ch, ok := l.advance()
		if !ok || ch == '\n' {
			return
		}
	}
}

// skipBlockComment is entered with the cursor on the '*' of the opening
// marker. When the closing marker is missing the cursor stops at the end of
// the buffer.
func (l *Lexer) skipBlockComment(line int) {
	_, _ = l.advance()
	for {
		ch, ok := l.advance()
		if !ok {
			l.diagnose(DiagnosticUnterminatedComment, line, "block comment is not closed before end of input")
			return
		}
		if ch == '*' && l.peekIs('/') {
			_, _ = l.advance()
			return
		}
	}
}

func (l *Lexer) scanIdentifier(start int, line int) Token {
	for {
		next, ok := l.peek(0)
		if !ok || !isIdentChar(next) {
			break
		}
		_, _ = l.advance()
	}
	tok := l.token(KindIdentifier, start, line)
	if IsKeyword(tok.Lexeme) {
		tok.Kind = KindKeyword
	}
	return tok
}

func (l *Lexer) scanNumber(start int, line int) Token {
	for l.nextIsDigit() {
		_, _ = l.advance()
	}
	return l.token(KindNumber, start, line)
}

// scanString copies the literal verbatim, escapes included. A newline or the
// end of input terminates an unclosed literal without consuming the newline.
func (l *Lexer) scanString(quote byte, start int, line int) Token {
	for {
		next, ok := l.peek(0)
		if !ok {
			l.diagnose(DiagnosticUnterminatedString, line, "string literal is not closed before end of input")
			break
		}
		if next == '\n' {
			l.diagnose(DiagnosticUnterminatedString, line, "string literal is not closed before end of line")
			break
		}
		_, _ = l.advance()
		if next == quote {
			break
		}
		if next == '\\' {
			_, _ = l.advance()
		}
	}
	return l.token(KindStringLiteral, start, line)
}

// scanOperator pairs any two operator characters without checking that the
// pair is a real C operator.
func (l *Lexer) scanOperator(start int, line int) Token {
	if next, ok := l.peek(0); ok && isOperatorChar(next) {
		_, _ = l.advance()
	}
	return l.token(KindOperator, start, line)
}
