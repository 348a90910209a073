package lib

// TokenReader yields tokens one at a time. done is true once the stream is
// exhausted, after which every call keeps returning done.
type TokenReader interface {
	Next() (tok Token, done bool, err error)
	Peek() (tok Token, done bool, err error)
}

// sliceReader reads from an already tokenized buffer.
type sliceReader struct {
	tokens []Token
	pos    int
}

func NewSliceReader(tokens []Token) TokenReader {
	return &sliceReader{tokens: tokens}
}

func (r *sliceReader) Next() (Token, bool, error) {
	tok, done, err := r.Peek()
	if !done {
		r.pos++
	}
	return tok, done, err
}

func (r *sliceReader) Peek() (Token, bool, error) {
	if r.pos >= len(r.tokens) {
		return Token{}, true, nil
	}
	return r.tokens[r.pos], false, nil
}
