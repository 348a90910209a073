package lib

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNext(t *testing.T) {
	buf := newTokenBuffer()

	buf.Write(Token{Kind: KindIdentifier, Lexeme: "hello", Line: 1})

	tok, done, err := buf.Next()
	require.NoError(t, err)
	require.False(t, done)
	require.Equal(t, KindIdentifier, tok.Kind)
	require.Equal(t, "hello", tok.Lexeme)
}

func TestNextDone(t *testing.T) {
	buf := newTokenBuffer()

	buf.Write(Token{Kind: KindIdentifier, Lexeme: "hello"})
	buf.Done()

	tok, done, err := buf.Next()
	require.NoError(t, err)
	require.False(t, done)
	require.Equal(t, KindIdentifier, tok.Kind)
	require.Equal(t, "hello", tok.Lexeme)

	_, done, err = buf.Next()
	require.NoError(t, err)
	require.True(t, done)
}

func TestNextDoneMulti(t *testing.T) {
	buf := newTokenBuffer()

	buf.Write(Token{Kind: KindIdentifier, Lexeme: "hello"})
	buf.Done()

	tok, done, err := buf.Next()
	require.NoError(t, err)
	require.False(t, done)
	require.Equal(t, "hello", tok.Lexeme)

	for i := 0; i < 3; i++ {
		_, done, err = buf.Next()
		require.NoError(t, err)
		require.True(t, done)
	}
}

func TestNextTimeout(t *testing.T) {
	oldTimeout := TokenReadTimeout
	TokenReadTimeout = 1 * time.Microsecond
	defer func() {
		TokenReadTimeout = oldTimeout
	}()

	buf := newTokenBuffer()
	_, done, err := buf.Next()
	require.ErrorIs(t, err, ErrTokenReadTimeout)
	require.False(t, done)
}

func TestPeek(t *testing.T) {
	buf := newTokenBuffer()

	buf.Write(Token{Kind: KindIdentifier, Lexeme: "hello"})
	buf.Done()

	tok, done, err := buf.Peek()
	require.NoError(t, err)
	require.False(t, done)
	require.Equal(t, "hello", tok.Lexeme)

	tok, done, err = buf.Peek()
	require.NoError(t, err)
	require.False(t, done)
	require.Equal(t, "hello", tok.Lexeme)

	tok, done, err = buf.Next()
	require.NoError(t, err)
	require.False(t, done)
	require.Equal(t, "hello", tok.Lexeme)

	_, done, err = buf.Next()
	require.NoError(t, err)
	require.True(t, done)
}

func TestWriteAfterClose(t *testing.T) {
	buf := newTokenBuffer()
	for i := 0; i < TOKEN_BUF_SIZE; i++ {
		require.True(t, buf.Write(Token{Kind: KindNumber, Lexeme: "1"}))
	}
	buf.Close()
	buf.Close()
	require.False(t, buf.Write(Token{Kind: KindNumber, Lexeme: "1"}))
}

func drain(t *testing.T, reader TokenReader) []Token {
	tokens := []Token{}
	for {
		tok, done, err := reader.Next()
		require.NoError(t, err)
		if done {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

func TestStreamMatchesTokenize(t *testing.T) {
	stream := Stream(sampleProgram)
	defer stream.Close()
	require.Equal(t, Tokenize(sampleProgram), drain(t, stream))
}

func TestStreamLargerThanBuffer(t *testing.T) {
	src := ""
	for i := 0; i < TOKEN_BUF_SIZE*3; i++ {
		src += "x; "
	}
	stream := Stream(src)
	defer stream.Close()
	require.Len(t, drain(t, stream), TOKEN_BUF_SIZE*3*2)
}

func TestStreamAbandoned(t *testing.T) {
	src := ""
	for i := 0; i < TOKEN_BUF_SIZE*3; i++ {
		src += "y "
	}
	stream := Stream(src)
	tok, done, err := stream.Next()
	require.NoError(t, err)
	require.False(t, done)
	require.Equal(t, "y", tok.Lexeme)
	stream.Close()
}

func TestSliceReader(t *testing.T) {
	tokens := Tokenize("a == b")
	reader := NewSliceReader(tokens)

	tok, done, err := reader.Peek()
	require.NoError(t, err)
	require.False(t, done)
	require.Equal(t, "a", tok.Lexeme)

	require.Equal(t, tokens, drain(t, reader))

	_, done, err = reader.Peek()
	require.NoError(t, err)
	require.True(t, done)
}
