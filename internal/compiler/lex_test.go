package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderPeekNext(t *testing.T) {
	r := NewReaderFromString("t.b", "ab\nc")
	assert.Equal(t, byte('a'), r.Peek())
	assert.Equal(t, byte('b'), r.PeekAt(1))
	assert.Equal(t, byte('a'), r.Next())
	assert.Equal(t, 1, r.Pos().Line)
	assert.Equal(t, byte('b'), r.Next())
	assert.Equal(t, byte('\n'), r.Next())
	assert.Equal(t, 2, r.Pos().Line)
	assert.Equal(t, byte('c'), r.Next())
	assert.True(t, r.AtEOF())
	assert.Equal(t, byte(0), r.Next(), "Next at EOF returns eofByte")
}

func TestReaderMarkReset(t *testing.T) {
	r := NewReaderFromString("t.b", "hello")
	r.Next()
	r.Next()
	m := r.Mark()
	r.Next()
	r.Next()
	r.Reset(m)
	assert.Equal(t, byte('l'), r.Peek(), "Reset must rewind the cursor")
}

func TestSkipWhitespace(t *testing.T) {
	for _, tc := range []struct {
		name string
		src  string
		rest string
	}{
		{"spaces and tabs", "  \t\n  x", "x"},
		{"block comment spanning lines", "/* comment\nspans lines */x", "x"},
		{"no leading whitespace", "x", "x"},
		{"comment then more ws", "/*c*/  \tx", "x"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r := NewReaderFromString("t.b", tc.src)
			l := NewLexer(r)
			require.NoError(t, l.SkipWhitespace())
			assert.Equal(t, tc.rest[0], r.Peek())
		})
	}
}

func TestSkipWhitespaceUnclosedComment(t *testing.T) {
	l := NewLexer(NewReaderFromString("t.b", "/* never closed"))
	err := l.SkipWhitespace()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unclosed comment")
}

func TestReadIdentifier(t *testing.T) {
	l := NewLexer(NewReaderFromString("t.b", "foo_bar2 rest"))
	name, err := l.ReadIdentifier()
	require.NoError(t, err)
	assert.Equal(t, "foo_bar2", name)
	assert.Equal(t, byte(' '), l.r.Peek())
}

func TestReadNumber(t *testing.T) {
	for _, tc := range []struct {
		name string
		src  string
		want int64
	}{
		{"decimal", "123", 123},
		{"octal", "017", 15},
		{"zero", "0", 0},
		{"octal zero-prefixed multi-digit", "0777", 511},
	} {
		t.Run(tc.name, func(t *testing.T) {
			l := NewLexer(NewReaderFromString("t.b", tc.src))
			n, err := l.ReadNumber()
			require.NoError(t, err)
			assert.Equal(t, tc.want, n)
		})
	}
}

func TestReadNumberInvalidOctalDigit(t *testing.T) {
	l := NewLexer(NewReaderFromString("t.b", "089"))
	_, err := l.ReadNumber()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid digit")
}

func TestReadCharacterPacking(t *testing.T) {
	for _, tc := range []struct {
		name string
		src  string
		want int64
	}{
		{"single byte", "a'", int64('a')},
		{"two bytes little-endian", "ab'", int64('a') | int64('b')<<8},
		{"escape newline", "*n'", int64('\n')},
		{"escape nul", "*0'", 0},
		{"eight byte max", "Hello, W'", func() int64 {
			var w int64
			for i, b := range []byte("Hello, W") {
				w |= int64(b) << uint(8*i)
			}
			return w
		}()},
	} {
		t.Run(tc.name, func(t *testing.T) {
			l := NewLexer(NewReaderFromString("t.b", tc.src))
			v, err := l.ReadCharacter()
			require.NoError(t, err)
			assert.Equal(t, tc.want, v)
		})
	}
}

func TestReadCharacterErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		src  string
		msg  string
	}{
		{"empty", "'", "empty character literal"},
		{"too long", "123456789'", "too long"},
		{"unclosed", "abc", "unclosed character literal"},
		{"bad escape", "*q'", "unknown escape sequence"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			l := NewLexer(NewReaderFromString("t.b", tc.src))
			_, err := l.ReadCharacter()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestReadString(t *testing.T) {
	l := NewLexer(NewReaderFromString("t.b", `hi*nthere"`))
	s, err := l.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "hi\nthere", s)
}

func TestReadStringUnterminated(t *testing.T) {
	l := NewLexer(NewReaderFromString("t.b", "no closing quote"))
	_, err := l.ReadString()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unterminated string literal")
}
