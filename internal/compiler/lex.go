package compiler

import (
	"strings"
)

// identLimit caps identifier length against runaway input; B source
// in practice never needs anywhere near this many characters in a name.
const identLimit = 512

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\v' || b == '\f'
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isAlpha(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isAlnum(b byte) bool { return isAlpha(b) || isDigit(b) }

// Lexer holds the on-demand scanning primitives the statement and
// expression compilers call directly at the point an
// identifier/number/literal is expected. There is no separate token
// stream: lexing and parsing happen in the same pass.
type Lexer struct {
	r *Reader
}

func NewLexer(r *Reader) *Lexer { return &Lexer{r: r} }

func (l *Lexer) Pos() Pos { return l.r.Pos() }

// SkipWhitespace consumes runs of ASCII whitespace and /* ... */
// comments. An unterminated comment is fatal; every '\n' encountered,
// including inside a comment, bumps the line counter via Reader.Next.
func (l *Lexer) SkipWhitespace() error {
	for {
		switch {
		case isSpace(l.r.Peek()):
			l.r.Next()
		case l.r.Peek() == '/' && l.r.PeekAt(1) == '*':
			start := l.r.Pos()
			l.r.Next()
			l.r.Next()
			closed := false
			for !l.r.AtEOF() {
				if l.r.Peek() == '*' && l.r.PeekAt(1) == '/' {
					l.r.Next()
					l.r.Next()
					closed = true
					break
				}
				l.r.Next()
			}
			if !closed {
				return errAt(start, "unclosed comment")
			}
		default:
			return nil
		}
	}
}

// ReadIdentifier scans an identifier beginning at the cursor. The
// caller must have already confirmed the lookahead byte satisfies
// isAlpha.
func (l *Lexer) ReadIdentifier() (string, error) {
	start := l.r.Pos()
	var b strings.Builder
	for isAlnum(l.r.Peek()) {
		if b.Len() >= identLimit {
			return "", errAt(start, "identifier too long")
		}
		b.WriteByte(l.r.Next())
	}
	if b.Len() == 0 {
		return "", errAt(start, "expected identifier")
	}
	return b.String(), nil
}

// ReadNumber scans a run of digits. A leading '0' selects octal,
// otherwise decimal.
func (l *Lexer) ReadNumber() (int64, error) {
	start := l.r.Pos()
	if !isDigit(l.r.Peek()) {
		return 0, errAt(start, "expected number")
	}
	base := int64(10)
	if l.r.Peek() == '0' {
		base = 8
	}
	var v int64
	for isDigit(l.r.Peek()) {
		d := int64(l.r.Next() - '0')
		if base == 8 && d > 7 {
			return 0, errAt(start, "invalid digit %d in octal literal", d)
		}
		v = v*base + d
	}
	return v, nil
}

// escapeByte resolves a single `*x` escape to its literal byte, per
// *0 and *e both yield NUL; *t, *n, *r, *(, *), **, *', *" yield their
// literal meanings; anything else is a diagnostic.
func (l *Lexer) escapeByte() (byte, error) {
	pos := l.r.Pos()
	c := l.r.Next()
	switch c {
	case '0', 'e':
		return 0, nil
	case 't':
		return '\t', nil
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case '(':
		return '(', nil
	case ')':
		return ')', nil
	case '*':
		return '*', nil
	case '\'':
		return '\'', nil
	case '"':
		return '"', nil
	default:
		return 0, errAt(pos, "unknown escape sequence '*%c'", c)
	}
}

// ReadCharacter reads bytes up to the closing quote, packing up to
// word-size (8) bytes little-endian into a single machine word. The
// opening quote must already be consumed.
func (l *Lexer) ReadCharacter() (int64, error) {
	start := l.r.Pos()
	var bytes []byte
	for {
		if l.r.AtEOF() {
			return 0, errAt(start, "unclosed character literal")
		}
		if l.r.Peek() == '\'' {
			l.r.Next()
			break
		}
		if l.r.Peek() == '*' {
			l.r.Next()
			b, err := l.escapeByte()
			if err != nil {
				return 0, err
			}
			bytes = append(bytes, b)
			continue
		}
		bytes = append(bytes, l.r.Next())
	}
	if len(bytes) == 0 {
		return 0, errAt(start, "empty character literal")
	}
	if len(bytes) > 8 {
		return 0, errAt(start, "character literal too long (max 8 bytes)")
	}
	var word int64
	for i, b := range bytes {
		word |= int64(b) << uint(8*i)
	}
	return word, nil
}

// ReadString reads bytes up to the closing quote, honoring the same
// `*`-escape rules as ReadCharacter (*r is only strictly needed by
// the multi-char character-literal form, but is accepted uniformly
// here rather than special-cased away from strings).
// The opening quote must already be consumed. The caller is
// responsible for NUL-terminating and interning the result.
func (l *Lexer) ReadString() (string, error) {
	start := l.r.Pos()
	var b strings.Builder
	for {
		if l.r.AtEOF() {
			return "", errAt(start, "unterminated string literal")
		}
		if l.r.Peek() == '"' {
			l.r.Next()
			break
		}
		if l.r.Peek() == '*' {
			l.r.Next()
			c, err := l.escapeByte()
			if err != nil {
				return "", err
			}
			b.WriteByte(c)
			continue
		}
		b.WriteByte(l.r.Next())
	}
	return b.String(), nil
}
