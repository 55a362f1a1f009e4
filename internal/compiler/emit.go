package compiler

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/klauspost/asmfmt"
)

// Segment names one of the three assembly sections the emitter
// accumulates independently: text, data, and rodata each grow in
// their own buffer and are concatenated only at the very end, so
// string-pool and global-data directives never have to interleave
// with code as they're discovered mid-parse.
type Segment int

const (
	SegText Segment = iota
	SegData
	SegRodata
)

// Emitter is the in-memory growable output buffer of the final
// pipeline stage. Nothing is written to disk until WriteFile succeeds;
// a fatal diagnostic anywhere upstream means the buffer is simply
// discarded.
type Emitter struct {
	text   strings.Builder
	data   strings.Builder
	rodata strings.Builder
}

func NewEmitter() *Emitter { return &Emitter{} }

func (e *Emitter) bufFor(seg Segment) *strings.Builder {
	switch seg {
	case SegData:
		return &e.data
	case SegRodata:
		return &e.rodata
	default:
		return &e.text
	}
}

// Line appends one formatted assembly line (with trailing newline) to
// the named segment.
func (e *Emitter) Line(seg Segment, format string, args ...any) {
	b := e.bufFor(seg)
	fmt.Fprintf(b, format, args...)
	b.WriteByte('\n')
}

// Label appends a bare "name:" line with no leading tab, matching
// GNU-as label syntax.
func (e *Emitter) Label(seg Segment, name string) {
	e.Line(seg, "%s:", name)
}

// Bytes concatenates the three segments into one .s file in
// text/data/rodata order and best-effort pretty-prints the result
// through asmfmt before returning it. asmfmt's formatter is tolerant
// of plain AT&T-style directive text; if it ever rejects the buffer
// (e.g. a construct it doesn't recognize) the raw, already-valid
// concatenation is returned unchanged rather than failing the build —
// formatting is cosmetic, not load-bearing: emission only needs to be
// a pure function of the compiled source, which holds whether or not
// asmfmt accepts the buffer.
func (e *Emitter) Bytes() []byte {
	var buf strings.Builder
	buf.WriteString(".text\n")
	buf.WriteString(e.text.String())
	buf.WriteString(".data\n")
	buf.WriteString(e.data.String())
	buf.WriteString(".section .rodata\n")
	buf.WriteString(e.rodata.String())

	raw := []byte(buf.String())
	formatted, err := asmfmt.Format(bytes.NewReader(raw))
	if err != nil {
		return raw
	}
	return formatted
}

// WriteFile flushes the buffer to path in one shot.
func (e *Emitter) WriteFile(path string) error {
	return os.WriteFile(path, e.Bytes(), 0o644)
}
