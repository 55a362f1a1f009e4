package compiler

import (
	"fmt"

	"go.uber.org/zap"
)

const wordSize = 8

// argRegisters lists the System V argument registers used for the
// first six call arguments/parameters.
var argRegisters = [6]string{"%rdi", "%rsi", "%rdx", "%rcx", "%r8", "%r9"}

const maxCallArgs = len(argRegisters)

// switchCtx is the per-switch-statement accumulator: an ordered list
// of the constant values seen via `case` inside this switch's body,
// used to emit the dispatch table once the body has been compiled.
type switchCtx struct {
	id    int
	cases []int64
}

// Compiler is the translation-unit-wide context: all shared mutable
// state lives on this one struct, passed through every compilation
// routine, rather than threaded as separate parameters. One Compiler
// compiles exactly one file; the symbol table and string pool it owns
// are reset on function boundaries (locals/externs) or live for the
// whole file (string pool).
type Compiler struct {
	lex *Lexer
	sym *SymbolTable
	out *Emitter
	log *zap.SugaredLogger

	curFunc     string
	stackOffset int // words currently reserved in the active function
	nextLabelID int // monotone per-translation-unit counter

	switches []*switchCtx // stack of enclosing switch contexts
}

// New creates a Compiler over src, reporting positions against name
// for diagnostics. logger may be nil (use zap.NewNop() in that case).
func New(name, src string, logger *zap.SugaredLogger) *Compiler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	r := NewReaderFromString(name, src)
	return &Compiler{
		lex: NewLexer(r),
		sym: NewSymbolTable(),
		out: NewEmitter(),
		log: logger,
	}
}

// NewFromFile creates a Compiler over the contents of path.
func NewFromFile(path string, logger *zap.SugaredLogger) (*Compiler, error) {
	r, err := NewReader(path)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Compiler{
		lex: NewLexer(r),
		sym: NewSymbolTable(),
		out: NewEmitter(),
		log: logger,
	}, nil
}

// Compile runs the declaration compiler over every top-level
// declaration until EOF and returns the finished assembly text. On
// the first diagnostic it stops and returns that error; nothing is
// written to disk by this layer: on any fatal diagnostic the caller
// is expected to discard the partial buffer rather than write it out.
func (c *Compiler) Compile() ([]byte, error) {
	for {
		if err := c.lex.SkipWhitespace(); err != nil {
			return nil, err
		}
		if c.lex.r.AtEOF() {
			break
		}
		if err := c.compileTopLevel(); err != nil {
			return nil, err
		}
	}
	c.emitStringPool()
	return c.out.Bytes(), nil
}

// nextID returns the next value of the monotone per-translation-unit
// label-id counter used for every numeric label family
// (.L.else/.L.end/.L.start/.L.cond.*/.L.cmp/.L.stmts and switch ids).
func (c *Compiler) nextID() int {
	id := c.nextLabelID
	c.nextLabelID++
	return id
}

// localAddr formats the rbp-relative address of local slot i, per
// the "+2" bias: the prologue reserves one extra word beyond %rbp
// itself, so the i-th local lives two words below %rbp, not one.
func localAddr(slot int) string {
	return fmt.Sprintf("-%d(%%rbp)", (slot+2)*wordSize)
}

// toRvalue emits the implicit lvalue->rvalue conversion: before
// consuming a value as an rvalue operand, it emits mov (%rax),%rax
// iff the operand is currently an lvalue (an address in %rax).
func (c *Compiler) toRvalue(isLvalue bool) {
	if isLvalue {
		c.out.Line(SegText, "  mov (%%rax), %%rax")
	}
}

func (c *Compiler) emitStringPool() {
	for i, s := range c.sym.Strings() {
		c.out.Label(SegRodata, fmt.Sprintf(".string.%d", i))
		for j := 0; j < len(s); j++ {
			c.out.Line(SegRodata, "  .byte %d", s[j])
		}
		c.out.Line(SegRodata, "  .byte 0")
	}
}

// caseLabelSuffix renders a case constant for use inside a GNU-as
// label, since '-' is not a legal symbol-name character there.
func caseLabelSuffix(v int64) string {
	if v < 0 {
		return fmt.Sprintf("n%d", -v)
	}
	return fmt.Sprintf("%d", v)
}
