package compiler

import "fmt"

// compileTopLevel reads one top-level identifier, then dispatches on
// the next character to function / vector / scalar.
func (c *Compiler) compileTopLevel() error {
	pos := c.lex.Pos()
	name, err := c.lex.ReadIdentifier()
	if err != nil {
		return err
	}
	c.out.Line(SegText, "  .globl %s", name)

	switch c.peek() {
	case '(':
		return c.compileFunction(name, pos)
	case '[':
		return c.compileVector(name, pos)
	default:
		return c.compileScalar(name, pos)
	}
}

// compileFunction implements the `name(` branch: parameters are
// bound from the System V argument registers into consecutive local
// slots before the body runs.
func (c *Compiler) compileFunction(name string, pos Pos) error {
	c.lex.r.Next() // '('

	c.sym.ResetFunction()
	c.curFunc = name
	c.stackOffset = 0
	c.sym.DeclareExternIfAbsent(name) // self-reference, for recursion

	var params []string
	if err := c.skipWS(); err != nil {
		return err
	}
	if c.peek() != ')' {
		for {
			if err := c.skipWS(); err != nil {
				return err
			}
			pname, err := c.lex.ReadIdentifier()
			if err != nil {
				return err
			}
			params = append(params, pname)
			if err := c.skipWS(); err != nil {
				return err
			}
			if c.peek() == ',' {
				c.lex.r.Next()
				continue
			}
			break
		}
	}
	if err := c.expectByte(')', "')'"); err != nil {
		return err
	}
	if len(params) > maxCallArgs {
		return errAt(pos, "more than %d parameters", maxCallArgs)
	}

	c.out.Line(SegText, "  .type %s, @function", name)
	c.out.Label(SegText, name)
	c.out.Line(SegText, "  push %%rbp")
	c.out.Line(SegText, "  mov %%rsp, %%rbp")
	c.out.Line(SegText, "  sub $%d, %%rsp", wordSize)

	for i, pname := range params {
		slot := c.stackOffset
		c.stackOffset++
		c.out.Line(SegText, "  sub $%d, %%rsp", wordSize)
		c.out.Line(SegText, "  mov %s, %s", argRegisters[i], localAddr(slot))
		if !c.sym.DeclareLocal(pname, slot) {
			return errAt(pos, "duplicate identifier %q", pname)
		}
	}

	if err := c.compileStatement(); err != nil {
		return err
	}

	c.out.Line(SegText, "  xor %%rax, %%rax")
	c.out.Label(SegText, fmt.Sprintf(".L.return.%s", name))
	c.out.Line(SegText, "  mov %%rbp, %%rsp")
	c.out.Line(SegText, "  pop %%rbp")
	c.out.Line(SegText, "  ret")
	return nil
}

// compileVector implements the `name[` branch, including the open
// question resolution recorded in DESIGN.md: an empty size with an
// initializer list reserves one slot per ival; an empty size with no
// initializers reserves only the self-pointer slot.
func (c *Compiler) compileVector(name string, pos Pos) error {
	c.lex.r.Next() // '['
	if err := c.skipWS(); err != nil {
		return err
	}
	hasSize := false
	var size int64
	if isDigit(c.peek()) {
		hasSize = true
		n, err := c.lex.ReadNumber()
		if err != nil {
			return err
		}
		size = n
	}
	if err := c.expectByte(']', "']'"); err != nil {
		return err
	}

	ivals, err := c.scanIvalList()
	if err != nil {
		return err
	}

	if !hasSize {
		size = int64(len(ivals))
	} else if int64(len(ivals)) > size {
		return errAt(pos, "too many initializers for vector %q", name)
	}

	c.out.Line(SegData, "  .type %s, @object", name)
	c.out.Line(SegData, "  .align %d", wordSize)
	c.out.Label(SegData, name)
	c.out.Line(SegData, "  .quad .+%d", wordSize)
	for _, iv := range ivals {
		c.emitIval(SegData, iv)
	}
	for i := int64(len(ivals)); i < size; i++ {
		c.out.Line(SegData, "  .quad 0")
	}
	return c.expectByte(';', "';'")
}

func (c *Compiler) compileScalar(name string, pos Pos) error {
	ivals, err := c.scanIvalList()
	if err != nil {
		return err
	}
	if len(ivals) > 1 {
		return errAt(pos, "scalar %q has more than one initializer", name)
	}

	c.out.Line(SegData, "  .type %s, @object", name)
	c.out.Line(SegData, "  .align %d", wordSize)
	c.out.Label(SegData, name)
	if len(ivals) == 1 {
		c.emitIval(SegData, ivals[0])
	} else {
		c.out.Line(SegData, "  .zero %d", wordSize)
	}
	return c.expectByte(';', "';'")
}

// ival is one resolved initializer value: either a literal word
// (kind==ivalWord) or a reference to another symbol or pooled string
// (kind==ivalSymbol).
type ival struct {
	kind   ivalKind
	word   int64
	symbol string
}

type ivalKind int

const (
	ivalWord ivalKind = iota
	ivalSymbol
)

// scanIvalList reads zero or more comma-separated ivals up to (but
// not including) the terminating ';'. An empty list (';' seen
// immediately) is valid and means "no initializer".
func (c *Compiler) scanIvalList() ([]ival, error) {
	var out []ival
	if err := c.skipWS(); err != nil {
		return nil, err
	}
	if c.peek() == ';' {
		return out, nil
	}
	for {
		if err := c.skipWS(); err != nil {
			return nil, err
		}
		iv, err := c.scanIval()
		if err != nil {
			return nil, err
		}
		out = append(out, iv)
		if err := c.skipWS(); err != nil {
			return nil, err
		}
		if c.peek() == ',' {
			c.lex.r.Next()
			continue
		}
		break
	}
	return out, nil
}

// scanIval reads one initializer: identifier, char, string, negative
// number, decimal, or octal.
func (c *Compiler) scanIval() (ival, error) {
	pos := c.lex.Pos()
	switch {
	case c.peek() == '\'':
		c.lex.r.Next()
		v, err := c.lex.ReadCharacter()
		if err != nil {
			return ival{}, err
		}
		return ival{kind: ivalWord, word: v}, nil

	case c.peek() == '"':
		c.lex.r.Next()
		s, err := c.lex.ReadString()
		if err != nil {
			return ival{}, err
		}
		idx := c.sym.Intern(s)
		return ival{kind: ivalSymbol, symbol: fmt.Sprintf(".string.%d", idx)}, nil

	case c.peek() == '-':
		c.lex.r.Next()
		n, err := c.lex.ReadNumber()
		if err != nil {
			return ival{}, err
		}
		return ival{kind: ivalWord, word: -n}, nil

	case isDigit(c.peek()):
		n, err := c.lex.ReadNumber()
		if err != nil {
			return ival{}, err
		}
		return ival{kind: ivalWord, word: n}, nil

	case isAlpha(c.peek()):
		name, err := c.lex.ReadIdentifier()
		if err != nil {
			return ival{}, err
		}
		return ival{kind: ivalSymbol, symbol: name}, nil
	}
	return ival{}, errAt(pos, "expected initializer value")
}

func (c *Compiler) emitIval(seg Segment, iv ival) {
	switch iv.kind {
	case ivalSymbol:
		c.out.Line(seg, "  .quad %s", iv.symbol)
	default:
		c.out.Line(seg, "  .quad %d", iv.word)
	}
}
