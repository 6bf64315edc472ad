// Package printer renders a Module back into Calir's canonical textual
// form, the same grammar internal/parser reads. The renderer is a stateful
// struct carrying an arena-backed string buffer, dispatched by a big switch
// over ir.Opcode/ir.TypeKind/ir.ValueKind rather than over an AST — the
// same shape as the reference stack's statement/expression Formatter,
// generalized from walking a parsed AST to walking linked IR lists.
//
// Printer never consults the context's uniquing caches for ordering: every
// section is emitted in the order the owning Module/Function/BasicBlock
// list already holds (Module.StructDefs, Module.Globals, Module.Functions,
// Function.Blocks, BasicBlock.Instructions), so output is deterministic
// regardless of how the hash map family happens to have laid its entries
// out internally.
package printer

import (
	"io"
	"strconv"
	"strings"

	"calir/internal/arena"
	"calir/internal/ir"
	"calir/internal/strbuf"
)

// Sink is anything the printer can flush its rendered text to.
type Sink = io.Writer

// WriterSink adapts an arbitrary io.Writer (os.Stdout, a socket, ...) to
// Sink. It exists for callers that want a named type to hold onto rather
// than a bare io.Writer value.
type WriterSink struct {
	io.Writer
}

// NewWriterSink wraps w as a Sink.
func NewWriterSink(w io.Writer) *WriterSink { return &WriterSink{Writer: w} }

// StringSink is an in-memory Sink backed by a strings.Builder.
type StringSink struct {
	strings.Builder
}

// NewStringSink returns an empty StringSink.
func NewStringSink() *StringSink { return &StringSink{} }

// Printer accumulates rendered text in an arena-backed string buffer;
// nothing is written to a Sink until WriteTo is called, so a write failure
// on a real io.Writer can't leave a half-rendered module on the wire.
type Printer struct {
	output *strbuf.Buffer
}

// New returns an empty Printer with its own backing arena.
func New() *Printer {
	return &Printer{output: strbuf.New(arena.New(4096))}
}

// PrintModule renders m into the printer's buffer and returns the printer,
// so callers can chain into String or WriteTo.
func (p *Printer) PrintModule(m *ir.Module) *Printer {
	p.writeModule(m)
	return p
}

// String returns everything rendered so far.
func (p *Printer) String() string { return p.output.String() }

// WriteTo flushes the rendered buffer to sink.
func (p *Printer) WriteTo(sink Sink) (int, error) {
	return sink.Write(p.output.Bytes())
}

// Sprint renders m to its canonical text form and returns it as a string.
func Sprint(m *ir.Module) string {
	return New().PrintModule(m).String()
}

// Fprint renders m and writes the result to sink.
func Fprint(sink Sink, m *ir.Module) error {
	_, err := New().PrintModule(m).WriteTo(sink)
	return err
}

func (p *Printer) writeModule(m *ir.Module) {
	p.output.WriteString("module \"")
	p.output.WriteString(m.Name)
	p.output.WriteString("\"\n")

	for _, st := range m.StructDefs() {
		p.output.WriteByte('\n')
		p.writeStructDef(st)
	}
	for _, g := range m.Globals() {
		p.output.WriteByte('\n')
		p.writeGlobal(g)
	}
	for _, f := range m.Functions() {
		p.output.WriteByte('\n')
		if f.IsDeclaration() {
			p.writeFunctionDecl(f)
		} else {
			p.writeFunctionDef(f)
		}
	}
}

func (p *Printer) writeStructDef(st *ir.Type) {
	p.output.WriteByte('%')
	p.output.WriteString(st.Name())
	p.output.WriteString(" = type { ")
	for i, m := range st.Members() {
		if i > 0 {
			p.output.WriteString(", ")
		}
		p.output.WriteString(m.String())
	}
	p.output.WriteString(" }\n")
}

func (p *Printer) writeGlobal(g *ir.GlobalVariable) {
	p.output.WriteByte('@')
	p.output.WriteString(g.Name)
	p.output.WriteString(" = global ")
	p.output.WriteString(g.ValueType.String())
	if g.Initializer != nil {
		p.output.WriteByte(' ')
		p.output.WriteString(constantLiteral(g.Initializer))
	}
	p.output.WriteByte('\n')
}

func (p *Printer) writeFunctionDecl(f *ir.Function) {
	sig := f.Signature()
	p.output.WriteString("declare ")
	p.output.WriteString(sig.ReturnType().String())
	p.output.WriteString(" @")
	p.output.WriteString(f.Name)
	p.output.WriteByte('(')
	for i, pt := range sig.Params() {
		if i > 0 {
			p.output.WriteString(", ")
		}
		p.output.WriteString(pt.String())
	}
	if sig.Variadic() {
		if len(sig.Params()) > 0 {
			p.output.WriteString(", ")
		}
		p.output.WriteString("...")
	}
	p.output.WriteString(")\n")
}

func (p *Printer) writeFunctionDef(f *ir.Function) {
	sig := f.Signature()
	p.output.WriteString("define ")
	p.output.WriteString(sig.ReturnType().String())
	p.output.WriteString(" @")
	p.output.WriteString(f.Name)
	p.output.WriteByte('(')
	for i, a := range f.Params {
		if i > 0 {
			p.output.WriteString(", ")
		}
		p.output.WriteByte('%')
		p.output.WriteString(a.Name)
		p.output.WriteString(": ")
		p.output.WriteString(a.Type.String())
	}
	if sig.Variadic() {
		if len(f.Params) > 0 {
			p.output.WriteString(", ")
		}
		p.output.WriteString("...")
	}
	p.output.WriteString(") {\n")
	for b := f.FirstBlock(); b != nil; b = b.NextBlock() {
		p.writeBlock(b)
	}
	p.output.WriteString("}\n")
}

func (p *Printer) writeBlock(b *ir.BasicBlock) {
	p.output.WriteByte('$')
	p.output.WriteString(b.Name)
	p.output.WriteString(":\n")
	for instr := b.First(); instr != nil; instr = instr.Next() {
		p.output.WriteString("  ")
		p.writeInstruction(instr)
		p.output.WriteByte('\n')
	}
}

func (p *Printer) writeInstruction(instr *ir.Instruction) {
	if instr.Type.Kind() != ir.Void {
		p.output.WriteByte('%')
		p.output.WriteString(instr.Name)
		p.output.WriteString(": ")
		p.output.WriteString(instr.Type.String())
		p.output.WriteString(" = ")
	}

	switch instr.Opcode {
	case ir.OpRet:
		p.output.WriteString("ret")
		if instr.NumOperands() > 0 {
			p.output.WriteByte(' ')
			p.output.WriteString(operandRef(instr.Operand(0)))
		}
	case ir.OpBr:
		p.output.WriteString("br ")
		p.output.WriteString(labelRef(instr.Operand(0)))
	case ir.OpCondBr:
		p.output.WriteString("cond_br ")
		p.output.WriteString(operandRef(instr.Operand(0)))
		p.output.WriteString(", ")
		p.output.WriteString(labelRef(instr.Operand(1)))
		p.output.WriteString(", ")
		p.output.WriteString(labelRef(instr.Operand(2)))
	case ir.OpAdd, ir.OpSub, ir.OpSDiv, ir.OpUDiv, ir.OpFDiv:
		p.output.WriteString(instr.Opcode.String())
		p.output.WriteByte(' ')
		p.output.WriteString(operandRef(instr.Operand(0)))
		p.output.WriteString(", ")
		p.output.WriteString(operandRef(instr.Operand(1)))
	case ir.OpICmp:
		p.output.WriteString("icmp ")
		p.output.WriteString(instr.ICmpPred.String())
		p.output.WriteByte(' ')
		p.output.WriteString(operandRef(instr.Operand(0)))
		p.output.WriteString(", ")
		p.output.WriteString(operandRef(instr.Operand(1)))
	case ir.OpAlloca:
		p.output.WriteString("alloc ")
		p.output.WriteString(instr.AllocType.String())
	case ir.OpLoad:
		p.output.WriteString("load ")
		p.output.WriteString(operandRef(instr.Operand(0)))
	case ir.OpStore:
		p.output.WriteString("store ")
		p.output.WriteString(operandRef(instr.Operand(0)))
		p.output.WriteString(", ")
		p.output.WriteString(operandRef(instr.Operand(1)))
	case ir.OpPhi:
		p.output.WriteString("phi ")
		for n := 0; n < instr.NumIncoming(); n++ {
			if n > 0 {
				p.output.WriteString(", ")
			}
			val, pred := instr.Incoming(n)
			p.output.WriteString("[ ")
			p.output.WriteString(operandRef(val))
			p.output.WriteString(", ")
			p.output.WriteString(labelRef(pred.AsValue()))
			p.output.WriteString(" ]")
		}
	case ir.OpGEP:
		p.output.WriteString("gep ")
		if instr.GEPInbounds {
			p.output.WriteString("inbounds ")
		}
		for n := 0; n < instr.NumOperands(); n++ {
			if n > 0 {
				p.output.WriteString(", ")
			}
			p.output.WriteString(operandRef(instr.Operand(n)))
		}
	case ir.OpCall:
		callee := instr.Operand(0)
		sig := callee.Type.Elem()
		p.output.WriteString("call <")
		p.output.WriteString(sig.String())
		p.output.WriteString("> ")
		p.output.WriteString(calleeRef(callee))
		p.output.WriteByte('(')
		for n := 1; n < instr.NumOperands(); n++ {
			if n > 1 {
				p.output.WriteString(", ")
			}
			p.output.WriteString(operandRef(instr.Operand(n)))
		}
		p.output.WriteByte(')')
	default:
		p.output.WriteString(instr.Opcode.String())
	}
}

// operandRef renders v in the grammar's general "name: type" operand form.
func operandRef(v *ir.Value) string {
	switch v.Kind {
	case ir.KindConstant:
		return constantLiteral(v.AsConstant()) + ": " + v.Type.String()
	case ir.KindArgument:
		return "%" + v.Name + ": " + v.Type.String()
	case ir.KindInstruction:
		return "%" + v.Name + ": " + v.Type.String()
	case ir.KindGlobal:
		return "@" + v.Name + ": " + v.Type.String()
	case ir.KindFunction:
		return "@" + v.Name + ": " + v.Type.String()
	case ir.KindBasicBlock:
		return labelRef(v)
	default:
		return "?"
	}
}

// labelRef renders a basic-block-typed operand bare, without a trailing
// ": type" — branch targets never carry the colon-type suffix.
func labelRef(v *ir.Value) string {
	return "$" + v.AsBasicBlock().Name
}

// calleeRef renders a call's callee operand bare (its type already
// appears once, in the preceding "<RetT(ParamTs)>" slot).
func calleeRef(v *ir.Value) string {
	return "@" + v.Name
}

func constantLiteral(c *ir.Constant) string {
	switch c.CK {
	case ir.ConstInt:
		if c.Type.Kind() == ir.I1 {
			if c.IntVal == 0 {
				return "false"
			}
			return "true"
		}
		return strconv.FormatInt(c.SignedValue(), 10)
	case ir.ConstFloat:
		bits := 64
		if c.Type.FloatBits() == 32 {
			bits = 32
		}
		s := strconv.FormatFloat(c.FloatVal, 'g', -1, bits)
		// Keep float literals lexically distinct from integer ones, so the
		// text re-parses as a float constant rather than an integer of float
		// type.
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return s
	case ir.ConstUndef:
		return "undef"
	case ir.ConstZeroinitializer:
		return "zeroinitializer"
	default:
		return "?"
	}
}
