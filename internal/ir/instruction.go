package ir

// Instruction is a single SSA operation. It embeds Value (its own result,
// when it produces one — void-typed for Opcodes like store/br that don't),
// holds its operands as an ordered slice of Uses, and threads itself into
// its owning BasicBlock's instruction list via an intrusive prev/next pair.
//
// Per-opcode side data that doesn't fit the uniform operand list (icmp's
// predicate, gep's source type, alloca's allocated type) lives in dedicated
// fields rather than a variant-of-variants payload, since Calir only has a
// fixed, small opcode set.
type Instruction struct {
	Value

	Opcode Opcode
	Block  *BasicBlock

	Operands []*Use

	ICmpPred      ICmpPredicate // valid when Opcode == OpICmp
	GEPSourceType *Type         // valid when Opcode == OpGEP: type the first index walks into
	GEPInbounds   bool          // valid when Opcode == OpGEP
	AllocType     *Type         // valid when Opcode == OpAlloca: type being allocated

	prev, next *Instruction
}

// AsValue returns the embedded Value by pointer, for code that wants to
// treat an Instruction generically (as an operand, as a use target).
func (i *Instruction) AsValue() *Value { return &i.Value }

// NewInstruction allocates an Instruction of the given opcode and result
// type, not yet attached to any block's instruction list (the caller
// appends it with BasicBlock.pushBack or insertBefore).
func (c *Context) NewInstruction(op Opcode, resultType *Type, block *BasicBlock) *Instruction {
	instr := c.instrPool.Alloc()
	instr.Value = Value{Kind: KindInstruction, Type: resultType}
	instr.Owner = instr
	instr.Opcode = op
	instr.Block = block
	return instr
}

// AppendOperand appends a new operand Use targeting v to instr's operand
// list.
func (c *Context) AppendOperand(instr *Instruction, v *Value) *Use {
	u := c.newUse(instr, v)
	instr.Operands = append(instr.Operands, u)
	return u
}

// Operand returns the Value referenced by operand index n.
func (i *Instruction) Operand(n int) *Value { return i.Operands[n].Value }

// SetOperand retargets operand index n to newValue.
func (i *Instruction) SetOperand(n int, newValue *Value) { i.Operands[n].set(newValue) }

// NumOperands returns the number of operand slots.
func (i *Instruction) NumOperands() int { return len(i.Operands) }

// IsTerminator reports whether this instruction ends its basic block.
func (i *Instruction) IsTerminator() bool { return i.Opcode.IsTerminator() }

// IsPhi reports whether this instruction is a phi node.
func (i *Instruction) IsPhi() bool { return i.Opcode == OpPhi }

// NumIncoming returns a phi instruction's incoming-pair count.
func (i *Instruction) NumIncoming() int { return len(i.Operands) / 2 }

// Incoming returns the value and predecessor block of a phi instruction's
// n-th incoming pair.
func (i *Instruction) Incoming(n int) (value *Value, pred *BasicBlock) {
	value = i.Operands[2*n].Value
	pred = i.Operands[2*n+1].Value.AsBasicBlock()
	return value, pred
}

// eraseFromParent replaces every remaining use of the instruction's result
// with an undef of the same type, removes the instruction from its block's
// instruction list, and unlinks every operand Use. An instruction whose
// block is not attached to a function in a module keeps its uses, since
// there is no Context to take the undef from.
func (i *Instruction) eraseFromParent() {
	b := i.Block
	if i.uses != nil && b != nil && b.Parent != nil && b.Parent.Parent != nil {
		undef := b.Parent.Parent.Ctx.ConstUndef(i.Type)
		i.Value.ReplaceAllUsesWith(undef.AsValue())
	}
	if b != nil {
		if i.prev != nil {
			i.prev.next = i.next
		} else if b.first == i {
			b.first = i.next
		}
		if i.next != nil {
			i.next.prev = i.prev
		} else if b.last == i {
			b.last = i.prev
		}
		i.prev, i.next, i.Block = nil, nil, nil
	}
	for _, u := range i.Operands {
		u.unlink()
	}
	i.Operands = nil
}
