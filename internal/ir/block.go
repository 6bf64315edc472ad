package ir

// BasicBlock is a maximal straight-line sequence of instructions ending (once
// well formed) in exactly one terminator. Its instructions are threaded
// through an intrusive doubly-linked list (first/last plus each
// Instruction's own prev/next) rather than a slice, so inserting before an
// arbitrary instruction never shifts anything.
type BasicBlock struct {
	Value

	Parent *Function

	first, last *Instruction

	prev, next *BasicBlock // intrusive position within Parent's block list
}

// AsValue returns the embedded Value by pointer.
func (b *BasicBlock) AsValue() *Value { return &b.Value }

// Instructions returns the block's instructions in order as a slice. It
// allocates; callers walking a hot path should iterate First/Next instead.
func (b *BasicBlock) Instructions() []*Instruction {
	var out []*Instruction
	for i := b.first; i != nil; i = i.next {
		out = append(out, i)
	}
	return out
}

// First returns the block's first instruction, or nil if empty.
func (b *BasicBlock) First() *Instruction { return b.first }

// Last returns the block's last instruction, or nil if empty.
func (b *BasicBlock) Last() *Instruction { return b.last }

// Next returns i's successor within its block, or nil at the end.
func (i *Instruction) Next() *Instruction { return i.next }

// Prev returns i's predecessor within its block, or nil at the start.
func (i *Instruction) Prev() *Instruction { return i.prev }

// Terminator returns the block's terminating instruction, or nil if the
// block has none yet (an under-construction block the builder hasn't
// closed out).
func (b *BasicBlock) Terminator() *Instruction {
	if b.last != nil && b.last.IsTerminator() {
		return b.last
	}
	return nil
}

// Append appends instr to the end of the block's instruction list.
func (b *BasicBlock) Append(instr *Instruction) { b.pushBack(instr) }

// pushBack appends instr to the end of the block's instruction list and
// sets instr.Block.
func (b *BasicBlock) pushBack(instr *Instruction) {
	instr.Block = b
	instr.prev = b.last
	instr.next = nil
	if b.last != nil {
		b.last.next = instr
	} else {
		b.first = instr
	}
	b.last = instr
}

// insertBefore inserts instr immediately before mark within b's instruction
// list.
func (b *BasicBlock) insertBefore(mark, instr *Instruction) {
	instr.Block = b
	instr.next = mark
	instr.prev = mark.prev
	if mark.prev != nil {
		mark.prev.next = instr
	} else {
		b.first = instr
	}
	mark.prev = instr
}

// Successors returns the blocks this block's terminator can transfer
// control to: none for ret, one target for br, two for cond_br.
func (b *BasicBlock) Successors() []*BasicBlock {
	term := b.Terminator()
	if term == nil {
		return nil
	}
	switch term.Opcode {
	case OpBr:
		return []*BasicBlock{term.Operand(0).AsBasicBlock()}
	case OpCondBr:
		return []*BasicBlock{term.Operand(1).AsBasicBlock(), term.Operand(2).AsBasicBlock()}
	default:
		return nil
	}
}

// NextBlock returns b's successor within Parent's block list, or nil at the
// end.
func (b *BasicBlock) NextBlock() *BasicBlock { return b.next }

// PrevBlock returns b's predecessor within Parent's block list, or nil at
// the start.
func (b *BasicBlock) PrevBlock() *BasicBlock { return b.prev }
