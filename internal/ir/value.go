package ir

// Value is the common header every IR entity that can be used as an operand
// embeds: an argument, an instruction, a basic block (as a branch target), a
// function (as a call target), a constant, or a global variable. Rather than
// an open-ended interface hierarchy, Calir tags the concrete shape with Kind
// and reaches it back from Owner — a closed, switchable sum type instead of
// unbounded subclassing.
type Value struct {
	Kind ValueKind
	Name string
	Type *Type
	Owner any // concrete *Argument / *Instruction / *BasicBlock / *Function / *Constant / *GlobalVariable

	uses *Use // head of the unordered, intrusive list of every Use referencing this Value
}

// addUse links u onto this Value's use list. Used by newUse and by Use.set
// when retargeting (which ReplaceAllUsesWith calls for each use).
func (v *Value) addUse(u *Use) {
	u.prev = nil
	u.next = v.uses
	if v.uses != nil {
		v.uses.prev = u
	}
	v.uses = u
}

// removeUse unlinks u from this Value's use list.
func (v *Value) removeUse(u *Use) {
	if u.prev != nil {
		u.prev.next = u.next
	} else if v.uses == u {
		v.uses = u.next
	}
	if u.next != nil {
		u.next.prev = u.prev
	}
	u.prev, u.next = nil, nil
}

// Uses calls fn once per Use currently referencing this Value. fn must not
// retarget or erase uses of v while iterating; ReplaceAllUsesWith handles
// that case itself by snapshotting first.
func (v *Value) Uses(fn func(*Use)) {
	for u := v.uses; u != nil; {
		next := u.next
		fn(u)
		u = next
	}
}

// HasUses reports whether any Use currently references this Value.
func (v *Value) HasUses() bool { return v.uses != nil }

// NumUses counts the Uses currently referencing this Value.
func (v *Value) NumUses() int {
	n := 0
	for u := v.uses; u != nil; u = u.next {
		n++
	}
	return n
}

// AsArgument downcasts to *Argument, or returns nil if Kind is not
// KindArgument.
func (v *Value) AsArgument() *Argument {
	if v.Kind != KindArgument {
		return nil
	}
	return v.Owner.(*Argument)
}

// AsInstruction downcasts to *Instruction, or returns nil if Kind is not
// KindInstruction.
func (v *Value) AsInstruction() *Instruction {
	if v.Kind != KindInstruction {
		return nil
	}
	return v.Owner.(*Instruction)
}

// AsBasicBlock downcasts to *BasicBlock, or returns nil if Kind is not
// KindBasicBlock.
func (v *Value) AsBasicBlock() *BasicBlock {
	if v.Kind != KindBasicBlock {
		return nil
	}
	return v.Owner.(*BasicBlock)
}

// AsFunction downcasts to *Function, or returns nil if Kind is not
// KindFunction.
func (v *Value) AsFunction() *Function {
	if v.Kind != KindFunction {
		return nil
	}
	return v.Owner.(*Function)
}

// AsConstant downcasts to *Constant, or returns nil if Kind is not
// KindConstant.
func (v *Value) AsConstant() *Constant {
	if v.Kind != KindConstant {
		return nil
	}
	return v.Owner.(*Constant)
}

// AsGlobal downcasts to *GlobalVariable, or returns nil if Kind is not
// KindGlobal.
func (v *Value) AsGlobal() *GlobalVariable {
	if v.Kind != KindGlobal {
		return nil
	}
	return v.Owner.(*GlobalVariable)
}
