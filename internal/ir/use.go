package ir

// Use is one edge of the def-use graph: a single operand slot, owned by
// some user (almost always an *Instruction), pointing at the Value it
// consumes. Every Value threads its incoming Uses through an intrusive
// doubly-linked list (prev/next) so ReplaceAllUsesWith can splice a whole
// chain across to a new target in O(number of uses), never scanning the
// rest of the module.
type Use struct {
	User  *Instruction
	Value *Value

	prev, next *Use
}

// newUse allocates a Use for user referencing target, linking it onto
// target's use list.
func (c *Context) newUse(user *Instruction, target *Value) *Use {
	u := c.usePool.Alloc()
	u.User = user
	u.Value = target
	if target != nil {
		target.addUse(u)
	}
	return u
}

// set retargets u from its current Value to newTarget, unlinking from the
// old use list and relinking onto the new one.
func (u *Use) set(newTarget *Value) {
	if u.Value == newTarget {
		return
	}
	if u.Value != nil {
		u.Value.removeUse(u)
	}
	u.Value = newTarget
	if newTarget != nil {
		newTarget.addUse(u)
	}
}

// ReplaceAllUsesWith retargets every Use currently referencing v onto
// newValue, leaving v with no uses. Operands are mutated in place, so
// existing *Instruction operand slices still point at the right Use
// objects; only the Use.Value they hold changes.
func (v *Value) ReplaceAllUsesWith(newValue *Value) {
	if v == newValue {
		return
	}
	// Snapshot first: set() mutates v.uses out from under a live walk.
	var snapshot []*Use
	for u := v.uses; u != nil; u = u.next {
		snapshot = append(snapshot, u)
	}
	for _, u := range snapshot {
		u.set(newValue)
	}
}

// unlink removes u from its target's use list without retargeting it —
// used when an instruction operand is being discarded outright (instruction
// erasure), not replaced.
func (u *Use) unlink() {
	if u.Value != nil {
		u.Value.removeUse(u)
		u.Value = nil
	}
}
