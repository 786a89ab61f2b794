package program

import "fmt"

// Builder is a fluent declarative DSL for assembling a Program, in the same
// bail-out-on-first-error style as the teacher's circuit Builder: every
// method returns the Builder so calls chain, and the first error sticks.
type Builder struct {
	prog  *Program
	stack []*[]Op // append target; top of stack is the current Repeat body, or the program's own Ops
	err   error
}

// NewBuilder returns a Builder for a Program with the given qubit count.
func NewBuilder(numQubits int) *Builder {
	prog := &Program{NumQubits: numQubits}
	b := &Builder{prog: prog}
	b.stack = []*[]Op{&prog.Ops}
	return b
}

func (b *Builder) current() *[]Op {
	return b.stack[len(b.stack)-1]
}

func (b *Builder) append(op Op) *Builder {
	if b.err != nil {
		return b
	}
	target := b.current()
	*target = append(*target, op)
	return b
}

// Gate appends a named gate/measurement/reset dispatch over targets.
func (b *Builder) Gate(name string, targets ...int) *Builder {
	return b.GateArgs(name, nil, targets...)
}

// GateArgs appends a gate dispatch carrying numeric args (e.g. a rotation
// angle) alongside its targets.
func (b *Builder) GateArgs(name string, args []float64, targets ...int) *Builder {
	return b.append(Gate{Name: name, Targets: append([]int(nil), targets...), Args: args})
}

// H, X, Y, Z, S are the single-qubit Clifford convenience methods.
func (b *Builder) H(q int) *Builder { return b.Gate("H", q) }
func (b *Builder) X(q int) *Builder { return b.Gate("X", q) }
func (b *Builder) Y(q int) *Builder { return b.Gate("Y", q) }
func (b *Builder) Z(q int) *Builder { return b.Gate("Z", q) }
func (b *Builder) S(q int) *Builder { return b.Gate("S", q) }

// CNOT, CZ, SWAP are the two-qubit Clifford convenience methods.
func (b *Builder) CNOT(control, target int) *Builder { return b.Gate("CNOT", control, target) }
func (b *Builder) CZ(control, target int) *Builder   { return b.Gate("CZ", control, target) }
func (b *Builder) SWAP(a, c int) *Builder             { return b.Gate("SWAP", a, c) }

// M, R, MR are the measurement/reset convenience methods.
func (b *Builder) M(targets ...int) *Builder  { return b.Gate("M", targets...) }
func (b *Builder) R(targets ...int) *Builder  { return b.Gate("R", targets...) }
func (b *Builder) MR(targets ...int) *Builder { return b.Gate("MR", targets...) }

// Annotate appends a skippable annotation instruction.
func (b *Builder) Annotate(kind AnnotationKind) *Builder {
	return b.append(Annotation{Kind: kind})
}

// Repeat opens a repeat block replayed count times; body is built with the
// same Builder, appending into the block instead of the top-level program
// until the block closes.
func (b *Builder) Repeat(count int, body func(*Builder)) *Builder {
	if b.err != nil {
		return b
	}
	if count < 0 {
		b.err = fmt.Errorf("program: repeat count must be >= 0, got %d", count)
		return b
	}
	block := Repeat{Count: count}
	b.stack = append(b.stack, &block.Body)
	body(b)
	b.stack = b.stack[:len(b.stack)-1]
	if b.err != nil {
		return b
	}
	return b.append(block)
}

// Build finalizes the Program, returning any error accumulated along the
// way.
func (b *Builder) Build() (*Program, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.prog, nil
}
