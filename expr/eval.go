package expr

import (
	"github.com/rlvm/rlvm/memory"
	"github.com/rlvm/rlvm/rlerr"
)

// Value is the tagged evaluation result: every Node evaluates to either an
// integer or a string, never both.
type Value struct {
	IsString bool
	Int      int32
	Str      string
}

// Evaluator binds an Arena to the memory facade it reads/writes through,
// plus the single StoreRegister scratch slot spec §3 calls out as a
// writable l-value independent of any bank.
type Evaluator struct {
	Arena    *Arena
	Facade   *memory.Facade
	register int32
}

// NewEvaluator constructs an Evaluator over the given arena and facade.
func NewEvaluator(a *Arena, f *memory.Facade) *Evaluator {
	return &Evaluator{Arena: a, Facade: f}
}

// Evaluate computes the value of node id, performing any side effects
// (assignment, compound-assignment) that node implies.
func (e *Evaluator) Evaluate(id ID) (Value, error) {
	n := e.Arena.Get(id)
	switch n.Kind {
	case KindStoreRegister:
		return Value{Int: e.register}, nil

	case KindIntConstant:
		return Value{Int: n.IntVal}, nil

	case KindStringConstant:
		return Value{IsString: true, Str: n.StrVal}, nil

	case KindSimpleMemRef:
		v, err := e.Facade.ReadInt(memory.IntLoc{Bank: n.Bank, Index: int(n.IntVal), Width: 32})
		if err != nil {
			return Value{}, err
		}
		return Value{Int: v}, nil

	case KindMemoryReference:
		idx, err := e.Evaluate(n.Index)
		if err != nil {
			return Value{}, err
		}
		v, err := e.Facade.ReadInt(memory.IntLoc{Bank: n.Bank, Index: int(idx.Int), Width: 32})
		if err != nil {
			return Value{}, err
		}
		return Value{Int: v}, nil

	case KindSimpleAssign:
		v, err := e.Evaluate(n.Value)
		if err != nil {
			return Value{}, err
		}
		if err := e.Facade.WriteInt(memory.IntLoc{Bank: n.Bank, Index: int(n.IntVal), Width: 32}, v.Int); err != nil {
			return Value{}, err
		}
		return v, nil

	case KindUnary:
		return e.evalUnary(n)

	case KindBinary:
		return e.evalBinary(n)

	case KindComplex, KindSpecial:
		return Value{}, rlerr.New(rlerr.ErrInvalidOperator, "Complex/Special nodes have no scalar value")
	}
	return Value{}, rlerr.New(rlerr.ErrInvalidOperator, "unknown node kind")
}

func (e *Evaluator) evalUnary(n Node) (Value, error) {
	if n.Op != opUnaryNegate {
		return Value{}, rlerr.New(rlerr.ErrInvalidOperator, "unsupported unary operator")
	}
	v, err := e.Evaluate(n.Child)
	if err != nil {
		return Value{}, err
	}
	return Value{Int: -v.Int}, nil
}

func (e *Evaluator) evalBinary(n Node) (Value, error) {
	switch {
	case n.Op >= opAdd && n.Op <= opShr:
		lhs, err := e.Evaluate(n.LHS)
		if err != nil {
			return Value{}, err
		}
		rhs, err := e.Evaluate(n.RHS)
		if err != nil {
			return Value{}, err
		}
		v, err := applyArith(n.Op, lhs.Int, rhs.Int)
		return Value{Int: v}, err

	case n.Op >= opAssignAdd && n.Op <= opAssignShr:
		return e.evalCompoundAssign(n)

	case n.Op == opAssign:
		rhs, err := e.Evaluate(n.RHS)
		if err != nil {
			return Value{}, err
		}
		if err := e.writeLValue(n.LHS, rhs.Int); err != nil {
			return Value{}, err
		}
		return rhs, nil

	case n.Op >= opEq && n.Op <= opGt:
		lhs, err := e.Evaluate(n.LHS)
		if err != nil {
			return Value{}, err
		}
		rhs, err := e.Evaluate(n.RHS)
		if err != nil {
			return Value{}, err
		}
		v, err := applyCompare(n.Op, lhs.Int, rhs.Int)
		return Value{Int: v}, err

	case n.Op == opLogicalAnd || n.Op == opLogicalOr:
		lhs, err := e.Evaluate(n.LHS)
		if err != nil {
			return Value{}, err
		}
		rhs, err := e.Evaluate(n.RHS)
		if err != nil {
			return Value{}, err
		}
		var v bool
		if n.Op == opLogicalAnd {
			v = lhs.Int != 0 && rhs.Int != 0
		} else {
			v = lhs.Int != 0 || rhs.Int != 0
		}
		if v {
			return Value{Int: 1}, nil
		}
		return Value{Int: 0}, nil
	}
	return Value{}, rlerr.New(rlerr.ErrInvalidOperator, "unrecognised binary op")
}

// evalCompoundAssign evaluates lhs's current value, applies the
// corresponding arithmetic op against rhs, writes the result back into
// lhs, and returns it — the assign-op family (20..29).
func (e *Evaluator) evalCompoundAssign(n Node) (Value, error) {
	arithOp, _ := assignOpToArith(n.Op)
	old, err := e.Evaluate(n.LHS)
	if err != nil {
		return Value{}, err
	}
	rhs, err := e.Evaluate(n.RHS)
	if err != nil {
		return Value{}, err
	}
	v, err := applyArith(arithOp, old.Int, rhs.Int)
	if err != nil {
		return Value{}, err
	}
	if err := e.writeLValue(n.LHS, v); err != nil {
		return Value{}, err
	}
	return Value{Int: v}, nil
}

// writeLValue writes v into the memory location (or register) node id
// denotes. Only StoreRegister, SimpleMemRef, and MemoryReference are valid
// l-values; anything else is InvalidMemoryReference.
func (e *Evaluator) writeLValue(id ID, v int32) error {
	n := e.Arena.Get(id)
	switch n.Kind {
	case KindStoreRegister:
		e.register = v
		return nil
	case KindSimpleMemRef:
		return e.Facade.WriteInt(memory.IntLoc{Bank: n.Bank, Index: int(n.IntVal), Width: 32}, v)
	case KindMemoryReference:
		idx, err := e.Evaluate(n.Index)
		if err != nil {
			return err
		}
		return e.Facade.WriteInt(memory.IntLoc{Bank: n.Bank, Index: int(idx.Int), Width: 32}, v)
	}
	return rlerr.New(rlerr.ErrInvalidMemoryReference, "node is not a writable l-value")
}

// IntRef is a writable handle into the facade for an integer l-value node,
// spec §4.4's integer_reference_iterator.
type IntRef struct {
	eval *Evaluator
	id   ID
}

// IntReferenceIterator returns a writable reference to the integer l-value
// node id names.
func (e *Evaluator) IntReferenceIterator(id ID) (*IntRef, error) {
	switch e.Arena.Get(id).Kind {
	case KindStoreRegister, KindSimpleMemRef, KindMemoryReference:
		return &IntRef{eval: e, id: id}, nil
	}
	return nil, rlerr.New(rlerr.ErrInvalidMemoryReference, "node is not an integer l-value")
}

// Get reads the current value through the reference.
func (r *IntRef) Get() (int32, error) {
	v, err := r.eval.Evaluate(r.id)
	return v.Int, err
}

// Set writes a new value through the reference.
func (r *IntRef) Set(v int32) error {
	return r.eval.writeLValue(r.id, v)
}

// StrRef is the string-bank counterpart of IntRef.
type StrRef struct {
	facade *memory.Facade
	loc    memory.StrLoc
}

// StringReferenceIterator returns a writable reference to a string bank
// l-value. Only SimpleMemRef/MemoryReference nodes over a string bank are
// valid; StrLoc has no sub-addressing.
func (e *Evaluator) StringReferenceIterator(id ID) (*StrRef, error) {
	n := e.Arena.Get(id)
	switch n.Kind {
	case KindSimpleMemRef:
		return &StrRef{facade: e.Facade, loc: memory.StrLoc{Bank: n.Bank, Index: int(n.IntVal)}}, nil
	case KindMemoryReference:
		idx, err := e.Evaluate(n.Index)
		if err != nil {
			return nil, err
		}
		return &StrRef{facade: e.Facade, loc: memory.StrLoc{Bank: n.Bank, Index: int(idx.Int)}}, nil
	}
	return nil, rlerr.New(rlerr.ErrInvalidMemoryReference, "node is not a string l-value")
}

// Get reads the current string through the reference.
func (r *StrRef) Get() (string, error) {
	return r.facade.ReadStr(r.loc)
}

// Set writes a new string through the reference.
func (r *StrRef) Set(v string) error {
	return r.facade.WriteStr(r.loc, v)
}
