package expr

import "github.com/rlvm/rlvm/rlerr"

// Binary op codes, spec §4.4's table.
const (
	opAdd = 0
	opSub = 1
	opMul = 2
	opDiv = 3
	opMod = 4
	opAnd = 5
	opOr  = 6
	opXor = 7
	opShl = 8
	opShr = 9

	opAssignAdd = 20
	opAssignSub = 21
	opAssignMul = 22
	opAssignDiv = 23
	opAssignMod = 24
	opAssignAnd = 25
	opAssignOr  = 26
	opAssignXor = 27
	opAssignShl = 28
	opAssignShr = 29

	opAssign = 30

	opEq = 40
	opNe = 41
	opLe = 42
	opLt = 43
	opGe = 44
	opGt = 45

	opLogicalAnd = 60
	opLogicalOr  = 61
)

// opUnaryNegate is the only defined unary operator.
const opUnaryNegate = 0x01

// applyArith applies one of the pure arithmetic ops (0..9) to a, b.
// Division and modulo by zero return lhs unchanged rather than erroring —
// a compatibility requirement spec §4.4 calls out explicitly.
func applyArith(op int, a, b int32) (int32, error) {
	switch op {
	case opAdd:
		return a + b, nil
	case opSub:
		return a - b, nil
	case opMul:
		return a * b, nil
	case opDiv:
		if b == 0 {
			return a, nil
		}
		return a / b, nil
	case opMod:
		if b == 0 {
			return a, nil
		}
		return a % b, nil
	case opAnd:
		return a & b, nil
	case opOr:
		return a | b, nil
	case opXor:
		return a ^ b, nil
	case opShl:
		return a << uint(uint32(b)&31), nil
	case opShr:
		return a >> uint(uint32(b)&31), nil
	}
	return 0, rlerr.New(rlerr.ErrInvalidOperator, "not a pure arithmetic op")
}

func applyCompare(op int, a, b int32) (int32, error) {
	var v bool
	switch op {
	case opEq:
		v = a == b
	case opNe:
		v = a != b
	case opLe:
		v = a <= b
	case opLt:
		v = a < b
	case opGe:
		v = a >= b
	case opGt:
		v = a > b
	default:
		return 0, rlerr.New(rlerr.ErrInvalidOperator, "not a comparison op")
	}
	if v {
		return 1, nil
	}
	return 0, nil
}

func assignOpToArith(op int) (int, bool) {
	if op < opAssignAdd || op > opAssignShr {
		return 0, false
	}
	return op - opAssignAdd, true
}
