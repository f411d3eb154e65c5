package expr

import (
	"github.com/rlvm/rlvm/bytestream"
	"github.com/rlvm/rlvm/memory"
	"github.com/rlvm/rlvm/rlerr"
)

// Wire tags. Only tagIntConstant ('$' 0xff-marker) and tagStringConstant
// (quote-delimited) are the "legal wire form" spec §4.4 names explicitly;
// the rest are this core's own internal encoding for the remaining node
// kinds, needed so the archive parser (§4.5) can round-trip whatever it
// built while walking bytecode.
const (
	tagIntConstant    = 0x24 // '$'
	tagIntMarker      = 0xff
	tagStringQuote    = 0x22 // '"'
	tagStoreRegister  = 0x01
	tagSimpleMemRef   = 0x02
	tagMemoryRef      = 0x03
	tagBinary         = 0x0c
	tagUnary          = 0x0d
	tagSimpleAssign   = 0x0e
	tagComplex        = 0x0f
	tagSpecial        = 0x10
)

var bankToByte = map[memory.BankCode]byte{
	memory.BankA: 'A', memory.BankB: 'B', memory.BankC: 'C', memory.BankD: 'D',
	memory.BankE: 'E', memory.BankF: 'F', memory.BankX: 'X', memory.BankG: 'G',
	memory.BankZ: 'Z', memory.BankH: 'H', memory.BankI: 'I', memory.BankJ: 'J',
	memory.BankL: 'L', memory.BankS: 'S', memory.BankM: 'M', memory.BankK: 'K',
	memory.BankLocalName: 0xe0, memory.BankGlobalName: 0xe1,
}

var byteToBank = func() map[byte]memory.BankCode {
	m := make(map[byte]memory.BankCode, len(bankToByte))
	for k, v := range bankToByte {
		m[v] = k
	}
	return m
}()

func putUint32LE(buf []byte, v uint32) []byte {
	return append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

// Serialize emits id's wire form: IntConstant as '$' + 0xff + i32 LE,
// StringConstant as a quote-delimited byte string, and every other node
// kind via this core's tagged encoding so Deserialize can recover it.
func Serialize(a *Arena, id ID) ([]byte, error) {
	n := a.Get(id)
	switch n.Kind {
	case KindIntConstant:
		buf := []byte{tagIntConstant, tagIntMarker}
		return putUint32LE(buf, uint32(n.IntVal)), nil

	case KindStringConstant:
		buf := []byte{tagStringQuote}
		buf = append(buf, []byte(n.StrVal)...)
		buf = append(buf, tagStringQuote)
		return buf, nil

	case KindStoreRegister:
		return []byte{tagStoreRegister}, nil

	case KindSimpleMemRef:
		b, ok := bankToByte[n.Bank]
		if !ok {
			return nil, rlerr.Wrap(rlerr.ErrInvalidMemoryReference, "unknown bank code")
		}
		buf := []byte{tagSimpleMemRef, b}
		return putUint32LE(buf, uint32(n.IntVal)), nil

	case KindMemoryReference:
		b, ok := bankToByte[n.Bank]
		if !ok {
			return nil, rlerr.Wrap(rlerr.ErrInvalidMemoryReference, "unknown bank code")
		}
		idxBytes, err := Serialize(a, n.Index)
		if err != nil {
			return nil, err
		}
		buf := []byte{tagMemoryRef, b}
		buf = putUint32LE(buf, uint32(len(idxBytes)))
		return append(buf, idxBytes...), nil

	case KindBinary:
		lhsBytes, err := Serialize(a, n.LHS)
		if err != nil {
			return nil, err
		}
		rhsBytes, err := Serialize(a, n.RHS)
		if err != nil {
			return nil, err
		}
		buf := []byte{tagBinary, byte(n.Op)}
		buf = putUint32LE(buf, uint32(len(lhsBytes)))
		buf = append(buf, lhsBytes...)
		buf = append(buf, rhsBytes...)
		return buf, nil

	case KindUnary:
		childBytes, err := Serialize(a, n.Child)
		if err != nil {
			return nil, err
		}
		buf := []byte{tagUnary, byte(n.Op)}
		return append(buf, childBytes...), nil

	case KindSimpleAssign:
		b, ok := bankToByte[n.Bank]
		if !ok {
			return nil, rlerr.Wrap(rlerr.ErrInvalidMemoryReference, "unknown bank code")
		}
		valBytes, err := Serialize(a, n.Value)
		if err != nil {
			return nil, err
		}
		buf := []byte{tagSimpleAssign, b}
		buf = putUint32LE(buf, uint32(n.IntVal))
		return append(buf, valBytes...), nil

	case KindComplex, KindSpecial:
		tag := byte(tagComplex)
		extra := []byte{}
		if n.Kind == KindSpecial {
			tag = tagSpecial
			extra = []byte{byte(n.Tag)}
		}
		buf := []byte{tag}
		buf = append(buf, extra...)
		buf = append(buf, byte(len(n.Children)))
		for _, c := range n.Children {
			cb, err := Serialize(a, c)
			if err != nil {
				return nil, err
			}
			buf = putUint32LE(buf, uint32(len(cb)))
			buf = append(buf, cb...)
		}
		return buf, nil
	}
	return nil, rlerr.New(rlerr.ErrInvalidOperator, "cannot serialize unknown node kind")
}

// Deserialize reads one node (and, recursively, its children) from r and
// adds it to a, returning the new node's ID.
func Deserialize(a *Arena, r *bytestream.Reader) (ID, error) {
	tag, err := r.PopUint8()
	if err != nil {
		return 0, err
	}
	switch tag {
	case tagIntConstant:
		marker, err := r.PopUint8()
		if err != nil {
			return 0, err
		}
		if marker != tagIntMarker {
			return 0, rlerr.New(rlerr.ErrInvalidOperator, "malformed integer literal wire form")
		}
		v, err := r.PopInt32()
		if err != nil {
			return 0, err
		}
		return a.IntConstant(v), nil

	case tagStringQuote:
		var bs []byte
		for {
			b, err := r.PopUint8()
			if err != nil {
				return 0, err
			}
			if b == tagStringQuote {
				break
			}
			bs = append(bs, b)
		}
		return a.StringConstant(string(bs)), nil

	case tagStoreRegister:
		return a.StoreRegister(), nil

	case tagSimpleMemRef:
		bb, err := r.PopUint8()
		if err != nil {
			return 0, err
		}
		bank, ok := byteToBank[bb]
		if !ok {
			return 0, rlerr.New(rlerr.ErrInvalidMemoryReference, "unknown bank byte")
		}
		idx, err := r.PopInt32()
		if err != nil {
			return 0, err
		}
		return a.SimpleMemRef(bank, idx), nil

	case tagMemoryRef:
		bb, err := r.PopUint8()
		if err != nil {
			return 0, err
		}
		bank, ok := byteToBank[bb]
		if !ok {
			return 0, rlerr.New(rlerr.ErrInvalidMemoryReference, "unknown bank byte")
		}
		if _, err := r.PopUint32(); err != nil { // length prefix, unused on read
			return 0, err
		}
		idxID, err := Deserialize(a, r)
		if err != nil {
			return 0, err
		}
		return a.MemoryReference(bank, idxID), nil

	case tagBinary:
		op, err := r.PopUint8()
		if err != nil {
			return 0, err
		}
		if _, err := r.PopUint32(); err != nil {
			return 0, err
		}
		lhsID, err := Deserialize(a, r)
		if err != nil {
			return 0, err
		}
		rhsID, err := Deserialize(a, r)
		if err != nil {
			return 0, err
		}
		return a.Binary(int(op), lhsID, rhsID), nil

	case tagUnary:
		op, err := r.PopUint8()
		if err != nil {
			return 0, err
		}
		childID, err := Deserialize(a, r)
		if err != nil {
			return 0, err
		}
		return a.Unary(int(op), childID), nil

	case tagSimpleAssign:
		bb, err := r.PopUint8()
		if err != nil {
			return 0, err
		}
		bank, ok := byteToBank[bb]
		if !ok {
			return 0, rlerr.New(rlerr.ErrInvalidMemoryReference, "unknown bank byte")
		}
		idx, err := r.PopInt32()
		if err != nil {
			return 0, err
		}
		valID, err := Deserialize(a, r)
		if err != nil {
			return 0, err
		}
		return a.add(Node{Kind: KindSimpleAssign, Bank: bank, IntVal: idx, Value: valID}), nil

	case tagComplex, tagSpecial:
		specTag := 0
		if tag == tagSpecial {
			b, err := r.PopUint8()
			if err != nil {
				return 0, err
			}
			specTag = int(b)
		}
		count, err := r.PopUint8()
		if err != nil {
			return 0, err
		}
		children := make([]ID, 0, count)
		for i := 0; i < int(count); i++ {
			if _, err := r.PopUint32(); err != nil {
				return 0, err
			}
			childID, err := Deserialize(a, r)
			if err != nil {
				return 0, err
			}
			children = append(children, childID)
		}
		if tag == tagSpecial {
			return a.Special(specTag, children), nil
		}
		return a.Complex(children), nil
	}
	return 0, rlerr.New(rlerr.ErrInvalidOperator, "unknown wire tag")
}
