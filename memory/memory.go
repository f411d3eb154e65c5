// Package memory implements the typed facade (spec §4.3) over membank:
// bit-width sub-addressing on top of 32-bit integer cells, the
// global/local/stack bank partitioning, and the per-scenario kidoku
// read-marker bitmap. It generalises the teacher's named MemorySegment
// partition (vm/memory.go: code/data/heap/stack, each with its own
// permissions) from "named memory region" to "named memory bank family":
// here the partition decides save/restore membership rather than access
// permission, since every bank here is always readable and writable.
package memory

import (
	"fmt"

	"github.com/rlvm/rlvm/membank"
	"github.com/rlvm/rlvm/rlerr"
)

// BankCode names one of the bank families spec §3 enumerates.
type BankCode string

// Integer banks.
const (
	BankA BankCode = "A"
	BankB BankCode = "B"
	BankC BankCode = "C"
	BankD BankCode = "D"
	BankE BankCode = "E"
	BankF BankCode = "F"
	BankX BankCode = "X"
	BankG BankCode = "G"
	BankZ BankCode = "Z"
	BankH BankCode = "H"
	BankI BankCode = "I"
	BankJ BankCode = "J"
	BankL BankCode = "L"
)

// String banks.
const (
	BankS          BankCode = "S"
	BankM          BankCode = "M"
	BankK          BankCode = "K"
	BankLocalName  BankCode = "local_name"
	BankGlobalName BankCode = "global_name"
)

// Default bank sizes. The machine can grow any bank at runtime via Resize;
// these are just the sizes a freshly constructed Facade starts with.
const (
	defaultIntBankSize   = 2000
	defaultStrBankSize   = 200
	defaultStackIntSize  = 40
	defaultStackStrSize  = 40
)

var globalIntBanks = []BankCode{BankG, BankZ}
var globalStrBanks = []BankCode{BankM, BankGlobalName}
var localIntBanks = []BankCode{BankA, BankB, BankC, BankD, BankE, BankF, BankX, BankH, BankI, BankJ}
var localStrBanks = []BankCode{BankS, BankLocalName}

// IntLoc addresses a sub-range of bits within an integer bank, per spec §3's
// bit-width sub-addressing: location (bank, index, b) addresses bit-range
// [index*b mod 32, index*b mod 32 + b) of the 32-bit cell at
// floor(index*b/32).
type IntLoc struct {
	Bank  BankCode
	Index int
	Width int // one of 1, 2, 4, 8, 16, 32
}

// StrLoc addresses one cell of a string bank; string banks have no
// sub-addressing.
type StrLoc struct {
	Bank  BankCode
	Index int
}

type frame struct {
	l *membank.Bank[int32]
	k *membank.Bank[string]
}

// Facade is the typed, partitioned view over a set of membank.Bank values
// that the rest of the core calls memory through.
type Facade struct {
	intBanks map[BankCode]*membank.Bank[int32]
	strBanks map[BankCode]*membank.Bank[string]
	stack    []frame
	kidoku   map[int]*kidokuSet
}

// New constructs a Facade with every named bank at its default size, empty
// stack, and no recorded kidoku marks.
func New() *Facade {
	f := &Facade{
		intBanks: make(map[BankCode]*membank.Bank[int32]),
		strBanks: make(map[BankCode]*membank.Bank[string]),
		kidoku:   make(map[int]*kidokuSet),
	}
	for _, b := range append(append([]BankCode{}, globalIntBanks...), localIntBanks...) {
		f.intBanks[b] = membank.New[int32](defaultIntBankSize, 0)
	}
	for _, b := range append(append([]BankCode{}, globalStrBanks...), localStrBanks...) {
		f.strBanks[b] = membank.New[string](defaultStrBankSize, "")
	}
	return f
}

func (f *Facade) intBank(code BankCode) (*membank.Bank[int32], error) {
	if code == BankL {
		if len(f.stack) == 0 {
			return nil, rlerr.New(rlerr.ErrStackEmpty, "L-bank access with no active call frame")
		}
		return f.stack[len(f.stack)-1].l, nil
	}
	if b, ok := f.intBanks[code]; ok {
		return b, nil
	}
	return nil, rlerr.Wrap(rlerr.ErrInvalidMemoryReference, fmt.Sprintf("%q is not an integer bank", code), "bank", code)
}

func (f *Facade) strBank(code BankCode) (*membank.Bank[string], error) {
	if code == BankK {
		if len(f.stack) == 0 {
			return nil, rlerr.New(rlerr.ErrStackEmpty, "K-bank access with no active call frame")
		}
		return f.stack[len(f.stack)-1].k, nil
	}
	if b, ok := f.strBanks[code]; ok {
		return b, nil
	}
	return nil, rlerr.Wrap(rlerr.ErrInvalidMemoryReference, fmt.Sprintf("%q is not a string bank", code), "bank", code)
}

// cellAddr translates (index, width) into (cell index, bit shift within
// that cell), per spec §3's addressing formula.
func cellAddr(index, width int) (cell, shift int) {
	bitOffset := index * width
	return bitOffset / 32, bitOffset % 32
}

func maskFor(width int) uint32 {
	if width >= 32 {
		return 0xffffffff
	}
	return (uint32(1) << uint(width)) - 1
}

// ReadInt extracts the bit-width-addressed value at loc.
func (f *Facade) ReadInt(loc IntLoc) (int32, error) {
	bank, err := f.intBank(loc.Bank)
	if err != nil {
		return 0, err
	}
	cellIdx, shift := cellAddr(loc.Index, loc.Width)
	cell, err := bank.Get(cellIdx)
	if err != nil {
		return 0, err
	}
	if loc.Width >= 32 {
		return cell, nil
	}
	v := (uint32(cell) >> uint(shift)) & maskFor(loc.Width)
	return int32(v), nil
}

// WriteInt inserts v into the bit-width-addressed slot at loc. Writing a
// value outside [0, 2^width) fails with ErrOverflow (full 32-bit writes
// accept any int32).
func (f *Facade) WriteInt(loc IntLoc, v int32) error {
	bank, err := f.intBank(loc.Bank)
	if err != nil {
		return err
	}
	if loc.Width < 32 {
		limit := int64(1) << uint(loc.Width)
		if int64(v) < 0 || int64(v) >= limit {
			return rlerr.Wrap(rlerr.ErrOverflow, fmt.Sprintf("value %d does not fit in %d bits", v, loc.Width), "index", loc.Index)
		}
	}
	cellIdx, shift := cellAddr(loc.Index, loc.Width)
	cell, err := bank.Get(cellIdx)
	if err != nil {
		return err
	}
	if loc.Width >= 32 {
		return bank.Set(cellIdx, v)
	}
	mask := maskFor(loc.Width)
	newCell := (uint32(cell) &^ (mask << uint(shift))) | ((uint32(v) & mask) << uint(shift))
	return bank.Set(cellIdx, int32(newCell))
}

// ReadStr reads one string-bank cell; string banks have no sub-addressing.
func (f *Facade) ReadStr(loc StrLoc) (string, error) {
	bank, err := f.strBank(loc.Bank)
	if err != nil {
		return "", err
	}
	return bank.Get(loc.Index)
}

// WriteStr writes one string-bank cell.
func (f *Facade) WriteStr(loc StrLoc, v string) error {
	bank, err := f.strBank(loc.Bank)
	if err != nil {
		return err
	}
	return bank.Set(loc.Index, v)
}

// FillInt range-fills an integer bank with whole-cell value v (spec §4.3
// fill rejects begin>end as InvalidRange and end>size as OutOfRange; both
// are surfaced unchanged from membank.Bank.Fill).
func (f *Facade) FillInt(bankCode BankCode, lo, hi int, v int32) error {
	bank, err := f.intBank(bankCode)
	if err != nil {
		return err
	}
	return bank.Fill(lo, hi, v)
}

// FillStr range-fills a string bank.
func (f *Facade) FillStr(bankCode BankCode, lo, hi int, v string) error {
	bank, err := f.strBank(bankCode)
	if err != nil {
		return err
	}
	return bank.Fill(lo, hi, v)
}

// ResizeInt grows or shrinks an integer bank.
func (f *Facade) ResizeInt(bankCode BankCode, n int) error {
	bank, err := f.intBank(bankCode)
	if err != nil {
		return err
	}
	bank.Resize(n)
	return nil
}

// ResizeStr grows or shrinks a string bank.
func (f *Facade) ResizeStr(bankCode BankCode, n int) error {
	bank, err := f.strBank(bankCode)
	if err != nil {
		return err
	}
	bank.Resize(n)
	return nil
}

// IntBankSnapshot returns an integer bank's save form: its size and its
// runs, spec §6's "(size_u64, run_count_u64) then run_count triples".
func (f *Facade) IntBankSnapshot(code BankCode) (size int, runs []membank.Run[int32], err error) {
	bank, err := f.intBank(code)
	if err != nil {
		return 0, nil, err
	}
	return bank.Size(), bank.Runs(), nil
}

// StrBankSnapshot is IntBankSnapshot's string-bank counterpart.
func (f *Facade) StrBankSnapshot(code BankCode) (size int, runs []membank.Run[string], err error) {
	bank, err := f.strBank(code)
	if err != nil {
		return 0, nil, err
	}
	return bank.Size(), bank.Runs(), nil
}

// PushFrame opens a new call frame, giving L and K fresh empty banks. The
// machine calls this on subroutine entry (spec §3: "Stack memory ...
// adapted to top of call stack by the machine").
func (f *Facade) PushFrame() {
	f.stack = append(f.stack, frame{
		l: membank.New[int32](defaultStackIntSize, 0),
		k: membank.New[string](defaultStackStrSize, ""),
	})
}

// PopFrame closes the active call frame. It fails with ErrStackEmpty if
// there is no frame to pop.
func (f *Facade) PopFrame() error {
	if len(f.stack) == 0 {
		return rlerr.New(rlerr.ErrStackEmpty, "pop with no active call frame")
	}
	f.stack = f.stack[:len(f.stack)-1]
	return nil
}
