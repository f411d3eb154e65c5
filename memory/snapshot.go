package memory

import "github.com/rlvm/rlvm/membank"

// Snapshot is a structural copy of a subset of a Facade's banks — the form
// spec §4.3's global_memory()/local_memory()/stack_memory() and
// partial_reset() exchange. Cloning the underlying banks is O(1) thanks to
// membank's persistence (spec invariant I-3), so taking a snapshot never
// walks bank contents; only PartialReset's map assignment does any work.
type Snapshot struct {
	Int map[BankCode]*membank.Bank[int32]
	Str map[BankCode]*membank.Bank[string]
}

func snapshotInt(banks map[BankCode]*membank.Bank[int32], codes []BankCode) map[BankCode]*membank.Bank[int32] {
	out := make(map[BankCode]*membank.Bank[int32], len(codes))
	for _, c := range codes {
		if b, ok := banks[c]; ok {
			out[c] = b.Clone()
		}
	}
	return out
}

func snapshotStr(banks map[BankCode]*membank.Bank[string], codes []BankCode) map[BankCode]*membank.Bank[string] {
	out := make(map[BankCode]*membank.Bank[string], len(codes))
	for _, c := range codes {
		if b, ok := banks[c]; ok {
			out[c] = b.Clone()
		}
	}
	return out
}

// GlobalMemory snapshots the banks spec §3 assigns to global scope: G, Z,
// M, global_name.
func (f *Facade) GlobalMemory() Snapshot {
	return Snapshot{
		Int: snapshotInt(f.intBanks, globalIntBanks),
		Str: snapshotStr(f.strBanks, globalStrBanks),
	}
}

// LocalMemory snapshots the per-scenario local banks: A,B,C,D,E,F,X,H,I,J,S,
// local_name.
func (f *Facade) LocalMemory() Snapshot {
	return Snapshot{
		Int: snapshotInt(f.intBanks, localIntBanks),
		Str: snapshotStr(f.strBanks, localStrBanks),
	}
}

// StackMemory snapshots the active call frame's L and K banks. It returns
// an empty Snapshot (not an error) when the stack is empty, since there is
// nothing to snapshot rather than an invalid access.
func (f *Facade) StackMemory() Snapshot {
	snap := Snapshot{Int: map[BankCode]*membank.Bank[int32]{}, Str: map[BankCode]*membank.Bank[string]{}}
	if len(f.stack) == 0 {
		return snap
	}
	top := f.stack[len(f.stack)-1]
	snap.Int[BankL] = top.l.Clone()
	snap.Str[BankK] = top.k.Clone()
	return snap
}

// PartialReset swaps the banks named in snap back into the Facade,
// replacing whatever those banks currently hold. Banks named BankL/BankK
// are swapped into the active call frame rather than into the top-level
// bank maps.
func (f *Facade) PartialReset(snap Snapshot) {
	for code, b := range snap.Int {
		if code == BankL && len(f.stack) > 0 {
			f.stack[len(f.stack)-1].l = b
			continue
		}
		f.intBanks[code] = b
	}
	for code, b := range snap.Str {
		if code == BankK && len(f.stack) > 0 {
			f.stack[len(f.stack)-1].k = b
			continue
		}
		f.strBanks[code] = b
	}
}
