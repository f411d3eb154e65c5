// Package archive holds the pieces shared by the RealLive (package
// archive/reallive) and Siglus (package archive/siglus) container formats:
// the cyclic XOR helpers both use (the 256-byte masks themselves are
// reallive.FirstLevelXorMask and siglus.EasyKey), and the pluggable title-key lookup spec.md §9's Open Questions call for
// rather than a hardcoded title table.
package archive

// XorKey is one second-level XOR mask: it covers [Offset, Offset+len(Key))
// of the decompressed bytecode, repeating Key cyclically over that range.
type XorKey struct {
	Offset int
	Key    []byte
}

// TitleKeyLookup resolves a publisher/title fingerprint (spec.md §9 Open
// Question: "pluggable title-key fingerprinting") to the set of second-level
// XOR masks that title's compiler applies, or ok=false if the title is
// unknown. The core ships no hardcoded title table; callers that need one
// supply their own Fn(regname) -> []XorKey, keeping title-key data out of
// this library the way spec.md's Open Question resolution requires.
type TitleKeyLookup func(regname string) (keys []XorKey, ok bool)

// ApplyXor XORs dst in place against key, repeating key cyclically over the
// whole of dst. Second-level XorKeys go through ApplyXorKeys instead, which
// confines each key to its own range.
func ApplyXor(dst []byte, key []byte) {
	if len(key) == 0 {
		return
	}
	for i := range dst {
		dst[i] ^= key[i%len(key)]
	}
}

// ApplyXorKeys applies every key in keys to data, each confined to its own
// [Offset, Offset+len(Key)) range (clipped to data's bounds).
func ApplyXorKeys(data []byte, keys []XorKey) {
	for _, k := range keys {
		if k.Offset < 0 || k.Offset >= len(data) || len(k.Key) == 0 {
			continue
		}
		end := k.Offset + len(k.Key)
		if end > len(data) {
			end = len(data)
		}
		region := data[k.Offset:end]
		for i := range region {
			region[i] ^= k.Key[i%len(k.Key)]
		}
	}
}
