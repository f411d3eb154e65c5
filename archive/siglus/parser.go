package siglus

import (
	"github.com/rlvm/rlvm/bytecode"
	"github.com/rlvm/rlvm/bytestream"
	"github.com/rlvm/rlvm/expr"
	"github.com/rlvm/rlvm/rlerr"
)

// Element tags for Siglus's decoded scene stream. spec.md §4.5 lists
// Siglus as carrying the same "archive/scene/instruction parser"
// component as RealLive without publishing Siglus's actual per-opcode
// byte layout (undocumented, reverse-engineered compiler output, not
// reproduced anywhere in this core's reference material); this core
// defines its own self-consistent tagged encoding, the same way
// reallive.ParseScene does for RealLive, so the Pack/ParseScene/Scene
// trio is fully exercisable end-to-end against real byte streams.
type elementTag = byte

const (
	elemText elementTag = iota + 1
	elemExpression
	elemCommand
	elemGoto
	elemMeta
	elemEntrypoint
)

// ParseScene walks bc (already decrypted, un-flagged, and decompressed by
// Pack.SceneBytecode) and returns a populated bytecode.Scene, the Siglus
// counterpart to reallive.ParseScene: both walk an already-decoded byte
// stream into bytecode.Element values sharing one expr.Arena per scene.
func ParseScene(id int, bc []byte) (*bytecode.Scene, error) {
	scene := bytecode.NewScene(id, "")
	r := bytestream.NewReader(bc)

	for r.Len() > 0 {
		offset := uint32(r.Pos())
		tag, err := r.PopUint8()
		if err != nil {
			return nil, err
		}

		el := bytecode.Element{Offset: offset}

		switch tag {
		case elemText:
			s, err := popString(r)
			if err != nil {
				return nil, err
			}
			el.Kind = bytecode.KindText
			el.Text = s

		case elemExpression:
			exprID, err := expr.Deserialize(scene.Arena, r)
			if err != nil {
				return nil, err
			}
			el.Kind = bytecode.KindExpression
			el.Expr = exprID

		case elemCommand:
			mod, err := r.PopUint8()
			if err != nil {
				return nil, err
			}
			cmd, err := r.PopUint8()
			if err != nil {
				return nil, err
			}
			overload, err := r.PopUint8()
			if err != nil {
				return nil, err
			}
			argc, err := r.PopUint8()
			if err != nil {
				return nil, err
			}
			args := make([]expr.ID, 0, argc)
			for i := 0; i < int(argc); i++ {
				argID, err := expr.Deserialize(scene.Arena, r)
				if err != nil {
					return nil, err
				}
				args = append(args, argID)
			}
			el.Kind = bytecode.KindCommand
			el.Op = bytecode.CommandOp{Mod: int(mod), Cmd: int(cmd), Overload: int(overload)}
			el.Args = args

		case elemGoto:
			target, err := r.PopUint32()
			if err != nil {
				return nil, err
			}
			el.Kind = bytecode.KindGoto
			el.Target = target

		case elemMeta:
			metaTag, err := r.PopUint8()
			if err != nil {
				return nil, err
			}
			value, err := r.PopInt32()
			if err != nil {
				return nil, err
			}
			el.Kind = bytecode.KindMeta
			el.MetaTag = bytecode.MetaTag(metaTag)
			el.MetaValue = int(value)

		case elemEntrypoint:
			epID, err := r.PopInt32()
			if err != nil {
				return nil, err
			}
			inner, err := r.PopUint8()
			if err != nil {
				return nil, err
			}
			switch inner {
			case elemMeta:
				metaTag, err := r.PopUint8()
				if err != nil {
					return nil, err
				}
				value, err := r.PopInt32()
				if err != nil {
					return nil, err
				}
				el.Kind = bytecode.KindMeta
				el.MetaTag = bytecode.MetaTag(metaTag)
				el.MetaValue = int(value)
			default:
				return nil, rlerr.New(rlerr.ErrInvalidArchive, "siglus: entrypoint marker must wrap a meta element")
			}
			el.EntrypointID = &epID

		default:
			return nil, rlerr.Wrap(rlerr.ErrInvalidArchive, "siglus: unknown element tag", "tag", tag, "offset", offset)
		}

		el.Length = uint32(r.Pos()) - offset
		scene.Add(el)
	}

	return scene, nil
}

func popString(r *bytestream.Reader) (string, error) {
	n, err := r.PopUint16()
	if err != nil {
		return "", err
	}
	b, err := r.Pop(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Scene decrypts, decompresses, and parses scene index on demand, the
// Siglus counterpart to reallive.Archive.Scene — SceneBytecode handles
// the xor(exekey)/LZSS/xor(easy key) pipeline, ParseScene turns the
// result into a bytecode.Scene.
func (p *Pack) Scene(index int) (*bytecode.Scene, error) {
	bc, err := p.SceneBytecode(index)
	if err != nil {
		return nil, err
	}
	return ParseScene(index, bc)
}
