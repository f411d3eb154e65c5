package bytestream

import (
	"fmt"

	"github.com/rlvm/rlvm/rlerr"
)

// ringSize is the LZSS sliding-window size both codecs use for distance
// encoding; distances are taken modulo this window, per spec.
const ringSize = 4096

// byteMatchThreshold/pixelMatchThreshold are the match-length biases baked into the
// control-word encoding: a raw 4-bit length field of 0 means a 2-byte match
// for the byte-oriented codec, or a 1-pixel match for the pixel codec.
const (
	byteMatchThreshold  = 2
	pixelMatchThreshold = 1
)

// DecompressLZSS decompresses the byte-oriented LZSS frame format shared by
// RealLive scene payloads: an 8-byte header (archive_size, original_size),
// then 1-byte control words (LSB first) selecting either a literal byte or
// a 2-byte back-reference encoding (distance, length) in ring-buffer
// coordinates. Overlapping back-references (distance < length) are legal
// and reproduce the expected repeating pattern because bytes already
// emitted by the same back-reference are visible to later iterations of it.
func DecompressLZSS(frame []byte) ([]byte, error) {
	archiveSize, originalSize, body, err := splitFrame(frame)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, originalSize)

	r := NewReader(body)
	for r.Len() > 0 && len(out) < int(originalSize) {
		control, err := r.PopUint8()
		if err != nil {
			return nil, err
		}
		for bit := 0; bit < 8 && len(out) < int(originalSize); bit++ {
			if r.Len() == 0 {
				break
			}
			if control&(1<<uint(bit)) != 0 {
				b, err := r.PopUint8()
				if err != nil {
					return nil, err
				}
				out = append(out, b)
				continue
			}
			pair, err := r.Pop(2)
			if err != nil {
				return nil, err
			}
			distance := int(pair[0]>>4) | int(pair[1])<<4
			length := int(pair[0]&0x0f) + byteMatchThreshold
			out, err = copyBackref(out, distance, length, 1)
			if err != nil {
				return nil, err
			}
		}
	}
	return finishFrame(out, archiveSize, originalSize)
}

// DecompressLZSS32 is the pixel-oriented variant used by Siglus/32-bit
// surfaces: literals are 3 bytes (RGB) with an implicit 0xFF alpha byte
// appended, and back-reference distance/length are counted in whole
// 4-byte pixels rather than bytes.
func DecompressLZSS32(frame []byte) ([]byte, error) {
	archiveSize, originalSize, body, err := splitFrame(frame)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, originalSize)

	r := NewReader(body)
	for r.Len() > 0 && len(out) < int(originalSize) {
		control, err := r.PopUint8()
		if err != nil {
			return nil, err
		}
		for bit := 0; bit < 8 && len(out) < int(originalSize); bit++ {
			if r.Len() == 0 {
				break
			}
			if control&(1<<uint(bit)) != 0 {
				rgb, err := r.Pop(3)
				if err != nil {
					return nil, err
				}
				out = append(out, rgb[0], rgb[1], rgb[2], 0xff)
				continue
			}
			pair, err := r.Pop(2)
			if err != nil {
				return nil, err
			}
			distance := int(pair[0]>>4) | int(pair[1])<<4
			length := int(pair[0]&0x0f) + pixelMatchThreshold
			out, err = copyBackref(out, distance, length, 4)
			if err != nil {
				return nil, err
			}
		}
	}
	return finishFrame(out, archiveSize, originalSize)
}

// copyBackref appends length*unitSize bytes to out, reading one unit at a
// time starting unitSize*distance bytes before the current end. Because the
// read position advances alongside the write position, a distance smaller
// than length reproduces a repeating pattern rather than reading garbage.
func copyBackref(out []byte, distance, length, unitSize int) ([]byte, error) {
	if distance <= 0 || distance > ringSize {
		return nil, rlerr.Wrap(rlerr.ErrInvalidArchive, fmt.Sprintf("lzss back-reference distance %d out of window", distance))
	}
	start := len(out) - distance*unitSize
	if start < 0 {
		return nil, rlerr.Wrap(rlerr.ErrInvalidArchive, fmt.Sprintf("lzss back-reference distance %d exceeds output so far", distance))
	}
	for i := 0; i < length*unitSize; i++ {
		out = append(out, out[start+i])
	}
	return out, nil
}

func splitFrame(frame []byte) (archiveSize, originalSize uint32, body []byte, err error) {
	if len(frame) < 8 {
		return 0, 0, nil, rlerr.Wrap(rlerr.ErrInvalidArchive, "lzss frame shorter than the 8-byte header")
	}
	r := NewReader(frame)
	archiveSize, _ = r.PopUint32()
	originalSize, _ = r.PopUint32()
	if int(archiveSize) != len(frame) {
		return 0, 0, nil, rlerr.Wrap(rlerr.ErrInvalidArchive, fmt.Sprintf("declared archive size %d does not match input length %d", archiveSize, len(frame)))
	}
	body, _ = r.Pop(r.Len())
	return archiveSize, originalSize, body, nil
}

func finishFrame(out []byte, archiveSize, originalSize uint32) ([]byte, error) {
	_ = archiveSize
	if uint32(len(out)) != originalSize {
		return nil, rlerr.Wrap(rlerr.ErrTruncatedOutput, fmt.Sprintf("decompressed %d bytes, expected %d", len(out), originalSize))
	}
	return out, nil
}
