package protocol

// Kind is the 3-bit packet kind carried in the header byte (§3).
type Kind uint8

const (
	KindData Kind = iota
	KindACK
	KindNAK
	KindSync
	KindContinued
	KindNAData
	KindNAContinued
	kindReserved
)

func (k Kind) String() string {
	switch k {
	case KindData:
		return "Data"
	case KindACK:
		return "ACK"
	case KindNAK:
		return "NAK"
	case KindSync:
		return "Sync"
	case KindContinued:
		return "Continued"
	case KindNAData:
		return "NAData"
	case KindNAContinued:
		return "NAContinued"
	default:
		return "Reserved"
	}
}

// IsMessageKind reports whether a kind starts a message (as opposed to
// being a continuation, an ACK/NAK, or Sync).
func (k Kind) IsMessageKind() bool {
	return k == KindData || k == KindNAData
}

// continuationKindFor returns the Continued/NAContinued kind that follows
// frames of the given message kind.
func continuationKindFor(k Kind) Kind {
	if k == KindNAData {
		return KindNAContinued
	}
	return KindContinued
}

// SyncByte is the single-byte Sync frame (§3): kind=Sync(3), W=0, X=0,
// Y=0, ZZ=00 packs to exactly 0x60.
const SyncByte byte = 0x60

// packHeader builds the one-byte header `VVV W X Y ZZ` (§3). Bit weight
// within the shared nibble goes kind(7-5), X/id-width(4), W/continuation(3),
// Y/reserved(2), ZZ(1-0) - pinned down against the worked example in §8
// scenario 4, whose first-frame header (0x08, W=1, 16-bit ID) only holds
// together with X above W. The reserved bit Y is always written zero.
func packHeader(k Kind, cont bool, idWide bool, lenHigh uint8) byte {
	b := byte(k) << 5
	if idWide {
		b |= 1 << 4
	}
	if cont {
		b |= 1 << 3
	}
	b |= lenHigh & 0x3
	return b
}

// unpackHeader splits a header byte into its fields.
func unpackHeader(b byte) (kind Kind, cont bool, idWide bool, reserved bool, lenHigh uint8) {
	kind = Kind(b >> 5)
	idWide = b&0x10 != 0
	cont = b&0x08 != 0
	reserved = b&0x04 != 0
	lenHigh = b & 0x3
	return
}

// packLength splits a 10-bit length into the header's ZZ bits and the
// full second byte.
func packLength(v uint16) (lenHigh uint8, lenLow uint8) {
	return uint8((v >> 8) & 0x3), uint8(v & 0xFF)
}

// unpackLength reconstructs the 10-bit length from ZZ and the second byte.
func unpackLength(lenHigh uint8, lenLow uint8) uint16 {
	return uint16(lenHigh&0x3)<<8 | uint16(lenLow)
}

// idWidthBytes returns 2 or 4 depending on the header's X bit.
func idWidthBytes(idWide bool) int {
	if idWide {
		return 4
	}
	return 2
}

// putID writes a little-endian command ID of the given width.
func putID(dst []byte, id uint32, idWide bool) {
	dst[0] = byte(id)
	dst[1] = byte(id >> 8)
	if idWide {
		dst[2] = byte(id >> 16)
		dst[3] = byte(id >> 24)
	}
}

// getID reads a little-endian command ID of the given width.
func getID(src []byte, idWide bool) uint32 {
	id := uint32(src[0]) | uint32(src[1])<<8
	if idWide {
		id |= uint32(src[2])<<16 | uint32(src[3])<<24
	}
	return id
}

// fitsIn16Bits reports whether id requires only a 16-bit ID width, per
// §8 ("IDs below 2^16 accept both 16-bit and 32-bit framings; IDs >= 2^16
// accept only 32-bit").
func fitsIn16Bits(id uint32) bool {
	return id < 1<<16
}
