package pipeline

import (
	"crypto/rand"
	"sync"
	"time"
)

// Job and book IDs are ULIDs: a 48-bit millisecond timestamp followed by
// 80 random bits, Crockford base32 encoded to 26 characters. IDs minted
// later sort lexically later, which keeps job listings and blobstore keys
// in creation order without a counter table.

const ulidAlphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

var ulidState struct {
	sync.Mutex
	ms  uint64
	seq uint16
}

func generateULID() string {
	var raw [16]byte

	ulidState.Lock()
	ms := uint64(time.Now().UnixMilli())
	if ms == ulidState.ms {
		ulidState.seq++
	} else {
		ulidState.ms, ulidState.seq = ms, 0
	}
	seq := ulidState.seq
	ulidState.Unlock()

	for i, shift := 0, 40; i < 6; i, shift = i+1, shift-8 {
		raw[i] = byte(ms >> shift)
	}
	rand.Read(raw[6:])
	// The per-millisecond sequence overwrites the leading random bytes so
	// IDs minted within the same millisecond stay distinct and ordered.
	raw[6] = byte(seq >> 8)
	raw[7] = byte(seq)

	return encodeULID(raw)
}

// encodeULID packs 128 bits into 26 base32 characters, reading the bytes
// as a big-endian bit stream. 26 characters hold 130 bits, so the stream
// is left-padded with two zero bits and the first character carries only
// three bits of the timestamp.
func encodeULID(raw [16]byte) string {
	var out [26]byte
	pos := -2
	for i := range out {
		var v byte
		for bit := pos; bit < pos+5; bit++ {
			v <<= 1
			if bit >= 0 {
				v |= (raw[bit/8] >> (7 - bit%8)) & 1
			}
		}
		out[i] = ulidAlphabet[v]
		pos += 5
	}
	return string(out[:])
}
