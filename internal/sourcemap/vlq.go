package sourcemap

import "strings"

const (
	vlqBaseShift       = 5
	vlqBase            = 1 << vlqBaseShift
	vlqBaseMask        = vlqBase - 1
	vlqContinuationBit = vlqBase
	base64Alphabet     = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"
)

// writeVLQ appends the base64 VLQ encoding of value.
func writeVLQ(sb *strings.Builder, value int) {
	v := value << 1
	if value < 0 {
		v = (-value << 1) | 1
	}

	for {
		digit := v & vlqBaseMask
		v >>= vlqBaseShift

		if v > 0 {
			digit |= vlqContinuationBit
		}

		sb.WriteByte(base64Alphabet[digit])

		if v == 0 {
			return
		}
	}
}
