// Package color implements the fixed-width sample encoding used by pixel
// buffers and the 8-bit conversions used at the image boundary.
//
// A channel in [0, 1] is stored as a signed 16-bit sample:
//
//	encode(c) = round(c*65535) - 32768
//	decode(v) = (v + 32768) / 65535
//
// Both directions reach a fixed point after one round trip.
package color

// UnitToByte maps a channel in [0, 1] to [0, 255] with rounding.
// Out-of-range values are clamped and NaN maps to 0.
func UnitToByte(v float32) uint8 {
	switch {
	case v <= 0 || v != v:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}

// ByteToUnit maps an 8-bit channel to [0, 1].
func ByteToUnit(b uint8) float32 {
	return float32(b) / 255
}
