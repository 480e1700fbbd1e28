package color

// byteToSampleLUT maps an 8-bit channel to its 16-bit sample.
// b/255 scaled by 65535 is exactly b*257, so the table is exact.
var byteToSampleLUT [256]int16

func init() {
	for i := 0; i < 256; i++ {
		byteToSampleLUT[i] = int16(i*257 - sampleOffset) //nolint:gosec // range is [-32768, 32767]
	}
}

// ByteToSample converts an 8-bit channel to a 16-bit sample using a lookup table.
func ByteToSample(b uint8) int16 {
	return byteToSampleLUT[b]
}

// SampleToByte converts a 16-bit sample to the nearest 8-bit channel.
func SampleToByte(v int16) uint8 {
	// (v+32768)*255/65535 == (v+32768)/257, rounded to nearest.
	return uint8((int32(v) + sampleOffset + 128) / 257) //nolint:gosec // result is in [0, 255]
}
