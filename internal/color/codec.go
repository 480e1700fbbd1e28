package color

import "github.com/chewxy/math32"

const (
	// SampleMin is the encoding of a zero channel.
	SampleMin = -32768

	// SampleMax is the encoding of a full channel.
	SampleMax = 32767

	sampleOffset = 32768
	sampleScale  = 65535
)

// Step is one quantization step of the sample encoding, in channel units.
const Step = 1.0 / sampleScale

// Encode converts a channel in [0,1] to a signed 16-bit sample.
// Out-of-range input is clamped to the int16 range; NaN encodes as SampleMin.
func Encode(c float32) int16 {
	if math32.IsNaN(c) {
		return SampleMin
	}
	v := math32.Floor(c*sampleScale+0.5) - sampleOffset
	if v <= SampleMin {
		return SampleMin
	}
	if v >= SampleMax {
		return SampleMax
	}
	return int16(v)
}

// Decode converts a signed 16-bit sample back to a channel in [0,1].
func Decode(v int16) float32 {
	return (float32(v) + sampleOffset) / sampleScale
}
