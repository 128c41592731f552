package audio

// DownmixInt converts interleaved integer PCM (as produced by WAV decoders)
// to mono float32 samples normalised to [-1.0, 1.0]. channels frames are
// averaged per output sample; bitDepth determines the normalisation divisor.
// A bitDepth outside (0, 32] falls back to 16.
func DownmixInt(data []int, channels, bitDepth int) []float32 {
	if channels <= 0 {
		channels = 1
	}
	if bitDepth <= 0 || bitDepth > 32 {
		bitDepth = 16
	}
	max := float32(int64(1) << (bitDepth - 1))

	frames := len(data) / channels
	mono := make([]float32, frames)
	for i := range frames {
		var sum float32
		for ch := range channels {
			sum += float32(data[i*channels+ch]) / max
		}
		mono[i] = sum / float32(channels)
	}
	return mono
}

// Resample converts mono float32 samples from inRate to outRate using linear
// interpolation. When the rates already match (or either rate is invalid) the
// input is returned unchanged. Linear interpolation is sufficient here: the
// output feeds a speech recogniser, not playback.
func Resample(samples []float32, inRate, outRate int) []float32 {
	if inRate <= 0 || outRate <= 0 || inRate == outRate || len(samples) == 0 {
		return samples
	}
	ratio := float64(outRate) / float64(inRate)
	outLen := int(float64(len(samples)) * ratio)
	if outLen < 1 {
		outLen = 1
	}
	out := make([]float32, outLen)
	for i := range outLen {
		srcPos := float64(i) / ratio
		i0 := int(srcPos)
		if i0 >= len(samples)-1 {
			out[i] = samples[len(samples)-1]
			continue
		}
		frac := float32(srcPos - float64(i0))
		out[i] = samples[i0] + (samples[i0+1]-samples[i0])*frac
	}
	return out
}
