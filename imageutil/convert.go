package imageutil

// Rec. 709 luma coefficients. Brightness values must reproduce these
// exactly for output to match other renderings of the same image.
const (
	LumaRed   = 0.2126
	LumaGreen = 0.7152
	LumaBlue  = 0.0722

	// MaxChannel is the divisor that maps luma into [0, 1].
	MaxChannel = 255.0
)

// Luma709 returns the Rec. 709 luma of c in the range [0, 255].
func Luma709(c RGB) float64 {
	return float64(c.R)*LumaRed + float64(c.G)*LumaGreen + float64(c.B)*LumaBlue
}

// MeanBrightness returns the mean Rec. 709 luma over every pixel of img,
// normalized to [0, 1]. An empty image has brightness 0.
func MeanBrightness(img *RGBAImage) float64 {
	if img.Empty() {
		return 0
	}
	width, height := img.Width(), img.Height()

	var sum float64
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			sum += Luma709(img.GetRGB(x, y))
		}
	}
	return sum / float64(width*height) / MaxChannel
}
