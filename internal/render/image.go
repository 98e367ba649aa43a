package render

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/san-kum/buddhabrot/internal/buddha"
)

// Mode selects how intensities become pixels.
type Mode string

const (
	ModeGray  Mode = "gray"
	ModeRGB   Mode = "rgb"
	ModeAlpha Mode = "alpha"
)

// ParseMode validates an output mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeGray, ModeRGB, ModeAlpha:
		return m, nil
	case "":
		return ModeRGB, nil
	}
	return "", buddha.NewConfigError("output.mode", s, "want gray, rgb or alpha")
}

// row maps an image row (top first) to the grid row (YMin first).
func (in *Intensity) row(y int) int {
	return in.Height - 1 - y
}

// Gray returns a single-channel image.
func (in *Intensity) Gray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, in.Width, in.Height))
	for y := 0; y < in.Height; y++ {
		src := in.Pix[in.row(y)*in.Width : (in.row(y)+1)*in.Width]
		copy(img.Pix[y*img.Stride:], src)
	}
	return img
}

// RGB returns an opaque image with the level replicated across three channels.
func (in *Intensity) RGB() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, in.Width, in.Height))
	for y := 0; y < in.Height; y++ {
		src := in.Pix[in.row(y)*in.Width:]
		dst := img.Pix[y*img.Stride:]
		for x := 0; x < in.Width; x++ {
			v := src[x]
			dst[x*4+0] = v
			dst[x*4+1] = v
			dst[x*4+2] = v
			dst[x*4+3] = 0xff
		}
	}
	return img
}

// Alpha returns an overlay where the level drives the alpha of ink.
func (in *Intensity) Alpha(ink color.RGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, in.Width, in.Height))
	for y := 0; y < in.Height; y++ {
		src := in.Pix[in.row(y)*in.Width:]
		dst := img.Pix[y*img.Stride:]
		for x := 0; x < in.Width; x++ {
			dst[x*4+0] = ink.R
			dst[x*4+1] = ink.G
			dst[x*4+2] = ink.B
			dst[x*4+3] = src[x]
		}
	}
	return img
}

// Image renders in according to mode. Alpha mode uses black ink, as the
// transparent export always has.
func (in *Intensity) Image(mode Mode) image.Image {
	switch mode {
	case ModeGray:
		return in.Gray()
	case ModeAlpha:
		return in.Alpha(color.RGBA{A: 0xff})
	default:
		return in.RGB()
	}
}

// Scale resizes img by factor with nearest-neighbour sampling, keeping
// single-pixel orbits crisp. Factors below 2 return img unchanged.
func Scale(img image.Image, factor int) image.Image {
	if factor < 2 {
		return img
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Resample fits img into w×h with bilinear filtering; used by displays whose
// size differs from the render resolution.
func Resample(img image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// FromImage recovers levels from an exported image. Images with any
// translucent pixel are read as alpha overlays, everything else by luminance.
func FromImage(img image.Image) *Intensity {
	b := img.Bounds()
	out := &Intensity{Width: b.Dx(), Height: b.Dy(), Pix: make([]uint8, b.Dx()*b.Dy())}

	overlay := false
	for y := b.Min.Y; y < b.Max.Y && !overlay; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xffff {
				overlay = true
				break
			}
		}
	}

	for y := 0; y < out.Height; y++ {
		row := out.Pix[out.row(y)*out.Width:]
		for x := 0; x < out.Width; x++ {
			c := img.At(b.Min.X+x, b.Min.Y+y)
			if overlay {
				_, _, _, a := c.RGBA()
				row[x] = uint8(a >> 8)
				continue
			}
			row[x] = color.GrayModel.Convert(c).(color.Gray).Y
		}
	}
	return out
}
