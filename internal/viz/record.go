package viz

import (
	"image"
	"image/gif"
	"os"
)

// Recorder collects canvas frames for an animated GIF.
type Recorder struct {
	frames []*image.Paletted
}

func NewRecorder() *Recorder {
	return &Recorder{frames: make([]*image.Paletted, 0, 64)}
}

func (r *Recorder) Len() int { return len(r.frames) }

// Add rasterizes the canvas in the theme's colours.
func (r *Recorder) Add(c *Canvas, th Theme) {
	r.frames = append(r.frames, c.Image(2, th.Palette()))
}

// Save writes the frames to path. An empty recording writes nothing.
func (r *Recorder) Save(path string) error {
	if len(r.frames) == 0 {
		return nil
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 4)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gif.EncodeAll(f, &anim)
}
