// Package artwork writes finished sand drawings and the city legend to disk.
package artwork

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/iburimskiy/sandmap/internal/vec"
)

const (
	// Scale is the upscale factor applied to saved images.
	Scale = 2
	// LegendName is the fixed file name of the legend overlay.
	LegendName = "legend.png"

	legendFontSize = 8
	legendAlpha    = 65
)

// Filename is the timestamped name of an artwork saved at t.
func Filename(t time.Time) string {
	return t.Format("2006-01-02_15-04-05") + ".png"
}

// Label is a text placed at a canvas pixel position.
type Label struct {
	Text string
	Pos  vec.Vec2
}

// Saver writes PNG files into a directory.
type Saver struct {
	Dir string
	// Font is a TTF used for the legend; nil means Go Regular.
	Font []byte
}

// NewSaver returns a saver writing into dir.
func NewSaver(dir string) *Saver {
	return &Saver{Dir: dir}
}

// Save upscales img by Scale and writes it as name. It returns the path.
func (s *Saver) Save(img image.Image, name string) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*Scale, b.Dy()*Scale))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)

	path := filepath.Join(s.Dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, dst); err != nil {
		f.Close()
		return "", fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}

// SaveArtwork writes img under its timestamped name.
func (s *Saver) SaveArtwork(img image.Image, at time.Time) (string, error) {
	return s.Save(img, Filename(at))
}

// SaveLegend renders labels over a copy of img and writes it as legend.png.
func (s *Saver) SaveLegend(img image.Image, labels []Label) (string, error) {
	out, err := Legend(img, labels, s.Font)
	if err != nil {
		return "", err
	}
	return s.Save(out, LegendName)
}

// Legend copies src and draws every label over it in faint white. Label
// positions are relative to the top left of src. ttf may be nil.
func Legend(src image.Image, labels []Label, ttf []byte) (*image.RGBA, error) {
	face, err := legendFace(ttf)
	if err != nil {
		return nil, err
	}
	b := src.Bounds()
	img := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(img, img.Bounds(), src, b.Min, draw.Src)

	defer face.Close()

	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.NRGBA{R: 255, G: 255, B: 255, A: legendAlpha}),
		Face: face,
	}
	for _, l := range labels {
		d.Dot = fixed.P(int(l.Pos.X), int(l.Pos.Y))
		d.DrawString(l.Text)
	}
	return img, nil
}

func legendFace(ttf []byte) (font.Face, error) {
	if ttf == nil {
		ttf = goregular.TTF
	}
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    legendFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("font face: %w", err)
	}
	return face, nil
}
