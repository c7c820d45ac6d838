// Package render paints the scene with a small software perspective
// pipeline: flat-shaded triangles sorted back to front and drawn through
// ebiten's DrawTriangles.
package render

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"go.uber.org/zap"
	"golang.org/x/image/font/basicfont"

	"github.com/milk9111/townwalk/ecs/component"
	"github.com/milk9111/townwalk/geom"
	"github.com/milk9111/townwalk/scene"
)

const (
	labelFontHeight = 13.0
	minLabelScale   = 0.3
	// indices are uint16
	maxBatchVertices = 65532
)

type Renderer struct {
	log   *zap.Logger
	face  text.Face
	white *ebiten.Image
	cache map[component.Mesh][]Face

	vertices []ebiten.Vertex
	indices  []uint16
}

func New(log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{
		log:   log,
		face:  text.NewGoXFace(basicfont.Face7x13),
		cache: make(map[component.Mesh][]Face),
	}
}

// Invalidate drops cached tessellations, e.g. after a scene rebuild.
func (r *Renderer) Invalidate() {
	clear(r.cache)
}

// Draw clears screen to clearColor and paints the scene from its active
// camera.
func (r *Renderer) Draw(screen *ebiten.Image, s *scene.Scene, clearColor geom.Color) {
	screen.Fill(clearColor.RGBA())

	b := screen.Bounds()
	frame := r.BuildFrame(s, b.Dx(), b.Dy())

	src := r.whitePixel()
	r.vertices = r.vertices[:0]
	r.indices = r.indices[:0]
	for _, it := range frame.Items {
		if it.Label != nil {
			r.flush(screen, src)
			r.drawLabel(screen, it.Label)
			continue
		}
		if len(r.vertices)+3 > maxBatchVertices {
			r.flush(screen, src)
		}
		r.appendTriangle(it.Tri)
	}
	r.flush(screen, src)
}

func (r *Renderer) appendTriangle(t *Triangle) {
	base := uint16(len(r.vertices))
	c := t.Color
	for i := 0; i < 3; i++ {
		r.vertices = append(r.vertices, ebiten.Vertex{
			DstX:   t.X[i],
			DstY:   t.Y[i],
			SrcX:   1,
			SrcY:   1,
			ColorR: float32(c.R),
			ColorG: float32(c.G),
			ColorB: float32(c.B),
			ColorA: float32(c.A),
		})
	}
	r.indices = append(r.indices, base, base+1, base+2)
}

func (r *Renderer) flush(screen, src *ebiten.Image) {
	if len(r.indices) == 0 {
		return
	}
	screen.DrawTriangles(r.vertices, r.indices, src, &ebiten.DrawTrianglesOptions{})
	r.vertices = r.vertices[:0]
	r.indices = r.indices[:0]
}

func (r *Renderer) drawLabel(screen *ebiten.Image, l *Text) {
	op := &text.DrawOptions{}
	op.PrimaryAlign = text.AlignCenter
	op.SecondaryAlign = text.AlignCenter
	op.GeoM.Scale(l.Scale, l.Scale)
	op.GeoM.Translate(l.X, l.Y)
	op.ColorScale.ScaleWithColor(l.Color.RGBA())
	text.Draw(screen, l.Text, r.face, op)
}

// whitePixel is the 1x1 interior of a white 3x3 image so sampling never
// bleeds past the edge.
func (r *Renderer) whitePixel() *ebiten.Image {
	if r.white == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		r.white = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return r.white
}
