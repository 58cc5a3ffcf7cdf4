package tendril

import (
	"image/color"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
)

// whitePixel is a 1x1 white image used for items with no registered image:
// they render as solid rectangles scaled to their configured size.
var whitePixel *ebiten.Image

func ensureWhitePixel() *ebiten.Image {
	if whitePixel == nil {
		whitePixel = ebiten.NewImage(1, 1)
		whitePixel.Fill(color.White)
	}
	return whitePixel
}

// SceneView renders a scene node's items from their currently-effective
// values. It is a pure consumer: every frame it re-resolves every item
// through the store and draws whatever the graph has converged to. The core
// runtime has no dependency on it.
type SceneView struct {
	scene  *SceneNode
	images map[int]*ebiten.Image
	order  []int // item draw order, rebuilt when item count changes
}

// NewSceneView creates a view over a scene node.
func NewSceneView(scene *SceneNode) *SceneView {
	return &SceneView{
		scene:  scene,
		images: make(map[int]*ebiten.Image),
	}
}

// SetItemImage registers the image drawn for one item. Items without an
// image render as solid white rectangles of their configured size.
func (v *SceneView) SetItemImage(item int, img *ebiten.Image) {
	v.images[item] = img
}

// Draw renders every item, lowest ZIndex first.
func (v *SceneView) Draw(screen *ebiten.Image) {
	n := v.scene.NumItems()
	if len(v.order) != n {
		v.order = v.order[:0]
		for i := 0; i < n; i++ {
			v.order = append(v.order, i)
		}
	}
	sort.SliceStable(v.order, func(a, b int) bool {
		return v.scene.Item(v.order[a]).ZIndex < v.scene.Item(v.order[b]).ZIndex
	})

	for _, item := range v.order {
		state := v.scene.ItemState(item)
		if state.Opacity <= 0 {
			continue
		}
		img := v.images[item]
		var w, h float64
		if img != nil {
			bounds := img.Bounds()
			w, h = float64(bounds.Dx()), float64(bounds.Dy())
		} else {
			img = ensureWhitePixel()
			w, h = 1, 1
		}

		op := &ebiten.DrawImageOptions{}
		op.Blend = state.BlendMode.EbitenBlend()
		// Scale to the configured size, then apply the animated scale and
		// rotation about the item's center.
		sx, sy := 1.0, 1.0
		if state.Width > 0 {
			sx = state.Width / w
		}
		if state.Height > 0 {
			sy = state.Height / h
		}
		op.GeoM.Translate(-w/2, -h/2)
		op.GeoM.Scale(sx*state.Scale, sy*state.Scale)
		op.GeoM.Rotate(state.Rotation)
		op.GeoM.Translate(state.X, state.Y)
		op.ColorScale.ScaleAlpha(float32(state.Opacity))
		screen.DrawImage(img, op)
	}
}
