// Pulse Garden — a patch of breathing, drifting shapes.
//
// A row of rectangles is driven entirely by the node graph: one sine
// oscillator breathes their scale, a noise oscillator drifts their
// vertical position, and a modifier derives each drift amplitude from the
// scene's base configuration. All wiring goes through pickers; main never
// writes a property directly after setup.
//
// Demonstrates: oscillators, auto and custom pickers, a modifier chain,
// keyframe playback, SceneView rendering, and the inspector overlay.
package main

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/tendril"
	"github.com/tanema/gween/ease"
)

const (
	screenW = 960
	screenH = 540

	numShapes = 6
	rowY      = 270.0
	colGap    = 140.0
)

func main() {
	graph := tendril.NewGraph()
	store := graph.Store()

	// Scene: a row of solid rectangles.
	items := make([]tendril.SceneItem, numShapes)
	for i := range items {
		items[i] = tendril.SceneItem{
			Name:   "shape",
			X:      120 + float64(i)*colGap,
			Y:      rowY,
			Width:  80,
			Height: 80,
			ZIndex: i,
		}
	}
	scene := tendril.NewSceneNode(store, "scene", "pulse garden", items)
	graph.Add(scene)

	// A slow sine breathes every shape's scale through a node-global
	// override (auto-wired from the oscillator's preset).
	breath := tendril.NewOscillator(store, "breath", "breath", tendril.OscillatorConfig{
		Waveform:   tendril.WaveSine,
		Frequency:  0.25,
		Min:        0.6,
		Max:        1.0,
		TargetProp: "scale",
		Enabled:    true,
	})
	graph.Add(breath)
	graph.Add(tendril.NewPicker(store, "breath-cable", "breath→scene", tendril.PickerConfig{
		Source:     "breath",
		Target:     "scene",
		TargetItem: tendril.NoItem,
		Mode:       tendril.PickerAuto,
	}))

	// Smooth noise drifts the middle shape vertically. The modifier scales
	// the unit drift around the item's configured y.
	drift := tendril.NewOscillator(store, "drift", "drift", tendril.OscillatorConfig{
		Waveform:  tendril.WaveNoise,
		Frequency: 0.5,
		Min:       -40,
		Max:       40,
		Seed:      7,
		Enabled:   true,
	})
	graph.Add(drift)
	graph.Add(tendril.NewModifier(store, "drift-offset", "base y + drift", tendril.ModifierConfig{
		Source:      "scene",
		SourceProp:  "y",
		SourceItem:  numShapes / 2,
		Operator:    tendril.OpAdd,
		UseOverride: true,
		InputFrom:   "drift",
		TargetProp:  "y",
	}))
	graph.Add(tendril.NewPicker(store, "drift-cable", "drift→shape", tendril.PickerConfig{
		Source:     "drift-offset",
		Target:     "scene",
		TargetItem: numShapes / 2,
		Mode:       tendril.PickerAuto,
	}))

	// The first shape patrols a small loop on a keyframe path.
	graph.Add(tendril.NewPlayback(store, tendril.PlaybackConfig{
		Target: "scene",
		Item:   0,
		Keyframes: []tendril.PathKeyframe{
			{X: 120, Y: rowY},
			{X: 120, Y: rowY - 120, Duration: 2, Ease: ease.InOutQuad},
			{X: 200, Y: rowY - 120, Duration: 1, Ease: ease.Linear},
			{X: 120, Y: rowY, Duration: 2, Ease: ease.InOutQuad},
		},
		Mode:     tendril.LoopRepeat,
		Autoplay: true,
	}))

	view := tendril.NewSceneView(scene)
	overlay := tendril.NewInspectorOverlay(store, "breath", "drift-offset")

	err := tendril.Run(graph, tendril.RunConfig{
		Title:  "Pulse Garden",
		Width:  screenW,
		Height: screenH,
		Draw: func(screen *ebiten.Image) {
			view.Draw(screen)
			if ebiten.IsKeyPressed(ebiten.KeyTab) {
				overlay.Draw(screen)
			}
		},
	})
	if err != nil {
		log.Fatal(err)
	}
}
