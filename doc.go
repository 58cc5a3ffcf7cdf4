// Package tendril is a node-graph animation runtime: independently
// configured nodes (oscillators, pickers, modifiers, scene containers)
// whose properties resolve through a layered priority scheme and whose
// values flow to one another over cables, all on one shared reactive store.
//
// # Quick start
//
// Build a graph, mount behaviors, and drive it per frame:
//
//	graph := tendril.NewGraph()
//	store := graph.Store()
//
//	scene := tendril.NewSceneNode(store, "scene", "main", []tendril.SceneItem{
//		{Name: "leaf", X: 120, Y: 80, Width: 64, Height: 64},
//	})
//	graph.Add(scene)
//
//	osc := tendril.NewOscillator(store, "osc", "pulse", tendril.OscillatorConfig{
//		Waveform: tendril.WaveSine, Frequency: 0.5,
//		Min: 0.5, Max: 1.5, TargetProp: "scale", Enabled: true,
//	})
//	graph.Add(osc)
//
//	cable := tendril.NewPicker(store, "cable", "pulse→leaf", tendril.PickerConfig{
//		Source: "osc", Target: "scene", TargetItem: 0, Mode: tendril.PickerAuto,
//	})
//	graph.Add(cable)
//
//	tendril.Run(graph, tendril.RunConfig{Title: "pulse", Width: 640, Height: 480})
//
// [Run] hosts the graph under the [Ebitengine] game loop. For full
// control, implement ebiten.Game yourself and call [Graph.Update] with
// your own dt.
//
// # Property resolution
//
// A node's effective property value is resolved through fixed layers,
// highest priority first: item-scoped override, node-global override,
// preset reference, per-item base, node-global base, caller default. See
// [Store.ResolveProperty] and [Store.ResolveItemProperty]. Resolution is a
// pure read, safe to repeat on every frame and every render.
//
// # Cables
//
// A [Picker] mirrors a source node's outputs into a target node's override
// layer, discovering the wiring from the source's published auto-mapping
// preset or from an explicit key list. Neither endpoint has to exist when
// the picker mounts; it converges once they appear. Disconnecting removes
// exactly the overrides the picker wrote.
//
// # Scheduling
//
// Everything runs on one cooperative loop. Oscillators and playbacks are
// advanced by per-frame [Updater.Update] calls; everything else reacts
// synchronously to store writes. Nothing blocks, nothing polls.
//
// [Ebitengine]: https://ebitengine.org
package tendril
