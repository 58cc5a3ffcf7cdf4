package tendril

import "github.com/hajimehoshi/ebiten/v2"

// RunConfig configures the convenience game loop.
type RunConfig struct {
	Title  string
	Width  int
	Height int
	// Draw renders a frame after the graph has been updated. Optional;
	// leave nil for a headless-looking window (useful with an overlay).
	Draw func(screen *ebiten.Image)
}

// Run creates a window and drives the graph under the ebiten game loop at
// the display's tick rate. Blocks until the window closes.
//
// For full control, implement ebiten.Game yourself and call Graph.Update
// with your own dt:
//
//	func (g *Game) Update() error { g.graph.Update(1.0 / float64(ebiten.TPS())); return nil }
func Run(graph *Graph, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 640
	}
	if cfg.Height <= 0 {
		cfg.Height = 480
	}
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle(cfg.Title)
	return ebiten.RunGame(&runGame{graph: graph, cfg: cfg})
}

type runGame struct {
	graph *Graph
	cfg   RunConfig
}

func (g *runGame) Update() error {
	g.graph.Update(1.0 / float64(ebiten.TPS()))
	return nil
}

func (g *runGame) Draw(screen *ebiten.Image) {
	if g.cfg.Draw != nil {
		g.cfg.Draw(screen)
	}
}

func (g *runGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}
