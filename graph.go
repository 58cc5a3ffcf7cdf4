package tendril

// Behavior is anything mountable on a Graph. Every behavior tears its node
// entry and subscriptions down exactly once in Dispose.
type Behavior interface {
	Dispose()
}

// Updater is implemented by frame-driven behaviors (oscillators,
// playbacks). Pickers and modifiers are purely invalidation-driven and do
// not implement it.
type Updater interface {
	Update(dt float64)
}

// Graph owns a Store and a set of mounted behaviors, and fans the host
// loop's per-frame callback out to the frame-driven ones. It is a lifecycle
// container only: propagation between nodes stays subscription-driven and
// never goes through the Graph.
type Graph struct {
	store     *Store
	behaviors []Behavior
	updaters  []Updater
}

// NewGraph creates a graph with a fresh store.
func NewGraph() *Graph {
	return &Graph{store: NewStore()}
}

// Store returns the graph's node store.
func (g *Graph) Store() *Store {
	return g.store
}

// Add mounts a behavior. Behaviors register their own node entries in their
// constructors; Add only tracks lifecycle and frame scheduling.
func (g *Graph) Add(b Behavior) {
	g.behaviors = append(g.behaviors, b)
	if u, ok := b.(Updater); ok {
		g.updaters = append(g.updaters, u)
	}
}

// Remove unmounts one behavior: it is disposed and dropped from the frame
// schedule. No-op when the behavior is not mounted.
func (g *Graph) Remove(b Behavior) {
	for i, mounted := range g.behaviors {
		if mounted == b {
			copy(g.behaviors[i:], g.behaviors[i+1:])
			g.behaviors[len(g.behaviors)-1] = nil
			g.behaviors = g.behaviors[:len(g.behaviors)-1]
			break
		}
	}
	if u, ok := b.(Updater); ok {
		for i, mounted := range g.updaters {
			if mounted == u {
				copy(g.updaters[i:], g.updaters[i+1:])
				g.updaters[len(g.updaters)-1] = nil
				g.updaters = g.updaters[:len(g.updaters)-1]
				break
			}
		}
	}
	b.Dispose()
}

// Update advances every frame-driven behavior by dt seconds. Call once per
// host frame.
func (g *Graph) Update(dt float64) {
	for _, u := range g.updaters {
		u.Update(dt)
	}
}

// Dispose unmounts every behavior in reverse mount order.
func (g *Graph) Dispose() {
	for i := len(g.behaviors) - 1; i >= 0; i-- {
		g.behaviors[i].Dispose()
	}
	g.behaviors = nil
	g.updaters = nil
}
