package tendril

// SceneItem is the static configuration of one image item in a scene node.
// The animated fields (x, y, scale, rotation, opacity) seed the node's
// per-item base layer; the rest is render metadata passed through verbatim.
type SceneItem struct {
	Name      string
	File      string
	X, Y      float64
	Width     float64
	Height    float64
	Scale     float64 // 0 means 1
	Rotation  float64 // radians
	Opacity   float64 // 0 means 1; set Hidden for an actually invisible item
	Hidden    bool
	BlendMode BlendMode
	ZIndex    int
}

// ItemState is one item's currently-effective values, resolved through
// every layer (item override > node override > per-item base > node base).
type ItemState struct {
	X, Y      float64
	Scale     float64
	Rotation  float64
	Opacity   float64
	Width     float64
	Height    float64
	File      string
	BlendMode BlendMode
	ZIndex    int
}

// SceneNode is a container node owning N repeated image items. It is the
// consumer-side primitive: renderers and inspectors call ItemState on every
// re-evaluation and always observe the currently-effective values, however
// many generators, pickers, and playbacks are writing at the time.
type SceneNode struct {
	store    *Store
	id       string
	items    []SceneItem
	disposed bool
}

// NewSceneNode registers a scene node with its item configuration written
// through to the base layers.
func NewSceneNode(store *Store, id, name string, items []SceneItem) *SceneNode {
	sc := &SceneNode{store: store, id: id, items: normalizeItems(items)}
	store.Register(id, NodeTypeScene, name, sceneBase())
	store.UpdateItemBase(id, itemBase(sc.items))
	return sc
}

// ID returns the scene's node id.
func (sc *SceneNode) ID() string {
	return sc.id
}

// NumItems returns the number of configured items.
func (sc *SceneNode) NumItems() int {
	return len(sc.items)
}

// Item returns the static configuration of one item.
func (sc *SceneNode) Item(item int) SceneItem {
	return sc.items[item]
}

// SetItems replaces the item configuration, rewriting the base layers
// without disturbing overrides or outputs.
func (sc *SceneNode) SetItems(items []SceneItem) {
	if sc.disposed {
		return
	}
	sc.items = normalizeItems(items)
	sc.store.UpdateBaseProps(sc.id, sceneBase())
	sc.store.UpdateItemBase(sc.id, itemBase(sc.items))
}

// ItemState resolves one item's currently-effective animated values.
// Pure read; safe to call every frame for every item.
func (sc *SceneNode) ItemState(item int) ItemState {
	cfg := sc.items[item]
	return ItemState{
		X:         sc.store.ResolveItemNumber(sc.id, item, "x", cfg.X),
		Y:         sc.store.ResolveItemNumber(sc.id, item, "y", cfg.Y),
		Scale:     sc.store.ResolveItemNumber(sc.id, item, "scale", cfg.Scale),
		Rotation:  sc.store.ResolveItemNumber(sc.id, item, "rotation", cfg.Rotation),
		Opacity:   sc.store.ResolveItemNumber(sc.id, item, "opacity", cfg.Opacity),
		Width:     cfg.Width,
		Height:    cfg.Height,
		File:      cfg.File,
		BlendMode: cfg.BlendMode,
		ZIndex:    cfg.ZIndex,
	}
}

// Dispose removes the scene's node entry. Safe to call more than once.
func (sc *SceneNode) Dispose() {
	if sc.disposed {
		return
	}
	sc.disposed = true
	sc.store.Unregister(sc.id)
}

// normalizeItems applies the zero-value defaults (scale 1, opacity 1).
func normalizeItems(items []SceneItem) []SceneItem {
	out := make([]SceneItem, len(items))
	copy(out, items)
	for i := range out {
		if out[i].Scale == 0 {
			out[i].Scale = 1
		}
		if out[i].Opacity == 0 && !out[i].Hidden {
			out[i].Opacity = 1
		}
	}
	return out
}

// sceneBase is the node-global base layer: uniform fallbacks that apply to
// every item unless an item-scoped value wins.
func sceneBase() Props {
	return Props{
		"scale":    1.0,
		"rotation": 0.0,
		"opacity":  1.0,
	}
}

// itemBase writes the animated per-item fields into the typed per-item
// table.
func itemBase(items []SceneItem) map[int]Props {
	table := make(map[int]Props, len(items))
	for i, it := range items {
		opacity := it.Opacity
		if it.Hidden {
			opacity = 0
		}
		table[i] = Props{
			"x":        it.X,
			"y":        it.Y,
			"scale":    it.Scale,
			"rotation": it.Rotation,
			"opacity":  opacity,
		}
	}
	return table
}
