package tendril

// ModifierConfig configures a computation node.
type ModifierConfig struct {
	// Source is the node whose base configuration supplies the base value.
	Source string
	// SourceProp is the property read off the source's base layer.
	SourceProp string
	// SourceItem keys the base read to one item on the source, or NoItem.
	SourceItem int
	// Operator combines the base and input values.
	Operator Operator
	// Input is the static input value, used when UseOverride is false and
	// as the last-resort fallback when it is true.
	Input float64
	// UseOverride makes the modifier read its input from its own
	// overrides.value (written by a picker), falling back to InputFrom's
	// outputs.value while no override is present yet.
	UseOverride bool
	// InputFrom names the upstream node whose outputs.value serves as the
	// override fallback. Ignored when UseOverride is false.
	InputFrom string
	// TargetProp is the property name this modifier suggests for automatic
	// cable wiring. Defaults to "value".
	TargetProp string
}

// Modifier reads a base value off a source node's base configuration,
// combines it with an input, and republishes the result as its own
// outputs.value — a computation node built entirely on the store and the
// resolution rules. Recomputation is purely invalidation-driven: any change
// to the watched store paths triggers it, and there is no caching beyond
// suppressing writes of an unchanged result.
type Modifier struct {
	store *Store
	id    string
	cfg   ModifierConfig

	cancels  []func()
	last     float64
	hasLast  bool
	disposed bool
}

// NewModifier registers a modifier node, subscribes to its inputs, and
// computes the initial result.
func NewModifier(store *Store, id, name string, cfg ModifierConfig) *Modifier {
	if cfg.TargetProp == "" {
		cfg.TargetProp = "value"
	}
	m := &Modifier{store: store, id: id, cfg: cfg}
	store.Register(id, NodeTypeModifier, name, m.baseProps())
	store.SetAutoMapping(id, map[string]string{"value": cfg.TargetProp})
	m.wire()
	return m
}

// ID returns the modifier's node id.
func (m *Modifier) ID() string {
	return m.id
}

// SetConfig atomically reconfigures the modifier: old subscriptions are
// torn down before the new ones take effect, then the result is recomputed.
func (m *Modifier) SetConfig(cfg ModifierConfig) {
	if m.disposed {
		return
	}
	if cfg.TargetProp == "" {
		cfg.TargetProp = "value"
	}
	m.unwire()
	m.cfg = cfg
	m.store.UpdateBaseProps(m.id, m.baseProps())
	m.store.SetAutoMapping(m.id, map[string]string{"value": cfg.TargetProp})
	m.wire()
}

// Dispose unsubscribes and removes the modifier's node entry. Safe to call
// more than once.
func (m *Modifier) Dispose() {
	if m.disposed {
		return
	}
	m.disposed = true
	m.unwire()
	m.store.Unregister(m.id)
}

func (m *Modifier) baseProps() Props {
	return Props{
		"source":      m.cfg.Source,
		"sourceProp":  m.cfg.SourceProp,
		"sourceItem":  m.cfg.SourceItem,
		"operator":    float64(m.cfg.Operator),
		"input":       m.cfg.Input,
		"useOverride": m.cfg.UseOverride,
		"inputFrom":   m.cfg.InputFrom,
	}
}

// wire subscribes to every store path the computation reads, then computes
// once so the output is valid immediately.
func (m *Modifier) wire() {
	m.cancels = append(m.cancels,
		m.store.OnAppear(m.cfg.Source, m.recompute),
		m.store.Watch(m.cfg.Source, AspectBase, m.recompute),
		// Own overrides: a picker may drive the input.
		m.store.Watch(m.id, AspectOverrides, m.recompute),
	)
	if m.cfg.UseOverride && m.cfg.InputFrom != "" {
		m.cancels = append(m.cancels,
			m.store.OnAppear(m.cfg.InputFrom, m.recompute),
			m.store.Watch(m.cfg.InputFrom, AspectOutputs, m.recompute),
		)
	}
	m.recompute()
}

func (m *Modifier) unwire() {
	for _, cancel := range m.cancels {
		cancel()
	}
	m.cancels = nil
}

// recompute reads base and input, applies the operator, and republishes.
// Unchanged results are not rewritten, which is what lets override cycles
// through modifiers quiesce.
func (m *Modifier) recompute() {
	if m.disposed {
		return
	}
	base := m.baseValue()
	input := m.inputValue()

	var result float64
	switch m.cfg.Operator {
	case OpMultiply:
		result = base * input
	case OpAdd:
		result = base + input
	case OpSubtract:
		result = base - input
	case OpSet:
		result = input
	}
	result = roundOutput(result)

	if m.hasLast && result == m.last {
		return
	}
	m.last = result
	m.hasLast = true
	m.store.SetOutput(m.id, "value", result)
}

// baseValue reads the configured property off the source node's base
// configuration. A missing source, item, or property degrades to 0 and the
// subscriptions keep watching.
func (m *Modifier) baseValue() float64 {
	n, ok := m.store.Node(m.cfg.Source)
	if !ok {
		return 0
	}
	v, ok := n.BaseProp(m.cfg.SourceItem, m.cfg.SourceProp)
	if !ok {
		return 0
	}
	if resolved, ok := m.store.resolveBase(v); ok {
		return NumberOr(resolved, 0)
	}
	return 0
}

// inputValue reads the modifier's input: static config, or — when
// override-driven — its own overrides.value, then the upstream node's
// outputs.value, then the static value as the last resort.
func (m *Modifier) inputValue() float64 {
	if !m.cfg.UseOverride {
		return m.cfg.Input
	}
	if n, ok := m.store.Node(m.id); ok {
		if v, ok := n.Override("value"); ok {
			return NumberOr(v, m.cfg.Input)
		}
	}
	if m.cfg.InputFrom != "" {
		if n, ok := m.store.Node(m.cfg.InputFrom); ok {
			if v, ok := n.Output("value"); ok {
				return NumberOr(v, m.cfg.Input)
			}
		}
	}
	return m.cfg.Input
}
