package tendril

import "log"

// PickerConfig configures a propagation cable.
type PickerConfig struct {
	// Source is the node whose outputs are mirrored.
	Source string
	// Target is the node whose overrides receive the mirrored values.
	Target string
	// TargetItem scopes the written overrides to one item on the target.
	// Pass NoItem to write node-global overrides.
	TargetItem int
	// Mode selects automatic or explicit wiring.
	Mode PickerMode
	// SourceKeys and TargetKeys are the explicit mapping for PickerCustom:
	// SourceKeys[i]'s value flows into TargetKeys[i]. Extra entries on
	// either side are ignored.
	SourceKeys []string
	TargetKeys []string
}

// Picker makes targetNode.overrides track sourceNode.outputs live.
//
// In Auto mode the picker needs the source's auto-mapping preset before it
// can wire itself. Neither the source node nor its preset has to exist yet:
// the picker subscribes and converges once they appear — forward references
// are normal, not errors.
//
// Teardown discipline: on reconfiguration or Dispose, the picker deletes
// exactly the override keys it wrote, using the mapping captured when the
// subscription was made (never a recomputed one), strictly before any new
// subscription takes effect. A key is only deleted while it still holds
// this picker's own last write, so a disconnected picker never erases a
// value a different, still-active picker has written since.
//
// Several pickers may target the same (target, key) pair; last write wins.
// That is documented behavior, not arbitration.
type Picker struct {
	store *Store
	id    string
	cfg   PickerConfig

	// Connection state, captured at subscription time.
	mapping   map[string]string // source output key → target property
	lastWrote Props             // target property → value this picker wrote
	cancels   []func()
	disposed  bool
}

// NewPicker registers a picker node and begins discovery immediately.
func NewPicker(store *Store, id, name string, cfg PickerConfig) *Picker {
	p := &Picker{store: store, id: id, cfg: cfg}
	store.Register(id, NodeTypePicker, name, p.baseProps())
	p.wire()
	return p
}

// ID returns the picker's node id.
func (p *Picker) ID() string {
	return p.id
}

// Connected reports whether the picker has discovered its mapping and is
// mirroring values.
func (p *Picker) Connected() bool {
	return p.mapping != nil
}

// Mapping returns the live source→target mapping, or nil while discovering.
// The returned map MUST NOT be mutated.
func (p *Picker) Mapping() map[string]string {
	return p.mapping
}

// SetConfig atomically reconfigures the cable: the old subscription's
// cleanup and the new subscription's setup happen as one unit. External
// observers never see the old and new mapping live at the same time.
func (p *Picker) SetConfig(cfg PickerConfig) {
	if p.disposed {
		return
	}
	p.disconnect()
	p.cfg = cfg
	p.store.UpdateBaseProps(p.id, p.baseProps())
	p.wire()
}

// Dispose disconnects the cable (removing exactly the overrides it owns)
// and removes the picker's node entry. Safe to call more than once.
func (p *Picker) Dispose() {
	if p.disposed {
		return
	}
	p.disposed = true
	p.disconnect()
	p.store.Unregister(p.id)
}

func (p *Picker) baseProps() Props {
	return Props{
		"source":     p.cfg.Source,
		"target":     p.cfg.Target,
		"targetItem": p.cfg.TargetItem,
		"mode":       float64(p.cfg.Mode),
	}
}

// wire installs the discovery subscriptions. Mirroring starts as soon as a
// mapping is known and both endpoints exist; until then the picker just
// keeps watching.
func (p *Picker) wire() {
	p.cancels = append(p.cancels,
		p.store.OnAppear(p.cfg.Source, p.onSourceChange),
		p.store.Watch(p.cfg.Source, AspectOutputs, p.onSourceChange),
		// The target may mount after the source has stopped changing;
		// apply the current mapping the moment it appears.
		p.store.OnAppear(p.cfg.Target, p.onSourceChange),
	)
}

// onSourceChange runs on source appearance, every source output change, and
// target appearance. It resolves the mapping on first opportunity, then
// mirrors.
func (p *Picker) onSourceChange() {
	if p.mapping == nil {
		m := p.resolveMapping()
		if m == nil {
			return // preset not published yet; keep watching
		}
		p.mapping = m
		p.lastWrote = Props{}
		p.recordConnections()
		if globalDebug {
			log.Printf("tendril: picker %q connected %q → %q (%d keys)",
				p.id, p.cfg.Source, p.cfg.Target, len(m))
		}
	}
	p.apply()
}

// resolveMapping produces the source-key→target-key mapping, or nil when it
// cannot be known yet.
func (p *Picker) resolveMapping() map[string]string {
	if p.cfg.Mode == PickerCustom {
		nkeys := len(p.cfg.SourceKeys)
		if len(p.cfg.TargetKeys) < nkeys {
			nkeys = len(p.cfg.TargetKeys)
		}
		if nkeys == 0 {
			return nil
		}
		m := make(map[string]string, nkeys)
		for i := 0; i < nkeys; i++ {
			m[p.cfg.SourceKeys[i]] = p.cfg.TargetKeys[i]
		}
		return m
	}
	n, ok := p.store.Node(p.cfg.Source)
	if !ok {
		return nil
	}
	auto := n.AutoMapping()
	if len(auto) == 0 {
		return nil
	}
	m := make(map[string]string, len(auto))
	for k, v := range auto {
		m[k] = v
	}
	return m
}

// recordConnections publishes wiring metadata on the target node.
func (p *Picker) recordConnections() {
	for sourceKey, targetKey := range p.mapping {
		p.store.SetConnectedInput(p.cfg.Target, targetKey, InputConnection{
			SourceID:  p.cfg.Source,
			OutputKey: sourceKey,
		})
	}
}

// apply mirrors every mapped source output that currently has a value into
// the target's override layer.
func (p *Picker) apply() {
	src, ok := p.store.Node(p.cfg.Source)
	if !ok {
		return
	}
	for sourceKey, targetKey := range p.mapping {
		v, ok := src.Output(sourceKey)
		if !ok {
			continue
		}
		if p.cfg.TargetItem != NoItem {
			p.store.SetItemOverride(p.cfg.Target, p.cfg.TargetItem, targetKey, v)
		} else {
			p.store.SetOverride(p.cfg.Target, targetKey, v)
		}
		p.lastWrote[targetKey] = v
	}
}

// disconnect tears the live connection down: cancel subscriptions, delete
// the override keys this picker owns (captured mapping, own-last-write
// check), and clear the wiring metadata. Runs to completion before any new
// wiring is installed.
func (p *Picker) disconnect() {
	for _, cancel := range p.cancels {
		cancel()
	}
	p.cancels = nil
	if p.mapping == nil {
		return
	}
	target, ok := p.store.Node(p.cfg.Target)
	if ok {
		for targetKey, wrote := range p.lastWrote {
			if p.cfg.TargetItem != NoItem {
				if cur, ok := target.ItemOverride(p.cfg.TargetItem, targetKey); !ok || equalValues(cur, wrote) {
					p.store.DeleteItemOverride(p.cfg.Target, p.cfg.TargetItem, targetKey)
				}
			} else {
				if cur, ok := target.Override(targetKey); !ok || equalValues(cur, wrote) {
					p.store.DeleteOverride(p.cfg.Target, targetKey)
				}
			}
		}
		for _, targetKey := range p.mapping {
			p.store.DeleteConnectedInput(p.cfg.Target, targetKey)
		}
	}
	if globalDebug {
		log.Printf("tendril: picker %q disconnected from %q", p.id, p.cfg.Target)
	}
	p.mapping = nil
	p.lastWrote = nil
}
