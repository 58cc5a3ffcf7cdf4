package tendril

import "log"

// Aspect identifies which part of a node a watcher observes.
type Aspect uint8

const (
	AspectExistence Aspect = iota // node registered / unregistered
	AspectBase                    // base configuration rewritten
	AspectOverrides               // node-global or item-scoped override changed
	AspectOutputs                 // outputs or auto-mapping preset changed
)

// EventKind identifies a GraphEvent.
type EventKind uint8

const (
	EventNodeRegistered   EventKind = iota // a node entry was created or replaced
	EventNodeUnregistered                  // a node entry was deleted
	EventOutputChanged                     // a node published a new output value
)

// GraphEvent carries node lifecycle and output data for the optional
// event sink (see the tendril/ecs bridge).
type GraphEvent struct {
	Kind   EventKind
	NodeID string
	Key    string // output key (EventOutputChanged only)
	Value  any    // output value (EventOutputChanged only)
}

// EventSink receives graph events. Set one on a Store via SetEventSink.
type EventSink interface {
	EmitEvent(event GraphEvent)
}

// watcher is one registered callback. Removal marks it inactive so that
// unsubscribing during a notification pass is safe.
type watcher struct {
	fn     func()
	active bool
}

type watchKey struct {
	id     string
	aspect Aspect
}

// maxNotifyDepth bounds synchronous notification re-entrancy. Mutually
// overriding nodes quiesce on their own because behaviors suppress no-op
// writes; the guard only catches a behavior that rewrites a changing value
// from inside its own notification.
const maxNotifyDepth = 64

// Store is the process-wide node registry: every node's configuration,
// overrides, and outputs live here, keyed by node id. All operations are
// synchronous; a write to a watched aspect notifies every current subscriber
// before control returns to the writer.
//
// Store is not safe for concurrent use. Like the rest of tendril it assumes
// a single cooperative event loop (the host's update/render loop).
type Store struct {
	nodes       map[string]*Node
	presets     map[string]any
	watchers    map[watchKey][]*watcher
	sink        EventSink
	notifyDepth int
}

// NewStore creates an empty node store.
func NewStore() *Store {
	return &Store{
		nodes:    make(map[string]*Node),
		presets:  make(map[string]any),
		watchers: make(map[watchKey][]*watcher),
	}
}

// SetEventSink sets the optional event bridge. Pass nil to detach.
func (s *Store) SetEventSink(sink EventSink) {
	s.sink = sink
}

// Node returns the entry for id. Absence means "not yet available", never an
// error: nodes mount in arbitrary, caller-controlled order.
func (s *Store) Node(id string) (*Node, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

// --- Lifecycle ---

// Register creates or replaces the node entry for id with the given initial
// base configuration and empty override/output layers. Only the component
// that owns the node may call this.
func (s *Store) Register(id string, typ NodeType, name string, base Props) {
	s.nodes[id] = newNode(id, typ, name, base)
	if s.sink != nil {
		s.sink.EmitEvent(GraphEvent{Kind: EventNodeRegistered, NodeID: id})
	}
	s.notify(id, AspectExistence)
}

// UpdateBaseProps overwrites the node-global base layer without disturbing
// overrides or outputs. No-op when the node is missing.
func (s *Store) UpdateBaseProps(id string, base Props) {
	n, ok := s.nodes[id]
	if !ok {
		return
	}
	n.baseProps = Props{}
	for k, v := range base {
		n.baseProps[k] = v
	}
	s.notify(id, AspectBase)
}

// UpdateItemBase overwrites the per-item base table without disturbing the
// node-global base layer, overrides, or outputs. No-op when the node is
// missing.
func (s *Store) UpdateItemBase(id string, items map[int]Props) {
	n, ok := s.nodes[id]
	if !ok {
		return
	}
	n.itemBase = make(map[int]Props, len(items))
	for item, props := range items {
		cp := Props{}
		for k, v := range props {
			cp[k] = v
		}
		n.itemBase[item] = cp
	}
	s.notify(id, AspectBase)
}

// Unregister deletes the node entry. Only the owning component may call
// this. No-op when the node is already gone.
func (s *Store) Unregister(id string) {
	if _, ok := s.nodes[id]; !ok {
		return
	}
	delete(s.nodes, id)
	if s.sink != nil {
		s.sink.EmitEvent(GraphEvent{Kind: EventNodeUnregistered, NodeID: id})
	}
	s.notify(id, AspectExistence)
}

// --- Outputs (owner-only writes) ---

// SetOutput publishes one output value on the node's outputs map.
// No-op when the node is missing or the value is unchanged.
func (s *Store) SetOutput(id, key string, v any) {
	n, ok := s.nodes[id]
	if !ok {
		return
	}
	if old, ok := n.outputs[key]; ok && equalValues(old, v) {
		return
	}
	n.outputs[key] = v
	if s.sink != nil {
		s.sink.EmitEvent(GraphEvent{Kind: EventOutputChanged, NodeID: id, Key: key, Value: v})
	}
	s.notify(id, AspectOutputs)
}

// SetOutputs publishes several output values with a single notification.
// Values equal to the current outputs are skipped; if nothing changed, no
// notification fires.
func (s *Store) SetOutputs(id string, values Props) {
	n, ok := s.nodes[id]
	if !ok {
		return
	}
	changed := false
	for k, v := range values {
		if old, ok := n.outputs[k]; ok && equalValues(old, v) {
			continue
		}
		n.outputs[k] = v
		changed = true
		if s.sink != nil {
			s.sink.EmitEvent(GraphEvent{Kind: EventOutputChanged, NodeID: id, Key: k, Value: v})
		}
	}
	if changed {
		s.notify(id, AspectOutputs)
	}
}

// SetAutoMapping publishes the node's auto-mapping preset: which of its
// outputs should flow into which target property by default. Pickers in
// Auto mode discover their wiring from this.
func (s *Store) SetAutoMapping(id string, mapping map[string]string) {
	n, ok := s.nodes[id]
	if !ok {
		return
	}
	n.autoMapping = mapping
	s.notify(id, AspectOutputs)
}

// --- Overrides ---
//
// Overrides are the one intentional exception to owner-only mutation:
// pickers write into nodes they do not own. Whichever writer wrote last
// wins; disconnect cleanup (picker.go) is what keeps dead writers from
// winning by accident.

// SetOverride writes a node-global override.
func (s *Store) SetOverride(id, prop string, v any) {
	n, ok := s.nodes[id]
	if !ok {
		return
	}
	if old, ok := n.overrides[prop]; ok && equalValues(old, v) {
		return
	}
	n.overrides[prop] = v
	s.notify(id, AspectOverrides)
}

// DeleteOverride removes a node-global override. No-op if absent.
func (s *Store) DeleteOverride(id, prop string) {
	n, ok := s.nodes[id]
	if !ok {
		return
	}
	if _, ok := n.overrides[prop]; !ok {
		return
	}
	delete(n.overrides, prop)
	s.notify(id, AspectOverrides)
}

// SetItemOverride writes an item-scoped override.
func (s *Store) SetItemOverride(id string, item int, prop string, v any) {
	n, ok := s.nodes[id]
	if !ok {
		return
	}
	if n.itemOverrides == nil {
		n.itemOverrides = make(map[int]Props)
	}
	props, ok := n.itemOverrides[item]
	if !ok {
		props = Props{}
		n.itemOverrides[item] = props
	}
	if old, ok := props[prop]; ok && equalValues(old, v) {
		return
	}
	props[prop] = v
	s.notify(id, AspectOverrides)
}

// DeleteItemOverride removes an item-scoped override. No-op if absent.
func (s *Store) DeleteItemOverride(id string, item int, prop string) {
	n, ok := s.nodes[id]
	if !ok {
		return
	}
	props, ok := n.itemOverrides[item]
	if !ok {
		return
	}
	if _, ok := props[prop]; !ok {
		return
	}
	delete(props, prop)
	if len(props) == 0 {
		delete(n.itemOverrides, item)
	}
	s.notify(id, AspectOverrides)
}

// --- Connected-input metadata ---

// SetConnectedInput records which upstream output feeds one of the node's
// input sockets. Metadata only; does not affect resolution.
func (s *Store) SetConnectedInput(id, socket string, conn InputConnection) {
	n, ok := s.nodes[id]
	if !ok {
		return
	}
	if n.connectedInputs == nil {
		n.connectedInputs = make(map[string]InputConnection)
	}
	n.connectedInputs[socket] = conn
}

// DeleteConnectedInput removes recorded wiring metadata for a socket.
func (s *Store) DeleteConnectedInput(id, socket string) {
	n, ok := s.nodes[id]
	if !ok {
		return
	}
	delete(n.connectedInputs, socket)
}

// --- Presets (Level 2) ---

// SetPreset stores a named reusable value. Base props holding a
// "preset:<name>" reference resolve through this table (after overrides,
// before plain base values).
func (s *Store) SetPreset(name string, v any) {
	s.presets[name] = v
}

// Preset returns the named preset value.
func (s *Store) Preset(name string) (any, bool) {
	v, ok := s.presets[name]
	return v, ok
}

// DeletePreset removes a named preset. References to it degrade to the
// caller's default at the next resolution.
func (s *Store) DeletePreset(name string) {
	delete(s.presets, name)
}

// --- Subscriptions ---

// Watch registers fn to run synchronously whenever the given aspect of the
// node changes. The node does not need to exist yet. The returned cancel
// func removes the subscription; calling it more than once is harmless.
func (s *Store) Watch(id string, aspect Aspect, fn func()) func() {
	w := &watcher{fn: fn, active: true}
	key := watchKey{id: id, aspect: aspect}
	s.watchers[key] = append(s.watchers[key], w)
	return func() {
		if !w.active {
			return
		}
		w.active = false
		s.compact(key)
	}
}

// OnAppear registers fn to run when the node with the given id registers.
// If the node is already present, fn runs immediately (synchronously) and
// also on every later re-registration until cancelled. This replaces
// poll-until-ready discovery: waiters subscribe instead of spinning.
func (s *Store) OnAppear(id string, fn func()) func() {
	cancel := s.Watch(id, AspectExistence, func() {
		if _, ok := s.nodes[id]; ok {
			fn()
		}
	})
	if _, ok := s.nodes[id]; ok {
		fn()
	}
	return cancel
}

// notify runs every active watcher for (id, aspect). The watcher list is
// snapshotted first so subscribing or unsubscribing from inside a callback
// never corrupts the pass.
func (s *Store) notify(id string, aspect Aspect) {
	key := watchKey{id: id, aspect: aspect}
	list := s.watchers[key]
	if len(list) == 0 {
		return
	}
	if s.notifyDepth >= maxNotifyDepth {
		log.Printf("tendril: notification depth exceeded %d on node %q; dropping fan-out (override cycle?)",
			maxNotifyDepth, id)
		return
	}
	s.notifyDepth++
	snapshot := make([]*watcher, len(list))
	copy(snapshot, list)
	for _, w := range snapshot {
		if w.active {
			w.fn()
		}
	}
	s.notifyDepth--
}

// compact removes inactive watchers from a key's list.
func (s *Store) compact(key watchKey) {
	list := s.watchers[key]
	kept := list[:0]
	for _, w := range list {
		if w.active {
			kept = append(kept, w)
		}
	}
	if len(kept) == 0 {
		delete(s.watchers, key)
		return
	}
	// Nil the tail to avoid retaining dropped watchers in the backing array.
	for i := len(kept); i < len(list); i++ {
		list[i] = nil
	}
	s.watchers[key] = kept
}
