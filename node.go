package tendril

// InputConnection describes which upstream node output feeds one of a node's
// input sockets. Reserved wiring metadata for explicit-cable tooling; the
// override-based propagation works without it.
type InputConnection struct {
	SourceID  string // upstream node id
	OutputKey string // key within the upstream node's outputs
}

// Node is a store entry: one addressable unit of the graph with base
// configuration, overrides, and outputs. Entries are created and deleted by
// the behavior that owns them; everything else reads them through the Store.
//
// A single flat struct is used for all node types to avoid interface
// dispatch on the resolution hot path.
type Node struct {
	// Identity
	ID   string
	Type NodeType
	Name string // display label, never used for identity or resolution

	// Level 1: static/configured values, rewritten by the owner on
	// configuration change. itemBase holds per-item values for container
	// nodes; baseProps holds node-global fallbacks.
	baseProps Props
	itemBase  map[int]Props

	// Level 3: runtime-written values. itemOverrides beat overrides beat
	// any base value for the same logical property.
	overrides     Props
	itemOverrides map[int]Props

	// Published results, mutated continuously while mounted.
	outputs     Props
	autoMapping map[string]string // output name → suggested target property

	connectedInputs map[string]InputConnection
}

// newNode creates a node entry with its initial configuration written
// through to the base layer and empty override/output layers.
func newNode(id string, typ NodeType, name string, base Props) *Node {
	n := &Node{
		ID:        id,
		Type:      typ,
		Name:      name,
		baseProps: Props{},
		overrides: Props{},
		outputs:   Props{},
	}
	for k, v := range base {
		n.baseProps[k] = v
	}
	return n
}

// BaseProp returns the node's base value for prop, looking in the per-item
// table first when item is not NoItem. No override layer is consulted.
func (n *Node) BaseProp(item int, prop string) (any, bool) {
	if item != NoItem {
		if props, ok := n.itemBase[item]; ok {
			if v, ok := props[prop]; ok {
				return v, true
			}
		}
	}
	v, ok := n.baseProps[prop]
	return v, ok
}

// Override returns the node-global override for prop.
func (n *Node) Override(prop string) (any, bool) {
	v, ok := n.overrides[prop]
	return v, ok
}

// ItemOverride returns the item-scoped override for prop on item.
func (n *Node) ItemOverride(item int, prop string) (any, bool) {
	props, ok := n.itemOverrides[item]
	if !ok {
		return nil, false
	}
	v, ok := props[prop]
	return v, ok
}

// Output returns the node's published output for key.
func (n *Node) Output(key string) (any, bool) {
	v, ok := n.outputs[key]
	return v, ok
}

// Outputs returns the node's output map. The returned map MUST NOT be
// mutated by the caller; use Store.SetOutput to write.
func (n *Node) Outputs() Props {
	return n.outputs
}

// Overrides returns the node-global override map. The returned map MUST NOT
// be mutated by the caller. Read surface for inspectors and debug overlays.
func (n *Node) Overrides() Props {
	return n.overrides
}

// ItemOverrides returns the item-scoped override table. The returned maps
// MUST NOT be mutated by the caller.
func (n *Node) ItemOverrides() map[int]Props {
	return n.itemOverrides
}

// AutoMapping returns the node's published auto-mapping preset, or nil if
// the node has not published one yet.
func (n *Node) AutoMapping() map[string]string {
	return n.autoMapping
}

// ConnectedInput returns the wiring metadata for an input socket.
func (n *Node) ConnectedInput(socket string) (InputConnection, bool) {
	c, ok := n.connectedInputs[socket]
	return c, ok
}
