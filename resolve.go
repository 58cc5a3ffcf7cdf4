package tendril

import "strings"

// presetPrefix marks a base prop value as a reference into the store's
// preset table, e.g. "preset:accent-scale".
const presetPrefix = "preset:"

// PresetRef reports whether a property value is a preset reference and, if
// so, returns the referenced preset name.
func PresetRef(v any) (string, bool) {
	str, ok := v.(string)
	if !ok || !strings.HasPrefix(str, presetPrefix) {
		return "", false
	}
	return str[len(presetPrefix):], true
}

// resolveBase resolves one base-layer value: preset references go through
// the preset table; anything else is returned as-is. An unresolvable
// reference reports false — "not yet available", so the caller's default
// stands until the preset appears.
func (s *Store) resolveBase(v any) (any, bool) {
	name, isRef := PresetRef(v)
	if !isRef {
		return v, true
	}
	return s.Preset(name)
}

// ResolveProperty computes the currently-effective value of a node-global
// property. Precedence is a hard contract:
//
//	override (Level 3) > preset reference (Level 2) > base (Level 1) > def
//
// A missing node, a missing property, and an unresolvable preset reference
// all degrade to def; none are errors. Pure read, safe to call on every
// re-evaluation.
func (s *Store) ResolveProperty(id, prop string, def any) any {
	n, ok := s.nodes[id]
	if !ok {
		return def
	}
	if v, ok := n.overrides[prop]; ok {
		return v
	}
	if raw, ok := n.baseProps[prop]; ok {
		if v, ok := s.resolveBase(raw); ok {
			return v
		}
	}
	return def
}

// ResolveItemProperty computes the currently-effective value of a per-item
// property on a container node. Precedence, highest first:
//
//	item override > node-global override > per-item base > node-global base > def
//
// Same degradation rules as ResolveProperty.
func (s *Store) ResolveItemProperty(id string, item int, prop string, def any) any {
	n, ok := s.nodes[id]
	if !ok {
		return def
	}
	if props, ok := n.itemOverrides[item]; ok {
		if v, ok := props[prop]; ok {
			return v
		}
	}
	if v, ok := n.overrides[prop]; ok {
		return v
	}
	if props, ok := n.itemBase[item]; ok {
		if raw, ok := props[prop]; ok {
			if v, ok := s.resolveBase(raw); ok {
				return v
			}
			// Unresolvable reference: fall through to the node-global base.
		}
	}
	if raw, ok := n.baseProps[prop]; ok {
		if v, ok := s.resolveBase(raw); ok {
			return v
		}
	}
	return def
}

// ResolveNumber is ResolveProperty with numeric coercion: non-numeric
// resolved values fall back to def.
func (s *Store) ResolveNumber(id, prop string, def float64) float64 {
	return NumberOr(s.ResolveProperty(id, prop, def), def)
}

// ResolveItemNumber is ResolveItemProperty with numeric coercion.
func (s *Store) ResolveItemNumber(id string, item int, prop string, def float64) float64 {
	return NumberOr(s.ResolveItemProperty(id, item, prop, def), def)
}
