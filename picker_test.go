package tendril

import "testing"

func override(t *testing.T, s *Store, id, prop string) (any, bool) {
	t.Helper()
	n, ok := s.Node(id)
	if !ok {
		t.Fatalf("node %q not found", id)
	}
	return n.Override(prop)
}

// --- Auto discovery ---

func TestAutoPickerMirrorsSource(t *testing.T) {
	s := NewStore()
	s.Register("tgt", NodeTypeScene, "target", nil)
	s.Register("src", NodeTypeCustom, "source", nil)
	s.SetAutoMapping("src", map[string]string{"value": "scale"})
	s.SetOutput("src", "value", 1.5)

	NewPicker(s, "cable", "cable", PickerConfig{
		Source: "src", Target: "tgt", TargetItem: NoItem, Mode: PickerAuto,
	})

	if v, ok := override(t, s, "tgt", "scale"); !ok || v != 1.5 {
		t.Fatalf("override = %v, %v; want 1.5 mirrored on connect", v, ok)
	}

	s.SetOutput("src", "value", 2.5)
	if v, _ := override(t, s, "tgt", "scale"); v != 2.5 {
		t.Errorf("override = %v, want live-mirrored 2.5", v)
	}
}

func TestAutoPickerWaitsForSourceRegistration(t *testing.T) {
	s := NewStore()
	s.Register("tgt", NodeTypeScene, "target", nil)

	p := NewPicker(s, "cable", "cable", PickerConfig{
		Source: "src", Target: "tgt", TargetItem: NoItem, Mode: PickerAuto,
	})
	if p.Connected() {
		t.Fatal("must not connect before the source exists")
	}

	// Source mounts later, preset and output included.
	s.Register("src", NodeTypeCustom, "source", nil)
	s.SetAutoMapping("src", map[string]string{"value": "x"})
	s.SetOutput("src", "value", 7.0)

	if !p.Connected() {
		t.Fatal("picker should converge once the source appears")
	}
	if v, _ := override(t, s, "tgt", "x"); v != 7.0 {
		t.Errorf("override = %v, want 7", v)
	}
}

// A source that registers its auto-mapping preset only after a delay must
// still converge without a fresh picker mount.
func TestAutoPickerWaitsForDelayedPreset(t *testing.T) {
	s := NewStore()
	s.Register("tgt", NodeTypeScene, "target", nil)
	s.Register("src", NodeTypeCustom, "source", nil)
	s.SetOutput("src", "value", 3.0)

	p := NewPicker(s, "cable", "cable", PickerConfig{
		Source: "src", Target: "tgt", TargetItem: NoItem, Mode: PickerAuto,
	})
	if p.Connected() {
		t.Fatal("must not connect before the preset is published")
	}
	if _, ok := override(t, s, "tgt", "scale"); ok {
		t.Fatal("nothing may be written before the mapping is known")
	}

	s.SetAutoMapping("src", map[string]string{"value": "scale"})
	if !p.Connected() {
		t.Fatal("picker should converge once the preset appears")
	}
	if v, _ := override(t, s, "tgt", "scale"); v != 3.0 {
		t.Errorf("override = %v, want 3 mirrored after preset appeared", v)
	}
}

func TestPickerWaitsForTarget(t *testing.T) {
	s := NewStore()
	s.Register("src", NodeTypeCustom, "source", nil)
	s.SetAutoMapping("src", map[string]string{"value": "x"})
	s.SetOutput("src", "value", 4.0)

	NewPicker(s, "cable", "cable", PickerConfig{
		Source: "src", Target: "tgt", TargetItem: NoItem, Mode: PickerAuto,
	})

	// Target mounts after the source went quiet.
	s.Register("tgt", NodeTypeScene, "target", nil)
	if v, _ := override(t, s, "tgt", "x"); v != 4.0 {
		t.Errorf("override = %v, want 4 applied on target appearance", v)
	}
}

// --- Custom mode ---

func TestCustomPickerUsesExplicitMapping(t *testing.T) {
	s := NewStore()
	s.Register("tgt", NodeTypeScene, "target", nil)
	s.Register("src", NodeTypeCustom, "source", nil)
	s.SetOutputs("src", Props{"a": 1.0, "b": 2.0})

	NewPicker(s, "cable", "cable", PickerConfig{
		Source: "src", Target: "tgt", TargetItem: NoItem, Mode: PickerCustom,
		SourceKeys: []string{"a", "b"},
		TargetKeys: []string{"x", "y"},
	})

	if v, _ := override(t, s, "tgt", "x"); v != 1.0 {
		t.Errorf("x = %v, want 1", v)
	}
	if v, _ := override(t, s, "tgt", "y"); v != 2.0 {
		t.Errorf("y = %v, want 2", v)
	}
}

func TestCustomPickerSkipsUndefinedOutputs(t *testing.T) {
	s := NewStore()
	s.Register("tgt", NodeTypeScene, "target", nil)
	s.Register("src", NodeTypeCustom, "source", nil)
	s.SetOutput("src", "a", 1.0)

	NewPicker(s, "cable", "cable", PickerConfig{
		Source: "src", Target: "tgt", TargetItem: NoItem, Mode: PickerCustom,
		SourceKeys: []string{"a", "missing"},
		TargetKeys: []string{"x", "y"},
	})

	if _, ok := override(t, s, "tgt", "y"); ok {
		t.Error("undefined source outputs must not be mirrored")
	}
}

// --- Item scoping ---

func TestPickerWritesItemScopedOverrides(t *testing.T) {
	s := NewStore()
	s.Register("tgt", NodeTypeScene, "target", nil)
	s.Register("src", NodeTypeCustom, "source", nil)
	s.SetAutoMapping("src", map[string]string{"value": "scale"})
	s.SetOutput("src", "value", 2.0)

	NewPicker(s, "cable", "cable", PickerConfig{
		Source: "src", Target: "tgt", TargetItem: 4, Mode: PickerAuto,
	})

	n, _ := s.Node("tgt")
	if v, ok := n.ItemOverride(4, "scale"); !ok || v != 2.0 {
		t.Errorf("item override = %v, %v; want 2", v, ok)
	}
	if _, ok := n.Override("scale"); ok {
		t.Error("node-global override must not be written for an item cable")
	}
}

// --- Teardown discipline ---

func TestDisposeRemovesOwnOverrides(t *testing.T) {
	s := NewStore()
	s.Register("tgt", NodeTypeScene, "target", nil)
	s.Register("src", NodeTypeCustom, "source", nil)
	s.SetAutoMapping("src", map[string]string{"value": "scale"})
	s.SetOutput("src", "value", 2.0)

	p := NewPicker(s, "cable", "cable", PickerConfig{
		Source: "src", Target: "tgt", TargetItem: NoItem, Mode: PickerAuto,
	})
	if _, ok := override(t, s, "tgt", "scale"); !ok {
		t.Fatal("sanity: override should be present while connected")
	}

	p.Dispose()
	if _, ok := override(t, s, "tgt", "scale"); ok {
		t.Error("a disconnected picker must not leave a stale override behind")
	}
	if _, ok := s.Node("cable"); ok {
		t.Error("picker node should be unregistered")
	}

	// Source changes after disposal must not leak through.
	s.SetOutput("src", "value", 9.0)
	if _, ok := override(t, s, "tgt", "scale"); ok {
		t.Error("disposed picker must not keep mirroring")
	}
}

// Two pickers on the same (target, key): unmounting one must not erase the
// other's current value.
func TestDisposeDoesNotEraseOtherPickersValue(t *testing.T) {
	s := NewStore()
	s.Register("tgt", NodeTypeScene, "target", nil)
	s.Register("srcA", NodeTypeCustom, "A", nil)
	s.Register("srcB", NodeTypeCustom, "B", nil)
	s.SetAutoMapping("srcA", map[string]string{"value": "v"})
	s.SetAutoMapping("srcB", map[string]string{"value": "v"})
	s.SetOutput("srcA", "value", 1.0)
	s.SetOutput("srcB", "value", 2.0)

	pa := NewPicker(s, "cableA", "A", PickerConfig{
		Source: "srcA", Target: "tgt", TargetItem: NoItem, Mode: PickerAuto,
	})
	NewPicker(s, "cableB", "B", PickerConfig{
		Source: "srcB", Target: "tgt", TargetItem: NoItem, Mode: PickerAuto,
	})

	// B wrote last; its value is current.
	if v, _ := override(t, s, "tgt", "v"); v != 2.0 {
		t.Fatalf("sanity: current = %v, want B's 2", v)
	}

	pa.Dispose()
	if v, ok := override(t, s, "tgt", "v"); !ok || v != 2.0 {
		t.Errorf("override = %v, %v; want B's 2 to survive A's disposal", v, ok)
	}
}

// Overlapping writers are legal; whichever wrote last wins. Documented
// behavior, not a bug.
func TestOverlappingPickersLastWriteWins(t *testing.T) {
	s := NewStore()
	s.Register("tgt", NodeTypeScene, "target", nil)
	s.Register("srcA", NodeTypeCustom, "A", nil)
	s.Register("srcB", NodeTypeCustom, "B", nil)
	s.SetAutoMapping("srcA", map[string]string{"value": "v"})
	s.SetAutoMapping("srcB", map[string]string{"value": "v"})
	s.SetOutput("srcA", "value", 1.0)
	s.SetOutput("srcB", "value", 2.0)

	NewPicker(s, "cableA", "A", PickerConfig{
		Source: "srcA", Target: "tgt", TargetItem: NoItem, Mode: PickerAuto,
	})
	NewPicker(s, "cableB", "B", PickerConfig{
		Source: "srcB", Target: "tgt", TargetItem: NoItem, Mode: PickerAuto,
	})

	s.SetOutput("srcA", "value", 10.0)
	if v, _ := override(t, s, "tgt", "v"); v != 10.0 {
		t.Errorf("override = %v, want A's latest 10", v)
	}

	s.SetOutput("srcB", "value", 20.0)
	if v, _ := override(t, s, "tgt", "v"); v != 20.0 {
		t.Errorf("override = %v, want B's latest 20", v)
	}
}

// --- Reconfiguration ---

func TestSetConfigCleansUpOldMappingFirst(t *testing.T) {
	s := NewStore()
	s.Register("tgt", NodeTypeScene, "target", nil)
	s.Register("src", NodeTypeCustom, "source", nil)
	s.SetAutoMapping("src", map[string]string{"value": "scale"})
	s.SetOutput("src", "value", 2.0)

	p := NewPicker(s, "cable", "cable", PickerConfig{
		Source: "src", Target: "tgt", TargetItem: NoItem, Mode: PickerAuto,
	})

	// Rewire the same picker to a custom mapping onto a different key.
	p.SetConfig(PickerConfig{
		Source: "src", Target: "tgt", TargetItem: NoItem, Mode: PickerCustom,
		SourceKeys: []string{"value"},
		TargetKeys: []string{"opacity"},
	})

	if _, ok := override(t, s, "tgt", "scale"); ok {
		t.Error("old mapping's override must be cleaned up on reconfigure")
	}
	if v, _ := override(t, s, "tgt", "opacity"); v != 2.0 {
		t.Errorf("new mapping = %v, want 2", v)
	}
}

// The cleanup must use the mapping captured at subscription time, not one
// recomputed at teardown time.
func TestTeardownUsesCapturedMapping(t *testing.T) {
	s := NewStore()
	s.Register("tgt", NodeTypeScene, "target", nil)
	s.Register("src", NodeTypeCustom, "source", nil)
	s.SetAutoMapping("src", map[string]string{"value": "scale"})
	s.SetOutput("src", "value", 2.0)

	p := NewPicker(s, "cable", "cable", PickerConfig{
		Source: "src", Target: "tgt", TargetItem: NoItem, Mode: PickerAuto,
	})

	// The source republishes a different preset; the connected picker's
	// mapping stays as captured.
	s.SetAutoMapping("src", map[string]string{"value": "rotation"})

	p.Dispose()
	if _, ok := override(t, s, "tgt", "scale"); ok {
		t.Error("teardown must delete the captured mapping's key")
	}
}

// --- Wiring metadata ---

func TestPickerRecordsConnectedInputs(t *testing.T) {
	s := NewStore()
	s.Register("tgt", NodeTypeScene, "target", nil)
	s.Register("src", NodeTypeCustom, "source", nil)
	s.SetAutoMapping("src", map[string]string{"value": "scale"})
	s.SetOutput("src", "value", 1.0)

	p := NewPicker(s, "cable", "cable", PickerConfig{
		Source: "src", Target: "tgt", TargetItem: NoItem, Mode: PickerAuto,
	})

	n, _ := s.Node("tgt")
	conn, ok := n.ConnectedInput("scale")
	if !ok || conn.SourceID != "src" || conn.OutputKey != "value" {
		t.Errorf("connected input = %+v, %v", conn, ok)
	}

	p.Dispose()
	if _, ok := n.ConnectedInput("scale"); ok {
		t.Error("wiring metadata should be cleared on disconnect")
	}
}

// --- Cycles ---

// Two cables forming a mutual override cycle through modifiers must
// quiesce: no arbitration, no infinite fan-out, last write stands.
func TestMutualOverrideCycleQuiesces(t *testing.T) {
	s := NewStore()

	NewModifier(s, "modA", "A", ModifierConfig{
		Operator: OpSet, UseOverride: true, Input: 1, SourceItem: NoItem,
	})
	NewModifier(s, "modB", "B", ModifierConfig{
		Operator: OpSet, UseOverride: true, Input: 2, SourceItem: NoItem,
	})

	// A's output drives B's input override and vice versa.
	NewPicker(s, "a2b", "a2b", PickerConfig{
		Source: "modA", Target: "modB", TargetItem: NoItem, Mode: PickerAuto,
	})
	NewPicker(s, "b2a", "b2a", PickerConfig{
		Source: "modB", Target: "modA", TargetItem: NoItem, Mode: PickerAuto,
	})

	// Both converge to the value injected last.
	s.SetOverride("modA", "value", 5.0)
	na, _ := s.Node("modA")
	nb, _ := s.Node("modB")
	va, _ := na.Output("value")
	vb, _ := nb.Output("value")
	if va != 5.0 || vb != 5.0 {
		t.Errorf("outputs = %v, %v; want both 5 after the cycle settles", va, vb)
	}
}
