package tendril

import "testing"

// --- Registration lifecycle ---

func TestRegisterCreatesEntry(t *testing.T) {
	s := NewStore()
	s.Register("a", NodeTypeOscillator, "osc a", Props{"frequency": 2.0})

	n, ok := s.Node("a")
	if !ok {
		t.Fatal("node should exist after Register")
	}
	if n.Type != NodeTypeOscillator {
		t.Errorf("Type = %d, want %d", n.Type, NodeTypeOscillator)
	}
	if n.Name != "osc a" {
		t.Errorf("Name = %q, want %q", n.Name, "osc a")
	}
	if v, _ := n.BaseProp(NoItem, "frequency"); v != 2.0 {
		t.Errorf("frequency = %v, want 2", v)
	}
}

func TestRegisterReplacesEntry(t *testing.T) {
	s := NewStore()
	s.Register("a", NodeTypeCustom, "first", Props{"x": 1.0})
	s.SetOverride("a", "x", 9.0)
	s.Register("a", NodeTypeCustom, "second", Props{"x": 2.0})

	n, _ := s.Node("a")
	if n.Name != "second" {
		t.Errorf("Name = %q, want %q", n.Name, "second")
	}
	// Re-registration resets the runtime layers.
	if _, ok := n.Override("x"); ok {
		t.Error("override should not survive re-registration")
	}
}

func TestUpdateBasePropsKeepsRuntimeLayers(t *testing.T) {
	s := NewStore()
	s.Register("a", NodeTypeCustom, "a", Props{"x": 1.0, "y": 2.0})
	s.SetOverride("a", "x", 10.0)
	s.SetOutput("a", "value", 3.0)

	s.UpdateBaseProps("a", Props{"x": 5.0})

	n, _ := s.Node("a")
	if v, _ := n.BaseProp(NoItem, "x"); v != 5.0 {
		t.Errorf("base x = %v, want 5", v)
	}
	if _, ok := n.BaseProp(NoItem, "y"); ok {
		t.Error("base y should be gone after a full rewrite")
	}
	if v, _ := n.Override("x"); v != 10.0 {
		t.Errorf("override x = %v, want 10 (must survive base rewrite)", v)
	}
	if v, _ := n.Output("value"); v != 3.0 {
		t.Errorf("output value = %v, want 3 (must survive base rewrite)", v)
	}
}

func TestUnregisterDeletesEntry(t *testing.T) {
	s := NewStore()
	s.Register("a", NodeTypeCustom, "a", Props{"x": 42.0})
	s.Unregister("a")

	if _, ok := s.Node("a"); ok {
		t.Error("node should be gone after Unregister")
	}
	if got := s.ResolveProperty("a", "x", 7.0); got != 7.0 {
		t.Errorf("ResolveProperty after unregister = %v, want caller default 7", got)
	}
}

func TestMissingIDNeverErrors(t *testing.T) {
	s := NewStore()
	// None of these may panic or create entries.
	s.UpdateBaseProps("ghost", Props{"x": 1.0})
	s.UpdateItemBase("ghost", map[int]Props{0: {"x": 1.0}})
	s.Unregister("ghost")
	s.SetOutput("ghost", "value", 1.0)
	s.SetOverride("ghost", "x", 1.0)
	s.DeleteOverride("ghost", "x")
	s.SetItemOverride("ghost", 0, "x", 1.0)
	s.DeleteItemOverride("ghost", 0, "x")
	if _, ok := s.Node("ghost"); ok {
		t.Error("writes to a missing id must not create an entry")
	}
}

// --- Synchronous notification ---

func TestWatchNotifiesSynchronously(t *testing.T) {
	s := NewStore()
	s.Register("a", NodeTypeCustom, "a", nil)

	observed := -1.0
	s.Watch("a", AspectOutputs, func() {
		n, _ := s.Node("a")
		v, _ := n.Output("value")
		observed, _ = Number(v)
	})

	s.SetOutput("a", "value", 5.0)
	// The watcher must have run before SetOutput returned.
	if observed != 5.0 {
		t.Errorf("observed = %v, want 5 (notification must be synchronous)", observed)
	}
}

func TestWatchSuppressesNoopWrites(t *testing.T) {
	s := NewStore()
	s.Register("a", NodeTypeCustom, "a", nil)

	calls := 0
	s.Watch("a", AspectOutputs, func() { calls++ })

	s.SetOutput("a", "value", 1.0)
	s.SetOutput("a", "value", 1.0)
	s.SetOutput("a", "value", 1.0)
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (unchanged values must not notify)", calls)
	}

	s.SetOutput("a", "value", 2.0)
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	s := NewStore()
	s.Register("a", NodeTypeCustom, "a", nil)

	calls := 0
	cancel := s.Watch("a", AspectOutputs, func() { calls++ })
	cancel()
	cancel()

	s.SetOutput("a", "value", 1.0)
	if calls != 0 {
		t.Errorf("calls = %d, want 0 after cancel", calls)
	}
}

func TestUnsubscribeDuringNotification(t *testing.T) {
	s := NewStore()
	s.Register("a", NodeTypeCustom, "a", nil)

	var cancelB func()
	aCalls, bCalls := 0, 0
	s.Watch("a", AspectOutputs, func() {
		aCalls++
		cancelB() // unsubscribe a sibling mid-pass
	})
	cancelB = s.Watch("a", AspectOutputs, func() { bCalls++ })

	s.SetOutput("a", "value", 1.0)
	s.SetOutput("a", "value", 2.0)
	if aCalls != 2 {
		t.Errorf("aCalls = %d, want 2", aCalls)
	}
	// B may or may not see the first pass (it was cancelled during it),
	// but must never see the second.
	if bCalls > 1 {
		t.Errorf("bCalls = %d, want <= 1", bCalls)
	}
}

// --- OnAppear ---

func TestOnAppearImmediateWhenPresent(t *testing.T) {
	s := NewStore()
	s.Register("a", NodeTypeCustom, "a", nil)

	calls := 0
	s.OnAppear("a", func() { calls++ })
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (node already present)", calls)
	}
}

func TestOnAppearFiresOnLateRegistration(t *testing.T) {
	s := NewStore()

	calls := 0
	s.OnAppear("late", func() { calls++ })
	if calls != 0 {
		t.Fatal("must not fire before the node exists")
	}

	s.Register("late", NodeTypeCustom, "late", nil)
	if calls != 1 {
		t.Errorf("calls = %d, want 1 after registration", calls)
	}

	// Unregistering is an existence change but not an appearance.
	s.Unregister("late")
	if calls != 1 {
		t.Errorf("calls = %d, want 1 after unregister", calls)
	}
}

// --- Item overrides ---

func TestItemOverrideLifecycle(t *testing.T) {
	s := NewStore()
	s.Register("a", NodeTypeScene, "a", nil)

	s.SetItemOverride("a", 3, "scale", 2.0)
	n, _ := s.Node("a")
	if v, _ := n.ItemOverride(3, "scale"); v != 2.0 {
		t.Errorf("item override = %v, want 2", v)
	}

	s.DeleteItemOverride("a", 3, "scale")
	if _, ok := n.ItemOverride(3, "scale"); ok {
		t.Error("item override should be deleted")
	}
	if len(n.ItemOverrides()) != 0 {
		t.Error("empty item entries should be pruned")
	}
}

// --- Event sink ---

type recordingSink struct {
	events []GraphEvent
}

func (r *recordingSink) EmitEvent(e GraphEvent) {
	r.events = append(r.events, e)
}

func TestEventSinkReceivesLifecycle(t *testing.T) {
	s := NewStore()
	sink := &recordingSink{}
	s.SetEventSink(sink)

	s.Register("a", NodeTypeCustom, "a", nil)
	s.SetOutput("a", "value", 1.0)
	s.Unregister("a")

	kinds := []EventKind{EventNodeRegistered, EventOutputChanged, EventNodeUnregistered}
	if len(sink.events) != len(kinds) {
		t.Fatalf("got %d events, want %d", len(sink.events), len(kinds))
	}
	for i, want := range kinds {
		if sink.events[i].Kind != want {
			t.Errorf("event %d kind = %d, want %d", i, sink.events[i].Kind, want)
		}
	}
	if sink.events[1].Key != "value" || sink.events[1].Value != 1.0 {
		t.Errorf("output event = %+v", sink.events[1])
	}
}
