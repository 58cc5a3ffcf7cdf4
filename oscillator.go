package tendril

import "math"

// outputEpsilon is the minimum change an oscillator output must make before
// it is republished. Noise ignores it: jitter is the point.
const outputEpsilon = 0.0005

// OscillatorConfig configures a signal generator.
type OscillatorConfig struct {
	// Waveform selects the periodic function.
	Waveform Waveform
	// Frequency is the number of cycles per second. Values <= 0 are
	// treated as 1.
	Frequency float64
	// Min and Max bound the output. When disabled the output is pinned
	// to Min.
	Min, Max float64
	// Phase offsets the cycle position in turns (fractions of one cycle).
	Phase float64
	// Seed drives the noise waveform. Ignored by the periodic waveforms.
	Seed uint64
	// TargetProp is the property name this oscillator suggests for
	// automatic cable wiring. Defaults to "value".
	TargetProp string
	// Enabled starts the oscillator running immediately on mount.
	Enabled bool
}

// Oscillator is the sole producer-side primitive: a node that manufactures
// continuously time-varying values. The host loop drives it by calling
// Update(dt) every frame; nothing runs between frames.
//
// Frequency, min, max, and phase are re-resolved through the store on every
// frame, so pickers and modifiers can modulate a running oscillator by
// writing into its overrides.
type Oscillator struct {
	store *Store
	id    string
	cfg   OscillatorConfig

	running  bool
	elapsed  float64 // seconds since the generator entered Running
	last     float64 // last published value
	hasLast  bool
	disposed bool
}

// NewOscillator registers an oscillator node and returns its behavior.
// The node's configuration is written through to its base layer; the
// auto-mapping preset is published immediately so pickers can discover it.
func NewOscillator(store *Store, id, name string, cfg OscillatorConfig) *Oscillator {
	if cfg.Frequency <= 0 {
		cfg.Frequency = 1
	}
	if cfg.TargetProp == "" {
		cfg.TargetProp = "value"
	}
	o := &Oscillator{store: store, id: id, cfg: cfg}
	store.Register(id, NodeTypeOscillator, name, o.baseProps())
	store.SetAutoMapping(id, map[string]string{"value": cfg.TargetProp})
	if cfg.Enabled {
		o.running = true
	}
	o.pinOrEmit(0)
	return o
}

// ID returns the oscillator's node id.
func (o *Oscillator) ID() string {
	return o.id
}

// Running reports whether the generator is producing varying values.
func (o *Oscillator) Running() bool {
	return o.running
}

// SetConfig replaces the oscillator's configuration. The base layer is
// rewritten (overrides and outputs are untouched) and the auto-mapping
// preset is republished. A running generator keeps its time reference.
func (o *Oscillator) SetConfig(cfg OscillatorConfig) {
	if o.disposed {
		return
	}
	if cfg.Frequency <= 0 {
		cfg.Frequency = 1
	}
	if cfg.TargetProp == "" {
		cfg.TargetProp = "value"
	}
	o.cfg = cfg
	o.store.UpdateBaseProps(o.id, o.baseProps())
	o.store.SetAutoMapping(o.id, map[string]string{"value": cfg.TargetProp})
	o.SetEnabled(cfg.Enabled)
}

// SetEnabled switches between Disabled (output pinned to Min) and Running.
// Entering Running resets the generator's time reference.
func (o *Oscillator) SetEnabled(enabled bool) {
	if o.disposed || enabled == o.running {
		return
	}
	o.running = enabled
	if enabled {
		o.elapsed = 0
		o.emit()
		return
	}
	o.pin()
}

// Update advances the generator by dt seconds and republishes its outputs
// when the value moved beyond the epsilon. No-op while disabled.
func (o *Oscillator) Update(dt float64) {
	if o.disposed || !o.running {
		return
	}
	o.elapsed += dt
	o.emit()
}

// Dispose stops the generator, resets its output to Min, and removes its
// node entry. Safe to call more than once.
func (o *Oscillator) Dispose() {
	if o.disposed {
		return
	}
	o.disposed = true
	o.running = false
	o.pin()
	o.store.Unregister(o.id)
}

// baseProps mirrors the configuration into the node's base layer so
// inspectors can read it and overrides can modulate it.
func (o *Oscillator) baseProps() Props {
	return Props{
		"waveform":  float64(o.cfg.Waveform),
		"frequency": o.cfg.Frequency,
		"min":       o.cfg.Min,
		"max":       o.cfg.Max,
		"phase":     o.cfg.Phase,
		"enabled":   o.cfg.Enabled,
	}
}

// emit computes the current value and publishes it, suppressing writes that
// stay within the epsilon of the last published value. Noise always writes.
func (o *Oscillator) emit() {
	freq := o.store.ResolveNumber(o.id, "frequency", o.cfg.Frequency)
	if freq <= 0 {
		freq = o.cfg.Frequency
	}
	min := o.store.ResolveNumber(o.id, "min", o.cfg.Min)
	max := o.store.ResolveNumber(o.id, "max", o.cfg.Max)
	phase := o.store.ResolveNumber(o.id, "phase", o.cfg.Phase)

	unit := waveValue(o.cfg.Waveform, o.elapsed*freq+phase, o.cfg.Seed)
	value := roundOutput(min + unit*(max-min))

	if o.cfg.Waveform != WaveNoise && o.hasLast && math.Abs(value-o.last) < outputEpsilon {
		return
	}
	o.last = value
	o.hasLast = true
	o.store.SetOutputs(o.id, Props{
		"value":      value,
		"normalized": roundOutput(unit),
	})
}

// pin forces the output to Min, the Disabled-state contract.
func (o *Oscillator) pin() {
	min := o.store.ResolveNumber(o.id, "min", o.cfg.Min)
	o.last = roundOutput(min)
	o.hasLast = true
	o.store.SetOutputs(o.id, Props{
		"value":      o.last,
		"normalized": 0.0,
	})
}

// pinOrEmit publishes the mount-time output: the live value when running,
// Min when disabled.
func (o *Oscillator) pinOrEmit(dt float64) {
	if o.running {
		o.elapsed += dt
		o.emit()
		return
	}
	o.pin()
}
