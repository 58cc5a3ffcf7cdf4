package tendril

import "github.com/hajimehoshi/ebiten/v2"

// Props is a bag of named property values. Values are scalars in practice
// (float64, int, string, bool); the store never interprets them beyond
// equality and numeric coercion.
type Props map[string]any

// NoItem is passed where an item id is expected to mean "node-global".
const NoItem = -1

// NodeType distinguishes which behavior owns a node entry in the store.
type NodeType uint8

const (
	NodeTypeScene      NodeType = iota // container with per-item image configuration
	NodeTypeOscillator                 // continuously-varying signal generator
	NodeTypePicker                     // mirrors a source's outputs into a target's overrides
	NodeTypeModifier                   // combines a base value with an input and republishes
	NodeTypeCustom                     // caller-defined behavior
)

// Waveform selects an oscillator's periodic function.
type Waveform uint8

const (
	WaveSine     Waveform = iota // 0.5 + 0.5*sin(2πt); peaks at a quarter cycle
	WaveTriangle                 // linear rise then fall, peak at the half cycle
	WaveSquare                   // 1 for the first half cycle, 0 for the second
	WaveSawtooth                 // linear rise over the full cycle, then snap to 0
	WaveNoise                    // seeded per-cycle samples, smoothstep interpolated
)

// Operator selects how a modifier combines its base and input values.
type Operator uint8

const (
	OpMultiply Operator = iota // base * input
	OpAdd                      // base + input
	OpSubtract                 // base - input
	OpSet                      // input only; base is ignored
)

// PickerMode selects how a picker obtains its output→property mapping.
type PickerMode uint8

const (
	// PickerAuto waits for the source node to publish an auto-mapping
	// preset and wires itself from that.
	PickerAuto PickerMode = iota
	// PickerCustom uses the explicit SourceKeys/TargetKeys lists.
	PickerCustom
)

// BlendMode selects a compositing operation for scene items.
// Each maps to a specific ebiten.Blend value at render time.
type BlendMode uint8

const (
	BlendNormal   BlendMode = iota // source-over (standard alpha blending)
	BlendAdd                       // additive / lighter
	BlendMultiply                  // multiply (source * destination; only darkens)
	BlendScreen                    // screen (1 - (1-src)*(1-dst); only brightens)
)

// EbitenBlend returns the ebiten.Blend value corresponding to this BlendMode.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	switch b {
	case BlendNormal:
		return ebiten.BlendSourceOver
	case BlendAdd:
		return ebiten.BlendLighter
	case BlendMultiply:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorDestinationColor,
			BlendFactorSourceAlpha:      ebiten.BlendFactorDestinationAlpha,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceAlpha,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case BlendScreen:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorOne,
			BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceColor,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	default:
		return ebiten.BlendSourceOver
	}
}

// ParseBlendMode maps a project-file blend mode name to a BlendMode.
// Unknown names fall back to BlendNormal.
func ParseBlendMode(name string) BlendMode {
	switch name {
	case "add", "lighter":
		return BlendAdd
	case "multiply":
		return BlendMultiply
	case "screen":
		return BlendScreen
	default:
		return BlendNormal
	}
}

// Number coerces a property value to float64. Returns false for values with
// no numeric interpretation.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// NumberOr coerces v to float64, returning def when v has no numeric
// interpretation.
func NumberOr(v any, def float64) float64 {
	if n, ok := Number(v); ok {
		return n
	}
	return def
}

// equalValues reports whether two property values are the same scalar.
// Non-scalar values (maps, slices) always compare unequal; the store only
// carries scalars in practice.
func equalValues(a, b any) bool {
	switch av := a.(type) {
	case float64, float32, int, int64, uint64, string, bool:
		return av == b
	}
	return false
}
