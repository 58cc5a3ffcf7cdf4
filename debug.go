package tendril

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// globalDebug gates diagnostic logging across the package.
var globalDebug bool

// SetDebugMode enables or disables debug diagnostics (stderr logging from
// discovery and cleanup paths, inspector overlays).
func SetDebugMode(enabled bool) {
	globalDebug = enabled
}

// InspectNode formats a node's outputs and overrides for display — the
// read-only surface a properties inspector or debug overlay consumes.
// Returns "<id>: not mounted" for an absent node.
func InspectNode(store *Store, id string) string {
	n, ok := store.Node(id)
	if !ok {
		return fmt.Sprintf("%s: not mounted", id)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", id, n.Name)
	writeProps(&b, "  out ", n.Outputs())
	writeProps(&b, "  ovr ", n.Overrides())
	items := make([]int, 0, len(n.ItemOverrides()))
	for item := range n.ItemOverrides() {
		items = append(items, item)
	}
	sort.Ints(items)
	for _, item := range items {
		writeProps(&b, fmt.Sprintf("  ovr[%d] ", item), n.ItemOverrides()[item])
	}
	return b.String()
}

// writeProps appends one sorted "key=value" line per property.
func writeProps(b *strings.Builder, prefix string, props Props) {
	if len(props) == 0 {
		return
	}
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	b.WriteString(prefix)
	for i, k := range keys {
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(b, "%s=%v", k, props[k])
	}
	b.WriteString("\n")
}

// InspectorOverlay draws live node state onto the screen each frame.
// Purely a consumer of the outputs/overrides read surface.
type InspectorOverlay struct {
	store *Store
	ids   []string
	img   *ebiten.Image
}

// NewInspectorOverlay creates an overlay showing the given nodes.
func NewInspectorOverlay(store *Store, ids ...string) *InspectorOverlay {
	return &InspectorOverlay{store: store, ids: ids}
}

// Draw renders the overlay in the top-left corner of the screen.
func (o *InspectorOverlay) Draw(screen *ebiten.Image) {
	var b strings.Builder
	for _, id := range o.ids {
		b.WriteString(InspectNode(o.store, id))
	}
	text := b.String()
	lines := strings.Count(text, "\n") + 1
	w, h := 360, 4+lines*16
	if o.img == nil || o.img.Bounds().Dy() < h {
		o.img = ebiten.NewImage(w, h)
	}
	o.img.Clear()
	// Semi-transparent background for readability.
	o.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(o.img, text)
	screen.DrawImage(o.img, nil)
}
