package tendril

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// LoopMode controls what a playback does when it reaches its last keyframe.
type LoopMode uint8

const (
	LoopNone     LoopMode = iota // stop on the last keyframe
	LoopRepeat                   // jump back to the first keyframe and replay
	LoopPingPong                 // play the keyframes backwards, then forwards again
)

// PathKeyframe is one pose on an item's motion path. Duration and Ease
// describe the segment leading into this keyframe from the previous one;
// both are ignored on the first keyframe.
type PathKeyframe struct {
	X, Y     float64
	Duration float64        // seconds from the previous keyframe; values <= 0 snap
	Ease     ease.TweenFunc // nil means ease.Linear
}

// PlaybackConfig configures keyframe playback for one scene item.
type PlaybackConfig struct {
	// Target is the scene node whose item is animated.
	Target string
	// Item is the item id on the target.
	Item int
	// Keyframes is the motion path; at least two are needed to move.
	Keyframes []PathKeyframe
	// Mode selects the end-of-path behavior.
	Mode LoopMode
	// Autoplay starts the playback immediately.
	Autoplay bool
}

// Playback animates one scene item along a keyframe path, writing
// item-scoped overrides on the owning scene node every frame it moves.
// The host loop drives it with Update(dt); there is no global animation
// manager. Stopping or disposing removes exactly the overrides it wrote.
type Playback struct {
	store *Store
	cfg   PlaybackConfig

	// One tween pair (x, y) per path segment, prebuilt in both directions
	// so ping-pong needs no rebuilding at the bounce.
	fwdX, fwdY []*gween.Tween
	revX, revY []*gween.Tween

	seg      int  // current segment index
	reverse  bool // ping-pong return leg
	playing  bool
	done     bool
	disposed bool
}

// NewPlayback builds the segment tweens and, with Autoplay, snaps the item
// to the first keyframe.
func NewPlayback(store *Store, cfg PlaybackConfig) *Playback {
	p := &Playback{store: store, cfg: cfg}
	kf := cfg.Keyframes
	for i := 1; i < len(kf); i++ {
		fn := kf[i].Ease
		if fn == nil {
			fn = ease.Linear
		}
		d := float32(kf[i].Duration)
		if d < 0 {
			d = 0
		}
		p.fwdX = append(p.fwdX, gween.New(float32(kf[i-1].X), float32(kf[i].X), d, fn))
		p.fwdY = append(p.fwdY, gween.New(float32(kf[i-1].Y), float32(kf[i].Y), d, fn))
		p.revX = append(p.revX, gween.New(float32(kf[i].X), float32(kf[i-1].X), d, fn))
		p.revY = append(p.revY, gween.New(float32(kf[i].Y), float32(kf[i-1].Y), d, fn))
	}
	if cfg.Autoplay {
		p.Play()
	}
	return p
}

// Playing reports whether the playback is advancing.
func (p *Playback) Playing() bool {
	return p.playing
}

// Done reports whether a LoopNone playback has reached its last keyframe.
func (p *Playback) Done() bool {
	return p.done
}

// Play starts (or restarts) the playback from the first keyframe.
func (p *Playback) Play() {
	if p.disposed || len(p.cfg.Keyframes) == 0 {
		return
	}
	p.rewind()
	p.playing = true
	p.done = false
	first := p.cfg.Keyframes[0]
	p.write(first.X, first.Y)
}

// Pause halts the playback in place. The item keeps its current overridden
// pose; Resume continues from it.
func (p *Playback) Pause() {
	p.playing = false
}

// Resume continues a paused playback.
func (p *Playback) Resume() {
	if p.disposed || p.done {
		return
	}
	p.playing = true
}

// Stop halts the playback and removes the overrides it wrote, so the item
// falls back to its base pose.
func (p *Playback) Stop() {
	p.playing = false
	p.clear()
	p.rewind()
}

// Dispose stops the playback and removes its overrides. The scene node
// itself is untouched; playbacks never own node entries.
func (p *Playback) Dispose() {
	if p.disposed {
		return
	}
	p.disposed = true
	p.playing = false
	p.clear()
}

// Update advances the playback by dt seconds, chaining segment overflow so
// a large dt crosses keyframes without stalling on them.
func (p *Playback) Update(dt float64) {
	if !p.playing || p.disposed || len(p.fwdX) == 0 {
		return
	}
	rem := float32(dt)
	// A zero-duration looping path would otherwise chain forever on a
	// single Update call; one full lap per direction is plenty.
	for hops := 0; hops <= 2*len(p.fwdX); hops++ {
		tx, ty := p.current()
		x, finishedX := tx.Update(rem)
		y, _ := ty.Update(rem)
		p.write(float64(x), float64(y))
		if !finishedX {
			return
		}
		rem = tx.Overflow
		if !p.advance() {
			return
		}
		if rem <= 0 {
			return
		}
	}
}

// current returns the active segment's tween pair for the current
// direction. Reverse plays the prebuilt reversed tweens in reverse segment
// order.
func (p *Playback) current() (*gween.Tween, *gween.Tween) {
	if p.reverse {
		i := len(p.revX) - 1 - p.seg
		return p.revX[i], p.revY[i]
	}
	return p.fwdX[p.seg], p.fwdY[p.seg]
}

// advance moves to the next segment, applying the loop mode at the path's
// end. Returns false when the playback stopped.
func (p *Playback) advance() bool {
	p.seg++
	if p.seg < len(p.fwdX) {
		p.resetCurrent()
		return true
	}
	switch p.cfg.Mode {
	case LoopRepeat:
		p.seg = 0
		p.resetCurrent()
		return true
	case LoopPingPong:
		p.seg = 0
		p.reverse = !p.reverse
		p.resetCurrent()
		return true
	default:
		p.playing = false
		p.done = true
		return false
	}
}

func (p *Playback) resetCurrent() {
	tx, ty := p.current()
	tx.Reset()
	ty.Reset()
}

// rewind resets every tween and the segment cursor.
func (p *Playback) rewind() {
	p.seg = 0
	p.reverse = false
	for i := range p.fwdX {
		p.fwdX[i].Reset()
		p.fwdY[i].Reset()
		p.revX[i].Reset()
		p.revY[i].Reset()
	}
}

func (p *Playback) write(x, y float64) {
	p.store.SetItemOverride(p.cfg.Target, p.cfg.Item, "x", x)
	p.store.SetItemOverride(p.cfg.Target, p.cfg.Item, "y", y)
}

func (p *Playback) clear() {
	p.store.DeleteItemOverride(p.cfg.Target, p.cfg.Item, "x")
	p.store.DeleteItemOverride(p.cfg.Target, p.cfg.Item, "y")
}
