package tendril

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/tanema/gween/ease"
)

// projectAsset is the serialized form of one image asset.
type projectAsset struct {
	ID        int          `json:"id"`
	Name      string       `json:"name"`
	File      string       `json:"file"`
	X         float64      `json:"x"`
	Y         float64      `json:"y"`
	Width     float64      `json:"width"`
	Height    float64      `json:"height"`
	Opacity   float64      `json:"opacity"`
	BlendMode string       `json:"blendMode"`
	ZIndex    int          `json:"zIndex"`
	Path      *projectPath `json:"path,omitempty"`
}

// projectPath is the serialized per-item keyframe configuration.
type projectPath struct {
	Mode      string            `json:"mode"` // "none", "repeat", "pingpong"
	Keyframes []projectKeyframe `json:"keyframes"`
}

type projectKeyframe struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Duration float64 `json:"duration"`
	Ease     string  `json:"ease"`
}

// projectFile is the top-level JSON structure.
type projectFile struct {
	Name   string         `json:"name"`
	Assets []projectAsset `json:"assets"`
}

// Project is a parsed project: a scene's item configuration plus the
// keyframe paths attached to items. The core runtime never reads or writes
// this format itself; this loader is boundary convenience for hosts and
// exporters.
type Project struct {
	Name  string
	Items []SceneItem
	paths map[int]*projectPath // item id → path config
}

// LoadProject parses project JSON. Malformed path data on an individual
// asset is logged and the path skipped; the asset itself survives — a bad
// element never aborts the rest of the graph.
func LoadProject(jsonData []byte) (*Project, error) {
	var file projectFile
	if err := json.Unmarshal(jsonData, &file); err != nil {
		return nil, fmt.Errorf("parse project: %w", err)
	}
	p := &Project{Name: file.Name, paths: make(map[int]*projectPath)}
	for i, asset := range file.Assets {
		p.Items = append(p.Items, SceneItem{
			Name:      asset.Name,
			File:      asset.File,
			X:         asset.X,
			Y:         asset.Y,
			Width:     asset.Width,
			Height:    asset.Height,
			Opacity:   asset.Opacity,
			BlendMode: ParseBlendMode(asset.BlendMode),
			ZIndex:    asset.ZIndex,
		})
		if asset.Path == nil {
			continue
		}
		if len(asset.Path.Keyframes) < 2 {
			log.Printf("tendril: asset %q has a path with %d keyframes (need 2+), skipping",
				asset.Name, len(asset.Path.Keyframes))
			continue
		}
		p.paths[i] = asset.Path
	}
	return p, nil
}

// Mount registers the project as a scene node and builds one playback per
// configured path. Playbacks are returned stopped; pass them to a Graph or
// drive them yourself.
func (p *Project) Mount(store *Store, id string) (*SceneNode, []*Playback) {
	scene := NewSceneNode(store, id, p.Name, p.Items)
	var playbacks []*Playback
	for item, path := range p.paths {
		frames := make([]PathKeyframe, len(path.Keyframes))
		for i, kf := range path.Keyframes {
			frames[i] = PathKeyframe{
				X:        kf.X,
				Y:        kf.Y,
				Duration: kf.Duration,
				Ease:     easeByName(kf.Ease),
			}
		}
		playbacks = append(playbacks, NewPlayback(store, PlaybackConfig{
			Target:    id,
			Item:      item,
			Keyframes: frames,
			Mode:      loopModeByName(path.Mode),
		}))
	}
	return scene, playbacks
}

// loopModeByName maps a project-file loop mode name to a LoopMode.
func loopModeByName(name string) LoopMode {
	switch name {
	case "repeat", "loop":
		return LoopRepeat
	case "pingpong":
		return LoopPingPong
	default:
		return LoopNone
	}
}

// easeByName maps a project-file easing name to its gween ease function.
// Unknown names fall back to linear.
func easeByName(name string) ease.TweenFunc {
	switch name {
	case "", "linear":
		return ease.Linear
	case "inQuad":
		return ease.InQuad
	case "outQuad":
		return ease.OutQuad
	case "inOutQuad":
		return ease.InOutQuad
	case "inCubic":
		return ease.InCubic
	case "outCubic":
		return ease.OutCubic
	case "inOutCubic":
		return ease.InOutCubic
	case "inSine":
		return ease.InSine
	case "outSine":
		return ease.OutSine
	case "inOutSine":
		return ease.InOutSine
	case "inExpo":
		return ease.InExpo
	case "outExpo":
		return ease.OutExpo
	case "inOutExpo":
		return ease.InOutExpo
	case "inBack":
		return ease.InBack
	case "outBack":
		return ease.OutBack
	case "inOutBack":
		return ease.InOutBack
	case "inElastic":
		return ease.InElastic
	case "outElastic":
		return ease.OutElastic
	case "inOutElastic":
		return ease.InOutElastic
	case "inBounce":
		return ease.InBounce
	case "outBounce":
		return ease.OutBounce
	case "inOutBounce":
		return ease.InOutBounce
	default:
		return ease.Linear
	}
}
