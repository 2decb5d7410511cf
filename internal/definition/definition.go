// Package definition holds the entity definition record exchanged with
// the definition service, and the validation rules applied before a
// submission leaves the editor.
package definition

import (
	"hitbox-editor/pkg/geometry"
)

// Definition is an entity-type record as served by the definition
// service. Attributes carries the remaining numeric tuning values
// (speed, health, damage, ...) that the editor exposes but does not
// interpret.
type Definition struct {
	Type        string             `json:"type"`
	Label       string             `json:"label"`
	FrameWidth  int                `json:"frame_width"`
	FrameHeight int                `json:"frame_height"`
	SpritePath  string             `json:"sprite_path"`
	Hitbox      geometry.RectInt   `json:"hitbox"`
	Attributes  map[string]float64 `json:"attributes,omitempty"`
}

// Submission is the record posted back to the persistence endpoint.
// OriginalKey identifies the definition being replaced; SpritePNG, when
// non-nil, is a replacement sprite sheet as encoded PNG bytes.
type Submission struct {
	OriginalKey string     `json:"original_key"`
	Definition  Definition `json:"definition"`
	SpritePNG   []byte     `json:"sprite_png,omitempty"`
}
