package definition

import (
	"fmt"
	"regexp"

	"hitbox-editor/pkg/geometry"
)

var keyPattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// ValidateKey checks that an entity-type key is lowercase alphanumeric
// with underscores.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("entity key is empty")
	}
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("entity key %q must match [a-z0-9_]+", key)
	}
	return nil
}

// ValidateHitbox checks that a hitbox rectangle encloses at least one
// pixel. Zero-area rectangles are never submitted.
func ValidateHitbox(r geometry.RectInt) error {
	if r.Width < 1 || r.Height < 1 {
		return fmt.Errorf("hitbox %dx%d is empty; drag a region on the sprite first", r.Width, r.Height)
	}
	return nil
}

// Validate runs all local checks a submission must pass before any
// network call is made.
func (s *Submission) Validate() error {
	if err := ValidateKey(s.OriginalKey); err != nil {
		return err
	}
	if err := ValidateKey(s.Definition.Type); err != nil {
		return err
	}
	return ValidateHitbox(s.Definition.Hitbox)
}
