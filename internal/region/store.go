package region

import (
	"hitbox-editor/pkg/geometry"
)

// Store holds the committed hitbox rectangle: the last validated value,
// the only one ever handed out for submission. It is seeded from the
// loaded definition and afterwards mutated solely by the drag controller.
type Store struct {
	committed geometry.RectInt
}

// NewStore creates a store seeded with the given rectangle.
func NewStore(seed geometry.RectInt) *Store {
	return &Store{committed: seed}
}

// Committed returns the last committed rectangle.
func (s *Store) Committed() geometry.RectInt {
	return s.committed
}

// Seed replaces the committed rectangle from an externally loaded
// definition, before any interaction.
func (s *Store) Seed(r geometry.RectInt) {
	s.committed = r
}

// set is the commit path used by the drag controller.
func (s *Store) set(r geometry.RectInt) {
	s.committed = r
}
