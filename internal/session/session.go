// Package session owns the state of one editing session: the definition
// under edit, the loaded sprite sheet, the display configuration, and
// the hitbox region store and drag controller. It replaces what would
// otherwise be module-level globals with an explicit object owned by the
// caller, and notifies the UI through a small typed event system.
package session

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/sirupsen/logrus"

	"hitbox-editor/internal/asset"
	"hitbox-editor/internal/client"
	"hitbox-editor/internal/definition"
	"hitbox-editor/internal/region"
	"hitbox-editor/pkg/geometry"
)

// EventType identifies session events the UI can subscribe to.
type EventType int

const (
	EventDefinitionLoaded EventType = iota
	EventImageLoaded
	EventImageLoadFailed
	EventRegionChanged
	EventSubmitted
	EventStatus
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// Session is the per-entity editing session.
type Session struct {
	mu sync.RWMutex

	key string
	def *definition.Definition

	img     image.Image
	display region.DisplayConfig

	// Replacement sprite selected by the user, kept as PNG bytes until
	// a successful submission.
	pendingSprite []byte

	store      *region.Store
	controller *region.Controller

	cli *client.Client
	log *logrus.Entry

	listeners map[EventType][]EventListener
}

// New creates a session for the given entity-type key.
func New(cli *client.Client, key string) *Session {
	s := &Session{
		key:       key,
		cli:       cli,
		log:       logrus.WithField("component", "session"),
		listeners: make(map[EventType][]EventListener),
	}
	s.store = region.NewStore(geometry.RectInt{})
	s.controller = region.NewController(s.store, func() {
		s.Emit(EventRegionChanged, s.controller.Rect())
	})
	return s
}

// On registers an event listener for the specified event type.
func (s *Session) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *Session) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Key returns the entity-type key this session edits.
func (s *Session) Key() string {
	return s.key
}

// Definition returns the definition under edit, or nil before Start.
func (s *Session) Definition() *definition.Definition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.def
}

// Image returns the currently displayed sprite sheet, or nil.
func (s *Session) Image() image.Image {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.img
}

// Display returns the active display configuration.
func (s *Session) Display() region.DisplayConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.display
}

// Controller returns the drag controller for the hitbox region.
func (s *Session) Controller() *region.Controller {
	return s.controller
}

// Hitbox returns the committed hitbox rectangle.
func (s *Session) Hitbox() geometry.RectInt {
	return s.store.Committed()
}

// Start fetches the definition for the session key, seeds the region
// store from its hitbox, and kicks off the sprite load in the
// background. A missing key is the one fatal condition of a session.
func (s *Session) Start(ctx context.Context) error {
	def, err := s.cli.Definition(ctx, s.key)
	if err != nil {
		return fmt.Errorf("cannot edit %s: %w", s.key, err)
	}

	s.mu.Lock()
	s.def = def
	s.display = region.NewDisplayConfig(def.FrameWidth, def.FrameHeight)
	s.mu.Unlock()

	s.store.Seed(def.Hitbox)
	s.Emit(EventDefinitionLoaded, def)
	s.Emit(EventRegionChanged, def.Hitbox)

	s.loadSprite(ctx, def.SpritePath)
	return nil
}

// loadSprite fetches and decodes the sprite sheet asynchronously. A
// failed load is reported but leaves the session editable: the editor
// simply has no background image.
func (s *Session) loadSprite(ctx context.Context, spritePath string) {
	go func() {
		data, err := s.cli.Sprite(ctx, spritePath)
		if err == nil {
			var img image.Image
			if img, err = asset.Decode(data); err == nil {
				s.setImage(img)
				return
			}
		}
		s.log.WithError(err).WithField("sprite", spritePath).Warn("sprite load failed")
		s.Emit(EventImageLoadFailed, err)
	}()
}

// setImage installs a newly loaded sheet and recomputes the display
// scale for the current frame size.
func (s *Session) setImage(img image.Image) {
	s.mu.Lock()
	s.img = img
	if s.def != nil {
		s.display = region.NewDisplayConfig(s.def.FrameWidth, s.def.FrameHeight)
	}
	s.mu.Unlock()
	s.Emit(EventImageLoaded, img)
}

// ReplaceImage decodes a user-supplied image file and swaps it in as the
// displayed sheet. The committed hitbox is not touched. The PNG-encoded
// payload rides along with the next submission.
func (s *Session) ReplaceImage(data []byte) error {
	img, err := asset.Decode(data)
	if err != nil {
		return err
	}

	payload, err := asset.EncodePNG(img)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.pendingSprite = payload
	s.mu.Unlock()

	s.setImage(img)
	return nil
}

// RefreshDisplay recomputes the display scale after the frame size
// fields change.
func (s *Session) RefreshDisplay() {
	s.mu.Lock()
	if s.def != nil {
		s.display = region.NewDisplayConfig(s.def.FrameWidth, s.def.FrameHeight)
	}
	s.mu.Unlock()
	s.Emit(EventImageLoaded, s.Image())
}

// Submit posts the edited definition, the committed hitbox, and any
// pending replacement sprite to the service. On failure all state is
// kept so the user can correct and retry.
func (s *Session) Submit(ctx context.Context) (*client.Receipt, error) {
	s.mu.RLock()
	def := s.def
	sprite := s.pendingSprite
	s.mu.RUnlock()

	if def == nil {
		return nil, fmt.Errorf("no definition loaded")
	}

	sub := &definition.Submission{
		OriginalKey: s.key,
		Definition:  *def,
		SpritePNG:   sprite,
	}
	sub.Definition.Hitbox = s.store.Committed()

	receipt, err := s.cli.Submit(ctx, sub)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.def.Hitbox = sub.Definition.Hitbox
	s.pendingSprite = nil
	s.mu.Unlock()

	s.Emit(EventSubmitted, receipt)
	return receipt, nil
}
