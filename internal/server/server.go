// Package server implements the definition service the editor talks to:
// a chi router over a bbolt store, serving entity definitions and sprite
// sheets and accepting edited definitions back.
package server

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"net/http"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"hitbox-editor/internal/definition"
)

// Server handles the definition service HTTP API.
type Server struct {
	store *Store
	log   *logrus.Entry
}

// New creates a server over the given store.
func New(store *Store) *Server {
	return &Server{
		store: store,
		log:   logrus.WithField("component", "server"),
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Timeout(time.Second * 30))
	r.Route("/api", func(r chi.Router) {
		r.Get("/definitions/{key}", s.getDefinition)
		r.Post("/definitions/{key}", s.postDefinition)
	})
	r.Get("/sprites/*", s.getSprite)
	r.ServeHTTP(w, req)
}

func (s *Server) getDefinition(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	def, err := s.store.Definition(key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeJSON(w, http.StatusNotFound, err)
			return
		}
		writeJSON(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, def)
}

func (s *Server) postDefinition(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var sub definition.Submission
	if err := readJSON(r, &sub); err != nil {
		writeJSON(w, http.StatusBadRequest, fmt.Errorf("malformed submission: %w", err))
		return
	}
	if sub.OriginalKey != key {
		writeJSON(w, http.StatusBadRequest,
			fmt.Errorf("submission key %q does not match URL key %q", sub.OriginalKey, key))
		return
	}
	if err := sub.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, err)
		return
	}

	// The original record must exist; this endpoint edits, it does not
	// create.
	if _, err := s.store.Definition(key); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeJSON(w, http.StatusNotFound, err)
			return
		}
		writeJSON(w, http.StatusInternalServerError, err)
		return
	}

	if len(sub.SpritePNG) > 0 {
		if err := s.storeSprite(sub.Definition.SpritePath, sub.SpritePNG); err != nil {
			writeJSON(w, http.StatusBadRequest, fmt.Errorf("replacement sprite rejected: %w", err))
			return
		}
	}

	if err := s.store.PutDefinition(key, &sub.Definition); err != nil {
		writeJSON(w, http.StatusInternalServerError, err)
		return
	}

	receipt := uuid.New().String()
	s.log.WithFields(logrus.Fields{"key": key, "receipt": receipt}).Info("definition updated")
	writeJSON(w, http.StatusOK, map[string]string{"key": key, "receipt": receipt})
}

// storeSprite re-encodes an uploaded PNG sprite as WebP before storing
// it, which keeps sheet storage small without losing pixels.
func (s *Server) storeSprite(path string, pngData []byte) error {
	return ImportSprite(s.store, path, pngData)
}

// ImportSprite re-encodes PNG sprite bytes as lossless WebP and stores
// them under the given sprite path. Shared by the upload handler and
// the seed command.
func ImportSprite(store *Store, path string, pngData []byte) error {
	if path == "" {
		return fmt.Errorf("definition has no sprite path")
	}
	img, err := png.Decode(bytes.NewReader(pngData))
	if err != nil {
		return fmt.Errorf("payload is not valid PNG: %w", err)
	}
	var buf bytes.Buffer
	if err := nativewebp.Encode(&buf, img, nil); err != nil {
		return fmt.Errorf("webp encode: %w", err)
	}
	return store.PutSprite(path, buf.Bytes())
}

func (s *Server) getSprite(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "*")
	data, err := s.store.Sprite(path)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeJSON(w, http.StatusNotFound, err)
			return
		}
		writeJSON(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "image/webp")
	if _, err := w.Write(data); err != nil {
		s.log.WithError(err).Warn("failed to write sprite response")
	}
}
