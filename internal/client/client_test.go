package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hitbox-editor/internal/definition"
	"hitbox-editor/pkg/geometry"
)

func testDefinition() definition.Definition {
	return definition.Definition{
		Type:        "goblin",
		Label:       "Goblin",
		FrameWidth:  40,
		FrameHeight: 40,
		SpritePath:  "monsters/goblin.webp",
		Hitbox:      geometry.NewRectInt(5, 5, 10, 10),
		Attributes:  map[string]float64{"speed": 1.5},
	}
}

func TestDefinitionFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/definitions/goblin", r.URL.Path)
		json.NewEncoder(w).Encode(testDefinition()) // nolint: errcheck
	}))
	defer srv.Close()

	def, err := New(srv.URL).Definition(context.Background(), "goblin")
	require.NoError(t, err)
	assert.Equal(t, "Goblin", def.Label)
	assert.Equal(t, geometry.NewRectInt(5, 5, 10, 10), def.Hitbox)
}

func TestDefinitionNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "not found: definition ogre"}) // nolint: errcheck
	}))
	defer srv.Close()

	_, err := New(srv.URL).Definition(context.Background(), "ogre")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDefinitionRejectsBadKeyLocally(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Definition(context.Background(), "Bad Key!")
	assert.Error(t, err)
	assert.Zero(t, atomic.LoadInt32(&calls), "no network call for an invalid key")
}

func TestSubmitBlockedByEmptyHitbox(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	sub := &definition.Submission{OriginalKey: "goblin", Definition: testDefinition()}
	sub.Definition.Hitbox = geometry.NewRectInt(0, 0, 0, 10)

	_, err := New(srv.URL).Submit(context.Background(), sub)
	assert.Error(t, err)
	assert.Zero(t, atomic.LoadInt32(&calls), "no network call for an empty hitbox")
}

func TestSubmitBlockedByUppercaseKey(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	sub := &definition.Submission{OriginalKey: "Goblin", Definition: testDefinition()}
	_, err := New(srv.URL).Submit(context.Background(), sub)
	assert.Error(t, err)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestSubmitSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/definitions/goblin", r.URL.Path)

		var sub definition.Submission
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sub))
		assert.Equal(t, "goblin", sub.OriginalKey)
		assert.Equal(t, geometry.NewRectInt(5, 5, 10, 10), sub.Definition.Hitbox)

		json.NewEncoder(w).Encode(map[string]string{"key": "goblin", "receipt": "r-1"}) // nolint: errcheck
	}))
	defer srv.Close()

	sub := &definition.Submission{OriginalKey: "goblin", Definition: testDefinition()}
	receipt, err := New(srv.URL).Submit(context.Background(), sub)
	require.NoError(t, err)
	assert.Equal(t, "r-1", receipt.Receipt)
}

func TestSubmitSurfacesServerReason(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "sprite path collision"}) // nolint: errcheck
	}))
	defer srv.Close()

	sub := &definition.Submission{OriginalKey: "goblin", Definition: testDefinition()}
	_, err := New(srv.URL).Submit(context.Background(), sub)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sprite path collision")
}

func TestSpriteFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sprites/monsters/goblin.webp", r.URL.Path)
		w.Write([]byte{0x52, 0x49, 0x46, 0x46}) // nolint: errcheck
	}))
	defer srv.Close()

	data, err := New(srv.URL).Sprite(context.Background(), "monsters/goblin.webp")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x52, 0x49, 0x46, 0x46}, data)
}
