package server

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/webp"

	"hitbox-editor/internal/definition"
	"hitbox-editor/pkg/geometry"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(filepath.Join(t.TempDir(), "hitboxd.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() }) // nolint: errcheck
	return store
}

func testDefinition() *definition.Definition {
	return &definition.Definition{
		Type:        "goblin",
		Label:       "Goblin",
		FrameWidth:  40,
		FrameHeight: 40,
		SpritePath:  "monsters/goblin.webp",
		Hitbox:      geometry.NewRectInt(5, 5, 10, 10),
		Attributes:  map[string]float64{"speed": 1.5},
	}
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	img.SetRGBA(4, 4, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestGetDefinitionNotFound(t *testing.T) {
	srv := httptest.NewServer(New(testStore(t)))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/definitions/ogre")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body["error"], "ogre")
}

func TestGetDefinition(t *testing.T) {
	store := testStore(t)
	require.NoError(t, store.PutDefinition("goblin", testDefinition()))

	srv := httptest.NewServer(New(store))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/definitions/goblin")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var def definition.Definition
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&def))
	assert.Equal(t, "Goblin", def.Label)
	assert.Equal(t, geometry.NewRectInt(5, 5, 10, 10), def.Hitbox)
	assert.Equal(t, 1.5, def.Attributes["speed"])
}

func postSubmission(t *testing.T, url string, sub *definition.Submission) *http.Response {
	t.Helper()
	body, err := json.Marshal(sub)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	return resp
}

func TestPostDefinitionRoundTrip(t *testing.T) {
	store := testStore(t)
	require.NoError(t, store.PutDefinition("goblin", testDefinition()))

	srv := httptest.NewServer(New(store))
	defer srv.Close()

	sub := &definition.Submission{
		OriginalKey: "goblin",
		Definition:  *testDefinition(),
		SpritePNG:   testPNG(t),
	}
	sub.Definition.Hitbox = geometry.NewRectInt(2, 3, 8, 9)

	resp := postSubmission(t, srv.URL+"/api/definitions/goblin", sub)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var receipt map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&receipt))
	assert.Equal(t, "goblin", receipt["key"])
	assert.NotEmpty(t, receipt["receipt"])

	stored, err := store.Definition("goblin")
	require.NoError(t, err)
	assert.Equal(t, geometry.NewRectInt(2, 3, 8, 9), stored.Hitbox)

	// The uploaded PNG was re-encoded as WebP.
	data, err := store.Sprite("monsters/goblin.webp")
	require.NoError(t, err)
	img, err := webp.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 16, 16), img.Bounds())
}

func TestPostDefinitionKeyMismatch(t *testing.T) {
	store := testStore(t)
	require.NoError(t, store.PutDefinition("goblin", testDefinition()))

	srv := httptest.NewServer(New(store))
	defer srv.Close()

	sub := &definition.Submission{OriginalKey: "ogre", Definition: *testDefinition()}
	resp := postSubmission(t, srv.URL+"/api/definitions/goblin", sub)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPostDefinitionRequiresExistingRecord(t *testing.T) {
	srv := httptest.NewServer(New(testStore(t)))
	defer srv.Close()

	sub := &definition.Submission{OriginalKey: "goblin", Definition: *testDefinition()}
	resp := postSubmission(t, srv.URL+"/api/definitions/goblin", sub)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPostDefinitionRejectsInvalidHitbox(t *testing.T) {
	store := testStore(t)
	require.NoError(t, store.PutDefinition("goblin", testDefinition()))

	srv := httptest.NewServer(New(store))
	defer srv.Close()

	sub := &definition.Submission{OriginalKey: "goblin", Definition: *testDefinition()}
	sub.Definition.Hitbox = geometry.RectInt{}

	resp := postSubmission(t, srv.URL+"/api/definitions/goblin", sub)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetSprite(t *testing.T) {
	store := testStore(t)
	require.NoError(t, ImportSprite(store, "monsters/goblin.webp", testPNG(t)))

	srv := httptest.NewServer(New(store))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/sprites/monsters/goblin.webp")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/webp", resp.Header.Get("Content-Type"))

	img, err := webp.Decode(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 16, 16), img.Bounds())
}

func TestGetSpriteNotFound(t *testing.T) {
	srv := httptest.NewServer(New(testStore(t)))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/sprites/monsters/missing.webp")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestImportSpriteRejectsNonPNG(t *testing.T) {
	store := testStore(t)
	assert.Error(t, ImportSprite(store, "monsters/goblin.webp", []byte("not png")))
	assert.Error(t, ImportSprite(store, "", testPNG(t)))
}
