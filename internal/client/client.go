// Package client talks to the definition service: it fetches entity
// definitions and sprite sheets, and posts edited definitions back.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"hitbox-editor/internal/definition"
)

// ErrNotFound is returned when the service has no definition for the
// requested key.
var ErrNotFound = errors.New("definition not found")

const requestTimeout = 15 * time.Second

// Receipt is the service's acknowledgement of a stored submission.
type Receipt struct {
	Key     string `json:"key"`
	Receipt string `json:"receipt"`
}

// Client is an HTTP client for the definition service.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logrus.Entry
}

// New creates a client for the service at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: requestTimeout},
		log:     logrus.WithField("component", "client"),
	}
}

// Definition fetches the definition for an entity-type key. A missing
// key yields ErrNotFound.
func (c *Client) Definition(ctx context.Context, key string) (*definition.Definition, error) {
	if err := definition.ValidateKey(key); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/definitions/"+key, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("definition request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("definition request for %s: %s", key, responseError(resp))
	}

	var def definition.Definition
	if err := json.NewDecoder(resp.Body).Decode(&def); err != nil {
		return nil, fmt.Errorf("failed to decode definition: %w", err)
	}
	return &def, nil
}

// Sprite fetches the encoded sprite sheet stored under the given path.
func (c *Client) Sprite(ctx context.Context, spritePath string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/sprites/"+spritePath, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sprite request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sprite request for %s: %s", spritePath, responseError(resp))
	}
	return io.ReadAll(resp.Body)
}

// Submit validates the submission locally and posts it to the service.
// Validation failures never reach the network. On a server-side
// rejection the service's reason is returned so the editor can surface
// it and keep its state for retry.
func (c *Client) Submit(ctx context.Context, sub *definition.Submission) (*Receipt, error) {
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(sub)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/definitions/"+sub.OriginalKey, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("submission failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("submission rejected: %s", responseError(resp))
	}

	var receipt Receipt
	if err := json.NewDecoder(resp.Body).Decode(&receipt); err != nil {
		return nil, fmt.Errorf("failed to decode submission receipt: %w", err)
	}
	c.log.WithField("key", sub.OriginalKey).Info("definition submitted")
	return &receipt, nil
}

// responseError extracts the {"error": ...} reason from an error
// response, falling back to the HTTP status.
func responseError(resp *http.Response) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		return body.Error
	}
	return resp.Status
}
