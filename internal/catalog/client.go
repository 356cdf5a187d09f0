// Package catalog provides the HTTP client for the external item-metadata
// service. Given an item identifier and a catalog namespace it returns the
// static descriptive attributes (name, quality tier, level, type) that get
// snapshotted onto auctions at provisioning time.
//
// The client is deliberately thin: one GET per lookup, JSON decoding, and
// error wrapping. Caching is layered on top by services.ItemService so the
// transport stays stateless and trivially testable with httptest.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tbourn/go-auction-backend/internal/domain"
)

// DefaultTimeout bounds a single lookup when the caller's context carries no
// earlier deadline.
const DefaultTimeout = 5 * time.Second

// Client talks to the item catalog service.
//
// The expected endpoint shape is GET {BaseURL}/items/{itemID}?namespace={ns}
// returning an ItemMetadata JSON document.
type Client struct {
	// BaseURL is the catalog service root, without trailing slash.
	BaseURL string
	// HTTPClient is the underlying transport; http.DefaultClient when nil.
	HTTPClient *http.Client
	// Timeout applies per lookup; DefaultTimeout when zero.
	Timeout time.Duration
}

// New constructs a Client for the given base URL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{},
		Timeout:    timeout,
	}
}

// Lookup fetches metadata for (itemID, namespace). It honors ctx for
// cancellation and enforces the configured per-request timeout. Any transport
// failure, non-200 status, or undecodable body is returned as an error; the
// caller decides whether the whole enclosing operation fails (provisioning
// does).
func (c *Client) Lookup(ctx context.Context, itemID int, ns domain.Namespace) (*domain.ItemMetadata, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	u := fmt.Sprintf("%s/items/%d?namespace=%s", c.BaseURL, itemID, url.QueryEscape(string(ns)))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	hc := c.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("item %d not found in namespace %q", itemID, ns)
	}
	if resp.StatusCode != http.StatusOK {
		// Drain a little of the body for a useful message; ignore read errors.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("catalog returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var meta domain.ItemMetadata
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}
	if meta.Name == "" {
		return nil, fmt.Errorf("catalog returned empty metadata for item %d", itemID)
	}
	return &meta, nil
}
