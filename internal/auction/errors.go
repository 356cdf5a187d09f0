// Package auction implements the pure state-transition and bid-validation
// rules for a room's auctions. This file centralizes the engine-level error
// values so callers (services, handlers) can branch on them with errors.Is
// and errors.As; translation into HTTP responses happens at the handler layer.
package auction

import (
	"errors"
	"fmt"
)

var (
	// ErrAuctionNotFound indicates that no auction in the room matches the
	// requested (rowID, itemID) compound key.
	ErrAuctionNotFound = errors.New("auction not found")

	// ErrAuctionNotOpen is returned when a bid targets an auction whose
	// status is not Bidding. Bids on pending or closed auctions are rejected
	// regardless of amount.
	ErrAuctionNotOpen = errors.New("auction is not open for bidding")

	// ErrNoAuctions is returned when a room with an empty auction list is
	// started.
	ErrNoAuctions = errors.New("room has no auctions")
)

// BidTooLowError rejects a bid below the computed minimum acceptable amount.
// Minimum carries that amount so callers can tell the bidder what to correct.
type BidTooLowError struct {
	Minimum int
}

// Error implements the error interface.
func (e *BidTooLowError) Error() string {
	return fmt.Sprintf("bid must be at least %d", e.Minimum)
}

// CatalogError wraps a failed item-metadata lookup during provisioning.
// The whole provisioning call fails with it; no partial auction list is kept.
type CatalogError struct {
	ItemID int
	Err    error
}

// Error implements the error interface.
func (e *CatalogError) Error() string {
	return fmt.Sprintf("catalog lookup failed for item %d: %v", e.ItemID, e.Err)
}

// Unwrap exposes the underlying lookup failure.
func (e *CatalogError) Unwrap() error { return e.Err }
