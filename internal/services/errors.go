// Package services defines the business logic for rooms, bids, and catalog
// items. This file centralizes common service-level error values so that they
// can be consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler/controller layer. Engine-level errors (auction not
// found, bid too low, …) live in the auction package.
package services

import "errors"

var (
	// ErrRoomNotFound indicates that the requested room does not exist.
	ErrRoomNotFound = errors.New("room not found")

	// ErrInvalidNamespace is returned when a room is created with a namespace
	// outside the fixed enumerated set.
	ErrInvalidNamespace = errors.New("namespace must match a valid namespace")

	// ErrInvalidRoomDocument is returned when a full room document carries
	// non-positive bidding rules or an auction with a bid/bidder mismatch.
	ErrInvalidRoomDocument = errors.New("invalid room document")

	// ErrEmptyBidderName is returned when a bid arrives without a usable
	// bidder name; a bid and its bidder identity are always recorded together.
	ErrEmptyBidderName = errors.New("bidder name is empty")

	// ErrConcurrentModification is returned when the commit retry budget is
	// exhausted because other writers kept winning the version race. The
	// caller should retry the whole logical operation against fresh state.
	ErrConcurrentModification = errors.New("room was modified concurrently")
)
