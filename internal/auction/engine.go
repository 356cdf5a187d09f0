// Package auction – engine
//
// This file implements the auction engine: provisioning of a room's auction
// list, the room-wide start transition, and bid acceptance. All three
// operations are deterministic over their inputs and perform no persistence;
// the caller loads the room, applies one of these operations, and commits the
// result through the concurrency coordinator. The only outward call is the
// injected catalog lookup used while provisioning.
package auction

import (
	"context"

	"github.com/tbourn/go-auction-backend/internal/domain"
)

// LookupFunc resolves an (itemID, namespace) pair to catalog metadata.
// Implementations may be slow or fail; the engine propagates failures
// unchanged, wrapped in a CatalogError.
type LookupFunc func(ctx context.Context, itemID int, ns domain.Namespace) (*domain.ItemMetadata, error)

// ProvisionItem is one input row for Provision. Rows are kept in input order;
// duplicates of the same item are allowed and become separate auctions.
type ProvisionItem struct {
	ItemID int `json:"item_id" binding:"required"`
}

// Provision builds a fresh auction list for the room. For each input row, in
// input order, it assigns rowID = 1-based position, sets status Pending, sets
// the minimum price from the room's MinimumBid, and snapshots the catalog
// metadata returned by lookup.
//
// The operation is all-or-nothing: a failed lookup aborts with a CatalogError
// and the returned slice is nil. The room itself is not modified; the caller
// decides when to install the result.
func Provision(ctx context.Context, room *domain.Room, items []ProvisionItem, lookup LookupFunc) ([]domain.Auction, error) {
	out := make([]domain.Auction, 0, len(items))
	for i, it := range items {
		meta, err := lookup(ctx, it.ItemID, room.Namespace)
		if err != nil {
			return nil, &CatalogError{ItemID: it.ItemID, Err: err}
		}

		minPrice := room.MinimumBid
		out = append(out, domain.Auction{
			ItemID:       it.ItemID,
			RowID:        i + 1,
			Status:       domain.StatusPending,
			MinimumPrice: &minPrice,
			ItemName:     meta.Name,
			Quality:      meta.Quality,
			ItemLevel:    meta.Level,
			ItemType:     meta.Type,
			ItemSubType:  meta.SubType,
			MinLevel:     meta.MinLevel,
			GUID:         meta.GUID,
		})
	}
	return out, nil
}

// Start opens every pending auction in the room: status flips to Bidding and
// the expiration is stamped as now + BidDurationInSeconds. Auctions already
// Bidding or Closed are left untouched, which makes the operation idempotent.
// Returns ErrNoAuctions when the room's auction list is empty.
func Start(room *domain.Room, nowUnixSeconds int64) error {
	if len(room.Auctions) == 0 {
		return ErrNoAuctions
	}
	expiration := nowUnixSeconds + int64(room.BidDurationInSeconds)
	for i := range room.Auctions {
		a := &room.Auctions[i]
		if a.Status != domain.StatusPending {
			continue
		}
		a.Status = domain.StatusBidding
		exp := expiration
		a.Expiration = &exp
	}
	return nil
}

// PlaceBid applies a bid to the auction identified by (rowID, itemID).
//
// The minimum acceptable amount is the auction's minimum price (falling back
// to the room's MinimumBid) when no bid exists yet, or the current bid plus
// the room's MinimumBidIncrement otherwise. Bids below it are rejected with a
// BidTooLowError carrying that amount.
//
// Only the targeted auction is modified; Bid and BidderName are always set
// together.
func PlaceBid(room *domain.Room, rowID, itemID, amount int, bidderName string) error {
	a := room.FindAuction(rowID, itemID)
	if a == nil {
		return ErrAuctionNotFound
	}
	if !a.Open() {
		return ErrAuctionNotOpen
	}

	min := MinimumAcceptableBid(room, a)
	if amount < min {
		return &BidTooLowError{Minimum: min}
	}

	bid := amount
	name := bidderName
	a.Bid = &bid
	a.BidderName = &name
	return nil
}

// MinimumAcceptableBid computes the smallest amount the next bid on a must
// reach to be accepted.
func MinimumAcceptableBid(room *domain.Room, a *domain.Auction) int {
	if a.Bid == nil || a.BidderName == nil {
		if a.MinimumPrice != nil {
			return *a.MinimumPrice
		}
		return room.MinimumBid
	}
	return *a.Bid + room.MinimumBidIncrement
}
