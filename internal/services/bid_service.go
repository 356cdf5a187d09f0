// Package services – BidService
//
// This file implements bid submission. The acceptance rules themselves
// (auction open, minimum-increase math) live in the auction package; this
// service normalizes the bidder identity and commits the accepted bid
// through the Coordinator, so two bidders racing on the same room both land
// or the loser is told the state moved.
package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"golang.org/x/text/unicode/norm"

	"github.com/tbourn/go-auction-backend/internal/auction"
	"github.com/tbourn/go-auction-backend/internal/domain"
)

// defaultBidderNameMaxRunes caps stored bidder names.
const defaultBidderNameMaxRunes = 48

// BidService applies bids to auctions within a room.
type BidService struct {
	// Coord commits every accepted bid with optimistic concurrency.
	Coord *Coordinator

	// BidderNameMaxRunes caps bidder names by rune length; the default is
	// applied when non-positive.
	BidderNameMaxRunes int
}

// NewBidService constructs a BidService with sane defaults.
func NewBidService(coord *Coordinator) *BidService {
	return &BidService{Coord: coord, BidderNameMaxRunes: defaultBidderNameMaxRunes}
}

// Place submits a bid on the auction identified by (rowID, itemID) within
// the room. The bidder name is NFC-normalized, whitespace-collapsed, and
// clipped before it is stored alongside the bid. On success the committed
// room is returned; engine rejections (auction missing, not open, bid too
// low) and commit-race exhaustion surface unchanged.
func (s *BidService) Place(ctx context.Context, roomID string, rowID, itemID, amount int, bidderName string) (*domain.Room, error) {
	tr := otel.Tracer("services/BidService")
	ctx, span := tr.Start(ctx, "Place",
		trace.WithAttributes(
			attribute.String("room.id", roomID),
			attribute.Int("row_id", rowID),
			attribute.Int("item_id", itemID),
			attribute.Int("amount", amount),
		),
	)
	defer span.End()

	name := s.normalizeBidderName(bidderName)
	if name == "" {
		return nil, ErrEmptyBidderName
	}

	return s.Coord.Execute(ctx, roomID, func(room *domain.Room) error {
		return auction.PlaceBid(room, rowID, itemID, amount, name)
	})
}

// normalizeBidderName canonicalizes a bidder name: Unicode NFC so visually
// identical names compare equal, inner whitespace collapsed, and clipped to
// the configured rune budget.
func (s *BidService) normalizeBidderName(name string) string {
	name = norm.NFC.String(strings.TrimSpace(name))
	name = strings.Join(strings.Fields(name), " ")

	max := s.BidderNameMaxRunes
	if max <= 0 {
		max = defaultBidderNameMaxRunes
	}
	if utf8.RuneCountInString(name) > max {
		name = string([]rune(name)[:max])
	}
	return name
}
