// Package services – RoomService
//
// This file implements the RoomService, which manages the lifecycle of
// auction rooms: creation (from a bare namespace or a full document),
// listing with pagination, whole-document replacement, bulk auction
// provisioning with catalog enrichment, the room-wide start transition, and
// deletion. All state transitions themselves are pure functions in the
// auction package; every write is committed through the Coordinator so
// concurrent writers on the same room cannot lose updates.
//
// Service-level errors (e.g., ErrRoomNotFound) are returned for predictable
// cases so handlers can map them to HTTP results consistently.
package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-auction-backend/internal/auction"
	"github.com/tbourn/go-auction-backend/internal/domain"
	"github.com/tbourn/go-auction-backend/internal/repo"
)

// ItemLookup resolves an item identifier within a catalog namespace to its
// descriptive metadata. The production implementation (ItemService) caches
// remote responses; the engine only sees this narrow contract.
type ItemLookup interface {
	Lookup(ctx context.Context, itemID int, ns domain.Namespace) (*domain.ItemMetadata, error)
}

// RoomDefaults are the bidding rules applied to rooms created from a bare
// namespace, and used to fill gaps in power-user documents.
type RoomDefaults struct {
	MinimumBid           int
	MinimumBidIncrement  int
	BidDurationInSeconds int
}

// RoomService provides room-level operations. It is the single boundary that
// touches both the room store and the item catalog.
type RoomService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the room repository used by this service.
	Repo RoomRepo
	// Items resolves catalog metadata during provisioning.
	Items ItemLookup
	// Coord commits every mutation with optimistic concurrency.
	Coord *Coordinator

	// Defaults seed newly created rooms.
	Defaults RoomDefaults

	// Now is the clock used to stamp expirations; overridable in tests.
	Now func() time.Time
}

// NewRoomService constructs a RoomService wired to the given collaborators.
func NewRoomService(db *gorm.DB, r RoomRepo, items ItemLookup, defaults RoomDefaults) *RoomService {
	return &RoomService{
		DB:       db,
		Repo:     r,
		Items:    items,
		Coord:    NewCoordinator(db, r),
		Defaults: defaults,
		Now:      time.Now,
	}
}

// Create builds and persists a room bound to the given namespace with the
// default bidding rules and an empty auction list. The namespace is validated
// here, at the application boundary.
func (s *RoomService) Create(ctx context.Context, ns domain.Namespace) (*domain.Room, error) {
	if !ns.Valid() {
		return nil, ErrInvalidNamespace
	}
	room := &domain.Room{
		Namespace:            ns,
		MinimumBid:           s.Defaults.MinimumBid,
		MinimumBidIncrement:  s.Defaults.MinimumBidIncrement,
		BidDurationInSeconds: s.Defaults.BidDurationInSeconds,
		Auctions:             []domain.Auction{},
	}
	if err := s.Repo.CreateRoom(ctx, s.DB, room); err != nil {
		return nil, err
	}
	return room, nil
}

// CreateFromDocument persists a caller-supplied room document (power-user
// path). The ID is always freshly assigned; missing bidding rules fall back
// to the defaults; the namespace and the bid/bidder pairing of any supplied
// auctions are validated.
func (s *RoomService) CreateFromDocument(ctx context.Context, doc *domain.Room) (*domain.Room, error) {
	if !doc.Namespace.Valid() {
		return nil, ErrInvalidNamespace
	}
	if err := validateAuctionPairs(doc.Auctions); err != nil {
		return nil, err
	}

	room := &domain.Room{
		Namespace:            doc.Namespace,
		MinimumBid:           orDefault(doc.MinimumBid, s.Defaults.MinimumBid),
		MinimumBidIncrement:  orDefault(doc.MinimumBidIncrement, s.Defaults.MinimumBidIncrement),
		BidDurationInSeconds: orDefault(doc.BidDurationInSeconds, s.Defaults.BidDurationInSeconds),
		Auctions:             doc.Auctions,
	}
	if room.Auctions == nil {
		room.Auctions = []domain.Auction{}
	}
	if err := s.Repo.CreateRoom(ctx, s.DB, room); err != nil {
		return nil, err
	}
	return room, nil
}

// Get fetches a room by ID.
func (s *RoomService) Get(ctx context.Context, id string) (*domain.Room, error) {
	room, err := s.Repo.GetRoom(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return room, nil
}

// List returns all rooms (non-paginated). Prefer ListPage for large sets.
func (s *RoomService) List(ctx context.Context) ([]domain.Room, error) {
	return s.Repo.ListRooms(ctx, s.DB)
}

// ListPage returns a page of rooms plus the total count. It applies defaults
// for invalid page/pageSize.
func (s *RoomService) ListPage(ctx context.Context, page, pageSize int) ([]domain.Room, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := s.Repo.CountRooms(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Room{}, 0, nil
	}

	items, err := s.Repo.ListRoomsPage(ctx, s.DB, offset, pageSize)
	return items, total, err
}

// Replace swaps the stored room document for the supplied one, keeping the
// ID, the creation time, and the namespace fixed (the namespace is immutable
// after creation; a replace cannot rebind a room to another catalog
// partition). Bidding rules must be positive; supplied auctions must keep bid
// and bidder paired.
func (s *RoomService) Replace(ctx context.Context, id string, doc *domain.Room) (*domain.Room, error) {
	if doc.MinimumBid <= 0 || doc.MinimumBidIncrement <= 0 || doc.BidDurationInSeconds <= 0 {
		return nil, ErrInvalidRoomDocument
	}
	if err := validateAuctionPairs(doc.Auctions); err != nil {
		return nil, err
	}

	return s.Coord.Execute(ctx, id, func(room *domain.Room) error {
		room.MinimumBid = doc.MinimumBid
		room.MinimumBidIncrement = doc.MinimumBidIncrement
		room.BidDurationInSeconds = doc.BidDurationInSeconds
		if doc.Auctions != nil {
			room.Auctions = doc.Auctions
		}
		return nil
	})
}

// ReplaceAuctions provisions a fresh auction list for the room from the given
// item rows: each row is enriched with catalog metadata and assigned its
// rowId and default minimum price by the engine. The operation is atomic:
// a failed catalog lookup leaves the stored auction list unchanged.
func (s *RoomService) ReplaceAuctions(ctx context.Context, id string, items []auction.ProvisionItem) (*domain.Room, error) {
	tr := otel.Tracer("services/RoomService")
	ctx, span := tr.Start(ctx, "ReplaceAuctions",
		trace.WithAttributes(
			attribute.String("room.id", id),
			attribute.Int("items", len(items)),
		),
	)
	defer span.End()

	return s.Coord.Execute(ctx, id, func(room *domain.Room) error {
		provisioned, err := auction.Provision(ctx, room, items, s.Items.Lookup)
		if err != nil {
			return err
		}
		room.Auctions = provisioned
		return nil
	})
}

// Start opens every pending auction in the room, stamping a shared expiration
// of now + BidDurationInSeconds. Calling it again only affects auctions that
// are still pending.
func (s *RoomService) Start(ctx context.Context, id string) (*domain.Room, error) {
	tr := otel.Tracer("services/RoomService")
	ctx, span := tr.Start(ctx, "Start",
		trace.WithAttributes(attribute.String("room.id", id)),
	)
	defer span.End()

	now := s.Now().UTC().Unix()
	return s.Coord.Execute(ctx, id, func(room *domain.Room) error {
		return auction.Start(room, now)
	})
}

// Delete removes a room from the store.
func (s *RoomService) Delete(ctx context.Context, id string) error {
	err := s.Repo.DeleteRoom(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrRoomNotFound
	}
	return err
}

// validateAuctionPairs rejects documents where a bid exists without a bidder
// or vice versa.
func validateAuctionPairs(auctions []domain.Auction) error {
	for i := range auctions {
		a := &auctions[i]
		if (a.Bid == nil) != (a.BidderName == nil) {
			return ErrInvalidRoomDocument
		}
	}
	return nil
}

// orDefault substitutes def for non-positive values.
func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
