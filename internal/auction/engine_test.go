package auction

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/tbourn/go-auction-backend/internal/domain"
)

// ----- helpers -----

func testRoom(auctions ...domain.Auction) *domain.Room {
	return &domain.Room{
		ID:                   "room-1",
		Namespace:            domain.NamespaceEra,
		MinimumBid:           50,
		MinimumBidIncrement:  5,
		BidDurationInSeconds: 600,
		Auctions:             auctions,
	}
}

func openAuction(rowID, itemID int, minPrice int) domain.Auction {
	mp := minPrice
	return domain.Auction{
		ItemID:       itemID,
		RowID:        rowID,
		Status:       domain.StatusBidding,
		MinimumPrice: &mp,
	}
}

func okLookup(ctx context.Context, itemID int, ns domain.Namespace) (*domain.ItemMetadata, error) {
	return &domain.ItemMetadata{
		Name:    fmt.Sprintf("Item %d", itemID),
		Quality: 4,
		Level:   60,
		Type:    "Weapon",
		SubType: "Sword",
		GUID:    fmt.Sprintf("guid-%d", itemID),
	}, nil
}

// ----- Provision -----

func TestProvision_AssignsRowIDsInInputOrder(t *testing.T) {
	room := testRoom()
	items := []ProvisionItem{{ItemID: 19019}, {ItemID: 17076}, {ItemID: 19019}}

	got, err := Provision(context.Background(), room, items, okLookup)
	if err != nil {
		t.Fatalf("Provision: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, a := range got {
		if a.RowID != i+1 {
			t.Errorf("auction %d: RowID = %d, want %d", i, a.RowID, i+1)
		}
		if a.Status != domain.StatusPending {
			t.Errorf("auction %d: Status = %v, want pending", i, a.Status)
		}
		if a.MinimumPrice == nil || *a.MinimumPrice != room.MinimumBid {
			t.Errorf("auction %d: MinimumPrice = %v, want %d", i, a.MinimumPrice, room.MinimumBid)
		}
		if a.ItemID != items[i].ItemID {
			t.Errorf("auction %d: ItemID = %d, want %d", i, a.ItemID, items[i].ItemID)
		}
	}
	// duplicate item ids stay distinct rows
	if got[0].ItemID != got[2].ItemID || got[0].RowID == got[2].RowID {
		t.Fatalf("duplicate items must become distinct rows: %+v vs %+v", got[0], got[2])
	}
}

func TestProvision_SnapshotsCatalogMetadata(t *testing.T) {
	room := testRoom()
	got, err := Provision(context.Background(), room, []ProvisionItem{{ItemID: 19019}}, okLookup)
	if err != nil {
		t.Fatalf("Provision: %v", err)
	}
	a := got[0]
	if a.ItemName != "Item 19019" || a.Quality != 4 || a.ItemLevel != 60 ||
		a.ItemType != "Weapon" || a.ItemSubType != "Sword" || a.GUID != "guid-19019" {
		t.Fatalf("catalog snapshot not copied: %+v", a)
	}
}

func TestProvision_AllOrNothingOnLookupFailure(t *testing.T) {
	room := testRoom()
	boom := errors.New("catalog down")
	calls := 0
	lookup := func(ctx context.Context, itemID int, ns domain.Namespace) (*domain.ItemMetadata, error) {
		calls++
		if calls == 3 {
			return nil, boom
		}
		return okLookup(ctx, itemID, ns)
	}

	items := []ProvisionItem{{1}, {2}, {3}, {4}, {5}}
	got, err := Provision(context.Background(), room, items, lookup)
	if got != nil {
		t.Fatalf("expected nil auctions on failure, got %d", len(got))
	}
	var ce *CatalogError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CatalogError, got %v", err)
	}
	if ce.ItemID != 3 {
		t.Fatalf("CatalogError.ItemID = %d, want 3", ce.ItemID)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("CatalogError must wrap the lookup failure")
	}
	if len(room.Auctions) != 0 {
		t.Fatalf("room must be unchanged, got %d auctions", len(room.Auctions))
	}
}

func TestProvision_PassesRoomNamespaceToLookup(t *testing.T) {
	room := testRoom()
	room.Namespace = domain.NamespaceProgression
	var seen domain.Namespace
	lookup := func(ctx context.Context, itemID int, ns domain.Namespace) (*domain.ItemMetadata, error) {
		seen = ns
		return okLookup(ctx, itemID, ns)
	}
	if _, err := Provision(context.Background(), room, []ProvisionItem{{1}}, lookup); err != nil {
		t.Fatalf("Provision: %v", err)
	}
	if seen != domain.NamespaceProgression {
		t.Fatalf("lookup namespace = %q, want progression", seen)
	}
}

// ----- Start -----

func TestStart_EmptyRoom(t *testing.T) {
	if err := Start(testRoom(), 1000); !errors.Is(err, ErrNoAuctions) {
		t.Fatalf("expected ErrNoAuctions, got %v", err)
	}
}

func TestStart_OpensPendingAndStampsExpiration(t *testing.T) {
	mp := 100
	room := testRoom(
		domain.Auction{ItemID: 1, RowID: 1, Status: domain.StatusPending, MinimumPrice: &mp},
		domain.Auction{ItemID: 2, RowID: 2, Status: domain.StatusPending, MinimumPrice: &mp},
	)
	const now = int64(1_700_000_000)

	if err := Start(room, now); err != nil {
		t.Fatalf("Start: %v", err)
	}
	want := now + int64(room.BidDurationInSeconds)
	for i, a := range room.Auctions {
		if a.Status != domain.StatusBidding {
			t.Errorf("auction %d: Status = %v, want bidding", i, a.Status)
		}
		if a.Expiration == nil || *a.Expiration != want {
			t.Errorf("auction %d: Expiration = %v, want %d", i, a.Expiration, want)
		}
	}
}

func TestStart_Idempotent(t *testing.T) {
	mp := 100
	room := testRoom(domain.Auction{ItemID: 1, RowID: 1, Status: domain.StatusPending, MinimumPrice: &mp})

	if err := Start(room, 1000); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	first := *room.Auctions[0].Expiration

	// A later second call must not touch already-open auctions.
	if err := Start(room, 9999); err != nil {
		t.Fatalf("second Start: %v", err)
	}
	if got := *room.Auctions[0].Expiration; got != first {
		t.Fatalf("expiration rewritten on second start: %d, want %d", got, first)
	}
	if room.Auctions[0].Status != domain.StatusBidding {
		t.Fatalf("status = %v, want bidding", room.Auctions[0].Status)
	}
}

func TestStart_LeavesClosedAlone(t *testing.T) {
	room := testRoom(
		domain.Auction{ItemID: 1, RowID: 1, Status: domain.StatusClosed},
		domain.Auction{ItemID: 2, RowID: 2, Status: domain.StatusPending},
	)
	if err := Start(room, 1000); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if room.Auctions[0].Status != domain.StatusClosed || room.Auctions[0].Expiration != nil {
		t.Fatalf("closed auction modified: %+v", room.Auctions[0])
	}
	if room.Auctions[1].Status != domain.StatusBidding {
		t.Fatalf("pending auction not opened: %+v", room.Auctions[1])
	}
}

// ----- PlaceBid -----

func TestPlaceBid_AuctionNotFound(t *testing.T) {
	room := testRoom(openAuction(1, 19019, 100))

	cases := []struct{ rowID, itemID int }{
		{2, 19019}, // wrong row
		{1, 42},    // wrong item
		{9, 9},     // both wrong
	}
	for _, tc := range cases {
		if err := PlaceBid(room, tc.rowID, tc.itemID, 500, "alice"); !errors.Is(err, ErrAuctionNotFound) {
			t.Errorf("PlaceBid(%d,%d) = %v, want ErrAuctionNotFound", tc.rowID, tc.itemID, err)
		}
	}
}

func TestPlaceBid_RejectsNonOpenStatuses(t *testing.T) {
	for _, st := range []domain.Status{domain.StatusPending, domain.StatusClosed} {
		a := openAuction(1, 1, 100)
		a.Status = st
		room := testRoom(a)
		// Even an absurdly high amount must not land.
		if err := PlaceBid(room, 1, 1, 1_000_000, "alice"); !errors.Is(err, ErrAuctionNotOpen) {
			t.Errorf("status %v: err = %v, want ErrAuctionNotOpen", st, err)
		}
		if room.Auctions[0].Bid != nil || room.Auctions[0].BidderName != nil {
			t.Errorf("status %v: auction mutated on rejected bid", st)
		}
	}
}

func TestPlaceBid_FreshAuctionFloor(t *testing.T) {
	room := testRoom(openAuction(1, 1, 100))

	err := PlaceBid(room, 1, 1, 99, "alice")
	var low *BidTooLowError
	if !errors.As(err, &low) {
		t.Fatalf("expected BidTooLowError, got %v", err)
	}
	if low.Minimum != 100 {
		t.Fatalf("Minimum = %d, want 100", low.Minimum)
	}

	if err := PlaceBid(room, 1, 1, 100, "alice"); err != nil {
		t.Fatalf("bid at floor must succeed: %v", err)
	}
	a := room.Auctions[0]
	if a.Bid == nil || *a.Bid != 100 || a.BidderName == nil || *a.BidderName != "alice" {
		t.Fatalf("bid not recorded: %+v", a)
	}
}

func TestPlaceBid_FallsBackToRoomMinimumBid(t *testing.T) {
	a := openAuction(1, 1, 0)
	a.MinimumPrice = nil
	room := testRoom(a)

	err := PlaceBid(room, 1, 1, room.MinimumBid-1, "alice")
	var low *BidTooLowError
	if !errors.As(err, &low) || low.Minimum != room.MinimumBid {
		t.Fatalf("want BidTooLowError(%d), got %v", room.MinimumBid, err)
	}
	if err := PlaceBid(room, 1, 1, room.MinimumBid, "alice"); err != nil {
		t.Fatalf("bid at room floor must succeed: %v", err)
	}
}

func TestPlaceBid_IncrementRule(t *testing.T) {
	room := testRoom(openAuction(1, 1, 100)) // increment 5
	if err := PlaceBid(room, 1, 1, 100, "alice"); err != nil {
		t.Fatalf("initial bid: %v", err)
	}

	err := PlaceBid(room, 1, 1, 104, "bob")
	var low *BidTooLowError
	if !errors.As(err, &low) || low.Minimum != 105 {
		t.Fatalf("want BidTooLowError(105), got %v", err)
	}
	// Rejected bid must not displace the current one.
	if *room.Auctions[0].Bid != 100 || *room.Auctions[0].BidderName != "alice" {
		t.Fatalf("rejected bid displaced current: %+v", room.Auctions[0])
	}

	if err := PlaceBid(room, 1, 1, 105, "bob"); err != nil {
		t.Fatalf("bid of 105 must succeed: %v", err)
	}
	if *room.Auctions[0].Bid != 105 || *room.Auctions[0].BidderName != "bob" {
		t.Fatalf("bid not updated: %+v", room.Auctions[0])
	}
}

func TestPlaceBid_OnlyTargetedAuctionChanges(t *testing.T) {
	room := testRoom(openAuction(1, 1, 100), openAuction(2, 2, 100))
	if err := PlaceBid(room, 2, 2, 150, "alice"); err != nil {
		t.Fatalf("PlaceBid: %v", err)
	}
	if room.Auctions[0].Bid != nil {
		t.Fatalf("untargeted auction mutated: %+v", room.Auctions[0])
	}
}

// Bid and BidderName must stay paired across arbitrary operation sequences.
func TestEngine_BidBidderPairingInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	room := testRoom()
	items := make([]ProvisionItem, 6)
	for i := range items {
		items[i] = ProvisionItem{ItemID: 100 + rng.Intn(3)}
	}
	auctions, err := Provision(context.Background(), room, items, okLookup)
	if err != nil {
		t.Fatalf("Provision: %v", err)
	}
	room.Auctions = auctions

	check := func(step string) {
		t.Helper()
		for i, a := range room.Auctions {
			if (a.Bid == nil) != (a.BidderName == nil) {
				t.Fatalf("%s: auction %d violates pairing: bid=%v bidder=%v", step, i, a.Bid, a.BidderName)
			}
		}
	}
	check("after provision")

	for step := 0; step < 500; step++ {
		switch rng.Intn(3) {
		case 0:
			_ = Start(room, int64(1000+step))
		case 1:
			row := 1 + rng.Intn(len(room.Auctions))
			a := room.FindAuction(row, room.Auctions[row-1].ItemID)
			_ = PlaceBid(room, row, a.ItemID, rng.Intn(200), fmt.Sprintf("bidder-%d", step))
		case 2:
			// off-key bid attempts
			_ = PlaceBid(room, 99, 99, rng.Intn(200), "ghost")
		}
		check(fmt.Sprintf("step %d", step))
	}
}

func TestMinimumAcceptableBid(t *testing.T) {
	mp := 80
	bid := 100
	name := "alice"
	room := testRoom()

	cases := []struct {
		name string
		a    domain.Auction
		want int
	}{
		{"fresh with minimum price", domain.Auction{MinimumPrice: &mp}, 80},
		{"fresh without minimum price", domain.Auction{}, room.MinimumBid},
		{"existing bid plus increment", domain.Auction{MinimumPrice: &mp, Bid: &bid, BidderName: &name}, 105},
	}
	for _, tc := range cases {
		if got := MinimumAcceptableBid(room, &tc.a); got != tc.want {
			t.Errorf("%s: got %d, want %d", tc.name, got, tc.want)
		}
	}
}
