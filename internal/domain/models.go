// Package domain defines the persistence models for auction rooms and their
// auctions. The Room aggregate is mapped with GORM and stored document-style:
// the auction list lives in a single JSON-serialized column so the whole
// aggregate is always read and replaced as one unit.
package domain

import "time"

// Status is the lifecycle stage of a single auction. It only moves forward:
// Pending → Bidding → Closed.
type Status int

const (
	// StatusPending marks an auction that has been provisioned but not started.
	StatusPending Status = 1
	// StatusBidding marks an auction that is open and accepting bids.
	StatusBidding Status = 2
	// StatusClosed marks an auction that no longer accepts bids.
	StatusClosed Status = 3
)

// String returns a human-readable status name for logs and errors.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusBidding:
		return "bidding"
	case StatusClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Namespace identifies the catalog partition a room is bound to. It is fixed
// at room creation and determines which item-metadata partition lookups hit.
type Namespace string

const (
	NamespaceEra         Namespace = "era"
	NamespaceProgression Namespace = "progression"
	NamespaceRetail      Namespace = "retail"
)

// Namespaces lists every valid namespace value, in a stable order suitable
// for error messages.
func Namespaces() []Namespace {
	return []Namespace{NamespaceEra, NamespaceProgression, NamespaceRetail}
}

// Valid reports whether n is one of the fixed namespace values.
func (n Namespace) Valid() bool {
	switch n {
	case NamespaceEra, NamespaceProgression, NamespaceRetail:
		return true
	}
	return false
}

// Room is the aggregate root for a bidding session. It groups a catalog
// namespace, the bidding rules, and an ordered list of auctions.
//
// Fields:
//   - ID: stable UUID primary key (char(36)), assigned at creation, immutable.
//   - Namespace: catalog partition; immutable after creation.
//   - MinimumBid: floor starting price when an auction has no explicit minimum.
//   - MinimumBidIncrement: smallest amount a new bid must exceed the current one by.
//   - BidDurationInSeconds: how long auctions stay open once the room starts.
//   - Auctions: ordered auction list, persisted as one JSON document column.
//   - Version: optimistic-concurrency token, incremented on every successful
//     replace; internal only, never serialized to clients.
type Room struct {
	ID                   string    `json:"id"                      gorm:"type:char(36);primaryKey"`
	Namespace            Namespace `json:"namespace"               gorm:"type:varchar(16);not null"`
	MinimumBid           int       `json:"minimum_bid"             gorm:"not null"`
	MinimumBidIncrement  int       `json:"minimum_bid_increment"   gorm:"not null"`
	BidDurationInSeconds int       `json:"bid_duration_in_seconds" gorm:"not null"`
	Auctions             []Auction `json:"auctions"                gorm:"serializer:json"`
	Version              int64     `json:"-"                       gorm:"not null;default:1"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// TableName returns the database table name for Room.
func (Room) TableName() string { return "rooms" }

// FindAuction returns the auction matching the (rowID, itemID) compound key,
// or nil when no row matches.
func (r *Room) FindAuction(rowID, itemID int) *Auction {
	for i := range r.Auctions {
		a := &r.Auctions[i]
		if a.RowID == rowID && a.ItemID == itemID {
			return a
		}
	}
	return nil
}

// Auction is one biddable item within a room. It is not independently
// addressable outside its room; clients target it by the (RowID, ItemID)
// compound key because the same item may appear as several rows.
//
// The catalog-derived fields (ItemName through GUID) are a snapshot taken at
// provisioning time and are never recomputed afterwards.
//
// Invariant: Bid and BidderName are either both set or both nil.
type Auction struct {
	ItemID int    `json:"item_id"`
	RowID  int    `json:"row_id"`
	Status Status `json:"status"`

	MinimumPrice *int   `json:"minimum_price,omitempty"`
	Expiration   *int64 `json:"expiration,omitempty"` // unix seconds, set once at Pending→Bidding

	// Catalog snapshot, populated at provisioning time.
	ItemName    string `json:"item_name,omitempty"`
	Quality     int    `json:"quality,omitempty"`
	ItemLevel   int    `json:"item_level,omitempty"`
	ItemType    string `json:"item_type,omitempty"`
	ItemSubType string `json:"item_sub_type,omitempty"`
	MinLevel    int    `json:"min_level,omitempty"`
	GUID        string `json:"guid,omitempty"`

	Bid        *int    `json:"bid,omitempty"`
	BidderName *string `json:"bidder_name,omitempty"`
}

// Open reports whether the auction currently accepts bids.
func (a *Auction) Open() bool { return a.Status == StatusBidding }

// ItemMetadata is the descriptive item record returned by the external
// catalog for an (itemID, namespace) pair.
type ItemMetadata struct {
	Name     string `json:"name"`
	Quality  int    `json:"quality"`
	Level    int    `json:"level"`
	Type     string `json:"type"`
	SubType  string `json:"sub_type"`
	MinLevel int    `json:"min_level"`
	GUID     string `json:"guid"`
}

// Item is a cached catalog record. Remote metadata is static game data, so a
// successful lookup is stored once per (item_id, namespace) and reused by
// subsequent provisioning calls.
type Item struct {
	ID        string `gorm:"type:char(36);primaryKey"`
	ItemID    int    `gorm:"not null;uniqueIndex:ux_item_namespace,priority:1"`
	Namespace string `gorm:"type:varchar(16);not null;uniqueIndex:ux_item_namespace,priority:2"`
	Name      string `gorm:"type:varchar(255);not null"`
	Quality   int    `gorm:"not null"`
	Level     int    `gorm:"not null"`
	Type      string `gorm:"type:varchar(64)"`
	SubType   string `gorm:"type:varchar(64)"`
	MinLevel  int    `gorm:"not null"`
	GUID      string `gorm:"type:varchar(64)"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the database table name for Item.
func (Item) TableName() string { return "items" }

// Metadata converts a cached Item back into the catalog DTO shape.
func (i *Item) Metadata() *ItemMetadata {
	return &ItemMetadata{
		Name:     i.Name,
		Quality:  i.Quality,
		Level:    i.Level,
		Type:     i.Type,
		SubType:  i.SubType,
		MinLevel: i.MinLevel,
		GUID:     i.GUID,
	}
}
